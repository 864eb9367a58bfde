// Package engine wraps a long-lived UCI engine session behind the small
// query surface the position scanner needs. One process is started per run
// and reused for every query; callers must Close it on all exit paths.
package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog/log"

	"github.com/chesscrit/knightback/config"
)

// MateScore is the sentinel magnitude forced-mate scores are mapped to.
// A mate in n for the side to move becomes MateScore - n, a mate against
// becomes -MateScore + n, so shorter mates always compare higher.
const MateScore = 30000

// ErrNoScore means the engine answered but produced no usable line for
// the query (terminal position, malformed FEN, instant stop). The caller
// disqualifies the current position and keeps scanning.
var ErrNoScore = errors.New("engine returned no score")

// ErrSession means the engine session itself is unusable (process died,
// pipe closed). Unlike ErrNoScore this is not recoverable per-position.
var ErrSession = errors.New("engine session failed")

// EffortLimit bounds a single query. Depth takes precedence when both
// fields are set; a query with neither set is a caller bug.
type EffortLimit struct {
	MoveTimeMs int64
	Depth      int
}

// Line is one ranked engine reply for a position.
type Line struct {
	Move  string // first move of the line, coordinate (UCI) notation
	Score int    // centipawns from the side to move, mates mapped via MateScore
	Depth int
}

// Evaluator is the engine boundary. The scanner depends on this interface
// so decision logic can be tested against a scripted fake.
type Evaluator interface {
	// BestLines returns the engine's ranked candidate replies for the
	// position, best first. The number of lines is bounded by the
	// MultiPV option the session was configured with.
	BestLines(fen string, limit EffortLimit) ([]Line, error)
	// Evaluate scores the position as a whole, from the perspective of
	// the side to move in fen.
	Evaluate(fen string, limit EffortLimit) (Line, error)
}

// Engine is the real Evaluator over a UCI subprocess.
type Engine struct {
	eng *uci.Engine
}

// New starts the engine process and applies the session options. A missing
// binary at cfg.EnginePath is an immediate error; nothing else should be
// attempted before this succeeds.
func New(cfg *config.Config) (*Engine, error) {
	if _, err := os.Stat(cfg.EnginePath); err != nil {
		return nil, fmt.Errorf("engine binary not found at %s: %w", cfg.EnginePath, err)
	}
	eng, err := uci.NewEngine(cfg.EnginePath)
	if err != nil {
		return nil, fmt.Errorf("start engine: %w", err)
	}
	multiPV := cfg.MultiPV
	if multiPV < 2 {
		multiPV = 2
	}
	opts := uci.Options{
		Hash:    cfg.EngineHashMB,
		Threads: cfg.EngineThreads,
		MultiPV: multiPV,
		Ponder:  false,
		OwnBook: false,
	}
	if err := eng.SetOptions(opts); err != nil {
		eng.Close()
		return nil, fmt.Errorf("set engine options: %w", err)
	}
	log.Info().
		Str("path", cfg.EnginePath).
		Int("hash-mb", cfg.EngineHashMB).
		Int("threads", cfg.EngineThreads).
		Int("multi-pv", multiPV).
		Msg("engine session started")
	return &Engine{eng: eng}, nil
}

// Close terminates the engine process. Safe to call more than once.
func (e *Engine) Close() {
	if e.eng != nil {
		e.eng.Close()
		e.eng = nil
	}
}

func (e *Engine) search(fen string, limit EffortLimit) (*uci.Results, error) {
	if e.eng == nil {
		return nil, ErrSession
	}
	if err := e.eng.SetFEN(fen); err != nil {
		// A write failure here means the process is gone.
		return nil, fmt.Errorf("%w: set position: %v", ErrSession, err)
	}
	var results *uci.Results
	var err error
	if limit.Depth > 0 {
		results, err = e.eng.GoDepth(limit.Depth, uci.HighestDepthOnly)
	} else {
		results, err = e.eng.Go(0, "", limit.MoveTimeMs, uci.HighestDepthOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrSession, err)
	}
	return results, nil
}

// BestLines implements Evaluator.
func (e *Engine) BestLines(fen string, limit EffortLimit) ([]Line, error) {
	results, err := e.search(fen, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(results.Results))
	seen := make(map[string]bool)
	for _, r := range results.Results {
		if len(r.BestMoves) == 0 {
			continue
		}
		mv := r.BestMoves[0]
		if seen[mv] {
			continue
		}
		seen[mv] = true
		lines = append(lines, Line{
			Move:  mv,
			Score: normalizeScore(r.Score, r.Mate),
			Depth: r.Depth,
		})
	}
	if len(lines) == 0 {
		return nil, ErrNoScore
	}
	return lines, nil
}

// Evaluate implements Evaluator.
func (e *Engine) Evaluate(fen string, limit EffortLimit) (Line, error) {
	results, err := e.search(fen, limit)
	if err != nil {
		return Line{}, err
	}
	for _, r := range results.Results {
		if len(r.BestMoves) == 0 {
			continue
		}
		return Line{
			Move:  r.BestMoves[0],
			Score: normalizeScore(r.Score, r.Mate),
			Depth: r.Depth,
		}, nil
	}
	return Line{}, ErrNoScore
}

// normalizeScore maps a raw UCI score into comparable centipawns. Mate
// distances fold into the MateScore sentinel so they dominate any
// positional score while still preferring the shorter mate.
func normalizeScore(score int, mate bool) int {
	if !mate {
		return score
	}
	if score > 0 {
		return MateScore - score
	}
	return -MateScore - score
}
