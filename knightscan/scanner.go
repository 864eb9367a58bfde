// Package knightscan walks chess games looking for "backward knight move"
// positions that an engine judges significantly better than every
// alternative, via a cheap-then-expensive two-stage filter.
package knightscan

import (
	"io"
	"strconv"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/chesscrit/knightback/config"
	"github.com/chesscrit/knightback/engine"
	"github.com/chesscrit/knightback/stats"
)

// Scanner scans PGN games for critical backward knight moves.
type Scanner struct {
	cfg  *config.Config
	eval engine.Evaluator

	scoreStats *stats.Statistic
}

// New creates a Scanner. The evaluator is typically a *engine.Engine; tests
// pass a scripted fake.
func New(cfg *config.Config, eval engine.Evaluator) *Scanner {
	return &Scanner{
		cfg:        cfg,
		eval:       eval,
		scoreStats: &stats.Statistic{},
	}
}

// ScoreStats exposes the running solution-score statistics for the
// end-of-run summary.
func (s *Scanner) ScoreStats() *stats.Statistic {
	return s.scoreStats
}

// IsBackwardKnightMove reports whether m moves a knight to a rank strictly
// behind its origin, relative to the mover's forward direction. Purely
// positional; no search.
func IsBackwardKnightMove(pos *chess.Position, m *chess.Move) bool {
	if pos.Board().Piece(m.S1()).Type() != chess.Knight {
		return false
	}
	fromRank, toRank := m.S1().Rank(), m.S2().Rank()
	if pos.Turn() == chess.White {
		return toRank < fromRank
	}
	return toRank > fromRank
}

// ScanPGN reads games from r until EOF or until MaxPuzzles records have
// been collected. Malformed games and games failing the rating gate are
// skipped with a warning. A session-level engine failure aborts the
// remainder of the scan but the records collected so far are still
// returned alongside the error.
func (s *Scanner) ScanPGN(r io.Reader) (*ScanResult, error) {
	result := &ScanResult{}
	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		g := scanner.Next()
		result.GamesScanned++
		if !s.ratingGatePasses(g) {
			result.GamesSkipped++
			continue
		}
		log.Debug().Int("game", result.GamesScanned).Msg("scanning game")

		if err := s.scanGame(g, result); err != nil {
			return result, err
		}
		if s.cfg.MaxPuzzles > 0 && len(result.Records) >= s.cfg.MaxPuzzles {
			log.Info().Int("max-puzzles", s.cfg.MaxPuzzles).Msg("candidate cap reached, stopping scan")
			break
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		// A syntax error in one game poisons the rest of the stream;
		// report it but keep what we found.
		log.Warn().Err(err).Msg("pgn stream ended with parse error")
	}
	return result, nil
}

// ratingGatePasses applies the minimum-participant-rating gate. With the
// gate enabled, both Elo tags must parse and clear the bar; anything else
// skips the game with a warning.
func (s *Scanner) ratingGatePasses(g *chess.Game) bool {
	if s.cfg.MinRating <= 0 {
		return true
	}
	for _, key := range []string{"WhiteElo", "BlackElo"} {
		tp := g.GetTagPair(key)
		if tp == nil {
			log.Warn().Str("tag", key).Msg("game missing rating tag, skipping")
			return false
		}
		rating, err := strconv.Atoi(tp.Value)
		if err != nil {
			log.Warn().Str("tag", key).Str("value", tp.Value).Msg("unparseable rating, skipping game")
			return false
		}
		if rating < s.cfg.MinRating {
			return false
		}
	}
	return true
}

func (s *Scanner) scanGame(g *chess.Game, result *ScanResult) error {
	moves := g.Moves()
	positions := g.Positions()
	notation := chess.AlgebraicNotation{}
	uciNote := chess.UCINotation{}

	moveNumber := 0
	for i, m := range moves {
		pos := positions[i]
		if pos.Turn() == chess.White {
			moveNumber++
		}
		if moveNumber <= s.cfg.SkipOpeningMoves {
			continue
		}
		if !IsBackwardKnightMove(pos, m) {
			continue
		}
		// With a single legal move there is no alternative to beat;
		// never bother the engine.
		if len(pos.ValidMoves()) <= 1 {
			continue
		}

		cand := &CandidateMove{
			Move:       m,
			SAN:        notation.Encode(pos, m),
			UCI:        uciNote.Encode(pos, m),
			FEN:        pos.String(),
			Turn:       pos.Turn(),
			MoveNumber: moveNumber,
		}
		result.Checked++
		log.Debug().
			Str("move", cand.SAN).
			Int("move-number", moveNumber).
			Str("fen", cand.FEN).
			Msg("evaluating backward knight move")

		state, err := s.prelimCheck(pos, cand)
		if err != nil {
			return err
		}
		if state != PrelimPass {
			continue
		}
		result.PrelimPassed++

		fullState, record, err := s.fullCheck(pos, cand)
		if err != nil {
			return err
		}
		if fullState != FullPass {
			continue
		}
		result.FullPassed++

		record.Tags = gameTags(g)
		result.Records = append(result.Records, record)
		s.scoreStats.Push(float64(record.SolutionScore))
		log.Info().
			Str("move", record.SolutionSAN).
			Int("score", record.SolutionScore).
			Int("next-best", record.NextBestScore).
			Int("collected", len(result.Records)).
			Msg("found critical backward knight move")

		if s.cfg.MaxPuzzles > 0 && len(result.Records) >= s.cfg.MaxPuzzles {
			return nil
		}
	}
	return nil
}

func gameTags(g *chess.Game) []Tag {
	pairs := g.TagPairs()
	tags := make([]Tag, 0, len(pairs))
	for _, tp := range pairs {
		tags = append(tags, Tag{Key: tp.Key, Value: tp.Value})
	}
	return tags
}
