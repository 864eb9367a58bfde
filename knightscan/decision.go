package knightscan

import (
	"errors"

	"github.com/notnil/chess"
	"github.com/samber/lo"

	"github.com/chesscrit/knightback/engine"
)

// DecisionState tracks a candidate through the two-stage filter.
type DecisionState int

const (
	// Unchecked means no engine query has run for the candidate yet.
	Unchecked DecisionState = iota
	// PrelimPass means the cheap multi-PV query indicates the move is
	// plausibly best; the expensive full stage may run.
	PrelimPass
	// PrelimFail rejects the candidate before any full-budget query.
	PrelimFail
	// FullPass is terminal success: the move beat every alternative by
	// the margin at the full budget.
	FullPass
	// FullFail rejects the candidate at the full budget.
	FullFail
)

func (s DecisionState) String() string {
	switch s {
	case Unchecked:
		return "Unchecked"
	case PrelimPass:
		return "PrelimPass"
	case PrelimFail:
		return "PrelimFail"
	case FullPass:
		return "FullPass"
	case FullFail:
		return "FullFail"
	default:
		return "Unknown"
	}
}

// prelimLimit and fullLimit translate the config budgets for the adapter.
func (s *Scanner) prelimLimit() engine.EffortLimit {
	return engine.EffortLimit{
		MoveTimeMs: s.cfg.PrelimMoveTime.Milliseconds(),
		Depth:      s.cfg.PrelimDepth,
	}
}

func (s *Scanner) fullLimit() engine.EffortLimit {
	return engine.EffortLimit{
		MoveTimeMs: s.cfg.FullMoveTime.Milliseconds(),
		Depth:      s.cfg.FullDepth,
	}
}

// scoreMove evaluates one legal move from the candidate position, returning
// a score from the mover's perspective. The engine scores the position
// after the move relative to the opponent, so the sign flips. Immediately
// terminal children never reach the engine.
func (s *Scanner) scoreMove(pos *chess.Position, m *chess.Move, limit engine.EffortLimit) (int, error) {
	child := pos.Update(m)
	switch child.Status() {
	case chess.Checkmate:
		return engine.MateScore, nil
	case chess.Stalemate:
		return 0, nil
	}
	line, err := s.eval.Evaluate(child.String(), limit)
	if err != nil {
		return 0, err
	}
	return -line.Score, nil
}

// prelimCheck runs the cheap stage: one multi-PV query of the pre-move
// position. The candidate passes if the engine's top suggestion is the
// backward move itself, or if the backward move's quick score clears the
// best distinct alternative by the margin. When the ranked lines contain
// no distinct alternative the candidate is disqualified rather than
// promoted on a guess.
func (s *Scanner) prelimCheck(pos *chess.Position, cand *CandidateMove) (DecisionState, error) {
	lines, err := s.eval.BestLines(cand.FEN, s.prelimLimit())
	if err != nil {
		if errors.Is(err, engine.ErrNoScore) {
			return PrelimFail, nil
		}
		return Unchecked, err
	}
	if lines[0].Move == cand.UCI {
		return PrelimPass, nil
	}
	alt, found := lo.Find(lines, func(l engine.Line) bool {
		return l.Move != cand.UCI
	})
	if !found {
		return PrelimFail, nil
	}

	suspectScore := 0
	suspectKnown := false
	for _, l := range lines {
		if l.Move == cand.UCI {
			suspectScore = l.Score
			suspectKnown = true
			break
		}
	}
	if !suspectKnown {
		suspectScore, err = s.scoreMove(pos, cand.Move, s.prelimLimit())
		if err != nil {
			if errors.Is(err, engine.ErrNoScore) {
				return PrelimFail, nil
			}
			return Unchecked, err
		}
	}

	if suspectScore >= alt.Score+s.cfg.ScoreMargin {
		return PrelimPass, nil
	}
	return PrelimFail, nil
}

// fullCheck runs the expensive stage: every legal move re-evaluated at the
// full budget, since the cheap pass may have mis-ranked alternatives. The
// backward move must beat the best surviving alternative by the margin
// (inclusive). Alternatives whose evaluation fails are dropped from the
// comparison; a failure on the backward move itself disqualifies.
func (s *Scanner) fullCheck(pos *chess.Position, cand *CandidateMove) (DecisionState, *PositionRecord, error) {
	limit := s.fullLimit()
	notation := chess.AlgebraicNotation{}
	uciNote := chess.UCINotation{}

	scores := make(map[string]int)
	sanScores := make(map[string]int)
	for _, m := range pos.ValidMoves() {
		mUCI := uciNote.Encode(pos, m)
		sc, err := s.scoreMove(pos, m, limit)
		if err != nil {
			if errors.Is(err, engine.ErrNoScore) {
				if mUCI == cand.UCI {
					return FullFail, nil, nil
				}
				continue
			}
			return Unchecked, nil, err
		}
		scores[mUCI] = sc
		sanScores[notation.Encode(pos, m)] = sc
	}

	suspectScore, ok := scores[cand.UCI]
	if !ok {
		return FullFail, nil, nil
	}

	others := lo.OmitByKeys(scores, []string{cand.UCI})
	record := &PositionRecord{
		FEN:           cand.FEN,
		SolutionSAN:   cand.SAN,
		SolutionUCI:   cand.UCI,
		MoveNumber:    cand.MoveNumber,
		Turn:          cand.Turn,
		SolutionScore: suspectScore,
		AllScores:     sanScores,
	}
	if len(others) == 0 {
		// Every alternative failed to evaluate; with the backward move
		// itself scored there is nothing left to beat it.
		return FullPass, record, nil
	}
	nextBest := lo.Max(lo.Values(others))
	record.NextBestScore = nextBest
	record.NextBestKnown = true
	if suspectScore >= nextBest+s.cfg.ScoreMargin {
		return FullPass, record, nil
	}
	return FullFail, nil, nil
}
