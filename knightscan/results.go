package knightscan

import "github.com/notnil/chess"

// Tag is one PGN header pair carried from the source game onto a record.
type Tag struct {
	Key   string
	Value string
}

// CandidateMove is a backward knight move under evaluation. It is derived
// from the walker's board state and discarded once classified.
type CandidateMove struct {
	Move       *chess.Move
	SAN        string
	UCI        string
	FEN        string // position before the move
	Turn       chess.Color
	MoveNumber int
}

// PositionRecord is the final qualifying artifact: the position before the
// critical move plus everything needed to re-export it as a puzzle.
// Immutable once created.
type PositionRecord struct {
	FEN         string
	SolutionSAN string
	SolutionUCI string
	MoveNumber  int
	Turn        chess.Color

	// Full-stage scores, side-to-move relative.
	SolutionScore int
	NextBestScore int
	NextBestKnown bool

	// Every alternative that evaluated successfully, SAN -> score.
	// Kept for context in logs and debugging sessions.
	AllScores map[string]int

	// Headers of the originating game, in original order.
	Tags []Tag
}

// ScanResult aggregates one run of the scanner.
type ScanResult struct {
	Records      []*PositionRecord
	GamesScanned int
	GamesSkipped int
	// Positions that reached the preliminary stage, and how many of
	// those survived each stage.
	Checked      int
	PrelimPassed int
	FullPassed   int
}
