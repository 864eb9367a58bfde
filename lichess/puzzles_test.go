package lichess

import (
	"io"
	"strings"
	"testing"

	"github.com/matryer/is"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
const shiftedFEN = "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 1 1"

const csvHeader = "PuzzleId,FEN,Moves,Rating,RatingDeviation,Popularity,NbPlays,Themes,GameUrl,OpeningTags\n"

func puzzleRow(id string, rating, themes string) string {
	return id + "," + startFEN + ",g1f3 g8f6 b1c3," + rating + ",75,95,1000," + themes + ",https://lichess.org/x,\n"
}

func openFor(data string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(data)), nil
	}
}

func TestFilterRatingAndThemes(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "1500", "fork middlegame") +
		puzzleRow("p2", "1200", "fork middlegame") +
		puzzleRow("p3", "1600", "mateIn1 short") +
		puzzleRow("p4", "1700", "pin endgame")

	opts := FilterOptions{
		MinRating:     1400,
		MaxRating:     1800,
		ExcludeThemes: []string{"mateIn1"},
		StartRow:      1,
	}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	is.Equal(len(puzzles), 2)

	for _, p := range puzzles {
		is.True(p.Rating >= opts.MinRating)
		is.True(p.Rating <= opts.MaxRating)
		for _, theme := range p.Themes {
			is.True(theme != "mateIn1")
		}
		// Shifted past the setup move.
		is.Equal(p.FEN, shiftedFEN)
		is.Equal(p.Moves, []string{"g8f6", "b1c3"})
	}
	is.Equal(puzzles[0].ID, "p1")
	is.Equal(puzzles[1].ID, "p4")
}

func TestFilterIncludeThemes(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "1500", "fork middlegame") +
		puzzleRow("p2", "1500", "pin endgame")

	opts := FilterOptions{
		MinRating:     1000,
		MaxRating:     2000,
		IncludeThemes: []string{"pin"},
		StartRow:      1,
	}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	is.Equal(len(puzzles), 1)
	is.Equal(puzzles[0].ID, "p2")
}

func TestFilterWrapAround(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "1500", "fork") +
		puzzleRow("p2", "1500", "fork") +
		puzzleRow("p3", "1500", "fork") +
		puzzleRow("p4", "1500", "fork")

	opts := FilterOptions{MinRating: 1000, MaxRating: 2000, StartRow: 2}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	// Start at row 2, run to the end, then wrap to the beginning.
	is.Equal(len(puzzles), 4)
	is.Equal(puzzles[0].ID, "p2")
	is.Equal(puzzles[1].ID, "p3")
	is.Equal(puzzles[2].ID, "p4")
	is.Equal(puzzles[3].ID, "p1")
}

func TestFilterMaxPuzzles(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "1500", "fork") +
		puzzleRow("p2", "1500", "fork") +
		puzzleRow("p3", "1500", "fork")

	opts := FilterOptions{MinRating: 1000, MaxRating: 2000, MaxPuzzles: 2, StartRow: 1}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	is.Equal(len(puzzles), 2)
}

func TestFilterSkipsMalformedRating(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "abc", "fork") +
		puzzleRow("p2", "1500", "fork")

	opts := FilterOptions{MinRating: 1000, MaxRating: 2000, StartRow: 1}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	is.Equal(len(puzzles), 1)
	is.Equal(puzzles[0].ID, "p2")
}

func TestFilterEmptyDataset(t *testing.T) {
	is := is.New(t)
	_, err := filter(openFor(csvHeader), FilterOptions{MinRating: 0, MaxRating: 3000})
	is.Equal(err, ErrEmptyDataset)
}

func TestFilterRandomStartStaysInBounds(t *testing.T) {
	is := is.New(t)
	data := csvHeader +
		puzzleRow("p1", "1500", "fork") +
		puzzleRow("p2", "1500", "fork") +
		puzzleRow("p3", "1500", "fork")

	// StartRow unset: a random start must still visit every row once.
	opts := FilterOptions{MinRating: 1000, MaxRating: 2000}
	puzzles, err := filter(openFor(data), opts)
	is.NoErr(err)
	is.Equal(len(puzzles), 3)
	seen := map[string]bool{}
	for _, p := range puzzles {
		seen[p.ID] = true
	}
	is.Equal(len(seen), 3)
}
