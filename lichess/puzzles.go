// Package lichess filters the lichess puzzle CSV export by rating and
// theme, shifts each puzzle past its setup move, and re-exports the
// survivors as FEN-seeded PGN entries.
package lichess

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Puzzle is one surviving puzzle, already shifted past the setup move: FEN
// is the position the solver actually faces and Moves holds the remaining
// solution in coordinate notation.
type Puzzle struct {
	ID     string
	FEN    string
	Moves  []string
	Rating int
	Themes []string
}

// FilterOptions bounds a filtering run.
type FilterOptions struct {
	MinRating     int
	MaxRating     int
	IncludeThemes []string // keep only puzzles with at least one of these
	ExcludeThemes []string // drop puzzles with any of these
	MaxPuzzles    int      // stop after this many survivors; 0 = no cap

	// StartRow pins the 1-based row the wrap-around scan begins from.
	// Zero picks a random row, so repeated runs sample different
	// subsets of a dataset too large to load at once.
	StartRow int
}

var ErrEmptyDataset = errors.New("puzzle dataset is empty")

type segment struct {
	first, last int
}

// FilterFile runs the wrap-around filter over the CSV at path. The file
// is opened twice: once to count rows, once per scan segment.
func FilterFile(path string, opts FilterOptions) ([]*Puzzle, error) {
	open := func() (io.ReadCloser, error) { return os.Open(path) }
	return filter(open, opts)
}

func filter(open func() (io.ReadCloser, error), opts FilterOptions) ([]*Puzzle, error) {
	total, err := countRows(open)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrEmptyDataset
	}

	start := opts.StartRow
	if start <= 0 {
		start = frand.Intn(total) + 1
	}
	log.Info().Int("start-row", start).Int("total-rows", total).Msg("wrap-around scan")

	// Scan from the random start to the end, then wrap to the
	// beginning, so early rows are not favored across runs.
	var segments []segment
	if start > total/2 {
		segments = []segment{{1, start - 1}, {start, total}}
	} else {
		segments = []segment{{start, total}, {1, start - 1}}
	}

	var selected []*Puzzle
	for _, seg := range segments {
		if seg.first > seg.last {
			continue
		}
		done, err := scanSegment(open, seg, opts, &selected)
		if err != nil {
			return selected, err
		}
		if done {
			break
		}
	}
	return selected, nil
}

func countRows(open func() (io.ReadCloser, error)) (int, error) {
	f, err := open()
	if err != nil {
		return 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := newCSVReader(f)
	if _, err := reader.Read(); err != nil { // header
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	total := 0
	for {
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("count rows: %w", err)
		}
		total++
	}
	return total, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

func scanSegment(open func() (io.ReadCloser, error), seg segment, opts FilterOptions, selected *[]*Puzzle) (bool, error) {
	f, err := open()
	if err != nil {
		return false, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := newCSVReader(f)
	header, err := reader.Read()
	if err != nil {
		return false, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"PuzzleId", "FEN", "Moves", "Rating", "Themes"} {
		if _, ok := cols[required]; !ok {
			return false, fmt.Errorf("dataset missing column %s", required)
		}
	}

	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("row", row+1).Msg("skipping malformed row")
			row++
			continue
		}
		row++
		if row < seg.first {
			continue
		}
		if row > seg.last {
			break
		}
		p := convertRow(record, cols, opts)
		if p == nil {
			continue
		}
		*selected = append(*selected, p)
		if len(*selected)%100 == 0 {
			log.Info().Int("found", len(*selected)).Int("row", row).Msg("filter progress")
		}
		if opts.MaxPuzzles > 0 && len(*selected) >= opts.MaxPuzzles {
			return true, nil
		}
	}
	return false, nil
}

// convertRow applies the rating and theme filters, then shifts the puzzle
// past its first recorded move to the position the solver faces. Any
// malformed field skips the row with a warning; the scan never aborts on
// data errors.
func convertRow(record []string, cols map[string]int, opts FilterOptions) *Puzzle {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	rating, err := strconv.Atoi(field("Rating"))
	if err != nil {
		log.Warn().Str("puzzle", field("PuzzleId")).Str("rating", field("Rating")).Msg("unparseable rating, skipping")
		return nil
	}
	if rating < opts.MinRating || rating > opts.MaxRating {
		return nil
	}

	themes := strings.Fields(field("Themes"))
	if len(opts.IncludeThemes) > 0 && !lo.Some(themes, opts.IncludeThemes) {
		return nil
	}
	if len(opts.ExcludeThemes) > 0 && lo.Some(themes, opts.ExcludeThemes) {
		return nil
	}

	moves := strings.Fields(field("Moves"))
	if len(moves) < 2 {
		log.Warn().Str("puzzle", field("PuzzleId")).Msg("too few solution moves, skipping")
		return nil
	}

	fenOpt, err := chess.FEN(field("FEN"))
	if err != nil {
		log.Warn().Str("puzzle", field("PuzzleId")).Err(err).Msg("bad FEN, skipping")
		return nil
	}
	g := chess.NewGame(fenOpt)
	setup, err := chess.UCINotation{}.Decode(g.Position(), moves[0])
	if err != nil {
		log.Warn().Str("puzzle", field("PuzzleId")).Err(err).Msg("bad setup move, skipping")
		return nil
	}
	if err := g.Move(setup); err != nil {
		log.Warn().Str("puzzle", field("PuzzleId")).Err(err).Msg("illegal setup move, skipping")
		return nil
	}

	return &Puzzle{
		ID:     field("PuzzleId"),
		FEN:    g.Position().String(),
		Moves:  moves[1:],
		Rating: rating,
		Themes: themes,
	}
}
