package main

import (
	"flag"
	"os"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chesscrit/knightback/lichess"
)

func main() {
	csvPath := flag.String("csv", "", "lichess puzzle CSV export")
	outPath := flag.String("out", "lichess-puzzles.pgn", "output PGN file")
	minRating := flag.Int("minrating", 1400, "minimum puzzle rating")
	maxRating := flag.Int("maxrating", 2200, "maximum puzzle rating")
	include := flag.String("themes", "", "comma-separated themes, keep puzzles matching any")
	exclude := flag.String("exclude", "", "comma-separated themes to drop")
	maxPuzzles := flag.Int("max", 500, "stop after this many puzzles (0 = no cap)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *csvPath == "" {
		log.Fatal().Msg("must specify -csv")
	}

	opts := lichess.FilterOptions{
		MinRating:     *minRating,
		MaxRating:     *maxRating,
		IncludeThemes: splitThemes(*include),
		ExcludeThemes: splitThemes(*exclude),
		MaxPuzzles:    *maxPuzzles,
	}
	puzzles, err := lichess.FilterFile(*csvPath, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("filtering puzzles")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("creating output file")
	}
	defer out.Close()

	written, err := lichess.ExportPGN(out, puzzles)
	if err != nil {
		log.Fatal().Err(err).Msg("writing puzzles")
	}
	log.Info().Int("selected", len(puzzles)).Int("written", written).Msg("done")

	if len(puzzles) > 1 {
		ratings := make([]float64, len(puzzles))
		for i, p := range puzzles {
			ratings[i] = float64(p.Rating)
		}
		hist := histogram.Hist(10, ratings)
		histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
	}
}

func splitThemes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
