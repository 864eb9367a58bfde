package main

import (
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chesscrit/knightback/pgnio"
)

func main() {
	inPath := flag.String("in", "", "PGN collection to filter")
	keptPath := flag.String("kept", "filtered.pgn", "output file for entries above the threshold")
	droppedPath := flag.String("dropped", "", "optional output file for rejected entries")
	threshold := flag.Int("threshold", -200, "keep entries whose SolutionScore exceeds this")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *inPath == "" {
		log.Fatal().Msg("must specify -in")
	}
	in, err := os.Open(*inPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inPath).Msg("opening collection")
	}
	defer in.Close()

	kept, err := os.Create(*keptPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *keptPath).Msg("creating output file")
	}
	defer kept.Close()

	var dropped io.Writer
	if *droppedPath != "" {
		f, err := os.Create(*droppedPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *droppedPath).Msg("creating rejects file")
		}
		defer f.Close()
		dropped = f
	}

	result, err := pgnio.FilterByScore(in, kept, dropped, *threshold)
	if err != nil {
		log.Fatal().Err(err).Msg("filtering collection")
	}
	log.Info().
		Int("kept", result.Kept).
		Int("dropped", result.Dropped).
		Int("threshold", *threshold).
		Msg("filter complete")
}
