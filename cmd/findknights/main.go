package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chesscrit/knightback/config"
	"github.com/chesscrit/knightback/engine"
	"github.com/chesscrit/knightback/knightscan"
	"github.com/chesscrit/knightback/pgnio"
)

func main() {
	pgnPath := flag.String("pgn", "", "PGN file with games to scan")
	outPath := flag.String("out", "candidates.pgn", "output file for candidate positions")
	maxPuzzles := flag.Int("max", 0, "stop after this many candidates (0 = config default)")
	minRating := flag.Int("minrating", 0, "skip games where either player is rated below this (0 = config default)")
	flag.Parse()

	cfg := &config.Config{}
	if err := cfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if *maxPuzzles > 0 {
		cfg.MaxPuzzles = *maxPuzzles
	}
	if *minRating > 0 {
		cfg.MinRating = *minRating
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *pgnPath == "" {
		log.Fatal().Msg("must specify -pgn")
	}
	in, err := os.Open(*pgnPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *pgnPath).Msg("opening games file")
	}
	defer in.Close()

	eval, err := engine.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("starting engine")
	}
	defer eval.Close()

	scanner := knightscan.New(cfg, eval)
	result, scanErr := scanner.ScanPGN(in)
	if scanErr != nil {
		// A dead engine session ends the scan early but whatever was
		// found up to that point is still worth keeping.
		log.Error().Err(scanErr).Msg("scan ended early")
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("creating output file")
	}
	defer out.Close()

	if err := pgnio.WriteAll(out, result.Records); err != nil {
		log.Fatal().Err(err).Msg("writing candidates")
	}

	log.Info().
		Int("games-scanned", result.GamesScanned).
		Int("games-skipped", result.GamesSkipped).
		Int("positions-checked", result.Checked).
		Int("prelim-passed", result.PrelimPassed).
		Int("full-passed", result.FullPassed).
		Int("candidates", len(result.Records)).
		Msg("scan complete")

	if st := scanner.ScoreStats(); st.Count() > 0 {
		log.Info().
			Float64("mean", st.Mean()).
			Float64("stdev", st.Stdev()).
			Float64("min", st.Min()).
			Float64("max", st.Max()).
			Msg("solution score distribution")
	}

	if scanErr != nil {
		os.Exit(1)
	}
}
