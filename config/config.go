// Package config holds the run configuration for the puzzle-mining tools.
// Every component takes a *Config (or a sub-struct of it) at construction;
// there is no ambient global configuration.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config collects every tunable knob across the tools. Values come from
// defaults, an optional config file, and KNIGHTBACK_* environment
// variables, in increasing order of precedence.
type Config struct {
	// Path to a UCI engine binary. The engine must exist at startup;
	// a missing binary is fatal before any game is read.
	EnginePath string
	// Engine process options, sent once at session start.
	EngineHashMB  int
	EngineThreads int
	// Number of ranked principal variations requested per preliminary
	// query. Must be at least 2 so a genuine alternative to the suspect
	// move can appear among the lines.
	MultiPV int

	// Effort limits for the two evaluation stages. Depth takes
	// precedence over move time when both are set for a stage.
	PrelimMoveTime time.Duration
	PrelimDepth    int
	FullMoveTime   time.Duration
	FullDepth      int

	// Minimum centipawn advantage the backward move must hold over
	// every alternative (inclusive boundary).
	ScoreMargin int
	// Stop scanning once this many candidates have been collected.
	MaxPuzzles int
	// Games where either player is rated below this are skipped.
	// Zero disables the gate.
	MinRating int
	// Full moves to skip at the start of each game before any
	// backward-knight check runs.
	SkipOpeningMoves int

	Debug bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		EnginePath:       "/usr/local/bin/stockfish",
		EngineHashMB:     256,
		EngineThreads:    1,
		MultiPV:          3,
		PrelimMoveTime:   100 * time.Millisecond,
		PrelimDepth:      0,
		FullMoveTime:     500 * time.Millisecond,
		FullDepth:        0,
		ScoreMargin:      150,
		MaxPuzzles:       200,
		MinRating:        0,
		SkipOpeningMoves: 8,
	}
}

// Load reads configuration from the environment (KNIGHTBACK_ENGINE_PATH,
// KNIGHTBACK_SCORE_MARGIN, ...) and an optional knightback.yaml in the
// working directory, on top of the defaults.
func (c *Config) Load() error {
	v := viper.New()
	v.SetEnvPrefix("knightback")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("engine-path", d.EnginePath)
	v.SetDefault("engine-hash-mb", d.EngineHashMB)
	v.SetDefault("engine-threads", d.EngineThreads)
	v.SetDefault("multi-pv", d.MultiPV)
	v.SetDefault("prelim-move-time", d.PrelimMoveTime)
	v.SetDefault("prelim-depth", d.PrelimDepth)
	v.SetDefault("full-move-time", d.FullMoveTime)
	v.SetDefault("full-depth", d.FullDepth)
	v.SetDefault("score-margin", d.ScoreMargin)
	v.SetDefault("max-puzzles", d.MaxPuzzles)
	v.SetDefault("min-rating", d.MinRating)
	v.SetDefault("skip-opening-moves", d.SkipOpeningMoves)
	v.SetDefault("debug", false)

	v.SetConfigName("knightback")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.EnginePath = v.GetString("engine-path")
	c.EngineHashMB = v.GetInt("engine-hash-mb")
	c.EngineThreads = v.GetInt("engine-threads")
	c.MultiPV = v.GetInt("multi-pv")
	c.PrelimMoveTime = v.GetDuration("prelim-move-time")
	c.PrelimDepth = v.GetInt("prelim-depth")
	c.FullMoveTime = v.GetDuration("full-move-time")
	c.FullDepth = v.GetInt("full-depth")
	c.ScoreMargin = v.GetInt("score-margin")
	c.MaxPuzzles = v.GetInt("max-puzzles")
	c.MinRating = v.GetInt("min-rating")
	c.SkipOpeningMoves = v.GetInt("skip-opening-moves")
	c.Debug = v.GetBool("debug")
	return nil
}
