package engine

import (
	"testing"

	"github.com/matryer/is"

	"github.com/chesscrit/knightback/config"
)

func testConfig() *config.Config {
	return config.DefaultConfig()
}

func TestNormalizeScore(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		score    int
		mate     bool
		expected int
	}{
		{0, false, 0},
		{137, false, 137},
		{-512, false, -512},
		{1, true, MateScore - 1},
		{5, true, MateScore - 5},
		{-1, true, -MateScore + 1},
		{-4, true, -MateScore + 4},
	}
	for _, c := range cases {
		is.Equal(normalizeScore(c.score, c.mate), c.expected)
	}
}

func TestNormalizeScoreOrdering(t *testing.T) {
	is := is.New(t)
	// A shorter mate must always beat a longer one, and any mate for us
	// must beat any centipawn score.
	is.True(normalizeScore(1, true) > normalizeScore(3, true))
	is.True(normalizeScore(9, true) > normalizeScore(2500, false))
	is.True(normalizeScore(-2, true) < normalizeScore(-2500, false))
	is.True(normalizeScore(-2, true) < normalizeScore(-7, true))
}

func TestMissingBinaryFails(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.EnginePath = "/nonexistent/stockfish"
	_, err := New(cfg)
	is.True(err != nil)
}
