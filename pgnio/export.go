// Package pgnio serializes qualifying positions as single-position PGN
// entries and filters exported collections by their stored solution score.
package pgnio

import (
	"fmt"
	"io"

	"github.com/chesscrit/knightback/knightscan"
)

// Tags written by the exporter itself; same-named tags from the source
// game are dropped rather than duplicated.
var exporterTags = map[string]bool{
	"FEN":           true,
	"SetUp":         true,
	"SolutionMove":  true,
	"SolutionScore": true,
	"NextBestScore": true,
	"MoveNumber":    true,
	"TurnToPlay":    true,
}

// WriteRecord serializes one PositionRecord as a PGN entry: the recorded
// FEN seeds the position, the critical move is the sole recorded move, and
// the original game headers are carried forward next to the computed score
// tags.
func WriteRecord(w io.Writer, rec *knightscan.PositionRecord) error {
	hasResult := false
	for _, tag := range rec.Tags {
		if exporterTags[tag.Key] {
			continue
		}
		if tag.Key == "Result" {
			hasResult = true
		}
		if _, err := fmt.Fprintf(w, "[%s \"%s\"]\n", tag.Key, tag.Value); err != nil {
			return err
		}
	}
	if !hasResult {
		if _, err := fmt.Fprintf(w, "[Result \"*\"]\n"); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "[FEN \"%s\"]\n", rec.FEN)
	fmt.Fprintf(w, "[SetUp \"1\"]\n")
	fmt.Fprintf(w, "[SolutionMove \"%s\"]\n", rec.SolutionSAN)
	fmt.Fprintf(w, "[SolutionScore \"%d\"]\n", rec.SolutionScore)
	if rec.NextBestKnown {
		fmt.Fprintf(w, "[NextBestScore \"%d\"]\n", rec.NextBestScore)
	} else {
		fmt.Fprintf(w, "[NextBestScore \"N/A\"]\n")
	}
	fmt.Fprintf(w, "[MoveNumber \"%d\"]\n", rec.MoveNumber)
	fmt.Fprintf(w, "[TurnToPlay \"%s\"]\n", rec.Turn.Name())

	dots := "."
	if rec.Turn.Name() == "Black" {
		dots = "..."
	}
	_, err := fmt.Fprintf(w, "\n%d%s %s *\n\n", rec.MoveNumber, dots, rec.SolutionSAN)
	return err
}

// WriteAll writes every record in discovery order.
func WriteAll(w io.Writer, recs []*knightscan.PositionRecord) error {
	for _, rec := range recs {
		if err := WriteRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}
