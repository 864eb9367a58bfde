package pgnio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/notnil/chess"

	"github.com/chesscrit/knightback/knightscan"
)

func testRecord() *knightscan.PositionRecord {
	return &knightscan.PositionRecord{
		FEN:           "rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 2 2",
		SolutionSAN:   "Ng1",
		SolutionUCI:   "f3g1",
		MoveNumber:    2,
		Turn:          chess.White,
		SolutionScore: 312,
		NextBestScore: 95,
		NextBestKnown: true,
		Tags: []knightscan.Tag{
			{Key: "Event", Value: "Club Championship"},
			{Key: "White", Value: "Alice"},
			{Key: "Black", Value: "Bob"},
			{Key: "Result", Value: "1-0"},
		},
	}
}

func TestWriteRecordHeaders(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteRecord(&buf, testRecord()))

	out := buf.String()
	is.True(strings.Contains(out, `[Event "Club Championship"]`))
	is.True(strings.Contains(out, `[White "Alice"]`))
	is.True(strings.Contains(out, `[FEN "rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 2 2"]`))
	is.True(strings.Contains(out, `[SetUp "1"]`))
	is.True(strings.Contains(out, `[SolutionMove "Ng1"]`))
	is.True(strings.Contains(out, `[SolutionScore "312"]`))
	is.True(strings.Contains(out, `[NextBestScore "95"]`))
	is.True(strings.Contains(out, `[MoveNumber "2"]`))
	is.True(strings.Contains(out, `[TurnToPlay "White"]`))
	is.True(strings.Contains(out, "2. Ng1 *"))
}

func TestWriteRecordBlackEllipsis(t *testing.T) {
	is := is.New(t)
	rec := testRecord()
	rec.FEN = "rnbqkb1r/pppppppp/5n2/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 3 2"
	rec.SolutionSAN = "Ng8"
	rec.SolutionUCI = "f6g8"
	rec.Turn = chess.Black
	var buf bytes.Buffer
	is.NoErr(WriteRecord(&buf, rec))
	is.True(strings.Contains(buf.String(), "2... Ng8 *"))
	is.True(strings.Contains(buf.String(), `[TurnToPlay "Black"]`))
}

// Round-trip: an exported record read back through a PGN scanner must
// yield the original position and, in coordinate notation, the original
// move.
func TestExportRoundTrip(t *testing.T) {
	is := is.New(t)
	rec := testRecord()
	var buf bytes.Buffer
	is.NoErr(WriteRecord(&buf, rec))

	scanner := chess.NewScanner(&buf)
	is.True(scanner.Scan())
	g := scanner.Next()

	positions := g.Positions()
	moves := g.Moves()
	is.Equal(len(moves), 1)
	is.Equal(positions[0].String(), rec.FEN)

	uciMove := chess.UCINotation{}.Encode(positions[0], moves[0])
	is.Equal(uciMove, rec.SolutionUCI)

	is.Equal(g.GetTagPair("SolutionMove").Value, "Ng1")
	is.Equal(g.GetTagPair("SolutionScore").Value, "312")
	is.Equal(g.GetTagPair("Event").Value, "Club Championship")
}

func TestWriteRecordUnknownNextBest(t *testing.T) {
	is := is.New(t)
	rec := testRecord()
	rec.NextBestKnown = false
	var buf bytes.Buffer
	is.NoErr(WriteRecord(&buf, rec))
	is.True(strings.Contains(buf.String(), `[NextBestScore "N/A"]`))
}
