package lichess

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

// ExportPGN writes each puzzle as a FEN-seeded PGN entry with descriptive
// headers. Puzzles whose solution fails to replay are skipped with a
// warning. Returns the number of entries written.
func ExportPGN(w io.Writer, puzzles []*Puzzle) (int, error) {
	written := 0
	for _, p := range puzzles {
		text, err := movetext(p.FEN, p.Moves)
		if err != nil {
			log.Warn().Str("puzzle", p.ID).Err(err).Msg("solution does not replay, skipping")
			continue
		}
		turn := "White"
		if fenTurn(p.FEN) == "b" {
			turn = "Black"
		}
		fmt.Fprintf(w, "[Event \"Lichess Puzzle %s\"]\n", p.ID)
		fmt.Fprintf(w, "[Site \"https://lichess.org/training/%s\"]\n", p.ID)
		fmt.Fprintf(w, "[Date \"????.??.??\"]\n")
		fmt.Fprintf(w, "[Round \"-\"]\n")
		fmt.Fprintf(w, "[White \"?\"]\n")
		fmt.Fprintf(w, "[Black \"?\"]\n")
		fmt.Fprintf(w, "[Result \"*\"]\n")
		fmt.Fprintf(w, "[FEN \"%s\"]\n", p.FEN)
		fmt.Fprintf(w, "[SetUp \"1\"]\n")
		fmt.Fprintf(w, "[Rating \"%d\"]\n", p.Rating)
		fmt.Fprintf(w, "[Themes \"%s\"]\n", strings.Join(p.Themes, " "))
		fmt.Fprintf(w, "[PlyCount \"%d\"]\n", len(p.Moves))
		fmt.Fprintf(w, "[TurnToPlay \"%s\"]\n", turn)
		if _, err := fmt.Fprintf(w, "\n%s\n\n", text); err != nil {
			return written, err
		}
		written++
	}
	log.Info().Int("written", written).Msg("exported puzzles")
	return written, nil
}

func fenTurn(fen string) string {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return "w"
	}
	return parts[1]
}

// movetext replays the solution from fen, converting each move to SAN and
// numbering from the FEN's fullmove counter, with the leading ellipsis
// when the solver plays black.
func movetext(fen string, uciMoves []string) (string, error) {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return "", err
	}
	g := chess.NewGame(fenOpt)
	parts := strings.Fields(fen)
	if len(parts) < 6 {
		return "", fmt.Errorf("short FEN: %s", fen)
	}
	num, err := strconv.Atoi(parts[5])
	if err != nil {
		return "", fmt.Errorf("bad fullmove counter in FEN: %w", err)
	}

	notation := chess.AlgebraicNotation{}
	uciNote := chess.UCINotation{}
	var sb strings.Builder

	blackFirst := parts[1] == "b"
	for i, uciMove := range uciMoves {
		pos := g.Position()
		m, err := uciNote.Decode(pos, uciMove)
		if err != nil {
			return "", fmt.Errorf("move %s: %w", uciMove, err)
		}
		san := notation.Encode(pos, m)
		if blackFirst {
			switch {
			case i == 0:
				fmt.Fprintf(&sb, "%d... %s ", num, san)
			case i%2 == 1: // white's move in the sequence
				num++
				fmt.Fprintf(&sb, "%d. %s ", num, san)
			default:
				fmt.Fprintf(&sb, "%s ", san)
			}
		} else {
			if i%2 == 0 {
				fmt.Fprintf(&sb, "%d. %s ", num, san)
			} else {
				fmt.Fprintf(&sb, "%s ", san)
				num++
			}
		}
		if err := g.Move(m); err != nil {
			return "", fmt.Errorf("move %s: %w", uciMove, err)
		}
	}
	sb.WriteString("*")
	return sb.String(), nil
}
