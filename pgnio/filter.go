package pgnio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// FilterResult summarizes one score-filter pass.
type FilterResult struct {
	Kept    int
	Dropped int
}

// FilterByScore splits an exported puzzle collection by the SolutionScore
// header: entries scoring above threshold go to kept, the rest to dropped.
// Scores are side-to-move relative, so no perspective flip is needed for
// either color. Entries with a missing or unparseable score are dropped
// with a warning. Entries pass through byte-for-byte; nothing is
// re-encoded.
func FilterByScore(r io.Reader, kept, dropped io.Writer, threshold int) (*FilterResult, error) {
	result := &FilterResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var entry []string
	inMovetext := false
	flush := func() error {
		hasContent := false
		for _, l := range entry {
			if strings.TrimSpace(l) != "" {
				hasContent = true
				break
			}
		}
		if !hasContent {
			entry = entry[:0]
			return nil
		}
		err := writeEntry(entry, kept, dropped, threshold, result)
		entry = entry[:0]
		return err
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && inMovetext {
			// A header after movetext starts the next entry.
			if err := flush(); err != nil {
				return result, err
			}
			inMovetext = false
		}
		if trimmed != "" && !strings.HasPrefix(trimmed, "[") {
			inMovetext = true
		}
		entry = append(entry, line)
	}
	if err := scanner.Err(); err != nil {
		return result, err
	}
	if err := flush(); err != nil {
		return result, err
	}
	return result, nil
}

func writeEntry(entry []string, kept, dropped io.Writer, threshold int, result *FilterResult) error {
	score, ok := solutionScore(entry)
	dst := dropped
	if ok && score > threshold {
		dst = kept
		result.Kept++
	} else {
		result.Dropped++
	}
	if dst == nil {
		return nil
	}
	for _, line := range entry {
		if _, err := io.WriteString(dst, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func solutionScore(entry []string) (int, bool) {
	for _, line := range entry {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "[SolutionScore ") {
			continue
		}
		start := strings.Index(trimmed, "\"")
		end := strings.LastIndex(trimmed, "\"")
		if start < 0 || end <= start {
			break
		}
		score, err := strconv.Atoi(trimmed[start+1 : end])
		if err != nil {
			log.Warn().Str("value", trimmed[start+1:end]).Msg("unparseable SolutionScore, dropping entry")
			return 0, false
		}
		return score, true
	}
	log.Warn().Msg("entry missing SolutionScore header, dropping")
	return 0, false
}
