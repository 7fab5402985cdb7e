// Package captions estimates per-word caption timings for narration.
package captions

import (
	"strings"
	"unicode/utf8"

	"storyreel/internal/composition"
)

// pauseWeight is the extra weight a word boundary carries, in runes.
const pauseWeight = 1

// Estimate spreads the words of text across duration seconds, giving each
// word time proportional to its length. The result is ordered and
// non-overlapping and ends exactly at duration.
func Estimate(text string, duration float64) []composition.WordTiming {
	words := strings.Fields(text)
	if len(words) == 0 || !(duration > 0) {
		return nil
	}

	weights := make([]int, len(words))
	total := 0
	for i, w := range words {
		weights[i] = utf8.RuneCountInString(w) + pauseWeight
		total += weights[i]
	}

	out := make([]composition.WordTiming, len(words))
	acc := 0
	for i, w := range words {
		start := duration * float64(acc) / float64(total)
		acc += weights[i]
		end := duration * float64(acc) / float64(total)
		out[i] = composition.WordTiming{Word: w, Start: start, End: end}
	}
	out[len(out)-1].End = duration
	return out
}

// Estimator adapts Estimate to the session's word-timing collaborator.
type Estimator struct{}

// WordTimings implements session.WordTimingEstimator.
func (Estimator) WordTimings(text string, duration float64) ([]composition.WordTiming, error) {
	return Estimate(text, duration), nil
}

// ActiveWord returns the index of the word being spoken at local time t, or
// -1 when t falls outside every word.
func ActiveWord(timings []composition.WordTiming, t float64) int {
	for i, wt := range timings {
		if t >= wt.Start && t < wt.End {
			return i
		}
	}
	return -1
}

// Lines breaks words into at most maxLines caption lines of roughly equal
// word count.
func Lines(words []string, maxLines int) []string {
	if len(words) == 0 {
		return nil
	}
	if maxLines <= 0 {
		maxLines = 1
	}
	perLine := (len(words) + maxLines - 1) / maxLines
	var lines []string
	for i := 0; i < len(words); i += perLine {
		end := min(i+perLine, len(words))
		lines = append(lines, strings.Join(words[i:end], " "))
	}
	return lines
}
