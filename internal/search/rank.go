// Package search ranks segments and media names against a free-text query.
package search

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"storyreel/internal/composition"
)

// Ranked is one candidate that matched a query. Lower Distance is better.
type Ranked struct {
	Index    int
	Distance int
}

// Rank returns the candidates matching query ordered best first. A
// candidate matches when every query term appears in it as a fuzzy
// subsequence; whole-word hits outrank scattered ones.
func Rank(query string, candidates []string) []Ranked {
	terms := strings.Fields(Fold(query))
	if len(terms) == 0 {
		return nil
	}

	var out []Ranked
	for i, c := range candidates {
		folded := Fold(c)
		words := strings.Fields(folded)
		total := 0
		matched := true
		for _, term := range terms {
			d := termDistance(term, folded, words)
			if d < 0 {
				matched = false
				break
			}
			total += d
		}
		if matched {
			out = append(out, Ranked{Index: i, Distance: total})
		}
	}

	slices.SortStableFunc(out, func(a, b Ranked) int {
		return a.Distance - b.Distance
	})
	return out
}

// termDistance scores one query term against a folded candidate, or -1.
func termDistance(term, folded string, words []string) int {
	best := -1
	for _, w := range words {
		if w == term {
			return 0
		}
		if strings.HasPrefix(w, term) {
			d := len(w) - len(term)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	if best >= 0 {
		return best
	}
	if d := fuzzy.RankMatch(term, folded); d >= 0 {
		// Scattered subsequence hits rank behind any word hit.
		return d + len(folded)
	}
	return -1
}

// Match is a segment that matched a search.
type Match struct {
	SegmentID string  `json:"segment_id"`
	Index     int     `json:"index"`
	Offset    float64 `json:"offset_s"`
	Distance  int     `json:"distance"`
	Text      string  `json:"text"`
}

// Segments ranks segments by their narration and search keywords.
func Segments(segments []composition.Segment, query string) []Match {
	candidates := make([]string, len(segments))
	for i, seg := range segments {
		candidates[i] = seg.NarrationText + " " + seg.SearchKeywords
	}
	offsets := composition.Offsets(segments)

	ranked := Rank(query, candidates)
	out := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		seg := segments[r.Index]
		out = append(out, Match{
			SegmentID: seg.ID,
			Index:     r.Index,
			Offset:    offsets[r.Index],
			Distance:  r.Distance,
			Text:      seg.NarrationText,
		})
	}
	return out
}

// Suggest returns the candidate closest to query by edit distance, for
// "did you mean" hints when Rank finds nothing. ok is false when candidates
// is empty.
func Suggest(query string, candidates []string) (best string, ok bool) {
	q := Fold(query)
	bestDist := -1
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(q, Fold(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}
