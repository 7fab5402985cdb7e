package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/composition"
	"storyreel/internal/search"
)

var searchLimit int

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find segments by narration or keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of matches to show (0 for all)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	c, err := p.loadComposition()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	matches := search.Segments(c.Segments, query)
	if searchLimit > 0 && len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}

	suggestion := ""
	if len(matches) == 0 {
		if best, ok := search.Suggest(query, narrationWords(c.Segments)); ok {
			suggestion = best
		}
	}

	if outputJSON {
		payload := struct {
			Query      string         `json:"query"`
			Matches    []search.Match `json:"matches"`
			Suggestion string         `json:"suggestion,omitempty"`
		}{Query: query, Matches: matches, Suggestion: suggestion}
		if payload.Matches == nil {
			payload.Matches = []search.Match{}
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode search json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintf(out, "No segments match %q.", query)
		if suggestion != "" {
			fmt.Fprintf(out, " Did you mean %q?", suggestion)
		}
		fmt.Fprintln(out)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tID\tSTART\tSCORE\tNARRATION")
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", m.Index+1, shortID(m.SegmentID), formatSeconds(m.Offset), m.Distance, truncate(m.Text, 60))
	}
	return w.Flush()
}

// narrationWords lists the distinct words used across all narrations.
func narrationWords(segments []composition.Segment) []string {
	seen := map[string]bool{}
	var words []string
	for _, seg := range segments {
		for _, w := range strings.Fields(seg.NarrationText + " " + seg.SearchKeywords) {
			w = strings.Trim(w, ".,;:!?\"'()")
			key := search.Fold(w)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			words = append(words, w)
		}
	}
	return words
}
