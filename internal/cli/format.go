package cli

import (
	"fmt"
	"strings"
)

// formatSeconds renders seconds as m:ss.d.
func formatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	tenths := int64(s*10 + 0.5)
	minutes := tenths / 600
	rest := tenths % 600
	return fmt.Sprintf("%d:%02d.%d", minutes, rest/10, rest%10)
}

// shortID trims uuids to their first group for tables.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i >= 8 {
		return id[:i]
	}
	return id
}

func truncate(value string, max int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
