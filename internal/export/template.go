package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"storyreel/internal/composition"
)

// TemplateFileName renders an output base name from a template such as
// "$DATE_$SAFE_TITLE". Tokens are $TITLE, $SAFE_TITLE, $FORMAT,
// $SEGMENTS, $TRACKS, $DURATION (whole seconds) and $DATE (YYYYMMDD); "$$"
// is a literal dollar. An empty template, or one that renders to nothing,
// falls back to FileName. The format's extension is always appended.
func TemplateFileName(template string, c composition.Composition, f Format, now time.Time) string {
	template = strings.TrimSpace(template)
	if template == "" {
		return FileName(c.Title, f)
	}
	base := sanitizeName(applyTemplate(template, templateValues(c, f, now)))
	if base == "" {
		return FileName(c.Title, f)
	}
	return base + f.Ext()
}

func templateValues(c composition.Composition, f Format, now time.Time) map[string]string {
	return map[string]string{
		"TITLE":      sanitizeName(c.Title),
		"SAFE_TITLE": safeFileSlug(c.Title),
		"FORMAT":     string(f),
		"SEGMENTS":   strconv.Itoa(len(c.Segments)),
		"TRACKS":     strconv.Itoa(len(c.AudioTracks)),
		"DURATION":   fmt.Sprintf("%.0f", c.TotalDuration()),
		"DATE":       now.Format("20060102"),
	}
}

func applyTemplate(template string, values map[string]string) string {
	var builder strings.Builder
	for i := 0; i < len(template); {
		ch := template[i]
		if ch != '$' {
			builder.WriteByte(ch)
			i++
			continue
		}

		if i+1 < len(template) && template[i+1] == '$' {
			builder.WriteByte('$')
			i += 2
			continue
		}

		// A token runs over letters and digits. An underscore extends it
		// only when a token character follows and the name so far is not
		// already a known token.
		j := i + 1
		for j < len(template) {
			c := template[j]
			if isTokenChar(c) {
				j++
				continue
			}
			if c == '_' && j+1 < len(template) && isTokenChar(template[j+1]) {
				if _, ok := values[template[i+1:j]]; ok {
					break
				}
				j++
				continue
			}
			break
		}

		if j == i+1 {
			builder.WriteByte('$')
			i++
			continue
		}

		if val, ok := values[template[i+1:j]]; ok {
			builder.WriteString(val)
		}
		i = j
	}
	return builder.String()
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// sanitizeName keeps letters, digits, dashes and dots and collapses every
// other run into one underscore.
func sanitizeName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	var builder strings.Builder
	lastUnderscore := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			builder.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				builder.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	result := strings.Trim(builder.String(), "_.-")
	if len(result) > 150 {
		result = result[:150]
	}
	return result
}
