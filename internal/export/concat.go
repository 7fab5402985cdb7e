package export

import (
	"fmt"
	"strings"
)

// Concat renders snap as an ffconcat script. Every segment contributes its
// active clip with an explicit duration so stills hold for the segment
// length.
func Concat(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, seg := range snap.Segments {
		fmt.Fprintf(&b, "# %03d %s\n", seg.Index, seg.ID)
		fmt.Fprintf(&b, "file '%s'\n", escapeConcat(localPath(seg.Media.URL)))
		fmt.Fprintf(&b, "duration %.3f\n", seg.Duration)
	}
	return b.String()
}

func escapeConcat(path string) string {
	return strings.ReplaceAll(path, "'", "'\\''")
}

// localPath strips the file:// scheme so local media reads as a plain path.
func localPath(url string) string {
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		return rest
	}
	return url
}
