package export

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// EDL renders the video track of snap as a CMX3600 edit decision list. Each
// segment's active clip becomes one event; stills use a zero source in-point.
func EDL(snap Snapshot, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}
	dropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{"TITLE: " + clipName(snap.Title, "Untitled")}
	if dropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for _, seg := range snap.Segments {
		srcIn := secondsToTimecode(0, fps)
		srcOut := secondsToTimecode(seg.Duration, fps)
		recIn := secondsToTimecode(seg.Start, fps)
		recOut := secondsToTimecode(seg.End, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", seg.Index, reelName(seg.Index), "V", srcIn, srcOut, recIn, recOut),
			"* FROM CLIP NAME:  "+clipName(seg.NarrationText, seg.ID),
			"* MEDIA PATH:  "+localPath(seg.Media.URL),
		)
		if seg.Transition != "" {
			lines = append(lines, "* TRANSITION:  "+string(seg.Transition))
		}
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func reelName(index int) string {
	return fmt.Sprintf("SEG%03d", index)
}

func secondsToTimecode(seconds float64, fps int) string {
	totalFrames := int(math.Round(seconds * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}

// clipName makes s safe for a single EDL comment line, falling back when
// nothing printable is left.
func clipName(s, fallback string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsControl(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(" -_.,()'!?", r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if runes := []rune(cleaned); len(runes) > 48 {
		cleaned = strings.TrimSpace(string(runes[:48]))
	}
	if cleaned == "" {
		return fallback
	}
	return cleaned
}
