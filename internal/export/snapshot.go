// Package export renders read-only composition snapshots for downstream
// tools: a JSON timeline, a CMX3600 edit decision list and an ffmpeg concat
// list.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"storyreel/internal/composition"
)

// Snapshot is a flattened, timeline-resolved view of a composition.
type Snapshot struct {
	Title         string         `json:"title"`
	TotalDuration float64        `json:"total_duration_s"`
	Segments      []SegmentEntry `json:"segments"`
	AudioTracks   []TrackEntry   `json:"audio_tracks"`
}

// SegmentEntry places one segment on the global timeline.
type SegmentEntry struct {
	Index          int                          `json:"index"`
	ID             string                       `json:"id"`
	Start          float64                      `json:"start_s"`
	End            float64                      `json:"end_s"`
	Duration       float64                      `json:"duration_s"`
	NarrationText  string                       `json:"narration_text"`
	NarrationAudio string                       `json:"narration_audio_url,omitempty"`
	Volume         float64                      `json:"audio_volume"`
	Transition     composition.Transition       `json:"transition"`
	Media          composition.MediaClip        `json:"media"`
	Style          composition.TextOverlayStyle `json:"style"`
	Words          []composition.WordTiming     `json:"word_timings,omitempty"`
}

// TrackEntry is an audio track clipped to the composition length.
type TrackEntry struct {
	composition.AudioClip
	End       float64 `json:"end_s"`
	Truncated bool    `json:"truncated,omitempty"`
}

// Build resolves c into a snapshot. Audio tracks starting after the end of
// the timeline are dropped; tracks running past it are truncated.
func Build(c composition.Composition) Snapshot {
	offsets := composition.Offsets(c.Segments)
	total := composition.TotalDuration(c.Segments)

	snap := Snapshot{
		Title:         c.Title,
		TotalDuration: total,
		Segments:      make([]SegmentEntry, len(c.Segments)),
		AudioTracks:   []TrackEntry{},
	}
	for i, seg := range c.Segments {
		snap.Segments[i] = SegmentEntry{
			Index:          i + 1,
			ID:             seg.ID,
			Start:          offsets[i],
			End:            offsets[i] + seg.DurationSeconds,
			Duration:       seg.DurationSeconds,
			NarrationText:  seg.NarrationText,
			NarrationAudio: seg.NarrationAudioURL,
			Volume:         seg.AudioVolume,
			Transition:     seg.Transition,
			Media:          seg.ActiveClip(),
			Style:          seg.TextOverlayStyle,
			Words:          append([]composition.WordTiming(nil), seg.WordTimings...),
		}
	}
	for _, tr := range c.AudioTracks {
		if tr.StartTime >= total {
			continue
		}
		entry := TrackEntry{AudioClip: tr, End: tr.End()}
		if entry.End > total {
			entry.End = total
			entry.Truncated = true
		}
		snap.AudioTracks = append(snap.AudioTracks, entry)
	}
	return snap
}

// WriteJSON writes the snapshot as indented JSON.
func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
