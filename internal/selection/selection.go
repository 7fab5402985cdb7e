// Package selection tracks which single segment or audio track is active.
package selection

import "storyreel/internal/composition"

// Selection holds two mutually exclusive slots. At most one of SegmentID and
// TrackID is non-empty.
type Selection struct {
	segmentID string
	trackID   string
}

// SegmentID returns the active segment id, or "".
func (s Selection) SegmentID() string { return s.segmentID }

// TrackID returns the active audio track id, or "".
func (s Selection) TrackID() string { return s.trackID }

// TrackPinned reports whether an audio track holds the selection.
func (s Selection) TrackPinned() bool { return s.trackID != "" }

// SelectSegment activates a segment and clears the audio slot.
func (s *Selection) SelectSegment(id string) {
	s.segmentID = id
	s.trackID = ""
}

// SelectTrack activates an audio track and clears the segment slot.
func (s *Selection) SelectTrack(id string) {
	s.trackID = id
	s.segmentID = ""
}

// Clear empties both slots.
func (s *Selection) Clear() {
	s.segmentID = ""
	s.trackID = ""
}

// Reconcile repairs the selection after the composition changed. A selected
// track that no longer exists clears the selection. A selected segment that
// no longer exists falls back to the first segment. An empty selection stays
// empty.
func (s *Selection) Reconcile(segments []composition.Segment, tracks []composition.AudioClip) {
	if s.trackID != "" {
		if composition.TrackIndexOf(tracks, s.trackID) < 0 {
			s.Clear()
		}
		return
	}
	if s.segmentID != "" && composition.IndexOf(segments, s.segmentID) < 0 {
		s.segmentID = firstID(segments)
	}
}

// Follow moves the segment selection to the segment under cursor. It only
// acts while playing and when no audio track is pinned. It reports whether
// the selection changed.
func (s *Selection) Follow(segments []composition.Segment, cursor float64, playing bool) bool {
	if !playing || s.trackID != "" {
		return false
	}
	return s.selectAt(segments, cursor)
}

// SeekTo selects the segment under cursor regardless of play state. A pinned
// audio track is released. It reports whether the selection changed.
func (s *Selection) SeekTo(segments []composition.Segment, cursor float64) bool {
	pinned := s.trackID != ""
	s.trackID = ""
	return s.selectAt(segments, cursor) || pinned
}

func (s *Selection) selectAt(segments []composition.Segment, cursor float64) bool {
	idx := composition.SegmentIndexAt(segments, cursor)
	if idx < 0 {
		return false
	}
	id := segments[idx].ID
	if id == s.segmentID {
		return false
	}
	s.segmentID = id
	return true
}

func firstID(segments []composition.Segment) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0].ID
}
