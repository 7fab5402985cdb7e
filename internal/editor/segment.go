package editor

import (
	"fmt"
	"slices"
	"strings"

	"storyreel/internal/composition"
)

type segmentsResult = Result[[]composition.Segment]

// UpdateText replaces the narration of a segment. Word timings computed for
// the old text are discarded.
func (e *Editor) UpdateText(segments []composition.Segment, id, text string) segmentsResult {
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if s.NarrationText == text {
			return ReasonNoChange, "text unchanged"
		}
		s.NarrationText = text
		s.WordTimings = nil
		return ReasonNone, ""
	})
}

// UpdateKeywords replaces the media search keywords of a segment.
func (e *Editor) UpdateKeywords(segments []composition.Segment, id, keywords string) segmentsResult {
	keywords = strings.TrimSpace(keywords)
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if s.SearchKeywords == keywords {
			return ReasonNoChange, "keywords unchanged"
		}
		s.SearchKeywords = keywords
		return ReasonNone, ""
	})
}

// UpdateStyle merges a partial style into a segment's caption style.
func (e *Editor) UpdateStyle(segments []composition.Segment, id string, update StyleUpdate) segmentsResult {
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		next := update.Apply(s.TextOverlayStyle)
		if next == s.TextOverlayStyle {
			return ReasonNoChange, "style unchanged"
		}
		s.TextOverlayStyle = next
		return ReasonNone, ""
	})
}

// UpdateTransition sets the entry transition of a segment.
func (e *Editor) UpdateTransition(segments []composition.Segment, id string, t composition.Transition) segmentsResult {
	if !composition.ValidTransition(t) {
		return rejected[[]composition.Segment](ReasonInvalidValue, "transition %q", t)
	}
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if s.Transition == t {
			return ReasonNoChange, "transition unchanged"
		}
		s.Transition = t
		return ReasonNone, ""
	})
}

// UpdateVolume sets the narration volume of a segment, clamped to [0,1].
func (e *Editor) UpdateVolume(segments []composition.Segment, id string, vol float64) segmentsResult {
	vol = composition.Clamp01(vol)
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if s.AudioVolume == vol {
			return ReasonNoChange, "volume unchanged"
		}
		s.AudioVolume = vol
		return ReasonNone, ""
	})
}

// UpdateDuration sets the length of a segment. Non-positive or non-finite
// durations are rejected.
func (e *Editor) UpdateDuration(segments []composition.Segment, id string, seconds float64) segmentsResult {
	if !validFloat(seconds) || seconds <= 0 {
		return rejected[[]composition.Segment](ReasonInvalidDuration, "%v seconds", seconds)
	}
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if s.DurationSeconds == seconds {
			return ReasonNoChange, "duration unchanged"
		}
		s.DurationSeconds = seconds
		return ReasonNone, ""
	})
}

// ReplaceMedia swaps the clip list of a segment for a single new clip.
func (e *Editor) ReplaceMedia(segments []composition.Segment, id, url string, kind composition.MediaKind) segmentsResult {
	url = strings.TrimSpace(url)
	if url == "" {
		return rejected[[]composition.Segment](ReasonInvalidValue, "empty media url")
	}
	if kind != composition.MediaImage && kind != composition.MediaVideo {
		return rejected[[]composition.Segment](ReasonInvalidValue, "media kind %q", kind)
	}
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		s.Media = []composition.MediaClip{{ID: e.newID(), URL: url, Kind: kind}}
		return ReasonNone, ""
	})
}

// SetNarrationAudio attaches synthesized narration to a segment. When the
// narration is shorter than the segment, the segment is shortened to match.
func (e *Editor) SetNarrationAudio(segments []composition.Segment, id, url string, duration float64) segmentsResult {
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		if !attachNarration(s, url, duration) {
			return ReasonNoChange, "narration unchanged"
		}
		return ReasonNone, ""
	})
}

// SetNarration attaches narration audio and its caption timings in one edit.
// Timings are clipped to the segment's duration after the narration has
// been applied.
func (e *Editor) SetNarration(segments []composition.Segment, id, url string, duration float64, timings []composition.WordTiming) segmentsResult {
	if reason, detail := checkTimings(timings); reason != ReasonNone {
		return rejected[[]composition.Segment](reason, "%s", detail)
	}
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		attachNarration(s, url, duration)
		s.WordTimings = clipTimings(timings, s.DurationSeconds)
		return ReasonNone, ""
	})
}

// NarratedDuration is the segment length after narration of the given
// duration is attached to a segment currently lasting current seconds.
func NarratedDuration(current, narration float64) float64 {
	if validFloat(narration) && narration > 0 && narration < current {
		return narration
	}
	return current
}

// SetWordTimings stores caption timings produced for a segment's narration.
// Timings are clipped to the segment and must be ordered.
func (e *Editor) SetWordTimings(segments []composition.Segment, id string, timings []composition.WordTiming) segmentsResult {
	if reason, detail := checkTimings(timings); reason != ReasonNone {
		return rejected[[]composition.Segment](reason, "%s", detail)
	}
	return updateSegment(segments, id, func(s *composition.Segment) (Reason, string) {
		s.WordTimings = clipTimings(timings, s.DurationSeconds)
		return ReasonNone, ""
	})
}

// attachNarration reports whether the segment changed.
func attachNarration(s *composition.Segment, url string, duration float64) bool {
	changed := s.NarrationAudioURL != url
	s.NarrationAudioURL = url
	if d := NarratedDuration(s.DurationSeconds, duration); d != s.DurationSeconds {
		s.DurationSeconds = d
		changed = true
	}
	return changed
}

func checkTimings(timings []composition.WordTiming) (Reason, string) {
	for i, wt := range timings {
		if !validFloat(wt.Start) || !validFloat(wt.End) || wt.End < wt.Start {
			return ReasonInvalidValue, fmt.Sprintf("word %d has bad bounds", i)
		}
		if i > 0 && wt.Start < timings[i-1].End {
			return ReasonInvalidValue, fmt.Sprintf("word %d overlaps previous", i)
		}
	}
	return ReasonNone, ""
}

func clipTimings(timings []composition.WordTiming, duration float64) []composition.WordTiming {
	clipped := make([]composition.WordTiming, 0, len(timings))
	for _, wt := range timings {
		if wt.Start >= duration {
			break
		}
		wt.End = min(wt.End, duration)
		clipped = append(clipped, wt)
	}
	return clipped
}

// Add appends a placeholder segment. The new segment is the focus.
func (e *Editor) Add(segments []composition.Segment) segmentsResult {
	d := e.defaults
	seg := composition.Segment{
		ID:               e.newID(),
		Media:            []composition.MediaClip{{ID: e.newID(), URL: d.PlaceholderURL, Kind: d.PlaceholderKind}},
		DurationSeconds:  d.SegmentDuration,
		AudioVolume:      composition.Clamp01(d.Volume),
		Transition:       d.Transition,
		TextOverlayStyle: d.Style,
	}
	out := append(composition.CloneSegments(segments), seg)
	return applied(out, seg.ID)
}

// Duplicate inserts a copy of a segment right after it. The copy gets fresh
// segment and clip ids and becomes the focus.
func (e *Editor) Duplicate(segments []composition.Segment, id string) segmentsResult {
	idx := composition.IndexOf(segments, id)
	if idx < 0 {
		return rejected[[]composition.Segment](ReasonNotFound, "segment %q", id)
	}
	dup := segments[idx].Clone()
	dup.ID = e.newID()
	dup.Media = e.freshClips(dup.Media)

	out := composition.CloneSegments(segments)
	out = slices.Insert(out, idx+1, dup)
	return applied(out, dup.ID)
}

// Delete removes a segment. The last remaining segment cannot be deleted.
func (e *Editor) Delete(segments []composition.Segment, id string) segmentsResult {
	idx := composition.IndexOf(segments, id)
	if idx < 0 {
		return rejected[[]composition.Segment](ReasonNotFound, "segment %q", id)
	}
	if len(segments) <= 1 {
		return rejected[[]composition.Segment](ReasonLastSegment, "segment %q is the only one", id)
	}
	out := composition.CloneSegments(segments)
	out = slices.Delete(out, idx, idx+1)
	return applied(out, "")
}

// Reorder arranges the segments in the order given by ids, which must be a
// permutation of the current segment ids.
func (e *Editor) Reorder(segments []composition.Segment, ids []string) segmentsResult {
	if len(ids) != len(segments) {
		return rejected[[]composition.Segment](ReasonInvalidOrder, "got %d ids for %d segments", len(ids), len(segments))
	}
	byID := make(map[string]composition.Segment, len(segments))
	for _, s := range segments {
		byID[s.ID] = s
	}
	out := make([]composition.Segment, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return rejected[[]composition.Segment](ReasonInvalidOrder, "unknown segment %q", id)
		}
		if seen[id] {
			return rejected[[]composition.Segment](ReasonInvalidOrder, "segment %q listed twice", id)
		}
		seen[id] = true
		out = append(out, s.Clone())
	}
	same := true
	for i := range out {
		if out[i].ID != segments[i].ID {
			same = false
			break
		}
	}
	if same {
		return rejected[[]composition.Segment](ReasonNoChange, "order unchanged")
	}
	return applied(out, "")
}

// MoveOrder returns the id order obtained by moving segment id to index to.
// The index is clamped to the list bounds. It returns nil for unknown ids.
func MoveOrder(segments []composition.Segment, id string, to int) []string {
	from := composition.IndexOf(segments, id)
	if from < 0 {
		return nil
	}
	to = max(0, min(to, len(segments)-1))
	ids := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.ID != id {
			ids = append(ids, s.ID)
		}
	}
	return slices.Insert(ids, to, id)
}

// Split cuts a segment at local time t. The first fragment keeps the
// original id and becomes the focus; the second gets a fresh id and fresh
// clip ids. Both fragments lose their narration audio. Cuts closer than the
// minimum fragment length to either edge are rejected.
func (e *Editor) Split(segments []composition.Segment, id string, t float64) segmentsResult {
	idx := composition.IndexOf(segments, id)
	if idx < 0 {
		return rejected[[]composition.Segment](ReasonNotFound, "segment %q", id)
	}
	orig := segments[idx]
	minFrag := e.defaults.MinFragment
	if !validFloat(t) || t < minFrag || t > orig.DurationSeconds-minFrag {
		return rejected[[]composition.Segment](ReasonSplitBounds, "t=%.3f for duration %.3f", t, orig.DurationSeconds)
	}

	first := orig.Clone()
	first.DurationSeconds = t
	first.NarrationAudioURL = ""

	second := orig.Clone()
	second.ID = e.newID()
	second.DurationSeconds = orig.DurationSeconds - t
	second.NarrationAudioURL = ""
	second.Media = e.freshClips(orig.Media)

	first.WordTimings, second.WordTimings = splitWordTimings(orig.WordTimings, t)

	out := make([]composition.Segment, 0, len(segments)+1)
	out = append(out, composition.CloneSegments(segments[:idx])...)
	out = append(out, first, second)
	out = append(out, composition.CloneSegments(segments[idx+1:])...)
	return applied(out, first.ID)
}

func (e *Editor) freshClips(clips []composition.MediaClip) []composition.MediaClip {
	out := make([]composition.MediaClip, len(clips))
	for i, c := range clips {
		c.ID = e.newID()
		out[i] = c
	}
	return out
}

// splitWordTimings partitions timings at t. A word belongs to the fragment
// holding its midpoint; the second fragment's timings are shifted to start
// at zero.
func splitWordTimings(timings []composition.WordTiming, t float64) (before, after []composition.WordTiming) {
	if timings == nil {
		return nil, nil
	}
	for _, wt := range timings {
		if (wt.Start+wt.End)/2 < t {
			wt.End = min(wt.End, t)
			before = append(before, wt)
			continue
		}
		wt.Start = max(wt.Start, t) - t
		wt.End -= t
		after = append(after, wt)
	}
	return before, after
}
