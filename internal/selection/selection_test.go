package selection

import (
	"testing"

	"storyreel/internal/composition"
)

func segs(durs map[string]float64, order ...string) []composition.Segment {
	out := make([]composition.Segment, len(order))
	for i, id := range order {
		out[i] = composition.Segment{ID: id, DurationSeconds: durs[id]}
	}
	return out
}

func TestMutualExclusion(t *testing.T) {
	var s Selection
	s.SelectSegment("a")
	s.SelectTrack("t1")
	if s.SegmentID() != "" || s.TrackID() != "t1" {
		t.Fatalf("after SelectTrack: segment=%q track=%q", s.SegmentID(), s.TrackID())
	}
	s.SelectSegment("b")
	if s.TrackID() != "" || s.SegmentID() != "b" {
		t.Fatalf("after SelectSegment: segment=%q track=%q", s.SegmentID(), s.TrackID())
	}
}

func TestReconcile(t *testing.T) {
	segments := segs(map[string]float64{"a": 1, "b": 1}, "a", "b")
	tracks := []composition.AudioClip{{ID: "t1"}}

	var s Selection
	s.SelectSegment("gone")
	s.Reconcile(segments, tracks)
	if s.SegmentID() != "a" {
		t.Fatalf("segment = %q, want a", s.SegmentID())
	}

	s.SelectTrack("t1")
	s.Reconcile(segments, tracks)
	if s.TrackID() != "t1" || s.SegmentID() != "" {
		t.Fatal("existing track selection should survive reconcile")
	}

	s.Reconcile(segments, nil)
	if s.TrackID() != "" || s.SegmentID() != "" {
		t.Fatalf("missing track should clear the selection: segment=%q track=%q", s.SegmentID(), s.TrackID())
	}

	s.Reconcile(segments, tracks)
	if s.SegmentID() != "" || s.TrackID() != "" {
		t.Fatalf("empty selection should stay empty: segment=%q track=%q", s.SegmentID(), s.TrackID())
	}
}

func TestFollowOnlyWhilePlayingAndUnpinned(t *testing.T) {
	segments := segs(map[string]float64{"A": 3, "B": 2}, "A", "B")

	var s Selection
	s.SelectSegment("A")
	if s.Follow(segments, 4, false) {
		t.Fatal("follow should not act while paused")
	}
	if !s.Follow(segments, 4, true) || s.SegmentID() != "B" {
		t.Fatalf("follow while playing: segment=%q", s.SegmentID())
	}

	s.SelectTrack("t1")
	if s.Follow(segments, 0.5, true) {
		t.Fatal("follow should not override a pinned audio track")
	}
	if s.TrackID() != "t1" {
		t.Fatal("pinned track lost")
	}
}

func TestSeekToSelectsContainingSegment(t *testing.T) {
	segments := segs(map[string]float64{"A": 3, "B": 2}, "A", "B")

	var s Selection
	s.SelectTrack("t1")
	s.SeekTo(segments, 4)
	if s.SegmentID() != "B" || s.TrackID() != "" {
		t.Fatalf("seek(4): segment=%q track=%q", s.SegmentID(), s.TrackID())
	}
	s.SeekTo(segments, 5)
	if s.SegmentID() != "B" {
		t.Fatalf("seek(total) should select last segment, got %q", s.SegmentID())
	}
	s.SeekTo(segments, 0)
	if s.SegmentID() != "A" {
		t.Fatalf("seek(0) = %q", s.SegmentID())
	}
}
