package composition

// TotalDuration returns the combined length of the segments in seconds.
func TotalDuration(segments []Segment) float64 {
	total := 0.0
	for _, seg := range segments {
		total += seg.DurationSeconds
	}
	return total
}

// Offsets returns the global start time of every segment. Segment i occupies
// [offsets[i], offsets[i]+duration(i)).
func Offsets(segments []Segment) []float64 {
	offsets := make([]float64, len(segments))
	acc := 0.0
	for i, seg := range segments {
		offsets[i] = acc
		acc += seg.DurationSeconds
	}
	return offsets
}

// SegmentIndexAt returns the index of the segment containing global time t.
// Times before zero resolve to the first segment and times at or beyond the
// end resolve to the last one. It returns -1 only for an empty list.
func SegmentIndexAt(segments []Segment, t float64) int {
	if len(segments) == 0 {
		return -1
	}
	acc := 0.0
	for i, seg := range segments {
		if t < acc+seg.DurationSeconds {
			return i
		}
		acc += seg.DurationSeconds
	}
	return len(segments) - 1
}

// OffsetOf returns the global start time of the segment with the given id.
func OffsetOf(segments []Segment, id string) (float64, bool) {
	acc := 0.0
	for _, seg := range segments {
		if seg.ID == id {
			return acc, true
		}
		acc += seg.DurationSeconds
	}
	return 0, false
}

// IndexOf returns the position of the segment with the given id, or -1.
func IndexOf(segments []Segment, id string) int {
	for i, seg := range segments {
		if seg.ID == id {
			return i
		}
	}
	return -1
}

// TrackIndexOf returns the position of the audio track with the given id, or -1.
func TrackIndexOf(tracks []AudioClip, id string) int {
	for i, tr := range tracks {
		if tr.ID == id {
			return i
		}
	}
	return -1
}
