package session

import (
	"storyreel/internal/composition"
	"storyreel/internal/editor"
)

// editSegments runs fn against the present segment list and commits the
// result. Rejections leave the composition untouched.
func (s *Session) editSegments(op string, fn func(segments []composition.Segment) editor.Result[[]composition.Segment]) editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return inactive()
	}
	return s.commitSegmentsLocked(op, fn(s.hist.Present().Segments))
}

func (s *Session) editTracks(op string, fn func(tracks []composition.AudioClip) editor.Result[[]composition.AudioClip]) editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return inactive()
	}
	return s.commitTracksLocked(op, fn(s.hist.Present().Tracks))
}

// UpdateText replaces a segment's narration and drops its word timings.
func (s *Session) UpdateText(id, text string) editor.Outcome {
	return s.editSegments("update text", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateText(segs, id, text)
	})
}

// UpdateKeywords replaces a segment's media search keywords.
func (s *Session) UpdateKeywords(id, keywords string) editor.Outcome {
	return s.editSegments("update keywords", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateKeywords(segs, id, keywords)
	})
}

// UpdateStyle merges a partial caption style into a segment.
func (s *Session) UpdateStyle(id string, update editor.StyleUpdate) editor.Outcome {
	return s.editSegments("update style", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateStyle(segs, id, update)
	})
}

// UpdateTransition sets a segment's entry transition.
func (s *Session) UpdateTransition(id string, t composition.Transition) editor.Outcome {
	return s.editSegments("update transition", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateTransition(segs, id, t)
	})
}

// UpdateVolume sets a segment's narration volume, clamped to [0,1].
func (s *Session) UpdateVolume(id string, vol float64) editor.Outcome {
	return s.editSegments("update volume", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateVolume(segs, id, vol)
	})
}

// UpdateDuration sets a segment's length.
func (s *Session) UpdateDuration(id string, seconds float64) editor.Outcome {
	return s.editSegments("update duration", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.UpdateDuration(segs, id, seconds)
	})
}

// ReplaceMedia swaps a segment's media for a single clip.
func (s *Session) ReplaceMedia(id, url string, kind composition.MediaKind) editor.Outcome {
	return s.editSegments("replace media", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.ReplaceMedia(segs, id, url, kind)
	})
}

// SetNarrationAudio stores synthesized narration for a segment, shortening
// the segment to the narration length when that is shorter.
func (s *Session) SetNarrationAudio(id, url string, duration float64) editor.Outcome {
	return s.editSegments("set narration", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.SetNarrationAudio(segs, id, url, duration)
	})
}

// SetWordTimings stores caption timings for a segment.
func (s *Session) SetWordTimings(id string, timings []composition.WordTiming) editor.Outcome {
	return s.editSegments("set word timings", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.SetWordTimings(segs, id, timings)
	})
}

// AddSegment appends a placeholder segment and selects it.
func (s *Session) AddSegment() editor.Outcome {
	return s.editSegments("add segment", s.ed.Add)
}

// DuplicateSegment inserts a copy after id and selects it.
func (s *Session) DuplicateSegment(id string) editor.Outcome {
	return s.editSegments("duplicate segment", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.Duplicate(segs, id)
	})
}

// DeleteSegment removes a segment unless it is the only one left.
func (s *Session) DeleteSegment(id string) editor.Outcome {
	return s.editSegments("delete segment", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.Delete(segs, id)
	})
}

// Reorder replaces the segment order. ids must be a permutation of the
// current segment ids.
func (s *Session) Reorder(ids []string) editor.Outcome {
	return s.editSegments("reorder", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.Reorder(segs, ids)
	})
}

// MoveSegment moves a segment to index to.
func (s *Session) MoveSegment(id string, to int) editor.Outcome {
	return s.editSegments("move segment", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		order := editor.MoveOrder(segs, id, to)
		if order == nil {
			return editor.Result[[]composition.Segment]{Status: editor.Rejected, Reason: editor.ReasonNotFound, Detail: id}
		}
		return s.ed.Reorder(segs, order)
	})
}

// Split cuts segment id at local time t and selects the first fragment.
func (s *Session) Split(id string, t float64) editor.Outcome {
	return s.editSegments("split", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.Split(segs, id, t)
	})
}

// SplitAtCursor splits the segment under the playback cursor at the cursor.
func (s *Session) SplitAtCursor() editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return inactive()
	}
	segs := s.hist.Present().Segments
	cursor := s.clock.Cursor()
	idx := composition.SegmentIndexAt(segs, cursor)
	offsets := composition.Offsets(segs)
	local := cursor - offsets[idx]
	return s.commitSegmentsLocked("split at cursor", s.ed.Split(segs, segs[idx].ID, local))
}

// AddTrack places a new audio track. A nil start time defaults to the
// playback cursor. The new track is selected.
func (s *Session) AddTrack(track editor.NewTrack) editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return inactive()
	}
	return s.commitTracksLocked("add track", s.ed.AddTrack(s.hist.Present().Tracks, track, s.clock.Cursor()))
}

// UpdateTrack merges a partial update into an audio track.
func (s *Session) UpdateTrack(id string, update editor.AudioUpdate) editor.Outcome {
	return s.editTracks("update track", func(tracks []composition.AudioClip) editor.Result[[]composition.AudioClip] {
		return s.ed.UpdateTrack(tracks, id, update)
	})
}

// DeleteTrack removes an audio track. If it was selected, the selection
// falls back to the first segment.
func (s *Session) DeleteTrack(id string) editor.Outcome {
	return s.editTracks("delete track", func(tracks []composition.AudioClip) editor.Result[[]composition.AudioClip] {
		return s.ed.DeleteTrack(tracks, id)
	})
}
