package session

import (
	"context"
	"fmt"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
)

// MediaAsset is what media search or upload hands back.
type MediaAsset struct {
	URL  string
	Kind composition.MediaKind
}

// MediaSource finds or uploads media for a segment.
type MediaSource interface {
	Find(ctx context.Context, query string) (MediaAsset, error)
}

// Speech is synthesized narration. Duration is zero when unknown.
type Speech struct {
	URL      string
	Duration float64
}

// SpeechSynthesizer turns narration text into audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (Speech, error)
}

// WordTimingEstimator produces ordered, non-overlapping word timings for a
// narration of the given length.
type WordTimingEstimator interface {
	WordTimings(text string, duration float64) ([]composition.WordTiming, error)
}

// Renderer consumes a read-only composition snapshot.
type Renderer interface {
	Render(ctx context.Context, c composition.Composition) error
}

func (s *Session) segment(id string) (composition.Segment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return composition.Segment{}, false
	}
	segs := s.hist.Present().Segments
	idx := composition.IndexOf(segs, id)
	if idx < 0 {
		return composition.Segment{}, false
	}
	return segs[idx].Clone(), true
}

// FetchMedia asks src for media matching the segment's keywords (or its
// narration when it has none) and replaces the segment's media with it. The
// collaborator call runs without holding the session lock.
func (s *Session) FetchMedia(ctx context.Context, src MediaSource, id string) (editor.Outcome, error) {
	seg, ok := s.segment(id)
	if !ok {
		return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNotFound, Detail: id}, nil
	}
	query := seg.SearchKeywords
	if query == "" {
		query = seg.NarrationText
	}
	asset, err := src.Find(ctx, query)
	if err != nil {
		return editor.Outcome{}, fmt.Errorf("find media for %s: %w", id, err)
	}
	return s.ReplaceMedia(id, asset.URL, asset.Kind), nil
}

// Narrate synthesizes the segment's narration and stores the audio. When est
// is non-nil, caption timings for the resulting duration are stored in the
// same edit, so one undo reverts both.
func (s *Session) Narrate(ctx context.Context, synth SpeechSynthesizer, est WordTimingEstimator, id string) (editor.Outcome, error) {
	seg, ok := s.segment(id)
	if !ok {
		return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNotFound, Detail: id}, nil
	}
	speech, err := synth.Synthesize(ctx, seg.NarrationText)
	if err != nil {
		return editor.Outcome{}, fmt.Errorf("synthesize narration for %s: %w", id, err)
	}
	if est == nil {
		return s.SetNarrationAudio(id, speech.URL, speech.Duration), nil
	}
	duration := editor.NarratedDuration(seg.DurationSeconds, speech.Duration)
	timings, err := est.WordTimings(seg.NarrationText, duration)
	if err != nil {
		return editor.Outcome{}, fmt.Errorf("estimate word timings for %s: %w", id, err)
	}
	return s.editSegments("narrate", func(segs []composition.Segment) editor.Result[[]composition.Segment] {
		return s.ed.SetNarration(segs, id, speech.URL, speech.Duration, timings)
	}), nil
}

// Caption estimates word timings for the segment's current narration and
// duration.
func (s *Session) Caption(est WordTimingEstimator, id string) (editor.Outcome, error) {
	seg, ok := s.segment(id)
	if !ok {
		return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNotFound, Detail: id}, nil
	}
	timings, err := est.WordTimings(seg.NarrationText, seg.DurationSeconds)
	if err != nil {
		return editor.Outcome{}, fmt.Errorf("estimate word timings for %s: %w", id, err)
	}
	return s.SetWordTimings(id, timings), nil
}

// Export hands the current composition to r.
func (s *Session) Export(ctx context.Context, r Renderer) error {
	if err := s.Err(); err != nil {
		return err
	}
	if err := r.Render(ctx, s.Composition()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
