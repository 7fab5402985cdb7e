package composition

import (
	"fmt"
	"strings"
)

// ValidationError captures a single structural problem in a composition.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates multiple structural problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Validate checks every structural rule of the composition and returns
// nil when it is a legal editor state.
func Validate(c Composition) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if len(c.Segments) == 0 {
		add("segments", "at least one segment is required")
	}

	segIDs := make(map[string]int, len(c.Segments))
	for i, seg := range c.Segments {
		field := fmt.Sprintf("segments[%d]", i)
		if strings.TrimSpace(seg.ID) == "" {
			add(field+".id", "must not be empty")
		} else if prev, dup := segIDs[seg.ID]; dup {
			add(field+".id", "duplicates segments[%d] (%q)", prev, seg.ID)
		} else {
			segIDs[seg.ID] = i
		}
		if len(seg.Media) == 0 {
			add(field+".media", "at least one media clip is required")
		}
		clipIDs := make(map[string]bool, len(seg.Media))
		for j, clip := range seg.Media {
			if clipIDs[clip.ID] {
				add(fmt.Sprintf("%s.media[%d].id", field, j), "duplicate clip id %q", clip.ID)
			}
			clipIDs[clip.ID] = true
			if clip.Kind != MediaImage && clip.Kind != MediaVideo {
				add(fmt.Sprintf("%s.media[%d].kind", field, j), "unknown kind %q", clip.Kind)
			}
		}
		if !(seg.DurationSeconds > 0) {
			add(field+".duration_s", "must be greater than zero (got %v)", seg.DurationSeconds)
		}
		if seg.AudioVolume < 0 || seg.AudioVolume > 1 {
			add(field+".audio_volume", "must be within [0,1] (got %v)", seg.AudioVolume)
		}
		if !ValidTransition(seg.Transition) {
			add(field+".transition", "unknown transition %q", seg.Transition)
		}
	}

	trackIDs := make(map[string]int, len(c.AudioTracks))
	for i, tr := range c.AudioTracks {
		field := fmt.Sprintf("audio_tracks[%d]", i)
		if strings.TrimSpace(tr.ID) == "" {
			add(field+".id", "must not be empty")
		} else if prev, dup := trackIDs[tr.ID]; dup {
			add(field+".id", "duplicates audio_tracks[%d] (%q)", prev, tr.ID)
		} else {
			trackIDs[tr.ID] = i
		}
		if tr.StartTime < 0 {
			add(field+".start_s", "must not be negative (got %v)", tr.StartTime)
		}
		if !(tr.DurationSeconds > 0) {
			add(field+".duration_s", "must be greater than zero (got %v)", tr.DurationSeconds)
		}
		if tr.Volume < 0 || tr.Volume > 1 {
			add(field+".volume", "must be within [0,1] (got %v)", tr.Volume)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidTransition reports whether t is a known transition.
func ValidTransition(t Transition) bool {
	switch t {
	case TransitionFade, TransitionSlide, TransitionZoom:
		return true
	}
	return false
}

// ValidPosition reports whether p is a known caption position.
func ValidPosition(p Position) bool {
	switch p {
	case PositionTop, PositionCenter, PositionBottom:
		return true
	}
	return false
}

// ValidAnimation reports whether a is a known caption animation.
func ValidAnimation(a Animation) bool {
	switch a {
	case AnimationNone, AnimationScale, AnimationHighlight, AnimationTypewriter, AnimationBounce:
		return true
	}
	return false
}
