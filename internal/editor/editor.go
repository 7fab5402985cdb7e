package editor

import (
	"math"

	"github.com/google/uuid"

	"storyreel/internal/composition"
)

// Defaults holds the values used when the editor creates new items.
type Defaults struct {
	SegmentDuration float64
	MinFragment     float64
	PlaceholderURL  string
	PlaceholderKind composition.MediaKind
	Transition      composition.Transition
	Volume          float64
	Style           composition.TextOverlayStyle
	TrackDuration   float64
	TrackVolume     float64
	MinTrackLength  float64
}

// DefaultDefaults returns the built-in editor defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		SegmentDuration: 3,
		MinFragment:     0.5,
		PlaceholderURL:  "placeholder://segment",
		PlaceholderKind: composition.MediaImage,
		Transition:      composition.TransitionFade,
		Volume:          1,
		Style:           DefaultStyle(),
		TrackDuration:   10,
		TrackVolume:     0.5,
		MinTrackLength:  0.1,
	}
}

// DefaultStyle is the caption style given to newly created segments.
func DefaultStyle() composition.TextOverlayStyle {
	return composition.TextOverlayStyle{
		FontFamily:      "Inter",
		FontSize:        48,
		Color:           "#FFFFFF",
		Position:        composition.PositionBottom,
		BackgroundColor: "rgba(0,0,0,0.5)",
		Animation:       composition.AnimationHighlight,
		MaxCaptionLines: 2,
	}
}

// Editor carries the id source and defaults shared by all operations.
type Editor struct {
	newID    func() string
	defaults Defaults
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDFunc replaces the uuid-based id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New returns an editor using the given defaults.
func New(defaults Defaults, opts ...Option) *Editor {
	e := &Editor{
		newID:    uuid.NewString,
		defaults: defaults,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Defaults returns the editor defaults.
func (e *Editor) Defaults() Defaults {
	return e.defaults
}

// NewID returns a fresh identifier.
func (e *Editor) NewID() string {
	return e.newID()
}

// updateSegment copies segments and applies fn to the one matching id. fn
// returns a non-empty reason to reject the edit.
func updateSegment(segments []composition.Segment, id string, fn func(*composition.Segment) (Reason, string)) Result[[]composition.Segment] {
	idx := composition.IndexOf(segments, id)
	if idx < 0 {
		return rejected[[]composition.Segment](ReasonNotFound, "segment %q", id)
	}
	out := composition.CloneSegments(segments)
	if reason, detail := fn(&out[idx]); reason != ReasonNone {
		return rejected[[]composition.Segment](reason, "%s", detail)
	}
	return applied(out, "")
}

func validFloat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
