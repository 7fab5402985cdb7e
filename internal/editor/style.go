package editor

import "storyreel/internal/composition"

// StyleUpdate is a field-level patch for a TextOverlayStyle. Nil fields are
// left unchanged.
type StyleUpdate struct {
	FontFamily      *string
	FontSize        *int
	Color           *string
	Position        *composition.Position
	BackgroundColor *string
	Animation       *composition.Animation
	MaxCaptionLines *int
}

// Empty reports whether the update sets no field.
func (u StyleUpdate) Empty() bool {
	return u.FontFamily == nil && u.FontSize == nil && u.Color == nil &&
		u.Position == nil && u.BackgroundColor == nil && u.Animation == nil &&
		u.MaxCaptionLines == nil
}

// Apply merges the update into style. Font size and caption line count are
// clamped to at least 1; unknown positions and animations are ignored.
func (u StyleUpdate) Apply(style composition.TextOverlayStyle) composition.TextOverlayStyle {
	if u.FontFamily != nil {
		style.FontFamily = *u.FontFamily
	}
	if u.FontSize != nil {
		style.FontSize = max(*u.FontSize, 1)
	}
	if u.Color != nil {
		style.Color = *u.Color
	}
	if u.Position != nil && composition.ValidPosition(*u.Position) {
		style.Position = *u.Position
	}
	if u.BackgroundColor != nil {
		style.BackgroundColor = *u.BackgroundColor
	}
	if u.Animation != nil && composition.ValidAnimation(*u.Animation) {
		style.Animation = *u.Animation
	}
	if u.MaxCaptionLines != nil {
		style.MaxCaptionLines = max(*u.MaxCaptionLines, 1)
	}
	return style
}

// AudioUpdate is a field-level patch for an AudioClip. Nil fields are left
// unchanged.
type AudioUpdate struct {
	StartTime       *float64
	DurationSeconds *float64
	Volume          *float64
	Name            *string
}

// NewTrack describes an audio track to add. Nil StartTime and Volume mean
// "not chosen" and take the cursor and the default volume.
type NewTrack struct {
	ID              string
	URL             string
	Name            string
	Kind            composition.TrackKind
	StartTime       *float64
	DurationSeconds float64
	Volume          *float64
}

// Ptr returns a pointer to v, for building updates inline.
func Ptr[T any](v T) *T {
	return &v
}
