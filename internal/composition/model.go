package composition

// MediaKind identifies whether a clip is a still image or a video.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Transition is the effect used when entering a segment.
type Transition string

const (
	TransitionFade  Transition = "fade"
	TransitionSlide Transition = "slide"
	TransitionZoom  Transition = "zoom"
)

// Position is the vertical placement of caption text.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Animation controls how captions animate while narration plays.
type Animation string

const (
	AnimationNone       Animation = "none"
	AnimationScale      Animation = "scale"
	AnimationHighlight  Animation = "highlight"
	AnimationTypewriter Animation = "typewriter"
	AnimationBounce     Animation = "bounce"
)

// TrackKind distinguishes background music from short sound effects.
type TrackKind string

const (
	TrackMusic TrackKind = "music"
	TrackSFX   TrackKind = "sfx"
)

// MediaClip is a single visual asset attached to a segment.
type MediaClip struct {
	ID   string    `yaml:"id" json:"id"`
	URL  string    `yaml:"url" json:"url"`
	Kind MediaKind `yaml:"kind" json:"kind"`
}

// WordTiming places one narrated word on the segment-local timeline.
type WordTiming struct {
	Word  string  `yaml:"word" json:"word"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// TextOverlayStyle describes how narration captions are drawn.
type TextOverlayStyle struct {
	FontFamily      string    `yaml:"font_family" json:"font_family"`
	FontSize        int       `yaml:"font_size" json:"font_size"`
	Color           string    `yaml:"color" json:"color"`
	Position        Position  `yaml:"position" json:"position"`
	BackgroundColor string    `yaml:"background_color" json:"background_color"`
	Animation       Animation `yaml:"animation" json:"animation"`
	MaxCaptionLines int       `yaml:"max_caption_lines" json:"max_caption_lines"`
}

// Segment is the atomic timeline unit: narration, media, duration and style.
type Segment struct {
	ID                string           `yaml:"id" json:"id"`
	NarrationText     string           `yaml:"narration_text" json:"narration_text"`
	SearchKeywords    string           `yaml:"search_keywords,omitempty" json:"search_keywords,omitempty"`
	Media             []MediaClip      `yaml:"media" json:"media"`
	DurationSeconds   float64          `yaml:"duration_s" json:"duration_s"`
	AudioVolume       float64          `yaml:"audio_volume" json:"audio_volume"`
	Transition        Transition       `yaml:"transition" json:"transition"`
	TextOverlayStyle  TextOverlayStyle `yaml:"text_overlay_style" json:"text_overlay_style"`
	WordTimings       []WordTiming     `yaml:"word_timings,omitempty" json:"word_timings,omitempty"`
	NarrationAudioURL string           `yaml:"narration_audio_url,omitempty" json:"narration_audio_url,omitempty"`
}

// ActiveClip returns the clip currently shown for the segment.
func (s Segment) ActiveClip() MediaClip {
	if len(s.Media) == 0 {
		return MediaClip{}
	}
	return s.Media[0]
}

// Clone returns a deep copy of the segment.
func (s Segment) Clone() Segment {
	out := s
	out.Media = append([]MediaClip(nil), s.Media...)
	if s.WordTimings != nil {
		out.WordTimings = append([]WordTiming(nil), s.WordTimings...)
	}
	return out
}

// AudioClip is an independent audio track placed absolutely on the timeline.
type AudioClip struct {
	ID              string    `yaml:"id" json:"id"`
	URL             string    `yaml:"url" json:"url"`
	Name            string    `yaml:"name" json:"name"`
	Kind            TrackKind `yaml:"kind" json:"kind"`
	StartTime       float64   `yaml:"start_s" json:"start_s"`
	DurationSeconds float64   `yaml:"duration_s" json:"duration_s"`
	Volume          float64   `yaml:"volume" json:"volume"`
}

// End returns the global time at which the track stops playing.
func (a AudioClip) End() float64 {
	return a.StartTime + a.DurationSeconds
}

// Composition is the full editable state of a video.
type Composition struct {
	Title       string      `yaml:"title" json:"title"`
	Segments    []Segment   `yaml:"segments" json:"segments"`
	AudioTracks []AudioClip `yaml:"audio_tracks,omitempty" json:"audio_tracks,omitempty"`
}

// Clone returns a deep copy of the composition.
func (c Composition) Clone() Composition {
	return Composition{
		Title:       c.Title,
		Segments:    CloneSegments(c.Segments),
		AudioTracks: CloneTracks(c.AudioTracks),
	}
}

// TotalDuration is the sum of all segment durations.
func (c Composition) TotalDuration() float64 {
	return TotalDuration(c.Segments)
}

// CloneSegments deep-copies a segment list.
func CloneSegments(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = seg.Clone()
	}
	return out
}

// CloneTracks copies an audio track list.
func CloneTracks(tracks []AudioClip) []AudioClip {
	if tracks == nil {
		return nil
	}
	return append([]AudioClip(nil), tracks...)
}

// Clamp01 limits v to the closed unit interval. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
