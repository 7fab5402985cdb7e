// Package compfile reads and writes composition.yaml files.
package compfile

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
)

// Options controls how omitted fields are filled in.
type Options struct {
	Defaults editor.Defaults
	NewID    func() string
}

func (o Options) withDefaults() Options {
	if o.Defaults.SegmentDuration <= 0 {
		o.Defaults = editor.DefaultDefaults()
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

type fileDoc struct {
	Title       string       `yaml:"title"`
	Segments    []rawSegment `yaml:"segments"`
	AudioTracks []rawTrack   `yaml:"audio_tracks"`
}

type rawClip struct {
	ID   string `yaml:"id"`
	URL  string `yaml:"url"`
	Kind string `yaml:"kind"`
}

type rawStyle struct {
	FontFamily      *string `yaml:"font_family"`
	FontSize        *int    `yaml:"font_size"`
	Color           *string `yaml:"color"`
	Position        *string `yaml:"position"`
	BackgroundColor *string `yaml:"background_color"`
	Animation       *string `yaml:"animation"`
	MaxCaptionLines *int    `yaml:"max_caption_lines"`
}

type rawSegment struct {
	line int

	ID                string                   `yaml:"id"`
	NarrationText     string                   `yaml:"narration_text"`
	SearchKeywords    string                   `yaml:"search_keywords"`
	MediaURL          string                   `yaml:"media_url"`
	Media             []rawClip                `yaml:"media"`
	DurationSeconds   *float64                 `yaml:"duration_s"`
	AudioVolume       *float64                 `yaml:"audio_volume"`
	Transition        string                   `yaml:"transition"`
	Style             rawStyle                 `yaml:"text_overlay_style"`
	WordTimings       []composition.WordTiming `yaml:"word_timings"`
	NarrationAudioURL string                   `yaml:"narration_audio_url"`
}

func (r *rawSegment) UnmarshalYAML(node *yaml.Node) error {
	type plain rawSegment
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = rawSegment(p)
	r.line = node.Line
	return nil
}

type rawTrack struct {
	line int

	ID              string   `yaml:"id"`
	URL             string   `yaml:"url"`
	Name            string   `yaml:"name"`
	Kind            string   `yaml:"kind"`
	StartTime       float64  `yaml:"start_s"`
	DurationSeconds *float64 `yaml:"duration_s"`
	Volume          *float64 `yaml:"volume"`
}

func (r *rawTrack) UnmarshalYAML(node *yaml.Node) error {
	type plain rawTrack
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = rawTrack(p)
	r.line = node.Line
	return nil
}

// Load reads a composition file, filling omitted ids, durations, volumes,
// transitions and style fields from opts. When problems are found the
// partially built composition is returned together with ValidationErrors.
func Load(filePath string, opts Options) (composition.Composition, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return composition.Composition{}, fmt.Errorf("read file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return composition.Composition{}, errors.New("composition file is empty")
	}
	return Parse(data, opts)
}

// Parse decodes composition YAML. See Load.
func Parse(data []byte, opts Options) (composition.Composition, error) {
	opts = opts.withDefaults()

	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return composition.Composition{}, fmt.Errorf("parse YAML: %w", err)
	}

	var errs ValidationErrors
	c := composition.Composition{Title: strings.TrimSpace(doc.Title)}
	if len(doc.Segments) == 0 {
		errs = append(errs, ValidationError{Field: "segments", Message: "at least one segment is required"})
	}

	segIDs := map[string]int{}
	for i, raw := range doc.Segments {
		seg, segErrs := buildSegment(raw, i, opts)
		errs = append(errs, segErrs...)
		if prev, dup := segIDs[seg.ID]; dup {
			errs = append(errs, ValidationError{Line: raw.line, Field: "id", Message: fmt.Sprintf("duplicates segment %d (%q)", prev+1, seg.ID)})
		}
		segIDs[seg.ID] = i
		c.Segments = append(c.Segments, seg)
	}

	trackIDs := map[string]int{}
	for i, raw := range doc.AudioTracks {
		tr, trErrs := buildTrack(raw, opts)
		errs = append(errs, trErrs...)
		if prev, dup := trackIDs[tr.ID]; dup {
			errs = append(errs, ValidationError{Line: raw.line, Field: "id", Message: fmt.Sprintf("duplicates audio track %d (%q)", prev+1, tr.ID)})
		}
		trackIDs[tr.ID] = i
		c.AudioTracks = append(c.AudioTracks, tr)
	}

	if len(errs) == 0 {
		var verrs composition.ValidationErrors
		if err := composition.Validate(c); errors.As(err, &verrs) {
			for _, v := range verrs {
				errs = append(errs, ValidationError{Field: v.Field, Message: v.Message})
			}
		}
	}
	if len(errs) > 0 {
		return c, errs
	}
	return c, nil
}

func buildSegment(raw rawSegment, index int, opts Options) (composition.Segment, []ValidationError) {
	var errs []ValidationError
	d := opts.Defaults
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Line: raw.line, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	seg := composition.Segment{
		ID:                strings.TrimSpace(raw.ID),
		NarrationText:     raw.NarrationText,
		SearchKeywords:    strings.TrimSpace(raw.SearchKeywords),
		DurationSeconds:   d.SegmentDuration,
		AudioVolume:       d.Volume,
		Transition:        d.Transition,
		TextOverlayStyle:  mergeStyle(d.Style, raw.Style),
		WordTimings:       raw.WordTimings,
		NarrationAudioURL: strings.TrimSpace(raw.NarrationAudioURL),
	}
	if seg.ID == "" {
		seg.ID = opts.NewID()
	}

	clips := raw.Media
	if url := strings.TrimSpace(raw.MediaURL); url != "" {
		clips = append([]rawClip{{URL: url}}, clips...)
	}
	for j, rc := range clips {
		url := strings.TrimSpace(rc.URL)
		if url == "" {
			fail(fmt.Sprintf("media[%d].url", j), "is required")
			continue
		}
		kind := composition.MediaKind(strings.ToLower(strings.TrimSpace(rc.Kind)))
		if kind == "" {
			kind = KindFromURL(url)
		}
		if kind != composition.MediaImage && kind != composition.MediaVideo {
			fail(fmt.Sprintf("media[%d].kind", j), "must be image or video (got %q)", rc.Kind)
		}
		id := strings.TrimSpace(rc.ID)
		if id == "" {
			id = opts.NewID()
		}
		seg.Media = append(seg.Media, composition.MediaClip{ID: id, URL: url, Kind: kind})
	}
	if len(seg.Media) == 0 {
		seg.Media = []composition.MediaClip{{ID: opts.NewID(), URL: d.PlaceholderURL, Kind: d.PlaceholderKind}}
	}

	if raw.DurationSeconds != nil {
		if *raw.DurationSeconds <= 0 {
			fail("duration_s", "must be greater than 0")
		} else {
			seg.DurationSeconds = *raw.DurationSeconds
		}
	}
	if raw.AudioVolume != nil {
		seg.AudioVolume = composition.Clamp01(*raw.AudioVolume)
	}
	if raw.Transition != "" {
		tr := composition.Transition(strings.ToLower(raw.Transition))
		if !composition.ValidTransition(tr) {
			fail("transition", "must be fade, slide or zoom (got %q)", raw.Transition)
		} else {
			seg.Transition = tr
		}
	}
	for j, wt := range seg.WordTimings {
		if wt.End < wt.Start || wt.Start < 0 {
			fail(fmt.Sprintf("word_timings[%d]", j), "has bad bounds %v..%v", wt.Start, wt.End)
		} else if j > 0 && wt.Start < seg.WordTimings[j-1].End {
			fail(fmt.Sprintf("word_timings[%d]", j), "overlaps the previous word")
		}
	}
	return seg, errs
}

func mergeStyle(base composition.TextOverlayStyle, raw rawStyle) composition.TextOverlayStyle {
	update := editor.StyleUpdate{
		FontFamily:      raw.FontFamily,
		FontSize:        raw.FontSize,
		Color:           raw.Color,
		BackgroundColor: raw.BackgroundColor,
		MaxCaptionLines: raw.MaxCaptionLines,
	}
	if raw.Position != nil {
		update.Position = editor.Ptr(composition.Position(strings.ToLower(*raw.Position)))
	}
	if raw.Animation != nil {
		update.Animation = editor.Ptr(composition.Animation(strings.ToLower(*raw.Animation)))
	}
	return update.Apply(base)
}

func buildTrack(raw rawTrack, opts Options) (composition.AudioClip, []ValidationError) {
	var errs []ValidationError
	d := opts.Defaults
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Line: raw.line, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	tr := composition.AudioClip{
		ID:              strings.TrimSpace(raw.ID),
		URL:             strings.TrimSpace(raw.URL),
		Name:            strings.TrimSpace(raw.Name),
		Kind:            composition.TrackKind(strings.ToLower(strings.TrimSpace(raw.Kind))),
		StartTime:       raw.StartTime,
		DurationSeconds: d.TrackDuration,
		Volume:          d.TrackVolume,
	}
	if tr.ID == "" {
		tr.ID = opts.NewID()
	}
	if tr.URL == "" {
		fail("url", "is required")
	}
	if tr.Name == "" && tr.URL != "" {
		tr.Name = strings.TrimSuffix(path.Base(tr.URL), path.Ext(tr.URL))
	}
	switch tr.Kind {
	case "":
		tr.Kind = composition.TrackMusic
	case composition.TrackMusic, composition.TrackSFX:
	default:
		fail("kind", "must be music or sfx (got %q)", raw.Kind)
	}
	if tr.StartTime < 0 {
		fail("start_s", "must not be negative")
	}
	if raw.DurationSeconds != nil {
		if *raw.DurationSeconds <= 0 {
			fail("duration_s", "must be greater than 0")
		} else {
			tr.DurationSeconds = *raw.DurationSeconds
		}
	}
	if raw.Volume != nil {
		tr.Volume = composition.Clamp01(*raw.Volume)
	}
	return tr, errs
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true, ".webm": true, ".mkv": true, ".avi": true,
}

// KindFromURL guesses a media kind from the URL's extension. Anything that
// does not look like video is treated as an image.
func KindFromURL(url string) composition.MediaKind {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if videoExts[strings.ToLower(filepath.Ext(url))] {
		return composition.MediaVideo
	}
	return composition.MediaImage
}
