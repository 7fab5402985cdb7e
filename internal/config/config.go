package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
)

// Config captures the editor defaults and host settings for a project.
type Config struct {
	Version  int            `yaml:"version"`
	Files    FilesConfig    `yaml:"files"`
	Editor   EditorConfig   `yaml:"editor"`
	Style    StyleConfig    `yaml:"style"`
	Audio    AudioConfig    `yaml:"audio"`
	History  HistoryConfig  `yaml:"history"`
	Playback PlaybackConfig `yaml:"playback"`
	Export   ExportConfig   `yaml:"export"`
}

// FilesConfig points at project files relative to the project root.
type FilesConfig struct {
	Composition string `yaml:"composition,omitempty"`
	Media       string `yaml:"media,omitempty"`
}

// EditorConfig controls how new segments are created and split.
type EditorConfig struct {
	SegmentDurationS float64  `yaml:"segment_duration_s"`
	MinFragmentS     float64  `yaml:"min_fragment_s"`
	PlaceholderURL   string   `yaml:"placeholder_url"`
	PlaceholderKind  string   `yaml:"placeholder_kind"`
	Transition       string   `yaml:"transition"`
	Volume           *float64 `yaml:"volume,omitempty"`
}

// StyleConfig is the caption style given to new segments.
type StyleConfig struct {
	FontFamily      string `yaml:"font_family"`
	FontSize        int    `yaml:"font_size"`
	Color           string `yaml:"color"`
	Position        string `yaml:"position"`
	BackgroundColor string `yaml:"background_color"`
	Animation       string `yaml:"animation"`
	MaxCaptionLines int    `yaml:"max_caption_lines"`
}

// AudioConfig holds defaults for newly placed audio tracks.
type AudioConfig struct {
	DefaultDurationS float64  `yaml:"default_duration_s"`
	DefaultVolume    *float64 `yaml:"default_volume,omitempty"`
	MinLengthS       float64  `yaml:"min_length_s"`
}

// HistoryConfig bounds the undo stack. A zero limit keeps every step.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// PlaybackConfig tunes the interactive editor clock.
type PlaybackConfig struct {
	FrameIntervalMS int     `yaml:"frame_interval_ms"`
	SeekStepS       float64 `yaml:"seek_step_s"`
}

// ExportConfig controls snapshot exports.
type ExportConfig struct {
	Format    string `yaml:"format"`
	FrameRate int    `yaml:"frame_rate"`
	Dir       string `yaml:"dir,omitempty"`
	// FileTemplate names output files, e.g. "$DATE_$SAFE_TITLE".
	FileTemplate string `yaml:"file_template,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	d := editor.DefaultDefaults()
	return Config{
		Version: 1,
		Editor: EditorConfig{
			SegmentDurationS: d.SegmentDuration,
			MinFragmentS:     d.MinFragment,
			PlaceholderURL:   d.PlaceholderURL,
			PlaceholderKind:  string(d.PlaceholderKind),
			Transition:       string(d.Transition),
			Volume:           floatPtr(d.Volume),
		},
		Style: StyleConfig{
			FontFamily:      d.Style.FontFamily,
			FontSize:        d.Style.FontSize,
			Color:           d.Style.Color,
			Position:        string(d.Style.Position),
			BackgroundColor: d.Style.BackgroundColor,
			Animation:       string(d.Style.Animation),
			MaxCaptionLines: d.Style.MaxCaptionLines,
		},
		Audio: AudioConfig{
			DefaultDurationS: d.TrackDuration,
			DefaultVolume:    floatPtr(d.TrackVolume),
			MinLengthS:       d.MinTrackLength,
		},
		Playback: PlaybackConfig{
			FrameIntervalMS: 33,
			SeekStepS:       0.5,
		},
		Export: ExportConfig{
			Format:    "json",
			FrameRate: 30,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Editor.SegmentDurationS == 0 {
		c.Editor.SegmentDurationS = defaults.Editor.SegmentDurationS
	}
	if c.Editor.MinFragmentS == 0 {
		c.Editor.MinFragmentS = defaults.Editor.MinFragmentS
	}
	if strings.TrimSpace(c.Editor.PlaceholderURL) == "" {
		c.Editor.PlaceholderURL = defaults.Editor.PlaceholderURL
	}
	if c.Editor.PlaceholderKind == "" {
		c.Editor.PlaceholderKind = defaults.Editor.PlaceholderKind
	}
	if c.Editor.Transition == "" {
		c.Editor.Transition = defaults.Editor.Transition
	}
	if c.Editor.Volume == nil {
		c.Editor.Volume = defaults.Editor.Volume
	}
	if c.Style.FontFamily == "" {
		c.Style.FontFamily = defaults.Style.FontFamily
	}
	if c.Style.FontSize == 0 {
		c.Style.FontSize = defaults.Style.FontSize
	}
	if c.Style.Color == "" {
		c.Style.Color = defaults.Style.Color
	}
	if c.Style.Position == "" {
		c.Style.Position = defaults.Style.Position
	}
	if c.Style.BackgroundColor == "" {
		c.Style.BackgroundColor = defaults.Style.BackgroundColor
	}
	if c.Style.Animation == "" {
		c.Style.Animation = defaults.Style.Animation
	}
	if c.Style.MaxCaptionLines == 0 {
		c.Style.MaxCaptionLines = defaults.Style.MaxCaptionLines
	}
	if c.Audio.DefaultDurationS == 0 {
		c.Audio.DefaultDurationS = defaults.Audio.DefaultDurationS
	}
	if c.Audio.DefaultVolume == nil {
		c.Audio.DefaultVolume = defaults.Audio.DefaultVolume
	}
	if c.Audio.MinLengthS == 0 {
		c.Audio.MinLengthS = defaults.Audio.MinLengthS
	}
	if c.Playback.FrameIntervalMS == 0 {
		c.Playback.FrameIntervalMS = defaults.Playback.FrameIntervalMS
	}
	if c.Playback.SeekStepS == 0 {
		c.Playback.SeekStepS = defaults.Playback.SeekStepS
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Export.FrameRate == 0 {
		c.Export.FrameRate = defaults.Export.FrameRate
	}
}

// CompositionFile returns the configured composition path, or "".
func (c Config) CompositionFile() string {
	return strings.TrimSpace(c.Files.Composition)
}

// MediaDir returns the configured local media directory, or "".
func (c Config) MediaDir() string {
	return strings.TrimSpace(c.Files.Media)
}

// EditorDefaults converts the configuration into editor defaults. Values
// that fail validation fall back to the built-in defaults.
func (c Config) EditorDefaults() editor.Defaults {
	d := editor.DefaultDefaults()

	if c.Editor.SegmentDurationS > 0 {
		d.SegmentDuration = c.Editor.SegmentDurationS
	}
	if c.Editor.MinFragmentS > 0 {
		d.MinFragment = c.Editor.MinFragmentS
	}
	if url := strings.TrimSpace(c.Editor.PlaceholderURL); url != "" {
		d.PlaceholderURL = url
	}
	if kind := composition.MediaKind(c.Editor.PlaceholderKind); kind == composition.MediaImage || kind == composition.MediaVideo {
		d.PlaceholderKind = kind
	}
	if tr := composition.Transition(c.Editor.Transition); composition.ValidTransition(tr) {
		d.Transition = tr
	}
	if c.Editor.Volume != nil {
		d.Volume = composition.Clamp01(*c.Editor.Volume)
	}

	if c.Style.FontFamily != "" {
		d.Style.FontFamily = c.Style.FontFamily
	}
	if c.Style.FontSize > 0 {
		d.Style.FontSize = c.Style.FontSize
	}
	if c.Style.Color != "" {
		d.Style.Color = c.Style.Color
	}
	if pos := composition.Position(c.Style.Position); composition.ValidPosition(pos) {
		d.Style.Position = pos
	}
	if c.Style.BackgroundColor != "" {
		d.Style.BackgroundColor = c.Style.BackgroundColor
	}
	if anim := composition.Animation(c.Style.Animation); composition.ValidAnimation(anim) {
		d.Style.Animation = anim
	}
	if c.Style.MaxCaptionLines > 0 {
		d.Style.MaxCaptionLines = c.Style.MaxCaptionLines
	}

	if c.Audio.DefaultDurationS > 0 {
		d.TrackDuration = c.Audio.DefaultDurationS
	}
	if c.Audio.DefaultVolume != nil {
		d.TrackVolume = composition.Clamp01(*c.Audio.DefaultVolume)
	}
	if c.Audio.MinLengthS > 0 {
		d.MinTrackLength = c.Audio.MinLengthS
	}
	return d
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
