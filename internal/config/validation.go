package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyreel/internal/composition"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Export formats understood by the export command.
var exportFormats = []string{"json", "edl", "concat"}

// ExportFormats lists the accepted values for export.format.
func ExportFormats() []string {
	return append([]string(nil), exportFormats...)
}

// ValidateStrict runs all strict validations against the config and returns
// structured results.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateFiles(projectRoot)...)
	results = append(results, c.validateEditor()...)
	results = append(results, c.validateStyle()...)
	results = append(results, c.validateAudio()...)
	results = append(results, c.validatePlayback()...)
	results = append(results, c.validateExport()...)
	return results
}

func (c Config) validateFiles(projectRoot string) []ValidationResult {
	var results []ValidationResult
	if media := c.MediaDir(); media != "" {
		resolved := media
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		info, err := os.Stat(resolved)
		switch {
		case err != nil:
			results = append(results, warning("media directory %q not found", media))
		case !info.IsDir():
			results = append(results, failure("media path %q is not a directory", media))
		}
	}
	return results
}

func (c Config) validateEditor() []ValidationResult {
	var results []ValidationResult
	e := c.Editor
	if e.SegmentDurationS <= 0 {
		results = append(results, failure("editor.segment_duration_s must be positive (got %v)", e.SegmentDurationS))
	}
	if e.MinFragmentS <= 0 {
		results = append(results, failure("editor.min_fragment_s must be positive (got %v)", e.MinFragmentS))
	} else if e.SegmentDurationS > 0 && e.SegmentDurationS < 2*e.MinFragmentS {
		results = append(results, warning("editor.segment_duration_s %v is too short to split with min_fragment_s %v", e.SegmentDurationS, e.MinFragmentS))
	}
	switch composition.MediaKind(e.PlaceholderKind) {
	case composition.MediaImage, composition.MediaVideo:
	default:
		results = append(results, failure("editor.placeholder_kind %q must be image or video", e.PlaceholderKind))
	}
	if !composition.ValidTransition(composition.Transition(e.Transition)) {
		results = append(results, failure("editor.transition %q must be fade, slide or zoom", e.Transition))
	}
	if e.Volume != nil && (*e.Volume < 0 || *e.Volume > 1) {
		results = append(results, warning("editor.volume %v will be clamped to [0,1]", *e.Volume))
	}
	return results
}

func (c Config) validateStyle() []ValidationResult {
	var results []ValidationResult
	s := c.Style
	if s.FontSize < 1 {
		results = append(results, failure("style.font_size must be at least 1 (got %d)", s.FontSize))
	}
	if s.MaxCaptionLines < 1 {
		results = append(results, failure("style.max_caption_lines must be at least 1 (got %d)", s.MaxCaptionLines))
	}
	if !composition.ValidPosition(composition.Position(s.Position)) {
		results = append(results, failure("style.position %q must be top, center or bottom", s.Position))
	}
	if !composition.ValidAnimation(composition.Animation(s.Animation)) {
		results = append(results, failure("style.animation %q is not supported", s.Animation))
	}
	return results
}

func (c Config) validateAudio() []ValidationResult {
	var results []ValidationResult
	a := c.Audio
	if a.DefaultDurationS <= 0 {
		results = append(results, failure("audio.default_duration_s must be positive (got %v)", a.DefaultDurationS))
	}
	if a.MinLengthS <= 0 {
		results = append(results, failure("audio.min_length_s must be positive (got %v)", a.MinLengthS))
	}
	if a.DefaultVolume != nil && (*a.DefaultVolume < 0 || *a.DefaultVolume > 1) {
		results = append(results, warning("audio.default_volume %v will be clamped to [0,1]", *a.DefaultVolume))
	}
	if c.History.Limit < 0 {
		results = append(results, failure("history.limit must not be negative (got %d)", c.History.Limit))
	}
	return results
}

func (c Config) validatePlayback() []ValidationResult {
	var results []ValidationResult
	if c.Playback.FrameIntervalMS <= 0 {
		results = append(results, failure("playback.frame_interval_ms must be positive (got %d)", c.Playback.FrameIntervalMS))
	} else if c.Playback.FrameIntervalMS > 250 {
		results = append(results, warning("playback.frame_interval_ms %d will make playback choppy", c.Playback.FrameIntervalMS))
	}
	if c.Playback.SeekStepS <= 0 {
		results = append(results, failure("playback.seek_step_s must be positive (got %v)", c.Playback.SeekStepS))
	}
	return results
}

func (c Config) validateExport() []ValidationResult {
	var results []ValidationResult
	format := strings.ToLower(strings.TrimSpace(c.Export.Format))
	known := false
	for _, f := range exportFormats {
		if f == format {
			known = true
			break
		}
	}
	if !known {
		results = append(results, failure("export.format %q must be one of %s", c.Export.Format, strings.Join(exportFormats, ", ")))
	}
	if strings.ContainsAny(c.Export.FileTemplate, `/\`) {
		results = append(results, failure("export.file_template %q must not contain path separators; use export.dir", c.Export.FileTemplate))
	}
	switch c.Export.FrameRate {
	case 24, 25, 30:
	default:
		results = append(results, warning("export.frame_rate %d is not a standard EDL rate (24, 25, 30)", c.Export.FrameRate))
	}
	return results
}

func failure(format string, args ...any) ValidationResult {
	return ValidationResult{Level: "error", Message: fmt.Sprintf(format, args...)}
}

func warning(format string, args ...any) ValidationResult {
	return ValidationResult{Level: "warning", Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
