package compfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"storyreel/internal/composition"
)

const header = "# storyreel composition\n# Durations are in seconds. Omitted ids are generated on load.\n"

// Marshal encodes c as composition YAML.
func Marshal(c composition.Composition) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("marshal composition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal composition: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes c to path atomically.
func Save(path string, c composition.Composition) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure composition dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp composition: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace composition: %w", err)
	}
	return nil
}

// Template returns a one-segment starter composition.
func Template(title string, opts Options) composition.Composition {
	opts = opts.withDefaults()
	d := opts.Defaults
	return composition.Composition{
		Title: title,
		Segments: []composition.Segment{{
			ID:               opts.NewID(),
			NarrationText:    "Write the first line of narration here.",
			Media:            []composition.MediaClip{{ID: opts.NewID(), URL: d.PlaceholderURL, Kind: d.PlaceholderKind}},
			DurationSeconds:  d.SegmentDuration,
			AudioVolume:      d.Volume,
			Transition:       d.Transition,
			TextOverlayStyle: d.Style,
		}},
	}
}
