package config

import (
	"os"
	"path/filepath"
	"testing"

	"storyreel/internal/composition"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "storyreel.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Editor.SegmentDurationS != 3 {
		t.Fatalf("expected default segment duration 3, got %v", cfg.Editor.SegmentDurationS)
	}
	if cfg.Playback.FrameIntervalMS != 33 {
		t.Fatalf("expected frame interval 33, got %d", cfg.Playback.FrameIntervalMS)
	}
}

func TestLoadPartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyreel.yaml")
	data := []byte(`
editor:
  segment_duration_s: 4.5
  volume: 0
style:
  position: top
history:
  limit: 20
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Editor.SegmentDurationS != 4.5 {
		t.Fatalf("segment duration = %v", cfg.Editor.SegmentDurationS)
	}
	if cfg.Editor.MinFragmentS != 0.5 {
		t.Fatalf("min fragment = %v, want default 0.5", cfg.Editor.MinFragmentS)
	}
	if cfg.Editor.Volume == nil || *cfg.Editor.Volume != 0 {
		t.Fatalf("explicit zero volume should survive defaults, got %v", cfg.Editor.Volume)
	}
	if cfg.History.Limit != 20 {
		t.Fatalf("history limit = %d", cfg.History.Limit)
	}

	d := cfg.EditorDefaults()
	if d.SegmentDuration != 4.5 || d.Volume != 0 {
		t.Fatalf("editor defaults = %+v", d)
	}
	if d.Style.Position != composition.PositionTop {
		t.Fatalf("style position = %q", d.Style.Position)
	}
	if d.Style.FontFamily != "Inter" {
		t.Fatalf("style font = %q, want default", d.Style.FontFamily)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyreel.yaml")
	if err := os.WriteFile(path, []byte("editor: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestEditorDefaultsIgnoresInvalidEnums(t *testing.T) {
	cfg := Default()
	cfg.Editor.Transition = "wipe"
	cfg.Editor.PlaceholderKind = "gif"
	loud := 3.0
	cfg.Audio.DefaultVolume = &loud

	d := cfg.EditorDefaults()
	if d.Transition != composition.TransitionFade {
		t.Fatalf("transition = %q, want fade", d.Transition)
	}
	if d.PlaceholderKind != composition.MediaImage {
		t.Fatalf("placeholder kind = %q, want image", d.PlaceholderKind)
	}
	if d.TrackVolume != 1 {
		t.Fatalf("track volume = %v, want clamped 1", d.TrackVolume)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Files.Media = "assets"
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "storyreel.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.MediaDir() != "assets" {
		t.Fatalf("media dir = %q", loaded.MediaDir())
	}
	if loaded.Export.Format != "json" {
		t.Fatalf("export format = %q", loaded.Export.Format)
	}
}
