package compfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
)

func testOptions() Options {
	n := 0
	return Options{
		Defaults: editor.DefaultDefaults(),
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	}
}

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "composition.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTemp(t, `
title: Demo
segments:
  - narration_text: Hello there
    media_url: https://cdn.example.com/intro.MP4?sig=1
  - id: outro
    narration_text: Bye
    duration_s: 2.5
    audio_volume: 1.7
    transition: Slide
    text_overlay_style:
      position: top
      font_size: 0
    media:
      - url: https://cdn.example.com/outro.jpg
audio_tracks:
  - url: https://cdn.example.com/music/bed.mp3
    volume: 0
`)

	c, err := Load(path, testOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Title != "Demo" || len(c.Segments) != 2 {
		t.Fatalf("composition = %+v", c)
	}

	first := c.Segments[0]
	if first.ID != "gen-1" || first.DurationSeconds != 3 || first.AudioVolume != 1 {
		t.Fatalf("first segment = %+v", first)
	}
	if first.Media[0].Kind != composition.MediaVideo || first.Media[0].ID != "gen-2" {
		t.Fatalf("first media = %+v", first.Media)
	}
	if first.Transition != composition.TransitionFade {
		t.Fatalf("transition = %q", first.Transition)
	}

	second := c.Segments[1]
	if second.ID != "outro" || second.DurationSeconds != 2.5 || second.AudioVolume != 1 {
		t.Fatalf("second segment = %+v", second)
	}
	if second.Transition != composition.TransitionSlide {
		t.Fatalf("transition = %q", second.Transition)
	}
	if second.TextOverlayStyle.Position != composition.PositionTop || second.TextOverlayStyle.FontSize != 1 {
		t.Fatalf("style = %+v", second.TextOverlayStyle)
	}
	if second.TextOverlayStyle.FontFamily != "Inter" {
		t.Fatalf("style should inherit defaults: %+v", second.TextOverlayStyle)
	}

	track := c.AudioTracks[0]
	if track.Name != "bed" || track.Kind != composition.TrackMusic || track.Volume != 0 || track.DurationSeconds != 10 {
		t.Fatalf("track = %+v", track)
	}
}

func TestLoadPlaceholderMedia(t *testing.T) {
	path := writeTemp(t, "segments:\n  - narration_text: no media yet\n")
	c, err := Load(path, testOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Segments[0].Media; len(got) != 1 || got[0].URL != "placeholder://segment" {
		t.Fatalf("media = %+v", got)
	}
}

func TestLoadCollectsErrors(t *testing.T) {
	path := writeTemp(t, `title: Broken
segments:
  - id: a
    duration_s: -1
    transition: wipe
  - id: a
    media:
      - url: ""
audio_tracks:
  - kind: drums
`)

	_, err := Load(path, testOptions())
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	issues := verrs.Issues()
	if len(issues) != 6 {
		t.Fatalf("issues = %d: %v", len(issues), verrs)
	}
	if issues[0].Line != 3 || issues[0].Field != "duration_s" {
		t.Fatalf("first issue = %+v", issues[0])
	}
	if !strings.Contains(verrs.Error(), "line 6: id duplicates segment 1") {
		t.Fatalf("error text = %q", verrs.Error())
	}
}

func TestLoadEmpty(t *testing.T) {
	if _, err := Load(writeTemp(t, "  \n"), testOptions()); err == nil {
		t.Fatal("expected error for empty file")
	}
	_, err := Load(writeTemp(t, "title: nothing\n"), testOptions())
	var verrs ValidationErrors
	if !errors.As(err, &verrs) || verrs[0].Field != "segments" {
		t.Fatalf("expected missing segments error, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	opts := testOptions()
	c := Template("Round trip", opts)
	c.AudioTracks = []composition.AudioClip{{ID: "t1", URL: "file:///a.mp3", Name: "a", Kind: composition.TrackSFX, StartTime: 1, DurationSeconds: 2, Volume: 0.3}}
	c.Segments[0].WordTimings = []composition.WordTiming{{Word: "Write", Start: 0, End: 0.4}}

	path := filepath.Join(t.TempDir(), "nested", "composition.yaml")
	if err := Save(path, c); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path, testOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded, c) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", loaded, c)
	}
}

func TestKindFromURL(t *testing.T) {
	tests := map[string]composition.MediaKind{
		"https://x/y.mp4":        composition.MediaVideo,
		"https://x/y.WEBM#t=1":   composition.MediaVideo,
		"https://x/y.png?w=1080": composition.MediaImage,
		"placeholder://segment":  composition.MediaImage,
	}
	for in, want := range tests {
		if got := KindFromURL(in); got != want {
			t.Errorf("KindFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
