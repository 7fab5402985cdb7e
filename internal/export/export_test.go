package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storyreel/internal/composition"
)

func testComposition() composition.Composition {
	return composition.Composition{
		Title: "Coffee Story: Part 1",
		Segments: []composition.Segment{
			{
				ID:              "a",
				NarrationText:   "Morning beans",
				Media:           []composition.MediaClip{{ID: "m1", URL: "file:///media/beans.png", Kind: composition.MediaImage}},
				DurationSeconds: 2,
				AudioVolume:     1,
				Transition:      composition.TransitionFade,
			},
			{
				ID:              "b",
				NarrationText:   "Roast it's done",
				Media:           []composition.MediaClip{{ID: "m2", URL: "file:///media/it's roast.mp4", Kind: composition.MediaVideo}},
				DurationSeconds: 1.5,
				AudioVolume:     0.5,
				Transition:      composition.TransitionSlide,
			},
		},
		AudioTracks: []composition.AudioClip{
			{ID: "t1", URL: "file:///media/bed.mp3", Kind: composition.TrackMusic, StartTime: 1, DurationSeconds: 10, Volume: 0.4},
			{ID: "t2", URL: "file:///media/late.mp3", Kind: composition.TrackSFX, StartTime: 5, DurationSeconds: 1, Volume: 1},
		},
	}
}

func TestBuild(t *testing.T) {
	snap := Build(testComposition())

	if snap.TotalDuration != 3.5 {
		t.Fatalf("total = %v, want 3.5", snap.TotalDuration)
	}
	if got := snap.Segments[1]; got.Start != 2 || got.End != 3.5 || got.Index != 2 {
		t.Fatalf("second segment = %+v", got)
	}
	if len(snap.AudioTracks) != 1 {
		t.Fatalf("tracks = %+v, want late track dropped", snap.AudioTracks)
	}
	if tr := snap.AudioTracks[0]; tr.End != 3.5 || !tr.Truncated {
		t.Fatalf("track = %+v, want truncated at 3.5", tr)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, Build(testComposition()), 30); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["total_duration_s"] != 3.5 {
		t.Fatalf("total_duration_s = %v", decoded["total_duration_s"])
	}
}

func TestEDL(t *testing.T) {
	edl := EDL(Build(testComposition()), 30)

	for _, want := range []string{
		"TITLE: Coffee Story_ Part 1",
		"FCM: NON-DROP FRAME",
		"001  SEG001   V     C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00",
		"002  SEG002   V     C        00:00:00:00 00:00:01:15 00:00:02:00 00:00:03:15",
		"* FROM CLIP NAME:  Roast it's done",
		"* MEDIA PATH:  /media/beans.png",
		"* TRANSITION:  slide",
	} {
		if !strings.Contains(edl, want) {
			t.Fatalf("missing %q in EDL:\n%s", want, edl)
		}
	}

	if !strings.Contains(EDL(Build(testComposition()), 29.97), "FCM: DROP FRAME") {
		t.Fatal("expected drop frame for 29.97")
	}
}

func TestConcat(t *testing.T) {
	out := Concat(Build(testComposition()))
	want := "ffconcat version 1.0\n" +
		"# 001 a\nfile '/media/beans.png'\nduration 2.000\n" +
		"# 002 b\nfile '/media/it'\\''s roast.mp4'\nduration 1.500\n"
	if out != want {
		t.Fatalf("concat mismatch\n got: %q\nwant: %q", out, want)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"JSON": FormatJSON, " edl ": FormatEDL, "concat": FormatConcat} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("mov"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Coffee Story: Part 1", FormatEDL, "coffee-story-part-1.edl"},
		{"", FormatJSON, "composition.json"},
		{"!!!", FormatConcat, "composition.ffconcat"},
	}
	for _, tc := range tests {
		if got := FileName(tc.title, tc.format); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	c := testComposition()
	a := Fingerprint(c, FormatJSON, 30)
	if !strings.HasPrefix(a, "sha256:") {
		t.Fatalf("fingerprint = %q", a)
	}
	if b := Fingerprint(c.Clone(), FormatJSON, 30); a != b {
		t.Fatal("fingerprint not deterministic")
	}
	if b := Fingerprint(c, FormatEDL, 30); a == b {
		t.Fatal("format should affect fingerprint")
	}
	c.Segments[0].AudioVolume = 0.9
	if b := Fingerprint(c, FormatJSON, 30); a == b {
		t.Fatal("segment change should affect fingerprint")
	}
}

func TestStateDecide(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.json")
	statePath := filepath.Join(dir, ".storyreel", "export_state.json")

	st, err := LoadState(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if action, reason := st.Decide(output, "sha256:1", false); action != ActionExport || reason != ReasonNew {
		t.Fatalf("first export = %s/%s", action, reason)
	}

	if err := os.WriteFile(output, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	st.Record(output, Record{Fingerprint: "sha256:1", Format: FormatJSON, ExportedAt: time.Now()})
	if err := st.Save(statePath); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err = LoadState(statePath)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		fingerprint string
		force       bool
		action      string
		reason      string
	}{
		{"unchanged", "sha256:1", false, ActionSkip, ReasonUpToDate},
		{"changed", "sha256:2", false, ActionExport, ReasonChanged},
		{"forced", "sha256:1", true, ActionExport, ReasonForced},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, reason := st.Decide(output, tc.fingerprint, tc.force)
			if action != tc.action || reason != tc.reason {
				t.Fatalf("got %s/%s, want %s/%s", action, reason, tc.action, tc.reason)
			}
		})
	}

	if err := os.Remove(output); err != nil {
		t.Fatal(err)
	}
	if _, reason := st.Decide(output, "sha256:1", false); reason != ReasonOutputMissing {
		t.Fatalf("reason = %s, want output missing", reason)
	}
	if n := st.Prune(); n != 1 || len(st.Outputs) != 0 {
		t.Fatalf("prune = %d, outputs = %v", n, st.Outputs)
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{bad"), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := LoadState(path)
	if err != nil || len(st.Outputs) != 0 {
		t.Fatalf("corrupt state = %+v, %v", st, err)
	}
}

func TestFileRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "story.edl")
	r := FileRenderer{Path: path, Format: FormatEDL, FrameRate: 25}
	if err := r.Render(context.Background(), testComposition()); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "TITLE: ") {
		t.Fatalf("unexpected output %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind")
	}
}
