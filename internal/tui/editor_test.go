package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
	"storyreel/internal/session"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	n := 0
	ed := editor.New(editor.DefaultDefaults(), editor.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}))
	s := session.New(ed)
	c := composition.Composition{
		Title: "Launch video",
		Segments: []composition.Segment{
			{ID: "A", NarrationText: "first words", Media: []composition.MediaClip{{ID: "ma", URL: "https://cdn.example.com/a.jpg", Kind: composition.MediaImage}}, DurationSeconds: 3, AudioVolume: 0.5, Transition: composition.TransitionFade, TextOverlayStyle: editor.DefaultStyle()},
			{ID: "B", NarrationText: "second words", Media: []composition.MediaClip{{ID: "mb", URL: "https://cdn.example.com/b.jpg", Kind: composition.MediaImage}}, DurationSeconds: 2, AudioVolume: 0.5, Transition: composition.TransitionFade, TextOverlayStyle: editor.DefaultStyle()},
		},
	}
	if err := s.Init(c); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m EditorModel, msgs ...tea.Msg) (EditorModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(EditorModel)
		if !ok {
			t.Fatalf("Update returned %T, want EditorModel", next)
		}
	}
	return m, cmd
}

func TestEditorSplitAndUndo(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{SeekStep: 1})

	m, _ = press(t, m, runes("l"), runes("l"), runes("l"), runes("l"), runes("s"))
	st := s.State()
	if len(st.Segments) != 3 {
		t.Fatalf("segments after split = %d, want 3", len(st.Segments))
	}
	if st.Segments[1].DurationSeconds != 1 || st.Segments[2].DurationSeconds != 1 {
		t.Fatalf("split durations = %v, %v; want 1, 1", st.Segments[1].DurationSeconds, st.Segments[2].DurationSeconds)
	}
	if !m.Dirty() {
		t.Fatalf("expected dirty model after split")
	}

	m, _ = press(t, m, runes("u"))
	if got := len(s.State().Segments); got != 2 {
		t.Fatalf("segments after undo = %d, want 2", got)
	}
	m, _ = press(t, m, runes("r"))
	if got := len(s.State().Segments); got != 3 {
		t.Fatalf("segments after redo = %d, want 3", got)
	}
	if !strings.Contains(m.View(), "redo") {
		t.Fatalf("view should report the redo status:\n%s", m.View())
	}
}

func TestEditorRejectionShownInStatus(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})

	// Cursor at 0 is on a segment boundary.
	m, _ = press(t, m, runes("s"))
	if m.statusKind != "rejected" {
		t.Fatalf("status kind = %q, want rejected", m.statusKind)
	}
	if len(s.State().Segments) != 2 {
		t.Fatalf("rejected split changed segments")
	}
	if s.State().CanUndo {
		t.Fatalf("rejected split should not record history")
	}
}

func TestEditorNavigation(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})

	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"next", runes("]"), "B"},
		{"wrap forward", runes("]"), "A"},
		{"wrap back", runes("["), "B"},
		{"previous", runes("k"), "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ = press(t, m, tt.key)
			if got := s.State().ActiveSegmentID; got != tt.want {
				t.Fatalf("active = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditorMoveAndVolume(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})

	m, _ = press(t, m, runes("J"))
	st := s.State()
	if st.Segments[0].ID != "B" || st.Segments[1].ID != "A" {
		t.Fatalf("order after move = %s,%s; want B,A", st.Segments[0].ID, st.Segments[1].ID)
	}

	m, _ = press(t, m, runes("+"))
	idx := composition.IndexOf(s.State().Segments, "A")
	if got := s.State().Segments[idx].AudioVolume; got < 0.59 || got > 0.61 {
		t.Fatalf("volume = %v, want 0.6", got)
	}
	_ = m
}

func TestEditorTrackCycleAndDelete(t *testing.T) {
	s := testSession(t)
	if out := s.AddTrack(editor.NewTrack{URL: "https://audio.example.com/bed.mp3", Name: "bed", Kind: composition.TrackMusic}); !out.OK() {
		t.Fatalf("add track: %v", out)
	}
	trackID := s.State().ActiveTrackID
	s.SelectSegment("A")

	m := NewEditorModel(s, EditorOptions{})
	m, _ = press(t, m, runes("t"))
	if got := s.State().ActiveTrackID; got != trackID {
		t.Fatalf("active track = %q, want %q", got, trackID)
	}

	m, _ = press(t, m, runes("-"))
	if got := s.State().Tracks[0].Volume; got < 0.39 || got > 0.41 {
		t.Fatalf("track volume = %v, want 0.4", got)
	}

	m, _ = press(t, m, runes("d"))
	st := s.State()
	if len(st.Tracks) != 0 {
		t.Fatalf("tracks after delete = %d, want 0", len(st.Tracks))
	}
	if len(st.Segments) != 2 {
		t.Fatalf("deleting a track removed a segment")
	}
	if st.ActiveSegmentID != "" || st.ActiveTrackID != "" {
		t.Fatalf("selection after track delete = %q/%q, want cleared", st.ActiveSegmentID, st.ActiveTrackID)
	}
	_ = m
}

func TestEditorPlaybackFrames(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !s.State().Playing {
		t.Fatalf("expected playing after space")
	}
	start := time.Now()
	m, cmd := press(t, m, frameMsg(start.Add(4*time.Second)))
	if cmd == nil {
		t.Fatalf("frame should schedule the next frame")
	}
	if got := s.State().ActiveSegmentID; got != "B" {
		t.Fatalf("active during playback = %q, want B", got)
	}

	m, _ = press(t, m, frameMsg(start.Add(10*time.Second)))
	st := s.State()
	if st.Playing {
		t.Fatalf("playback should stop at the end")
	}
	if m.status != "playback finished" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestEditorSave(t *testing.T) {
	s := testSession(t)
	var saved composition.Composition
	m := NewEditorModel(s, EditorOptions{Save: func(c composition.Composition) error {
		saved = c
		return nil
	}})

	m, _ = press(t, m, runes("a"))
	m, cmd := press(t, m, runes("w"))
	if cmd == nil {
		t.Fatalf("save should return a command")
	}
	m, _ = press(t, m, cmd())
	if len(saved.Segments) != 3 {
		t.Fatalf("saved segments = %d, want 3", len(saved.Segments))
	}
	if m.Dirty() {
		t.Fatalf("model still dirty after save")
	}
	if m.statusKind != "saved" {
		t.Fatalf("status kind = %q, want saved", m.statusKind)
	}

	failing := NewEditorModel(s, EditorOptions{Save: func(composition.Composition) error {
		return errors.New("disk full")
	}})
	failing, cmd = press(t, failing, runes("w"))
	failing, _ = press(t, failing, cmd())
	if failing.statusKind != "error" || !strings.Contains(failing.status, "disk full") {
		t.Fatalf("status = %q (%s), want save failure", failing.status, failing.statusKind)
	}
}

func TestEditorQuitAndFatalError(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})

	m, cmd := press(t, m, runes("q"))
	if cmd == nil || !m.quitting {
		t.Fatalf("q should quit")
	}

	m = NewEditorModel(s, EditorOptions{})
	m, _ = press(t, m, ErrorMsg{Err: errors.New("boom")})
	if m.Err() == nil || !strings.Contains(m.View(), "boom") {
		t.Fatalf("fatal error not surfaced: %v %q", m.Err(), m.View())
	}
}

func TestEditorViewListsSegments(t *testing.T) {
	s := testSession(t)
	m := NewEditorModel(s, EditorOptions{})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	view := m.View()
	for _, want := range []string{"Launch video", "first words", "second words", "5.0s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCellWidths(t *testing.T) {
	segs := []composition.Segment{{DurationSeconds: 3}, {DurationSeconds: 0.01}, {DurationSeconds: 2}}
	cells := cellWidths(segs, 5.01, 20)
	total := 0
	for i, c := range cells {
		if c < 1 {
			t.Fatalf("cell %d width %d, want >= 1", i, c)
		}
		total += c
	}
	if total != 20 {
		t.Fatalf("total width = %d, want 20", total)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer caption", 8, "a lon..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
