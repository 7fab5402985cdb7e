// Package session owns one editing session: the composition history, the
// selection and the playback clock. All UI intents go through a Session,
// which serialises them with a mutex so hosts may deliver ticks and edits
// from different goroutines.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
	"storyreel/internal/history"
	"storyreel/internal/playback"
	"storyreel/internal/selection"
)

var (
	ErrNotInitialized = errors.New("session not initialized")
	ErrDisposed       = errors.New("session disposed")
)

// ReasonInactive rejects edits on a session that is not initialized or has
// been disposed.
const ReasonInactive editor.Reason = "session inactive"

// Logger keeps the subset of log.Logger used by the session.
type Logger interface {
	Printf(format string, v ...any)
}

// Entry is one undoable snapshot. The title is not part of history.
type Entry struct {
	Segments []composition.Segment
	Tracks   []composition.AudioClip
}

type lifecycle int

const (
	stateNew lifecycle = iota
	stateActive
	stateDisposed
)

// Session is an explicitly owned editing session. Create one with New, seed
// it with Init and release it with Dispose.
type Session struct {
	mu     sync.Mutex
	ed     *editor.Editor
	logger Logger
	limit  int

	state lifecycle
	title string
	hist  *history.History[Entry]
	sel   selection.Selection
	clock playback.Clock
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session logs to l.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistoryLimit caps the number of undo steps kept.
func WithHistoryLimit(n int) Option {
	return func(s *Session) {
		s.limit = n
	}
}

// New returns an uninitialized session using ed for all edits.
func New(ed *editor.Editor, opts ...Option) *Session {
	if ed == nil {
		ed = editor.New(editor.DefaultDefaults())
	}
	s := &Session{
		ed:     ed,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init seeds the session with c. The history starts with c as its present
// and empty past and future; playback rewinds and the first segment is
// selected. Init may be called again to load a different composition.
func (s *Session) Init(c composition.Composition) error {
	if err := composition.Validate(c); err != nil {
		return fmt.Errorf("initial composition: %w", err)
	}
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.title = c.Title
	s.hist = history.New(Entry{Segments: c.Segments, Tracks: c.AudioTracks}, history.WithLimit(s.limit))
	s.clock.Reset()
	s.sel.Clear()
	s.sel.SeekTo(c.Segments, 0)
	s.state = stateActive
	s.logger.Printf("session init: title=%q segments=%d tracks=%d", c.Title, len(c.Segments), len(c.AudioTracks))
	return nil
}

// Dispose drops the history and stops playback. Later edits are rejected
// until Init is called again.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return
	}
	s.hist = nil
	s.clock.Reset()
	s.sel.Clear()
	s.state = stateDisposed
	s.logger.Printf("session disposed")
}

// Err reports why the session cannot accept edits, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errLocked()
}

func (s *Session) errLocked() error {
	switch s.state {
	case stateNew:
		return ErrNotInitialized
	case stateDisposed:
		return ErrDisposed
	}
	return nil
}

// Composition returns a deep copy of the current composition.
func (s *Session) Composition() composition.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return composition.Composition{}
	}
	e := s.hist.Present()
	return composition.Composition{
		Title:       s.title,
		Segments:    composition.CloneSegments(e.Segments),
		AudioTracks: composition.CloneTracks(e.Tracks),
	}
}

// State is a read-only view of everything a host needs to draw the editor.
type State struct {
	Title           string
	Segments        []composition.Segment
	Tracks          []composition.AudioClip
	TotalDuration   float64
	Cursor          float64
	Playing         bool
	ActiveSegmentID string
	ActiveTrackID   string
	CanUndo         bool
	CanRedo         bool
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return State{}
	}
	e := s.hist.Present()
	return State{
		Title:           s.title,
		Segments:        composition.CloneSegments(e.Segments),
		Tracks:          composition.CloneTracks(e.Tracks),
		TotalDuration:   composition.TotalDuration(e.Segments),
		Cursor:          s.clock.Cursor(),
		Playing:         s.clock.Playing(),
		ActiveSegmentID: s.sel.SegmentID(),
		ActiveTrackID:   s.sel.TrackID(),
		CanUndo:         s.hist.CanUndo(),
		CanRedo:         s.hist.CanRedo(),
	}
}

// SetTitle renames the composition. Title changes are not undoable.
func (s *Session) SetTitle(title string) editor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return inactive()
	}
	if s.title == title {
		return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNoChange}
	}
	s.title = title
	return editor.Outcome{Status: editor.Applied}
}

// Undo restores the previous snapshot. It reports whether anything changed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive || !s.hist.Undo() {
		return false
	}
	s.afterChangeLocked()
	past, future := s.hist.Depth()
	s.logger.Printf("undo: past=%d future=%d", past, future)
	return true
}

// Redo re-applies the next snapshot. It reports whether anything changed.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive || !s.hist.Redo() {
		return false
	}
	s.afterChangeLocked()
	past, future := s.hist.Depth()
	s.logger.Printf("redo: past=%d future=%d", past, future)
	return true
}

// SelectSegment activates a segment. A stale id falls back to the first
// segment.
func (s *Session) SelectSegment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return
	}
	s.sel.SelectSegment(id)
	e := s.hist.Present()
	s.sel.Reconcile(e.Segments, e.Tracks)
}

// SelectTrack activates an audio track. A stale id clears the selection.
func (s *Session) SelectTrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return
	}
	s.sel.SelectTrack(id)
	e := s.hist.Present()
	s.sel.Reconcile(e.Segments, e.Tracks)
}

// TogglePlay starts or pauses playback and returns the new play state.
func (s *Session) TogglePlay(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return false
	}
	playing := s.clock.Toggle(now, composition.TotalDuration(s.hist.Present().Segments))
	s.logger.Printf("playback playing=%v cursor=%.3f", playing, s.clock.Cursor())
	return playing
}

// Tick advances playback to now and lets the selection follow the cursor.
// It reports whether playback stopped at the end of the timeline.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return false
	}
	segments := s.hist.Present().Segments
	stopped := s.clock.Tick(now, composition.TotalDuration(segments))
	s.sel.Follow(segments, s.clock.Cursor(), s.clock.Playing())
	if stopped {
		s.logger.Printf("playback reached end; rewound")
	}
	return stopped
}

// Seek moves the cursor, clamped to the timeline, and selects the segment
// under it. It returns the clamped cursor.
func (s *Session) Seek(t float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return 0
	}
	segments := s.hist.Present().Segments
	cursor := s.clock.Seek(t, composition.TotalDuration(segments))
	s.sel.SeekTo(segments, cursor)
	return cursor
}

// commitSegmentsLocked records a segment edit. Callers hold s.mu.
func (s *Session) commitSegmentsLocked(op string, res editor.Result[[]composition.Segment]) editor.Outcome {
	if !res.OK() {
		s.logger.Printf("%s %s", op, res)
		return res.Outcome()
	}
	cur := s.hist.Present()
	s.hist.Commit(Entry{Segments: res.Value, Tracks: cur.Tracks})
	if res.Focus != "" {
		s.sel.SelectSegment(res.Focus)
	}
	s.afterChangeLocked()
	s.logger.Printf("%s applied: segments=%d total=%.3fs", op, len(res.Value), composition.TotalDuration(res.Value))
	return res.Outcome()
}

// commitTracksLocked records an audio track edit. Callers hold s.mu.
func (s *Session) commitTracksLocked(op string, res editor.Result[[]composition.AudioClip]) editor.Outcome {
	if !res.OK() {
		s.logger.Printf("%s %s", op, res)
		return res.Outcome()
	}
	cur := s.hist.Present()
	s.hist.Commit(Entry{Segments: cur.Segments, Tracks: res.Value})
	if res.Focus != "" {
		s.sel.SelectTrack(res.Focus)
	}
	s.afterChangeLocked()
	s.logger.Printf("%s applied: tracks=%d", op, len(res.Value))
	return res.Outcome()
}

func (s *Session) afterChangeLocked() {
	e := s.hist.Present()
	s.sel.Reconcile(e.Segments, e.Tracks)
	s.clock.Clamp(composition.TotalDuration(e.Segments))
}

func inactive() editor.Outcome {
	return editor.Outcome{Status: editor.Rejected, Reason: ReasonInactive}
}
