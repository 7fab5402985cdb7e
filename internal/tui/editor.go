package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"storyreel/internal/composition"
	"storyreel/internal/editor"
	"storyreel/internal/session"
)

const (
	defaultFrameInterval = 33 * time.Millisecond
	defaultSeekStep      = 0.5
	volumeStep           = 0.1
	timelineWidth        = 60
	textColumnWidth      = 36
)

// EditorOptions configures an EditorModel.
type EditorOptions struct {
	FrameInterval time.Duration
	SeekStep      float64
	// Save persists the composition. Nil disables saving.
	Save func(composition.Composition) error
	// Estimator fills caption timings on demand. Nil disables the binding.
	Estimator session.WordTimingEstimator
}

// EditorModel is the interactive timeline editor. It owns no editing state
// of its own: every key press becomes a session intent and the view is
// drawn from session.State.
type EditorModel struct {
	sess *session.Session
	opts EditorOptions
	keys keyMap
	help help.Model

	status     string
	statusKind string
	dirty      bool
	width      int
	quitting   bool
	err        error
}

// NewEditorModel wraps sess.
func NewEditorModel(sess *session.Session, opts EditorOptions) EditorModel {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = defaultFrameInterval
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = defaultSeekStep
	}
	return EditorModel{
		sess: sess,
		opts: opts,
		keys: defaultKeyMap(),
		help: help.New(),
	}
}

func scheduleFrame(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m EditorModel) Init() tea.Cmd {
	return scheduleFrame(m.opts.FrameInterval)
}

// Update satisfies the tea.Model interface.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.quitting {
			return m, nil
		}
		if m.sess.Tick(time.Time(msg)) {
			m.setStatus("applied", "playback finished")
		}
		return m, scheduleFrame(m.opts.FrameInterval)

	case savedMsg:
		if msg.err != nil {
			m.setStatus("error", "save failed: "+msg.err.Error())
			return m, nil
		}
		m.dirty = false
		m.setStatus("saved", "saved")
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.sess.State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Play):
		if m.sess.TogglePlay(time.Now()) {
			m.setStatus("playing", "playing")
		} else {
			m.setStatus("", "paused")
		}

	case key.Matches(msg, m.keys.Back):
		m.sess.Seek(st.Cursor - m.opts.SeekStep)

	case key.Matches(msg, m.keys.Forward):
		m.sess.Seek(st.Cursor + m.opts.SeekStep)

	case key.Matches(msg, m.keys.Prev):
		m.selectRelative(st, -1)

	case key.Matches(msg, m.keys.Next):
		m.selectRelative(st, 1)

	case key.Matches(msg, m.keys.Track):
		m.cycleTrack(st)

	case key.Matches(msg, m.keys.Split):
		m.report("split", m.sess.SplitAtCursor())

	case key.Matches(msg, m.keys.Add):
		m.report("add", m.sess.AddSegment())

	case key.Matches(msg, m.keys.Duplicate):
		if st.ActiveSegmentID != "" {
			m.report("duplicate", m.sess.DuplicateSegment(st.ActiveSegmentID))
		}

	case key.Matches(msg, m.keys.Delete):
		if st.ActiveTrackID != "" {
			m.report("delete track", m.sess.DeleteTrack(st.ActiveTrackID))
		} else if st.ActiveSegmentID != "" {
			m.report("delete", m.sess.DeleteSegment(st.ActiveSegmentID))
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.move(st, -1)

	case key.Matches(msg, m.keys.MoveDown):
		m.move(st, 1)

	case key.Matches(msg, m.keys.Louder):
		m.nudgeVolume(st, volumeStep)

	case key.Matches(msg, m.keys.Quieter):
		m.nudgeVolume(st, -volumeStep)

	case key.Matches(msg, m.keys.Caption):
		if m.opts.Estimator == nil || st.ActiveSegmentID == "" {
			break
		}
		out, err := m.sess.Caption(m.opts.Estimator, st.ActiveSegmentID)
		if err != nil {
			m.setStatus("error", err.Error())
			break
		}
		m.report("captions", out)

	case key.Matches(msg, m.keys.Undo):
		if m.sess.Undo() {
			m.dirty = true
			m.setStatus("applied", "undo")
		} else {
			m.setStatus("rejected", "nothing to undo")
		}

	case key.Matches(msg, m.keys.Redo):
		if m.sess.Redo() {
			m.dirty = true
			m.setStatus("applied", "redo")
		} else {
			m.setStatus("rejected", "nothing to redo")
		}

	case key.Matches(msg, m.keys.Save):
		if m.opts.Save == nil {
			m.setStatus("rejected", "saving is disabled")
			break
		}
		save := m.opts.Save
		c := m.sess.Composition()
		m.setStatus("", "saving...")
		return m, func() tea.Msg {
			return savedMsg{err: save(c)}
		}
	}
	return m, nil
}

func (m *EditorModel) selectRelative(st session.State, delta int) {
	if len(st.Segments) == 0 {
		return
	}
	idx := composition.IndexOf(st.Segments, st.ActiveSegmentID)
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(st.Segments)) % len(st.Segments)
	}
	m.sess.SelectSegment(st.Segments[idx].ID)
}

func (m *EditorModel) cycleTrack(st session.State) {
	if len(st.Tracks) == 0 {
		m.setStatus("rejected", "no audio tracks")
		return
	}
	idx := composition.TrackIndexOf(st.Tracks, st.ActiveTrackID)
	if idx+1 >= len(st.Tracks) {
		// Past the last track, hand the selection back to the segment
		// under the cursor.
		if idx >= 0 {
			m.sess.Seek(st.Cursor)
			return
		}
		idx = -1
	}
	m.sess.SelectTrack(st.Tracks[idx+1].ID)
}

func (m *EditorModel) move(st session.State, delta int) {
	idx := composition.IndexOf(st.Segments, st.ActiveSegmentID)
	if idx < 0 {
		return
	}
	m.report("move", m.sess.MoveSegment(st.ActiveSegmentID, idx+delta))
}

func (m *EditorModel) nudgeVolume(st session.State, delta float64) {
	if i := composition.TrackIndexOf(st.Tracks, st.ActiveTrackID); i >= 0 {
		vol := st.Tracks[i].Volume + delta
		m.report("track volume", m.sess.UpdateTrack(st.ActiveTrackID, editor.AudioUpdate{Volume: &vol}))
		return
	}
	if i := composition.IndexOf(st.Segments, st.ActiveSegmentID); i >= 0 {
		m.report("volume", m.sess.UpdateVolume(st.ActiveSegmentID, st.Segments[i].AudioVolume+delta))
	}
}

func (m *EditorModel) report(op string, out editor.Outcome) {
	if out.OK() {
		m.dirty = true
		m.setStatus("applied", op)
		return
	}
	m.setStatus("rejected", op+": "+out.String())
}

func (m *EditorModel) setStatus(kind, text string) {
	m.statusKind = kind
	m.status = text
}

// Err returns any fatal error that occurred.
func (m EditorModel) Err() error {
	return m.err
}

// Dirty reports whether there are edits since the last save.
func (m EditorModel) Dirty() bool {
	return m.dirty
}

// View satisfies the tea.Model interface.
func (m EditorModel) View() string {
	if m.quitting {
		if m.err != nil {
			return fmt.Sprintf("Error: %v\n", m.err)
		}
		return ""
	}
	st := m.sess.State()

	var b strings.Builder
	title := NonEmptyOrDash(st.Title)
	if m.dirty {
		title += " *"
	}
	b.WriteString(HeaderStyle.Render(title))
	fmt.Fprintf(&b, "  %s / %s", formatSeconds(st.Cursor), formatSeconds(st.TotalDuration))
	if st.Playing {
		b.WriteString("  " + StatusStyle("playing").Render("▶"))
	}
	b.WriteString("\n\n")

	b.WriteString(renderTimeline(st, m.timelineWidth()))
	b.WriteString("\n\n")

	b.WriteString(HeaderStyle.Render(pad("#", 4) + pad("START", 8) + pad("DUR", 7) + pad("VOL", 6) + pad("FX", 7) + "NARRATION"))
	b.WriteByte('\n')
	offsets := composition.Offsets(st.Segments)
	for i, seg := range st.Segments {
		row := pad(fmt.Sprintf("%d", i+1), 4) +
			pad(formatSeconds(offsets[i]), 8) +
			pad(formatSeconds(seg.DurationSeconds), 7) +
			pad(fmt.Sprintf("%.0f%%", seg.AudioVolume*100), 6) +
			pad(string(seg.Transition), 7) +
			TruncateWithEllipsis(NonEmptyOrDash(seg.NarrationText), textColumnWidth)
		if seg.ID == st.ActiveSegmentID {
			row = activeRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}

	if len(st.Tracks) > 0 {
		b.WriteByte('\n')
		b.WriteString(HeaderStyle.Render(pad("AUDIO", 22) + pad("KIND", 7) + pad("START", 8) + pad("DUR", 7) + "VOL"))
		b.WriteByte('\n')
		for _, tr := range st.Tracks {
			row := pad(TruncateWithEllipsis(NonEmptyOrDash(tr.Name), 20), 22) +
				pad(string(tr.Kind), 7) +
				pad(formatSeconds(tr.StartTime), 8) +
				pad(formatSeconds(tr.DurationSeconds), 7) +
				fmt.Sprintf("%.0f%%", tr.Volume*100)
			if tr.ID == st.ActiveTrackID {
				row = activeRowStyle.Render(row)
			}
			b.WriteString(row)
			b.WriteByte('\n')
		}
	}

	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(StatusStyle(m.statusKind).Render(m.status))
	} else {
		b.WriteString(faintStyle.Render(undoHint(st)))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')
	return b.String()
}

func (m EditorModel) timelineWidth() int {
	if m.width > 10 && m.width-4 < timelineWidth {
		return m.width - 4
	}
	return timelineWidth
}

// renderTimeline draws segments as proportional blocks with the cursor
// marked underneath.
func renderTimeline(st session.State, width int) string {
	if st.TotalDuration <= 0 || width <= 0 {
		return ""
	}
	cells := cellWidths(st.Segments, st.TotalDuration, width)

	var bar strings.Builder
	for i, seg := range st.Segments {
		label := TruncateWithEllipsis(fmt.Sprintf("%d", i+1), cells[i])
		block := pad(label, cells[i])
		style := segmentBlocks[i%len(segmentBlocks)]
		if seg.ID == st.ActiveSegmentID {
			style = activeBlock
		}
		bar.WriteString(style.Render(block))
	}

	pos := int(st.Cursor / st.TotalDuration * float64(width))
	if pos >= width {
		pos = width - 1
	}
	marker := strings.Repeat(" ", pos) + cursorStyle.Render("^")
	return bar.String() + "\n" + marker
}

// cellWidths spreads width columns across segments by duration, giving each
// segment at least one column and the remainder to the last.
func cellWidths(segments []composition.Segment, total float64, width int) []int {
	cells := make([]int, len(segments))
	used := 0
	for i, seg := range segments {
		cells[i] = max(1, int(seg.DurationSeconds/total*float64(width)))
		used += cells[i]
	}
	if n := len(cells); n > 0 && used < width {
		cells[n-1] += width - used
	}
	return cells
}

func undoHint(st session.State) string {
	var parts []string
	if st.CanUndo {
		parts = append(parts, "undo available")
	}
	if st.CanRedo {
		parts = append(parts, "redo available")
	}
	if len(parts) == 0 {
		return "no edits yet"
	}
	return strings.Join(parts, " · ")
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1fs", s)
}
