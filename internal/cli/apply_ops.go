package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"storyreel/internal/captions"
	"storyreel/internal/composition"
	"storyreel/internal/editor"
	"storyreel/internal/media"
	"storyreel/internal/search"
	"storyreel/internal/session"
	"storyreel/pkg/compfile"
)

// applyOp is one scripted edit. Segment and Track accept an id or a 1-based
// index ("2" or "#2"); an empty reference means the current selection.
type applyOp struct {
	Op         string   `yaml:"op"`
	Segment    string   `yaml:"segment,omitempty"`
	Track      string   `yaml:"track,omitempty"`
	At         *float64 `yaml:"at,omitempty"`
	To         *int     `yaml:"to,omitempty"`
	Value      *float64 `yaml:"value,omitempty"`
	Text       *string  `yaml:"text,omitempty"`
	Transition string   `yaml:"transition,omitempty"`
	URL        string   `yaml:"url,omitempty"`
	Path       string   `yaml:"path,omitempty"`
	Query      string   `yaml:"query,omitempty"`
	Name       *string  `yaml:"name,omitempty"`
	Kind       string   `yaml:"kind,omitempty"`
	Start      *float64 `yaml:"start,omitempty"`
	Duration   *float64 `yaml:"duration,omitempty"`
	Volume     *float64 `yaml:"volume,omitempty"`

	line int
}

func (o *applyOp) UnmarshalYAML(node *yaml.Node) error {
	type plain applyOp
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = applyOp(p)
	o.line = node.Line
	return nil
}

type opFunc func(r *opRunner, op applyOp) (editor.Outcome, error)

var opTable = map[string]opFunc{
	"add":          (*opRunner).add,
	"duplicate":    (*opRunner).duplicate,
	"delete":       (*opRunner).delete,
	"split":        (*opRunner).split,
	"move":         (*opRunner).move,
	"text":         (*opRunner).text,
	"keywords":     (*opRunner).keywords,
	"volume":       (*opRunner).volume,
	"duration":     (*opRunner).duration,
	"transition":   (*opRunner).transition,
	"caption":      (*opRunner).caption,
	"fetch-media":  (*opRunner).fetchMedia,
	"import-media": (*opRunner).importMedia,
	"title":        (*opRunner).title,
	"seek":         (*opRunner).seek,
	"undo":         (*opRunner).undo,
	"redo":         (*opRunner).redo,
	"add-track":    (*opRunner).addTrack,
	"update-track": (*opRunner).updateTrack,
	"delete-track": (*opRunner).deleteTrack,
}

func opNames() []string {
	names := make([]string, 0, len(opTable))
	for name := range opTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseOps decodes a YAML list of operations and checks every op name
// before anything runs.
func parseOps(data []byte) ([]applyOp, error) {
	var ops []applyOp
	if err := yaml.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("parse ops: %w", err)
	}
	if len(ops) == 0 {
		return nil, errors.New("ops file contains no operations")
	}
	for i := range ops {
		ops[i].Op = strings.ToLower(strings.TrimSpace(ops[i].Op))
		if _, ok := opTable[ops[i].Op]; ok {
			continue
		}
		msg := fmt.Sprintf("line %d: unknown op %q", ops[i].line, ops[i].Op)
		if best, ok := search.Suggest(ops[i].Op, opNames()); ok && ops[i].Op != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", best)
		}
		return nil, errors.New(msg)
	}
	return ops, nil
}

// opRunner executes scripted ops against a session.
type opRunner struct {
	ctx  context.Context
	sess *session.Session
	// baseDir anchors relative media paths, normally the ops file directory.
	baseDir string
	// library is opened on first use by fetch-media or add-track queries.
	library func() (*media.Library, error)
}

func (r *opRunner) run(op applyOp) (editor.Outcome, error) {
	fn, ok := opTable[op.Op]
	if !ok {
		return editor.Outcome{}, fmt.Errorf("unknown op %q", op.Op)
	}
	out, err := fn(r, op)
	if err != nil {
		return out, fmt.Errorf("line %d: %s: %w", op.line, op.Op, err)
	}
	return out, nil
}

// segmentID resolves a segment reference against the present composition.
func (r *opRunner) segmentID(ref string) string {
	st := r.sess.State()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return st.ActiveSegmentID
	}
	if composition.IndexOf(st.Segments, ref) >= 0 {
		return ref
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil && n >= 1 && n <= len(st.Segments) {
		return st.Segments[n-1].ID
	}
	return ref
}

func (r *opRunner) trackID(ref string) string {
	st := r.sess.State()
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return st.ActiveTrackID
	}
	if composition.TrackIndexOf(st.Tracks, ref) >= 0 {
		return ref
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil && n >= 1 && n <= len(st.Tracks) {
		return st.Tracks[n-1].ID
	}
	return ref
}

func (r *opRunner) resolvePath(p string) string {
	if filepath.IsAbs(p) || r.baseDir == "" {
		return p
	}
	return filepath.Join(r.baseDir, p)
}

func errMissing(field string) error {
	return fmt.Errorf("%s is required", field)
}

func (r *opRunner) add(applyOp) (editor.Outcome, error) {
	return r.sess.AddSegment(), nil
}

func (r *opRunner) duplicate(op applyOp) (editor.Outcome, error) {
	return r.sess.DuplicateSegment(r.segmentID(op.Segment)), nil
}

func (r *opRunner) delete(op applyOp) (editor.Outcome, error) {
	return r.sess.DeleteSegment(r.segmentID(op.Segment)), nil
}

// split cuts at the playback cursor unless at gives a segment-local time.
func (r *opRunner) split(op applyOp) (editor.Outcome, error) {
	if op.At == nil {
		if op.Segment != "" {
			return editor.Outcome{}, errMissing("at")
		}
		return r.sess.SplitAtCursor(), nil
	}
	return r.sess.Split(r.segmentID(op.Segment), *op.At), nil
}

// move takes a 1-based destination.
func (r *opRunner) move(op applyOp) (editor.Outcome, error) {
	if op.To == nil {
		return editor.Outcome{}, errMissing("to")
	}
	return r.sess.MoveSegment(r.segmentID(op.Segment), *op.To-1), nil
}

func (r *opRunner) text(op applyOp) (editor.Outcome, error) {
	if op.Text == nil {
		return editor.Outcome{}, errMissing("text")
	}
	return r.sess.UpdateText(r.segmentID(op.Segment), *op.Text), nil
}

func (r *opRunner) keywords(op applyOp) (editor.Outcome, error) {
	if op.Text == nil {
		return editor.Outcome{}, errMissing("text")
	}
	return r.sess.UpdateKeywords(r.segmentID(op.Segment), *op.Text), nil
}

func (r *opRunner) volume(op applyOp) (editor.Outcome, error) {
	if op.Value == nil {
		return editor.Outcome{}, errMissing("value")
	}
	return r.sess.UpdateVolume(r.segmentID(op.Segment), *op.Value), nil
}

func (r *opRunner) duration(op applyOp) (editor.Outcome, error) {
	if op.Value == nil {
		return editor.Outcome{}, errMissing("value")
	}
	return r.sess.UpdateDuration(r.segmentID(op.Segment), *op.Value), nil
}

func (r *opRunner) transition(op applyOp) (editor.Outcome, error) {
	if op.Transition == "" {
		return editor.Outcome{}, errMissing("transition")
	}
	return r.sess.UpdateTransition(r.segmentID(op.Segment), composition.Transition(op.Transition)), nil
}

func (r *opRunner) caption(op applyOp) (editor.Outcome, error) {
	return r.sess.Caption(captions.Estimator{}, r.segmentID(op.Segment))
}

// fetchMedia searches the media library with query, or with the segment's
// keywords when query is empty.
func (r *opRunner) fetchMedia(op applyOp) (editor.Outcome, error) {
	lib, err := r.library()
	if err != nil {
		return editor.Outcome{}, err
	}
	id := r.segmentID(op.Segment)
	if op.Query == "" {
		return r.sess.FetchMedia(r.ctx, lib, id)
	}
	asset, err := lib.Find(r.ctx, op.Query)
	if err != nil {
		return editor.Outcome{}, err
	}
	return r.sess.ReplaceMedia(id, asset.URL, asset.Kind), nil
}

func (r *opRunner) importMedia(op applyOp) (editor.Outcome, error) {
	if op.Path == "" && op.URL == "" {
		return editor.Outcome{}, errMissing("path or url")
	}
	id := r.segmentID(op.Segment)
	if op.URL != "" {
		kind := composition.MediaKind(op.Kind)
		if kind == "" {
			kind = compfile.KindFromURL(op.URL)
		}
		return r.sess.ReplaceMedia(id, op.URL, kind), nil
	}
	asset, err := media.FromFile(r.resolvePath(op.Path))
	if err != nil {
		return editor.Outcome{}, err
	}
	return r.sess.ReplaceMedia(id, asset.URL, asset.Kind), nil
}

func (r *opRunner) title(op applyOp) (editor.Outcome, error) {
	if op.Text == nil {
		return editor.Outcome{}, errMissing("text")
	}
	return r.sess.SetTitle(*op.Text), nil
}

func (r *opRunner) seek(op applyOp) (editor.Outcome, error) {
	if op.At == nil {
		return editor.Outcome{}, errMissing("at")
	}
	cursor := r.sess.Seek(*op.At)
	return editor.Outcome{Status: editor.Applied, Detail: fmt.Sprintf("cursor=%.3f", cursor)}, nil
}

func (r *opRunner) undo(applyOp) (editor.Outcome, error) {
	if r.sess.Undo() {
		return editor.Outcome{Status: editor.Applied}, nil
	}
	return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNoChange, Detail: "nothing to undo"}, nil
}

func (r *opRunner) redo(applyOp) (editor.Outcome, error) {
	if r.sess.Redo() {
		return editor.Outcome{Status: editor.Applied}, nil
	}
	return editor.Outcome{Status: editor.Rejected, Reason: editor.ReasonNoChange, Detail: "nothing to redo"}, nil
}

// addTrack places audio from url, a local audio file, or the best library
// match for query. Start defaults to the playback cursor.
func (r *opRunner) addTrack(op applyOp) (editor.Outcome, error) {
	track := editor.NewTrack{
		Kind:      composition.TrackKind(op.Kind),
		StartTime: op.Start,
		Volume:    op.Volume,
	}
	if op.Name != nil {
		track.Name = *op.Name
	}
	switch {
	case op.URL != "":
		track.URL = op.URL
	case op.Path != "":
		abs, err := filepath.Abs(r.resolvePath(op.Path))
		if err != nil {
			return editor.Outcome{}, err
		}
		info, err := media.DetectFile(abs)
		if err != nil {
			return editor.Outcome{}, err
		}
		if info.Class != media.ClassAudio {
			return editor.Outcome{}, fmt.Errorf("%s is %s, not audio", op.Path, info.MIME)
		}
		track.URL = media.FileURL(abs)
		if track.Name == "" {
			track.Name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		}
	case op.Query != "":
		lib, err := r.library()
		if err != nil {
			return editor.Outcome{}, err
		}
		entry, err := lib.FindAudio(op.Query)
		if err != nil {
			return editor.Outcome{}, err
		}
		track.URL = media.FileURL(entry.Path)
		if track.Name == "" {
			track.Name = entry.Name()
		}
	default:
		return editor.Outcome{}, errMissing("url, path or query")
	}
	if op.Duration != nil {
		track.DurationSeconds = *op.Duration
	}
	return r.sess.AddTrack(track), nil
}

func (r *opRunner) updateTrack(op applyOp) (editor.Outcome, error) {
	update := editor.AudioUpdate{
		StartTime:       op.Start,
		DurationSeconds: op.Duration,
		Volume:          op.Volume,
		Name:            op.Name,
	}
	return r.sess.UpdateTrack(r.trackID(op.Track), update), nil
}

func (r *opRunner) deleteTrack(op applyOp) (editor.Outcome, error) {
	return r.sess.DeleteTrack(r.trackID(op.Track)), nil
}

func readOps(path string) ([]applyOp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ops: %w", err)
	}
	return parseOps(data)
}
