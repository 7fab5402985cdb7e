package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"storyreel/internal/paths"
	"storyreel/internal/search"
	"storyreel/internal/session"
)

const indexVersion = 1

// ErrNoMatch reports a query that matched no indexed media.
var ErrNoMatch = errors.New("no matching media")

// Index captures the media library state persisted to .storyreel/media.json.
type Index struct {
	Version   int              `json:"version"`
	Root      string           `json:"root"`
	ScannedAt time.Time        `json:"scanned_at"`
	Entries   map[string]Entry `json:"entries"`
}

// Entry keeps metadata about one file in the media directory. Key is the
// slash-separated path relative to the media directory.
type Entry struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	MIME      string    `json:"mime"`
	Class     Class     `json:"class"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
	IndexedAt time.Time `json:"indexed_at"`
}

// Name is the file name without directory or extension.
func (e Entry) Name() string {
	base := filepath.Base(e.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load reads the media index from the project, returning an empty index when
// the file is missing.
func Load(pp paths.ProjectPaths) (*Index, error) {
	data, err := os.ReadFile(pp.MediaIndexFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newIndex(pp.MediaDir), nil
		}
		return nil, fmt.Errorf("read media index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode media index: %w", err)
	}
	idx.normalize(pp.MediaDir)
	return &idx, nil
}

// Save writes the media index atomically, creating the metadata directory if
// needed.
func Save(pp paths.ProjectPaths, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(pp.MediaIndexFile), 0o755); err != nil {
		return fmt.Errorf("ensure media index dir: %w", err)
	}
	if idx == nil {
		idx = newIndex(pp.MediaDir)
	}
	idx.normalize(pp.MediaDir)

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode media index: %w", err)
	}

	tmp := pp.MediaIndexFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp media index: %w", err)
	}
	if err := os.Rename(tmp, pp.MediaIndexFile); err != nil {
		return fmt.Errorf("replace media index: %w", err)
	}
	return nil
}

// Get returns the entry for key when present.
func (idx *Index) Get(key string) (Entry, bool) {
	if idx == nil || idx.Entries == nil {
		return Entry{}, false
	}
	entry, ok := idx.Entries[key]
	return entry, ok
}

// Set stores an entry under its key.
func (idx *Index) Set(entry Entry) {
	if idx == nil {
		return
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
	idx.Entries[entry.Key] = entry
}

// Delete removes the entry for key.
func (idx *Index) Delete(key string) {
	if idx == nil || idx.Entries == nil {
		return
	}
	delete(idx.Entries, key)
}

// Sorted returns the entries ordered by key.
func (idx *Index) Sorted() []Entry {
	if idx == nil {
		return nil
	}
	out := make([]Entry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (idx *Index) normalize(root string) {
	if idx.Version == 0 {
		idx.Version = indexVersion
	}
	if idx.Root == "" {
		idx.Root = root
	}
	if idx.Entries == nil {
		idx.Entries = map[string]Entry{}
	}
}

func newIndex(root string) *Index {
	return &Index{
		Version: indexVersion,
		Root:    root,
		Entries: map[string]Entry{},
	}
}

// ScanResult lists the keys touched by a scan.
type ScanResult struct {
	Added     []string
	Updated   []string
	Removed   []string
	Unchanged int
	Skipped   []string
}

// Scan walks the index root and brings the index up to date. Files whose
// size and modification time are unchanged are not sniffed again. Files of
// unsupported types are reported in Skipped.
func (idx *Index) Scan(ctx context.Context, now time.Time) (ScanResult, error) {
	var res ScanResult
	seen := map[string]bool{}

	err := filepath.WalkDir(idx.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != idx.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(idx.Root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		info, err := d.Info()
		if err != nil {
			return err
		}

		prior, exists := idx.Get(key)
		if exists && prior.SizeBytes == info.Size() && prior.ModTime.Equal(info.ModTime()) {
			seen[key] = true
			res.Unchanged++
			return nil
		}

		detected, err := DetectFile(path)
		if err != nil {
			if errors.Is(err, ErrUnsupported) {
				res.Skipped = append(res.Skipped, key)
				return nil
			}
			return err
		}
		seen[key] = true
		idx.Set(Entry{
			Key:       key,
			Path:      path,
			MIME:      detected.MIME,
			Class:     detected.Class,
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
			IndexedAt: now,
		})
		if exists {
			res.Updated = append(res.Updated, key)
		} else {
			res.Added = append(res.Added, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("scan media: %w", err)
	}

	for key := range idx.Entries {
		if !seen[key] {
			idx.Delete(key)
			res.Removed = append(res.Removed, key)
		}
	}
	sort.Strings(res.Removed)
	idx.ScannedAt = now
	return res, nil
}

// Search ranks indexed files of the given classes by name. With no classes
// every entry is a candidate.
func (idx *Index) Search(query string, classes ...Class) []Entry {
	var pool []Entry
	for _, e := range idx.Sorted() {
		if len(classes) == 0 || containsClass(classes, e.Class) {
			pool = append(pool, e)
		}
	}
	names := make([]string, len(pool))
	for i, e := range pool {
		names[i] = strings.NewReplacer("_", " ", "-", " ").Replace(e.Name())
	}

	ranked := search.Rank(query, names)
	out := make([]Entry, len(ranked))
	for i, r := range ranked {
		out[i] = pool[r.Index]
	}
	return out
}

func containsClass(classes []Class, c Class) bool {
	for _, x := range classes {
		if x == c {
			return true
		}
	}
	return false
}

// Library serves segment media from an index. It satisfies
// session.MediaSource.
type Library struct {
	idx *Index
}

// NewLibrary wraps idx.
func NewLibrary(idx *Index) *Library {
	return &Library{idx: idx}
}

// Find returns the best image or video whose file name matches query.
func (l *Library) Find(ctx context.Context, query string) (session.MediaAsset, error) {
	if err := ctx.Err(); err != nil {
		return session.MediaAsset{}, err
	}
	hits := l.idx.Search(query, ClassImage, ClassVideo)
	if len(hits) == 0 {
		return session.MediaAsset{}, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	return session.MediaAsset{URL: FileURL(hits[0].Path), Kind: hits[0].Info().Kind()}, nil
}

// FindAudio returns the best audio file whose name matches query.
func (l *Library) FindAudio(query string) (Entry, error) {
	hits := l.idx.Search(query, ClassAudio)
	if len(hits) == 0 {
		return Entry{}, fmt.Errorf("%w for %q", ErrNoMatch, query)
	}
	return hits[0], nil
}

// Info returns the detection result stored in the entry.
func (e Entry) Info() Info {
	return Info{MIME: e.MIME, Class: e.Class}
}
