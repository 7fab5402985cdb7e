package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storyreel/internal/paths"
)

func TestNewWritesToLogsDir(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	logger, closer, err := New(pp, "export")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Printf("wrote %d files", 2)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(pp.LogsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "export-") {
		t.Fatalf("unexpected log name %s", entries[0].Name())
	}
	data, err := os.ReadFile(filepath.Join(pp.LogsDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "export wrote 2 files") {
		t.Fatalf("log contents = %q", data)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(pp.LogsDir, 0o755); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.log", "b.log", "c.log", "notes.txt"} {
		path := filepath.Join(pp.LogsDir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		mod := base.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := Prune(pp, 1)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	for name, want := range map[string]bool{"a.log": false, "b.log": false, "c.log": true, "notes.txt": true} {
		ok, _ := paths.FileExists(filepath.Join(pp.LogsDir, name))
		if ok != want {
			t.Errorf("%s exists = %v, want %v", name, ok, want)
		}
	}
}

func TestPruneMissingDir(t *testing.T) {
	pp, err := paths.Resolve(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if n, err := Prune(pp, 3); err != nil || n != 0 {
		t.Fatalf("prune missing = %d, %v", n, err)
	}
}
