package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportSkipsUnchangedComposition(t *testing.T) {
	root := useProject(t, sampleComposition, false)
	want := filepath.Join(root, "exports", "launch-day.json")

	out, _, err := runCommand(t, newExportCmd())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported "+want) || !strings.Contains(out, "new output") {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"outro"`) {
		t.Fatalf("export missing segment: %s", data)
	}
	if _, err := os.Stat(filepath.Join(root, ".storyreel", "export_state.json")); err != nil {
		t.Fatalf("export state not written: %v", err)
	}

	out, _, err = runCommand(t, newExportCmd())
	if err != nil {
		t.Fatalf("second export: %v", err)
	}
	if !strings.Contains(out, "Skipped") || !strings.Contains(out, "up to date") {
		t.Fatalf("expected skip, got %q", out)
	}

	out, _, err = runCommand(t, newExportCmd(), "--force")
	if err != nil {
		t.Fatalf("forced export: %v", err)
	}
	if !strings.Contains(out, "forced") {
		t.Fatalf("expected forced export, got %q", out)
	}

	changed := strings.Replace(sampleComposition, "duration_s: 2", "duration_s: 4", 1)
	if err := os.WriteFile(filepath.Join(root, "composition.yaml"), []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCommand(t, newExportCmd())
	if err != nil {
		t.Fatalf("export after change: %v", err)
	}
	if !strings.Contains(out, "composition changed") {
		t.Fatalf("expected re-export after change, got %q", out)
	}
}

func TestExportFormats(t *testing.T) {
	tests := []struct {
		format string
		file   string
		want   string
	}{
		{"edl", "launch-day.edl", "TITLE: Launch Day"},
		{"concat", "launch-day.ffconcat", "ffconcat version 1.0"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			root := useProject(t, sampleComposition, false)
			if _, _, err := runCommand(t, newExportCmd(), "--format", tt.format); err != nil {
				t.Fatalf("export: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(root, "exports", tt.file))
			if err != nil {
				t.Fatalf("read export: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Fatalf("expected %q in %s:\n%s", tt.want, tt.file, data)
			}
		})
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	useProject(t, sampleComposition, false)
	if _, _, err := runCommand(t, newExportCmd(), "--format", "mov"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
