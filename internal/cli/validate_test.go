package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateCleanProject(t *testing.T) {
	useProject(t, sampleComposition, false)

	out, _, err := runCommand(t, newValidateCmd())
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No issues found.") {
		t.Fatalf("expected clean report, got %q", out)
	}
}

func TestValidateReportsCompositionAndConfigErrors(t *testing.T) {
	root := useProject(t, "title: Broken\nsegments:\n  - id: a\n    duration_s: 2\n    transition: wipe\n", false)
	cfg := "editor:\n  min_fragment_s: -1\nexport:\n  format: mov\n"
	if err := os.WriteFile(filepath.Join(root, "storyreel.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCommand(t, newValidateCmd())
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	for _, want := range []string{"transition", "min_fragment_s", "export.format", "composition", "config"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report, got %q", want, out)
		}
	}
}

func TestValidateJSON(t *testing.T) {
	useProject(t, sampleComposition, true)

	out, _, err := runCommand(t, newValidateCmd())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, `"valid": true`) || !strings.Contains(out, `"findings": []`) {
		t.Fatalf("unexpected JSON: %q", out)
	}
}
