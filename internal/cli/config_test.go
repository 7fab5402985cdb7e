package cli

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestConfigShowYAML(t *testing.T) {
	useProject(t, "", false)

	out, _, err := runCommand(t, newConfigCmd(), "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"editor:", "export:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestConfigShowJSON(t *testing.T) {
	useProject(t, "", true)

	out, _, err := runCommand(t, newConfigCmd(), "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if _, ok := decoded["Editor"]; !ok {
		t.Fatalf("expected Editor section, got keys %v", decoded)
	}
}

func TestConfigDefaults(t *testing.T) {
	useProject(t, "", false)

	out, _, err := runCommand(t, newConfigCmd(), "defaults")
	if err != nil {
		t.Fatalf("config defaults: %v", err)
	}
	for _, want := range []string{"segment duration", "track volume", "history limit"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestEditorArgv(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want []string
	}{
		{"fallback", "", []string{"vi", "cfg.yaml"}},
		{"blank", "   ", []string{"vi", "cfg.yaml"}},
		{"plain", "nano", []string{"nano", "cfg.yaml"}},
		{"flags", "code --wait", []string{"code", "--wait", "cfg.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := editorArgv(tt.env, "cfg.yaml")
			if err != nil {
				t.Fatalf("editorArgv: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("editorArgv(%q) = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func TestHistoryLimitLabel(t *testing.T) {
	if got := historyLimitLabel(0); got != "unlimited" {
		t.Errorf("historyLimitLabel(0) = %q", got)
	}
	if got := historyLimitLabel(50); got != "50 steps" {
		t.Errorf("historyLimitLabel(50) = %q", got)
	}
}
