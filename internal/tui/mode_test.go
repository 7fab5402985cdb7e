package tui

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestInteractiveRejectsNonFiles(t *testing.T) {
	if Interactive(strings.NewReader(""), &bytes.Buffer{}) {
		t.Fatalf("buffers must not be treated as a terminal")
	}
}

func TestCapableTerm(t *testing.T) {
	tests := []struct {
		term string
		want bool
	}{
		{"xterm-256color", true},
		{"dumb", false},
		{"DUMB", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			t.Setenv("TERM", tt.term)
			if got := capableTerm(); got != tt.want && runtime.GOOS != "windows" {
				t.Errorf("capableTerm() with TERM=%q = %v, want %v", tt.term, got, tt.want)
			}
		})
	}
}
