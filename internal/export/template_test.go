package export

import (
	"testing"
	"time"

	"storyreel/internal/composition"
)

func TestTemplateFileName(t *testing.T) {
	c := composition.Composition{
		Title: "Chic, C'est La Vie",
		Segments: []composition.Segment{
			{ID: "a", DurationSeconds: 3},
			{ID: "b", DurationSeconds: 2.4},
		},
		AudioTracks: []composition.AudioClip{{ID: "bed"}},
	}
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		template string
		format   Format
		want     string
	}{
		{"title and date", "$DATE_$TITLE", FormatJSON, "20240309_Chic_C_est_La_Vie.json"},
		{"safe title", "$SAFE_TITLE-$FORMAT", FormatEDL, "chic-cest-la-vie-edl.edl"},
		{"counts", "reel_$SEGMENTSseg", FormatConcat, "reel.ffconcat"},
		{"counts separated", "reel-$SEGMENTS-$TRACKS-$DURATION", FormatJSON, "reel-2-1-5.json"},
		{"literal dollar", "$$cut", FormatJSON, "cut.json"},
		{"unknown token", "$NOPE", FormatJSON, "chic-cest-la-vie.json"},
		{"empty", "", FormatEDL, "chic-cest-la-vie.edl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemplateFileName(tt.template, c, tt.format, now); got != tt.want {
				t.Fatalf("TemplateFileName(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}
