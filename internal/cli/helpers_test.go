package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const sampleComposition = `title: Launch Day
segments:
  - id: intro
    narration_text: Welcome to the launch of our new product
    search_keywords: rocket launch
    media_url: https://cdn.example.com/rocket.jpg
    duration_s: 3
    audio_volume: 0.8
  - id: outro
    narration_text: Thanks for watching
    media_url: https://cdn.example.com/wave.mp4
    duration_s: 2
audio_tracks:
  - id: bed
    url: https://audio.example.com/bed.mp3
    name: Bed
    start_s: 0
    duration_s: 5
`

// useProject points the global flags at a fresh project directory holding
// the given composition and restores them when the test ends.
func useProject(t *testing.T, composition string, jsonOut bool) string {
	t.Helper()
	prevProject := projectDir
	prevJSON := outputJSON
	t.Cleanup(func() {
		projectDir = prevProject
		outputJSON = prevJSON
	})

	projectDir = t.TempDir()
	outputJSON = jsonOut

	if composition != "" {
		if err := os.WriteFile(filepath.Join(projectDir, "composition.yaml"), []byte(composition), 0o644); err != nil {
			t.Fatalf("write composition: %v", err)
		}
	}
	return projectDir
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
