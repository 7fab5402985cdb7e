package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	ActionExport = "export"
	ActionSkip   = "skip"

	ReasonForced        = "forced"
	ReasonNew           = "new output"
	ReasonChanged       = "composition changed"
	ReasonOutputMissing = "output missing"
	ReasonUpToDate      = "up to date"
)

// Record tracks the inputs and time of one written export.
type Record struct {
	Fingerprint string    `json:"fingerprint"`
	Format      Format    `json:"format"`
	ExportedAt  time.Time `json:"exported_at"`
	Segments    int       `json:"segments"`
	DurationS   float64   `json:"duration_s"`
}

// State maps output paths to the export that produced them.
type State struct {
	Outputs map[string]Record `json:"outputs"`
}

// LoadState reads export state from path. A missing or corrupt file returns
// an empty state without error.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyState(), nil
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return emptyState(), nil
	}
	if st.Outputs == nil {
		st.Outputs = map[string]Record{}
	}
	return &st, nil
}

// Save writes the state atomically to path.
func (st *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Decide reports whether output needs to be written for fingerprint.
func (st *State) Decide(output, fingerprint string, force bool) (action, reason string) {
	if force {
		return ActionExport, ReasonForced
	}
	prior, ok := st.Outputs[output]
	if !ok {
		return ActionExport, ReasonNew
	}
	if prior.Fingerprint != fingerprint {
		return ActionExport, ReasonChanged
	}
	if _, err := os.Stat(output); os.IsNotExist(err) {
		return ActionExport, ReasonOutputMissing
	}
	return ActionSkip, ReasonUpToDate
}

// Record stores rec for output.
func (st *State) Record(output string, rec Record) {
	if st.Outputs == nil {
		st.Outputs = map[string]Record{}
	}
	st.Outputs[output] = rec
}

// Prune drops records whose output file no longer exists.
func (st *State) Prune() int {
	removed := 0
	for output := range st.Outputs {
		if _, err := os.Stat(output); os.IsNotExist(err) {
			delete(st.Outputs, output)
			removed++
		}
	}
	return removed
}

func emptyState() *State {
	return &State{Outputs: map[string]Record{}}
}
