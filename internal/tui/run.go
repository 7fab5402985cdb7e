package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the editor on the alternate screen and blocks until the user
// quits.
func Run(in io.Reader, out io.Writer, model EditorModel) error {
	p := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(EditorModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
