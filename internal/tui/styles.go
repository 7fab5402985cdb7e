package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles column headers and the title bar.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	activeRowStyle = lipgloss.NewStyle().Reverse(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// Alternating block colours so adjacent segments stay distinguishable.
	segmentBlocks = []lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15")),
		lipgloss.NewStyle().Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0")),
	}
	activeBlock = lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0")).Bold(true)

	statusStyles = map[string]lipgloss.Style{
		"applied":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"saved":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"playing":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"rejected": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"error":    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// StatusStyle returns the lipgloss style for the given status kind.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
