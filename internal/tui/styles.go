package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/todoterm/todoterm/internal/todo"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// kindTag picks the display affordance for an attachment kind.
func kindTag(k todo.MediaKind) string {
	switch k {
	case todo.KindImage:
		return "[img]"
	case todo.KindDocument:
		return "[doc]"
	case todo.KindVideo:
		return "[vid]"
	case todo.KindAudio:
		return "[aud]"
	case todo.KindArchive:
		return "[zip]"
	default:
		return "[file]"
	}
}
