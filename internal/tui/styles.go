package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/taskflow/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color

	// Status colors
	New        lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red

	New:        lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green
}

// Styles holds the rendered styles used by the TUI.
type Styles struct {
	App         lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Title       lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	ErrorMsg    lipgloss.Style
	Note        lipgloss.Style
	DetailLabel lipgloss.Style
	Dialog      lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		App:         lipgloss.NewStyle().Padding(1, 2),
		Tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(Colors.Muted),
		TabActive:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(Colors.Primary).Underline(true),
		Title:       lipgloss.NewStyle().Bold(true),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary),
		Muted:       lipgloss.NewStyle().Foreground(Colors.Muted),
		ErrorMsg:    lipgloss.NewStyle().Foreground(Colors.Error),
		Note:        lipgloss.NewStyle().Foreground(Colors.Done),
		DetailLabel: lipgloss.NewStyle().Width(12).Foreground(Colors.Muted),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Primary).
			Padding(0, 1),
	}
}

// StatusStyle returns the style for a status value.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return lipgloss.NewStyle().Foreground(Colors.InProgress)
	case domain.StatusDone:
		return lipgloss.NewStyle().Foreground(Colors.Done)
	default:
		return lipgloss.NewStyle().Foreground(Colors.New)
	}
}

// StatusIcon returns the icon for a status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusNew:
		return "○"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✓"
	default:
		return "?"
	}
}
