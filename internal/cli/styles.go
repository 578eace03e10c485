package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/taskflow/internal/domain"
)

// Colors defines the palette used for detail views.
var Colors = struct {
	Muted      lipgloss.Color
	Label      lipgloss.Color
	New        lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
}{
	Muted:      lipgloss.Color("#636E72"), // Gray
	Label:      lipgloss.Color("#A29BFE"), // Lavender
	New:        lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Done:       lipgloss.Color("#00B894"), // Green
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(Colors.Label).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(Colors.Muted)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// StatusStyle returns the style for a status value.
func StatusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusInProgress:
		return lipgloss.NewStyle().Foreground(Colors.InProgress)
	case domain.StatusDone:
		return lipgloss.NewStyle().Foreground(Colors.Done)
	default:
		return lipgloss.NewStyle().Foreground(Colors.New)
	}
}
