// Package tui provides the terminal board for taskflow.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeNormal     Mode = iota // Default navigation mode
	ModeInputTitle             // Title input mode (for new task or epic)
	ModeConfirm                // Delete confirmation
	ModeDetail                 // Record detail view
	ModeHelp                   // Help overlay mode
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInputTitle:
		return "input_title"
	case ModeConfirm:
		return "confirm"
	case ModeDetail:
		return "detail"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IsInputMode returns true if the mode accepts text input.
func (m Mode) IsInputMode() bool {
	return m == ModeInputTitle
}

// View is one of the record lists the board can show.
type View int

const (
	ViewSchedule View = iota // Scheduled tasks and subtasks by start time
	ViewTasks                // Standalone tasks
	ViewEpics                // Epics
	ViewSubtasks             // Subtasks
	ViewHistory              // Recently viewed records
	viewCount
)

// String returns the tab title.
func (v View) String() string {
	switch v {
	case ViewSchedule:
		return "Schedule"
	case ViewTasks:
		return "Tasks"
	case ViewEpics:
		return "Epics"
	case ViewSubtasks:
		return "Subtasks"
	case ViewHistory:
		return "History"
	default:
		return "?"
	}
}

// Next returns the view after v, wrapping around.
func (v View) Next() View {
	return (v + 1) % viewCount
}
