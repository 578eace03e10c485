package domain

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a task, epic or subtask.
type Status string

const (
	StatusNew        Status = "NEW"         // Created, not started
	StatusInProgress Status = "IN_PROGRESS" // Being worked on
	StatusDone       Status = "DONE"        // Finished
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusInProgress, StatusDone}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus converts user input into a Status.
// Matching is case-insensitive, "-" and " " are accepted in place of "_",
// and an empty string yields StatusNew.
func ParseStatus(value string) (Status, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return StatusNew, nil
	}
	v = strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToUpper(v))
	s := Status(v)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}

// Kind identifies which of the three record types a value is.
type Kind string

const (
	KindTask    Kind = "TASK"
	KindEpic    Kind = "EPIC"
	KindSubtask Kind = "SUBTASK"
)

// ParseKind converts a stored type marker into a Kind.
func ParseKind(value string) (Kind, error) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(value))); k {
	case KindTask, KindEpic, KindSubtask:
		return k, nil
	default:
		return "", fmt.Errorf("unknown record type %q", value)
	}
}
