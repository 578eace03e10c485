// Package domain contains core business entities and interfaces.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Record is the capability shared by Task, Epic and Subtask values.
// The history tracker and the scheduling index only see records through it.
type Record interface {
	// Base returns a copy of the shared field set.
	Base() Task
	// Kind reports which record type this is.
	Kind() Kind
	// Clone returns an independent copy.
	Clone() Record
	// Interval returns the closed time window the record occupies.
	// ok is false when the record has no start time.
	Interval() (start, end time.Time, ok bool)
}

// Task represents a standalone unit of work.
// A zero StartTime means the task is not scheduled.
type Task struct {
	StartTime   time.Time     `json:"startTime"`   // Scheduled start (zero = none)
	Title       string        `json:"title"`       // Title (required)
	Description string        `json:"description"` // Description (empty = none)
	Status      Status        `json:"status"`      // Current status
	Duration    time.Duration `json:"duration"`    // Planned duration (>= 0)
	ID          int           `json:"id"`          // Assigned by the manager, 0 = not persisted
}

// Scheduled returns true if the task has a start time.
func (t Task) Scheduled() bool {
	return !t.StartTime.IsZero()
}

// EndTime returns StartTime + Duration. ok is false for unscheduled tasks.
func (t Task) EndTime() (time.Time, bool) {
	if !t.Scheduled() {
		return time.Time{}, false
	}
	return t.StartTime.Add(t.Duration), true
}

// SameAs reports whether both records have the same identity.
func (t Task) SameAs(other Task) bool {
	return t.ID == other.ID
}

// Validate checks the caller-settable fields.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.Duration < 0 {
		return ErrNegativeDuration
	}
	if t.Status != "" && !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Base implements Record.
func (t Task) Base() Task { return t }

// Kind implements Record.
func (t Task) Kind() Kind { return KindTask }

// Clone implements Record.
func (t Task) Clone() Record { return t }

// Interval implements Record.
func (t Task) Interval() (time.Time, time.Time, bool) {
	end, ok := t.EndTime()
	return t.StartTime, end, ok
}

// Epic is a container task whose status and schedule are derived from its subtasks.
type Epic struct {
	End        time.Time `json:"endTime"`    // Latest subtask end (zero = none)
	SubtaskIDs []int     `json:"subtaskIds"` // Owned subtasks in insertion order
	Task
}

// NewEpic returns an empty epic with the given title and description.
func NewEpic(title, description string) Epic {
	return Epic{Task: Task{Title: title, Description: description, Status: StatusNew}}
}

// EndTime returns the aggregated end of the epic's subtasks.
func (e Epic) EndTime() (time.Time, bool) {
	if e.End.IsZero() {
		return time.Time{}, false
	}
	return e.End, true
}

// Kind implements Record.
func (e Epic) Kind() Kind { return KindEpic }

// Clone implements Record.
func (e Epic) Clone() Record { return e.Copy() }

// Copy returns the epic with its own subtask list.
func (e Epic) Copy() Epic {
	e.SubtaskIDs = slices.Clone(e.SubtaskIDs)
	if e.SubtaskIDs == nil {
		e.SubtaskIDs = []int{}
	}
	return e
}

// Interval implements Record.
func (e Epic) Interval() (time.Time, time.Time, bool) {
	if !e.Scheduled() {
		return time.Time{}, time.Time{}, false
	}
	end, ok := e.EndTime()
	if !ok {
		end = e.StartTime
	}
	return e.StartTime, end, true
}

// Reset clears the derived fields back to the empty-epic state.
func (e *Epic) Reset() {
	e.Status = StatusNew
	e.StartTime = time.Time{}
	e.End = time.Time{}
	e.Duration = 0
}

// Subtask is a unit of work owned by exactly one epic.
type Subtask struct {
	Task
	EpicID int `json:"epicId"` // Owning epic, fixed at creation
}

// Kind implements Record.
func (s Subtask) Kind() Kind { return KindSubtask }

// Clone implements Record.
func (s Subtask) Clone() Record { return s }
