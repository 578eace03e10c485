package manager

import (
	"time"

	"github.com/runoshun/taskflow/internal/domain"
)

// refreshEpic recomputes the epic's status and schedule from its subtasks.
func (m *Manager) refreshEpic(epic *domain.Epic) {
	subtasks := make([]domain.Subtask, 0, len(epic.SubtaskIDs))
	for _, id := range epic.SubtaskIDs {
		if s, ok := m.subtasks[id]; ok {
			subtasks = append(subtasks, *s)
		}
	}
	Aggregate(epic, subtasks)
}

// Aggregate sets the epic's derived fields from subtasks.
//
// Status: no subtasks or all NEW gives NEW, all DONE gives DONE, anything
// else gives IN_PROGRESS. Start, end and duration are the earliest start,
// the latest end and the summed duration of the scheduled subtasks.
func Aggregate(epic *domain.Epic, subtasks []domain.Subtask) {
	epic.Reset()
	if len(subtasks) == 0 {
		return
	}
	epic.Status = aggregateStatus(subtasks)

	var (
		start, end time.Time
		total      time.Duration
	)
	for _, s := range subtasks {
		sStart, sEnd, ok := s.Interval()
		if !ok {
			continue
		}
		if start.IsZero() || sStart.Before(start) {
			start = sStart
		}
		if end.IsZero() || sEnd.After(end) {
			end = sEnd
		}
		total += s.Duration
	}
	if start.IsZero() {
		return
	}
	epic.StartTime = start
	epic.End = end
	epic.Duration = total
}

func aggregateStatus(subtasks []domain.Subtask) domain.Status {
	allNew, allDone := true, true
	for _, s := range subtasks {
		switch s.Status {
		case domain.StatusInProgress:
			return domain.StatusInProgress
		case domain.StatusDone:
			allNew = false
		default:
			allDone = false
		}
	}
	switch {
	case allDone:
		return domain.StatusDone
	case allNew:
		return domain.StatusNew
	default:
		return domain.StatusInProgress
	}
}
