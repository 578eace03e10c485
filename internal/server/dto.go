package server

import (
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
)

// recordDTO is the wire form shared by tasks, epics and subtasks.
// Times use dd.MM.yyyy HH:mm:ss and durations are whole minutes.
type recordDTO struct {
	Description string `json:"description,omitempty"`
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Type        string `json:"type,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	EpicID      *int   `json:"epicId,omitempty"`
	SubtaskIDs  []int  `json:"subtaskIds,omitempty"`
	ID          int    `json:"id"`
	Duration    int64  `json:"duration"`
}

type errorDTO struct {
	Error string `json:"error"`
}

func taskDTO(t domain.Task) recordDTO {
	d := recordDTO{
		ID:          t.ID,
		Type:        string(domain.KindTask),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		StartTime:   domain.FormatTime(t.StartTime),
		Duration:    domain.Minutes(t.Duration),
	}
	if end, ok := t.EndTime(); ok {
		d.EndTime = domain.FormatTime(end)
	}
	return d
}

func epicDTO(e domain.Epic) recordDTO {
	d := taskDTO(e.Task)
	d.Type = string(domain.KindEpic)
	d.EndTime = domain.FormatTime(e.End)
	d.SubtaskIDs = e.SubtaskIDs
	if d.SubtaskIDs == nil {
		d.SubtaskIDs = []int{}
	}
	return d
}

func subtaskDTO(s domain.Subtask) recordDTO {
	d := taskDTO(s.Task)
	d.Type = string(domain.KindSubtask)
	epicID := s.EpicID
	d.EpicID = &epicID
	return d
}

func recordToDTO(rec domain.Record) recordDTO {
	switch r := rec.(type) {
	case domain.Epic:
		return epicDTO(r)
	case domain.Subtask:
		return subtaskDTO(r)
	default:
		return taskDTO(rec.Base())
	}
}

func mapDTO[T any](items []T, fn func(T) recordDTO) []recordDTO {
	out := make([]recordDTO, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}

// toTask converts the caller-settable fields. Epic-only and derived fields
// (endTime, subtaskIds) are ignored.
func (d recordDTO) toTask() (domain.Task, error) {
	if d.ID < 0 {
		return domain.Task{}, fmt.Errorf("%w: id must not be negative", errBadRequest)
	}
	status, err := domain.ParseStatus(d.Status)
	if err != nil {
		return domain.Task{}, err
	}
	start, err := domain.ParseTime(d.StartTime)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	duration, err := domain.FromMinutes(d.Duration)
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      status,
		StartTime:   start,
		Duration:    duration,
	}, nil
}
