package domain

import "errors"

// Domain errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrOverlap          = errors.New("time window overlaps a scheduled item")
	ErrCorruptStore     = errors.New("corrupt storage")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrNegativeDuration = errors.New("duration cannot be negative")
	ErrDurationTooLarge = errors.New("duration is too large")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrConfigExists     = errors.New("config file already exists")
	ErrUnknownStoreKind = errors.New("unknown store kind")
)

// Per-kind not-found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrTaskNotFound    error = &kindError{kind: KindTask}
	ErrEpicNotFound    error = &kindError{kind: KindEpic}
	ErrSubtaskNotFound error = &kindError{kind: KindSubtask}
)

type kindError struct {
	kind Kind
}

func (e *kindError) Error() string {
	switch e.kind {
	case KindEpic:
		return "epic not found"
	case KindSubtask:
		return "subtask not found"
	default:
		return "task not found"
	}
}

func (e *kindError) Unwrap() error {
	return ErrNotFound
}

// NotFoundError returns the not-found error for the given kind.
func NotFoundError(kind Kind) error {
	switch kind {
	case KindEpic:
		return ErrEpicNotFound
	case KindSubtask:
		return ErrSubtaskNotFound
	default:
		return ErrTaskNotFound
	}
}
