package tui

import "github.com/runoshun/taskflow/internal/domain"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgRecordsLoaded is sent when the current view's records are loaded.
type MsgRecordsLoaded struct {
	Records []domain.Record
	View    View
}

func (MsgRecordsLoaded) sealed() {}

// MsgRecordChanged is sent after a create, update or delete.
type MsgRecordChanged struct {
	Note string
}

func (MsgRecordChanged) sealed() {}

// MsgRecordOpened is sent when a record was fetched for the detail view.
type MsgRecordOpened struct {
	Record domain.Record
}

func (MsgRecordOpened) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
