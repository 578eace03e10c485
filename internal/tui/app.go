package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/runoshun/taskflow/internal/domain"
)

// ErrDerivedStatus is returned when the status of an epic is edited directly.
var ErrDerivedStatus = errors.New("epic status is derived from its subtasks")

// Repository is the part of the task manager the board drives.
type Repository interface {
	CreateTask(task domain.Task) (domain.Task, error)
	CreateEpic(epic domain.Epic) (domain.Epic, error)
	UpdateTask(task domain.Task) (domain.Task, error)
	UpdateSubtask(subtask domain.Subtask) (domain.Subtask, error)
	RemoveTaskByID(id int) (domain.Task, error)
	RemoveEpicByID(id int) (domain.Epic, error)
	RemoveSubtaskByID(id int) (domain.Subtask, error)
	GetTaskByID(id int) (domain.Task, error)
	GetEpicByID(id int) (domain.Epic, error)
	GetSubtaskByID(id int) (domain.Subtask, error)
	GetAllTasks() []domain.Task
	GetAllEpics() []domain.Epic
	GetAllSubtasks() []domain.Subtask
	GetPrioritizedTasks() []domain.Record
	GetHistory() []domain.Record
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (interfaces first for alignment)
	repo    Repository
	err     error
	detail  domain.Record
	pending domain.Record // Record awaiting delete confirmation

	// State
	records []domain.Record
	note    string

	// Components
	keys           KeyMap
	styles         Styles
	help           help.Model
	recordList     list.Model
	detailViewport viewport.Model
	titleInput     textinput.Model

	// Numeric state (smaller types last)
	newKind domain.Kind
	mode    Mode
	view    View
	width   int
	height  int
}

// New creates a new TUI Model over repo.
func New(repo Repository) *Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200

	styles := DefaultStyles()
	recordList := list.New([]list.Item{}, newRecordDelegate(styles), 0, 0)
	recordList.SetShowTitle(false)
	recordList.SetShowStatusBar(false)
	recordList.SetShowHelp(false)
	recordList.SetShowPagination(false)
	recordList.SetFilteringEnabled(false)
	recordList.DisableQuitKeybindings()

	return &Model{
		repo:           repo,
		keys:           DefaultKeyMap(),
		styles:         styles,
		help:           help.New(),
		recordList:     recordList,
		detailViewport: viewport.New(0, 0),
		titleInput:     ti,
		mode:           ModeNormal,
		view:           ViewSchedule,
	}
}

// Run starts the board and blocks until the user quits or ctx is done.
func Run(ctx context.Context, repo Repository) error {
	p := tea.NewProgram(New(repo), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadRecords()
}

// Mode returns the current UI mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// CurrentView returns the active record list.
func (m *Model) CurrentView() View {
	return m.view
}

// Err returns the last error shown in the status line.
func (m *Model) Err() error {
	return m.err
}

// Records returns the records of the active view.
func (m *Model) Records() []domain.Record {
	return m.records
}

// SelectedRecord returns the currently selected record, or nil if none.
func (m *Model) SelectedRecord() domain.Record {
	if ri, ok := m.recordList.SelectedItem().(recordItem); ok {
		return ri.rec
	}
	return nil
}

// loadRecords returns a command that reads the active view.
func (m *Model) loadRecords() tea.Cmd {
	view := m.view
	return func() tea.Msg {
		var records []domain.Record
		switch view {
		case ViewSchedule:
			records = m.repo.GetPrioritizedTasks()
		case ViewTasks:
			records = asRecords(m.repo.GetAllTasks())
		case ViewEpics:
			records = asRecords(m.repo.GetAllEpics())
		case ViewSubtasks:
			records = asRecords(m.repo.GetAllSubtasks())
		case ViewHistory:
			records = m.repo.GetHistory()
		}
		return MsgRecordsLoaded{View: view, Records: records}
	}
}

// openRecord fetches rec by id, which also records the access in history.
func (m *Model) openRecord(rec domain.Record) tea.Cmd {
	kind, id := rec.Kind(), rec.Base().ID
	return func() tea.Msg {
		var (
			got domain.Record
			err error
		)
		switch kind {
		case domain.KindEpic:
			got, err = m.repo.GetEpicByID(id)
		case domain.KindSubtask:
			got, err = m.repo.GetSubtaskByID(id)
		default:
			got, err = m.repo.GetTaskByID(id)
		}
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgRecordOpened{Record: got}
	}
}

// createRecord returns a command that creates a task or an empty epic.
func (m *Model) createRecord(kind domain.Kind, title string) tea.Cmd {
	return func() tea.Msg {
		if kind == domain.KindEpic {
			epic, err := m.repo.CreateEpic(domain.NewEpic(title, ""))
			if err != nil {
				return MsgError{Err: err}
			}
			return MsgRecordChanged{Note: fmt.Sprintf("Created epic #%d", epic.ID)}
		}
		task, err := m.repo.CreateTask(domain.Task{Title: title, Status: domain.StatusNew})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgRecordChanged{Note: fmt.Sprintf("Created task #%d", task.ID)}
	}
}

// deleteRecord returns a command that removes rec.
func (m *Model) deleteRecord(rec domain.Record) tea.Cmd {
	kind, id := rec.Kind(), rec.Base().ID
	return func() tea.Msg {
		var err error
		switch kind {
		case domain.KindEpic:
			_, err = m.repo.RemoveEpicByID(id)
		case domain.KindSubtask:
			_, err = m.repo.RemoveSubtaskByID(id)
		default:
			_, err = m.repo.RemoveTaskByID(id)
		}
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgRecordChanged{Note: fmt.Sprintf("Removed %s #%d", strings.ToLower(string(kind)), id)}
	}
}

// cycleStatus returns a command that moves rec to the next status.
func (m *Model) cycleStatus(rec domain.Record) tea.Cmd {
	return func() tea.Msg {
		var (
			next domain.Status
			err  error
		)
		switch r := rec.(type) {
		case domain.Task:
			r.Status = nextStatus(r.Status)
			next = r.Status
			_, err = m.repo.UpdateTask(r)
		case domain.Subtask:
			r.Status = nextStatus(r.Status)
			next = r.Status
			_, err = m.repo.UpdateSubtask(r)
		default:
			err = ErrDerivedStatus
		}
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgRecordChanged{Note: fmt.Sprintf("#%d is now %s", rec.Base().ID, next.Display())}
	}
}

// nextStatus cycles NEW -> IN_PROGRESS -> DONE -> NEW.
func nextStatus(s domain.Status) domain.Status {
	switch s {
	case domain.StatusNew:
		return domain.StatusInProgress
	case domain.StatusInProgress:
		return domain.StatusDone
	default:
		return domain.StatusNew
	}
}

// updateRecordList replaces the list items.
func (m *Model) updateRecordList() {
	items := make([]list.Item, 0, len(m.records))
	for _, rec := range m.records {
		items = append(items, recordItem{rec: rec})
	}
	m.recordList.SetItems(items)
}

// updateLayoutSizes resizes components after a window change.
func (m *Model) updateLayoutSizes() {
	listHeight := m.height - 8
	if listHeight < 1 {
		listHeight = 1
	}
	m.recordList.SetSize(m.width-4, listHeight)
	m.detailViewport.Width = m.width - 8
	m.detailViewport.Height = listHeight
	m.titleInput.Width = m.width - 12
}

// detailContent renders the fields of the open record.
func (m *Model) detailContent() string {
	rec := m.detail
	if rec == nil {
		return ""
	}
	base := rec.Base()

	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(m.styles.DetailLabel.Render(name+":") + " " + value + "\n")
	}

	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s #%d ", rec.Kind(), base.ID)))
	b.WriteString(m.styles.Title.Render(base.Title) + "\n\n")
	field("Status", m.styles.StatusStyle(base.Status).Render(StatusIcon(base.Status)+" "+base.Status.Display()))
	if start, end, ok := rec.Interval(); ok {
		field("Start", domain.FormatTime(start))
		field("Duration", strconv.FormatInt(domain.Minutes(base.Duration), 10)+"m")
		field("End", domain.FormatTime(end))
	} else {
		field("Start", m.styles.Muted.Render("unscheduled"))
	}

	switch r := rec.(type) {
	case domain.Subtask:
		field("Epic", "#"+strconv.Itoa(r.EpicID))
	case domain.Epic:
		ids := make([]string, 0, len(r.SubtaskIDs))
		for _, id := range r.SubtaskIDs {
			ids = append(ids, "#"+strconv.Itoa(id))
		}
		if len(ids) == 0 {
			field("Subtasks", m.styles.Muted.Render("none"))
		} else {
			field("Subtasks", strings.Join(ids, ", "))
		}
	}

	if base.Description != "" {
		width := m.detailViewport.Width
		if width < 20 {
			width = 20
		}
		b.WriteString("\n" + wordwrap.String(base.Description, width) + "\n")
	}
	return b.String()
}

// asRecords converts a typed slice for the list.
func asRecords[T domain.Record](items []T) []domain.Record {
	out := make([]domain.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}
