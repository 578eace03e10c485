package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/taskflow/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateLayoutSizes()
		return m, nil

	case MsgRecordsLoaded:
		// Drop results for a view the user already left
		if msg.View != m.view {
			return m, nil
		}
		m.records = msg.Records
		m.updateRecordList()
		return m, nil

	case MsgRecordOpened:
		m.detail = msg.Record
		m.mode = ModeDetail
		m.detailViewport.SetContent(m.detailContent())
		m.detailViewport.GotoTop()
		return m, nil

	case MsgRecordChanged:
		m.mode = ModeNormal
		m.pending = nil
		m.err = nil
		m.note = msg.Note
		m.titleInput.Reset()
		m.titleInput.Blur()
		return m, m.loadRecords()

	case MsgError:
		m.err = msg.Err
		m.note = ""
		m.mode = ModeNormal
		m.pending = nil
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from every mode, including text input
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInputTitle:
		return m.handleInputMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeDetail:
		return m.handleDetailMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.err = nil
		m.note = ""
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.recordList.CursorUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.recordList.CursorDown()
		return m, nil

	case key.Matches(msg, m.keys.NextView):
		return m, m.switchView(m.view.Next())

	case key.Matches(msg, m.keys.PrevView):
		return m, m.switchView((m.view + viewCount - 1) % viewCount)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadRecords()

	case key.Matches(msg, m.keys.NewTask):
		return m, m.startInput(domain.KindTask)

	case key.Matches(msg, m.keys.NewEpic):
		return m, m.startInput(domain.KindEpic)

	case key.Matches(msg, m.keys.Detail):
		if rec := m.SelectedRecord(); rec != nil {
			return m, m.openRecord(rec)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if rec := m.SelectedRecord(); rec != nil {
			m.pending = rec
			m.mode = ModeConfirm
		}
		return m, nil

	case key.Matches(msg, m.keys.NextStatus):
		if rec := m.SelectedRecord(); rec != nil {
			return m, m.cycleStatus(rec)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) switchView(v View) tea.Cmd {
	m.view = v
	m.records = nil
	m.updateRecordList()
	m.recordList.ResetSelected()
	return m.loadRecords()
}

func (m *Model) startInput(kind domain.Kind) tea.Cmd {
	m.newKind = kind
	m.mode = ModeInputTitle
	m.titleInput.Reset()
	if kind == domain.KindEpic {
		m.titleInput.Placeholder = "Epic title"
	} else {
		m.titleInput.Placeholder = "Task title"
	}
	return m.titleInput.Focus()
}

func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.titleInput.Reset()
		m.titleInput.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.err = domain.ErrEmptyTitle
			return m, nil
		}
		return m, m.createRecord(m.newKind, title)
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.pending == nil {
			m.mode = ModeNormal
			return m, nil
		}
		return m, m.deleteRecord(m.pending)

	case key.Matches(msg, m.keys.Escape), msg.String() == "n":
		m.mode = ModeNormal
		m.pending = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
		m.mode = ModeNormal
		m.detail = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}
