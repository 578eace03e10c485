package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/runoshun/taskflow/internal/domain"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch m.mode {
	case ModeDetail:
		body = m.styles.Dialog.Render(m.detailViewport.View())
	case ModeHelp:
		m.help.ShowAll = true
		body = m.help.View(m.keys)
		m.help.ShowAll = false
	case ModeInputTitle:
		label := "New task"
		if m.newKind == domain.KindEpic {
			label = "New epic"
		}
		body = m.viewList() + "\n" + m.styles.Dialog.Render(label+"\n"+m.titleInput.View())
	case ModeConfirm:
		body = m.viewList() + "\n" + m.styles.Dialog.Render(m.confirmText())
	default:
		body = m.viewList()
	}

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewTabs(),
		"",
		body,
		m.viewStatusLine(),
	))
}

func (m *Model) viewTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := View(0); v < viewCount; v++ {
		if v == m.view {
			tabs = append(tabs, m.styles.TabActive.Render(v.String()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(v.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) viewList() string {
	if len(m.records) == 0 {
		return m.styles.Muted.Render("  nothing here yet")
	}
	return m.recordList.View()
}

func (m *Model) confirmText() string {
	if m.pending == nil {
		return ""
	}
	base := m.pending.Base()
	text := fmt.Sprintf("Delete %s #%d %q?", strings.ToLower(string(m.pending.Kind())), base.ID, base.Title)
	if m.pending.Kind() == domain.KindEpic {
		text += "\nIts subtasks are removed too."
	}
	return text + "\n" + m.styles.Muted.Render("y confirm, esc cancel")
}

func (m *Model) viewStatusLine() string {
	var line string
	switch {
	case m.err != nil:
		line = m.styles.ErrorMsg.Render("Error: " + m.err.Error())
	case m.note != "":
		line = m.styles.Note.Render(m.note)
	}
	return line + "\n" + m.help.View(m.keys)
}
