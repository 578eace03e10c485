package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/taskflow/internal/domain"
)

type recordItem struct {
	rec domain.Record
}

func (r recordItem) FilterValue() string {
	return r.rec.Base().Title
}

// escapeNewlines replaces newline characters with spaces for single-line display.
func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// kindTag returns a one-letter marker for the record kind.
func kindTag(k domain.Kind) string {
	switch k {
	case domain.KindEpic:
		return "E"
	case domain.KindSubtask:
		return "S"
	default:
		return "T"
	}
}

// windowText renders the scheduled window, or a placeholder.
func windowText(rec domain.Record) string {
	start, end, ok := rec.Interval()
	if !ok {
		return fmt.Sprintf("%-29s", "unscheduled")
	}
	return start.Format("02.01 15:04") + " - " + end.Format("02.01 15:04") + "  "
}

type recordDelegate struct {
	styles Styles
}

func newRecordDelegate(styles Styles) recordDelegate {
	return recordDelegate{styles: styles}
}

func (d recordDelegate) Height() int {
	return 1
}

func (d recordDelegate) Spacing() int {
	return 0
}

func (d recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recordItem)
	if !ok {
		return
	}
	base := ri.rec.Base()
	selected := index == m.Index()

	indicator := " "
	if selected {
		indicator = ">"
	}

	prefix := fmt.Sprintf("%s %4d %s ", indicator, base.ID, kindTag(ri.rec.Kind()))
	icon := StatusIcon(base.Status)
	status := fmt.Sprintf("%-12s", base.Status.Display())
	window := windowText(ri.rec)

	prefixWidth := runewidth.StringWidth(prefix) + runewidth.StringWidth(icon) + 1 +
		runewidth.StringWidth(status) + runewidth.StringWidth(window)
	maxTitleLen := m.Width() - prefixWidth - 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := escapeNewlines(base.Title)
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen-3, "...")
	}

	statusStyle := d.styles.StatusStyle(base.Status)
	titleStyle := d.styles.Title.UnsetBold()
	if selected {
		statusStyle = statusStyle.Bold(true)
		titleStyle = d.styles.Selected
	}

	line := titleStyle.Render(prefix) +
		statusStyle.Render(icon+" "+status) +
		d.styles.Muted.Render(window) +
		titleStyle.Render(title)
	_, _ = fmt.Fprintln(w, line)
}
