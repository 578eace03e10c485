package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/reflow/wordwrap"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/spf13/cobra"
)

// descriptionWidth is the wrap width for descriptions in detail views.
const descriptionWidth = 80

// recordFlags holds the flags shared by add and edit commands.
type recordFlags struct {
	Title       string
	Description string
	Status      string
	Start       string
	Duration    int64
}

// register adds the flags. Epics take only title and description.
func (f *recordFlags) register(cmd *cobra.Command, scheduled bool) {
	cmd.Flags().StringVar(&f.Title, "title", "", "Title")
	cmd.Flags().StringVar(&f.Description, "desc", "", "Description")
	if !scheduled {
		return
	}
	cmd.Flags().StringVar(&f.Status, "status", "", "Status: new, in_progress or done")
	cmd.Flags().StringVar(&f.Start, "start", "", `Start time ("dd.MM.yyyy HH:mm:ss", "now" or "+90m"); "none" clears it`)
	cmd.Flags().Int64Var(&f.Duration, "duration", 0, "Planned duration in minutes")
}

// task builds a new task from the flags.
func (f *recordFlags) task(now time.Time) (domain.Task, error) {
	var t domain.Task
	t.Title = f.Title
	t.Description = f.Description
	if err := f.applyScheduling(&t, now, nil); err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

// apply overwrites the fields of t whose flags were given on the command line.
func (f *recordFlags) apply(cmd *cobra.Command, t *domain.Task, now time.Time) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		t.Title = f.Title
	}
	if changed("desc") {
		t.Description = f.Description
	}
	return f.applyScheduling(t, now, changed)
}

// applyScheduling sets status, start and duration. A nil changed sets all of them.
func (f *recordFlags) applyScheduling(t *domain.Task, now time.Time, changed func(string) bool) error {
	all := changed == nil
	if all || changed("status") {
		status, err := domain.ParseStatus(f.Status)
		if err != nil {
			return err
		}
		t.Status = status
	}
	if all || changed("start") {
		if strings.EqualFold(f.Start, "none") {
			t.StartTime = time.Time{}
		} else {
			start, err := domain.ParseStart(f.Start, now)
			if err != nil {
				return err
			}
			t.StartTime = start
		}
	}
	if all || changed("duration") {
		duration, err := domain.FromMinutes(f.Duration)
		if err != nil {
			return err
		}
		t.Duration = duration
	}
	return nil
}

// parseID parses a positional record id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// printRecords prints records as an aligned table.
func printRecords(w io.Writer, records []domain.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tEPIC\tSTATUS\tSTART\tDURATION\tEND\tTITLE")

	// Rows
	for _, rec := range records {
		base := rec.Base()
		epicStr := "-"
		if s, ok := rec.(domain.Subtask); ok {
			epicStr = strconv.Itoa(s.EpicID)
		}
		start, end, scheduled := rec.Interval()
		startStr, endStr, durationStr := "-", "-", "-"
		if scheduled {
			startStr = domain.FormatTime(start)
			endStr = domain.FormatTime(end)
			durationStr = formatMinutes(base.Duration)
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			base.ID,
			rec.Kind(),
			epicStr,
			base.Status,
			startStr,
			durationStr,
			endStr,
			base.Title,
		)
	}
}

// printRecord prints one record in detail.
func printRecord(w io.Writer, rec domain.Record) {
	base := rec.Base()
	field := func(name, value string) {
		_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-12s", name+":")), value)
	}

	_, _ = fmt.Fprintf(w, "%s %s\n", mutedStyle.Render(fmt.Sprintf("%s #%d", rec.Kind(), base.ID)), titleStyle.Render(base.Title))
	field("Status", StatusStyle(base.Status).Render(base.Status.Display()))

	if start, end, ok := rec.Interval(); ok {
		field("Start", domain.FormatTime(start))
		field("Duration", formatMinutes(base.Duration))
		field("End", domain.FormatTime(end))
	} else {
		field("Start", mutedStyle.Render("unscheduled"))
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
			field("Subtasks", mutedStyle.Render("none"))
		} else {
			field("Subtasks", strings.Join(ids, ", "))
		}
	}

	if base.Description != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, wordwrap.String(base.Description, descriptionWidth))
	}
}

// formatMinutes formats a duration as whole minutes, e.g. "90m".
func formatMinutes(d time.Duration) string {
	return strconv.FormatInt(domain.Minutes(d), 10) + "m"
}

// asRecords converts a typed slice for printRecords.
func asRecords[T domain.Record](items []T) []domain.Record {
	out := make([]domain.Record, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}
