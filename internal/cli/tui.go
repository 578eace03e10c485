package cli

import (
	"errors"
	"os"

	"github.com/runoshun/taskflow/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNotTerminal is returned when tui runs without an interactive stdin.
var errNotTerminal = errors.New("tui requires an interactive terminal")

// newTUICommand creates the tui command for launching the interactive board.
func newTUICommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long: `Launch the interactive terminal board.

Tabs list the schedule, tasks, epics, subtasks and viewing history.
Opening a record adds it to the history; changes are written to the
store immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, ok := cmd.InOrStdin().(*os.File)
			if !ok || !term.IsTerminal(int(in.Fd())) { //nolint:gosec // fd fits in int
				return errNotTerminal
			}
			return tui.Run(cmd.Context(), s.c.Manager)
		},
	}
}
