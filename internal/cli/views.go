package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recently viewed records, oldest first",
		Long: `Show the records read with show, oldest access first.

Each record appears once, at the position of its latest access.
Removed records drop out of the history. History lives in memory
and starts empty on every run; it is most useful with serve.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printRecords(cmd.OutOrStdout(), s.c.Manager.GetHistory())
			return nil
		},
	}
}

// newPrioritizedCommand creates the prioritized command.
func newPrioritizedCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "prioritized",
		Aliases: []string{"schedule"},
		Short:   "Show scheduled tasks and subtasks by start time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printRecords(cmd.OutOrStdout(), s.c.Manager.GetPrioritizedTasks())
			return nil
		},
	}
}

// newStatsCommand creates the stats command.
func newStatsCommand(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats := s.c.Manager.Stats()
			w := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "Tasks:\t%d\n", stats.Tasks)
			_, _ = fmt.Fprintf(tw, "Epics:\t%d\n", stats.Epics)
			_, _ = fmt.Fprintf(tw, "Subtasks:\t%d\n", stats.Subtasks)
			_, _ = fmt.Fprintf(tw, "Scheduled:\t%d\n", stats.Scheduled)
			_, _ = fmt.Fprintf(tw, "Store:\t%s\n", s.c.AppConfig.Store.Kind)
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
