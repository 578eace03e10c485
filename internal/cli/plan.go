package cli

import (
	"fmt"
	"os"

	"github.com/runoshun/taskflow/internal/infra/planfile"
	"github.com/spf13/cobra"
)

// newImportCommand creates the import command.
func newImportCommand(s *session) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks and epics from a YAML plan file",
		Long: `Create tasks and epics from a YAML plan file.

Entries are created in file order: tasks first, then each epic
followed by its subtasks. Import stops at the first entry that
fails; entries created before it are kept.

File format:
  tasks:
    - title: Write report
      start: "10.03.2025 09:00:00"
      duration: 60
  epics:
    - title: Release
      subtasks:
        - title: Tag
          start: +2h
          duration: 15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if dryRun {
				subtasks := 0
				for _, e := range plan.Epics {
					subtasks += len(e.Subtasks)
				}
				_, _ = fmt.Fprintf(w, "Would create %d task(s), %d epic(s), %d subtask(s)\n",
					len(plan.Tasks), len(plan.Epics), subtasks)
				return nil
			}

			res, err := plan.Apply(s.c.Manager, s.c.Clock.Now())
			_, _ = fmt.Fprintf(w, "Created %d task(s), %d epic(s), %d subtask(s)\n", res.Tasks, res.Epics, res.Subtasks)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file and report counts without creating")
	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all records as a YAML plan file",
		Long: `Write all records as a YAML plan file that import can read back.

Ids are not exported; import assigns new ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := s.c.Manager
			data, err := planfile.FromRecords(m.GetAllTasks(), m.GetAllEpics(), m.GetAllSubtasks()).Marshal()
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
