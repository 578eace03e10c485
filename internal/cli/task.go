package cli

import (
	"fmt"

	"github.com/runoshun/taskflow/internal/domain"
	"github.com/spf13/cobra"
)

// newTaskCommand creates the task command and its subcommands.
func newTaskCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage standalone tasks",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newTaskAddCommand(s),
		&cobra.Command{
			Use:   "list",
			Short: "List tasks in id order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printRecords(cmd.OutOrStdout(), asRecords(s.c.Manager.GetAllTasks()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a task and record the access in history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				task, err := s.c.Manager.GetTaskByID(id)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), task)
				return nil
			},
		},
		newTaskEditCommand(s),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				task, err := s.c.Manager.RemoveTaskByID(id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed task #%d\n", task.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every task",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.c.Manager.RemoveAllTasks(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed all tasks")
				return nil
			},
		},
	)
	return cmd
}

// newTaskAddCommand creates the task add subcommand.
func newTaskAddCommand(s *session) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a standalone task.

A scheduled task may not overlap any other scheduled task or subtask.

Examples:
  # Create an unscheduled task
  taskflow task add --title "Write report"

  # Schedule it for 90 minutes starting in one hour
  taskflow task add --title "Review" --start +1h --duration 90

  # Schedule at a fixed time
  taskflow task add --title "Standup" --start "10.03.2025 09:00:00" --duration 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			task, err := flags.task(s.c.Clock.Now())
			if err != nil {
				return err
			}
			task, err = s.c.Manager.CreateTask(task)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", task.ID)
			return nil
		},
	}

	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(s *session) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags given are changed.

Examples:
  # Mark task #3 as done
  taskflow task edit 3 --status done

  # Move task #3 and drop its schedule
  taskflow task edit 3 --start none`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := s.c.Manager.GetTaskByID(id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &task, s.c.Clock.Now()); err != nil {
				return err
			}
			if _, err := s.c.Manager.UpdateTask(task); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}

// newEpicCommand creates the epic command and its subcommands.
func newEpicCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
		Long: `Manage epics.

An epic's status, start, duration and end are derived from its subtasks
and cannot be set directly.`,
	}

	cmd.AddCommand(
		newEpicAddCommand(s),
		&cobra.Command{
			Use:   "list",
			Short: "List epics in id order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printRecords(cmd.OutOrStdout(), asRecords(s.c.Manager.GetAllEpics()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show an epic and record the access in history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				epic, err := s.c.Manager.GetEpicByID(id)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), epic)
				return nil
			},
		},
		&cobra.Command{
			Use:   "subtasks <id>",
			Short: "List the subtasks of an epic",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), asRecords(s.c.Manager.GetSubtasksByEpicID(id)))
				return nil
			},
		},
		newEpicEditCommand(s),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove an epic and its subtasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				epic, err := s.c.Manager.RemoveEpicByID(id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed epic #%d with %d subtask(s)\n", epic.ID, len(epic.SubtaskIDs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every epic and subtask",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.c.Manager.RemoveAllEpics(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed all epics and subtasks")
				return nil
			},
		},
	)
	return cmd
}

// newEpicAddCommand creates the epic add subcommand.
func newEpicAddCommand(s *session) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an epic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			epic, err := s.c.Manager.CreateEpic(domain.NewEpic(flags.Title, flags.Description))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created epic #%d\n", epic.ID)
			return nil
		},
	}

	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// newEpicEditCommand creates the epic edit subcommand.
func newEpicEditCommand(s *session) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or description of an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			epic, err := s.c.Manager.GetEpicByID(id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &epic.Task, s.c.Clock.Now()); err != nil {
				return err
			}
			if _, err := s.c.Manager.UpdateEpic(epic); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated epic #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, false)
	return cmd
}

// newSubtaskCommand creates the subtask command and its subcommands.
func newSubtaskCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks of epics",
	}

	cmd.AddCommand(
		newSubtaskAddCommand(s),
		&cobra.Command{
			Use:   "list",
			Short: "List subtasks in id order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printRecords(cmd.OutOrStdout(), asRecords(s.c.Manager.GetAllSubtasks()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <id>",
			Short: "Show a subtask and record the access in history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				subtask, err := s.c.Manager.GetSubtaskByID(id)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), subtask)
				return nil
			},
		},
		newSubtaskEditCommand(s),
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a subtask",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				subtask, err := s.c.Manager.RemoveSubtaskByID(id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed subtask #%d from epic #%d\n", subtask.ID, subtask.EpicID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every subtask",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := s.c.Manager.RemoveAllSubtasks(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Removed all subtasks")
				return nil
			},
		},
	)
	return cmd
}

// newSubtaskAddCommand creates the subtask add subcommand.
func newSubtaskAddCommand(s *session) *cobra.Command {
	var flags recordFlags
	var epicID int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a subtask under an epic",
		Long: `Create a subtask under an existing epic.

Examples:
  taskflow subtask add --epic 1 --title "Tag release" --start now --duration 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			task, err := flags.task(s.c.Clock.Now())
			if err != nil {
				return err
			}
			subtask, err := s.c.Manager.CreateSubtask(domain.Subtask{Task: task, EpicID: epicID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask #%d in epic #%d\n", subtask.ID, subtask.EpicID)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().IntVar(&epicID, "epic", 0, "Owning epic ID")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("epic")
	return cmd
}

// newSubtaskEditCommand creates the subtask edit subcommand.
func newSubtaskEditCommand(s *session) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a subtask. Its epic cannot change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			subtask, err := s.c.Manager.GetSubtaskByID(id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &subtask.Task, s.c.Clock.Now()); err != nil {
				return err
			}
			if _, err := s.c.Manager.UpdateSubtask(subtask); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated subtask #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, true)
	return cmd
}
