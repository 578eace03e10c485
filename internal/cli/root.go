// Package cli provides the command-line interface for taskflow.
package cli

import (
	"io"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupRecords = "records"
	groupViews   = "views"
	groupSetup   = "setup"
)

// skipContainer marks commands that run without loading config or the store.
const skipContainer = "skip-container"

// ContainerFactory builds the container once flags are parsed.
type ContainerFactory func(paths app.Paths, overrides app.Overrides, stderr io.Writer) (*app.Container, error)

// Options configures the root command.
type Options struct {
	NewContainer ContainerFactory // Defaults to app.New
	Paths        app.Paths
	Version      string
}

// session carries the container through one invocation.
type session struct {
	opts      Options
	c         *app.Container
	overrides app.Overrides
}

func (s *session) open(cmd *cobra.Command) error {
	if s.c != nil {
		return nil
	}
	c, err := s.opts.NewContainer(s.opts.Paths, s.overrides, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.c = c
	return nil
}

func (s *session) close() error {
	if s.c == nil {
		return nil
	}
	err := s.c.Close()
	s.c = nil
	return err
}

// NewRootCommand creates the root command for taskflow.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.NewContainer == nil {
		opts.NewContainer = app.New
	}
	s := &session{opts: opts}

	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Task, epic and subtask tracker with a conflict-free schedule",
		Long: `taskflow keeps tasks, epics and subtasks in one id space.

An epic's status and time window are derived from its subtasks.
Scheduled tasks and subtasks may not overlap; a task that starts
exactly when another ends is rejected too.

Records are written through to the configured store (csv, json,
sqlite or memory) after every change.`,
		Version: opts.Version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[skipContainer]; ok {
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.overrides.ConfigPath, "config", "", "Config file (replaces ./taskflow.toml)")
	flags.StringVar(&s.overrides.StoreKind, "store", "", "Store kind: csv, json, sqlite or memory")
	flags.StringVar(&s.overrides.StorePath, "store-path", "", "Store file or database path")
	flags.StringVar(&s.overrides.Addr, "addr", "", "HTTP listen address for serve")
	flags.StringVar(&s.overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&s.overrides.LogFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddGroup(
		&cobra.Group{ID: groupRecords, Title: "Records:"},
		&cobra.Group{ID: groupViews, Title: "Views:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Record commands
	taskCmd := newTaskCommand(s)
	taskCmd.GroupID = groupRecords

	epicCmd := newEpicCommand(s)
	epicCmd.GroupID = groupRecords

	subtaskCmd := newSubtaskCommand(s)
	subtaskCmd.GroupID = groupRecords

	importCmd := newImportCommand(s)
	importCmd.GroupID = groupRecords

	exportCmd := newExportCommand(s)
	exportCmd.GroupID = groupRecords

	// Views
	historyCmd := newHistoryCommand(s)
	historyCmd.GroupID = groupViews

	prioritizedCmd := newPrioritizedCommand(s)
	prioritizedCmd.GroupID = groupViews

	statsCmd := newStatsCommand(s)
	statsCmd.GroupID = groupViews

	tuiCmd := newTUICommand(s)
	tuiCmd.GroupID = groupViews

	// Setup commands
	serveCmd := newServeCommand(s)
	serveCmd.GroupID = groupSetup

	configCmd := newConfigCommand(s)
	configCmd.GroupID = groupSetup

	root.AddCommand(
		taskCmd,
		epicCmd,
		subtaskCmd,
		importCmd,
		exportCmd,
		historyCmd,
		prioritizedCmd,
		statsCmd,
		tuiCmd,
		serveCmd,
		configCmd,
	)

	return root
}
