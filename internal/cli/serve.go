package cli

import (
	"github.com/runoshun/taskflow/internal/server"
	"github.com/spf13/cobra"
)

// newServeCommand creates the serve command.
func newServeCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON/HTTP API",
		Long: `Serve the JSON/HTTP API until interrupted.

Routes:
  GET|POST|DELETE  /tasks, /epics, /subtasks
  GET|DELETE       /tasks/:id, /epics/:id, /subtasks/:id
  GET              /epics/:id/subtasks, /history, /prioritized, /health

POST with id 0 (or none) creates; any other id updates.
The listen address comes from --addr or [server] addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.Start(cmd.Context(), server.StartOpts{
				Repo:   s.c.Manager,
				Logger: s.c.Logger,
				Out:    cmd.OutOrStdout(),
				Addr:   s.c.AppConfig.Server.Addr,
			})
		},
	}
}
