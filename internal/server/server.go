// Package server exposes the task manager over JSON/HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/runoshun/taskflow/internal/domain"
	"github.com/runoshun/taskflow/internal/manager"
)

// shutdownTimeout bounds how long in-flight requests may take after cancel.
const shutdownTimeout = 5 * time.Second

// Repository is the part of the task manager the HTTP layer calls.
type Repository interface {
	CreateTask(task domain.Task) (domain.Task, error)
	CreateEpic(epic domain.Epic) (domain.Epic, error)
	CreateSubtask(subtask domain.Subtask) (domain.Subtask, error)

	UpdateTask(task domain.Task) (domain.Task, error)
	UpdateEpic(epic domain.Epic) (domain.Epic, error)
	UpdateSubtask(subtask domain.Subtask) (domain.Subtask, error)

	RemoveTaskByID(id int) (domain.Task, error)
	RemoveEpicByID(id int) (domain.Epic, error)
	RemoveSubtaskByID(id int) (domain.Subtask, error)
	RemoveAllTasks() error
	RemoveAllEpics() error
	RemoveAllSubtasks() error

	GetTaskByID(id int) (domain.Task, error)
	GetEpicByID(id int) (domain.Epic, error)
	GetSubtaskByID(id int) (domain.Subtask, error)
	GetAllTasks() []domain.Task
	GetAllEpics() []domain.Epic
	GetAllSubtasks() []domain.Subtask
	GetSubtasksByEpicID(epicID int) []domain.Subtask

	GetPrioritizedTasks() []domain.Record
	GetHistory() []domain.Record
	Stats() manager.Stats
}

// Ensure Manager satisfies Repository.
var _ Repository = (*manager.Manager)(nil)

// StartOpts holds configuration for the HTTP server.
type StartOpts struct {
	Repo   Repository
	Logger *slog.Logger
	Out    io.Writer
	Addr   string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(repo Repository, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(logger))

	registerRoutes(router, &handler{repo: repo, logger: logger})
	return router
}

// Start listens on opts.Addr and serves until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Addr == "" {
		opts.Addr = domain.DefaultServerAddr
	}
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", opts.Addr, err)
	}
	return Serve(ctx, ln, opts)
}

// Serve serves on ln until ctx is cancelled. ln is closed on return.
func Serve(ctx context.Context, ln net.Listener, opts StartOpts) error {
	if opts.Repo == nil {
		_ = ln.Close()
		return errors.New("server: repository is required")
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Handler:           NewRouter(opts.Repo, opts.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		_, _ = fmt.Fprintf(opts.Out, "Listening on http://%s\n", ln.Addr())
	}

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
