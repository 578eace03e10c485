// Package logging builds the application's slog logger.
// Output goes to an append-only log file when one is configured and to the
// fallback writer (normally stderr) otherwise.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Logger owns the slog.Logger and the log file behind it.
// Fields are ordered to minimize memory padding.
type Logger struct {
	slog  *slog.Logger
	file  *os.File
	path  string
	mu    sync.Mutex
	level slog.Level
}

// New creates a Logger at level. If path is empty, entries are written to
// fallback; a nil fallback discards them.
func New(path string, level slog.Level, fallback io.Writer) (*Logger, error) {
	l := &Logger{path: path, level: level}

	w := fallback
	if w == nil {
		w = io.Discard
	}
	if path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		l.file = f
		w = f
	}

	l.slog = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return l, nil
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	l, _ := New("", slog.LevelError, io.Discard)
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Slog returns the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Level returns the minimum level that is written.
func (l *Logger) Level() slog.Level {
	return l.level
}

// Path returns the log file path, or "" when logging to the fallback writer.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the log file, if any. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	// G302: Log files are append-only and need read access by the owner's group
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
