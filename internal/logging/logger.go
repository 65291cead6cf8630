// Package logging provides the structured logger used across a
// screenshot run. Human-facing progress goes through the reporter;
// this logger carries the diagnostic trail (probe results, filter
// chains, tonemap attempts).
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger wraps slog.Logger so call sites stay decoupled from handler
// construction.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing text records at the given level. A nil
// writer logs to stderr, keeping stdout clean for JSON event output.
func New(level slog.Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Tests and the library
// facade use it when no diagnostics were requested.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithPrefix groups subsequent attributes under the given name, used to
// distinguish per-clip diagnostic lines.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{Logger: l.WithGroup(prefix)}
}

var (
	globalMu sync.RWMutex
	global   *Logger
)

// Global returns the process-wide logger, an info-level stderr logger
// until Init or SetGlobal replaces it.
func Global() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New(slog.LevelInfo, os.Stderr)
	}
	return global
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	global = logger
	globalMu.Unlock()
}

// Init configures the process-wide logger, typically once from the CLI
// after flag parsing.
func Init(level slog.Level, w io.Writer) {
	SetGlobal(New(level, w))
}

// Debug logs a debug message to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs an informational message to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs an error message to the global logger.
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
