package rift

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/rift/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for rift and all its sub-packages.
// By default, rift produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by rift:
//   - [slog.LevelDebug]: internal diagnostics (mesh sizes, FOV resolution)
//   - [slog.LevelInfo]: lifecycle events (runtime initialized, device opened)
//   - [slog.LevelWarn]: non-fatal issues (post-window setup skipped, release errors)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	rift.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	rift.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to the render layer, which cannot import this package.
	render.SetLogger(l)
}

// Logger returns the current logger used by rift.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
