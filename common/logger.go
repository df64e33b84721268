package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. It backs the default logger so that
// library code can log unconditionally without producing output.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by every engine component.
// Passing nil restores the silent default.
//
// Parameters:
//   - l: the logger to install, or nil
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the currently installed logger.
//
// Returns:
//   - *slog.Logger: the engine logger, never nil
func Logger() *slog.Logger {
	return logger.Load()
}

// ComponentLogger returns the engine logger tagged with a component attribute.
//
// Parameters:
//   - name: the component name, e.g. "buffer_sync"
//
// Returns:
//   - *slog.Logger: a child logger carrying component=name
func ComponentLogger(name string) *slog.Logger {
	return Logger().With(slog.String("component", name))
}
