package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. It is the default so that library users get no output unless they opt in.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger replaces the logger used by every package of the engine.
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

// Logger returns the engine logger.
func Logger() *slog.Logger {
	return logger.Load()
}
