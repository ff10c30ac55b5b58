// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
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

// sinks are devices that keep their own logger and want to follow SetLogger.
var (
	sinksMu sync.Mutex
	sinks   []loggerSetter
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for ink and all its sub-packages.
// By default, ink produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by ink:
//   - [slog.LevelDebug]: arena growth, pass and pipeline diagnostics
//   - [slog.LevelInfo]: resize, adapter selection, frame rate
//   - [slog.LevelWarn]: non-fatal issues (framebuffer allocation, readback failures)
//
// Example:
//
//	ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	defer sinksMu.Unlock()
	for _, s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger used by ink.
// Sub-packages (canvas/, backend/) call this to share the same logger
// configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger hands the current logger to v if it accepts one and keeps
// it subscribed to later SetLogger calls until the returned func is called.
func propagateLogger(v any) (unsubscribe func()) {
	ls, ok := v.(loggerSetter)
	if !ok {
		return func() {}
	}
	ls.SetLogger(Logger())

	sinksMu.Lock()
	sinks = append(sinks, ls)
	sinksMu.Unlock()

	return func() {
		sinksMu.Lock()
		defer sinksMu.Unlock()
		for i, s := range sinks {
			if s == ls {
				sinks = append(sinks[:i], sinks[i+1:]...)
				return
			}
		}
	}
}
