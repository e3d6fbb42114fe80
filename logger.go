package fx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip attribute formatting entirely,
// which keeps disabled logging off the decode hot path.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can race with loads running on other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger shared by fx and all of its sub-packages.
// By default fx produces no log output.
//
// Pass nil to restore the silent default.
//
// Log levels used by fx:
//   - [slog.LevelDebug]: decode progress, input-layout cache misses, reader registration
//   - [slog.LevelInfo]: backend selection, content manager lifecycle
//   - [slog.LevelWarn]: semantic-substitution retries, native release failures
//
// Example:
//
//	fx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by fx.
// Sub-packages call this instead of holding their own copy so that a
// later SetLogger takes effect everywhere.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ComponentLogger returns the current logger tagged with a component
// attribute, e.g. "effect" or "content".
func ComponentLogger(component string) *slog.Logger {
	return Logger().With(slog.String("component", component))
}
