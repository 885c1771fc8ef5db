package statetrack

import (
	"log/slog"

	"github.com/gogpu/statetrack/internal/slogx"
)

// SetLogger configures the logger for statetrack and all its sub-packages.
// By default, statetrack produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by statetrack:
//   - [slog.LevelDebug]: view rebuilds and rebinds, the path each blit took
//   - [slog.LevelWarn]: unsupported blits, dropped stencil, failed finalize
//
// Example:
//
//	statetrack.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	slogx.Set(l)
}

// Logger returns the current logger used by statetrack.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return slogx.Logger()
}
