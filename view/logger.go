package view

import (
	"log/slog"

	"github.com/gogpu/statetrack/internal/slogx"
)

// slogger returns the current package logger.
func slogger() *slog.Logger { return slogx.Logger() }
