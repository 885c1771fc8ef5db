package software

import (
	"log/slog"

	"github.com/gogpu/statetrack/internal/slogx"
)

func slogger() *slog.Logger { return slogx.Logger() }
