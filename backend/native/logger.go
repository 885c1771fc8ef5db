//go:build !nogpu

package native

import (
	"log/slog"

	"github.com/gogpu/statetrack/internal/slogx"
)

func slogger() *slog.Logger {
	return slogx.Logger()
}
