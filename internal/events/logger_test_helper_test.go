package events

import (
	"io"
	"log/slog"
)

func nopSlogLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
