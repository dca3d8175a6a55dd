package protocol

import (
	"io"
	"log/slog"
)

func nopSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
