package logger

import (
	"io"
	"log/slog"
)

// New builds the process logger. format "json" selects slog's JSON handler
// for log shippers; anything else gets the colored PrettyHandler.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewPrettyHandler(w, opts))
}
