package logger

import (
	"log/slog"
	"os"
)

// New returns the service-wide structured logger. JSON on stdout so log
// shippers need no parsing config.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
