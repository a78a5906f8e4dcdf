package logging

import (
	"log/slog"
	"os"
)

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// Tee keeps stdout output and additionally sends records to the given
// handlers, e.g. a DBHandler once the database is available.
func Tee(extra ...slog.Handler) {
	handlers := append([]slog.Handler{stdoutHandler()}, extra...)
	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}
