package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured JSON slog.Logger with the given level.
// Debug-level loggers carry source positions so detector and gesture traces
// point at their call sites.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level.Level() <= slog.LevelDebug,
	})
	return slog.New(h).With("app", "mockup-studio")
}
