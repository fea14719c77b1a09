// Package logging provides structured logging utilities.
//
// Logs are single-line bracketed records with colors on a terminal:
// [LEVEL] [SCOPE] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/ncuskey/lothelper-engine/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config.
// Format "json" writes machine-readable output; anything else gets the
// console handler.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithScope creates a logger with a scope prefix (e.g. "api",
// "scan", "storage") for tracing which subsystem produced a line.
func NewLoggerWithScope(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
