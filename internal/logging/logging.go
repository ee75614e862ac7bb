// Package logging constructs the structured logger used by cmd/splitgraph
// and its collaborators. The core algorithm packages (internal/graph,
// internal/splitter) take no logger and perform no logging: they are pure
// functions of their inputs.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Default builds a slog.Logger for component, reading level and format
// from SPLITGRAPH_LOG_LEVEL (debug|info|warn|error, default info) and
// SPLITGRAPH_LOG_FORMAT (text|json, default text).
func Default(component string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("SPLITGRAPH_LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler).With("component", component)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("SPLITGRAPH_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
