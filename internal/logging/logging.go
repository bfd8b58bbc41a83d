// Package logging configures the application-wide structured logger.
package logging

import (
	"log/slog"
	"os"
)

// Init sets up the process-wide slog default.
// format: "json" or "text" (defaults to "text").
func Init(verbose bool, format string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
