package app

import (
	"io"
	"log/slog"
)

// newLogger builds the logger handed to the resolution call tree through
// ctxlog. It never touches the global slog default, so concurrent App
// instances (one per workspace) keep isolated logging. Unknown level strings
// fall back to warn, matching the CLI default.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, opts)
	} else {
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler)
}
