package logger

import (
	"log/slog"
	"strings"
)

func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	h := handler(ParseLevel(level))
	return slog.New(h)
}

// ParseLevel maps a --log-level flag value to a slog level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HandlerFor returns the handler factory for a --log-format flag value.
func HandlerFor(format string) func(level slog.Level) slog.Handler {
	if strings.EqualFold(format, "json") {
		return func(level slog.Level) slog.Handler { return NewJSONHandler(level) }
	}
	return NewConsoleHandler
}
