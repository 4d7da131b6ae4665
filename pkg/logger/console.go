package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Stderr is where the console and JSON handlers write. Tests may swap it.
var Stderr io.Writer = os.Stderr

func NewConsoleHandler(level slog.Level) slog.Handler {
	return tint.NewHandler(Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}
