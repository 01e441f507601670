package logger

import (
	"log"
	"log/slog"
	"os"
	"time"
)

var globalLogger *slog.Logger

// InitLogger configures the process-wide slog logger for the given
// environment. Development gets human-readable text at debug level,
// everything else structured JSON at info level.
func InitLogger(env string) {
	var handler slog.Handler
	var opts slog.HandlerOptions

	opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
		}
		return a
	}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(os.Stdout, &opts)
	case "development-json":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewJSONHandler(os.Stdout, &opts)
	case "production", "staging":
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, &opts)
	default:
		log.Printf("WARNING: Unknown APP_ENV '%s'. Defaulting to production logging.\n", env)
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, &opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// L returns the global slog logger instance. InitLogger should run first in
// main; the fallback here only covers early test and tooling paths.
func L() *slog.Logger {
	if globalLogger == nil {
		InitLogger("development")
	}
	return globalLogger
}
