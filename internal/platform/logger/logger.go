package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/scholar-api/internal/config"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Setup builds the application logger from server configuration: a JSON
// handler on stdout at the configured level. The logger is also installed
// as slog's default. An unrecognized level falls back to info.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using info",
			slog.String("configured_level", cfg.LogLevel))
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	appLogger := slog.New(handler)
	slog.SetDefault(appLogger)

	return appLogger, nil
}

// WithLogger returns a context carrying the given logger. Middleware uses
// this to attach request attributes (trace ID) once, so every layer below
// logs them for free.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from the context, or nil if none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey).(*slog.Logger)
	return logger
}

// FromContextOrDefault extracts the logger from the context, falling back
// to the provided default (or slog.Default when that is nil too).
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
