package logger

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// Setup installs the default slog logger writing to w. Query results go to
// stdout, so callers normally pass stderr here.
func Setup(w io.Writer, level string, format string) {
	slog.SetDefault(slog.New(NewHandler(w, level, format)))
}

func NewHandler(w io.Writer, level string, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, contextKey{}, command)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if command, ok := ctx.Value(contextKey{}).(string); ok {
		logger = logger.With("command", command)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
