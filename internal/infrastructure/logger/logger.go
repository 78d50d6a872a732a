package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines the logging interface
type Logger interface {
	LogDebug(ctx context.Context, msg string, attrs ...any)
	LogInfo(ctx context.Context, msg string, attrs ...any)
	LogError(ctx context.Context, msg string, err error, attrs ...any)
	LogWarning(ctx context.Context, msg string, attrs ...any)
	WithOperationID(operationID string) Logger
	WithUser(username string) Logger
}

// Options configures the structured logger
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// StructuredLogger implements the Logger interface
type StructuredLogger struct {
	*slog.Logger
}

// New creates a structured logger from options
func New(opts Options) (Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return &StructuredLogger{
		Logger: slog.New(handler),
	}, nil
}

// Discard returns a logger that drops every record
func Discard() Logger {
	return &StructuredLogger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ParseLevel maps debug, info, warn and error to slog levels; empty means info
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// WithOperationID tags every record with the id of the running command
func (l *StructuredLogger) WithOperationID(operationID string) Logger {
	return &StructuredLogger{
		Logger: l.Logger.With("operation_id", operationID),
	}
}

// WithUser tags every record with the acting username
func (l *StructuredLogger) WithUser(username string) Logger {
	return &StructuredLogger{
		Logger: l.Logger.With("user", username),
	}
}

// LogError logs an error with context
func (l *StructuredLogger) LogError(ctx context.Context, msg string, err error, attrs ...any) {
	if err != nil {
		attrs = append([]any{"error", err.Error()}, attrs...)
	}
	l.Logger.ErrorContext(ctx, msg, attrs...)
}

// LogInfo logs an info message with context
func (l *StructuredLogger) LogInfo(ctx context.Context, msg string, attrs ...any) {
	l.Logger.InfoContext(ctx, msg, attrs...)
}

// LogWarning logs a warning message with context
func (l *StructuredLogger) LogWarning(ctx context.Context, msg string, attrs ...any) {
	l.Logger.WarnContext(ctx, msg, attrs...)
}

func (l *StructuredLogger) LogDebug(ctx context.Context, msg string, attrs ...any) {
	l.Logger.DebugContext(ctx, msg, attrs...)
}
