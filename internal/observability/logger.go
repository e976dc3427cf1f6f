// Package observability provides structured logging and metrics collection.
//
// Logger wraps log/slog with store-specific context fields.
// MetricsCollector counts store operations and keeps their latencies.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with persistent store context.
type Logger struct {
	inner  *slog.Logger
	source string
}

// NewLogger creates a structured JSON logger for the named source.
// Output defaults to os.Stderr if w is nil.
func NewLogger(source string, w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		inner:  slog.New(handler),
		source: source,
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// With returns a new Logger with additional persistent fields.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{
		inner:  l.inner.With(slog.Any(key, value)),
		source: l.source,
	}
}

// attrs prepends the source name to the arguments.
func (l *Logger) attrs(args []any) []any {
	return append([]any{slog.String("source", l.source)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, l.attrs(args)...)
}

// Fault logs a failed store operation. key may be empty for whole-store
// operations such as clear.
func (l *Logger) Fault(op, key string, err error) {
	args := []any{
		slog.String("source", l.source),
		slog.String("op", op),
	}
	if key != "" {
		args = append(args, slog.String("key", key))
	}
	args = append(args, slog.String("error", err.Error()))
	l.inner.Error("storage fault", args...)
}
