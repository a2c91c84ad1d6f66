package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger provides leveled, printf-style logging on top of slog.
type Logger struct {
	slog *slog.Logger
}

// NewLogger creates a Logger writing to stdout.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func NewLogger(level, format string) *Logger {
	return NewLoggerTo(os.Stdout, level, format)
}

// NewLoggerTo creates a Logger writing to w.
func NewLoggerTo(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{slog: slog.New(handler)}
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

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

func (l *Logger) Info(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(slog.LevelDebug, format, args...)
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	ctx := context.Background()
	if !l.slog.Enabled(ctx, level) {
		return
	}
	l.slog.Log(ctx, level, fmt.Sprintf(format, args...))
}
