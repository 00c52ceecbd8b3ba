package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger writes JSON lines tagged with service, hostname and action.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

func New(service, level string) *Logger {
	return NewWithWriter(os.Stdout, service, level)
}

func NewWithWriter(w io.Writer, service, level string) *Logger {
	hostname, _ := os.Hostname()
	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func (l *Logger) Info(action, message string, args ...any) {
	l.log(slog.LevelInfo, action, message, nil, args)
}

func (l *Logger) Debug(action, message string, args ...any) {
	l.log(slog.LevelDebug, action, message, nil, args)
}

func (l *Logger) Warn(action, message string, args ...any) {
	l.log(slog.LevelWarn, action, message, nil, args)
}

func (l *Logger) Error(action, message string, err error, args ...any) {
	l.log(slog.LevelError, action, message, err, args)
}

func (l *Logger) log(level slog.Level, action, message string, err error, args []any) {
	attrs := []any{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	attrs = append(attrs, args...)
	l.handler.Log(context.Background(), level, message, attrs...)
}
