package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the application logger used at every stage boundary.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout at the given slog level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// NewDiscard returns a logger that drops everything. Used in tests.
func NewDiscard() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Fatal logs at Error level and exits.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
