// Package log wraps slog with a component attribute so every line can be
// traced back to the part of the process that emitted it.
package log

import (
	"log/slog"
	"os"
)

// Component names used across the process.
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentStore  = "store"
	ComponentWorker = "worker"
	ComponentAMQP   = "amqp"
	ComponentMirror = "mirror"
	ComponentFeeder = "feeder"
)

type Logger struct {
	*slog.Logger
	component string
}

// New builds the process root logger writing text to stdout.
func New(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), component: ComponentApp}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// With returns a child logger with extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), component: l.component}
}

func (l *Logger) Component() string { return l.component }

// SetDefault installs this logger as the slog default so packages logging
// through slog directly share the same handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
