package minisdk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
)

// Logger receives the SDK's human-readable messages. Log is fire-and-forget
// and must not panic.
type Logger interface {
	Log(message string)
}

// StdoutLogger writes "[SDK] <message>" lines to a writer.
type StdoutLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdoutLogger returns a StdoutLogger writing to w, or to os.Stdout when w
// is nil.
func NewStdoutLogger(w io.Writer) *StdoutLogger {
	if w == nil {
		w = os.Stdout
	}
	return &StdoutLogger{w: w}
}

func (l *StdoutLogger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "[SDK] %s\n", message)
}

// SlogLogger forwards messages to a structured logger at Info level.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger returns a SlogLogger. A nil logger means slog.Default().
func NewSlogLogger(logger *slog.Logger) SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return SlogLogger{logger: logger}
}

func (l SlogLogger) Log(message string) {
	l.logger.Info(message, "component", "minisdk")
}

// RecordingLogger keeps every message in memory.
type RecordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *RecordingLogger) Log(message string) {
	l.mu.Lock()
	l.messages = append(l.messages, message)
	l.mu.Unlock()
}

// Messages returns a copy of the recorded messages in delivery order.
func (l *RecordingLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.messages)
}

// Contains reports whether message was recorded verbatim.
func (l *RecordingLogger) Contains(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.messages, message)
}

// MultiLogger delivers each message to every logger in order.
type MultiLogger []Logger

func (m MultiLogger) Log(message string) {
	for _, l := range m {
		if l != nil {
			l.Log(message)
		}
	}
}
