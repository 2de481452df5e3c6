// Package logging writes diagnostics to stderr, keeping stdout for reports.
package logging

import (
	"fmt"
	"io"
	"sync"
)

// Logger is what the scan pipeline needs for diagnostics
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// ConsoleLogger writes log lines to a writer, normally stderr.
// Safe for concurrent use.
type ConsoleLogger struct {
	out    io.Writer
	debug  bool
	silent bool
	mu     sync.Mutex
}

// NewLogger creates a logger writing to out.
// Debug lines are written only when debug is set; silent drops everything.
func NewLogger(out io.Writer, debug, silent bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:    out,
		debug:  debug,
		silent: silent,
	}
}

// Debug logs detailed diagnostic information if debug mode is enabled
func (l *ConsoleLogger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.write("[DEBUG] ", format, args)
}

// Info logs progress messages
func (l *ConsoleLogger) Info(format string, args ...any) {
	l.write("", format, args)
}

// Warn logs recoverable failures
func (l *ConsoleLogger) Warn(format string, args ...any) {
	l.write("Warning: ", format, args)
}

func (l *ConsoleLogger) write(prefix, format string, args []any) {
	if l.silent {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, prefix+format+"\n", args...)
}
