// Package logging provides the small leveled logger shared by the
// library, scanner, watcher and command-line front ends.
package logging

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

var (
	debugTag   = color.New(color.FgCyan).Sprint("DEBUG")
	infoTag    = color.New(color.FgBlue).Sprint("INFO")
	warnTag    = color.New(color.FgYellow).Sprint("WARN")
	errorTag   = color.New(color.FgRed).Sprint("ERROR")
	successTag = color.New(color.FgGreen).Sprint("OK")
)

// Logger writes leveled, colored lines to a single writer. Debug lines
// are dropped unless verbose mode is on. Methods are safe to call from
// multiple goroutines; the library itself is single-threaded but the
// watcher delivers callbacks on its own goroutine.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// New returns a logger writing to out.
func New(out io.Writer) *Logger {
	return &Logger{out: out}
}

// Nop returns a logger that discards everything. Handy for tests and
// for embedding the library without console output.
func Nop() *Logger {
	return &Logger{out: io.Discard}
}

// SetVerbose toggles whether Debug lines are written.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// Debug logs a line only when verbose mode is on.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.verbose {
		return
	}
	l.write(debugTag, format, args...)
}

// Info logs an informational line.
func (l *Logger) Info(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(infoTag, format, args...)
}

// Warn logs a warning line.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(warnTag, format, args...)
}

// Error logs an error line.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(errorTag, format, args...)
}

// Success logs a completion line.
func (l *Logger) Success(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(successTag, format, args...)
}

func (l *Logger) write(tag, format string, args ...any) {
	fmt.Fprintf(l.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}
