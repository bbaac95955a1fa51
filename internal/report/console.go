// Package report provides the audit listeners shipped with the CLI: a
// colored console listener, a severity counter backing the exit status
// and a channel listener for programmatic consumers.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"checkstyle/internal/api"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	pathColor    = color.New(color.Bold)
)

// ConsoleListener prints accepted violations as
// "path:line:col: severity: message [Source]" lines. Output is serialized
// with a mutex so a listener can be shared by tests driving multiple
// checkers.
type ConsoleListener struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
}

// NewConsoleListener creates a listener writing to out. With quiet set,
// per-file progress is suppressed and only violations are printed.
func NewConsoleListener(out io.Writer, quiet bool) *ConsoleListener {
	return &ConsoleListener{out: out, quiet: quiet}
}

// AuditStarted implements api.AuditListener.
func (l *ConsoleListener) AuditStarted() {
	if l.quiet {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, "Starting audit...")
}

// AuditFinished implements api.AuditListener.
func (l *ConsoleListener) AuditFinished() {
	if l.quiet {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, "Audit done.")
}

// FileStarted implements api.AuditListener.
func (l *ConsoleListener) FileStarted(string) {}

// FileFinished implements api.AuditListener.
func (l *ConsoleListener) FileFinished(string) {}

// AddError implements api.AuditListener.
func (l *ConsoleListener) AddError(event api.AuditEvent) {
	v := event.Violation
	if v == nil || v.Severity == api.SeverityIgnore {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s: %s: %s",
		pathColor.Sprintf("%s:%d:%d", event.FileName, v.Line, v.Column),
		severityColor(v.Severity).Sprint(v.Severity),
		v.Message)
	if v.Source != "" {
		fmt.Fprintf(l.out, " [%s]", v.Source)
	}
	fmt.Fprintln(l.out)
}

// AddException implements api.AuditListener.
func (l *ConsoleListener) AddException(fileName string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s: %s: %v\n",
		pathColor.Sprint(fileName), errorColor.Sprint("exception"), err)
}

func severityColor(s api.Severity) *color.Color {
	switch s {
	case api.SeverityError:
		return errorColor
	case api.SeverityWarning:
		return warningColor
	default:
		return infoColor
	}
}
