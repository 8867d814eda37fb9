// Package alerts prints short status lines next to command output, for
// conditions a reader of a table or a summary would otherwise miss.
package alerts

import (
	"fmt"
	"io"
	"strings"
)

// Symbols used as alert icons.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "i"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a partial failure, such as skipped entities.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol printed before the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return SymbolError
	case LevelWarning:
		return SymbolWarning
	case LevelSuccess:
		return SymbolSuccess
	default:
		return SymbolInfo
	}
}

// Alert is one status line with optional indented details.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, format string, args ...any) *Alert {
	return &Alert{Level: level, Message: fmt.Sprintf(format, args...)}
}

// Success creates a success alert.
func Success(format string, args ...any) *Alert {
	return New(LevelSuccess, format, args...)
}

// Warning creates a warning alert.
func Warning(format string, args ...any) *Alert {
	return New(LevelWarning, format, args...)
}

// WithError attaches an underlying error.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String renders the alert and its details.
func (a *Alert) String() string {
	var b strings.Builder
	b.WriteString(a.Level.Icon())
	b.WriteString(" ")
	b.WriteString(a.Message)
	if a.Err != nil {
		fmt.Fprintf(&b, ": %v", a.Err)
	}
	for _, d := range a.Details {
		b.WriteString("\n  ")
		b.WriteString(d)
	}
	return b.String()
}

// Write prints the alert as its own line.
func (a *Alert) Write(w io.Writer) error {
	_, err := fmt.Fprintln(w, a.String())
	return err
}
