package api

import (
	"strings"

	"github.com/agilira/go-errors"

	"checkstyle/internal/config"
)

// Severity ranks a violation. Higher values are more severe.
type Severity uint8

const (
	// SeverityIgnore suppresses a violation entirely.
	SeverityIgnore Severity = iota
	// SeverityInfo is an informational note.
	SeverityInfo
	// SeverityWarning is a non-fatal style problem.
	SeverityWarning
	// SeverityError counts towards the run's exit status.
	SeverityError
)

var severityNames = [...]string{"ignore", "info", "warning", "error"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// ParseSeverity maps a configuration string onto a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(value) {
	case "ignore":
		return SeverityIgnore, nil
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityIgnore, errors.New(config.ErrCodeInvalidConfig,
			"unknown severity level "+value)
	}
}
