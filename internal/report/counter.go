package report

import (
	"fmt"
	"sync/atomic"

	"fortio.org/safecast"

	"checkstyle/internal/api"
)

// SeverityCounter tallies accepted violations per severity. It is safe to
// share across checkers; counters are atomic and survive AuditFinished.
type SeverityCounter struct {
	errors   atomic.Int64
	warnings atomic.Int64
	infos    atomic.Int64
}

// NewSeverityCounter creates a zeroed counter.
func NewSeverityCounter() *SeverityCounter { return &SeverityCounter{} }

// AuditStarted implements api.AuditListener.
func (c *SeverityCounter) AuditStarted() {}

// AuditFinished implements api.AuditListener.
func (c *SeverityCounter) AuditFinished() {}

// FileStarted implements api.AuditListener.
func (c *SeverityCounter) FileStarted(string) {}

// FileFinished implements api.AuditListener.
func (c *SeverityCounter) FileFinished(string) {}

// AddError implements api.AuditListener.
func (c *SeverityCounter) AddError(event api.AuditEvent) {
	if event.Violation == nil {
		return
	}
	switch event.Violation.Severity {
	case api.SeverityError:
		c.errors.Add(1)
	case api.SeverityWarning:
		c.warnings.Add(1)
	case api.SeverityInfo:
		c.infos.Add(1)
	}
}

// AddException implements api.AuditListener.
func (c *SeverityCounter) AddException(string, error) {
	c.errors.Add(1)
}

// Errors returns the number of error-severity violations seen.
func (c *SeverityCounter) Errors() int {
	n, err := safecast.Conv[int](c.errors.Load())
	if err != nil {
		panic(fmt.Errorf("error counter overflow: %w", err))
	}
	return n
}

// Warnings returns the number of warning-severity violations seen.
func (c *SeverityCounter) Warnings() int {
	n, err := safecast.Conv[int](c.warnings.Load())
	if err != nil {
		panic(fmt.Errorf("warning counter overflow: %w", err))
	}
	return n
}

// Infos returns the number of info-severity violations seen.
func (c *SeverityCounter) Infos() int {
	n, err := safecast.Conv[int](c.infos.Load())
	if err != nil {
		panic(fmt.Errorf("info counter overflow: %w", err))
	}
	return n
}
