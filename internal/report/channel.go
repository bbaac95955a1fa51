package report

import "checkstyle/internal/api"

// EventKind tags the entries a ChannelListener forwards.
type EventKind string

const (
	// KindAuditStarted opens a run.
	KindAuditStarted EventKind = "audit-started"
	// KindAuditFinished closes a run.
	KindAuditFinished EventKind = "audit-finished"
	// KindFileStarted opens one file.
	KindFileStarted EventKind = "file-started"
	// KindFileFinished closes one file.
	KindFileFinished EventKind = "file-finished"
	// KindError carries an accepted violation.
	KindError EventKind = "error"
	// KindException carries a processing failure.
	KindException EventKind = "exception"
)

// Event is one forwarded audit notification.
type Event struct {
	Kind      EventKind
	FileName  string
	Violation *api.Violation
	Err       error
}

// ChannelListener forwards audit events into a channel. A nil channel
// drops everything.
type ChannelListener struct {
	Ch chan<- Event
}

func (l ChannelListener) send(evt Event) {
	if l.Ch == nil {
		return
	}
	l.Ch <- evt
}

// AuditStarted implements api.AuditListener.
func (l ChannelListener) AuditStarted() { l.send(Event{Kind: KindAuditStarted}) }

// AuditFinished implements api.AuditListener.
func (l ChannelListener) AuditFinished() { l.send(Event{Kind: KindAuditFinished}) }

// FileStarted implements api.AuditListener.
func (l ChannelListener) FileStarted(fileName string) {
	l.send(Event{Kind: KindFileStarted, FileName: fileName})
}

// FileFinished implements api.AuditListener.
func (l ChannelListener) FileFinished(fileName string) {
	l.send(Event{Kind: KindFileFinished, FileName: fileName})
}

// AddError implements api.AuditListener.
func (l ChannelListener) AddError(event api.AuditEvent) {
	l.send(Event{Kind: KindError, FileName: event.FileName, Violation: event.Violation})
}

// AddException implements api.AuditListener.
func (l ChannelListener) AddException(fileName string, err error) {
	l.send(Event{Kind: KindException, FileName: fileName, Err: err})
}
