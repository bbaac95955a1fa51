package api

// AuditEvent is one occurrence handed to listeners and filters: a
// violation in a file, or a file/run lifecycle notification with a nil
// violation.
type AuditEvent struct {
	FileName  string
	Violation *Violation
}

// AuditListener receives the progress and results of a run. Listeners may
// be called from the dispatching goroutine only; the checkers fire events
// after worker results are merged, in file-traversal order.
type AuditListener interface {
	AuditStarted()
	AuditFinished()
	FileStarted(fileName string)
	FileFinished(fileName string)
	AddError(event AuditEvent)
	AddException(fileName string, err error)
}
