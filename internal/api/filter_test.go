package api

import "testing"

type severityFilter struct {
	min Severity
}

func (f severityFilter) Accept(event AuditEvent) bool {
	return event.Violation == nil || event.Violation.Severity >= f.min
}

func TestFilterSet_Accept(t *testing.T) {
	set := NewFilterSet()

	warning := NewViolation(1, 1, SeverityWarning, "X", "w")
	event := AuditEvent{FileName: "f.go", Violation: &warning}

	// Пустой набор принимает всё.
	if !set.Accept(event) {
		t.Error("empty filter set rejected an event")
	}

	set.AddFilter(severityFilter{min: SeverityError})
	if set.Accept(event) {
		t.Error("warning passed an error-only filter")
	}

	errV := NewViolation(1, 1, SeverityError, "X", "e")
	if !set.Accept(AuditEvent{FileName: "f.go", Violation: &errV}) {
		t.Error("error rejected by an error-only filter")
	}

	if len(set.Filters()) != 1 {
		t.Errorf("Filters() = %d entries, want 1", len(set.Filters()))
	}
	if set.TotalAcceptTime() < 0 {
		t.Error("TotalAcceptTime went negative")
	}

	set.Clear()
	if len(set.Filters()) != 0 {
		t.Error("Clear left filters behind")
	}
	if !set.Accept(event) {
		t.Error("cleared set should accept everything again")
	}
}
