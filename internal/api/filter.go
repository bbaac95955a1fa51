package api

import (
	"sync"
	"sync/atomic"
	"time"
)

// Filter decides whether an audit event is reported.
type Filter interface {
	Accept(event AuditEvent) bool
}

// FilterSet applies a set of filters to audit events: an event is rejected
// as soon as any member rejects it. The set is safe for concurrent use and
// keeps the total time spent in Accept for diagnostics.
type FilterSet struct {
	mu      sync.RWMutex
	filters []Filter

	totalAcceptNanos atomic.Int64
}

// NewFilterSet creates an empty filter set, which accepts everything.
func NewFilterSet() *FilterSet {
	return &FilterSet{}
}

// AddFilter adds a filter to the set.
func (s *FilterSet) AddFilter(f Filter) {
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()
}

// Filters returns a copy of the member filters.
func (s *FilterSet) Filters() []Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// Accept reports whether every member filter accepts the event.
func (s *FilterSet) Accept(event AuditEvent) bool {
	before := time.Now()
	defer func() {
		s.totalAcceptNanos.Add(time.Since(before).Nanoseconds())
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.filters {
		if !f.Accept(event) {
			return false
		}
	}
	return true
}

// TotalAcceptTime returns the accumulated time spent filtering.
func (s *FilterSet) TotalAcceptTime() time.Duration {
	return time.Duration(s.totalAcceptNanos.Load())
}

// Clear removes every filter from the set.
func (s *FilterSet) Clear() {
	s.mu.Lock()
	s.filters = nil
	s.mu.Unlock()
}
