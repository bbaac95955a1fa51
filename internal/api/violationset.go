package api

import "sort"

// ViolationSet is a sorted, duplicate-collapsing container of violations.
// Ordering follows Violation.Compare, which keeps end-to-end output
// deterministic no matter in which order concurrent tasks finish.
// A ViolationSet is not safe for concurrent mutation; every task owns its
// own set and sets are merged after the tasks are awaited.
type ViolationSet struct {
	items []Violation
}

// NewViolationSet creates an empty set.
func NewViolationSet() *ViolationSet {
	return &ViolationSet{}
}

// Add inserts a violation keeping the set sorted. It returns false when an
// equal violation (same line, column and message) is already present.
func (s *ViolationSet) Add(v Violation) bool {
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].Compare(v) >= 0
	})
	if idx < len(s.items) && s.items[idx].Compare(v) == 0 {
		return false
	}
	s.items = append(s.items, Violation{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = v
	return true
}

// Merge adds every violation of other into s.
func (s *ViolationSet) Merge(other *ViolationSet) {
	if other == nil {
		return
	}
	for _, v := range other.items {
		s.Add(v)
	}
}

// Items returns the sorted violations.
// Не модифицируйте возвращаемый срез: он указывает на внутренний массив.
func (s *ViolationSet) Items() []Violation {
	return s.items
}

// Len returns the number of collected violations.
func (s *ViolationSet) Len() int { return len(s.items) }

// Clear drops all collected violations, keeping capacity.
func (s *ViolationSet) Clear() { s.items = s.items[:0] }
