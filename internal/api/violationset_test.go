package api

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestViolationSet_SortedInsert(t *testing.T) {
	set := NewViolationSet()
	set.Add(NewViolation(5, 1, SeverityError, "B", "second"))
	set.Add(NewViolation(1, 10, SeverityError, "A", "third"))
	set.Add(NewViolation(1, 2, SeverityWarning, "C", "first"))

	want := []string{"first", "third", "second"}
	var got []string
	for _, v := range set.Items() {
		got = append(got, v.Message)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestViolationSet_CollapsesDuplicates(t *testing.T) {
	set := NewViolationSet()
	v := NewViolation(3, 7, SeverityError, "LineLength", "too long")
	if !set.Add(v) {
		t.Error("first Add returned false")
	}
	if set.Add(v) {
		t.Error("duplicate Add returned true")
	}
	// Одинаковая позиция, другое сообщение: не дубликат.
	if !set.Add(NewViolation(3, 7, SeverityError, "LineLength", "still too long")) {
		t.Error("distinct message at the same position was collapsed")
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
}

func TestViolationSet_Merge(t *testing.T) {
	left := NewViolationSet()
	left.Add(NewViolation(2, 1, SeverityError, "A", "left"))
	left.Add(NewViolation(4, 1, SeverityError, "A", "shared"))

	right := NewViolationSet()
	right.Add(NewViolation(1, 1, SeverityError, "B", "right"))
	right.Add(NewViolation(4, 1, SeverityError, "B", "shared"))

	left.Merge(right)
	left.Merge(nil) // nil безопасен

	var got []string
	for _, v := range left.Items() {
		got = append(got, v.Message)
	}
	if diff := cmp.Diff([]string{"right", "left", "shared"}, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestNewViolation_FormatsMessage(t *testing.T) {
	v := NewViolation(1, 1, SeverityError, "LineLength",
		"line is longer than %d characters (found %d)", 100, 120)
	want := "line is longer than 100 characters (found 120)"
	if v.Message != want {
		t.Errorf("Message = %q, want %q", v.Message, want)
	}
	// Без аргументов ключ остаётся сообщением как есть.
	newViolation := NewViolation
	plain := newViolation(1, 1, SeverityError, "X", "100% literal")
	if plain.Message != "100% literal" {
		t.Errorf("Message = %q, want untouched key", plain.Message)
	}
}
