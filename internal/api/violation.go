package api

import (
	"fmt"
	"strings"
)

// Violation is one message produced by a check at a position of a file.
// Violations are immutable after creation and ordered by (line, column,
// message) so that merged output stays deterministic regardless of which
// worker produced them first.
type Violation struct {
	Line     int
	Column   int
	Key      string
	Message  string
	Severity Severity
	Source   string
}

// NewViolation renders and builds a violation. The key doubles as the
// format string; message localization is out of scope for the engine.
func NewViolation(line, column int, severity Severity, source, key string, args ...any) Violation {
	message := key
	if len(args) > 0 {
		message = fmt.Sprintf(key, args...)
	}
	return Violation{
		Line:     line,
		Column:   column,
		Key:      key,
		Message:  message,
		Severity: severity,
		Source:   source,
	}
}

// Compare orders violations by (line, column, message). It returns a
// negative value when v sorts before other, zero when the two collapse as
// duplicates inside a ViolationSet.
func (v Violation) Compare(other Violation) int {
	if v.Line != other.Line {
		if v.Line < other.Line {
			return -1
		}
		return 1
	}
	if v.Column != other.Column {
		if v.Column < other.Column {
			return -1
		}
		return 1
	}
	return strings.Compare(v.Message, other.Message)
}

func (v Violation) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", v.Line, v.Column, v.Severity, v.Message)
}
