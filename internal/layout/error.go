package layout

import (
	"fmt"
	"strings"

	"nvcgo/internal/vtype"
)

// ErrorKind enumerates the ways a layout computation can fail.
type ErrorKind uint8

const (
	// ErrRecursiveUnsized marks a type whose layout depends on its own
	// layout with no intervening pointer indirection.
	ErrRecursiveUnsized ErrorKind = iota + 1
	ErrNegativeLength
)

// Error is a layout computation failure, carrying enough context (the
// offending type and, for a cycle, the path that formed it) to render a
// useful diagnostic.
type Error struct {
	Kind  ErrorKind
	Type  vtype.TypeID
	Cycle []vtype.TypeID
	Value int64
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRecursiveUnsized:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive type has infinite layout (type %v)", e.Type)
		}
		parts := make([]string, len(e.Cycle))
		for i, t := range e.Cycle {
			parts[i] = fmt.Sprintf("%v", t)
		}
		return fmt.Sprintf("recursive type has infinite layout (cycle: %s)", strings.Join(parts, " -> "))
	case ErrNegativeLength:
		return fmt.Sprintf("negative array length %d for type %v", e.Value, e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type=%v", e.Kind, e.Type)
	}
}
