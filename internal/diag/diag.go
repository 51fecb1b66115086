// Package diag implements the diagnostic collector described in spec.md §7:
// UserSource errors accumulate in a Bag with optional hint chains, flushed
// as notes on the next emitted error; the renderer is a pluggable
// collaborator with compact and full modes.
package diag

import (
	"sort"

	"nvcgo/internal/loc"
)

// Severity is the importance of a diagnostic.
type Severity uint8

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Hint is a supplementary note queued on the bag and attached to the next
// emitted diagnostic (§7: "optional hint chains; hints are queued and
// flushed on the next emitted error").
type Hint struct {
	At  loc.Loc
	Msg string
}

// Diagnostic is a single user-visible error with severity, optional
// location, a primary message and zero or more hints.
type Diagnostic struct {
	Severity Severity
	At       loc.Loc
	Message  string
	Hints    []Hint
}

// Bag accumulates diagnostics up to a configurable cap and owns the pending
// hint chain.
type Bag struct {
	items        []Diagnostic
	max          int
	pendingHints []Hint
	errorCount   int
}

// NewBag creates a bag with the given cap (0 means unlimited).
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Hint queues a hint to be attached to the next emitted diagnostic.
func (b *Bag) Hint(at loc.Loc, msg string) {
	b.pendingHints = append(b.pendingHints, Hint{At: at, Msg: msg})
}

// Emit adds a diagnostic, draining any pending hints into it. Returns false
// if the bag is at capacity (the diagnostic is still counted towards
// HasErrors via errorCount, matching "accumulates an error count" in §7).
func (b *Bag) Emit(sev Severity, at loc.Loc, msg string) bool {
	d := Diagnostic{Severity: sev, At: at, Message: msg, Hints: b.pendingHints}
	b.pendingHints = nil
	if sev == Error {
		b.errorCount++
	}
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any Error-severity diagnostic was emitted, even
// if it was dropped for exceeding the cap.
func (b *Bag) HasErrors() bool { return b.errorCount > 0 }

// ErrorCount returns the accumulated error count (§7).
func (b *Bag) ErrorCount() int { return b.errorCount }

// Items returns the collected diagnostics (read-only; do not mutate).
func (b *Bag) Items() []Diagnostic { return b.items }

// Len reports the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Sort orders diagnostics deterministically by (file, line, col, severity
// desc).
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		a, c := b.items[i], b.items[j]
		if a.At.File != c.At.File {
			return a.At.File < c.At.File
		}
		if a.At.Line != c.At.Line {
			return a.At.Line < c.At.Line
		}
		if a.At.Col != c.At.Col {
			return a.At.Col < c.At.Col
		}
		return a.Severity > c.Severity
	})
}

// Merge appends another bag's items and error count into this one.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.errorCount += other.errorCount
}
