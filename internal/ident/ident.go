// Package ident implements the immutable, process-global identifier table
// (C1): interned names with O(1) equality and hierarchical composition.
package ident

import (
	"strings"
	"sync"
)

// Ident is an interned, immutable name. Two idents are equal iff their
// handles are equal; never compare the underlying bytes directly.
type Ident uint32

// None marks the absence of an identifier.
const None Ident = 0

// IsValid reports whether id was produced by a Table.
func (id Ident) IsValid() bool { return id != None }

// Table interns byte strings into stable Ident handles. Lifetime is
// process-global: entries are never freed (§3 "Identifier").
//
// Concurrent readers are allowed; writers are serialized behind mu, matching
// the "concurrent readers, serialized writers" contract of §4.2.
type Table struct {
	mu      sync.RWMutex
	byID    []string
	index   map[string]Ident
	freshN  map[string]int
}

// NewTable creates an interner with the empty string pre-registered as None.
func NewTable() *Table {
	return &Table{
		byID:   []string{""},
		index:  map[string]Ident{"": None},
		freshN: make(map[string]int),
	}
}

// Intern returns the stable Ident for bytes, allocating a new one if needed.
func (t *Table) Intern(s string) Ident {
	t.mu.RLock()
	if id, ok := t.index[s]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id := Ident(len(t.byID))
	t.byID = append(t.byID, cpy)
	t.index[cpy] = id
	return id
}

// StringOf returns the interned bytes for id. Panics on an invalid id; core
// code never holds an Ident it did not obtain from a Table.
func (t *Table) StringOf(id Ident) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !id.IsValid() || int(id) >= len(t.byID) {
		panic("ident: invalid handle")
	}
	return t.byID[id]
}

// TryStringOf is the non-panicking variant of StringOf.
func (t *Table) TryStringOf(id Ident) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !id.IsValid() || int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}

// Len returns the number of distinct interned strings (including None).
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// Prefix composes a hierarchical identifier "a<sep>b", interning the result.
func (t *Table) Prefix(a, b Ident, sep string) Ident {
	as, bs := t.StringOf(a), t.StringOf(b)
	var sb strings.Builder
	sb.Grow(len(as) + len(sep) + len(bs))
	sb.WriteString(as)
	sb.WriteString(sep)
	sb.WriteString(bs)
	return t.Intern(sb.String())
}

// Unique returns an Ident guaranteed fresh in this table's lifetime, derived
// from base by appending a disambiguating numeric suffix.
func (t *Table) Unique(base string) Ident {
	t.mu.Lock()
	n := t.freshN[base]
	t.freshN[base] = n + 1
	t.mu.Unlock()
	for {
		candidate := base
		if n > 0 || t.exists(base) {
			candidate = base + "#" + itoa(n)
		}
		t.mu.Lock()
		if _, taken := t.index[candidate]; !taken {
			cpy := string([]byte(candidate))
			id := Ident(len(t.byID))
			t.byID = append(t.byID, cpy)
			t.index[cpy] = id
			t.mu.Unlock()
			return id
		}
		t.mu.Unlock()
		n++
	}
}

func (t *Table) exists(s string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.index[s]
	return ok
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
