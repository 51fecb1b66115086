// Package session bundles the identifier interner, file table,
// diagnostics, active language revision and search paths into one
// explicit value. The library, elab, kernel and shell entry points do not
// take a Session; they take the individual pieces they use (for example an
// *ident.Table) as explicit arguments.
package session

import (
	"nvcgo/internal/diag"
	"nvcgo/internal/ident"
	"nvcgo/internal/loc"
)

// Std is the VHDL language revision selected by --std.
type Std uint8

const (
	Std1993 Std = iota
	Std2002
	Std2008
	Std2019
)

func (s Std) String() string {
	switch s {
	case Std1993:
		return "1993"
	case Std2002:
		return "2002"
	case Std2008:
		return "2008"
	case Std2019:
		return "2019"
	default:
		return "unknown"
	}
}

// Session carries the state every phase of the pipeline needs. New gives
// each Session its own identifier interner rather than a shared singleton.
type Session struct {
	Idents  *ident.Table
	Files   *loc.FileTable
	Diags   *diag.Bag
	Std     Std
	WorkDir string
	Paths   []string // library search path
}

// New creates a Session with fresh interner, file table and diagnostic bag.
func New(std Std) *Session {
	return &Session{
		Idents: ident.NewTable(),
		Files:  loc.NewFileTable(),
		Diags:  diag.NewBag(100),
		Std:    std,
	}
}
