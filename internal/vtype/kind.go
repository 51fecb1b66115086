// Package vtype implements the VHDL type system (C3): subtypes, scalar and
// composite kinds, base/elem/index relations, strict and liberal equality,
// convertibility, and the value-parsing boundary behaviors of §8.
//
// Types are Objects (obj.TagType) — a specialization per §3 — so they share
// arena allocation, serialization and GC with trees and IR units.
package vtype

import "nvcgo/internal/obj"

// Kind enumerates the type kinds of §3.
type Kind = obj.Kind

const (
	KindNone Kind = iota
	KindIncomplete
	KindSubtype
	KindInteger
	KindReal
	KindEnum
	KindPhysical
	KindCArray // constrained array
	KindUArray // unconstrained array
	KindRecord
	KindFile
	KindAccess
	KindFunc
	KindProc
	KindProtected
)

// Slots used by the type schemas, named for readability at call sites.
const (
	SlotName       = obj.SlotIdent  // declared identifier
	SlotBase       = obj.SlotRef    // subtype base / array element / file-access designated type
	SlotResolution = obj.SlotRef2   // subtype resolution function / func result type
	SlotRange      = obj.SlotArray  // scalar range, or record fields, or array dims, or params
	SlotAux        = obj.SlotArray2 // enum literals, extra dims
	SlotDims       = obj.SlotInt    // unconstrained array dimensionality
)

// Registry builds the obj.Registry declaring every type schema. It is built
// once and shared by every Interner.
func Registry() *obj.Registry {
	r := obj.NewRegistry()

	r.Declare(obj.TagType, KindNone, obj.Schema{
		Name: "none",
	})
	r.Declare(obj.TagType, KindIncomplete, obj.Schema{
		Name:       "incomplete",
		Slots:      obj.Mask(SlotName),
		VisitOrder: []obj.Slot{SlotName},
	})
	r.Declare(obj.TagType, KindSubtype, obj.Schema{
		Name:       "subtype",
		Slots:      obj.Mask(SlotName, SlotBase, SlotResolution, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotBase, SlotResolution, SlotRange},
	})
	r.Declare(obj.TagType, KindInteger, obj.Schema{
		Name:       "integer",
		Slots:      obj.Mask(SlotName, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotRange},
	})
	r.Declare(obj.TagType, KindReal, obj.Schema{
		Name:       "real",
		Slots:      obj.Mask(SlotName, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotRange},
	})
	r.Declare(obj.TagType, KindEnum, obj.Schema{
		Name:       "enum",
		Slots:      obj.Mask(SlotName, SlotAux),
		VisitOrder: []obj.Slot{SlotName, SlotAux},
	})
	r.Declare(obj.TagType, KindPhysical, obj.Schema{
		Name:       "physical",
		Slots:      obj.Mask(SlotName, SlotRange, SlotAux),
		VisitOrder: []obj.Slot{SlotName, SlotRange, SlotAux},
	})
	r.Declare(obj.TagType, KindCArray, obj.Schema{
		Name:       "carray",
		Slots:      obj.Mask(SlotName, SlotBase, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotBase, SlotRange},
	})
	r.Declare(obj.TagType, KindUArray, obj.Schema{
		Name:       "uarray",
		Slots:      obj.Mask(SlotName, SlotBase, SlotDims),
		VisitOrder: []obj.Slot{SlotName, SlotBase, SlotDims},
	})
	r.Declare(obj.TagType, KindRecord, obj.Schema{
		Name:       "record",
		Slots:      obj.Mask(SlotName, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotRange},
	})
	r.Declare(obj.TagType, KindFile, obj.Schema{
		Name:       "file",
		Slots:      obj.Mask(SlotName, SlotBase),
		VisitOrder: []obj.Slot{SlotName, SlotBase},
	})
	r.Declare(obj.TagType, KindAccess, obj.Schema{
		Name:       "access",
		Slots:      obj.Mask(SlotName, SlotBase),
		VisitOrder: []obj.Slot{SlotName, SlotBase},
	})
	r.Declare(obj.TagType, KindFunc, obj.Schema{
		Name:       "func",
		Slots:      obj.Mask(SlotName, SlotResolution, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotResolution, SlotRange},
	})
	r.Declare(obj.TagType, KindProc, obj.Schema{
		Name:       "proc",
		Slots:      obj.Mask(SlotName, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotRange},
	})
	r.Declare(obj.TagType, KindProtected, obj.Schema{
		Name:       "protected",
		Slots:      obj.Mask(SlotName, SlotRange),
		VisitOrder: []obj.Slot{SlotName, SlotRange},
	})

	// INCOMPLETE -> any completing kind (§4.1 example transition list).
	for _, k := range []Kind{KindInteger, KindReal, KindEnum, KindPhysical, KindCArray, KindUArray, KindRecord, KindFile, KindAccess, KindProtected} {
		r.AllowTransition(obj.TagType, KindIncomplete, k)
	}

	return r
}
