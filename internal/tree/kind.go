// Package tree implements the design-unit AST (C4): entities,
// architectures, declarations, statements and expressions, all stored as
// obj.TagTree objects so that type resolution, elaboration and the
// serializer share the same handle space as internal/vtype and
// internal/obj.
//
// Grounded on the teacher's internal/ast (Arena[T]/Get/Allocate, one Go
// type per node kind) — re-expressed here over the shared obj.Store rather
// than a generic per-kind arena, since the spec calls for one universal
// object model (§3) shared across C2-C4.
package tree

import "nvcgo/internal/obj"

// Kind enumerates the node kinds of the design-unit AST.
type Kind = obj.Kind

const (
	KindNone Kind = iota
	KindEntity
	KindArchitecture
	KindPort
	KindGeneric
	KindSignalDecl
	KindVariableDecl
	KindConstantDecl
	KindProcess
	KindInstance

	// statements
	KindSignalAssign
	KindVariableAssign
	KindWait
	KindAssert
	KindIf
	KindLoop
	KindExitStmt
	KindNullStmt
	KindBlock

	// expressions
	KindLiteral
	KindNameRef
	KindBinOp
	KindUnOp
	KindCall
	KindAggregate
	KindSelected
	KindIndexed
	KindSlice
	KindQualified
)

// Slots used across the tree schemas.
const (
	SlotName     = obj.SlotIdent  // declared/referenced identifier
	SlotType     = obj.SlotRef    // resolved type handle
	SlotSub      = obj.SlotRef2   // sole child expression/statement/decl
	SlotItems    = obj.SlotArray  // heterogeneous child list (decls, stmts, params)
	SlotItems2   = obj.SlotArray2 // secondary child list (statements, else branch, generics, timeout, rhs)
	SlotOp       = obj.SlotInt    // operator / statement sub-kind tag
	SlotInt64    = obj.SlotInt64  // integer literal value
	SlotReal     = obj.SlotReal   // real literal value
	SlotText     = obj.SlotText   // string/character literal text
)

// Registry declares the obj.Schema for every node kind. Built once, shared
// by every session's Builder.
func Registry() *obj.Registry {
	r := obj.NewRegistry()

	declare := func(k Kind, name string, slots obj.SlotMask, order []obj.Slot) {
		r.Declare(obj.TagTree, k, obj.Schema{Name: name, Slots: slots, VisitOrder: order})
	}

	declare(KindNone, "none", 0, nil)
	declare(KindEntity, "entity", obj.Mask(SlotName, SlotItems, SlotItems2),
		[]obj.Slot{SlotName, SlotItems, SlotItems2}) // Items=ports, Items2=generics
	declare(KindArchitecture, "architecture", obj.Mask(SlotName, SlotType, SlotItems, SlotItems2),
		[]obj.Slot{SlotName, SlotType, SlotItems, SlotItems2}) // Type=entity ref, Items=decls, Items2=stmts
	declare(KindPort, "port", obj.Mask(SlotName, SlotType, SlotOp),
		[]obj.Slot{SlotName, SlotType, SlotOp}) // Op=mode (in/out/inout/buffer)
	declare(KindGeneric, "generic", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub}) // Sub=default expr
	declare(KindSignalDecl, "signal_decl", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub}) // Sub=init expr
	declare(KindVariableDecl, "variable_decl", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub})
	declare(KindConstantDecl, "constant_decl", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub})
	declare(KindProcess, "process", obj.Mask(SlotName, SlotItems, SlotItems2),
		[]obj.Slot{SlotName, SlotItems, SlotItems2}) // Items=sensitivity list, Items2=statements
	declare(KindInstance, "instance", obj.Mask(SlotName, SlotType, SlotItems),
		[]obj.Slot{SlotName, SlotType, SlotItems}) // Type=component/entity ref, Items=port maps (ElemParam)

	declare(KindSignalAssign, "signal_assign", obj.Mask(SlotSub, SlotItems),
		[]obj.Slot{SlotSub, SlotItems}) // Sub=target, Items=waveform (value,after) pairs via ElemParam
	declare(KindVariableAssign, "variable_assign", obj.Mask(SlotSub, SlotItems2),
		[]obj.Slot{SlotSub, SlotItems2}) // Sub=target, Items2[0]=value
	declare(KindWait, "wait", obj.Mask(SlotItems, SlotItems2, SlotSub, SlotOp),
		[]obj.Slot{SlotItems, SlotItems2, SlotSub, SlotOp}) // Items=sensitivity, Sub=until condition, Items2=[timeout], Op=timeout-present marker
	declare(KindAssert, "assert", obj.Mask(SlotSub, SlotItems, SlotOp),
		[]obj.Slot{SlotSub, SlotItems, SlotOp}) // Sub=condition, Items[0]=report expr, Op=severity
	declare(KindIf, "if", obj.Mask(SlotSub, SlotItems, SlotItems2),
		[]obj.Slot{SlotSub, SlotItems, SlotItems2}) // Sub=condition, Items=then stmts, Items2=else stmts
	declare(KindLoop, "loop", obj.Mask(SlotName, SlotSub, SlotItems),
		[]obj.Slot{SlotName, SlotSub, SlotItems}) // Name=loop label, Sub=iteration scheme, Items=body
	declare(KindExitStmt, "exit", obj.Mask(SlotName, SlotSub),
		[]obj.Slot{SlotName, SlotSub})
	declare(KindNullStmt, "null", 0, nil)
	declare(KindBlock, "block", obj.Mask(SlotName, SlotItems, SlotItems2),
		[]obj.Slot{SlotName, SlotItems, SlotItems2})

	declare(KindLiteral, "literal", obj.Mask(SlotType, SlotOp, SlotInt64, SlotReal, SlotText),
		[]obj.Slot{SlotType, SlotOp, SlotInt64, SlotReal, SlotText})
	declare(KindNameRef, "name_ref", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub}) // Sub=resolved declaration handle, stashed as SlotSub ref
	declare(KindBinOp, "binop", obj.Mask(SlotOp, SlotType, SlotSub, SlotItems2),
		[]obj.Slot{SlotOp, SlotType, SlotSub, SlotItems2}) // Sub=lhs, Items2[0]=rhs
	declare(KindUnOp, "unop", obj.Mask(SlotOp, SlotType, SlotSub),
		[]obj.Slot{SlotOp, SlotType, SlotSub})
	declare(KindCall, "call", obj.Mask(SlotName, SlotType, SlotItems),
		[]obj.Slot{SlotName, SlotType, SlotItems}) // Items=actual params
	declare(KindAggregate, "aggregate", obj.Mask(SlotType, SlotItems),
		[]obj.Slot{SlotType, SlotItems})
	declare(KindSelected, "selected", obj.Mask(SlotName, SlotType, SlotSub),
		[]obj.Slot{SlotName, SlotType, SlotSub}) // Sub=prefix expr
	declare(KindIndexed, "indexed", obj.Mask(SlotType, SlotSub, SlotItems),
		[]obj.Slot{SlotType, SlotSub, SlotItems}) // Sub=prefix, Items=index exprs
	declare(KindSlice, "slice", obj.Mask(SlotType, SlotSub, SlotItems),
		[]obj.Slot{SlotType, SlotSub, SlotItems}) // Items[0].Rng = range
	declare(KindQualified, "qualified", obj.Mask(SlotType, SlotSub),
		[]obj.Slot{SlotType, SlotSub})

	return r
}
