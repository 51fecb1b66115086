package tree

import (
	"nvcgo/internal/ident"
	"nvcgo/internal/loc"
	"nvcgo/internal/obj"
)

// NodeID is a handle to a tree node.
type NodeID = obj.Handle

// NoNode is the absence of a node.
var NoNode = obj.Nil

// Mode is a port direction.
type Mode int32

const (
	ModeIn Mode = iota
	ModeOut
	ModeInout
	ModeBuffer
)

// BinOp identifies a binary operator.
type BinOp int32

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpRem
	OpExp
	OpConcat
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpXor
	OpNand
	OpNor
	OpXnor
)

// UnOp identifies a unary operator.
type UnOp int32

const (
	OpNeg UnOp = iota
	OpPos
	OpNot
	OpAbs
)

// Builder owns the object store backing a design unit's AST.
type Builder struct {
	Store *obj.Store
	Idc   *ident.Table
}

// NewBuilder creates a Builder with a fresh tree-schema store.
func NewBuilder(idc *ident.Table) *Builder {
	return &Builder{Store: obj.NewStore(Registry()), Idc: idc}
}

func (b *Builder) new(k Kind, at loc.Loc) NodeID {
	return b.Store.New(obj.TagTree, k, at)
}

// KindOf returns the Kind of n, or KindNone if invalid.
func (b *Builder) KindOf(n NodeID) Kind {
	o, ok := b.Store.Get(n)
	if !ok {
		return KindNone
	}
	return o.Kind
}

// Name returns the declared/referenced identifier of n.
func (b *Builder) Name(n NodeID) (ident.Ident, bool) {
	v, ok := b.Store.GetItem(n, SlotName)
	if !ok {
		return ident.None, false
	}
	return v.Id, true
}

// NewEntity creates an entity node with the given ports and generics.
func (b *Builder) NewEntity(at loc.Loc, name ident.Ident, ports, generics []NodeID) NodeID {
	n := b.new(KindEntity, at)
	b.Store.SetItem(n, SlotName, obj.IdentValue(name))
	b.Store.SetItem(n, SlotItems, refArray(ports))
	b.Store.SetItem(n, SlotItems2, refArray(generics))
	return n
}

// NewArchitecture creates an architecture node bound to an entity.
func (b *Builder) NewArchitecture(at loc.Loc, name ident.Ident, entity NodeID, decls, stmts []NodeID) NodeID {
	n := b.new(KindArchitecture, at)
	b.Store.SetItem(n, SlotName, obj.IdentValue(name))
	b.Store.SetItem(n, SlotType, obj.RefValue(entity))
	b.Store.SetItem(n, SlotItems, refArray(decls))
	b.Store.SetItem(n, SlotItems2, refArray(stmts))
	return n
}

// NewPort creates a port declaration.
func (b *Builder) NewPort(at loc.Loc, name ident.Ident, typ obj.Handle, mode Mode) NodeID {
	n := b.new(KindPort, at)
	b.Store.SetItem(n, SlotName, obj.IdentValue(name))
	b.Store.SetItem(n, SlotType, obj.RefValue(typ))
	b.Store.SetItem(n, SlotOp, obj.IntValue(int32(mode)))
	return n
}

// NewSignalDecl creates a signal declaration with an optional init
// expression (NoNode if absent).
func (b *Builder) NewSignalDecl(at loc.Loc, name ident.Ident, typ obj.Handle, init NodeID) NodeID {
	n := b.new(KindSignalDecl, at)
	b.Store.SetItem(n, SlotName, obj.IdentValue(name))
	b.Store.SetItem(n, SlotType, obj.RefValue(typ))
	if init.IsValid() {
		b.Store.SetItem(n, SlotSub, obj.RefValue(init))
	}
	return n
}

// NewProcess creates a process statement with an explicit sensitivity list
// (empty for a `process` with only wait statements) and body statements.
func (b *Builder) NewProcess(at loc.Loc, label ident.Ident, sensitivity, stmts []NodeID) NodeID {
	n := b.new(KindProcess, at)
	if label.IsValid() {
		b.Store.SetItem(n, SlotName, obj.IdentValue(label))
	}
	b.Store.SetItem(n, SlotItems, refArray(sensitivity))
	b.Store.SetItem(n, SlotItems2, refArray(stmts))
	return n
}

// WaveElem is one element of a signal assignment's waveform.
type WaveElem struct {
	Value NodeID
	After NodeID // NoNode if no "after" clause
}

// NewSignalAssign creates a signal assignment statement.
func (b *Builder) NewSignalAssign(at loc.Loc, target NodeID, waveform []WaveElem) NodeID {
	n := b.new(KindSignalAssign, at)
	b.Store.SetItem(n, SlotSub, obj.RefValue(target))
	elems := make([]obj.ArrayElem, len(waveform))
	for i, w := range waveform {
		elems[i] = obj.ArrayElem{Param: obj.Parameter{Type: w.Value}, Obj: w.After}
	}
	b.Store.SetItem(n, SlotItems, obj.ArrayValue(obj.ElemParam, elems))
	return n
}

// NewWait creates a wait statement: sensitivity (on), condition (until,
// NoNode if absent), timeout (for, NoNode if absent).
func (b *Builder) NewWait(at loc.Loc, sensitivity []NodeID, until, timeout NodeID) NodeID {
	n := b.new(KindWait, at)
	b.Store.SetItem(n, SlotItems, refArray(sensitivity))
	if until.IsValid() {
		b.Store.SetItem(n, SlotSub, obj.RefValue(until))
	}
	if timeout.IsValid() {
		b.Store.SetItem(n, SlotOp, obj.IntValue(0))
		b.Store.SetItem(n, SlotItems2, refArray([]NodeID{timeout}))
	}
	return n
}

// Severity mirrors VHDL's assertion severity levels.
type Severity int32

const (
	SevNote Severity = iota
	SevWarning
	SevError
	SevFailure
)

// NewAssert creates an assert statement.
func (b *Builder) NewAssert(at loc.Loc, cond NodeID, report NodeID, sev Severity) NodeID {
	n := b.new(KindAssert, at)
	b.Store.SetItem(n, SlotSub, obj.RefValue(cond))
	if report.IsValid() {
		b.Store.SetItem(n, SlotItems, refArray([]NodeID{report}))
	}
	b.Store.SetItem(n, SlotOp, obj.IntValue(int32(sev)))
	return n
}

// NewIf creates an if statement.
func (b *Builder) NewIf(at loc.Loc, cond NodeID, then, els []NodeID) NodeID {
	n := b.new(KindIf, at)
	b.Store.SetItem(n, SlotSub, obj.RefValue(cond))
	b.Store.SetItem(n, SlotItems, refArray(then))
	b.Store.SetItem(n, SlotItems2, refArray(els))
	return n
}

// NewLiteral creates a literal expression. Exactly one of i64/r/text is
// meaningful, selected by kind via SlotOp (0=int,1=real,2=text/enum).
func (b *Builder) NewLiteral(at loc.Loc, typ obj.Handle, kind int32, i64 int64, r float64, text string) NodeID {
	n := b.new(KindLiteral, at)
	b.Store.SetItem(n, SlotType, obj.RefValue(typ))
	b.Store.SetItem(n, SlotOp, obj.IntValue(kind))
	b.Store.SetItem(n, SlotInt64, obj.Int64Value(i64))
	b.Store.SetItem(n, SlotReal, obj.RealValue(r))
	b.Store.SetItem(n, SlotText, obj.TextValue(text))
	return n
}

// NewNameRef creates a name reference expression, resolved is the declared
// object's handle (NoNode before name resolution).
func (b *Builder) NewNameRef(at loc.Loc, name ident.Ident, resolved NodeID) NodeID {
	n := b.new(KindNameRef, at)
	b.Store.SetItem(n, SlotName, obj.IdentValue(name))
	if resolved.IsValid() {
		b.Store.SetItem(n, SlotSub, obj.RefValue(resolved))
	}
	return n
}

// NewBinOp creates a binary-operator expression.
func (b *Builder) NewBinOp(at loc.Loc, op BinOp, lhs, rhs NodeID) NodeID {
	n := b.new(KindBinOp, at)
	b.Store.SetItem(n, SlotOp, obj.IntValue(int32(op)))
	b.Store.SetItem(n, SlotSub, obj.RefValue(lhs))
	b.Store.SetItem(n, SlotItems2, refArray([]NodeID{rhs}))
	return n
}

// NewUnOp creates a unary-operator expression.
func (b *Builder) NewUnOp(at loc.Loc, op UnOp, operand NodeID) NodeID {
	n := b.new(KindUnOp, at)
	b.Store.SetItem(n, SlotOp, obj.IntValue(int32(op)))
	b.Store.SetItem(n, SlotSub, obj.RefValue(operand))
	return n
}

func refArray(ns []NodeID) obj.Value {
	elems := make([]obj.ArrayElem, len(ns))
	for i, n := range ns {
		elems[i] = obj.ArrayElem{Obj: n}
	}
	return obj.ArrayValue(obj.ElemObj, elems)
}

func refList(v obj.Value, ok bool) []NodeID {
	if !ok {
		return nil
	}
	out := make([]NodeID, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = e.Obj
	}
	return out
}

// Ports returns an entity's ports.
func (b *Builder) Ports(entity NodeID) []NodeID {
	v, ok := b.Store.GetItem(entity, SlotItems)
	return refList(v, ok)
}

// Decls returns an architecture's declarative-part items.
func (b *Builder) Decls(arch NodeID) []NodeID {
	v, ok := b.Store.GetItem(arch, SlotItems)
	return refList(v, ok)
}

// Statements returns an architecture's or process's concurrent/sequential
// statements.
func (b *Builder) Statements(n NodeID) []NodeID {
	v, ok := b.Store.GetItem(n, SlotItems2)
	return refList(v, ok)
}

// TypeOf returns the resolved type handle attached to an expression or
// declaration node.
func (b *Builder) TypeOf(n NodeID) obj.Handle {
	v, ok := b.Store.GetItem(n, SlotType)
	if !ok {
		return obj.Nil
	}
	return v.Ref
}

// Sub returns a node's sole child (condition, target, operand, prefix...).
func (b *Builder) Sub(n NodeID) NodeID {
	v, ok := b.Store.GetItem(n, SlotSub)
	if !ok {
		return NoNode
	}
	return v.Ref
}
