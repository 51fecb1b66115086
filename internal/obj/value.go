package obj

import "nvcgo/internal/ident"

// Direction is the ascending/descending sense of a Range.
type Direction uint8

const (
	DirTo Direction = iota
	DirDownto
)

// Range is a discrete range (e.g. an array index constraint or a loop
// range), one of the array element kinds listed in §3.
type Range struct {
	Low, High int64
	Dir       Direction
}

// Parameter is a subprogram parameter descriptor, one of the array element
// kinds listed in §3.
type Parameter struct {
	Name ident.Ident
	Type Handle
}

// ArrayElemKind identifies which of the four element variants an array item
// holds; an array is homogeneous, so the kind is the same for every
// element.
type ArrayElemKind uint8

const (
	ElemObj ArrayElemKind = iota
	ElemIdent
	ElemRange
	ElemParam
)

// ArrayElem is one element of a homogeneous item array.
type ArrayElem struct {
	Obj   Handle
	Ident ident.Ident
	Rng   Range
	Param Parameter
}

// ValueKind discriminates the Value union.
type ValueKind uint8

const (
	VInt ValueKind = iota
	VInt64
	VReal
	VIdent
	VRef
	VText
	VArray
)

// Value is an item's stored contents: one of integer, 64-bit integer, real,
// identifier, object reference, text buffer, or a homogeneous array (§3).
type Value struct {
	Kind ValueKind

	I    int32
	I64  int64
	R    float64
	Id   ident.Ident
	Ref  Handle
	Text string

	ArrKind ArrayElemKind
	Arr     []ArrayElem
}

// IntValue constructs an integer item value.
func IntValue(i int32) Value { return Value{Kind: VInt, I: i} }

// Int64Value constructs a 64-bit integer item value.
func Int64Value(i int64) Value { return Value{Kind: VInt64, I64: i} }

// RealValue constructs a real item value.
func RealValue(r float64) Value { return Value{Kind: VReal, R: r} }

// IdentValue constructs an identifier item value.
func IdentValue(id ident.Ident) Value { return Value{Kind: VIdent, Id: id} }

// RefValue constructs an object-reference item value.
func RefValue(h Handle) Value { return Value{Kind: VRef, Ref: h} }

// TextValue constructs a text-buffer item value.
func TextValue(s string) Value { return Value{Kind: VText, Text: s} }

// ArrayValue constructs a homogeneous array item value.
func ArrayValue(kind ArrayElemKind, elems []ArrayElem) Value {
	return Value{Kind: VArray, ArrKind: kind, Arr: elems}
}
