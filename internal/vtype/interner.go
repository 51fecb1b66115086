package vtype

import (
	"math"

	"nvcgo/internal/ident"
	"nvcgo/internal/loc"
	"nvcgo/internal/obj"
)

// TypeID is a handle to a type Object.
type TypeID = obj.Handle

// Range is a discrete range, re-exported for callers that only need the
// type system and should not import obj directly.
type Range = obj.Range

// NoType is the absence of a type.
var NoType = obj.Nil

// Interner owns the object store and identifier table backing every type
// created during a compilation session.
type Interner struct {
	Store *obj.Store
	Idc   *ident.Table
}

// NewInterner creates an Interner with a fresh type-schema store.
func NewInterner(idc *ident.Table) *Interner {
	return &Interner{Store: obj.NewStore(Registry()), Idc: idc}
}

func (in *Interner) new(kind Kind) TypeID {
	return in.Store.New(obj.TagType, kind, loc.Nowhere)
}

// KindOf returns the Kind of t, or KindNone if invalid.
func (in *Interner) KindOf(t TypeID) Kind {
	o, ok := in.Store.Get(t)
	if !ok {
		return KindNone
	}
	return o.Kind
}

// NameOf returns the declared identifier of t, if any.
func (in *Interner) NameOf(t TypeID) (ident.Ident, bool) {
	v, ok := in.Store.GetItem(t, SlotName)
	if !ok {
		return ident.None, false
	}
	return v.Id, true
}

// SetName sets t's declared identifier.
func (in *Interner) SetName(t TypeID, name ident.Ident) {
	in.Store.SetItem(t, SlotName, obj.IdentValue(name))
}

// --- constructors ---

// NewIncomplete creates a placeholder INCOMPLETE type, later completed via
// Complete* below (a Retag along the declared allow-list).
func (in *Interner) NewIncomplete(name ident.Ident) TypeID {
	t := in.new(KindIncomplete)
	in.SetName(t, name)
	return t
}

// NewInteger creates an INTEGER type with the given range.
func (in *Interner) NewInteger(name ident.Ident, low, high int64) TypeID {
	t := in.new(KindInteger)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemRange, []obj.ArrayElem{{Rng: obj.Range{Low: low, High: high}}}))
	return t
}

// NewReal creates a REAL type. Bounds are stored as bit patterns of the
// float64 range endpoints, reusing the discrete Range item.
func (in *Interner) NewReal(name ident.Ident, low, high float64) TypeID {
	t := in.new(KindReal)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemRange, []obj.ArrayElem{{Rng: obj.Range{Low: int64(math.Float64bits(low)), High: int64(math.Float64bits(high))}}}))
	return t
}

// NewEnum creates an ENUM type whose literals are the given idents, in
// declaration order (ordinal = index).
func (in *Interner) NewEnum(name ident.Ident, literals []ident.Ident) TypeID {
	t := in.new(KindEnum)
	in.SetName(t, name)
	elems := make([]obj.ArrayElem, len(literals))
	for i, l := range literals {
		elems[i] = obj.ArrayElem{Ident: l}
	}
	in.Store.SetItem(t, SlotAux, obj.ArrayValue(obj.ElemIdent, elems))
	return t
}

// EnumLiterals returns the literal idents of an ENUM type in ordinal order.
func (in *Interner) EnumLiterals(t TypeID) []ident.Ident {
	v, ok := in.Store.GetItem(t, SlotAux)
	if !ok {
		return nil
	}
	out := make([]ident.Ident, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = e.Ident
	}
	return out
}

// NewPhysical creates a PHYSICAL type (e.g. TIME) with a base range and a
// primary unit name.
func (in *Interner) NewPhysical(name ident.Ident, low, high int64, primaryUnit ident.Ident) TypeID {
	t := in.new(KindPhysical)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemRange, []obj.ArrayElem{{Rng: obj.Range{Low: low, High: high}}}))
	in.Store.SetItem(t, SlotAux, obj.ArrayValue(obj.ElemIdent, []obj.ArrayElem{{Ident: primaryUnit}}))
	return t
}

// NewConstrainedArray creates a CARRAY type over elem with the given index
// ranges (one per dimension).
func (in *Interner) NewConstrainedArray(name ident.Ident, elem TypeID, dims []obj.Range) TypeID {
	t := in.new(KindCArray)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotBase, obj.RefValue(elem))
	elems := make([]obj.ArrayElem, len(dims))
	for i, d := range dims {
		elems[i] = obj.ArrayElem{Rng: d}
	}
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemRange, elems))
	return t
}

// NewUnconstrainedArray creates a UARRAY type over elem with ndims index
// dimensions left open.
func (in *Interner) NewUnconstrainedArray(name ident.Ident, elem TypeID, ndims int32) TypeID {
	t := in.new(KindUArray)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotBase, obj.RefValue(elem))
	in.Store.SetItem(t, SlotDims, obj.IntValue(ndims))
	return t
}

// RecordField names one field of a record type.
type RecordField struct {
	Name ident.Ident
	Type TypeID
}

// NewRecord creates a RECORD type with the given fields, in declaration
// order.
func (in *Interner) NewRecord(name ident.Ident, fields []RecordField) TypeID {
	t := in.new(KindRecord)
	in.SetName(t, name)
	elems := make([]obj.ArrayElem, len(fields))
	for i, f := range fields {
		elems[i] = obj.ArrayElem{Param: obj.Parameter{Name: f.Name, Type: f.Type}}
	}
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemParam, elems))
	return t
}

// Fields returns the fields of a RECORD type, in declaration order.
func (in *Interner) Fields(t TypeID) []RecordField {
	v, ok := in.Store.GetItem(t, SlotRange)
	if !ok {
		return nil
	}
	out := make([]RecordField, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = RecordField{Name: e.Param.Name, Type: e.Param.Type}
	}
	return out
}

// NewFile creates a FILE type over the designated type.
func (in *Interner) NewFile(name ident.Ident, designated TypeID) TypeID {
	t := in.new(KindFile)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotBase, obj.RefValue(designated))
	return t
}

// NewAccess creates an ACCESS type over the designated type.
func (in *Interner) NewAccess(name ident.Ident, designated TypeID) TypeID {
	t := in.new(KindAccess)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotBase, obj.RefValue(designated))
	return t
}

// Param names one subprogram formal parameter.
type Param struct {
	Name ident.Ident
	Type TypeID
}

// NewFunc creates a FUNC type with the given formal parameters and result
// type.
func (in *Interner) NewFunc(name ident.Ident, params []Param, result TypeID) TypeID {
	t := in.new(KindFunc)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotResolution, obj.RefValue(result))
	elems := make([]obj.ArrayElem, len(params))
	for i, p := range params {
		elems[i] = obj.ArrayElem{Param: obj.Parameter{Name: p.Name, Type: p.Type}}
	}
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemParam, elems))
	return t
}

// NewProc creates a PROC type with the given formal parameters.
func (in *Interner) NewProc(name ident.Ident, params []Param) TypeID {
	t := in.new(KindProc)
	in.SetName(t, name)
	elems := make([]obj.ArrayElem, len(params))
	for i, p := range params {
		elems[i] = obj.ArrayElem{Param: obj.Parameter{Name: p.Name, Type: p.Type}}
	}
	in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemParam, elems))
	return t
}

// Params returns the formal parameters of a FUNC or PROC type.
func (in *Interner) Params(t TypeID) []Param {
	v, ok := in.Store.GetItem(t, SlotRange)
	if !ok {
		return nil
	}
	out := make([]Param, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = Param{Name: e.Param.Name, Type: e.Param.Type}
	}
	return out
}

// Result returns the result type of a FUNC type.
func (in *Interner) Result(t TypeID) TypeID {
	v, ok := in.Store.GetItem(t, SlotResolution)
	if !ok {
		return NoType
	}
	return v.Ref
}

// NewSubtype creates a SUBTYPE over base with an optional range constraint
// and resolution function.
func (in *Interner) NewSubtype(name ident.Ident, base TypeID, constraint obj.Range, hasConstraint bool, resolution TypeID) TypeID {
	t := in.new(KindSubtype)
	in.SetName(t, name)
	in.Store.SetItem(t, SlotBase, obj.RefValue(base))
	if resolution.IsValid() {
		in.Store.SetItem(t, SlotResolution, obj.RefValue(resolution))
	}
	if hasConstraint {
		in.Store.SetItem(t, SlotRange, obj.ArrayValue(obj.ElemRange, []obj.ArrayElem{{Rng: constraint}}))
	}
	return t
}

// Base returns t's base type. For a SUBTYPE this is the immediate parent;
// for CARRAY/UARRAY/FILE/ACCESS it is the element/designated type; for any
// other kind it is t itself.
func (in *Interner) Base(t TypeID) TypeID {
	switch in.KindOf(t) {
	case KindSubtype, KindCArray, KindUArray, KindFile, KindAccess:
		v, ok := in.Store.GetItem(t, SlotBase)
		if !ok {
			return t
		}
		return v.Ref
	default:
		return t
	}
}

// BaseType follows the subtype chain to the first non-subtype kind (§3:
// "a subtype's base eventually leads to a non-subtype").
func (in *Interner) BaseType(t TypeID) TypeID {
	seen := map[TypeID]bool{}
	for in.KindOf(t) == KindSubtype {
		if seen[t] {
			break // malformed cyclic subtype chain; avoid looping forever
		}
		seen[t] = true
		t = in.Base(t)
	}
	return t
}

// ElemType returns the element type of an array type, following subtypes
// to their base first.
func (in *Interner) ElemType(t TypeID) TypeID {
	b := in.BaseType(t)
	if k := in.KindOf(b); k == KindCArray || k == KindUArray {
		v, _ := in.Store.GetItem(b, SlotBase)
		return v.Ref
	}
	return NoType
}

// Range returns the scalar range of an INTEGER/PHYSICAL type, or the sole
// constraint dimension of a constrained SUBTYPE.
func (in *Interner) Range(t TypeID) (obj.Range, bool) {
	v, ok := in.Store.GetItem(t, SlotRange)
	if !ok || len(v.Arr) == 0 {
		return obj.Range{}, false
	}
	return v.Arr[0].Rng, true
}

// Dims returns the index ranges of a CARRAY type.
func (in *Interner) Dims(t TypeID) []obj.Range {
	v, ok := in.Store.GetItem(t, SlotRange)
	if !ok {
		return nil
	}
	out := make([]obj.Range, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = e.Rng
	}
	return out
}

// NDims returns the dimensionality of a UARRAY type.
func (in *Interner) NDims(t TypeID) int32 {
	v, ok := in.Store.GetItem(t, SlotDims)
	if !ok {
		return 0
	}
	return v.I
}
