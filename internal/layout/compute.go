package layout

import "nvcgo/internal/vtype"

// pointerAlign is the alignment of an EXTERNAL/OFFSET pointer part on a
// 64-bit target, and doubles as a record's overall alignment (§4.5).
const pointerAlign = 8

// bitsForRange returns the number of bits needed to represent every value
// in [lo, hi], at least 1.
func bitsForRange(lo, hi int64) int {
	span := hi - lo + 1
	if span <= 1 {
		return 1
	}
	bits := 0
	for n := span - 1; n > 0; n >>= 1 {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func (e *Engine) compute(t vtype.TypeID, signal bool, st *state) (Layout, *Error) {
	in := e.Types
	base := in.BaseType(t)
	kind := in.KindOf(base)

	var plain Layout
	var err *Error

	switch kind {
	case vtype.KindEnum:
		plain = enumLayout(in, base)
	case vtype.KindInteger, vtype.KindPhysical:
		plain = scalarLayout(in, t)
	case vtype.KindReal:
		plain = Layout{Size: 8, Align: 8, Parts: []Part{{Offset: 0, Size: 8, Repeat: 1, Align: 8, Class: ClassData}}}
	case vtype.KindUArray:
		// A subtype of an unconstrained array is reduced to its base and
		// always gets the unconstrained layout, even if it adds a range
		// constraint (§4.5, resolving the source's two divergent
		// unconstrained-subtype conventions per §9's open question in
		// favor of "reduced to its base").
		plain = unconstrainedArrayLayout(in, base)
	case vtype.KindCArray:
		plain, err = e.arrayLayout(base, st)
	case vtype.KindRecord:
		plain, err = e.recordLayout(base, st)
	case vtype.KindFile, vtype.KindAccess:
		plain = Layout{Size: pointerAlign, Align: pointerAlign, Parts: []Part{{Offset: 0, Size: pointerAlign, Repeat: 1, Align: pointerAlign, Class: ClassExternal}}}
	default:
		plain = Layout{Size: 0, Align: 1}
	}
	if err != nil {
		return Layout{Size: 0, Align: 1}, err
	}

	if !signal {
		return plain, nil
	}
	return signalLayout(plain), nil
}

func scalarLayout(in *vtype.Interner, t vtype.TypeID) Layout {
	lo, hi := int64(0), int64(0)
	if r, ok := in.Range(t); ok {
		lo, hi = r.Low, r.High
	} else if r, ok := in.Range(in.BaseType(t)); ok {
		lo, hi = r.Low, r.High
	}
	size := ceilDiv(bitsForRange(lo, hi), 8)
	if size == 0 {
		size = 1
	}
	return Layout{Size: size, Align: size, Parts: []Part{{Offset: 0, Size: size, Repeat: 1, Align: size, Class: ClassData}}}
}

func enumLayout(in *vtype.Interner, base vtype.TypeID) Layout {
	n := len(in.EnumLiterals(base))
	if n < 1 {
		n = 1
	}
	size := ceilDiv(bitsForRange(0, int64(n-1)), 8)
	if size == 0 {
		size = 1
	}
	return Layout{Size: size, Align: size, Parts: []Part{{Offset: 0, Size: size, Repeat: 1, Align: size, Class: ClassData}}}
}

func (e *Engine) arrayLayout(t vtype.TypeID, st *state) (Layout, *Error) {
	in := e.Types
	dims := in.Dims(t)
	count := 1
	for _, d := range dims {
		span := d.High - d.Low + 1
		if span < 0 {
			return Layout{}, &Error{Kind: ErrNegativeLength, Type: t, Value: span}
		}
		count *= int(span)
	}
	elem := in.ElemType(t)
	el, err := e.layoutOf(elem, false, st)
	if err != nil {
		return Layout{}, err
	}
	size := el.Size * count
	return Layout{
		Size:  size,
		Align: el.Align,
		Parts: []Part{{Offset: 0, Size: el.Size, Repeat: count, Align: el.Align, Class: ClassData}},
	}, nil
}

func unconstrainedArrayLayout(in *vtype.Interner, base vtype.TypeID) Layout {
	ndims := 1
	if n := in.NDims(base); n > 0 {
		ndims = int(n)
	}
	boundsSize := 2 * ndims * 8
	return Layout{
		Size:  pointerAlign + boundsSize,
		Align: pointerAlign,
		Parts: []Part{
			{Offset: 0, Size: pointerAlign, Repeat: 1, Align: pointerAlign, Class: ClassExternal},
			{Offset: pointerAlign, Size: 8, Repeat: 2 * ndims, Align: 8, Class: ClassBounds},
		},
	}
}

func (e *Engine) recordLayout(t vtype.TypeID, st *state) (Layout, *Error) {
	in := e.Types
	fields := in.Fields(t)
	parts := make([]Part, 0, len(fields))
	offset := 0
	maxAlign := 1
	for _, f := range fields {
		fl, err := e.layoutOf(f.Type, false, st)
		if err != nil {
			return Layout{}, err
		}
		if fl.Align > maxAlign {
			maxAlign = fl.Align
		}
		offset = alignUp(offset, fl.Align)
		parts = append(parts, Part{Offset: offset, Size: fl.Size, Repeat: 1, Align: fl.Align, Class: ClassData})
		offset += fl.Size
	}
	size := alignUp(offset, pointerAlign)
	return Layout{Size: size, Align: pointerAlign, Parts: parts}, nil
}

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	return (off + align - 1) / align * align
}

// signalLayout replaces a plain layout's DATA parts with a single EXTERNAL
// pointer, adding an 8-byte OFFSET part for the homogeneous-signal case
// (§4.5: "Signal layouts replace in-place data with an EXTERNAL pointer
// and, for homogeneous signals, add an 8-byte OFFSET part").
func signalLayout(plain Layout) Layout {
	homogeneous := len(plain.Parts) == 1 && plain.Parts[0].Class == ClassData
	parts := []Part{{Offset: 0, Size: pointerAlign, Repeat: 1, Align: pointerAlign, Class: ClassExternal}}
	size := pointerAlign
	if homogeneous {
		parts = append(parts, Part{Offset: pointerAlign, Size: 8, Repeat: 1, Align: 8, Class: ClassOffset})
		size += 8
	}
	return Layout{Size: size, Align: pointerAlign, Parts: parts}
}
