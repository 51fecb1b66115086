package vtype

// Eq is the strict equality of §4.3: same kind, same identifier when both
// have one, and recursive equality of structural items.
func (in *Interner) Eq(a, b TypeID) bool {
	return in.eq(a, b, make(map[[2]TypeID]bool))
}

func (in *Interner) eq(a, b TypeID, seen map[[2]TypeID]bool) bool {
	if a == b {
		return true
	}
	if !a.IsValid() || !b.IsValid() {
		return false
	}
	key := [2]TypeID{a, b}
	if seen[key] {
		return true // recursive record/array already being compared
	}
	seen[key] = true

	ka, kb := in.KindOf(a), in.KindOf(b)
	if ka != kb {
		return false
	}

	na, aok := in.NameOf(a)
	nb, bok := in.NameOf(b)
	if aok != bok {
		return false
	}
	if aok && na != nb {
		return false
	}

	switch ka {
	case KindNone, KindIncomplete:
		return true
	case KindInteger, KindPhysical:
		ra, _ := in.Range(a)
		rb, _ := in.Range(b)
		return ra == rb
	case KindReal:
		ra, _ := in.Range(a)
		rb, _ := in.Range(b)
		return ra == rb
	case KindEnum:
		la, lb := in.EnumLiterals(a), in.EnumLiterals(b)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	case KindSubtype:
		if !in.eq(in.Base(a), in.Base(b), seen) {
			return false
		}
		ra, aHas := in.Range(a)
		rb, bHas := in.Range(b)
		return aHas == bHas && (!aHas || ra == rb)
	case KindCArray:
		if !in.eq(in.ElemType(a), in.ElemType(b), seen) {
			return false
		}
		da, db := in.Dims(a), in.Dims(b)
		if len(da) != len(db) {
			return false
		}
		for i := range da {
			if da[i] != db[i] {
				return false
			}
		}
		return true
	case KindUArray:
		return in.eq(in.ElemType(a), in.ElemType(b), seen) && in.NDims(a) == in.NDims(b)
	case KindRecord:
		fa, fb := in.Fields(a), in.Fields(b)
		if len(fa) != len(fb) {
			return false
		}
		for i := range fa {
			if fa[i].Name != fb[i].Name || !in.eq(fa[i].Type, fb[i].Type, seen) {
				return false
			}
		}
		return true
	case KindFile, KindAccess:
		return in.eq(in.Base(a), in.Base(b), seen)
	case KindFunc:
		if !in.eq(in.Result(a), in.Result(b), seen) {
			return false
		}
		fallthrough
	case KindProc:
		pa, pb := in.Params(a), in.Params(b)
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if !in.eq(pa[i].Type, pb[i].Type, seen) {
				return false
			}
		}
		return true
	case KindProtected:
		return true
	default:
		return false
	}
}

// LiberalEq is the liberal equality of §4.3: walks through subtype chains to
// the base on both sides; treats a constrained and an unconstrained array
// pair as equal iff their element types are equal; treats INCOMPLETE as
// equal to any completing kind; otherwise defers to Eq.
func (in *Interner) LiberalEq(a, b TypeID) bool {
	ba, bb := in.BaseType(a), in.BaseType(b)

	ka, kb := in.KindOf(ba), in.KindOf(bb)
	if ka == KindIncomplete || kb == KindIncomplete {
		return true
	}

	isArr := func(k Kind) bool { return k == KindCArray || k == KindUArray }
	if isArr(ka) && isArr(kb) {
		return in.eq(in.ElemType(ba), in.ElemType(bb), make(map[[2]TypeID]bool))
	}

	return in.Eq(ba, bb)
}

// Convertible reports whether a value of type from may be implicitly
// converted to type to: universal types coerce freely to any non-universal
// type of matching class (§4.3), and any type converts to itself under
// liberal equality.
func (in *Interner) Convertible(from, to TypeID) bool {
	if in.LiberalEq(from, to) {
		return true
	}
	bf, bt := in.BaseType(from), in.BaseType(to)
	kf, kt := in.KindOf(bf), in.KindOf(bt)
	if in.IsUniversal(bf) {
		switch kf {
		case KindInteger:
			return kt == KindInteger || kt == KindPhysical
		case KindReal:
			return kt == KindReal
		}
	}
	return false
}

// IsUniversal reports whether t is one of the predefined universal_integer /
// universal_real types, recognised by their declared name.
func (in *Interner) IsUniversal(t TypeID) bool {
	name, has := in.NameOf(t)
	if !has {
		return false
	}
	s, ok := in.Idc.TryStringOf(name)
	return ok && (s == "universal_integer" || s == "universal_real")
}
