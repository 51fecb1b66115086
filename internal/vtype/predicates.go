package vtype

// Each predicate follows the base through subtypes before classifying, per
// §4.3 ("Each follows the base through subtypes").

// IsArray reports whether t is, or is a subtype of, an array type.
func (in *Interner) IsArray(t TypeID) bool {
	switch in.KindOf(in.BaseType(t)) {
	case KindCArray, KindUArray:
		return true
	default:
		return false
	}
}

// IsRecord reports whether t is, or is a subtype of, a record type.
func (in *Interner) IsRecord(t TypeID) bool {
	return in.KindOf(in.BaseType(t)) == KindRecord
}

// IsScalar reports whether t is, or is a subtype of, an integer, real,
// enumeration or physical type.
func (in *Interner) IsScalar(t TypeID) bool {
	switch in.KindOf(in.BaseType(t)) {
	case KindInteger, KindReal, KindEnum, KindPhysical:
		return true
	default:
		return false
	}
}

// IsDiscrete reports whether t is, or is a subtype of, an integer,
// enumeration or physical type (a real type is scalar but not discrete).
func (in *Interner) IsDiscrete(t TypeID) bool {
	switch in.KindOf(in.BaseType(t)) {
	case KindInteger, KindEnum, KindPhysical:
		return true
	default:
		return false
	}
}

// IsComposite reports whether t is, or is a subtype of, an array or record
// type.
func (in *Interner) IsComposite(t TypeID) bool {
	return in.IsArray(t) || in.IsRecord(t)
}

// IsUnconstrained reports whether t denotes an unconstrained array, or a
// subtype of one that adds no constraint of its own.
func (in *Interner) IsUnconstrained(t TypeID) bool {
	if in.KindOf(in.BaseType(t)) != KindUArray {
		return false
	}
	if in.KindOf(t) == KindSubtype {
		_, has := in.Range(t)
		return !has
	}
	return true
}
