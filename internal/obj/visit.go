package obj

// Walker is called once per present item slot, in the schema's declared
// VisitOrder (§9: "expose a visitor protocol that iterates fields by a
// compile-time-generated schema" instead of runtime does-this-kind-have-it
// lookups in hot paths).
type Walker func(slot Slot, v Value)

// Visit walks the present items of h in schema order.
func (s *Store) Visit(h Handle, walk Walker) {
	o := s.resolve(h)
	if o == nil {
		return
	}
	sc := s.schemaFor(o.Tag, o.Kind)
	for _, slot := range sc.VisitOrder {
		if o.set.Has(slot) {
			walk(slot, o.items[slot])
		}
	}
}

// Refs returns every object handle directly reachable from h, via VRef
// items and VArray items whose element kind is ElemObj/ElemParam (whose
// Type field is itself a reference).
func (s *Store) Refs(h Handle) []Handle {
	var out []Handle
	s.Visit(h, func(_ Slot, v Value) {
		switch v.Kind {
		case VRef:
			if v.Ref.IsValid() {
				out = append(out, v.Ref)
			}
		case VArray:
			switch v.ArrKind {
			case ElemObj:
				for _, e := range v.Arr {
					if e.Obj.IsValid() {
						out = append(out, e.Obj)
					}
				}
			case ElemParam:
				for _, e := range v.Arr {
					if e.Param.Type.IsValid() {
						out = append(out, e.Param.Type)
					}
				}
			}
		}
	})
	return out
}

// VisitReachable performs a depth-first walk over h and everything
// transitively reachable from it, calling visit once per distinct handle
// (used by the GC marker; Serialize has its own same-arena walk).
func (s *Store) VisitReachable(roots []Handle, visit func(Handle)) {
	seen := make(map[Handle]bool)
	var stack []Handle
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !h.IsValid() || seen[h] {
			continue
		}
		seen[h] = true
		visit(h)
		stack = append(stack, s.Refs(h)...)
	}
}
