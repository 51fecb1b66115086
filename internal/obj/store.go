package obj

import (
	"fmt"

	"nvcgo/internal/loc"
)

// Store owns a sequence of arenas sharing one Registry. New allocations
// always land in the current (latest) arena; Freeze closes it and opens
// the next.
type Store struct {
	Registry *Registry
	arenas   map[ArenaID]*Arena
	nextGen  ArenaID
	cur      *Arena
}

// NewStore creates a store with its first (unfrozen) arena already open.
func NewStore(reg *Registry) *Store {
	s := &Store{Registry: reg, arenas: make(map[ArenaID]*Arena)}
	s.openArena()
	return s
}

func (s *Store) openArena() {
	s.nextGen++ // generation 0 reserved for NoArena
	a := &Arena{Gen: s.nextGen}
	s.arenas[a.Gen] = a
	s.cur = a
}

// Freeze closes the current arena to further allocation and opens a fresh
// one for subsequent New calls (§4.1 "freeze(arena)").
func (s *Store) Freeze() ArenaID {
	s.cur.frozen = true
	gen := s.cur.Gen
	s.openArena()
	return gen
}

// Arena returns the arena for a given generation, or nil if unknown.
func (s *Store) Arena(gen ArenaID) *Arena {
	if gen == NoArena {
		return nil
	}
	a, ok := s.arenas[gen]
	if !ok {
		return nil
	}
	return a
}

func (s *Store) schemaFor(tag Tag, kind Kind) *Schema {
	sc := s.Registry.lookup(tag, kind)
	if sc == nil {
		panic(fmt.Sprintf("obj: undeclared schema for %s/%d", tag, kind))
	}
	return sc
}

// New allocates an object of the given (tag, kind) in the current arena and
// returns its handle (§4.1 "new(tag, kind) -> handle").
func (s *Store) New(tag Tag, kind Kind, at loc.Loc) Handle {
	s.schemaFor(tag, kind) // validates the pair is declared
	obj := Object{Tag: tag, Kind: kind, Loc: at}
	s.cur.objects = append(s.cur.objects, obj)
	idx := uint32(len(s.cur.objects))
	return Handle{Arena: s.cur.Gen, Index: idx}
}

// resolve returns the Object pointer backing h, or nil if h is invalid.
func (s *Store) resolve(h Handle) *Object {
	a := s.Arena(h.Arena)
	if a == nil || h.Index == 0 || int(h.Index) > len(a.objects) {
		return nil
	}
	return &a.objects[h.Index-1]
}

// Get returns the Object for h (read-only view of Tag/Kind/Loc).
func (s *Store) Get(h Handle) (Object, bool) {
	o := s.resolve(h)
	if o == nil {
		return Object{}, false
	}
	return *o, true
}

// GetItem returns the value stored in slot for h (§4.1 "get_item").
// Reading a slot that is legal per schema but never set returns the zero
// Value and ok=false; reading an illegal slot panics via SchemaError, since
// that is always a programming error, not recoverable user state.
func (s *Store) GetItem(h Handle, slot Slot) (Value, bool) {
	o := s.resolve(h)
	if o == nil {
		return Value{}, false
	}
	sc := s.schemaFor(o.Tag, o.Kind)
	if !sc.Slots.Has(slot) {
		panic(&SchemaError{Tag: o.Tag, Kind: o.Kind, Slot: slot})
	}
	if !o.set.Has(slot) {
		return Value{}, false
	}
	return o.items[slot], true
}

// SetItem stores v into slot for h (§4.1 "set_item"). Mutating a slot the
// schema does not declare legal panics with SchemaError.
func (s *Store) SetItem(h Handle, slot Slot, v Value) {
	o := s.resolve(h)
	if o == nil {
		panic("obj: SetItem on invalid handle")
	}
	a := s.Arena(h.Arena)
	if a.frozen {
		panic("obj: mutation of frozen arena")
	}
	sc := s.schemaFor(o.Tag, o.Kind)
	if !sc.Slots.Has(slot) {
		panic(&SchemaError{Tag: o.Tag, Kind: o.Kind, Slot: slot})
	}
	o.items[slot] = v
	o.set |= 1 << uint(slot)
}

// Retag performs a kind transition on h, enforcing the declared allow-list
// (§4.1 "Kind transitions are only allowed along a declared allow-list").
func (s *Store) Retag(h Handle, newKind Kind) error {
	o := s.resolve(h)
	if o == nil {
		return fmt.Errorf("obj: Retag on invalid handle")
	}
	sc := s.schemaFor(o.Tag, o.Kind)
	if !sc.Transitions[newKind] {
		return &KindTransitionError{Tag: o.Tag, From: o.Kind, To: newKind}
	}
	// Items in slots not legal under the new schema are dropped; this
	// mirrors a schema growing/narrowing across a transition (e.g.
	// INCOMPLETE -> INTEGER gains range/size items it never had).
	newSchema := s.schemaFor(o.Tag, newKind)
	var kept Object
	kept.Tag, kept.Kind, kept.Loc = o.Tag, newKind, o.Loc
	for slot := Slot(0); slot < SlotMaxSlot; slot++ {
		if o.set.Has(slot) && newSchema.Slots.Has(slot) {
			kept.items[slot] = o.items[slot]
			kept.set |= 1 << uint(slot)
		}
	}
	*o = kept
	return nil
}
