package obj

import "nvcgo/internal/loc"

// Object is the universal node (§3): a tag, a kind selecting its schema, a
// source location, and a fixed-size item table indexed by Slot.
type Object struct {
	Tag  Tag
	Kind Kind
	Loc  loc.Loc

	items [SlotMaxSlot]Value
	set   SlotMask // which slots actually hold a value (subset of schema mask)
}

// Arena is a contiguous bump-allocated region of objects sharing one
// generation id. Freeze is a one-way transition after which the arena may
// be safely referenced by newer arenas and serialized.
type Arena struct {
	Gen     ArenaID
	objects []Object
	frozen  bool
}

// Frozen reports whether the arena accepts no further allocation.
func (a *Arena) Frozen() bool { return a.frozen }

// Len reports the number of objects allocated in this arena.
func (a *Arena) Len() int { return len(a.objects) }
