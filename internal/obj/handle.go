// Package obj implements the universal tagged-object store (C2): arena
// allocation, uniform item access via a compile-time schema table, depth
// first serialization across arena boundaries, and mark-sweep garbage
// collection.
//
// Grounded on the teacher's per-arena slice arenas (internal/ast/arena.go,
// internal/symbols/arena.go): "represent as per-arena vectors indexed by
// (arena-id, index) handle pairs" (§9).
package obj

// ArenaID is a monotonically increasing arena generation number. Objects
// from one arena may only reference objects in strictly older arenas
// (lower ArenaID) — the freeze invariant that makes serialization safe.
type ArenaID uint32

// NoArena marks the absence of an arena.
const NoArena ArenaID = 0

// Handle addresses a single object as an (arena, index) pair, stable across
// the lifetime of the process (§3 "Arena allocation with cross-arena
// handles").
type Handle struct {
	Arena ArenaID
	Index uint32
}

// Nil is the zero handle, meaning "no object".
var Nil = Handle{}

// IsValid reports whether h addresses an allocated object.
func (h Handle) IsValid() bool { return h.Arena != NoArena }
