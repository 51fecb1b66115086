package obj

// GC performs mark-sweep collection from a set of pinned roots: live
// libraries, the current elaboration, and unfrozen arenas (§4.1). Go's own
// garbage collector reclaims the underlying memory once an Arena becomes
// unreachable from the Store; GC's job is purely to drop Store-level
// references to arenas nothing roots, returning them "to the OS" in the
// sense that nothing in the store keeps them alive any longer.
//
// The contract (§4.1) is that no handle outside the root set survives
// across a GC call unless the caller re-roots it: callers must not retain
// handles into arenas they did not include in roots.
func (s *Store) GC(roots []Handle) {
	liveArenas := make(map[ArenaID]bool)
	s.VisitReachable(roots, func(h Handle) {
		liveArenas[h.Arena] = true
	})
	// Always keep the current (open, unfrozen) arena — it may still be
	// receiving allocations from an in-progress pass with no pinned handle
	// yet.
	if s.cur != nil {
		liveArenas[s.cur.Gen] = true
	}

	for gen := range s.arenas {
		if !liveArenas[gen] {
			delete(s.arenas, gen)
		}
	}
}
