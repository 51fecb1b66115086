// Package layout implements the layout engine (C6): size, alignment and
// part decomposition for VHDL types, memoized by (type, signal-flavor)
// key, with cycle detection for the unbounded-recursion case.
//
// Grounded on the teacher's internal/layout/layout.go (LayoutEngine,
// layoutState stack+index cycle detector, per-key cache) and
// internal/layout/error.go (LayoutErrorKind, cycle-carrying LayoutError).
package layout

import (
	"nvcgo/internal/hashmap"
	"nvcgo/internal/vtype"
)

// PartClass classifies one contiguous piece of a Layout.
type PartClass uint8

const (
	ClassData PartClass = iota
	ClassBounds
	ClassOffset
	ClassExternal
)

// Part is one contiguous piece of a type's storage shape (§4.4).
type Part struct {
	Offset int
	Size   int
	Repeat int
	Align  int
	Class  PartClass
}

// Layout is the storage shape of a type: overall size, alignment, and an
// ordered list of parts. Immutable once produced (§4.4).
type Layout struct {
	Size  int
	Align int
	Parts []Part
}

// Engine computes and caches layouts for one Interner's types. The cache
// is keyed by (type, signal-flavor), encoded into a single uint64 and
// held in a hashmap.U64Map -- the u64->handle map §4.4 names for exactly
// this "layout/type lookups" role -- with the Layout/Error payload itself
// in a parallel slice the map's stored value indexes into.
type Engine struct {
	Types   *vtype.Interner
	cache   *hashmap.U64Map
	entries []cacheEntry
}

type cacheKey struct {
	Type   vtype.TypeID
	Signal bool
}

type cacheEntry struct {
	Layout Layout
	Err    *Error
}

// New creates a layout Engine over in.
func New(in *vtype.Interner) *Engine {
	return &Engine{Types: in, cache: hashmap.NewU64Map(64)}
}

// encodeCacheKey packs a cacheKey into the single uint64 key U64Map
// requires: Signal in the low bit, Index's low 31 bits next, Arena above
// that. obj.Handle's Arena and Index are both declared uint32, wider than
// this packing allows, but neither ever approaches 2^31 in an actual run
// (arena generations and per-arena object counts); this is the same
// practical-capacity assumption the rest of this core makes of handles.
func encodeCacheKey(k cacheKey) uint64 {
	sig := uint64(0)
	if k.Signal {
		sig = 1
	}
	return uint64(k.Type.Arena)<<33 | (uint64(k.Type.Index)&0x7fffffff)<<1 | sig
}

type state struct {
	stack []cacheKey
	index map[cacheKey]int
}

func newState() *state {
	return &state{index: make(map[cacheKey]int, 16)}
}

// LayoutOf computes the plain (non-signal) layout of t (§4.5).
func (e *Engine) LayoutOf(t vtype.TypeID) (Layout, error) {
	l, err := e.layoutOf(t, false, newState())
	if err != nil {
		return l, err
	}
	return l, nil
}

// SignalLayoutOf computes the signal-flavored layout of t: in-place data
// replaced with an EXTERNAL pointer, plus an OFFSET part for homogeneous
// signals (§4.5).
func (e *Engine) SignalLayoutOf(t vtype.TypeID) (Layout, error) {
	l, err := e.layoutOf(t, true, newState())
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *Engine) layoutOf(t vtype.TypeID, signal bool, st *state) (Layout, *Error) {
	key := cacheKey{Type: t, Signal: signal}
	encKey := encodeCacheKey(key)
	if idx, ok := e.cache.Get(encKey); ok {
		cached := e.entries[idx]
		return cached.Layout, cached.Err
	}

	if idx, ok := st.index[key]; ok {
		cycle := append([]cacheKey(nil), st.stack[idx:]...)
		cycle = append(cycle, key)
		types := make([]vtype.TypeID, len(cycle))
		for i, k := range cycle {
			types[i] = k.Type
		}
		err := &Error{Kind: ErrRecursiveUnsized, Type: t, Cycle: types}
		e.put(encKey, cacheEntry{Layout: Layout{Size: 0, Align: 1}, Err: err})
		return Layout{Size: 0, Align: 1}, err
	}

	st.index[key] = len(st.stack)
	st.stack = append(st.stack, key)
	l, err := e.compute(t, signal, st)
	st.stack = st.stack[:len(st.stack)-1]
	delete(st.index, key)

	e.put(encKey, cacheEntry{Layout: l, Err: err})
	return l, err
}

// put appends entry to the backing slice and records its index under
// encKey via U64Map.Put, which updates the existing slot in place if
// encKey was already present -- the stale entries slot it previously
// pointed at is simply never looked up again.
func (e *Engine) put(encKey uint64, entry cacheEntry) {
	idx := uint64(len(e.entries))
	e.entries = append(e.entries, entry)
	e.cache.Put(encKey, idx)
}

// SizeOf returns the size in bytes of t's plain layout.
func (e *Engine) SizeOf(t vtype.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of t's plain layout.
func (e *Engine) AlignOf(t vtype.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}
