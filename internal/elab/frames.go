package elab

import (
	"sync/atomic"

	"nvcgo/internal/hashmap"
	"nvcgo/internal/ident"
	"nvcgo/internal/jit"
)

// debugFrames is the process-wide PC/frame -> source-scope cache §5 names
// as the ConcurrentMap's motivating use ("a read-mostly cache ... shared
// across goroutines, e.g. debug symbol lookup"). Every lowered process
// registers itself once, under its own jit.FuncID; any goroutine
// reporting a *kernel.Trap can resolve that FuncID back to a (unit,
// process) name pair with a lock-free Get, including while another
// goroutine is concurrently elaborating and registering a different unit.
var debugFrames = hashmap.NewConcurrentMap(256)

// nextFrameID is the process-wide FuncID allocator backing registerFrame.
// FuncID 0 is reserved to mean "no frame" (the obj.Nil / ident.None
// convention this core uses throughout for absent handles).
var nextFrameID uint32 = 1

// registerFrame assigns a fresh jit.FuncID to one lowered process and
// records its (unit, process) name pair in debugFrames, packed as two
// idents into the map's single uint64 value: unlike the layout cache's
// key, both key (the FuncID) and value here are exact integers, so no
// hash-of-content collision risk is introduced by using ConcurrentMap
// this way.
func registerFrame(unit, proc ident.Ident) jit.FuncID {
	id := atomic.AddUint32(&nextFrameID, 1) - 1
	debugFrames.Put(uint64(id), uint64(unit)<<32|uint64(proc))
	return jit.FuncID(id)
}

// DescribeFrame resolves a FuncID registered by registerFrame back to its
// (unit, process) name pair, rendered against idc: the same identifier
// table the owning unit was elaborated with (§C1: idents are only
// meaningful relative to the table that interned them).
func DescribeFrame(idc *ident.Table, id jit.FuncID) (unit, proc string, ok bool) {
	if id == 0 {
		return "", "", false
	}
	packed, ok := debugFrames.Get(uint64(id))
	if !ok {
		return "", "", false
	}
	u := ident.Ident(packed >> 32)
	p := ident.Ident(packed & 0xffffffff)
	unit, _ = idc.TryStringOf(u) // unit is "" when the registering Elaborator had no UnitName
	proc, ok = idc.TryStringOf(p)
	return unit, proc, ok
}
