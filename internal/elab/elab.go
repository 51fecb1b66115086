// Package elab implements the elaborator (C8): given a root architecture,
// it instantiates the design hierarchy,
// allocates signal storage via internal/layout, compiles process bodies
// to internal/jit programs, and registers them with internal/kernel —
// the integration point wiring C4 (tree), C3 (vtype), C6 (layout), C7
// (jit) and C9 (kernel) together behind one call (§4.6).
//
// Grounded on the teacher's internal/driver (the top-level analyse/
// elaborate/run pipeline orchestrator) for the staged build-then-run
// shape, and internal/mir/lower.go for the statement-by-statement
// lowering pattern reused in lower.go.
package elab

import (
	"nvcgo/internal/ident"
	"nvcgo/internal/jit"
	"nvcgo/internal/kernel"
	"nvcgo/internal/layout"
	"nvcgo/internal/tree"
	"nvcgo/internal/vtype"
)

// Design is the runnable result of elaborating one architecture: a
// populated Kernel plus the signal name→ID mapping the shell and
// waveform sink use to address signals by path. Idc is the identifier
// table the design was elaborated with, kept around only so a caller can
// resolve a *kernel.Trap's Frame back to a name via DescribeFrame.
type Design struct {
	Kernel  *kernel.Kernel
	Signals map[string]kernel.SignalID
	Idc     *ident.Table
}

// Elaborator holds the shared infrastructure one elaboration run threads
// through tree walking, layout computation and process lowering — an
// explicit value, never a package-level global, per the §9 design note on
// replacing process-wide mutable state with a threaded Session-shaped
// value.
type Elaborator struct {
	tree   *tree.Builder
	types  *vtype.Interner
	layout *layout.Engine
	kernel *kernel.Kernel

	signals    map[string]*signalInfo
	nextSignal kernel.SignalID

	// UnitName optionally names the library unit being elaborated, for
	// attribution in DescribeFrame lookups (e.g. a trap's Frame field
	// resolved back to "counter.INCR" for display). Left empty it is
	// still safe: DescribeFrame then reports an empty unit name.
	UnitName string
}

// NewElaborator creates an Elaborator over an already-built tree and type
// interner, with a fresh Kernel ready to receive allocated signals and
// registered processes.
func NewElaborator(b *tree.Builder, types *vtype.Interner) *Elaborator {
	return &Elaborator{
		tree:       b,
		types:      types,
		layout:     layout.New(types),
		kernel:     kernel.NewKernel(),
		nextSignal: 1,
	}
}

// Elaborate instantiates arch's declarative part (signals) and concurrent
// statements (processes), returning a runnable Design. resolvers supplies
// a resolution function per signal name for any signal with more than one
// driver (nil for unresolved signals, which trap at run time on a real
// conflict rather than at elaboration, per §7's RuntimeTrap kind).
//
// Component instantiation (tree.KindInstance) is not yet elaborated: this
// core handles single-architecture, generic-free designs end to end, and
// reports an UnresolvedName error for any instance statement rather than
// guessing a binding (§9 "do not guess intent").
func (e *Elaborator) Elaborate(arch tree.NodeID, resolvers map[string]kernel.ResolutionFunc) (*Design, error) {
	if e.tree.KindOf(arch) != tree.KindArchitecture {
		return nil, &Error{Kind: ErrTypeMismatch, Want: "architecture", Got: "other"}
	}

	if err := e.allocateSignals(arch, resolvers); err != nil {
		return nil, err
	}

	scopeIdx := 0
	for _, stmt := range e.tree.Statements(arch) {
		switch e.tree.KindOf(stmt) {
		case tree.KindProcess:
			if err := e.elaborateProcess(stmt, scopeIdx); err != nil {
				return nil, err
			}
			scopeIdx++
		case tree.KindInstance:
			return nil, &Error{Kind: ErrUnresolvedName, Name: "component instantiation is not yet elaborated in this core"}
		}
	}

	out := make(map[string]kernel.SignalID, len(e.signals))
	for name, info := range e.signals {
		out[name] = info.id
	}
	return &Design{Kernel: e.kernel, Signals: out, Idc: e.tree.Idc}, nil
}

// elaborateProcess lowers proc to a jit.Program, folds its constants, and
// registers a kernel.Process wrapper at scope-tree position scopeDFS.
// Every process runs once unconditionally at t=0 Delta=0 before any
// signal has changed (§4.8's implicit initial activation).
func (e *Elaborator) elaborateProcess(proc tree.NodeID, scopeDFS int) error {
	prog, err := e.lowerProcess(proc)
	if err != nil {
		return err
	}
	jit.FoldConstants(prog)

	jp := newJITProcess(prog)
	id := e.kernel.RegisterProcess(scopeDFS, jp)
	e.kernel.ScheduleResume(kernel.Stamp{}, id)
	return nil
}
