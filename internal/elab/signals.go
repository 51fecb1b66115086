package elab

import (
	"nvcgo/internal/kernel"
	"nvcgo/internal/tree"
)

// signalInfo records how a declared signal was allocated.
type signalInfo struct {
	id     kernel.SignalID
	typ    uint32 // byte width, taken from its layout
	driven int    // number of drivers bound so far
}

// allocateSignals walks an architecture's declarative part, allocating one
// kernel.Signal per signal_decl. Resolve functions are supplied by the
// caller via resolvers (keyed by declared name); a signal with more than
// one driver and no resolver is a design the elaborator accepts (driving
// conflicts are a RuntimeTrap, per §7, not an elaboration-time error,
// since VHDL permits writing a multiply-driven unresolved signal as long
// as at most one driver is ever active at a time).
func (e *Elaborator) allocateSignals(arch tree.NodeID, resolvers map[string]kernel.ResolutionFunc) error {
	e.signals = make(map[string]*signalInfo)
	for _, decl := range e.tree.Decls(arch) {
		if e.tree.KindOf(decl) != tree.KindSignalDecl {
			continue
		}
		name, _ := e.tree.Name(decl)
		nameStr := e.tree.Idc.StringOf(name)

		typ := e.tree.TypeOf(decl)
		// SignalLayoutOf describes the out-of-line EXTERNAL+OFFSET
		// descriptor a real driver structure would use (§4.5); the
		// kernel's Value buffer holds the plain resolved data itself, so
		// its size comes from SizeOf, not the descriptor layout.
		size, err := e.layout.SizeOf(typ)
		if err != nil {
			return err
		}
		if size == 0 {
			size = 1
		}

		numDrivers := e.countDrivers(arch, nameStr)
		if numDrivers == 0 {
			numDrivers = 1
		}

		id := e.nextSignal
		e.nextSignal++

		e.kernel.AddSignal(id, make(kernel.Value, size), numDrivers, resolvers[nameStr])
		e.signals[nameStr] = &signalInfo{id: id, typ: uint32(size)}
	}
	return nil
}

// countDrivers counts distinct processes with at least one signal_assign
// targeting name, a coarse over-approximation of VHDL's per-driver rule
// (one driver per process per signal) sufficient to size Signal.Pending.
func (e *Elaborator) countDrivers(arch tree.NodeID, name string) int {
	count := 0
	for _, stmt := range e.tree.Statements(arch) {
		if e.tree.KindOf(stmt) != tree.KindProcess {
			continue
		}
		if processDrives(e.tree, stmt, name) {
			count++
		}
	}
	return count
}

func processDrives(t *tree.Builder, proc tree.NodeID, name string) bool {
	for _, stmt := range t.Statements(proc) {
		if statementDrives(t, stmt, name) {
			return true
		}
	}
	return false
}

func statementDrives(t *tree.Builder, stmt tree.NodeID, name string) bool {
	switch t.KindOf(stmt) {
	case tree.KindSignalAssign:
		target := t.AssignTarget(stmt)
		if t.KindOf(target) == tree.KindNameRef {
			tn, _ := t.Name(target)
			if t.Idc.StringOf(tn) == name {
				return true
			}
		}
	case tree.KindIf:
		for _, s := range t.ThenStatements(stmt) {
			if statementDrives(t, s, name) {
				return true
			}
		}
		for _, s := range t.ElseStatements(stmt) {
			if statementDrives(t, s, name) {
				return true
			}
		}
	}
	return false
}
