package tree

// Sensitivity returns a process's or wait statement's sensitivity list.
func (b *Builder) Sensitivity(n NodeID) []NodeID {
	v, ok := b.Store.GetItem(n, SlotItems)
	return refList(v, ok)
}

// WaitTimeout returns a wait statement's `for` timeout expression, or
// NoNode if it has none.
func (b *Builder) WaitTimeout(n NodeID) NodeID {
	v, ok := b.Store.GetItem(n, SlotItems2)
	if !ok || len(v.Arr) == 0 {
		return NoNode
	}
	return v.Arr[0].Obj
}

// AssignTarget returns a signal/variable assignment's target name.
func (b *Builder) AssignTarget(n NodeID) NodeID {
	return b.Sub(n)
}

// Waveform returns a signal assignment's (value, after) pairs in order.
func (b *Builder) Waveform(n NodeID) []WaveElem {
	v, ok := b.Store.GetItem(n, SlotItems)
	if !ok {
		return nil
	}
	out := make([]WaveElem, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = WaveElem{Value: e.Param.Type, After: e.Obj}
	}
	return out
}

// AssertReport returns an assert statement's report expression, or NoNode
// if it has none (the default "Assertion violation" message applies).
func (b *Builder) AssertReport(n NodeID) NodeID {
	v, ok := b.Store.GetItem(n, SlotItems)
	if !ok || len(v.Arr) == 0 {
		return NoNode
	}
	return v.Arr[0].Obj
}

// AssertSeverity returns an assert statement's severity level.
func (b *Builder) AssertSeverity(n NodeID) Severity {
	v, ok := b.Store.GetItem(n, SlotOp)
	if !ok {
		return SevError
	}
	return Severity(v.I)
}

// ThenStatements returns an if statement's then branch.
func (b *Builder) ThenStatements(n NodeID) []NodeID {
	v, ok := b.Store.GetItem(n, SlotItems)
	return refList(v, ok)
}

// ElseStatements returns an if statement's else branch (empty if absent).
func (b *Builder) ElseStatements(n NodeID) []NodeID {
	v, ok := b.Store.GetItem(n, SlotItems2)
	return refList(v, ok)
}

// Resolved returns a name reference's resolved declaration handle, or
// NoNode if name resolution has not run yet.
func (b *Builder) Resolved(n NodeID) NodeID {
	return b.Sub(n)
}

// LiteralInt returns a literal expression's integer value.
func (b *Builder) LiteralInt(n NodeID) int64 {
	v, ok := b.Store.GetItem(n, SlotInt64)
	if !ok {
		return 0
	}
	return v.I64
}

// BinOpOf returns a binop expression's operator and operands.
func (b *Builder) BinOpOf(n NodeID) (BinOp, NodeID, NodeID) {
	v, _ := b.Store.GetItem(n, SlotOp)
	lhs := b.Sub(n)
	rhsv, ok := b.Store.GetItem(n, SlotItems2)
	var rhs NodeID
	if ok && len(rhsv.Arr) > 0 {
		rhs = rhsv.Arr[0].Obj
	}
	return BinOp(v.I), lhs, rhs
}
