package kernel

// Value is a runtime signal/variable value: raw bytes laid out per the
// type's layout.Layout (§5: "the kernel operates only on runtime state...
// never on trees or types" — so Value carries no type handle, only bytes).
type Value []byte

func (v Value) equal(o Value) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func cloneValue(v Value) Value {
	out := make(Value, len(v))
	copy(out, v)
	return out
}

// SignalID identifies a signal allocated by the elaborator.
type SignalID uint32

// ResolutionFunc combines the pending values of every active driver into
// the signal's new resolved value (§4.8 "Drivers and resolution").
type ResolutionFunc func(drivers []Value) Value

// Signal is a kernel-owned runtime signal: its current resolved value, the
// last value each of its drivers assigned, and an optional resolution
// function for multiply-driven signals.
type Signal struct {
	ID         SignalID
	Current    Value
	Pending    []Value // one slot per driver, nil until that driver's first assignment
	NumDrivers int
	Resolve    ResolutionFunc
	Sensitive  []ProcessID // processes with this signal in their wait sensitivity list
	Forced     Value       // non-nil overrides resolution entirely, until released
}

// Driven reports whether driver idx has ever been assigned a value.
func (s *Signal) Driven(idx int) bool {
	return idx < len(s.Pending) && s.Pending[idx] != nil
}

// resolve computes the signal's next value from its drivers' last-assigned
// values (§4.8): a single active driver's value is adopted directly; more
// than one requires a resolution function, whose absence is a fatal
// runtime trap (elaboration should have rejected this design already). A
// driver's value in Pending persists across deltas until that driver next
// assigns — VHDL/NVC driver semantics never forget a driver's value just
// because a different driver updated (§8 scenario 3).
func (s *Signal) resolveNext() (Value, error) {
	if s.Forced != nil {
		return s.Forced, nil
	}
	var active []Value
	for _, p := range s.Pending {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return s.Current, nil
	case 1:
		return active[0], nil
	default:
		if s.Resolve == nil {
			return nil, &Trap{Kind: TrapUnresolvedMultiDriver, Signal: s.ID}
		}
		return s.Resolve(active), nil
	}
}
