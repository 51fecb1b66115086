package kernel

import "testing"

func TestEmptyRunProducesNoEvents(t *testing.T) {
	k := NewKernel()
	if err := k.Run(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.EventCount != 0 || k.Now() != 0 {
		t.Fatalf("expected zero events and time 0, got count=%d now=%d", k.EventCount, k.Now())
	}
}

// counterProcess drives sig one higher every 10ns, up to a bound, then
// waits forever.
type counterProcess struct {
	sig   SignalID
	value byte
	max   byte
	first bool
}

func (p *counterProcess) Resume(rt *Runtime) (WaitCond, error) {
	if p.value >= p.max {
		return WaitCond{Kind: WaitForever}, nil
	}
	p.value++
	rt.DriveSignal(p.sig, 0, Value{p.value})
	return WaitCond{Kind: WaitFor, Timeout: 10_000_000}, nil // 10 ns in fs
}

func TestCounterAdvancesEveryTenNanoseconds(t *testing.T) {
	k := NewKernel()
	const sig SignalID = 1
	k.AddSignal(sig, Value{0}, 1, nil)

	var changes []Value
	k.Watch(sig, func(at Time, d Delta, v Value) {
		changes = append(changes, cloneValue(v))
	})

	p := &counterProcess{sig: sig, max: 10}
	pid := k.RegisterProcess(0, p)
	k.ScheduleResume(Stamp{At: 0}, pid)

	if err := k.Run(100_000_000); err != nil { // 100 ns
		t.Fatalf("run failed: %v", err)
	}

	if len(changes) != 10 {
		t.Fatalf("expected 10 value-change events, got %d", len(changes))
	}
	for i, v := range changes {
		if v[0] != byte(i+1) {
			t.Fatalf("change %d = %d, want %d", i, v[0], i+1)
		}
	}
	if k.Now() != 100_000_000 {
		t.Fatalf("final time = %d, want 100_000_000 fs", k.Now())
	}
}

func resolveWiredOr(drivers []Value) Value {
	// '0' wins over 'Z' (weak); '1' present with anything but '0' -> 'X'.
	has0, has1, hasZ := false, false, false
	for _, d := range drivers {
		switch d[0] {
		case '0':
			has0 = true
		case '1':
			has1 = true
		case 'Z':
			hasZ = true
		}
	}
	switch {
	case has0 && has1:
		return Value{'X'}
	case has0:
		return Value{'0'}
	case has1:
		return Value{'1'}
	case hasZ:
		return Value{'Z'}
	default:
		return Value{'U'}
	}
}

func TestResolvedBusMultiDriver(t *testing.T) {
	k := NewKernel()
	const bus SignalID = 1
	k.AddSignal(bus, Value{'U'}, 2, resolveWiredOr)

	k.drive(bus, 0, Value{'0'})
	k.drive(bus, 1, Value{'Z'})
	if err := k.Run(0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := k.signals[bus].Current[0]; got != '0' {
		t.Fatalf("resolved value = %q, want '0'", got)
	}

	k.drive(bus, 0, Value{'0'})
	k.drive(bus, 1, Value{'1'})
	if err := k.Run(0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := k.signals[bus].Current[0]; got != 'X' {
		t.Fatalf("resolved value = %q, want 'X'", got)
	}
}

func TestResolvedBusDriverPersistsAcrossDeltas(t *testing.T) {
	// §8 scenario 3: two drivers write '0' and 'Z' -> '0'. Changing only
	// the second driver to '1' must yield 'X', since driver 0's '0' stays
	// in effect until driver 0 itself reassigns it.
	k := NewKernel()
	const bus SignalID = 1
	k.AddSignal(bus, Value{'U'}, 2, resolveWiredOr)

	k.drive(bus, 0, Value{'0'})
	k.drive(bus, 1, Value{'Z'})
	if err := k.Run(0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := k.signals[bus].Current[0]; got != '0' {
		t.Fatalf("resolved value = %q, want '0'", got)
	}

	k.drive(bus, 1, Value{'1'})
	if err := k.Run(0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := k.signals[bus].Current[0]; got != 'X' {
		t.Fatalf("resolved value after changing only driver 1 = %q, want 'X' (driver 0's '0' must persist)", got)
	}
}

type assertingProcess struct{ ran bool }

func (p *assertingProcess) Resume(rt *Runtime) (WaitCond, error) {
	p.ran = true
	return WaitCond{}, &Trap{Kind: TrapAssertFailure, Message: "false"}
}

func TestAssertionTrapTerminatesRun(t *testing.T) {
	k := NewKernel()
	p := &assertingProcess{}
	pid := k.RegisterProcess(0, p)
	k.ScheduleResume(Stamp{At: 3_000_000}, pid) // 3 ns

	err := k.Run(1_000_000_000)
	if err == nil {
		t.Fatalf("expected trap error")
	}
	trap, ok := err.(*Trap)
	if !ok || trap.Kind != TrapAssertFailure {
		t.Fatalf("expected *Trap TrapAssertFailure, got %v (%T)", err, err)
	}
	if k.Now() != 3_000_000 {
		t.Fatalf("time at trap = %d, want 3_000_000 fs", k.Now())
	}
}

func TestForceOverridesResolutionUntilReleased(t *testing.T) {
	k := NewKernel()
	const sig SignalID = 1
	k.AddSignal(sig, Value{0}, 1, nil)

	var changes []Value
	k.Watch(sig, func(at Time, d Delta, v Value) {
		changes = append(changes, cloneValue(v))
	})

	k.Force(sig, Value{42})
	if got := k.ValueOf(sig); !got.equal(Value{42}) {
		t.Fatalf("ValueOf after Force = %v, want [42]", got)
	}
	if len(changes) != 1 {
		t.Fatalf("expected one watch fire from Force, got %d", len(changes))
	}

	pid := k.RegisterProcess(0, &counterProcess{sig: sig, max: 1})
	k.ScheduleResume(Stamp{}, pid)
	if err := k.Run(1_000_000_000); err != nil {
		t.Fatalf("run: %v", err)
	}
	// A forced signal stays forced until Release, even across a driver
	// update: the process drove it to 1, but resolveNext returns Forced.
	if got := k.ValueOf(sig); !got.equal(Value{42}) {
		t.Fatalf("ValueOf while forced = %v, want [42]", got)
	}

	k.Release(sig)
	pid2 := k.RegisterProcess(0, &counterProcess{sig: sig, max: 1})
	k.ScheduleResume(Stamp{}, pid2)
	if err := k.Run(1_000_000_000); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := k.ValueOf(sig); !got.equal(Value{1}) {
		t.Fatalf("ValueOf after Release = %v, want [1]", got)
	}
}

type recordingSink struct {
	inited map[SignalID]string
	lines  []string
}

func (s *recordingSink) Init(names map[SignalID]string) { s.inited = names }
func (s *recordingSink) Change(t Time, d Delta, id SignalID, v Value) {
	s.lines = append(s.lines, s.inited[id])
}
func (s *recordingSink) Close() error { return nil }

func TestAttachWaveSinkForwardsChanges(t *testing.T) {
	k := NewKernel()
	const sig SignalID = 1
	k.AddSignal(sig, Value{0}, 1, nil)

	sink := &recordingSink{}
	k.AttachWaveSink(map[SignalID]string{sig: "TMP"}, sink)
	if sink.inited == nil {
		t.Fatalf("Init was not called")
	}

	pid := k.RegisterProcess(0, &counterProcess{sig: sig, max: 3})
	k.ScheduleResume(Stamp{}, pid)
	if err := k.Run(1_000_000_000); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.lines) != 3 {
		t.Fatalf("expected 3 changes forwarded to sink, got %d", len(sink.lines))
	}
	for _, l := range sink.lines {
		if l != "TMP" {
			t.Fatalf("sink line named %q, want TMP", l)
		}
	}
}
