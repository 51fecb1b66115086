package jit

import "testing"

type fakeEnv struct {
	signals map[SignalID]Value
	driven  []struct {
		id     SignalID
		driver int
		v      Value
		delay  int64
	}
}

func (e *fakeEnv) ReadSignal(id SignalID) Value { return e.signals[id] }

func (e *fakeEnv) ScheduleSignal(id SignalID, driver int, v Value, delay int64) {
	e.driven = append(e.driven, struct {
		id     SignalID
		driver int
		v      Value
		delay  int64
	}{id, driver, v, delay})
}

func (e *fakeEnv) Call(fn FuncID, args []Value) (Value, error) { return nil, nil }

// buildAddProgram builds: r2 = r0 + r1; return r2.
func buildAddProgram() *Program {
	b := NewBuilder("add", 3)
	entry := b.Block()
	b.SetEntry(entry)
	b.Emit(Instr{Op: OpAdd, Dst: 2, A: RegOperand(0), B: RegOperand(1)})
	b.Terminate(Terminator{Kind: TermReturn, HasValue: true, Value: RegOperand(2)})
	return b.Build()
}

func TestInterpreterAdd(t *testing.T) {
	p := buildAddProgram()
	frame := NewFrame(p)
	frame.Regs[0] = fromInt64(3, 4)
	frame.Regs[1] = fromInt64(4, 4)

	in := &Interpreter{Env: &fakeEnv{}}
	result, hasResult, wait, err := in.Run(p, frame, p.Entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wait != nil {
		t.Fatalf("unexpected wait: %+v", wait)
	}
	if !hasResult {
		t.Fatalf("expected a result")
	}
	if toInt64(result) != 7 {
		t.Fatalf("3+4 = %d, want 7", toInt64(result))
	}
}

func TestNativeAgreesWithInterpreter(t *testing.T) {
	p := buildAddProgram()
	env := &fakeEnv{}

	frame1 := NewFrame(p)
	frame1.Regs[0] = fromInt64(10, 4)
	frame1.Regs[1] = fromInt64(32, 4)
	in := &Interpreter{Env: env}
	wantResult, wantHas, wantWait, wantErr := in.Run(p, frame1, p.Entry)

	frame2 := NewFrame(p)
	frame2.Regs[0] = fromInt64(10, 4)
	frame2.Regs[1] = fromInt64(32, 4)
	nat := Compile(p, env)
	gotResult, gotHas, gotWait, gotErr := nat.Run(frame2, p.Entry)

	if wantErr != nil || gotErr != nil {
		t.Fatalf("unexpected errors: want=%v got=%v", wantErr, gotErr)
	}
	if wantHas != gotHas || toInt64(wantResult) != toInt64(gotResult) {
		t.Fatalf("backends disagree: interpreter=%d native=%d", toInt64(wantResult), toInt64(gotResult))
	}
	if (wantWait == nil) != (gotWait == nil) {
		t.Fatalf("backends disagree on suspension")
	}
}

func TestDivByZeroTraps(t *testing.T) {
	b := NewBuilder("div0", 3)
	entry := b.Block()
	b.SetEntry(entry)
	b.Emit(Instr{Op: OpDiv, Dst: 2, A: RegOperand(0), B: RegOperand(1)})
	b.Terminate(Terminator{Kind: TermReturn, HasValue: true, Value: RegOperand(2)})
	p := b.Build()

	frame := NewFrame(p)
	frame.Regs[0] = fromInt64(5, 4)
	frame.Regs[1] = fromInt64(0, 4)

	in := &Interpreter{Env: &fakeEnv{}}
	_, _, _, err := in.Run(p, frame, p.Entry)
	if err == nil {
		t.Fatalf("expected a divide-by-zero trap")
	}
	if _, ok := err.(*Trap); !ok {
		t.Fatalf("expected *Trap, got %T", err)
	}
}

func TestFoldConstantsPreservesDivTrap(t *testing.T) {
	b := NewBuilder("foldme", 2)
	entry := b.Block()
	b.SetEntry(entry)
	b.Emit(Instr{Op: OpAdd, Dst: 0, A: Imm(fromInt64(2, 4)), B: Imm(fromInt64(3, 4))})
	b.Emit(Instr{Op: OpDiv, Dst: 1, A: Imm(fromInt64(1, 4)), B: Imm(fromInt64(0, 4))})
	b.Terminate(Terminator{Kind: TermReturn, HasValue: true, Value: RegOperand(1)})
	p := b.Build()
	FoldConstants(p)

	if p.Blocks[0].Instrs[0].Op != OpMove {
		t.Fatalf("expected constant add to fold to a move, got op=%d", p.Blocks[0].Instrs[0].Op)
	}
	if toInt64(p.Blocks[0].Instrs[0].A.Imm) != 5 {
		t.Fatalf("folded 2+3 = %d, want 5", toInt64(p.Blocks[0].Instrs[0].A.Imm))
	}
	if p.Blocks[0].Instrs[1].Op != OpDiv {
		t.Fatalf("divide by zero must not be folded away, got op=%d", p.Blocks[0].Instrs[1].Op)
	}

	frame := NewFrame(p)
	in := &Interpreter{Env: &fakeEnv{}}
	_, _, _, err := in.Run(p, frame, p.Entry)
	if _, ok := err.(*Trap); !ok {
		t.Fatalf("folded program must still trap on div by zero, got %v", err)
	}
}

func TestSignalReadScheduleRoundTrip(t *testing.T) {
	b := NewBuilder("sig", 1)
	entry := b.Block()
	b.SetEntry(entry)
	b.Emit(Instr{Op: OpSignalRead, Dst: 0, Signal: 7})
	b.Emit(Instr{Op: OpSignalSchedule, A: RegOperand(0), Signal: 9, Driver: 0, Delay: 1000})
	b.Terminate(Terminator{Kind: TermReturn})
	p := b.Build()

	env := &fakeEnv{signals: map[SignalID]Value{7: Value{'1'}}}
	in := &Interpreter{Env: env}
	frame := NewFrame(p)
	if _, _, _, err := in.Run(p, frame, p.Entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.driven) != 1 || env.driven[0].id != 9 || env.driven[0].v[0] != '1' {
		t.Fatalf("expected signal 9 driven with '1', got %+v", env.driven)
	}
}

func TestTrapAssertFires(t *testing.T) {
	b := NewBuilder("assert", 1)
	entry := b.Block()
	b.SetEntry(entry)
	b.Emit(Instr{Op: OpTrapAssert, B: Imm(Value{0}), Text: "condition false"})
	b.Terminate(Terminator{Kind: TermReturn})
	p := b.Build()

	in := &Interpreter{Env: &fakeEnv{}}
	_, _, _, err := in.Run(p, NewFrame(p), p.Entry)
	trap, ok := err.(*Trap)
	if !ok {
		t.Fatalf("expected *Trap, got %v", err)
	}
	if trap.Message != "condition false" {
		t.Fatalf("trap message = %q", trap.Message)
	}
}

func TestWaitForSuspendsWithTimeout(t *testing.T) {
	b := NewBuilder("waiter", 1)
	entry := b.Block()
	resume := b.Block()
	b.SetEntry(entry)
	b.Switch(entry)
	b.Terminate(Terminator{Kind: TermWaitFor, Timeout: Imm(fromInt64(10_000_000, 8)), Resume: resume})
	b.Switch(resume)
	b.Terminate(Terminator{Kind: TermReturn})
	p := b.Build()

	in := &Interpreter{Env: &fakeEnv{}}
	_, _, wait, err := in.Run(p, NewFrame(p), p.Entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wait == nil || wait.Kind != WaitFor || wait.Timeout != 10_000_000 {
		t.Fatalf("expected WaitFor(10_000_000), got %+v", wait)
	}
}
