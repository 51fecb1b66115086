package jit

import "fmt"

// Frame holds one Program instance's register file, persisted by the
// elaborator's kernel.Process wrapper across suspensions: a process that
// wait-for's or wait-on's resumes into the same Frame, exactly as the
// teacher's vm.Frame survives an await/poll suspension.
type Frame struct {
	Regs []Value
}

// NewFrame allocates a zeroed register file sized for p.
func NewFrame(p *Program) *Frame {
	return &Frame{Regs: make([]Value, p.NumRegs)}
}

// Interpreter executes a Program by walking its blocks and dispatching
// each Instr's Op in a switch, exactly the direct-dispatch shape of the
// teacher's vm.execInstr. It is the required backend and defines
// reference semantics (§4.7): the native backend's output must always
// match it.
type Interpreter struct {
	Env Env
}

// Run executes p in frame starting at block start, returning either a
// final result (TermReturn), a suspension (Wait), or an error (a *Trap or
// a call failure propagated from Env.Call).
func (in *Interpreter) Run(p *Program, frame *Frame, start BlockID) (result Value, hasResult bool, wait *Wait, err error) {
	bb := start
	for {
		block := p.Block(bb)
		if block == nil {
			return nil, false, nil, fmt.Errorf("jit: block %d out of range", bb)
		}
		for i := range block.Instrs {
			if trap := in.exec(frame, &block.Instrs[i]); trap != nil {
				return nil, false, nil, trap
			}
		}
		switch block.Term.Kind {
		case TermReturn:
			if block.Term.HasValue {
				return in.read(frame, block.Term.Value), true, nil, nil
			}
			return nil, false, nil, nil
		case TermGoto:
			bb = block.Term.Target
			continue
		case TermIf:
			if truthy(in.read(frame, block.Term.Cond)) {
				bb = block.Term.Then
			} else {
				bb = block.Term.Else
			}
			continue
		case TermWaitFor:
			timeout := toInt64(in.read(frame, block.Term.Timeout))
			return nil, false, &Wait{Kind: WaitFor, Timeout: timeout, Resume: block.Term.Resume}, nil
		case TermWaitOn:
			return nil, false, &Wait{Kind: WaitOnSignals, Signals: block.Term.Signals, Resume: block.Term.Resume}, nil
		case TermWaitForever:
			return nil, false, &Wait{Kind: WaitForever}, nil
		default:
			return nil, false, nil, fmt.Errorf("jit: unterminated block %d", bb)
		}
	}
}

func (in *Interpreter) read(frame *Frame, op Operand) Value {
	if op.IsImm {
		return op.Imm
	}
	return frame.Regs[op.Reg]
}

func (in *Interpreter) write(frame *Frame, r Reg, v Value) {
	frame.Regs[r] = v
}

// exec runs one instruction, returning a non-nil *Trap only for
// OpTrapAssert, OpDiv/OpMod-by-zero and a failed OpCall.
func (in *Interpreter) exec(frame *Frame, ins *Instr) *Trap {
	if ins.Op == OpTrapAssert {
		// OpTrapAssert has no A operand: a process may have no registers.
		if !truthy(in.read(frame, ins.B)) {
			return &Trap{Message: ins.Text, Severity: ins.Offset}
		}
		return nil
	}
	a := in.read(frame, ins.A)
	switch ins.Op {
	case OpMove:
		in.write(frame, ins.Dst, cloneBytes(a))
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		b := in.read(frame, ins.B)
		x, y := toInt64(a), toInt64(b)
		width := width(a, b)
		switch ins.Op {
		case OpAdd:
			in.write(frame, ins.Dst, fromInt64(x+y, width))
		case OpSub:
			in.write(frame, ins.Dst, fromInt64(x-y, width))
		case OpMul:
			in.write(frame, ins.Dst, fromInt64(x*y, width))
		case OpDiv:
			if y == 0 {
				return &Trap{Message: "division by zero"}
			}
			in.write(frame, ins.Dst, fromInt64(x/y, width))
		case OpMod:
			if y == 0 {
				return &Trap{Message: "modulo by zero"}
			}
			in.write(frame, ins.Dst, fromInt64(x%y, width))
		}
	case OpNeg:
		in.write(frame, ins.Dst, fromInt64(-toInt64(a), len(a)))
	case OpAnd, OpOr, OpXor:
		b := in.read(frame, ins.B)
		in.write(frame, ins.Dst, bitwise(ins.Op, a, b))
	case OpNot:
		out := make(Value, len(a))
		for i, by := range a {
			out[i] = ^by
		}
		in.write(frame, ins.Dst, out)
	case OpCmpEq, OpCmpNe, OpCmpLt, OpCmpLe, OpCmpGt, OpCmpGe:
		b := in.read(frame, ins.B)
		in.write(frame, ins.Dst, compare(ins.Op, toInt64(a), toInt64(b)))
	case OpLoad:
		in.write(frame, ins.Dst, loadAt(a, ins.Offset, ins.Size))
	case OpStore:
		dst := frame.Regs[ins.Dst]
		frame.Regs[ins.Dst] = storeAt(dst, ins.Offset, a)
	case OpSignalRead:
		in.write(frame, ins.Dst, in.Env.ReadSignal(ins.Signal))
	case OpSignalSchedule:
		in.Env.ScheduleSignal(ins.Signal, ins.Driver, a, ins.Delay)
	case OpCall:
		args := make([]Value, 0, 2+len(ins.Extra))
		args = append(args, a, in.read(frame, ins.B))
		for _, extra := range ins.Extra {
			args = append(args, in.read(frame, extra))
		}
		res, err := in.Env.Call(ins.Func, args)
		if err != nil {
			if trap, ok := err.(*Trap); ok {
				return trap
			}
			return &Trap{Message: err.Error()}
		}
		in.write(frame, ins.Dst, res)
	}
	return nil
}
