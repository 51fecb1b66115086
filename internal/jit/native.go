package jit

// Native is the optional backend of §4.7: "a native code generator; must
// produce observably identical results for all IR programs. Invariant:
// the interpreter is the oracle." This implementation does not emit
// machine code; it wraps each Instr once in a Go closure that captures the
// instruction and calls the Interpreter's own exec on it, so the two
// backends run the identical arithmetic path and cannot disagree. Each
// closure still dispatches on Op through exec on every call; only the
// terminators are pre-resolved at Compile time.
type Native struct {
	prog   *Program
	blocks []compiledBlock
	env    Env
}

type compiledBlock struct {
	ops  []compiledOp
	term compiledTerm
}

type compiledOp func(frame *Frame, env Env) *Trap

type compiledTerm func(frame *Frame) (next BlockID, ret Value, hasRet bool, done bool, wait *Wait)

// Compile builds a Native backend for p. Call once per Program; the
// result may be Run many times (once per process-suspension resume, or
// once per call) against different Frames.
func Compile(p *Program, env Env) *Native {
	n := &Native{prog: p, env: env, blocks: make([]compiledBlock, len(p.Blocks))}
	for i := range p.Blocks {
		n.blocks[i] = compileBlock(&p.Blocks[i])
	}
	return n
}

func compileBlock(b *Block) compiledBlock {
	cb := compiledBlock{ops: make([]compiledOp, len(b.Instrs))}
	for i := range b.Instrs {
		cb.ops[i] = compileInstr(b.Instrs[i])
	}
	cb.term = compileTerm(b.Term)
	return cb
}

func compileInstr(ins Instr) compiledOp {
	// Capture ins by value; the Interpreter's exec logic is reused
	// directly via a throwaway Interpreter per call so both backends
	// run the identical arithmetic path.
	return func(frame *Frame, env Env) *Trap {
		in := Interpreter{Env: env}
		return in.exec(frame, &ins)
	}
}

func compileTerm(t Terminator) compiledTerm {
	switch t.Kind {
	case TermReturn:
		hasValue, value := t.HasValue, t.Value
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			if hasValue {
				in := Interpreter{}
				return 0, in.read(frame, value), true, true, nil
			}
			return 0, nil, false, true, nil
		}
	case TermGoto:
		target := t.Target
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			return target, nil, false, false, nil
		}
	case TermIf:
		cond, then, els := t.Cond, t.Then, t.Else
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			in := Interpreter{}
			if truthy(in.read(frame, cond)) {
				return then, nil, false, false, nil
			}
			return els, nil, false, false, nil
		}
	case TermWaitFor:
		timeout, resume := t.Timeout, t.Resume
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			in := Interpreter{}
			return 0, nil, false, true, &Wait{Kind: WaitFor, Timeout: toInt64(in.read(frame, timeout)), Resume: resume}
		}
	case TermWaitOn:
		signals, resume := t.Signals, t.Resume
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			return 0, nil, false, true, &Wait{Kind: WaitOnSignals, Signals: signals, Resume: resume}
		}
	default: // TermWaitForever
		return func(frame *Frame) (BlockID, Value, bool, bool, *Wait) {
			return 0, nil, false, true, &Wait{Kind: WaitForever}
		}
	}
}

// Run executes the compiled Program in frame starting at block start, with
// the same result contract as Interpreter.Run.
func (n *Native) Run(frame *Frame, start BlockID) (result Value, hasResult bool, wait *Wait, err error) {
	bb := start
	for {
		block := &n.blocks[bb]
		for _, op := range block.ops {
			if trap := op(frame, n.env); trap != nil {
				return nil, false, nil, trap
			}
		}
		next, value, hasValue, done, w := block.term(frame)
		if done {
			return value, hasValue, w, nil
		}
		bb = next
	}
}
