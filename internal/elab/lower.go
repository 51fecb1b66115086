package elab

import (
	"nvcgo/internal/jit"
	"nvcgo/internal/tree"
)

// lowerCtx accumulates one process body's registers while lowering its
// statement list into a jit.Program, mirroring the teacher's per-function
// lowering state in internal/mir/lower.go (one Builder, one local-register
// allocator, walked statement by statement).
type lowerCtx struct {
	e       *Elaborator
	b       *jit.Builder
	regs    map[string]jit.Reg
	driver  map[string]int
	nextReg jit.Reg
}

func (c *lowerCtx) allocReg() jit.Reg {
	r := c.nextReg
	c.nextReg++
	return r
}

func (c *lowerCtx) driverFor(name string) int {
	if idx, ok := c.driver[name]; ok {
		return idx
	}
	info := c.e.signals[name]
	idx := info.driven
	info.driven++
	c.driver[name] = idx
	return idx
}

// lowerProcess compiles one process body into a standalone jit.Program.
// The program's entry block runs once at simulation start; every TermWait*
// it reaches becomes a fresh resumption point the elaborator's jitProcess
// wrapper (runtime.go) tracks across Resume calls.
func (e *Elaborator) lowerProcess(proc tree.NodeID) (*jit.Program, error) {
	name, _ := e.tree.Name(proc)
	label := "process"
	if name.IsValid() {
		label = e.tree.Idc.StringOf(name)
	}

	b := jit.NewBuilder(label, 0)
	ctx := &lowerCtx{e: e, b: b, regs: make(map[string]jit.Reg), driver: make(map[string]int)}
	entry := b.Block()
	b.SetEntry(entry)

	final, err := ctx.lowerStmts(e.tree.Statements(proc), entry)
	if err != nil {
		return nil, err
	}

	// A VHDL process body loops forever (LRM §11.3): reaching the end of
	// its statement list restarts execution at the top. A process with an
	// explicit sensitivity list (`process(a, b)`) additionally carries an
	// implicit trailing `wait on a, b;`, synthesized here rather than
	// requiring the body to spell it out. A process with neither a
	// sensitivity list nor any wait along its body is a legal but
	// non-terminating design, same as in real VHDL; this core does not
	// special-case it.
	b.Switch(final)
	if sens := e.tree.Sensitivity(proc); len(sens) > 0 {
		signals := make([]jit.SignalID, 0, len(sens))
		for _, s := range sens {
			name, ok := ctx.signalName(s)
			if !ok {
				return nil, &Error{Kind: ErrUnresolvedName, Name: "process sensitivity clause"}
			}
			info, ok := e.signals[name]
			if !ok {
				return nil, &Error{Kind: ErrUnresolvedName, Name: name}
			}
			signals = append(signals, jit.SignalID(info.id))
		}
		resume := b.Block()
		b.Switch(final)
		b.Terminate(jit.Terminator{Kind: jit.TermWaitOn, Signals: signals, Resume: resume})
		b.Switch(resume)
		b.Terminate(jit.Terminator{Kind: jit.TermGoto, Target: entry})
	} else {
		b.Terminate(jit.Terminator{Kind: jit.TermGoto, Target: entry})
	}

	prog := b.Build()
	prog.NumRegs = int(ctx.nextReg)
	prog.ID = registerFrame(e.tree.Idc.Intern(e.UnitName), e.tree.Idc.Intern(label))
	return prog, nil
}

// lowerStmts lowers stmts in order, starting emission into cur, and
// returns the block execution falls through to afterward (the merge
// block of the last `if`, or cur itself if no branching occurred).
func (c *lowerCtx) lowerStmts(stmts []tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	for _, stmt := range stmts {
		next, err := c.lowerStmt(stmt, cur)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	return cur, nil
}

func (c *lowerCtx) lowerStmt(stmt tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	t := c.e.tree
	switch t.KindOf(stmt) {
	case tree.KindSignalAssign:
		return c.lowerSignalAssign(stmt, cur)
	case tree.KindAssert:
		return c.lowerAssert(stmt, cur)
	case tree.KindWait:
		return c.lowerWait(stmt, cur)
	case tree.KindIf:
		return c.lowerIf(stmt, cur)
	case tree.KindNullStmt:
		return cur, nil
	default:
		return 0, &Error{Kind: ErrUnresolvedName, Name: "statement kind not yet lowered in this core"}
	}
}

func (c *lowerCtx) lowerSignalAssign(stmt tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	t := c.e.tree
	target := t.AssignTarget(stmt)
	targetName, ok := c.signalName(target)
	if !ok {
		return 0, &Error{Kind: ErrUnresolvedName, Name: "signal assignment target"}
	}
	info, ok := c.e.signals[targetName]
	if !ok {
		return 0, &Error{Kind: ErrUnresolvedName, Name: targetName}
	}

	waveform := t.Waveform(stmt)
	if len(waveform) == 0 {
		return cur, nil
	}
	elem := waveform[0] // multi-element waveforms beyond the first are a future extension

	c.b.Switch(cur)
	val, err := c.lowerExpr(elem.Value, cur)
	if err != nil {
		return 0, err
	}
	var delay int64
	if elem.After.IsValid() {
		after, err := c.lowerExpr(elem.After, cur)
		if err != nil {
			return 0, err
		}
		if after.IsImm {
			delay = toInt64(after.Imm)
		}
	}
	c.b.Emit(jit.Instr{
		Op:     jit.OpSignalSchedule,
		A:      val,
		Signal: jit.SignalID(info.id),
		Driver: c.driverFor(targetName),
		Delay:  delay,
	})
	return cur, nil
}

func (c *lowerCtx) lowerAssert(stmt tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	t := c.e.tree
	c.b.Switch(cur)
	cond, err := c.lowerExpr(t.Sub(stmt), cur)
	if err != nil {
		return 0, err
	}
	msg := "Assertion violation."
	if report := t.AssertReport(stmt); report.IsValid() && t.KindOf(report) == tree.KindLiteral {
		if text, ok := c.literalText(report); ok {
			msg = text
		}
	}
	c.b.Emit(jit.Instr{Op: jit.OpTrapAssert, B: cond, Text: msg, Offset: int(t.AssertSeverity(stmt))})
	return cur, nil
}

func (c *lowerCtx) lowerWait(stmt tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	t := c.e.tree
	c.b.Switch(cur)

	resume := c.b.Block()

	sens := t.Sensitivity(stmt)
	timeout := t.WaitTimeout(stmt)

	c.b.Switch(cur)
	switch {
	case len(sens) > 0:
		signals := make([]jit.SignalID, 0, len(sens))
		for _, s := range sens {
			name, ok := c.signalName(s)
			if !ok {
				return 0, &Error{Kind: ErrUnresolvedName, Name: "wait sensitivity clause"}
			}
			info, ok := c.e.signals[name]
			if !ok {
				return 0, &Error{Kind: ErrUnresolvedName, Name: name}
			}
			signals = append(signals, jit.SignalID(info.id))
		}
		c.b.Terminate(jit.Terminator{Kind: jit.TermWaitOn, Signals: signals, Resume: resume})
	case timeout.IsValid():
		to, err := c.lowerExpr(timeout, cur)
		if err != nil {
			return 0, err
		}
		c.b.Terminate(jit.Terminator{Kind: jit.TermWaitFor, Timeout: to, Resume: resume})
	default:
		c.b.Terminate(jit.Terminator{Kind: jit.TermWaitForever})
	}

	return resume, nil
}

func (c *lowerCtx) lowerIf(stmt tree.NodeID, cur jit.BlockID) (jit.BlockID, error) {
	t := c.e.tree
	c.b.Switch(cur)
	cond, err := c.lowerExpr(t.Sub(stmt), cur)
	if err != nil {
		return 0, err
	}

	thenBB := c.b.Block()
	elseBB := c.b.Block()
	merge := c.b.Block()

	c.b.Switch(cur)
	c.b.Terminate(jit.Terminator{Kind: jit.TermIf, Cond: cond, Then: thenBB, Else: elseBB})

	thenEnd, err := c.lowerStmts(t.ThenStatements(stmt), thenBB)
	if err != nil {
		return 0, err
	}
	c.b.Switch(thenEnd)
	c.b.Terminate(jit.Terminator{Kind: jit.TermGoto, Target: merge})

	elseEnd, err := c.lowerStmts(t.ElseStatements(stmt), elseBB)
	if err != nil {
		return 0, err
	}
	c.b.Switch(elseEnd)
	c.b.Terminate(jit.Terminator{Kind: jit.TermGoto, Target: merge})

	return merge, nil
}

// lowerExpr lowers an expression to a jit.Operand, emitting any
// instructions it needs into the block currently selected on c.b.
func (c *lowerCtx) lowerExpr(expr tree.NodeID, cur jit.BlockID) (jit.Operand, error) {
	t := c.e.tree
	switch t.KindOf(expr) {
	case tree.KindLiteral:
		width := 4
		if typ := t.TypeOf(expr); typ.IsValid() {
			if n, err := c.e.layout.SizeOf(typ); err == nil && n > 0 {
				width = n
			}
		}
		return jit.Imm(fromInt64Bytes(t.LiteralInt(expr), width)), nil

	case tree.KindNameRef:
		name, ok := c.signalName(expr)
		if !ok {
			return jit.Operand{}, &Error{Kind: ErrUnresolvedName, Name: "name reference"}
		}
		if info, ok := c.e.signals[name]; ok {
			r := c.allocReg()
			c.b.Switch(cur)
			c.b.Emit(jit.Instr{Op: jit.OpSignalRead, Dst: r, Signal: jit.SignalID(info.id)})
			return jit.RegOperand(r), nil
		}
		if r, ok := c.regs[name]; ok {
			return jit.RegOperand(r), nil
		}
		return jit.Operand{}, &Error{Kind: ErrUnresolvedName, Name: name}

	case tree.KindBinOp:
		op, lhs, rhs := t.BinOpOf(expr)
		a, err := c.lowerExpr(lhs, cur)
		if err != nil {
			return jit.Operand{}, err
		}
		b, err := c.lowerExpr(rhs, cur)
		if err != nil {
			return jit.Operand{}, err
		}
		jop, ok := binOpToJit(op)
		if !ok {
			return jit.Operand{}, &Error{Kind: ErrUnresolvedName, Name: "binary operator not yet lowered"}
		}
		r := c.allocReg()
		c.b.Switch(cur)
		c.b.Emit(jit.Instr{Op: jop, Dst: r, A: a, B: b})
		return jit.RegOperand(r), nil

	default:
		return jit.Operand{}, &Error{Kind: ErrUnresolvedName, Name: "expression kind not yet lowered in this core"}
	}
}

func binOpToJit(op tree.BinOp) (jit.Op, bool) {
	switch op {
	case tree.OpAdd:
		return jit.OpAdd, true
	case tree.OpSub:
		return jit.OpSub, true
	case tree.OpMul:
		return jit.OpMul, true
	case tree.OpDiv:
		return jit.OpDiv, true
	case tree.OpMod, tree.OpRem:
		return jit.OpMod, true
	case tree.OpEq:
		return jit.OpCmpEq, true
	case tree.OpNeq:
		return jit.OpCmpNe, true
	case tree.OpLt:
		return jit.OpCmpLt, true
	case tree.OpLe:
		return jit.OpCmpLe, true
	case tree.OpGt:
		return jit.OpCmpGt, true
	case tree.OpGe:
		return jit.OpCmpGe, true
	case tree.OpAnd:
		return jit.OpAnd, true
	case tree.OpOr:
		return jit.OpOr, true
	case tree.OpXor:
		return jit.OpXor, true
	default:
		return 0, false
	}
}

func (c *lowerCtx) signalName(ref tree.NodeID) (string, bool) {
	t := c.e.tree
	if t.KindOf(ref) != tree.KindNameRef {
		return "", false
	}
	name, ok := t.Name(ref)
	if !ok {
		return "", false
	}
	return t.Idc.StringOf(name), true
}

func (c *lowerCtx) literalText(lit tree.NodeID) (string, bool) {
	v, ok := c.e.tree.Store.GetItem(lit, tree.SlotText)
	if !ok || v.Text == "" {
		return "", false
	}
	return v.Text, true
}
