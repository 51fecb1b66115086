package jit

// Program is one compiled process body or subprogram: a control-flow
// graph of Blocks over a fixed register file, produced by the elaborator
// from a tree.NodeID and consumed by either backend (interp.go, native.go).
type Program struct {
	ID      FuncID
	Name    string
	Blocks  []Block
	Entry   BlockID
	NumRegs int
}

// Block looks up a block by ID, or nil if out of range.
func (p *Program) Block(id BlockID) *Block {
	if int(id) < 0 || int(id) >= len(p.Blocks) {
		return nil
	}
	return &p.Blocks[id]
}

// Builder accumulates Blocks for one Program under construction. The
// elaborator holds one Builder per subprogram/process body it lowers.
type Builder struct {
	prog *Program
	cur  *Block
}

// NewBuilder starts a new Program with the given initial register count.
// The elaborator passes 0 and sets Program.NumRegs after lowering, once
// it knows how many registers the body allocated.
func NewBuilder(name string, numRegs int) *Builder {
	return &Builder{prog: &Program{Name: name, NumRegs: numRegs}}
}

// Block starts a new basic block and makes it current, returning its ID.
func (b *Builder) Block() BlockID {
	id := BlockID(len(b.prog.Blocks))
	b.prog.Blocks = append(b.prog.Blocks, Block{ID: id})
	b.cur = &b.prog.Blocks[id]
	return id
}

// SetEntry marks id as the Program's entry block.
func (b *Builder) SetEntry(id BlockID) { b.prog.Entry = id }

// Emit appends instr to the current block.
func (b *Builder) Emit(instr Instr) {
	b.cur.Instrs = append(b.cur.Instrs, instr)
}

// Terminate sets the current block's terminator. A block may be
// terminated only once; callers must start a fresh Block() afterward.
func (b *Builder) Terminate(term Terminator) {
	b.cur.Term = term
}

// Switch moves the insertion point to an already-built block, used when
// lowering loops that must append to a block created earlier.
func (b *Builder) Switch(id BlockID) {
	b.cur = &b.prog.Blocks[id]
}

// Build finalizes and returns the Program.
func (b *Builder) Build() *Program {
	return b.prog
}
