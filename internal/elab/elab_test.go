package elab

import (
	"testing"

	"nvcgo/internal/ident"
	"nvcgo/internal/jit"
	"nvcgo/internal/kernel"
	"nvcgo/internal/loc"
	"nvcgo/internal/obj"
	"nvcgo/internal/tree"
	"nvcgo/internal/vtype"
)

// buildCounterDesign builds the scenario-2 design of spec.md §8: a single
// process that increments an 8-bit signal every 10 ns, stopping once it
// reaches 10, then waiting forever.
func buildCounterDesign(t *testing.T) (*tree.Builder, *vtype.Interner, tree.NodeID) {
	ids := ident.NewTable()
	types := vtype.NewInterner(ids)
	byteType := types.NewInteger(ids.Intern("BYTE"), 0, 255)

	b := tree.NewBuilder(ids)

	tmp := b.NewSignalDecl(loc.Nowhere, ids.Intern("TMP"), byteType, tree.NoNode)
	tmpRef := b.NewNameRef(loc.Nowhere, ids.Intern("TMP"), tmp)
	one := b.NewLiteral(loc.Nowhere, byteType, 0, 1, 0, "")
	ten := b.NewLiteral(loc.Nowhere, byteType, 0, 10, 0, "")
	tenNs := b.NewLiteral(loc.Nowhere, obj.Nil, 0, 10_000_000, 0, "")

	cond := b.NewBinOp(loc.Nowhere, tree.OpLt, tmpRef, ten)
	sum := b.NewBinOp(loc.Nowhere, tree.OpAdd, tmpRef, one)
	assign := b.NewSignalAssign(loc.Nowhere, tmpRef, []tree.WaveElem{{Value: sum, After: tree.NoNode}})
	waitFor := b.NewWait(loc.Nowhere, nil, tree.NoNode, tenNs)
	waitForever := b.NewWait(loc.Nowhere, nil, tree.NoNode, tree.NoNode)

	ifStmt := b.NewIf(loc.Nowhere, cond, []tree.NodeID{assign, waitFor}, []tree.NodeID{waitForever})
	proc := b.NewProcess(loc.Nowhere, ident.None, nil, []tree.NodeID{ifStmt})

	entity := b.NewEntity(loc.Nowhere, ids.Intern("COUNTER"), nil, nil)
	arch := b.NewArchitecture(loc.Nowhere, ids.Intern("RTL"), entity, []tree.NodeID{tmp}, []tree.NodeID{proc})

	return b, types, arch
}

func TestElaborateCounterProducesTenChanges(t *testing.T) {
	b, types, arch := buildCounterDesign(t)
	e := NewElaborator(b, types)

	design, err := e.Elaborate(arch, nil)
	if err != nil {
		t.Fatalf("elaborate: %v", err)
	}

	sig, ok := design.Signals["TMP"]
	if !ok {
		t.Fatalf("signal TMP not allocated")
	}

	var changes []kernel.Value
	design.Kernel.Watch(sig, func(at kernel.Time, d kernel.Delta, v kernel.Value) {
		changes = append(changes, append(kernel.Value(nil), v...))
	})

	if err := design.Kernel.Run(100_000_000); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(changes) != 10 {
		t.Fatalf("expected 10 value-change events, got %d", len(changes))
	}
	for i, v := range changes {
		if int(v[0]) != i+1 {
			t.Fatalf("change %d = %d, want %d", i, v[0], i+1)
		}
	}
}

// buildFailingDesign builds a one-process design that traps on its very
// first instruction, mirroring cmd/nvc's assert_demo fixture.
func buildFailingDesign(t *testing.T) (*tree.Builder, *vtype.Interner, tree.NodeID) {
	ids := ident.NewTable()
	types := vtype.NewInterner(ids)
	b := tree.NewBuilder(ids)

	falseLit := b.NewLiteral(loc.Nowhere, obj.Nil, 0, 0, 0, "")
	report := b.NewLiteral(loc.Nowhere, obj.Nil, 2, 0, 0, "demo assertion failure")
	assertStmt := b.NewAssert(loc.Nowhere, falseLit, report, tree.SevFailure)
	proc := b.NewProcess(loc.Nowhere, ids.Intern("FAIL"), nil, []tree.NodeID{assertStmt})

	entity := b.NewEntity(loc.Nowhere, ids.Intern("ASSERT_DEMO"), nil, nil)
	arch := b.NewArchitecture(loc.Nowhere, ids.Intern("RTL"), entity, nil, []tree.NodeID{proc})
	return b, types, arch
}

func TestTrapCarriesResolvableDebugFrame(t *testing.T) {
	b, types, arch := buildFailingDesign(t)
	e := NewElaborator(b, types)
	e.UnitName = "assert_demo"

	design, err := e.Elaborate(arch, nil)
	if err != nil {
		t.Fatalf("elaborate: %v", err)
	}

	err = design.Kernel.Run(1_000_000_000)
	trap, ok := err.(*kernel.Trap)
	if !ok {
		t.Fatalf("expected *kernel.Trap, got %v (%T)", err, err)
	}
	if trap.Kind != kernel.TrapAssertFailure {
		t.Fatalf("trap kind = %v, want TrapAssertFailure", trap.Kind)
	}
	if trap.Frame == 0 {
		t.Fatalf("trap.Frame not set; jitProcess.Resume did not attach the registered frame id")
	}

	unit, proc, ok := DescribeFrame(design.Idc, jit.FuncID(trap.Frame))
	if !ok {
		t.Fatalf("DescribeFrame could not resolve trap.Frame=%d", trap.Frame)
	}
	if unit != "assert_demo" || proc != "FAIL" {
		t.Fatalf("DescribeFrame = (%q, %q), want (\"assert_demo\", \"FAIL\")", unit, proc)
	}
}

func TestElaborateRejectsNonArchitecture(t *testing.T) {
	b, types, arch := buildCounterDesign(t)
	e := NewElaborator(b, types)
	entity := b.TypeOf(arch) // an entity, not an architecture
	if _, err := e.Elaborate(entity, nil); err == nil {
		t.Fatalf("expected a TypeMismatch error")
	}
}
