package main

import (
	"fmt"

	"nvcgo/internal/ident"
	"nvcgo/internal/kernel"
	"nvcgo/internal/loc"
	"nvcgo/internal/obj"
	"nvcgo/internal/tree"
	"nvcgo/internal/vtype"
)

// buildResult bundles everything analyse/elaborate/run/shell need: the
// tree, its type interner and the root architecture, plus any resolution
// functions the elaborator should use (keyed by signal name).
type buildResult struct {
	tree      *tree.Builder
	types     *vtype.Interner
	root      tree.NodeID
	resolvers map[string]kernel.ResolutionFunc
}

// fixtures stands in for the lexer/parser spec.md §1 places out of
// core scope: rather than parsing a .vhd file, each named fixture builds
// its design unit directly against the tree/vtype APIs, exactly as a
// parser's semantic-analysis pass would hand off a resolved AST to the
// elaborator. `nvc analyse <name>` is the boundary where a real build
// would parse; here it looks a name up in this table instead.
var fixtures = map[string]func() buildResult{
	"counter":     buildCounterFixture,
	"assert_demo": buildAssertFixture,
}

func fixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	return names
}

func lookupFixture(name string) (buildResult, error) {
	build, ok := fixtures[name]
	if !ok {
		return buildResult{}, fmt.Errorf("nvc: no such design unit %q (have: %v)", name, fixtureNames())
	}
	return build(), nil
}

// buildCounterFixture is the running example from spec.md §8 scenario 2:
// an 8-bit signal that increments every 10 ns until it reaches 10, then
// waits forever.
func buildCounterFixture() buildResult {
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
	proc := b.NewProcess(loc.Nowhere, ids.Intern("INCR"), nil, []tree.NodeID{ifStmt})

	entity := b.NewEntity(loc.Nowhere, ids.Intern("COUNTER"), nil, nil)
	arch := b.NewArchitecture(loc.Nowhere, ids.Intern("RTL"), entity, []tree.NodeID{tmp}, []tree.NodeID{proc})

	return buildResult{tree: b, types: types, root: arch}
}

// buildAssertFixture traps on its very first instruction, demonstrating
// the `RuntimeTrap` exit path (§7, §8 scenario 6) without needing any
// signal at all.
func buildAssertFixture() buildResult {
	ids := ident.NewTable()
	types := vtype.NewInterner(ids)

	b := tree.NewBuilder(ids)
	falseLit := b.NewLiteral(loc.Nowhere, obj.Nil, 0, 0, 0, "")
	report := b.NewLiteral(loc.Nowhere, obj.Nil, 2, 0, 0, "demo assertion failure")
	assertStmt := b.NewAssert(loc.Nowhere, falseLit, report, tree.SevFailure)
	proc := b.NewProcess(loc.Nowhere, ids.Intern("FAIL"), nil, []tree.NodeID{assertStmt})

	entity := b.NewEntity(loc.Nowhere, ids.Intern("ASSERT_DEMO"), nil, nil)
	arch := b.NewArchitecture(loc.Nowhere, ids.Intern("RTL"), entity, nil, []tree.NodeID{proc})

	return buildResult{tree: b, types: types, root: arch}
}
