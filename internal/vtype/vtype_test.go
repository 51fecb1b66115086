package vtype

import (
	"testing"

	"nvcgo/internal/ident"
)

func newTestInterner() (*Interner, *ident.Table) {
	ids := ident.NewTable()
	return NewInterner(ids), ids
}

func TestEqSymmetric(t *testing.T) {
	in, ids := newTestInterner()
	a := in.NewInteger(ids.Intern("NATURAL"), 0, 2147483647)
	b := in.NewInteger(ids.Intern("NATURAL"), 0, 2147483647)
	c := in.NewInteger(ids.Intern("POSITIVE"), 1, 2147483647)

	if !in.Eq(a, b) || !in.Eq(b, a) {
		t.Fatalf("expected NATURAL == NATURAL to be symmetric and true")
	}
	if in.Eq(a, c) || in.Eq(c, a) {
		t.Fatalf("expected NATURAL != POSITIVE")
	}
}

func TestLiberalEqUnconstrainedVsConstrained(t *testing.T) {
	in, ids := newTestInterner()
	elem := in.NewEnum(ids.Intern("BIT"), []ident.Ident{ids.Intern("'0'"), ids.Intern("'1'")})
	uarr := in.NewUnconstrainedArray(ids.Intern("BIT_VECTOR"), elem, 1)
	carr := in.NewConstrainedArray(ids.Intern(""), elem, []Range{{Low: 0, High: 7}})

	if !in.LiberalEq(uarr, carr) {
		t.Fatalf("liberal equality must treat constrained/unconstrained array pairs as equal when element types match")
	}
}

func TestLiberalEqIncompleteMatchesAnything(t *testing.T) {
	in, ids := newTestInterner()
	inc := in.NewIncomplete(ids.Intern("NODE"))
	rec := in.NewRecord(ids.Intern("NODE"), nil)
	if !in.LiberalEq(inc, rec) {
		t.Fatalf("INCOMPLETE must liberally equal any completing kind")
	}
}

func TestConvertibleUniversalInteger(t *testing.T) {
	in, ids := newTestInterner()
	universal := in.NewInteger(ids.Intern("universal_integer"), -1<<63, 1<<63-1)
	natural := in.NewInteger(ids.Intern("NATURAL"), 0, 2147483647)
	if !in.Convertible(universal, natural) {
		t.Fatalf("universal_integer must be convertible to a non-universal integer type")
	}
}

func TestPredicatesFollowSubtype(t *testing.T) {
	in, ids := newTestInterner()
	base := in.NewInteger(ids.Intern("INTEGER"), -2147483648, 2147483647)
	sub := in.NewSubtype(ids.Intern("NATURAL"), base, Range{Low: 0, High: 2147483647}, true, NoType)

	if !in.IsScalar(sub) || !in.IsDiscrete(sub) {
		t.Fatalf("subtype of INTEGER must be scalar and discrete")
	}
	if in.IsComposite(sub) {
		t.Fatalf("subtype of INTEGER must not be composite")
	}
}

func TestIsUnconstrained(t *testing.T) {
	in, ids := newTestInterner()
	elem := in.NewInteger(ids.Intern("CHARACTER"), 0, 255)
	uarr := in.NewUnconstrainedArray(ids.Intern("STRING"), elem, 1)
	if !in.IsUnconstrained(uarr) {
		t.Fatalf("bare UARRAY must be unconstrained")
	}
	sub := in.NewSubtype(ids.Intern(""), uarr, Range{Low: 1, High: 10}, true, NoType)
	if in.IsUnconstrained(sub) {
		t.Fatalf("subtype adding a range constraint must not be unconstrained")
	}
}

func TestPrettySubprogram(t *testing.T) {
	in, ids := newTestInterner()
	intT := in.NewInteger(ids.Intern("INTEGER"), -2147483648, 2147483647)
	boolT := in.NewEnum(ids.Intern("BOOLEAN"), []ident.Ident{ids.Intern("FALSE"), ids.Intern("TRUE")})
	fn := in.NewFunc(ids.Intern("\"=\""), []Param{{Name: ids.Intern("L"), Type: intT}, {Name: ids.Intern("R"), Type: intT}}, boolT)

	got := in.Pretty(fn)
	want := `"=" [INTEGER,INTEGER return BOOLEAN]`
	if got != want {
		t.Fatalf("Pretty(fn) = %q, want %q", got, want)
	}
}

func TestParseIntegerLiteral(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"-2147483648", -2147483648, false},
		{"1_2_3", 123, false},
		{"1__2", 0, true},
		{"_1", 0, true},
	}
	for _, c := range cases {
		got, err := ParseIntegerLiteral(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseIntegerLiteral(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseIntegerLiteral(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseIntegerLiteral(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseEnumLiteral(t *testing.T) {
	got, err := ParseEnumLiteral([]string{"A", "B", "C"}, " C  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Fatalf("ordinal = %d, want 2", got)
	}
}

func TestParsePhysicalLiteral(t *testing.T) {
	got, err := ParsePhysicalLiteral("2.5 ns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2_500_000 {
		t.Fatalf("value = %d, want 2500000 fs", got)
	}

	if _, err := ParsePhysicalLiteral("5"); err == nil {
		t.Fatalf("expected error for missing unit")
	}
}

func TestParseBitVectorLiteral(t *testing.T) {
	got, err := ParseBitVectorLiteral(`X"4A"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 1, 0, 0, 1, 0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bit %d = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := ParseBitVectorLiteral(`X"10101h"`); err == nil {
		t.Fatalf("expected error for invalid hex digit")
	}
}
