package layout

import (
	"testing"

	"nvcgo/internal/ident"
	"nvcgo/internal/vtype"
)

func setup() (*vtype.Interner, *Engine, *ident.Table) {
	ids := ident.NewTable()
	in := vtype.NewInterner(ids)
	return in, New(in), ids
}

func TestScalarIntegerLayout(t *testing.T) {
	in, e, ids := setup()
	natural := in.NewInteger(ids.Intern("NATURAL"), 0, 255)
	l, err := e.LayoutOf(natural)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Size != 1 || l.Align != 1 {
		t.Fatalf("0..255 integer layout = %+v, want size=1 align=1", l)
	}
}

func TestRealLayoutIsEightBytes(t *testing.T) {
	in, e, ids := setup()
	real := in.NewReal(ids.Intern("REAL"), -1e300, 1e300)
	l, err := e.LayoutOf(real)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Size != 8 || l.Align != 8 {
		t.Fatalf("real layout = %+v, want size=8 align=8", l)
	}
}

func TestConstrainedArrayLayout(t *testing.T) {
	in, e, ids := setup()
	bit := in.NewEnum(ids.Intern("BIT"), []ident.Ident{ids.Intern("'0'"), ids.Intern("'1'")})
	arr := in.NewConstrainedArray(ids.Intern(""), bit, []vtype.Range{{Low: 0, High: 7}})
	l, err := e.LayoutOf(arr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Size != 8 {
		t.Fatalf("8-bit bit array layout size = %d, want 8", l.Size)
	}
	if len(l.Parts) != 1 || l.Parts[0].Repeat != 8 || l.Parts[0].Class != ClassData {
		t.Fatalf("unexpected parts: %+v", l.Parts)
	}
}

func TestUnconstrainedArrayLayoutHasExternalAndBounds(t *testing.T) {
	in, e, ids := setup()
	ch := in.NewInteger(ids.Intern("CHARACTER"), 0, 255)
	str := in.NewUnconstrainedArray(ids.Intern("STRING"), ch, 1)
	l, err := e.LayoutOf(str)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Parts) != 2 || l.Parts[0].Class != ClassExternal || l.Parts[1].Class != ClassBounds {
		t.Fatalf("unexpected parts: %+v", l.Parts)
	}
	if l.Parts[1].Repeat != 2 {
		t.Fatalf("bounds repeat = %d, want 2 (2*ndims for ndims=1)", l.Parts[1].Repeat)
	}
}

func TestConstrainedSubtypeOfUnconstrainedReducesToBase(t *testing.T) {
	in, e, ids := setup()
	ch := in.NewInteger(ids.Intern("CHARACTER"), 0, 255)
	str := in.NewUnconstrainedArray(ids.Intern("STRING"), ch, 1)
	sub := in.NewSubtype(ids.Intern(""), str, vtype.Range{Low: 1, High: 10}, true, vtype.NoType)

	l1, err := e.LayoutOf(str)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l2, err := e.LayoutOf(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l1.Size != l2.Size || len(l1.Parts) != len(l2.Parts) {
		t.Fatalf("constrained subtype of unconstrained array must reduce to base layout: %+v vs %+v", l1, l2)
	}
}

func TestRecordLayoutAlignsFields(t *testing.T) {
	in, e, ids := setup()
	byteT := in.NewInteger(ids.Intern("BYTE"), 0, 255)
	wordT := in.NewInteger(ids.Intern("WORD"), 0, 65535)
	rec := in.NewRecord(ids.Intern("PAIR"), []vtype.RecordField{
		{Name: ids.Intern("A"), Type: byteT},
		{Name: ids.Intern("B"), Type: wordT},
	})
	l, err := e.LayoutOf(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Align != pointerAlign {
		t.Fatalf("record overall alignment = %d, want %d", l.Align, pointerAlign)
	}
	if len(l.Parts) != 2 || l.Parts[0].Offset != 0 || l.Parts[1].Offset != 2 {
		t.Fatalf("unexpected field offsets: %+v", l.Parts)
	}
}

func TestLayoutIsReferentiallyStable(t *testing.T) {
	in, e, ids := setup()
	natural := in.NewInteger(ids.Intern("NATURAL"), 0, 255)
	l1, _ := e.LayoutOf(natural)
	l2, _ := e.LayoutOf(natural)
	if l1.Size != l2.Size || l1.Align != l2.Align || len(l1.Parts) != len(l2.Parts) {
		t.Fatalf("layout_of must be referentially stable across calls")
	}
}

func TestPlainAndSignalLayoutCachesDoNotCollide(t *testing.T) {
	// encodeCacheKey packs the Signal flavor into the key alongside the
	// type handle; LayoutOf and SignalLayoutOf on the same type must not
	// read back each other's cached entry.
	in, e, ids := setup()
	bit := in.NewInteger(ids.Intern("BIT"), 0, 1)

	plain, err := e.LayoutOf(bit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, err := e.SignalLayoutOf(bit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plain.Parts) == len(sig.Parts) {
		t.Fatalf("plain and signal layouts unexpectedly identical: %+v vs %+v", plain, sig)
	}

	// Re-fetch both, now served from cache, and confirm they still differ.
	plain2, _ := e.LayoutOf(bit)
	sig2, _ := e.SignalLayoutOf(bit)
	if len(plain2.Parts) != len(plain.Parts) || len(sig2.Parts) != len(sig.Parts) {
		t.Fatalf("cached layouts changed shape: plain %+v->%+v, signal %+v->%+v", plain, plain2, sig, sig2)
	}
}

func TestSignalLayoutOfHomogeneousAddsOffsetPart(t *testing.T) {
	in, e, ids := setup()
	bit := in.NewInteger(ids.Intern("BIT"), 0, 1)
	l, err := e.SignalLayoutOf(bit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Parts) != 2 || l.Parts[0].Class != ClassExternal || l.Parts[1].Class != ClassOffset {
		t.Fatalf("unexpected signal layout parts: %+v", l.Parts)
	}
}
