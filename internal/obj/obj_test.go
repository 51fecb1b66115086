package obj

import (
	"bytes"
	"testing"

	"nvcgo/internal/ident"
	"nvcgo/internal/loc"
)

const (
	kindIncomplete Kind = 1
	kindInteger    Kind = 2
	kindRecord     Kind = 3
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.Declare(TagType, kindIncomplete, Schema{
		Name:       "incomplete",
		Slots:      Mask(SlotIdent),
		VisitOrder: []Slot{SlotIdent},
	})
	r.Declare(TagType, kindInteger, Schema{
		Name:       "integer",
		Slots:      Mask(SlotIdent, SlotInt64),
		VisitOrder: []Slot{SlotIdent, SlotInt64},
	})
	r.Declare(TagType, kindRecord, Schema{
		Name:       "record",
		Slots:      Mask(SlotIdent, SlotArray),
		VisitOrder: []Slot{SlotIdent, SlotArray},
	})
	r.AllowTransition(TagType, kindIncomplete, kindInteger)
	return r
}

func TestNewGetSetItem(t *testing.T) {
	s := NewStore(testRegistry())
	ids := ident.NewTable()
	name := ids.Intern("COUNTER")

	h := s.New(TagType, kindInteger, loc.Nowhere)
	s.SetItem(h, SlotIdent, IdentValue(name))
	s.SetItem(h, SlotInt64, Int64Value(255))

	v, ok := s.GetItem(h, SlotIdent)
	if !ok || v.Id != name {
		t.Fatalf("ident round trip failed: %+v %v", v, ok)
	}
	v, ok = s.GetItem(h, SlotInt64)
	if !ok || v.I64 != 255 {
		t.Fatalf("int64 round trip failed: %+v %v", v, ok)
	}
}

func TestSetItemIllegalSlotPanics(t *testing.T) {
	s := NewStore(testRegistry())
	h := s.New(TagType, kindIncomplete, loc.Nowhere)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected SchemaError panic")
		} else if _, ok := r.(*SchemaError); !ok {
			t.Fatalf("expected *SchemaError, got %T", r)
		}
	}()
	s.SetItem(h, SlotInt64, Int64Value(1))
}

func TestRetagAllowList(t *testing.T) {
	s := NewStore(testRegistry())
	h := s.New(TagType, kindIncomplete, loc.Nowhere)
	if err := s.Retag(h, kindRecord); err == nil {
		t.Fatalf("expected KindTransitionError for undeclared transition")
	}
	if err := s.Retag(h, kindInteger); err != nil {
		t.Fatalf("expected allowed transition to succeed: %v", err)
	}
	obj, _ := s.Get(h)
	if obj.Kind != kindInteger {
		t.Fatalf("kind did not change")
	}
}

func TestFreezeBlocksMutation(t *testing.T) {
	s := NewStore(testRegistry())
	h := s.New(TagType, kindInteger, loc.Nowhere)
	s.Freeze()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic mutating frozen arena")
		}
	}()
	s.SetItem(h, SlotInt64, Int64Value(1))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	s := NewStore(testRegistry())
	ids := ident.NewTable()

	root := s.New(TagType, kindRecord, loc.Nowhere)
	s.SetItem(root, SlotIdent, IdentValue(ids.Intern("POINT")))
	fieldA := s.New(TagType, kindInteger, loc.Nowhere)
	s.SetItem(fieldA, SlotIdent, IdentValue(ids.Intern("X")))
	s.SetItem(fieldA, SlotInt64, Int64Value(8))
	s.SetItem(root, SlotArray, ArrayValue(ElemObj, []ArrayElem{{Obj: fieldA}}))

	var buf bytes.Buffer
	res := &noopResolver{}
	if err := s.Serialize(root, &buf, 0xABCD, res); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	s2 := NewStore(testRegistry())
	got, err := s2.Deserialize(bytes.NewReader(buf.Bytes()), 0xABCD, res)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	v, ok := s2.GetItem(got, SlotIdent)
	if !ok || v.Id != ids.Intern("POINT") {
		t.Fatalf("root ident mismatch: %+v", v)
	}
	arr, ok := s2.GetItem(got, SlotArray)
	if !ok || len(arr.Arr) != 1 {
		t.Fatalf("array round trip failed: %+v", arr)
	}
	fv, ok := s2.GetItem(arr.Arr[0].Obj, SlotInt64)
	if !ok || fv.I64 != 8 {
		t.Fatalf("nested field round trip failed: %+v", fv)
	}
}

func TestSerializeDropsFileIDButKeepsLineCol(t *testing.T) {
	// Loc.File indexes a loc.FileTable local to the process that parsed
	// this unit; it is never meaningful to a different process loading
	// the unit back, so it deliberately does not round-trip. Line/Col/Len
	// are process-independent and do.
	s := NewStore(testRegistry())
	at := loc.Loc{File: 7, Line: 3, Col: 5, Len: 9}
	root := s.New(TagType, kindInteger, at)

	var buf bytes.Buffer
	res := &noopResolver{}
	if err := s.Serialize(root, &buf, 0, res); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	s2 := NewStore(testRegistry())
	got, err := s2.Deserialize(bytes.NewReader(buf.Bytes()), 0, res)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	obj, ok := s2.Get(got)
	if !ok {
		t.Fatalf("root object missing after deserialize")
	}
	if obj.Loc.File != 0 {
		t.Fatalf("Loc.File = %d, want 0 (never serialized)", obj.Loc.File)
	}
	if obj.Loc.Line != 3 || obj.Loc.Col != 5 || obj.Loc.Len != 9 {
		t.Fatalf("Loc line/col/len = %+v, want {Line:3 Col:5 Len:9}", obj.Loc)
	}
}

func TestDeserializeStaleDigest(t *testing.T) {
	s := NewStore(testRegistry())
	root := s.New(TagType, kindInteger, loc.Nowhere)
	var buf bytes.Buffer
	res := &noopResolver{}
	if err := s.Serialize(root, &buf, 1, res); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	s2 := NewStore(testRegistry())
	_, err := s2.Deserialize(bytes.NewReader(buf.Bytes()), 2, res)
	if _, ok := err.(*StaleUnitError); !ok {
		t.Fatalf("expected StaleUnitError, got %v", err)
	}
}

func TestGCIdempotent(t *testing.T) {
	s := NewStore(testRegistry())
	h := s.New(TagType, kindInteger, loc.Nowhere)
	s.Freeze()
	roots := []Handle{h}
	s.GC(roots)
	before := len(s.arenas)
	s.GC(roots)
	if len(s.arenas) != before {
		t.Fatalf("GC not idempotent: %d vs %d", before, len(s.arenas))
	}
	if _, ok := s.Get(h); !ok {
		t.Fatalf("rooted handle must survive GC")
	}
}

type noopResolver struct{}

func (noopResolver) NameOf(gen ArenaID) (string, string, bool)   { return "", "", false }
func (noopResolver) ResolveDep(library, unit string) (ArenaID, error) { return NoArena, nil }
