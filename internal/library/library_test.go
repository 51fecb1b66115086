package library

import (
	"testing"

	"nvcgo/internal/ident"
	"nvcgo/internal/loc"
	"nvcgo/internal/obj"
)

const kindLeaf obj.Kind = 1

func testRegistry() *obj.Registry {
	r := obj.NewRegistry()
	r.Declare(obj.TagType, kindLeaf, obj.Schema{
		Name:       "leaf",
		Slots:      obj.Mask(obj.SlotIdent),
		VisitOrder: []obj.Slot{obj.SlotIdent},
	})
	return r
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cat, err := OpenCatalog(dir, 42)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}

	ids := ident.NewTable()
	s := obj.NewStore(testRegistry())
	root := s.New(obj.TagType, kindLeaf, loc.Nowhere)
	s.SetItem(root, obj.SlotIdent, obj.IdentValue(ids.Intern("WORK_UNIT")))

	if err := cat.Save(s, "WORK", "leaf_type", root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s2 := obj.NewStore(testRegistry())
	got, err := cat.Load(s2, "WORK", "leaf_type")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, ok := s2.GetItem(got, obj.SlotIdent)
	if !ok || v.Id != ids.Intern("WORK_UNIT") {
		t.Fatalf("round tripped ident mismatch: %+v", v)
	}
}

func TestLoadStaleDigest(t *testing.T) {
	dir := t.TempDir()
	cat, err := OpenCatalog(dir, 1)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	s := obj.NewStore(testRegistry())
	root := s.New(obj.TagType, kindLeaf, loc.Nowhere)
	if err := cat.Save(s, "WORK", "u", root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cat2, err := OpenCatalog(dir, 2)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	s2 := obj.NewStore(testRegistry())
	_, err = cat2.Load(s2, "WORK", "u")
	if _, ok := err.(*obj.StaleUnitError); !ok {
		t.Fatalf("expected *obj.StaleUnitError, got %v (%T)", err, err)
	}
}

func TestLoadMissingUnit(t *testing.T) {
	dir := t.TempDir()
	cat, err := OpenCatalog(dir, 1)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	s := obj.NewStore(testRegistry())
	if _, err := cat.Load(s, "WORK", "nope"); err == nil {
		t.Fatalf("expected error for missing unit")
	}
}
