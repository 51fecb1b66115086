package obj

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ArenaResolver maps an ArenaID to the (library, unit) name pair used to
// address it stably from other units, and back. The library manager (C5)
// implements this; the object store has no knowledge of libraries itself.
type ArenaResolver interface {
	NameOf(gen ArenaID) (library, unit string, ok bool)
	ResolveDep(library, unit string) (ArenaID, error)
}

// wire* types are the on-the-wire (msgpack) shape of a serialized unit.
// Field names are stable: they form part of the persisted format (§6).

type wireLoc struct {
	File uint32
	Line uint32
	Col  uint32
	Len  uint32
}

type wireExternalRef struct {
	Library string
	Unit    string
	Index   uint32
}

type wireArrayElem struct {
	ObjLocal      uint32
	ObjExternal   *wireExternalRef
	Ident         uint32
	RngLow        int64
	RngHigh       int64
	RngDir        uint8
	ParamName     uint32
	ParamLocal    uint32
	ParamExternal *wireExternalRef
}

type wireItem struct {
	Slot        uint8
	Kind        uint8
	I           int32
	I64         int64
	R           float64
	Id          uint32
	RefLocal    uint32
	RefExternal *wireExternalRef
	Text        string
	ArrKind     uint8
	Arr         []wireArrayElem
}

type wireObject struct {
	LocalIndex uint32
	Tag        uint8
	Kind       uint16
	Loc        wireLoc
	Items      []wireItem
}

type wireDep struct {
	Library    string
	Unit       string
	Generation uint32
}

type wireHeader struct {
	Magic        uint32
	SchemaDigest uint64
	Deps         []wireDep
}

const wireMagic uint32 = 0x4e564321 // "NVC!"

type wireUnit struct {
	Header    wireHeader
	RootLocal uint32
	Objects   []wireObject
}

// Serialize walks every object reachable from root within root's own
// arena, writing a depth-first object list plus an arena header carrying
// the schema digest and dependency (library, unit, generation) triples for
// every other arena referenced (§4.1, §6).
func (s *Store) Serialize(root Handle, w io.Writer, schemaDigest uint64, res ArenaResolver) error {
	if !root.IsValid() {
		return errInvalidHandle
	}
	homeGen := root.Arena
	seen := make(map[uint32]bool)
	var objs []wireObject
	deps := make(map[wireDep]bool)

	var visitLocal func(h Handle)
	toExternal := func(h Handle) *wireExternalRef {
		if !h.IsValid() {
			return nil
		}
		if h.Arena == homeGen {
			visitLocal(h)
			return nil
		}
		lib, unit, ok := res.NameOf(h.Arena)
		if !ok {
			return &wireExternalRef{Index: h.Index}
		}
		deps[wireDep{Library: lib, Unit: unit, Generation: uint32(h.Arena)}] = true
		return &wireExternalRef{Library: lib, Unit: unit, Index: h.Index}
	}

	visitLocal = func(h Handle) {
		if !h.IsValid() || h.Arena != homeGen || seen[h.Index] {
			return
		}
		seen[h.Index] = true
		o := s.resolve(h)
		if o == nil {
			return
		}
		wo := wireObject{
			LocalIndex: h.Index,
			Tag:        uint8(o.Tag),
			Kind:       uint16(o.Kind),
			// Loc.File is a loc.FileTable index local to the process that
			// parsed this unit; without also serializing that table (and
			// re-resolving paths against the reading process's own table)
			// a raw FileID would silently address the wrong file on
			// reload. Line/Col/Len still round-trip; File is intentionally
			// left zero on both ends, matching Deserialize's reset below.
			Loc: wireLoc{Line: o.Loc.Line, Col: o.Loc.Col, Len: o.Loc.Len},
		}
		// Same-arena references are visited after wo is appended, so root
		// stays first in objs.
		var locals []Handle
		s.Visit(h, func(slot Slot, v Value) {
			wi := wireItem{Slot: uint8(slot), Kind: uint8(v.Kind), I: v.I, I64: v.I64, R: v.R, Id: uint32(v.Id), Text: v.Text}
			if v.Kind == VRef {
				if v.Ref.Arena == homeGen {
					wi.RefLocal = v.Ref.Index
					locals = append(locals, v.Ref)
				} else {
					wi.RefExternal = toExternal(v.Ref)
				}
			}
			if v.Kind == VArray {
				wi.ArrKind = uint8(v.ArrKind)
				wi.Arr = make([]wireArrayElem, len(v.Arr))
				for i, e := range v.Arr {
					we := wireArrayElem{Ident: uint32(e.Ident), RngLow: e.Rng.Low, RngHigh: e.Rng.High, RngDir: uint8(e.Rng.Dir), ParamName: uint32(e.Param.Name)}
					if e.Obj.IsValid() {
						if e.Obj.Arena == homeGen {
							we.ObjLocal = e.Obj.Index
							locals = append(locals, e.Obj)
						} else {
							we.ObjExternal = toExternal(e.Obj)
						}
					}
					if e.Param.Type.IsValid() {
						if e.Param.Type.Arena == homeGen {
							we.ParamLocal = e.Param.Type.Index
							locals = append(locals, e.Param.Type)
						} else {
							we.ParamExternal = toExternal(e.Param.Type)
						}
					}
					wi.Arr[i] = we
				}
			}
			wo.Items = append(wo.Items, wi)
		})
		objs = append(objs, wo)
		for _, l := range locals {
			visitLocal(l)
		}
	}

	visitLocal(root)

	depList := make([]wireDep, 0, len(deps))
	for d := range deps {
		depList = append(depList, d)
	}
	unit := wireUnit{
		Header:    wireHeader{Magic: wireMagic, SchemaDigest: schemaDigest, Deps: depList},
		RootLocal: root.Index,
		Objects:   objs,
	}
	return msgpack.NewEncoder(w).Encode(&unit)
}

// StaleUnitError is returned by Deserialize when the persisted schema
// digest does not match, or a dependency arena cannot be resolved (§4.1,
// §6: "A digest mismatch on read produces StaleUnitError, which the
// library manager uses to trigger recompilation").
type StaleUnitError struct {
	Reason string
}

func (e *StaleUnitError) Error() string { return "obj: stale unit: " + e.Reason }

var errInvalidHandle = &StaleUnitError{Reason: "invalid root handle"}

// Deserialize reads a unit written by Serialize into a freshly opened arena
// of this store, resolving external references through res. currentDigest
// must equal the digest embedded in the stream or a StaleUnitError is
// returned before any object is materialized (no partial state change).
func (s *Store) Deserialize(r io.Reader, currentDigest uint64, res ArenaResolver) (Handle, error) {
	var unit wireUnit
	if err := msgpack.NewDecoder(r).Decode(&unit); err != nil {
		return Handle{}, err
	}
	if unit.Header.Magic != wireMagic {
		return Handle{}, &StaleUnitError{Reason: "bad magic"}
	}
	if unit.Header.SchemaDigest != currentDigest {
		return Handle{}, &StaleUnitError{Reason: "schema digest mismatch"}
	}
	for _, d := range unit.Header.Deps {
		if _, err := res.ResolveDep(d.Library, d.Unit); err != nil {
			return Handle{}, &StaleUnitError{Reason: "missing dependency " + d.Library + "." + d.Unit}
		}
	}

	s.openArena()
	gen := s.cur.Gen
	// Pre-size the arena so local indices used during resolution are valid
	// before every object's items are filled in (objects may reference
	// later siblings, e.g. mutually recursive record fields).
	s.cur.objects = make([]Object, len(unit.Objects))

	byIndex := make(map[uint32]int, len(unit.Objects))
	for i, wo := range unit.Objects {
		byIndex[wo.LocalIndex] = i
	}

	localHandle := func(origIndex uint32) Handle {
		if origIndex == 0 {
			return Handle{}
		}
		pos, ok := byIndex[origIndex]
		if !ok {
			return Handle{}
		}
		return Handle{Arena: gen, Index: uint32(pos + 1)}
	}

	resolveExternal := func(ext *wireExternalRef) (Handle, error) {
		if ext == nil {
			return Handle{}, nil
		}
		if ext.Library == "" && ext.Unit == "" {
			return Handle{}, nil
		}
		depGen, err := res.ResolveDep(ext.Library, ext.Unit)
		if err != nil {
			return Handle{}, err
		}
		return Handle{Arena: depGen, Index: ext.Index}, nil
	}

	for _, wo := range unit.Objects {
		pos, ok := byIndex[wo.LocalIndex]
		if !ok {
			continue
		}
		o := &s.cur.objects[pos]
		o.Tag = Tag(wo.Tag)
		o.Kind = Kind(wo.Kind)
		o.Loc.File = 0 // never serialized; see the comment in Serialize
		o.Loc.Line = wo.Loc.Line
		o.Loc.Col = wo.Loc.Col
		o.Loc.Len = wo.Loc.Len
		for _, wi := range wo.Items {
			v := Value{Kind: ValueKind(wi.Kind), I: wi.I, I64: wi.I64, R: wi.R}
			v.Id = identFromU32(wi.Id)
			v.Text = wi.Text
			switch v.Kind {
			case VRef:
				if wi.RefLocal != 0 {
					v.Ref = localHandle(wi.RefLocal)
				} else if wi.RefExternal != nil {
					h, err := resolveExternal(wi.RefExternal)
					if err != nil {
						return Handle{}, err
					}
					v.Ref = h
				}
			case VArray:
				v.ArrKind = ArrayElemKind(wi.ArrKind)
				v.Arr = make([]ArrayElem, len(wi.Arr))
				for i, we := range wi.Arr {
					elem := ArrayElem{Ident: identFromU32(we.Ident), Rng: Range{Low: we.RngLow, High: we.RngHigh, Dir: Direction(we.RngDir)}, Param: Parameter{Name: identFromU32(we.ParamName)}}
					if we.ObjLocal != 0 {
						elem.Obj = localHandle(we.ObjLocal)
					} else if we.ObjExternal != nil {
						h, err := resolveExternal(we.ObjExternal)
						if err != nil {
							return Handle{}, err
						}
						elem.Obj = h
					}
					if we.ParamLocal != 0 {
						elem.Param.Type = localHandle(we.ParamLocal)
					} else if we.ParamExternal != nil {
						h, err := resolveExternal(we.ParamExternal)
						if err != nil {
							return Handle{}, err
						}
						elem.Param.Type = h
					}
					v.Arr[i] = elem
				}
			}
			o.items[wi.Slot] = v
			o.set |= 1 << uint(wi.Slot)
		}
	}

	rootPos, ok := byIndex[unit.RootLocal]
	if !ok {
		return Handle{}, &StaleUnitError{Reason: "missing root object"}
	}
	return Handle{Arena: gen, Index: uint32(rootPos + 1)}, nil
}
