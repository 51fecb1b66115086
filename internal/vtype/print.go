package vtype

import (
	"fmt"
	"strings"
)

// maxPrintDepth guards against runaway recursion on a malformed cyclic type
// graph, the same defensive bound the teacher's label formatter uses.
const maxPrintDepth = 8

// Pretty renders t per §4.4: "name [p1,p2 … return r]" for subprograms,
// otherwise the dotted-component name, falling through to the anonymous
// structural form when t has no declared identifier.
func (in *Interner) Pretty(t TypeID) string {
	return in.pretty(t, 0)
}

func (in *Interner) pretty(t TypeID, depth int) string {
	if !t.IsValid() {
		return "<none>"
	}
	if depth > maxPrintDepth {
		return "..."
	}

	switch in.KindOf(t) {
	case KindFunc, KindProc:
		return in.prettySubprogram(t, depth)
	}

	if name, ok := in.NameOf(t); ok {
		return in.Idc.StringOf(name)
	}
	return in.prettyAnonymous(t, depth)
}

func (in *Interner) prettySubprogram(t TypeID, depth int) string {
	name := "<anonymous>"
	if n, ok := in.NameOf(t); ok {
		name = in.Idc.StringOf(n)
	}
	params := in.Params(t)
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = in.pretty(p.Type, depth+1)
	}
	sig := name + " [" + strings.Join(parts, ",")
	if in.KindOf(t) == KindFunc {
		sig += " return " + in.pretty(in.Result(t), depth+1)
	}
	return sig + "]"
}

func (in *Interner) prettyAnonymous(t TypeID, depth int) string {
	switch in.KindOf(t) {
	case KindNone:
		return "<none>"
	case KindIncomplete:
		return "<incomplete>"
	case KindSubtype:
		return in.pretty(in.Base(t), depth+1)
	case KindCArray:
		dims := in.Dims(t)
		bounds := make([]string, len(dims))
		for i, d := range dims {
			bounds[i] = fmt.Sprintf("%d to %d", d.Low, d.High)
		}
		return in.pretty(in.ElemType(t), depth+1) + "[" + strings.Join(bounds, ", ") + "]"
	case KindUArray:
		return in.pretty(in.ElemType(t), depth+1) + strings.Repeat("[]", int(in.NDims(t)))
	case KindRecord:
		fields := in.Fields(t)
		parts := make([]string, len(fields))
		for i, f := range fields {
			parts[i] = in.Idc.StringOf(f.Name) + ": " + in.pretty(f.Type, depth+1)
		}
		return "record{" + strings.Join(parts, "; ") + "}"
	case KindFile:
		return "file of " + in.pretty(in.Base(t), depth+1)
	case KindAccess:
		return "access " + in.pretty(in.Base(t), depth+1)
	case KindProtected:
		return "protected"
	default:
		return "?"
	}
}
