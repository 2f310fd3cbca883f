package emit

import (
	"strconv"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
)

// scalarTypes maps Rust primitive and string types to Mojo.
var scalarTypes = map[string]string{
	"i8":     "Int8",
	"i16":    "Int16",
	"i32":    "Int32",
	"i64":    "Int64",
	"i128":   "Int128",
	"isize":  "Int",
	"u8":     "UInt8",
	"u16":    "UInt16",
	"u32":    "UInt32",
	"u64":    "UInt64",
	"u128":   "UInt128",
	"usize":  "UInt",
	"f32":    "Float32",
	"f64":    "Float64",
	"bool":   "Bool",
	"char":   "String",
	"str":    "String",
	"String": "String",
}

// containerTypes maps standard library generic containers to the Mojo
// collection that replaces them.
var containerTypes = map[string]string{
	"Vec":      "List",
	"VecDeque": "List",
	"Option":   "Optional",
	"HashMap":  "Dict",
	"BTreeMap": "Dict",
	"HashSet":  "Set",
	"BTreeSet": "Set",
}

// typ renders t as a Mojo type, recording the collections it needs.
func (g *generator) typ(t ir.Type) string {
	switch n := t.(type) {
	case nil, *ir.UnitType:
		return "NoneType"

	case *ir.PathType:
		return g.pathType(n)

	case *ir.ReferenceType:
		return g.typ(n.Inner)

	case *ir.PointerType:
		return "UnsafePointer[" + g.typ(n.Inner) + "]"

	case *ir.ArrayType:
		if n.Size == nil {
			return "List[" + g.typ(n.Inner) + "]"
		}
		g.collections["InlineArray"] = true
		return "InlineArray[" + g.typ(n.Inner) + ", " + strconv.FormatInt(*n.Size, 10) + "]"

	case *ir.SliceType:
		return "List[" + g.typ(n.Inner) + "]"

	case *ir.TupleType:
		return "Tuple[" + g.typeList(n.Elements) + "]"

	case *ir.FunctionType:
		s := "fn(" + g.typeList(n.Params) + ")"
		if !ir.IsUnit(n.Return) {
			s += " -> " + g.typ(n.Return)
		}
		return s

	case *ir.GenericType:
		return name(n.Name)
	}
	g.failf("unexpected type %T", t)
	return ""
}

func (g *generator) typeList(ts []ir.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = g.typ(t)
	}
	return strings.Join(parts, ", ")
}

// pathType resolves a named type. Standard library paths are looked up by
// their last segment so std::collections::HashMap and HashMap agree.
func (g *generator) pathType(p *ir.PathType) string {
	last := p.Name
	if i := strings.LastIndex(last, "::"); i >= 0 {
		last = last[i+2:]
	}
	std := last == p.Name || isStdPath(p.Name)

	if std {
		if s, ok := scalarTypes[last]; ok && len(p.Args) == 0 {
			return s
		}
		if last == "Box" && len(p.Args) == 1 {
			return g.typ(p.Args[0])
		}
		if c, ok := containerTypes[last]; ok && len(p.Args) > 0 {
			g.collections[c] = true
			return c + "[" + g.typeList(p.Args) + "]"
		}
	}
	if p.Name == "Self" {
		return g.selfName()
	}
	s := g.pathName(p.Name)
	if len(p.Args) > 0 {
		s += "[" + g.typeList(p.Args) + "]"
	}
	return s
}

func isStdPath(path string) bool {
	return strings.HasPrefix(path, "std::") || strings.HasPrefix(path, "core::") ||
		strings.HasPrefix(path, "alloc::")
}
