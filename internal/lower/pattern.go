package lower

import (
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

func (l *lowerer) pattern(p syntax.Pat) ir.Pattern {
	switch n := p.(type) {
	case *syntax.PatWild:
		return &ir.WildcardPattern{}

	case *syntax.PatIdent:
		if n.Sub != nil {
			return l.unsupported("binding pattern", n)
		}
		name := ident(n.Name)
		// A bare capitalised name is a unit variant or constant in scope,
		// such as None.
		if !n.Mutable && !n.ByRef && isUpperName(name) {
			return &ir.EnumPattern{Variant: name}
		}
		return &ir.IdentPattern{Name: name, Mutable: n.Mutable}

	case *syntax.PatLit:
		if n.Neg {
			value, ok := negLiteral(n.Lit.Lit)
			if !ok {
				return l.unsupported("literal pattern", n)
			}
			return &ir.LiteralPattern{Value: value}
		}
		value, construct, ok := literal(n.Lit.Lit)
		if !ok {
			return l.unsupported(construct, n)
		}
		return &ir.LiteralPattern{Value: value}

	case *syntax.PatTuple:
		elems, ok := l.patterns(n.Elems)
		if !ok {
			return l.unsupported("rest pattern", n)
		}
		return &ir.TuplePattern{Elements: elems}

	case *syntax.PatParen:
		return l.pattern(n.Pat)

	case *syntax.PatRef:
		return l.pattern(n.Pat)

	case *syntax.PatPath:
		path, variant := splitVariant(n.Path)
		return &ir.EnumPattern{Path: path, Variant: variant}

	case *syntax.PatTupleStruct:
		elems, ok := l.patterns(n.Elems)
		if !ok {
			return l.unsupported("rest pattern", n)
		}
		path, variant := splitVariant(n.Path)
		return &ir.EnumPattern{Path: path, Variant: variant, Fields: elems}

	case *syntax.PatStruct:
		if l.isStructVariant(n.Path) {
			return l.structVariant(n)
		}
		sp := &ir.StructPattern{
			Name:   strings.Join(pathSegments(n.Path), "::"),
			Fields: make([]ir.FieldPattern, 0, len(n.Fields)),
		}
		for _, f := range n.Fields {
			sp.Fields = append(sp.Fields, ir.FieldPattern{Name: ident(f.Name), Pattern: l.pattern(f.Pat)})
		}
		return sp

	case *syntax.PatOr:
		return l.unsupported("or pattern", n)
	case *syntax.PatRange:
		return l.unsupported("range pattern", n)
	case *syntax.PatSlice:
		return l.unsupported("slice pattern", n)
	case *syntax.PatRest:
		return l.unsupported("rest pattern", n)
	case *syntax.PatMacro:
		return l.unsupported("macro pattern", n)
	}
	return l.unsupported("pattern", p)
}

// isStructVariant reports whether a braced pattern path names an enum
// variant rather than a struct: Shape::Circle, Self::Circle, or a bare
// variant name declared with named fields in this file.
func (l *lowerer) isStructVariant(p *syntax.Path) bool {
	segs := pathSegments(p)
	for len(segs) > 1 && (segs[0] == "crate" || segs[0] == "self" || segs[0] == "super") {
		segs = segs[1:]
	}
	if len(segs) > 1 {
		parent := segs[len(segs)-2]
		return parent == "Self" || isUpperName(parent)
	}
	return l.variants[segs[0]] && !l.structs[segs[0]]
}

// structVariant lowers Shape::Circle { .. } to a variant test. Enums are
// emitted as tags without payload storage, so a pattern that binds or
// tests a payload field cannot be expressed.
func (l *lowerer) structVariant(n *syntax.PatStruct) ir.Pattern {
	for _, f := range n.Fields {
		if _, ok := l.pattern(f.Pat).(*ir.WildcardPattern); !ok {
			return l.unsupported("struct variant pattern", n)
		}
	}
	path, variant := splitVariant(n.Path)
	return &ir.EnumPattern{Path: path, Variant: variant}
}

// patterns lowers element patterns; ok is false if any element is `..`.
func (l *lowerer) patterns(ps []syntax.Pat) (out []ir.Pattern, ok bool) {
	out = make([]ir.Pattern, 0, len(ps))
	for _, p := range ps {
		if _, rest := p.(*syntax.PatRest); rest {
			return nil, false
		}
		out = append(out, l.pattern(p))
	}
	return out, true
}

// splitVariant splits Color::Red into ("Color", "Red").
func splitVariant(p *syntax.Path) (path, variant string) {
	segs := pathSegments(p)
	last := len(segs) - 1
	return strings.Join(segs[:last], "::"), segs[last]
}
