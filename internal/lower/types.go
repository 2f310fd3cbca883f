package lower

import (
	"strconv"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

// typ lowers a syntactic type. Forms the ir does not model (impl Trait,
// dyn Trait, _, !, qualified paths, type macros) become the unit type.
func (l *lowerer) typ(t syntax.Type) ir.Type {
	switch n := t.(type) {
	case nil:
		return &ir.UnitType{}
	case *syntax.TypePath:
		if n.QSelf != nil {
			return &ir.UnitType{}
		}
		return l.pathType(n.Path)
	case *syntax.TypeRef:
		return &ir.ReferenceType{Mutable: n.Mutable, Inner: l.typ(n.Elem)}
	case *syntax.TypePtr:
		return &ir.PointerType{Mutable: n.Mutable, Inner: l.typ(n.Elem)}
	case *syntax.TypeArray:
		return &ir.ArrayType{Inner: l.typ(n.Elem), Size: arraySize(n.Len)}
	case *syntax.TypeSlice:
		return &ir.SliceType{Inner: l.typ(n.Elem)}
	case *syntax.TypeTuple:
		if len(n.Elems) == 0 {
			return &ir.UnitType{}
		}
		return &ir.TupleType{Elements: l.types(n.Elems)}
	case *syntax.TypeParen:
		return l.typ(n.Elem)
	case *syntax.TypeFn:
		ft := &ir.FunctionType{Params: l.types(n.Inputs)}
		if n.Output != nil {
			ft.Return = l.typ(n.Output)
		}
		return ft
	}
	return &ir.UnitType{}
}

func (l *lowerer) types(ts []syntax.Type) []ir.Type {
	out := make([]ir.Type, 0, len(ts))
	for _, t := range ts {
		out = append(out, l.typ(t))
	}
	return out
}

// pathType lowers a path. A bare name bound by an enclosing generic list is
// a GenericType; Fn(A) -> B sugar is a FunctionType. Generic arguments are
// taken from the last segment.
func (l *lowerer) pathType(p *syntax.Path) ir.Type {
	segs := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = ident(s.Name)
	}
	last := p.Last()
	if len(segs) == 1 && !p.Global && last.Args == nil && l.isGeneric(segs[0]) {
		return &ir.GenericType{Name: segs[0]}
	}
	if last.Args != nil && last.Args.Paren {
		ft := &ir.FunctionType{Params: l.types(last.Args.Types)}
		if last.Args.Output != nil {
			ft.Return = l.typ(last.Args.Output)
		}
		return ft
	}
	pt := &ir.PathType{Name: strings.Join(segs, "::")}
	if last.Args != nil {
		pt.Args = l.types(last.Args.Types)
	}
	return pt
}

// arraySize returns the length of [T; N] when N is an integer literal.
func arraySize(e syntax.Expr) *int64 {
	lit, ok := e.(*syntax.ExprLit)
	if !ok || lit.Lit.Kind != syntax.LitInt {
		return nil
	}
	body, suffix := splitIntSuffix(lit.Lit.Text)
	if isFloatSuffix(suffix) {
		return nil
	}
	n, err := parseIntBody(body)
	if err != nil {
		return nil
	}
	return &n
}

func parseIntBody(body string) (int64, error) {
	digits, base := splitBase(body)
	return strconv.ParseInt(digits, base, 64)
}

// splitBase strips digit separators and a 0x, 0o or 0b prefix.
func splitBase(body string) (digits string, base int) {
	digits = strings.ReplaceAll(body, "_", "")
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x':
			return digits[2:], 16
		case 'o':
			return digits[2:], 8
		case 'b':
			return digits[2:], 2
		}
	}
	return digits, 10
}
