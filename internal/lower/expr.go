package lower

import (
	"strconv"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

// knownMacros are the macro invocations emission knows how to translate.
var knownMacros = map[string]bool{
	"println":         true,
	"print":           true,
	"eprintln":        true,
	"eprint":          true,
	"format":          true,
	"vec":             true,
	"assert":          true,
	"assert_eq":       true,
	"assert_ne":       true,
	"debug_assert":    true,
	"debug_assert_eq": true,
	"debug_assert_ne": true,
	"panic":           true,
	"unreachable":     true,
	"todo":            true,
	"unimplemented":   true,
}

// expr lowers an expression. A nil expression lowers to nil so optional
// children can be passed straight through.
func (l *lowerer) expr(e syntax.Expr) ir.Expression {
	switch n := e.(type) {
	case nil:
		return nil

	case *syntax.ExprLit:
		value, construct, ok := literal(n.Lit)
		if !ok {
			return l.unsupported(construct, n)
		}
		return &ir.LiteralExpr{Value: value}

	case *syntax.ExprPath:
		if n.QSelf != nil {
			return l.unsupported("qualified path", n)
		}
		segs := pathSegments(n.Path)
		if len(segs) == 1 && !n.Path.Global {
			return &ir.Identifier{Name: segs[0]}
		}
		return &ir.PathExpr{Segments: segs}

	case *syntax.ExprCall:
		return &ir.Call{Func: l.expr(n.Func), Args: l.exprs(n.Args)}

	case *syntax.ExprMethodCall:
		return &ir.MethodCall{Receiver: l.expr(n.Receiver), Method: ident(n.Method), Args: l.exprs(n.Args)}

	case *syntax.ExprField:
		return &ir.FieldAccess{Object: l.expr(n.Base), Field: ident(n.Member)}

	case *syntax.ExprIndex:
		return &ir.Index{Object: l.expr(n.Base), Index: l.expr(n.Index)}

	case *syntax.ExprBinary:
		return l.binary(n.Op, n.Left, n.Right, n)

	case *syntax.ExprAssign:
		return l.binary(n.Op, n.Left, n.Right, n)

	case *syntax.ExprUnary:
		return l.unary(n)

	case *syntax.ExprRef:
		if n.Raw {
			return l.unsupported("raw reference", n)
		}
		return &ir.Reference{Mutable: n.Mutable, Expr: l.expr(n.Expr)}

	case *syntax.ExprCast:
		return &ir.Cast{Expr: l.expr(n.Expr), Type: l.typ(n.Ty)}

	case *syntax.ExprParen:
		return l.expr(n.Expr)

	case *syntax.ExprTuple:
		return &ir.TupleExpr{Elements: l.exprs(n.Elems)}

	case *syntax.ExprArray:
		return &ir.ArrayExpr{Elements: l.exprs(n.Elems)}

	case *syntax.ExprRepeat:
		return l.unsupported("array repeat", n)

	case *syntax.ExprStruct:
		if n.Rest != nil {
			return l.unsupported("struct update syntax", n)
		}
		lit := &ir.StructLiteral{Name: strings.Join(pathSegments(n.Path), "::"), Fields: []ir.FieldInit{}}
		for _, f := range n.Fields {
			lit.Fields = append(lit.Fields, ir.FieldInit{Name: ident(f.Name), Value: l.expr(f.Expr)})
		}
		return lit

	case *syntax.ExprBlock:
		switch {
		case n.Async:
			return l.unsupported("async block", n)
		case n.Label != "":
			return l.unsupported("labelled block", n)
		}
		if len(n.Block.Stmts) == 0 {
			return &ir.TupleExpr{Elements: []ir.Expression{}}
		}
		value := l.blockValue(n.Block)
		if value == nil {
			return l.unsupported("block expression", n)
		}
		return &ir.BlockExpr{Statements: []ir.Statement{&ir.ExprStmt{Expr: value}}}

	case *syntax.ExprIf:
		return l.conditional(n)

	case *syntax.ExprRange:
		return &ir.RangeExpr{Start: l.expr(n.Start), End: l.expr(n.End), Inclusive: n.Inclusive}

	case *syntax.ExprMacro:
		return l.macro(n.Mac, n)

	case *syntax.ExprLet:
		return l.unsupported("let expression", n)
	case *syntax.ExprMatch:
		return l.unsupported("match expression", n)
	case *syntax.ExprWhile, *syntax.ExprLoop, *syntax.ExprForLoop:
		return l.unsupported("loop expression", n)
	case *syntax.ExprBreak, *syntax.ExprContinue, *syntax.ExprReturn:
		return l.unsupported("control flow expression", n)
	case *syntax.ExprClosure:
		return l.unsupported("closure", n)
	case *syntax.ExprTry:
		return l.unsupported("try operator", n)
	case *syntax.ExprAwait:
		return l.unsupported("await", n)
	}
	return l.unsupported("expression", e)
}

func (l *lowerer) exprs(es []syntax.Expr) []ir.Expression {
	out := make([]ir.Expression, 0, len(es))
	for _, e := range es {
		out = append(out, l.expr(e))
	}
	return out
}

func pathSegments(p *syntax.Path) []string {
	segs := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		segs[i] = ident(s.Name)
	}
	return segs
}

func (l *lowerer) binary(op string, left, right syntax.Expr, n syntax.Node) ir.Expression {
	bop, ok := ir.BinaryOpFromSymbol(op)
	if !ok {
		return l.unsupported("operator "+op, n)
	}
	return &ir.Binary{Op: bop, Left: l.expr(left), Right: l.expr(right)}
}

// unary lowers prefix operators. Negated numeric literals fold into a
// single literal so i64::MIN stays representable.
func (l *lowerer) unary(n *syntax.ExprUnary) ir.Expression {
	switch n.Op {
	case "-":
		if lit, ok := n.Operand.(*syntax.ExprLit); ok {
			if value, ok := negLiteral(lit.Lit); ok {
				return &ir.LiteralExpr{Value: value}
			}
		}
		return &ir.Unary{Op: ir.OpNeg, Operand: l.expr(n.Operand)}
	case "!":
		return &ir.Unary{Op: ir.OpNot, Operand: l.expr(n.Operand)}
	case "*":
		return &ir.Dereference{Expr: l.expr(n.Operand)}
	}
	return l.unsupported("operator "+n.Op, n)
}

// negLiteral returns the negation of a numeric literal.
func negLiteral(lit syntax.Lit) (ir.Literal, bool) {
	if lit.Kind == syntax.LitInt {
		body, suffix := splitIntSuffix(lit.Text)
		if !isFloatSuffix(suffix) {
			digits, base := splitBase(body)
			n, err := strconv.ParseInt("-"+digits, base, 64)
			if err != nil {
				return ir.Literal{}, false
			}
			return ir.IntLit(n), true
		}
	}
	value, _, ok := literal(lit)
	if !ok || value.Kind != ir.LitFloat {
		return ir.Literal{}, false
	}
	return ir.FloatLit(-value.Float), true
}

// blockValue returns the value of a block that consists of a single tail
// expression, or nil.
func (l *lowerer) blockValue(b *syntax.Block) ir.Expression {
	if b == nil || len(b.Stmts) != 1 {
		return nil
	}
	s, ok := b.Stmts[0].(*syntax.StmtExpr)
	if !ok || s.Semi {
		return nil
	}
	return l.expr(s.Expr)
}

// conditional lowers if used as a value. Both branches must be single
// expressions.
func (l *lowerer) conditional(n *syntax.ExprIf) ir.Expression {
	if _, ok := n.Cond.(*syntax.ExprLet); ok {
		return l.unsupported("if let expression", n)
	}
	if n.Else == nil {
		return l.unsupported("if expression without else", n)
	}
	then := l.blockValue(n.Then)
	var els ir.Expression
	switch e := n.Else.(type) {
	case *syntax.ExprIf:
		els = l.conditional(e)
		if _, bad := els.(*ir.Unsupported); bad {
			return l.unsupported("if expression", n)
		}
	case *syntax.ExprBlock:
		els = l.blockValue(e.Block)
	}
	if then == nil || els == nil {
		return l.unsupported("if expression", n)
	}
	return &ir.Conditional{Condition: l.expr(n.Cond), Then: then, Else: els}
}

func (l *lowerer) macro(m *syntax.Macro, n syntax.Node) ir.Expression {
	name := ident(m.Path.Last().Name)
	switch {
	case !knownMacros[name]:
		return l.unsupported("macro "+name+"!", n)
	case m.Repeat:
		return l.unsupported(name+"! repeat form", n)
	case !m.ArgsOK:
		return l.unsupported("macro "+name+"! arguments", n)
	}
	return &ir.MacroCall{Name: name, Args: l.exprs(m.Args)}
}
