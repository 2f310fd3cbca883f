package emit

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/rust2mojo/internal/ir"
)

// Mojo operator precedence, loosest first.
const (
	precCond = iota // a if c else b
	precOr
	precAnd
	precNot
	precCmp
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precUnary
	precPostfix
	precAtom
)

var binaryPrec = map[ir.BinaryOp]int{
	ir.OpOr:     precOr,
	ir.OpAnd:    precAnd,
	ir.OpEq:     precCmp,
	ir.OpNe:     precCmp,
	ir.OpLt:     precCmp,
	ir.OpLe:     precCmp,
	ir.OpGt:     precCmp,
	ir.OpGe:     precCmp,
	ir.OpBitOr:  precBitOr,
	ir.OpBitXor: precBitXor,
	ir.OpBitAnd: precBitAnd,
	ir.OpShl:    precShift,
	ir.OpShr:    precShift,
	ir.OpAdd:    precAdd,
	ir.OpSub:    precAdd,
	ir.OpMul:    precMul,
	ir.OpDiv:    precMul,
	ir.OpRem:    precMul,
}

func binarySymbol(op ir.BinaryOp) string {
	switch op {
	case ir.OpAnd:
		return "and"
	case ir.OpOr:
		return "or"
	}
	return op.String()
}

func (g *generator) expr(e ir.Expression) string {
	return g.exprPrec(e, precCond)
}

// exprPrec renders e, parenthesised when it binds looser than min.
func (g *generator) exprPrec(e ir.Expression, min int) string {
	var sb strings.Builder
	g.writeExpr(&sb, e, min)
	return sb.String()
}

// writeExpr writes e to sb, parenthesised when it binds looser than min.
// Children are written into the same builder, so output is linear in the
// size of the tree however deeply it nests.
func (g *generator) writeExpr(sb *strings.Builder, e ir.Expression, min int) {
	e = g.transparent(e)
	if g.precedence(e) < min {
		sb.WriteByte('(')
		g.write(sb, e)
		sb.WriteByte(')')
		return
	}
	g.write(sb, e)
}

// transparent strips wrappers that render as their operand.
func (g *generator) transparent(e ir.Expression) ir.Expression {
	for {
		switch n := e.(type) {
		case *ir.Reference:
			// References are implicit in Mojo argument conventions.
			e = n.Expr
			continue
		case *ir.Dereference:
			e = n.Expr
			continue
		case *ir.BlockExpr:
			if len(n.Statements) == 1 {
				if s, ok := n.Statements[0].(*ir.ExprStmt); ok {
					e = s.Expr
					continue
				}
			}
		case *ir.MethodCall:
			if len(n.Args) == 0 {
				switch n.Method {
				case "clone", "iter", "into_iter", "iter_mut", "as_str":
					e = n.Receiver
					continue
				}
			}
		case *ir.Call:
			if len(n.Args) == 1 && g.isBoxCall(n) {
				e = n.Args[0]
				continue
			}
		}
		return e
	}
}

func (g *generator) isBoxCall(n *ir.Call) bool {
	switch f := n.Func.(type) {
	case *ir.Identifier:
		_, bound := g.lookupBinding(f.Name)
		return !bound && f.Name == "Box"
	case *ir.PathExpr:
		return strings.Join(f.Segments, "::") == "Box::new"
	}
	return false
}

// precedence is the precedence of the outermost operator e renders with.
// e has already been stripped by transparent.
func (g *generator) precedence(e ir.Expression) int {
	switch n := e.(type) {
	case *ir.LiteralExpr:
		if strings.HasPrefix(literal(n.Value), "-") {
			return precUnary
		}
		return precAtom
	case *ir.Identifier:
		if _, ok := g.lookupBinding(n.Name); ok {
			return precPostfix
		}
		return precAtom
	case *ir.MethodCall:
		if len(n.Args) == 0 && n.Method == "is_empty" {
			return precCmp
		}
		return precPostfix
	case *ir.Binary:
		if n.Op.IsAssign() {
			return precPostfix
		}
		if prec, ok := binaryPrec[n.Op]; ok {
			return prec
		}
		return precAtom
	case *ir.Unary:
		if n.Op == ir.OpNot {
			return precNot
		}
		return precUnary
	case *ir.TupleExpr:
		return precAtom
	case *ir.MacroCall:
		return g.macroPrec(n)
	case *ir.Conditional:
		return precCond
	case nil:
		return precAtom
	}
	return precPostfix
}

// write renders e without outer parentheses.
func (g *generator) write(sb *strings.Builder, e ir.Expression) {
	switch n := e.(type) {
	case *ir.LiteralExpr:
		sb.WriteString(literal(n.Value))

	case *ir.Identifier:
		switch v, ok := g.lookupBinding(n.Name); {
		case ok:
			sb.WriteString(v)
		case n.Name == "Self":
			sb.WriteString(g.selfName())
		default:
			sb.WriteString(name(n.Name))
		}

	case *ir.PathExpr:
		sb.WriteString(g.pathName(strings.Join(n.Segments, "::")))

	case *ir.Call:
		g.call(sb, n)

	case *ir.MethodCall:
		g.methodCall(sb, n)

	case *ir.FieldAccess:
		g.writeExpr(sb, n.Object, precPostfix)
		sb.WriteByte('.')
		sb.WriteString(fieldName(n.Field))

	case *ir.Index:
		g.writeExpr(sb, n.Object, precPostfix)
		sb.WriteByte('[')
		if r, ok := n.Index.(*ir.RangeExpr); ok {
			g.slice(sb, r)
		} else {
			g.writeExpr(sb, n.Index, precCond)
		}
		sb.WriteByte(']')

	case *ir.Binary:
		g.binary(sb, n)

	case *ir.Unary:
		if n.Op == ir.OpNot {
			sb.WriteString("not ")
			g.writeExpr(sb, n.Operand, precNot)
			return
		}
		sb.WriteByte('-')
		g.writeExpr(sb, n.Operand, precUnary)

	case *ir.Cast:
		sb.WriteString(g.typ(n.Type))
		sb.WriteByte('(')
		g.writeExpr(sb, n.Expr, precCond)
		sb.WriteByte(')')

	case *ir.BlockExpr:
		sb.WriteString(g.unsupportedCall("block expression"))

	case *ir.ArrayExpr:
		sb.WriteString("List(")
		g.list(sb, n.Elements)
		sb.WriteByte(')')

	case *ir.TupleExpr:
		if len(n.Elements) == 0 {
			sb.WriteString("None")
			return
		}
		sb.WriteByte('(')
		g.list(sb, n.Elements)
		if len(n.Elements) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')

	case *ir.StructLiteral:
		sb.WriteString(g.pathName(n.Name))
		sb.WriteByte('(')
		for i, f := range n.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fieldName(f.Name))
			sb.WriteByte('=')
			g.writeExpr(sb, f.Value, precCond)
		}
		sb.WriteByte(')')

	case *ir.RangeExpr:
		g.rangeCall(sb, n)

	case *ir.MacroCall:
		s, _ := g.macro(n)
		sb.WriteString(s)

	case *ir.Conditional:
		g.writeExpr(sb, n.Then, precOr)
		sb.WriteString(" if ")
		g.writeExpr(sb, n.Condition, precOr)
		sb.WriteString(" else ")
		g.writeExpr(sb, n.Else, precCond)

	case *ir.Unsupported:
		sb.WriteString(g.unsupportedCall(n.Construct))

	case nil:
		g.failf("missing expression")

	default:
		g.failf("unexpected expression %T", e)
	}
}

func (g *generator) list(sb *strings.Builder, es []ir.Expression) {
	for i, e := range es {
		if i > 0 {
			sb.WriteString(", ")
		}
		g.writeExpr(sb, e, precCond)
	}
}

func (g *generator) listString(es []ir.Expression) string {
	var sb strings.Builder
	g.list(&sb, es)
	return sb.String()
}

func (g *generator) binary(sb *strings.Builder, n *ir.Binary) {
	if n.Op.IsAssign() {
		// Assignment used as a value has no Mojo equivalent.
		sb.WriteString(g.unsupportedCall("assignment expression"))
		return
	}
	prec, ok := binaryPrec[n.Op]
	if !ok {
		g.failf("unknown binary operator %d", n.Op)
		return
	}
	left, right := prec, prec+1
	if prec == precCmp {
		// Mojo chains comparisons; Rust does not.
		left = prec + 1
	}
	g.writeExpr(sb, n.Left, left)
	sb.WriteByte(' ')
	sb.WriteString(binarySymbol(n.Op))
	sb.WriteByte(' ')
	g.writeExpr(sb, n.Right, right)
}

func (g *generator) call(sb *strings.Builder, n *ir.Call) {
	switch f := n.Func.(type) {
	case *ir.Identifier:
		if _, bound := g.lookupBinding(f.Name); !bound && f.Name == "Some" {
			sb.WriteString("Optional(")
			g.list(sb, n.Args)
			sb.WriteByte(')')
			return
		}
	case *ir.PathExpr:
		switch strings.Join(f.Segments, "::") {
		case "String::from", "String::new":
			sb.WriteString("String(")
			g.list(sb, n.Args)
			sb.WriteByte(')')
			return
		case "Vec::new", "Vec::with_capacity":
			sb.WriteString("List()")
			return
		}
	}
	g.writeExpr(sb, n.Func, precPostfix)
	sb.WriteByte('(')
	g.list(sb, n.Args)
	sb.WriteByte(')')
}

// methodCall maps common standard library methods onto their Mojo
// spelling and leaves the rest as method calls.
func (g *generator) methodCall(sb *strings.Builder, n *ir.MethodCall) {
	if len(n.Args) == 0 {
		switch n.Method {
		case "len", "abs":
			sb.WriteString(n.Method)
			sb.WriteByte('(')
			g.writeExpr(sb, n.Receiver, precCond)
			sb.WriteByte(')')
			return
		case "is_empty":
			sb.WriteString("len(")
			g.writeExpr(sb, n.Receiver, precCond)
			sb.WriteString(") == 0")
			return
		case "to_string", "to_owned":
			sb.WriteString("String(")
			g.writeExpr(sb, n.Receiver, precCond)
			sb.WriteByte(')')
			return
		case "unwrap":
			g.writeExpr(sb, n.Receiver, precPostfix)
			sb.WriteString(".value()")
			return
		}
	}
	if len(n.Args) == 1 {
		switch n.Method {
		case "push":
			g.writeExpr(sb, n.Receiver, precPostfix)
			sb.WriteString(".append(")
			g.writeExpr(sb, n.Args[0], precCond)
			sb.WriteByte(')')
			return
		case "min", "max", "pow":
			sb.WriteString(n.Method)
			sb.WriteByte('(')
			g.writeExpr(sb, n.Receiver, precCond)
			sb.WriteString(", ")
			g.writeExpr(sb, n.Args[0], precCond)
			sb.WriteByte(')')
			return
		}
	}
	g.writeExpr(sb, n.Receiver, precPostfix)
	sb.WriteByte('.')
	sb.WriteString(name(n.Method))
	sb.WriteByte('(')
	g.list(sb, n.Args)
	sb.WriteByte(')')
}

// rangeCall renders a range as range(start, end). An unbounded end cannot
// be expressed.
func (g *generator) rangeCall(sb *strings.Builder, r *ir.RangeExpr) {
	if r.End == nil {
		sb.WriteString(g.unsupportedCall("unbounded range"))
		return
	}
	sb.WriteString("range(")
	if r.Start != nil {
		g.writeExpr(sb, r.Start, precCond)
		sb.WriteString(", ")
	}
	g.rangeEnd(sb, r)
	sb.WriteByte(')')
}

// rangeEnd writes the exclusive end of r.
func (g *generator) rangeEnd(sb *strings.Builder, r *ir.RangeExpr) {
	if r.Inclusive {
		g.writeExpr(sb, r.End, precAdd+1)
		sb.WriteString(" + 1")
		return
	}
	g.writeExpr(sb, r.End, precCond)
}

func (g *generator) slice(sb *strings.Builder, r *ir.RangeExpr) {
	if r.Start != nil {
		g.writeExpr(sb, r.Start, precCond)
	}
	sb.WriteByte(':')
	if r.End != nil {
		g.rangeEnd(sb, r)
	}
}

func (g *generator) unsupportedCall(construct string) string {
	return UnsupportedFunc + "(" + quote(construct) + ")"
}

// literal renders a literal value in Mojo syntax.
func literal(l ir.Literal) string {
	switch l.Kind {
	case ir.LitInteger:
		return strconv.FormatInt(l.Int, 10)
	case ir.LitFloat:
		switch {
		case math.IsInf(l.Float, 1):
			return "inf"
		case math.IsInf(l.Float, -1):
			return "-inf"
		case math.IsNaN(l.Float):
			return "nan"
		}
		s := strconv.FormatFloat(l.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	case ir.LitBool:
		if l.Bool {
			return "True"
		}
		return "False"
	}
	return quote(l.Str)
}

// quote renders s as a double-quoted Mojo string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == utf8.RuneError && size == 1:
			sb.WriteString(`\x`)
			sb.WriteString(strconv.FormatUint(uint64(s[i])|0x100, 16)[1:])
		case r < 0x20 || r == 0x7f:
			sb.WriteString(`\x`)
			sb.WriteString(strconv.FormatUint(uint64(r)|0x100, 16)[1:])
		default:
			sb.WriteRune(r)
		}
		i += size
	}
	sb.WriteByte('"')
	return sb.String()
}
