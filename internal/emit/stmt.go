package emit

import (
	"fmt"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
)

// body writes stmts one level deeper. Mojo does not allow an empty block,
// so a body without code gets a pass.
func (g *generator) body(stmts []ir.Statement) {
	g.indent++
	before := g.code
	g.stmts(stmts)
	if g.code == before {
		g.line("pass")
	}
	g.indent--
}

func (g *generator) stmts(stmts []ir.Statement) {
	if len(g.bindings) > 0 {
		// Lets in this block may shadow arm bindings until it ends.
		g.bindings = append(g.bindings, nil)
		defer func() { g.bindings = g.bindings[:len(g.bindings)-1] }()
	}
	for _, s := range stmts {
		g.stmt(s)
	}
}

func (g *generator) stmt(s ir.Statement) {
	switch n := s.(type) {
	case *ir.ExprStmt:
		g.line("%s", g.exprStmt(n.Expr))

	case *ir.Let:
		if n.Name == "_" {
			if n.Value != nil {
				g.line("_ = %s", g.expr(n.Value))
			}
			return
		}
		g.binding("var", n.Name, n.Type, n.Value)
		g.shadow(n.Name)

	case *ir.Return:
		if n.Value == nil || g.inMain {
			g.line("return")
			return
		}
		g.line("return %s", g.expr(n.Value))

	case *ir.If:
		g.ifChain("if", n)

	case *ir.While:
		g.line("while %s:", g.expr(n.Condition))
		g.body(n.Body)

	case *ir.For:
		g.line("for %s in %s:", name(n.Variable), g.iterator(n.Iterator))
		if _, bound := g.lookupBinding(n.Variable); bound {
			g.bindings = append(g.bindings, map[string]string{n.Variable: ""})
			g.body(n.Body)
			g.bindings = g.bindings[:len(g.bindings)-1]
			return
		}
		g.body(n.Body)

	case *ir.Match:
		g.match(n)

	case *ir.Block:
		g.stmts(n.Statements)

	case *ir.Break:
		g.line("break")

	case *ir.Continue:
		g.line("continue")

	case *ir.Unsupported:
		g.comment(strings.TrimPrefix(UnsupportedComment, "# ") + n.Construct)

	case nil:
		g.failf("nil statement")

	default:
		g.failf("unexpected statement %T", s)
	}
}

// exprStmt renders an expression statement. Assignments are statements in
// Mojo and are written without surrounding parentheses.
func (g *generator) exprStmt(e ir.Expression) string {
	if b, ok := e.(*ir.Binary); ok && b.Op.IsAssign() {
		return g.expr(b.Left) + " " + b.Op.String() + " " + g.expr(b.Right)
	}
	return g.expr(e)
}

// ifChain writes an if statement, folding else { if .. } into elif.
func (g *generator) ifChain(keyword string, n *ir.If) {
	g.line("%s %s:", keyword, g.expr(n.Condition))
	g.body(n.Then)
	switch {
	case n.Else == nil:
	case len(n.Else) == 1:
		if nested, ok := n.Else[0].(*ir.If); ok {
			g.ifChain("elif", nested)
			return
		}
		fallthrough
	default:
		g.line("else:")
		g.body(n.Else)
	}
}

// iterator renders the subject of a for loop. Ranges become range() calls
// and iterator adaptors that Mojo collections do not need are dropped.
func (g *generator) iterator(e ir.Expression) string {
	switch n := e.(type) {
	case *ir.RangeExpr:
		var sb strings.Builder
		g.rangeCall(&sb, n)
		return sb.String()
	case *ir.MethodCall:
		switch n.Method {
		case "iter", "into_iter", "iter_mut":
			if len(n.Args) == 0 {
				return g.exprPrec(n.Receiver, precPostfix)
			}
		}
	case *ir.Reference:
		return g.iterator(n.Expr)
	}
	return g.expr(e)
}

// ---------------------------------------------------------------------------
// Match

// match lowers a match statement to an if/elif/else chain. Pattern
// bindings are substituted into the guard and body rather than declared.
func (g *generator) match(m *ir.Match) {
	subject := g.expr(m.Subject)
	if !isSimple(m.Subject) {
		tmp := fmt.Sprintf("_match%d", g.matches)
		g.matches++
		g.line("var %s = %s", tmp, subject)
		subject = tmp
	}

	first := true
	for _, arm := range m.Arms {
		cond, binds := g.patternTest(subject, arm.Pattern)
		g.bindings = append(g.bindings, binds)
		if arm.Guard != nil {
			guard := g.exprPrec(arm.Guard, precAnd+1)
			if cond == "" {
				cond = guard
			} else {
				cond = cond + " and " + guard
			}
		}

		switch {
		case cond == "" && first:
			// Irrefutable first arm: the body runs unconditionally.
			g.stmts(arm.Body)
		case cond == "":
			g.line("else:")
			g.body(arm.Body)
		case first:
			g.line("if %s:", cond)
			g.body(arm.Body)
		default:
			g.line("elif %s:", cond)
			g.body(arm.Body)
		}
		g.bindings = g.bindings[:len(g.bindings)-1]

		if cond == "" {
			// Later arms are unreachable.
			return
		}
		first = false
	}
}

// isSimple reports whether e can be evaluated repeatedly without effects.
func isSimple(e ir.Expression) bool {
	switch n := e.(type) {
	case *ir.Identifier, *ir.PathExpr, *ir.LiteralExpr:
		return true
	case *ir.FieldAccess:
		return isSimple(n.Object)
	case *ir.Reference:
		return isSimple(n.Expr)
	case *ir.Dereference:
		return isSimple(n.Expr)
	}
	return false
}

// patternTest returns the condition under which subject matches p and the
// names p binds, mapped to the expression they stand for. An empty
// condition means the pattern always matches.
func (g *generator) patternTest(subject string, p ir.Pattern) (string, map[string]string) {
	binds := map[string]string{}
	var conds []string
	var walk func(subject string, p ir.Pattern)
	walk = func(subject string, p ir.Pattern) {
		switch n := p.(type) {
		case *ir.WildcardPattern:
		case *ir.IdentPattern:
			binds[n.Name] = subject
		case *ir.LiteralPattern:
			conds = append(conds, subject+" == "+literal(n.Value))
		case *ir.TuplePattern:
			for i, el := range n.Elements {
				walk(fmt.Sprintf("%s[%d]", subject, i), el)
			}
		case *ir.StructPattern:
			for _, f := range n.Fields {
				walk(subject+"."+fieldName(f.Name), f.Pattern)
			}
		case *ir.EnumPattern:
			g.enumTest(subject, n, &conds, walk)
		case *ir.Unsupported:
			conds = append(conds, g.unsupportedCall(n.Construct))
		case nil:
			g.failf("nil pattern")
		default:
			g.failf("unexpected pattern %T", p)
		}
	}
	walk(subject, p)
	return strings.Join(conds, " and "), binds
}

func (g *generator) enumTest(subject string, n *ir.EnumPattern, conds *[]string, walk func(string, ir.Pattern)) {
	if n.Path == "" || n.Path == "Option" {
		switch n.Variant {
		case "None":
			*conds = append(*conds, "not "+subject)
			return
		case "Some":
			*conds = append(*conds, subject)
			if len(n.Fields) == 1 {
				walk(subject+".value()", n.Fields[0])
			}
			return
		}
	}
	variant := name(n.Variant)
	if n.Path != "" {
		variant = g.pathName(n.Path) + "." + variant
	}
	*conds = append(*conds, subject+" == "+variant)
	for _, f := range n.Fields {
		switch f.(type) {
		case *ir.WildcardPattern:
		default:
			*conds = append(*conds, g.unsupportedCall("enum payload pattern"))
			return
		}
	}
}

// lookupBinding resolves an identifier bound by an enclosing match arm. A
// name rebound by a later let or loop variable maps to "" and resolves to
// itself.
func (g *generator) lookupBinding(n string) (string, bool) {
	for i := len(g.bindings) - 1; i >= 0; i-- {
		if v, ok := g.bindings[i][n]; ok {
			return v, v != ""
		}
	}
	return "", false
}

// shadow stops substituting an arm binding named n for the rest of the
// current block.
func (g *generator) shadow(n string) {
	if _, bound := g.lookupBinding(n); !bound {
		return
	}
	top := &g.bindings[len(g.bindings)-1]
	if *top == nil {
		*top = map[string]string{}
	}
	(*top)[n] = ""
}
