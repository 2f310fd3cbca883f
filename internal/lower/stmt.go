package lower

import (
	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

// divergingMacros never produce a value, so in tail position they stay
// statements instead of becoming a return.
var divergingMacros = map[string]bool{
	"panic":         true,
	"unreachable":   true,
	"todo":          true,
	"unimplemented": true,
}

// block lowers the statements of b. When tail is set, the final expression
// without a semicolon is the block's value and becomes a return.
func (l *lowerer) block(b *syntax.Block, tail bool) []ir.Statement {
	out := []ir.Statement{}
	if b == nil {
		return out
	}
	for i, st := range b.Stmts {
		var lowered ir.Statement
		switch s := st.(type) {
		case *syntax.StmtLet:
			lowered = l.let(s)
		case *syntax.StmtItem:
			lowered = l.unsupported("nested item", s)
		case *syntax.StmtExpr:
			if tail && !s.Semi && i == len(b.Stmts)-1 {
				lowered = l.tailStmt(s.Expr)
			} else {
				lowered = l.exprStmt(s.Expr)
			}
		}
		if lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (l *lowerer) let(s *syntax.StmtLet) ir.Statement {
	if s.Else != nil {
		return l.unsupported("let-else", s)
	}
	let := &ir.Let{Value: l.expr(s.Init)}
	if s.Ty != nil {
		let.Type = l.typ(s.Ty)
	}
	switch p := s.Pat.(type) {
	case *syntax.PatIdent:
		if p.Sub != nil {
			return l.unsupported("destructuring let", s)
		}
		let.Name = ident(p.Name)
		let.Mutable = p.Mutable
	case *syntax.PatWild:
		let.Name = "_"
	default:
		return l.unsupported("destructuring let", s)
	}
	return let
}

// tailStmt lowers the value expression of a function body. Branching
// forms push the return into each branch.
func (l *lowerer) tailStmt(e syntax.Expr) ir.Statement {
	switch n := e.(type) {
	case *syntax.ExprIf:
		return l.ifStmt(n, true)
	case *syntax.ExprMatch:
		return l.matchStmt(n, true)
	case *syntax.ExprBlock:
		if n.Label == "" && !n.Async {
			return &ir.Block{Statements: l.block(n.Block, true)}
		}
	case *syntax.ExprParen:
		return l.tailStmt(n.Expr)
	case *syntax.ExprReturn, *syntax.ExprWhile, *syntax.ExprLoop, *syntax.ExprForLoop,
		*syntax.ExprBreak, *syntax.ExprContinue:
		return l.exprStmt(e)
	case *syntax.ExprMacro:
		if divergingMacros[n.Mac.Path.Last().Name] {
			return l.exprStmt(e)
		}
	case *syntax.ExprTuple:
		if len(n.Elems) == 0 {
			return nil
		}
	}
	value := l.expr(e)
	if u, ok := value.(*ir.Unsupported); ok {
		return u
	}
	return &ir.Return{Value: value}
}

// exprStmt lowers an expression evaluated for its effect. It returns nil
// for statements with no effect, such as a bare ().
func (l *lowerer) exprStmt(e syntax.Expr) ir.Statement {
	switch n := e.(type) {
	case *syntax.ExprIf:
		return l.ifStmt(n, false)
	case *syntax.ExprWhile:
		return l.whileStmt(n)
	case *syntax.ExprLoop:
		return &ir.While{Condition: trueExpr(), Body: l.block(n.Body, false)}
	case *syntax.ExprForLoop:
		return &ir.For{
			Variable: forVariable(n.Pat),
			Iterator: l.expr(n.Iter),
			Body:     l.block(n.Body, false),
		}
	case *syntax.ExprMatch:
		return l.matchStmt(n, false)
	case *syntax.ExprBlock:
		switch {
		case n.Async:
			return l.unsupported("async block", n)
		case n.Label != "":
			return l.unsupported("labelled block", n)
		}
		return &ir.Block{Statements: l.block(n.Block, false)}
	case *syntax.ExprReturn:
		return &ir.Return{Value: l.expr(n.Value)}
	case *syntax.ExprBreak:
		switch {
		case n.Label != "":
			return l.unsupported("labelled break", n)
		case n.Value != nil:
			return l.unsupported("break with value", n)
		}
		return &ir.Break{}
	case *syntax.ExprContinue:
		if n.Label != "" {
			return l.unsupported("labelled continue", n)
		}
		return &ir.Continue{}
	case *syntax.ExprParen:
		return l.exprStmt(n.Expr)
	case *syntax.ExprTuple:
		if len(n.Elems) == 0 {
			return nil
		}
	}
	value := l.expr(e)
	if u, ok := value.(*ir.Unsupported); ok {
		return u
	}
	return &ir.ExprStmt{Expr: value}
}

func trueExpr() ir.Expression {
	return &ir.LiteralExpr{Value: ir.BoolLit(true)}
}

// ifStmt lowers if and if-let. if let becomes a match whose fallback arm
// is the else branch.
func (l *lowerer) ifStmt(n *syntax.ExprIf, tail bool) ir.Statement {
	if let, ok := n.Cond.(*syntax.ExprLet); ok {
		m := &ir.Match{
			Subject: l.expr(let.Expr),
			Arms: []ir.MatchArm{{
				Pattern: l.pattern(let.Pat),
				Body:    l.block(n.Then, tail),
			}},
		}
		if n.Else != nil {
			m.Arms = append(m.Arms, ir.MatchArm{
				Pattern: &ir.WildcardPattern{},
				Body:    l.elseBranch(n.Else, tail),
			})
		}
		return m
	}
	return &ir.If{
		Condition: l.expr(n.Cond),
		Then:      l.block(n.Then, tail),
		Else:      l.elseBranch(n.Else, tail),
	}
}

func (l *lowerer) elseBranch(e syntax.Expr, tail bool) []ir.Statement {
	switch n := e.(type) {
	case nil:
		return nil
	case *syntax.ExprIf:
		return []ir.Statement{l.ifStmt(n, tail)}
	case *syntax.ExprBlock:
		return l.block(n.Block, tail)
	}
	return []ir.Statement{l.unsupported("else branch", e)}
}

// whileStmt lowers while and while-let. while let becomes an infinite
// loop around a match that breaks when the pattern stops matching.
func (l *lowerer) whileStmt(n *syntax.ExprWhile) ir.Statement {
	let, ok := n.Cond.(*syntax.ExprLet)
	if !ok {
		return &ir.While{Condition: l.expr(n.Cond), Body: l.block(n.Body, false)}
	}
	m := &ir.Match{
		Subject: l.expr(let.Expr),
		Arms: []ir.MatchArm{
			{Pattern: l.pattern(let.Pat), Body: l.block(n.Body, false)},
			{Pattern: &ir.WildcardPattern{}, Body: []ir.Statement{&ir.Break{}}},
		},
	}
	return &ir.While{Condition: trueExpr(), Body: []ir.Statement{m}}
}

func (l *lowerer) matchStmt(n *syntax.ExprMatch, tail bool) ir.Statement {
	m := &ir.Match{Subject: l.expr(n.Subject), Arms: make([]ir.MatchArm, 0, len(n.Arms))}
	for _, arm := range n.Arms {
		m.Arms = append(m.Arms, ir.MatchArm{
			Pattern: l.pattern(arm.Pat),
			Guard:   l.expr(arm.Guard),
			Body:    l.armBody(arm.Body, tail),
		})
	}
	return m
}

func (l *lowerer) armBody(e syntax.Expr, tail bool) []ir.Statement {
	if b, ok := e.(*syntax.ExprBlock); ok && b.Label == "" && !b.Async {
		return l.block(b.Block, tail)
	}
	var st ir.Statement
	if tail {
		st = l.tailStmt(e)
	} else {
		st = l.exprStmt(e)
	}
	if st == nil {
		return []ir.Statement{}
	}
	return []ir.Statement{st}
}

// forVariable reduces a for-loop pattern to a single name. Destructuring
// patterns fall back to a fixed placeholder.
func forVariable(p syntax.Pat) string {
	switch n := p.(type) {
	case *syntax.PatIdent:
		if n.Sub == nil {
			return ident(n.Name)
		}
	case *syntax.PatWild:
		return "_"
	case *syntax.PatParen:
		return forVariable(n.Pat)
	}
	return "item"
}
