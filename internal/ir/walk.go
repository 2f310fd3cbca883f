package ir

// Walk traverses the IR rooted at node in depth-first order, calling visit
// for each item, statement, expression and pattern. Children of a node are
// skipped when visit returns false. Types are not visited.
//
// node may be a *CompilationUnit or any Item, ImplItem, Statement,
// Expression or Pattern. Nil children are skipped.
func Walk(node any, visit func(node any) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *CompilationUnit:
		for _, it := range n.Items {
			walkItem(it, visit)
		}

	// Items
	case *Function:
		walkStmts(n.Body, visit)
	case *Struct, *Use, *TypeAlias:
	case *Enum:
		for _, v := range n.Variants {
			walkExpr(v.Discriminant, visit)
		}
	case *Impl:
		for _, it := range n.Items {
			if it != nil {
				Walk(it, visit)
			}
		}
	case *Module:
		for _, it := range n.Items {
			walkItem(it, visit)
		}
	case *Const:
		walkExpr(n.Value, visit)
	case *Static:
		walkExpr(n.Value, visit)

	// Statements
	case *ExprStmt:
		walkExpr(n.Expr, visit)
	case *Let:
		walkExpr(n.Value, visit)
	case *Return:
		walkExpr(n.Value, visit)
	case *If:
		walkExpr(n.Condition, visit)
		walkStmts(n.Then, visit)
		walkStmts(n.Else, visit)
	case *While:
		walkExpr(n.Condition, visit)
		walkStmts(n.Body, visit)
	case *For:
		walkExpr(n.Iterator, visit)
		walkStmts(n.Body, visit)
	case *Match:
		walkExpr(n.Subject, visit)
		for _, arm := range n.Arms {
			if arm.Pattern != nil {
				Walk(arm.Pattern, visit)
			}
			walkExpr(arm.Guard, visit)
			walkStmts(arm.Body, visit)
		}
	case *Block:
		walkStmts(n.Statements, visit)
	case *Break, *Continue:

	// Expressions
	case *LiteralExpr, *Identifier, *PathExpr:
	case *Call:
		walkExpr(n.Func, visit)
		walkExprs(n.Args, visit)
	case *MethodCall:
		walkExpr(n.Receiver, visit)
		walkExprs(n.Args, visit)
	case *FieldAccess:
		walkExpr(n.Object, visit)
	case *Index:
		walkExpr(n.Object, visit)
		walkExpr(n.Index, visit)
	case *Binary:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *Unary:
		walkExpr(n.Operand, visit)
	case *Cast:
		walkExpr(n.Expr, visit)
	case *Reference:
		walkExpr(n.Expr, visit)
	case *Dereference:
		walkExpr(n.Expr, visit)
	case *BlockExpr:
		walkStmts(n.Statements, visit)
	case *ArrayExpr:
		walkExprs(n.Elements, visit)
	case *TupleExpr:
		walkExprs(n.Elements, visit)
	case *StructLiteral:
		for _, f := range n.Fields {
			walkExpr(f.Value, visit)
		}
	case *RangeExpr:
		walkExpr(n.Start, visit)
		walkExpr(n.End, visit)
	case *MacroCall:
		walkExprs(n.Args, visit)
	case *Conditional:
		walkExpr(n.Condition, visit)
		walkExpr(n.Then, visit)
		walkExpr(n.Else, visit)
	case *Unsupported:

	// Patterns
	case *WildcardPattern, *IdentPattern, *LiteralPattern:
	case *TuplePattern:
		walkPatterns(n.Elements, visit)
	case *StructPattern:
		for _, f := range n.Fields {
			if f.Pattern != nil {
				Walk(f.Pattern, visit)
			}
		}
	case *EnumPattern:
		walkPatterns(n.Fields, visit)
	}
}

func walkItem(it Item, visit func(any) bool) {
	if it != nil {
		Walk(it, visit)
	}
}

func walkStmts(stmts []Statement, visit func(any) bool) {
	for _, s := range stmts {
		if s != nil {
			Walk(s, visit)
		}
	}
}

func walkExpr(e Expression, visit func(any) bool) {
	if e != nil {
		Walk(e, visit)
	}
}

func walkExprs(es []Expression, visit func(any) bool) {
	for _, e := range es {
		walkExpr(e, visit)
	}
}

func walkPatterns(ps []Pattern, visit func(any) bool) {
	for _, p := range ps {
		if p != nil {
			Walk(p, visit)
		}
	}
}

// CollectUnsupported returns every Unsupported node in unit, in source order.
func CollectUnsupported(unit *CompilationUnit) []*Unsupported {
	var out []*Unsupported
	Walk(unit, func(n any) bool {
		if u, ok := n.(*Unsupported); ok {
			out = append(out, u)
		}
		return true
	})
	return out
}

// UsesMacro reports whether any macro invocation in unit is named one of names.
func UsesMacro(unit *CompilationUnit, names ...string) bool {
	found := false
	Walk(unit, func(n any) bool {
		if found {
			return false
		}
		if m, ok := n.(*MacroCall); ok {
			for _, name := range names {
				if m.Name == name {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}
