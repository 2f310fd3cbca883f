package syntax

func (p *parser) parseBlock() *Block {
	p.enter()
	defer p.leave()

	start := p.peek().Pos
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	p.parseInnerAttrs()
	b := &Block{}
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		if p.eat(";") {
			continue
		}
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	p.expect("}")
	b.Span = p.span(start)
	return b
}

func (p *parser) parseStmt() Stmt {
	start := p.peek().Pos
	attrs := p.parseOuterAttrs()

	if p.atKw("let") {
		return p.parseLet(start)
	}

	if p.itemStart() {
		vis := p.parseVis()
		item := p.parseItemKind(start, attrs, vis, ctxModule)
		return &StmtItem{Span: p.span(start), Item: item}
	}

	if p.atBlockLike() {
		e := p.parsePrimary()
		if (p.at(".") && !p.atSeq("..")) || p.at("?") {
			e = p.parsePostfix(start, e)
			e = p.parseBinRest(start, e, precOr)
			if op := p.assignOp(); op != "" {
				p.pos += len(op)
				rhs := p.parseAssign()
				e = &ExprAssign{Span: p.span(start), Op: op, Left: e, Right: rhs}
			}
			return p.finishExprStmt(start, e)
		}
		semi := p.eat(";")
		return &StmtExpr{Span: p.span(start), Expr: e, Semi: semi}
	}

	e := p.parseExpr()
	if mac, ok := e.(*ExprMacro); ok && mac.Mac.Delim == '{' {
		semi := p.eat(";")
		return &StmtExpr{Span: p.span(start), Expr: e, Semi: semi}
	}
	return p.finishExprStmt(start, e)
}

// finishExprStmt requires a semicolon unless the expression is the block's
// trailing expression.
func (p *parser) finishExprStmt(start int, e Expr) Stmt {
	if p.eat(";") {
		return &StmtExpr{Span: p.span(start), Expr: e, Semi: true}
	}
	if p.at("}") {
		return &StmtExpr{Span: p.span(start), Expr: e}
	}
	p.errorf("expected `;`, found %s", p.peek())
	return nil
}

func (p *parser) parseLet(start int) Stmt {
	p.expectKw("let")
	let := &StmtLet{Pat: p.parsePatternTop()}
	if p.eat(":") {
		let.Ty = p.parseType()
	}
	if p.eat("=") {
		let.Init = p.parseExpr()
		if p.eatKw("else") {
			if !p.at("{") {
				p.errorf("expected `{`, found %s", p.peek())
			}
			let.Else = p.parseBlock()
		}
	}
	p.expect(";")
	let.Span = p.span(start)
	return let
}
