package syntax

// Binary operator precedence, loosest first. Range and assignment sit below
// precOr and are handled by dedicated layers.
const (
	precOr = iota + 1
	precAnd
	precCmp
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdd
	precMul
	precCast
)

func (p *parser) parseExpr() Expr {
	p.enter()
	defer p.leave()
	return p.parseAssign()
}

// parseExprNoStruct parses an if/while condition, match subject or for
// iterator, where `{` starts the body.
func (p *parser) parseExprNoStruct() Expr {
	saved := p.noStruct
	p.noStruct = true
	defer func() { p.noStruct = saved }()
	return p.parseExpr()
}

// parseExprAllowStruct parses an expression inside delimiters, where struct
// literals are allowed again.
func (p *parser) parseExprAllowStruct() Expr {
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()
	return p.parseExpr()
}

var compoundAssignOps = []string{"<<=", ">>=", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|="}

func (p *parser) assignOp() string {
	for _, op := range compoundAssignOps {
		if p.atSeq(op) {
			return op
		}
	}
	if p.at("=") && !p.atSeq("==") && !p.atSeq("=>") {
		return "="
	}
	return ""
}

func (p *parser) parseAssign() Expr {
	start := p.peek().Pos
	lhs := p.parseRange()
	if op := p.assignOp(); op != "" {
		p.pos += len(op)
		rhs := p.parseAssign()
		return &ExprAssign{Span: p.span(start), Op: op, Left: lhs, Right: rhs}
	}
	return lhs
}

func (p *parser) atRangeOp() bool {
	return p.atSeq("..") && !p.atSeq("...")
}

// eatRangeOp consumes .. or ..= and reports whether it was inclusive.
func (p *parser) eatRangeOp() bool {
	if p.eatSeq("..=") {
		return true
	}
	p.pos += 2
	return false
}

// rangeEndFollows reports whether a range upper bound follows.
func (p *parser) rangeEndFollows() bool {
	if p.noStruct && p.at("{") {
		return false
	}
	return p.canStartExpr()
}

func (p *parser) parseRange() Expr {
	start := p.peek().Pos
	if p.atRangeOp() {
		incl := p.eatRangeOp()
		var end Expr
		if p.rangeEndFollows() {
			end = p.parseBin(precOr)
		}
		if incl && end == nil {
			p.errorf("inclusive range with no end")
		}
		return &ExprRange{Span: p.span(start), End: end, Inclusive: incl}
	}
	lhs := p.parseBin(precOr)
	if p.atRangeOp() {
		incl := p.eatRangeOp()
		var end Expr
		if p.rangeEndFollows() {
			end = p.parseBin(precOr)
		}
		if incl && end == nil {
			p.errorf("inclusive range with no end")
		}
		return &ExprRange{Span: p.span(start), Start: lhs, End: end, Inclusive: incl}
	}
	return lhs
}

// binOp returns the binary operator at the cursor and its precedence, or
// "" when the next tokens do not form one.
func (p *parser) binOp() (string, int) {
	t := p.peek()
	if t.IsKeyword("as") {
		return "as", precCast
	}
	if t.Kind != Punct {
		return "", 0
	}
	if p.atSeq("<<=") || p.atSeq(">>=") {
		return "", 0
	}
	for _, op := range []struct {
		sym  string
		prec int
	}{
		{"||", precOr}, {"&&", precAnd},
		{"==", precCmp}, {"!=", precCmp}, {"<=", precCmp}, {">=", precCmp},
		{"<<", precShift}, {">>", precShift},
	} {
		if p.atSeq(op.sym) {
			return op.sym, op.prec
		}
	}
	// Compound assignments and arrows end the operand.
	if t.Joint && p.peekN(1).Is("=") {
		return "", 0
	}
	if t.Is("-") && t.Joint && p.peekN(1).Is(">") {
		return "", 0
	}
	switch t.Text {
	case "<", ">":
		return t.Text, precCmp
	case "|":
		return t.Text, precBitOr
	case "^":
		return t.Text, precBitXor
	case "&":
		return t.Text, precBitAnd
	case "+", "-":
		return t.Text, precAdd
	case "*", "/", "%":
		return t.Text, precMul
	}
	return "", 0
}

func (p *parser) parseBin(minPrec int) Expr {
	start := p.peek().Pos
	left := p.parseUnary()
	return p.parseBinRest(start, left, minPrec)
}

// parseBinRest continues a binary expression whose left operand has
// already been parsed.
func (p *parser) parseBinRest(start int, left Expr, minPrec int) Expr {
	for {
		op, prec := p.binOp()
		if op == "" || prec < minPrec {
			return left
		}
		if op == "as" {
			p.next()
			ty := p.parseTypeNoBounds()
			left = &ExprCast{Span: p.span(start), Expr: left, Ty: ty}
			continue
		}
		p.pos += len(op)
		right := p.parseBin(prec + 1)
		left = &ExprBinary{Span: p.span(start), Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() Expr {
	start := p.peek().Pos
	switch {
	case p.at("-"), p.at("!"), p.at("*"):
		p.enter()
		defer p.leave()
		op := p.next().Text
		operand := p.parseUnary()
		return &ExprUnary{Span: p.span(start), Op: op, Operand: operand}
	case p.at("&"):
		p.enter()
		defer p.leave()
		p.next()
		ref := &ExprRef{}
		if p.atContextual("raw") && (p.peekN(1).IsKeyword("const") || p.peekN(1).IsKeyword("mut")) {
			p.next()
			ref.Raw = true
			ref.Mutable = p.next().Text == "mut"
		} else {
			ref.Mutable = p.eatKw("mut")
		}
		ref.Expr = p.parseUnary()
		ref.Span = p.span(start)
		return ref
	}
	return p.parsePostfix(start, p.parsePrimary())
}

func (p *parser) parsePostfix(start int, e Expr) Expr {
	for {
		switch {
		case p.at("?"):
			p.next()
			e = &ExprTry{Span: p.span(start), Expr: e}

		case p.at(".") && !p.atSeq(".."):
			p.next()
			t := p.peek()
			switch {
			case t.IsKeyword("await"):
				p.next()
				e = &ExprAwait{Span: p.span(start), Expr: e}
			case t.Kind == Literal && t.Lit == LitInt:
				p.next()
				e = &ExprField{Span: p.span(start), Base: e, Member: t.Text}
			case isIdent(t):
				p.next()
				var turbofish *GenericArgs
				if p.atSeq("::") && p.peekN(2).Is("<") {
					p.pos += 2
					turbofish = p.parseGenericArgs()
				}
				if p.at("(") {
					args := p.parseCallArgs()
					e = &ExprMethodCall{Span: p.span(start), Receiver: e, Method: t.Text, Turbofish: turbofish, Args: args}
				} else {
					if turbofish != nil {
						p.errorf("field expressions cannot have generic arguments")
					}
					e = &ExprField{Span: p.span(start), Base: e, Member: t.Text}
				}
			default:
				p.errorf("expected identifier after `.`, found %s", t)
			}

		case p.at("("):
			args := p.parseCallArgs()
			e = &ExprCall{Span: p.span(start), Func: e, Args: args}

		case p.at("["):
			p.next()
			idx := p.parseExprAllowStruct()
			p.expect("]")
			e = &ExprIndex{Span: p.span(start), Base: e, Index: idx}

		default:
			return e
		}
	}
}

func (p *parser) parseCallArgs() []Expr {
	p.expect("(")
	saved := p.noStruct
	p.noStruct = false
	var args []Expr
	for !p.at(")") {
		args = append(args, p.parseExpr())
		if !p.eat(",") {
			break
		}
	}
	p.noStruct = saved
	p.expect(")")
	return args
}

// canStartExpr reports whether the next token can begin an expression.
func (p *parser) canStartExpr() bool {
	t := p.peek()
	switch t.Kind {
	case Literal, Lifetime:
		return true
	case Ident:
		if t.Raw || !keywords[t.Text] {
			return true
		}
		switch t.Text {
		case "true", "false", "self", "Self", "super", "crate", "if", "match", "loop",
			"while", "for", "unsafe", "return", "break", "continue", "let", "move",
			"async", "const":
			return true
		}
		return false
	case Punct:
		switch t.Text {
		case "(", "[", "{", "-", "!", "*", "&", "|", "<":
			return true
		case ":":
			return p.atSeq("::")
		case ".":
			return p.atSeq("..")
		}
	}
	return false
}

// atBlockLike reports whether the next expression is block-like: it ends a
// statement without a semicolon.
func (p *parser) atBlockLike() bool {
	t := p.peek()
	switch {
	case t.Is("{"):
		return true
	case t.IsKeyword("unsafe"), t.IsKeyword("const"):
		return p.peekN(1).Is("{")
	case t.IsKeyword("if"), t.IsKeyword("match"), t.IsKeyword("loop"),
		t.IsKeyword("while"), t.IsKeyword("for"):
		return true
	case t.Kind == Lifetime:
		return p.peekN(1).Is(":")
	}
	return false
}

func (p *parser) parsePrimary() Expr {
	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Kind == Literal, t.IsKeyword("true"), t.IsKeyword("false"):
		return p.parseLiteral()

	case t.Is("("):
		return p.parseParenOrTuple()

	case t.Is("["):
		return p.parseArrayExpr()

	case t.Is("{"):
		b := p.parseBlock()
		return &ExprBlock{Span: p.span(start), Block: b}

	case t.Kind == Lifetime:
		return p.parseLabeled()

	case t.IsKeyword("unsafe") && p.peekN(1).Is("{"):
		p.next()
		b := p.parseBlock()
		return &ExprBlock{Span: p.span(start), Unsafe: true, Block: b}

	case t.IsKeyword("const") && p.peekN(1).Is("{"):
		p.next()
		b := p.parseBlock()
		return &ExprBlock{Span: p.span(start), Const: true, Block: b}

	case t.IsKeyword("async"):
		if p.peekN(1).Is("{") || p.peekN(1).IsKeyword("move") && p.peekN(2).Is("{") {
			p.next()
			p.eatKw("move")
			b := p.parseBlock()
			return &ExprBlock{Span: p.span(start), Async: true, Block: b}
		}
		return p.parseClosure()

	case t.IsKeyword("if"):
		return p.parseIf()

	case t.IsKeyword("match"):
		return p.parseMatch()

	case t.IsKeyword("while"):
		return p.parseWhile(start, "")

	case t.IsKeyword("loop"):
		return p.parseLoop(start, "")

	case t.IsKeyword("for"):
		return p.parseFor(start, "")

	case t.IsKeyword("let"):
		p.next()
		pat := p.parsePatternTop()
		p.expect("=")
		scrutinee := p.parseBin(precCmp)
		return &ExprLet{Span: p.span(start), Pat: pat, Expr: scrutinee}

	case t.IsKeyword("return"):
		p.next()
		var v Expr
		if p.canStartExpr() {
			v = p.parseExpr()
		}
		return &ExprReturn{Span: p.span(start), Value: v}

	case t.IsKeyword("break"):
		p.next()
		br := &ExprBreak{}
		if p.atLifetime() {
			br.Label = p.next().Text
		}
		if p.canStartExpr() && !(p.noStruct && p.at("{")) {
			br.Value = p.parseExpr()
		}
		br.Span = p.span(start)
		return br

	case t.IsKeyword("continue"):
		p.next()
		c := &ExprContinue{}
		if p.atLifetime() {
			c.Label = p.next().Text
		}
		c.Span = p.span(start)
		return c

	case t.IsKeyword("move"), t.Is("|"):
		return p.parseClosure()

	case t.Is("<"), p.atPathStart():
		return p.parsePathExpr()
	}
	p.errorf("expected expression, found %s", t)
	return nil
}

func (p *parser) parsePathExpr() Expr {
	start := p.peek().Pos
	var qself Type
	if p.eat("<") {
		qself = p.parseType()
		if p.eatKw("as") {
			p.parsePath(true)
		}
		p.expect(">")
		p.expectSeq("::")
	}
	path := p.parsePath(false)
	if qself == nil && p.at("!") && !p.atSeq("!=") {
		mac := p.parseMacroRest(path, start)
		return &ExprMacro{Span: p.span(start), Mac: mac}
	}
	if qself == nil && !p.noStruct && p.at("{") && p.structLitFollows() {
		return p.parseStructLit(start, path)
	}
	return &ExprPath{Span: p.span(start), QSelf: qself, Path: path}
}

// structLitFollows looks past `{` for the shape of a struct literal body.
func (p *parser) structLitFollows() bool {
	t1, t2 := p.peekN(1), p.peekN(2)
	switch {
	case t1.Is("}"):
		return true
	case t1.Is("."):
		return p.atSeqAt(1, "..")
	case t1.Is("#"):
		return true
	case isIdent(t1) || t1.Kind == Literal && t1.Lit == LitInt:
		return t2.Is(",") || t2.Is("}") || t2.Is(":") && !p.atSeqAt(2, "::")
	}
	return false
}

func (p *parser) parseStructLit(start int, path *Path) Expr {
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	lit := &ExprStruct{Path: path}
	for !p.at("}") {
		if p.eatSeq("..") {
			if !p.at("}") {
				lit.Rest = p.parseExpr()
			}
			break
		}
		p.parseOuterAttrs()
		t := p.peek()
		if !isIdent(t) && !(t.Kind == Literal && t.Lit == LitInt) {
			p.errorf("expected identifier, found %s", t)
		}
		p.next()
		fv := &FieldValue{Name: t.Text}
		if p.eat(":") {
			fv.Expr = p.parseExpr()
		} else {
			if t.Kind != Ident {
				p.errorf("expected `:`, found %s", p.peek())
			}
			fv.Shorthand = true
			fv.Expr = &ExprPath{
				Span: Span{Start: t.Pos, End: t.End},
				Path: &Path{Span: Span{Start: t.Pos, End: t.End}, Segments: []*PathSegment{{Name: t.Text, Raw: t.Raw}}},
			}
		}
		lit.Fields = append(lit.Fields, fv)
		if !p.eat(",") {
			break
		}
	}
	p.noStruct = saved
	p.expect("}")
	lit.Span = p.span(start)
	return lit
}

func (p *parser) parseParenOrTuple() Expr {
	start := p.peek().Pos
	p.expect("(")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	if p.eat(")") {
		return &ExprTuple{Span: p.span(start)}
	}
	first := p.parseExpr()
	if p.eat(")") {
		return &ExprParen{Span: p.span(start), Expr: first}
	}
	elems := []Expr{first}
	for p.eat(",") {
		if p.at(")") {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(")")
	return &ExprTuple{Span: p.span(start), Elems: elems}
}

func (p *parser) parseArrayExpr() Expr {
	start := p.peek().Pos
	p.expect("[")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	if p.eat("]") {
		return &ExprArray{Span: p.span(start)}
	}
	first := p.parseExpr()
	if p.eat(";") {
		n := p.parseExpr()
		p.expect("]")
		return &ExprRepeat{Span: p.span(start), Elem: first, Len: n}
	}
	elems := []Expr{first}
	for p.eat(",") {
		if p.at("]") {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect("]")
	return &ExprArray{Span: p.span(start), Elems: elems}
}

func (p *parser) parseLabeled() Expr {
	start := p.peek().Pos
	label := p.next().Text
	p.expect(":")
	switch {
	case p.atKw("while"):
		return p.parseWhile(start, label)
	case p.atKw("loop"):
		return p.parseLoop(start, label)
	case p.atKw("for"):
		return p.parseFor(start, label)
	case p.at("{"):
		b := p.parseBlock()
		return &ExprBlock{Span: p.span(start), Label: label, Block: b}
	}
	p.errorf("expected `while`, `for`, `loop` or `{` after a label, found %s", p.peek())
	return nil
}

func (p *parser) parseIf() Expr {
	start := p.peek().Pos
	p.expectKw("if")
	cond := p.parseExprNoStruct()
	if !p.at("{") {
		p.errorf("expected `{`, found %s", p.peek())
	}
	then := p.parseBlock()
	var els Expr
	if p.eatKw("else") {
		switch {
		case p.atKw("if"):
			els = p.parseIf()
		case p.at("{"):
			estart := p.peek().Pos
			b := p.parseBlock()
			els = &ExprBlock{Span: p.span(estart), Block: b}
		default:
			p.errorf("expected `{` or `if` after `else`, found %s", p.peek())
		}
	}
	return &ExprIf{Span: p.span(start), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseMatch() Expr {
	start := p.peek().Pos
	p.expectKw("match")
	subject := p.parseExprNoStruct()
	p.expect("{")
	saved := p.noStruct
	p.noStruct = false
	defer func() { p.noStruct = saved }()

	p.parseInnerAttrs()
	m := &ExprMatch{Subject: subject}
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		astart := p.peek().Pos
		p.parseOuterAttrs()
		arm := &Arm{Pat: p.parsePatternTop()}
		if p.eatKw("if") {
			arm.Guard = p.parseExpr()
		}
		p.expectSeq("=>")
		if p.atBlockLike() {
			bstart := p.peek().Pos
			arm.Body = p.parsePrimary()
			if p.at(".") || p.at("?") {
				arm.Body = p.parseBinRest(bstart, p.parsePostfix(bstart, arm.Body), precOr)
				if !p.eat(",") && !p.at("}") {
					p.errorf("expected `,` following `match` arm, found %s", p.peek())
				}
			} else {
				p.eat(",")
			}
		} else {
			arm.Body = p.parseExpr()
			if !p.eat(",") && !p.at("}") {
				p.errorf("expected `,` following `match` arm, found %s", p.peek())
			}
		}
		arm.Span = p.span(astart)
		m.Arms = append(m.Arms, arm)
	}
	p.expect("}")
	m.Span = p.span(start)
	return m
}

func (p *parser) parseWhile(start int, label string) Expr {
	p.expectKw("while")
	cond := p.parseExprNoStruct()
	body := p.parseBlock()
	return &ExprWhile{Span: p.span(start), Label: label, Cond: cond, Body: body}
}

func (p *parser) parseLoop(start int, label string) Expr {
	p.expectKw("loop")
	body := p.parseBlock()
	return &ExprLoop{Span: p.span(start), Label: label, Body: body}
}

func (p *parser) parseFor(start int, label string) Expr {
	p.expectKw("for")
	pat := p.parsePatternTop()
	p.expectKw("in")
	iter := p.parseExprNoStruct()
	body := p.parseBlock()
	return &ExprForLoop{Span: p.span(start), Label: label, Pat: pat, Iter: iter, Body: body}
}

func (p *parser) parseClosure() Expr {
	start := p.peek().Pos
	c := &ExprClosure{}
	c.Async = p.eatKw("async")
	c.Move = p.eatKw("move")
	if !p.eatSeq("||") {
		p.expect("|")
		for !p.at("|") {
			p.parseOuterAttrs()
			param := &ClosureParam{Pat: p.parsePatternNoTop()}
			if p.eat(":") {
				param.Ty = p.parseTypeNoBounds()
			}
			c.Params = append(c.Params, param)
			if !p.eat(",") {
				break
			}
		}
		p.expect("|")
	}
	if p.eatSeq("->") {
		c.Output = p.parseTypeNoBounds()
		if !p.at("{") {
			p.errorf("expected `{`, found %s", p.peek())
		}
		bstart := p.peek().Pos
		b := p.parseBlock()
		c.Body = &ExprBlock{Span: p.span(bstart), Block: b}
	} else {
		c.Body = p.parseExpr()
	}
	c.Span = p.span(start)
	return c
}

// parseMacroRest parses the `!(tokens)` part of a macro invocation whose
// path has already been consumed.
func (p *parser) parseMacroRest(path *Path, start int) *Macro {
	p.expect("!")
	open := p.peek()
	if !open.Is("(") && !open.Is("[") && !open.Is("{") {
		p.errorf("expected one of `(`, `[`, or `{`, found %s", open)
	}
	toks := p.delimited()
	m := &Macro{Path: path, Delim: open.Text[0], Tokens: toks}
	m.Args, m.Repeat, m.ArgsOK = p.parseMacroArgs(toks)
	m.Span = p.span(start)
	return m
}

// parseMacroArgs tries to read toks as comma separated expressions, or as
// `elem; n`. Failure is not an error: the macro keeps its raw tokens.
func (p *parser) parseMacroArgs(toks []Token) (args []Expr, repeat, ok bool) {
	if len(toks) == 0 {
		return nil, false, true
	}
	sub := make([]Token, len(toks)+1)
	copy(sub, toks)
	end := toks[len(toks)-1].End
	sub[len(toks)] = Token{Kind: EOF, Pos: end, End: end}
	sp := &parser{src: p.src, toks: sub, depth: p.depth}

	err := sp.run(func() {
		for !sp.atEOF() {
			args = append(args, sp.parseExpr())
			if len(args) == 1 && sp.eat(";") {
				args = append(args, sp.parseExpr())
				repeat = true
				break
			}
			if !sp.eat(",") {
				break
			}
		}
		if !sp.atEOF() {
			sp.errorf("unexpected %s in macro arguments", sp.peek())
		}
	})
	if err != nil {
		return nil, false, false
	}
	return args, repeat, true
}
