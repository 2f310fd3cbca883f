package syntax

// parsePatternTop parses a pattern that may contain top-level alternatives.
func (p *parser) parsePatternTop() Pat {
	start := p.peek().Pos
	if p.at("|") && !p.atSeq("||") {
		p.next()
	}
	first := p.parsePatternNoTop()
	if !p.atAlt() {
		return first
	}
	cases := []Pat{first}
	for p.atAlt() {
		p.next()
		cases = append(cases, p.parsePatternNoTop())
	}
	return &PatOr{Span: p.span(start), Cases: cases}
}

func (p *parser) atAlt() bool {
	return p.at("|") && !p.atSeq("||") && !p.atSeq("|=")
}

// parsePatternNoTop parses a pattern without top-level alternatives, as in
// closure and function parameters.
func (p *parser) parsePatternNoTop() Pat {
	p.enter()
	defer p.leave()

	start := p.peek().Pos
	t := p.peek()
	var pat Pat
	switch {
	case t.Kind == Ident && !t.Raw && t.Text == "_":
		p.next()
		return &PatWild{Span: p.span(start)}

	case p.atSeq(".."):
		if p.eatSeq("..=") {
			hi := p.parseRangeBound()
			return &PatRange{Span: p.span(start), Hi: hi, Inclusive: true}
		}
		p.pos += 2
		if p.rangeBoundFollows() {
			hi := p.parseRangeBound()
			return &PatRange{Span: p.span(start), Hi: hi}
		}
		return &PatRest{Span: p.span(start)}

	case t.Is("&"):
		p.next()
		mut := p.eatKw("mut")
		inner := p.parsePatternNoTop()
		return &PatRef{Span: p.span(start), Mutable: mut, Pat: inner}

	case t.Is("("):
		return p.parseTuplePattern()

	case t.Is("["):
		p.next()
		var elems []Pat
		for !p.at("]") {
			elems = append(elems, p.parsePatternTop())
			if !p.eat(",") {
				break
			}
		}
		p.expect("]")
		return &PatSlice{Span: p.span(start), Elems: elems}

	case t.Kind == Literal, t.IsKeyword("true"), t.IsKeyword("false"),
		t.Is("-") && p.peekN(1).Kind == Literal:
		pat = p.parseLitPattern()

	case t.IsKeyword("ref"), t.IsKeyword("mut"):
		id := &PatIdent{}
		id.ByRef = p.eatKw("ref")
		id.Mutable = p.eatKw("mut")
		id.Name = p.expectIdent()
		if p.eat("@") {
			id.Sub = p.parsePatternNoTop()
		}
		id.Span = p.span(start)
		return id

	case t.IsKeyword("box"):
		p.next()
		return p.parsePatternNoTop()

	case t.Is("<"), p.atPathStart():
		pat = p.parsePathPattern()
		if _, ok := pat.(*PatIdent); ok && p.at("@") {
			p.next()
			id := pat.(*PatIdent)
			id.Sub = p.parsePatternNoTop()
			id.Span = p.span(start)
			return id
		}

	default:
		p.errorf("expected pattern, found %s", t)
	}

	switch {
	case p.eatSeq("..="), p.eatSeq("..."):
		hi := p.parseRangeBound()
		return &PatRange{Span: p.span(start), Lo: asRangeBound(pat), Hi: hi, Inclusive: true}
	case p.atSeq(".."):
		p.pos += 2
		var hi Pat
		if p.rangeBoundFollows() {
			hi = p.parseRangeBound()
		}
		return &PatRange{Span: p.span(start), Lo: asRangeBound(pat), Hi: hi}
	}
	return pat
}

// asRangeBound turns a bare identifier used as a range bound into a path
// naming a constant.
func asRangeBound(pat Pat) Pat {
	if id, ok := pat.(*PatIdent); ok && !id.ByRef && !id.Mutable && id.Sub == nil {
		return &PatPath{Span: id.Span, Path: &Path{Span: id.Span, Segments: []*PathSegment{{Name: id.Name}}}}
	}
	return pat
}

func (p *parser) rangeBoundFollows() bool {
	t := p.peek()
	return t.Kind == Literal || t.Is("-") && p.peekN(1).Kind == Literal ||
		isIdent(t) && t.Text != "_" || isPathKeyword(t) || p.atSeq("::")
}

func (p *parser) parseRangeBound() Pat {
	start := p.peek().Pos
	t := p.peek()
	if t.Kind == Literal || t.Is("-") {
		return p.parseLitPattern()
	}
	if !p.atPathStart() {
		p.errorf("expected range pattern bound, found %s", t)
	}
	path := p.parsePath(false)
	return &PatPath{Span: p.span(start), Path: path}
}

func (p *parser) parseLitPattern() Pat {
	start := p.peek().Pos
	neg := p.eat("-")
	lit := p.parseLiteral()
	if neg && lit.Lit.Kind != LitInt && lit.Lit.Kind != LitFloat {
		p.errorAt(lit.Start, "only numeric literals can be negated in patterns")
	}
	return &PatLit{Span: p.span(start), Lit: lit, Neg: neg}
}

func (p *parser) parseTuplePattern() Pat {
	start := p.peek().Pos
	p.expect("(")
	if p.eat(")") {
		return &PatTuple{Span: p.span(start)}
	}
	first := p.parsePatternTop()
	if p.eat(")") {
		if _, rest := first.(*PatRest); rest {
			return &PatTuple{Span: p.span(start), Elems: []Pat{first}}
		}
		return &PatParen{Span: p.span(start), Pat: first}
	}
	elems := []Pat{first}
	for p.eat(",") {
		if p.at(")") {
			break
		}
		elems = append(elems, p.parsePatternTop())
	}
	p.expect(")")
	return &PatTuple{Span: p.span(start), Elems: elems}
}

// parsePathPattern parses identifier, path, tuple-struct, struct and macro
// patterns.
func (p *parser) parsePathPattern() Pat {
	start := p.peek().Pos
	qualified := false
	if p.eat("<") {
		qualified = true
		p.parseType()
		if p.eatKw("as") {
			p.parsePath(true)
		}
		p.expect(">")
		p.expectSeq("::")
	}
	path := p.parsePath(false)

	switch {
	case !qualified && p.at("!") && !p.atSeq("!="):
		mac := p.parseMacroRest(path, start)
		return &PatMacro{Span: p.span(start), Mac: mac}

	case p.at("("):
		p.next()
		var elems []Pat
		for !p.at(")") {
			elems = append(elems, p.parsePatternTop())
			if !p.eat(",") {
				break
			}
		}
		p.expect(")")
		return &PatTupleStruct{Span: p.span(start), Path: path, Elems: elems}

	case p.at("{"):
		return p.parseStructPattern(start, path)
	}

	if seg := path.Segments[0]; !qualified && !path.Global && len(path.Segments) == 1 && seg.Args == nil &&
		(seg.Raw || !keywords[seg.Name]) {
		return &PatIdent{Span: p.span(start), Name: seg.Name}
	}
	return &PatPath{Span: p.span(start), Path: path}
}

func (p *parser) parseStructPattern(start int, path *Path) Pat {
	p.expect("{")
	sp := &PatStruct{Path: path}
	for !p.at("}") {
		p.parseOuterAttrs()
		if p.eatSeq("..") {
			sp.Rest = true
			break
		}
		fstart := p.peek().Pos
		t := p.peek()
		switch {
		case t.IsKeyword("ref"), t.IsKeyword("mut"), t.IsKeyword("box"):
			p.eatKw("box")
			id := &PatIdent{}
			id.ByRef = p.eatKw("ref")
			id.Mutable = p.eatKw("mut")
			id.Name = p.expectIdent()
			id.Span = p.span(fstart)
			sp.Fields = append(sp.Fields, &FieldPat{Name: id.Name, Pat: id, Shorthand: true})
		case isIdent(t) || t.Kind == Literal && t.Lit == LitInt:
			p.next()
			if p.eat(":") {
				sp.Fields = append(sp.Fields, &FieldPat{Name: t.Text, Pat: p.parsePatternTop()})
			} else {
				if t.Kind != Ident {
					p.errorf("expected `:`, found %s", p.peek())
				}
				id := &PatIdent{Span: p.span(fstart), Name: t.Text}
				sp.Fields = append(sp.Fields, &FieldPat{Name: t.Text, Pat: id, Shorthand: true})
			}
		default:
			p.errorf("expected identifier, found %s", t)
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	sp.Span = p.span(start)
	return sp
}
