package syntax

// parseType parses a type, including impl/dyn types with `+` bounds.
func (p *parser) parseType() Type {
	return p.parseTypeBounds(true)
}

// parseTypeNoBounds parses a type where a trailing `+` is not part of it:
// cast targets, reference targets and return types of Fn sugar.
func (p *parser) parseTypeNoBounds() Type {
	return p.parseTypeBounds(false)
}

func (p *parser) parseTypeBounds(allowPlus bool) Type {
	p.enter()
	defer p.leave()

	start := p.peek().Pos
	t := p.peek()
	switch {
	case t.Is("("):
		p.next()
		if p.eat(")") {
			return &TypeTuple{Span: p.span(start)}
		}
		first := p.parseType()
		if p.eat(")") {
			return &TypeParen{Span: p.span(start), Elem: first}
		}
		elems := []Type{first}
		for p.eat(",") {
			if p.at(")") {
				break
			}
			elems = append(elems, p.parseType())
		}
		p.expect(")")
		return &TypeTuple{Span: p.span(start), Elems: elems}

	case t.Is("["):
		p.next()
		elem := p.parseType()
		if p.eat(";") {
			n := p.parseExprAllowStruct()
			p.expect("]")
			return &TypeArray{Span: p.span(start), Elem: elem, Len: n}
		}
		p.expect("]")
		return &TypeSlice{Span: p.span(start), Elem: elem}

	case t.Is("&"):
		p.next()
		ref := &TypeRef{}
		if p.atLifetime() {
			ref.Lifetime = p.next().Text
		}
		ref.Mutable = p.eatKw("mut")
		ref.Elem = p.parseTypeNoBounds()
		ref.Span = p.span(start)
		return ref

	case t.Is("*"):
		p.next()
		ptr := &TypePtr{}
		switch {
		case p.eatKw("mut"):
			ptr.Mutable = true
		case p.eatKw("const"):
		default:
			p.errorf("expected `mut` or `const` keyword in raw pointer type, found %s", p.peek())
		}
		ptr.Elem = p.parseTypeNoBounds()
		ptr.Span = p.span(start)
		return ptr

	case t.Is("!"):
		p.next()
		return &TypeNever{Span: p.span(start)}

	case t.Kind == Ident && !t.Raw && t.Text == "_":
		p.next()
		return &TypeInfer{Span: p.span(start)}

	case t.Is("<"):
		return p.parseQualifiedType(start)

	case t.IsKeyword("impl"):
		p.next()
		bounds := p.parseTypeBoundList(allowPlus)
		if len(bounds) == 0 {
			p.errorf("at least one trait must be specified")
		}
		return &TypeImplTrait{Span: p.span(start), Bounds: bounds}

	case t.IsKeyword("dyn"):
		p.next()
		bounds := p.parseTypeBoundList(allowPlus)
		if len(bounds) == 0 {
			p.errorf("at least one trait is required for an object type")
		}
		return &TypeDyn{Span: p.span(start), Bounds: bounds}

	case t.IsKeyword("for"):
		if !p.peekN(1).Is("<") {
			p.errorf("expected `<` after `for`, found %s", p.peekN(1))
		}
		p.skipForLifetimes()
		return p.parseTypeBounds(allowPlus)

	case t.IsKeyword("fn"), t.IsKeyword("unsafe"), t.IsKeyword("extern"):
		return p.parseFnPtrType(start)

	case p.atPathStart():
		path := p.parsePath(true)
		if p.at("!") {
			mac := p.parseMacroRest(path, start)
			return &TypeMacro{Span: p.span(start), Mac: mac}
		}
		return &TypePath{Span: p.span(start), Path: path}
	}
	p.errorf("expected type, found %s", t)
	return nil
}

// parseTypeBoundList parses the bounds of an impl or dyn type. Without
// allowPlus only a single bound is taken.
func (p *parser) parseTypeBoundList(allowPlus bool) []Type {
	if allowPlus {
		return p.parseBounds()
	}
	for p.atLifetime() {
		p.next()
		if !p.eat("+") {
			return nil
		}
	}
	if p.eat("?") {
		p.parsePath(true)
		return nil
	}
	p.skipForLifetimes()
	return []Type{p.parseTypePath()}
}

// parseQualifiedType parses <T as Trait>::Assoc. The trait is dropped.
func (p *parser) parseQualifiedType(start int) Type {
	p.expect("<")
	qself := p.parseType()
	if p.eatKw("as") {
		p.parsePath(true)
	}
	p.expect(">")
	p.expectSeq("::")
	path := p.parsePath(true)
	return &TypePath{Span: p.span(start), QSelf: qself, Path: path}
}

func (p *parser) parseFnPtrType(start int) Type {
	p.eatKw("unsafe")
	if p.eatKw("extern") {
		if p.peek().Kind == Literal {
			p.next()
		}
	}
	p.expectKw("fn")
	p.expect("(")
	fn := &TypeFn{}
	for !p.at(")") {
		p.parseOuterAttrs()
		if p.eatSeq("...") {
			break
		}
		// Named parameters: fn(x: i32) and fn(_: i32).
		if t := p.peek(); (isIdent(t) || t.Text == "_") && t.Kind == Ident &&
			p.peekN(1).Is(":") && !p.atSeqAt(1, "::") {
			p.pos += 2
		}
		fn.Inputs = append(fn.Inputs, p.parseType())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	if p.eatSeq("->") {
		fn.Output = p.parseTypeNoBounds()
	}
	fn.Span = p.span(start)
	return fn
}
