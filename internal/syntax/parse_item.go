package syntax

func (p *parser) parseFile() *File {
	f := &File{}
	f.Attrs = p.parseInnerAttrs()
	for !p.atEOF() {
		f.Items = append(f.Items, p.parseItem(ctxModule))
	}
	f.Span = Span{Start: 0, End: len(p.src)}
	return f
}

// parseItem parses attributes, visibility and one item.
func (p *parser) parseItem(ctx itemContext) Item {
	start := p.peek().Pos
	attrs := p.parseOuterAttrs()
	vis := p.parseVis()
	if ctx == ctxImpl && p.atContextual("default") && !p.peekN(1).Is("!") {
		p.next()
	}
	return p.parseItemKind(start, attrs, vis, ctx)
}

// fnStartAt reports whether a function signature starts n tokens ahead,
// after any const, async, unsafe and extern "abi" qualifiers.
func (p *parser) fnStartAt(n int) bool {
	for {
		t := p.peekN(n)
		switch {
		case t.IsKeyword("fn"):
			return true
		case t.IsKeyword("const"), t.IsKeyword("async"), t.IsKeyword("unsafe"):
			n++
		case t.IsKeyword("extern"):
			n++
			if p.peekN(n).Kind == Literal {
				n++
			}
		default:
			return false
		}
	}
}

// itemStart reports whether the next tokens begin an item. It is used at
// statement position, where expressions starting with const, unsafe or
// async blocks must not be mistaken for items.
func (p *parser) itemStart() bool {
	t := p.peek()
	n1 := p.peekN(1)
	switch {
	case t.IsKeyword("pub"), t.IsKeyword("struct"), t.IsKeyword("enum"), t.IsKeyword("trait"),
		t.IsKeyword("impl"), t.IsKeyword("mod"), t.IsKeyword("use"), t.IsKeyword("type"),
		t.IsKeyword("static"), t.IsKeyword("extern"):
		return true
	case t.IsKeyword("const"):
		return !n1.Is("{") && !n1.Is("|") && !n1.IsKeyword("move") && !n1.IsKeyword("async")
	case t.IsKeyword("unsafe"):
		return n1.IsKeyword("impl") || n1.IsKeyword("trait") || n1.IsKeyword("mod") ||
			n1.IsKeyword("extern") || p.fnStartAt(0)
	case t.IsKeyword("async"):
		return p.fnStartAt(0)
	case t.Kind == Ident && !t.Raw && t.Text == "union":
		return isIdent(n1)
	case t.Kind == Ident && !t.Raw && t.Text == "macro_rules":
		return n1.Is("!")
	}
	return p.fnStartAt(0)
}

func (p *parser) parseItemKind(start int, attrs []*Attribute, vis Visibility, ctx itemContext) Item {
	t := p.peek()
	n1 := p.peekN(1)
	switch {
	case p.fnStartAt(0):
		return p.parseFn(start, attrs, vis, ctx)
	case t.IsKeyword("const"):
		return p.parseConst(start, attrs, vis)
	case t.IsKeyword("static"):
		return p.parseStatic(start, attrs, vis)
	case t.IsKeyword("type"):
		return p.parseTypeItem(start, attrs, vis)
	}

	if ctx == ctxModule {
		switch {
		case t.IsKeyword("struct"):
			return p.parseStruct(start, attrs, vis)
		case t.IsKeyword("enum"):
			return p.parseEnum(start, attrs, vis)
		case t.Kind == Ident && !t.Raw && t.Text == "union" && isIdent(n1):
			return p.parseUnion(start, attrs, vis)
		case t.IsKeyword("impl"), t.IsKeyword("unsafe") && n1.IsKeyword("impl"):
			return p.parseImpl(start, attrs)
		case t.IsKeyword("trait"),
			t.IsKeyword("unsafe") && (n1.IsKeyword("trait") || n1.Text == "auto"),
			t.Kind == Ident && t.Text == "auto" && n1.IsKeyword("trait"):
			return p.parseTrait(start, attrs, vis)
		case t.IsKeyword("use"):
			return p.parseUse(start, attrs, vis)
		case t.IsKeyword("mod"), t.IsKeyword("unsafe") && n1.IsKeyword("mod"):
			return p.parseMod(start, attrs, vis)
		case t.IsKeyword("extern") && n1.IsKeyword("crate"):
			return p.parseExternCrate(start, attrs, vis)
		case t.IsKeyword("extern"), t.IsKeyword("unsafe") && n1.IsKeyword("extern"):
			return p.parseForeignMod(start, attrs)
		case t.Kind == Ident && !t.Raw && t.Text == "macro_rules" && n1.Is("!"):
			return p.parseMacroRules(start, attrs)
		}
	}

	if p.atPathStart() {
		path := p.parsePath(false)
		if p.at("!") {
			mac := p.parseMacroRest(path, start)
			if mac.Delim != '{' {
				p.expect(";")
			} else {
				p.eat(";")
			}
			return &ItemMacro{Span: p.span(start), Attrs: attrs, Mac: mac}
		}
		p.errorAt(path.Start, "expected item, found %s", t)
	}
	switch ctx {
	case ctxImpl, ctxTrait:
		p.errorf("expected associated item, found %s", t)
	}
	p.errorf("expected item, found %s", t)
	return nil
}

func (p *parser) parseFn(start int, attrs []*Attribute, vis Visibility, ctx itemContext) *ItemFn {
	fn := &ItemFn{Attrs: attrs, Vis: vis}
	for !p.atKw("fn") {
		switch {
		case p.eatKw("const"):
			fn.Const = true
		case p.eatKw("async"):
			fn.Async = true
		case p.eatKw("unsafe"):
			fn.Unsafe = true
		case p.eatKw("extern"):
			fn.Abi = "C"
			if t := p.peek(); t.Kind == Literal {
				p.next()
				fn.Abi = t.Value
			}
		default:
			p.errorf("expected `fn`, found %s", p.peek())
		}
	}
	p.expectKw("fn")
	fn.Name = p.expectIdent()
	fn.Generics = p.parseGenerics()

	p.expect("(")
	for !p.at(")") {
		p.parseOuterAttrs()
		if p.eatSeq("...") {
			fn.Variadic = true
		} else if recv := p.parseReceiver(); recv != nil {
			fn.Inputs = append(fn.Inputs, recv)
		} else {
			argStart := p.peek().Pos
			pat := p.parsePatternNoTop()
			p.expect(":")
			if p.eatSeq("...") {
				fn.Variadic = true
			} else {
				ty := p.parseType()
				fn.Inputs = append(fn.Inputs, &TypedArg{Span: p.span(argStart), Pat: pat, Ty: ty})
			}
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")

	if p.eatSeq("->") {
		fn.Output = p.parseType()
	}
	p.parseWhere(fn.Generics)

	if p.at(";") {
		if ctx == ctxModule || ctx == ctxImpl {
			p.errorf("expected function body, found `;`")
		}
		p.next()
	} else {
		if !p.at("{") {
			p.errorf("expected `{`, found %s", p.peek())
		}
		fn.Body = p.parseBlock()
	}
	fn.Span = p.span(start)
	return fn
}

// parseReceiver parses a self parameter, or returns nil and consumes
// nothing when the parameter is not a receiver.
func (p *parser) parseReceiver() *Receiver {
	start := p.peek().Pos
	save := p.pos
	r := &Receiver{}
	if p.eat("&") {
		r.Reference = true
		if p.atLifetime() {
			r.Lifetime = p.next().Text
		}
		r.Mutable = p.eatKw("mut")
		if !p.atKw("self") || p.atSeqAt(1, "::") {
			p.pos = save
			return nil
		}
		p.next()
		r.Span = p.span(start)
		return r
	}
	if p.atKw("mut") && p.peekN(1).IsKeyword("self") {
		p.next()
		r.MutBinding = true
	}
	if !p.atKw("self") || p.atSeqAt(1, "::") {
		p.pos = save
		return nil
	}
	p.next()
	if p.eat(":") {
		r.Ty = p.parseType()
	}
	r.Span = p.span(start)
	return r
}

func (p *parser) parseStruct(start int, attrs []*Attribute, vis Visibility) *ItemStruct {
	p.expectKw("struct")
	s := &ItemStruct{Attrs: attrs, Vis: vis}
	s.Name = p.expectIdent()
	s.Generics = p.parseGenerics()
	switch {
	case p.at("("):
		s.Fields = p.parseTupleFields()
		p.parseWhere(s.Generics)
		p.expect(";")
	default:
		p.parseWhere(s.Generics)
		switch {
		case p.eat(";"):
			s.Fields = &Fields{Kind: FieldsUnit}
		case p.at("{"):
			s.Fields = p.parseNamedFields()
		default:
			p.errorf("expected `where`, `{`, `(`, or `;` after struct name, found %s", p.peek())
		}
	}
	s.Span = p.span(start)
	return s
}

func (p *parser) parseUnion(start int, attrs []*Attribute, vis Visibility) *ItemUnion {
	p.next() // union
	u := &ItemUnion{Attrs: attrs, Vis: vis}
	u.Name = p.expectIdent()
	u.Generics = p.parseGenerics()
	p.parseWhere(u.Generics)
	u.Fields = p.parseNamedFields()
	u.Span = p.span(start)
	return u
}

func (p *parser) parseNamedFields() *Fields {
	p.expect("{")
	fields := &Fields{Kind: FieldsNamed}
	for !p.at("}") {
		start := p.peek().Pos
		f := &Field{Attrs: p.parseOuterAttrs()}
		f.Vis = p.parseVis()
		f.Name = p.expectIdent()
		p.expect(":")
		f.Ty = p.parseType()
		f.Span = p.span(start)
		fields.List = append(fields.List, f)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return fields
}

func (p *parser) parseTupleFields() *Fields {
	p.expect("(")
	fields := &Fields{Kind: FieldsUnnamed}
	for !p.at(")") {
		start := p.peek().Pos
		f := &Field{Attrs: p.parseOuterAttrs()}
		f.Vis = p.parseVis()
		f.Ty = p.parseType()
		f.Span = p.span(start)
		fields.List = append(fields.List, f)
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return fields
}

func (p *parser) parseEnum(start int, attrs []*Attribute, vis Visibility) *ItemEnum {
	p.expectKw("enum")
	e := &ItemEnum{Attrs: attrs, Vis: vis}
	e.Name = p.expectIdent()
	e.Generics = p.parseGenerics()
	p.parseWhere(e.Generics)
	p.expect("{")
	for !p.at("}") {
		vstart := p.peek().Pos
		v := &Variant{Attrs: p.parseOuterAttrs()}
		p.parseVis()
		v.Name = p.expectIdent()
		switch {
		case p.at("{"):
			v.Fields = p.parseNamedFields()
		case p.at("("):
			v.Fields = p.parseTupleFields()
		default:
			v.Fields = &Fields{Kind: FieldsUnit}
		}
		if p.eat("=") {
			v.Discriminant = p.parseExpr()
		}
		v.Span = p.span(vstart)
		e.Variants = append(e.Variants, v)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	e.Span = p.span(start)
	return e
}

func (p *parser) parseImpl(start int, attrs []*Attribute) *ItemImpl {
	im := &ItemImpl{Attrs: attrs}
	im.Unsafe = p.eatKw("unsafe")
	p.expectKw("impl")
	im.Generics = &Generics{}
	if p.at("<") && !p.atSeq("<<") {
		im.Generics = p.parseGenerics()
	}
	p.eatKw("const")
	im.Negative = p.eat("!")

	ty := p.parseTypeNoBounds()
	if p.eatKw("for") {
		tp, ok := ty.(*TypePath)
		if !ok || tp.QSelf != nil {
			p.errorAt(ty.Range().Start, "expected a trait path before `for`")
		}
		im.Trait = tp.Path
		im.SelfTy = p.parseTypeNoBounds()
	} else {
		if im.Negative {
			p.errorf("inherent impls cannot be negative")
		}
		im.SelfTy = ty
	}
	p.parseWhere(im.Generics)

	p.expect("{")
	p.parseInnerAttrs()
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		im.Items = append(im.Items, p.parseItem(ctxImpl))
	}
	p.expect("}")
	im.Span = p.span(start)
	return im
}

func (p *parser) parseTrait(start int, attrs []*Attribute, vis Visibility) Item {
	tr := &ItemTrait{Attrs: attrs, Vis: vis}
	tr.Unsafe = p.eatKw("unsafe")
	if p.atContextual("auto") {
		p.next()
		tr.Auto = true
	}
	p.expectKw("trait")
	tr.Name = p.expectIdent()
	tr.Generics = p.parseGenerics()
	if p.eat(":") {
		tr.Supertraits = p.parseBounds()
	}
	if p.eat("=") {
		// trait alias
		tr.Supertraits = p.parseBounds()
		p.parseWhere(tr.Generics)
		p.expect(";")
		tr.Span = p.span(start)
		return tr
	}
	p.parseWhere(tr.Generics)
	p.expect("{")
	p.parseInnerAttrs()
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		tr.Items = append(tr.Items, p.parseItem(ctxTrait))
	}
	p.expect("}")
	tr.Span = p.span(start)
	return tr
}

func (p *parser) parseUse(start int, attrs []*Attribute, vis Visibility) *ItemUse {
	p.expectKw("use")
	t := p.peek()
	if !p.atPathStart() && !t.Is("{") && !t.Is("*") {
		p.errorf("expected use path, found %s", t)
	}
	var toks []Token
	for !p.at(";") {
		if p.atEOF() {
			p.errorf("expected `;`, found end of input")
		}
		toks = append(toks, p.tokenTree()...)
	}
	p.expect(";")
	return &ItemUse{Span: p.span(start), Attrs: attrs, Vis: vis, Tree: tokensString(toks)}
}

func (p *parser) parseMod(start int, attrs []*Attribute, vis Visibility) *ItemMod {
	m := &ItemMod{Attrs: attrs, Vis: vis}
	m.Unsafe = p.eatKw("unsafe")
	p.expectKw("mod")
	m.Name = p.expectIdent()
	if p.eat(";") {
		m.Span = p.span(start)
		return m
	}
	m.Inline = true
	p.expect("{")
	m.Attrs = append(m.Attrs, p.parseInnerAttrs()...)
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		m.Items = append(m.Items, p.parseItem(ctxModule))
	}
	p.expect("}")
	m.Span = p.span(start)
	return m
}

func (p *parser) parseConst(start int, attrs []*Attribute, vis Visibility) *ItemConst {
	p.expectKw("const")
	c := &ItemConst{Attrs: attrs, Vis: vis}
	if p.peek().Kind == Ident && p.peek().Text == "_" {
		c.Name = p.next().Text
	} else {
		c.Name = p.expectIdent()
	}
	p.expect(":")
	c.Ty = p.parseType()
	if p.eat("=") {
		c.Expr = p.parseExpr()
	}
	p.expect(";")
	c.Span = p.span(start)
	return c
}

func (p *parser) parseStatic(start int, attrs []*Attribute, vis Visibility) *ItemStatic {
	p.expectKw("static")
	s := &ItemStatic{Attrs: attrs, Vis: vis}
	s.Mutable = p.eatKw("mut")
	s.Name = p.expectIdent()
	p.expect(":")
	s.Ty = p.parseType()
	if p.eat("=") {
		s.Expr = p.parseExpr()
	}
	p.expect(";")
	s.Span = p.span(start)
	return s
}

func (p *parser) parseTypeItem(start int, attrs []*Attribute, vis Visibility) *ItemType {
	p.expectKw("type")
	it := &ItemType{Attrs: attrs, Vis: vis}
	it.Name = p.expectIdent()
	it.Generics = p.parseGenerics()
	if p.eat(":") {
		it.Bounds = p.parseBounds()
	}
	p.parseWhere(it.Generics)
	if p.eat("=") {
		it.Ty = p.parseType()
	}
	p.parseWhere(it.Generics)
	p.expect(";")
	it.Span = p.span(start)
	return it
}

func (p *parser) parseExternCrate(start int, attrs []*Attribute, vis Visibility) *ItemExternCrate {
	p.expectKw("extern")
	p.expectKw("crate")
	ec := &ItemExternCrate{Attrs: attrs, Vis: vis}
	if p.atKw("self") {
		ec.Name = p.next().Text
	} else {
		ec.Name = p.expectIdent()
	}
	if p.eatKw("as") {
		if p.peek().Kind == Ident && p.peek().Text == "_" {
			ec.Rename = p.next().Text
		} else {
			ec.Rename = p.expectIdent()
		}
	}
	p.expect(";")
	ec.Span = p.span(start)
	return ec
}

func (p *parser) parseForeignMod(start int, attrs []*Attribute) *ItemForeignMod {
	fm := &ItemForeignMod{Attrs: attrs, Abi: "C"}
	fm.Unsafe = p.eatKw("unsafe")
	p.expectKw("extern")
	if t := p.peek(); t.Kind == Literal {
		p.next()
		fm.Abi = t.Value
	}
	p.expect("{")
	p.parseInnerAttrs()
	for !p.at("}") {
		if p.atEOF() {
			p.errorf("expected `}`, found end of input")
		}
		fm.Items = append(fm.Items, p.parseForeignItem())
	}
	p.expect("}")
	fm.Span = p.span(start)
	return fm
}

func (p *parser) parseForeignItem() Item {
	start := p.peek().Pos
	attrs := p.parseOuterAttrs()
	vis := p.parseVis()
	// `safe` and `unsafe` qualifiers on foreign statics and functions.
	if p.atContextual("safe") && (p.peekN(1).IsKeyword("fn") || p.peekN(1).IsKeyword("static")) {
		p.next()
	}
	if p.atKw("unsafe") && p.peekN(1).IsKeyword("static") {
		p.next()
	}
	return p.parseItemKind(start, attrs, vis, ctxExtern)
}

func (p *parser) parseMacroRules(start int, attrs []*Attribute) *ItemMacro {
	pathStart := p.peek().Pos
	p.next() // macro_rules
	path := &Path{Span: p.span(pathStart), Segments: []*PathSegment{{Name: "macro_rules"}}}
	p.expect("!")
	name := p.expectIdent()
	open := p.peek()
	if !open.Is("(") && !open.Is("[") && !open.Is("{") {
		p.errorf("expected one of `(`, `[`, or `{`, found %s", open)
	}
	toks := p.delimited()
	if !open.Is("{") {
		p.expect(";")
	}
	mac := &Macro{Span: p.span(pathStart), Path: path, Delim: open.Text[0], Tokens: toks}
	return &ItemMacro{Span: p.span(start), Attrs: attrs, Mac: mac, Name: name}
}
