package syntax

import "strings"

// MaxDepth bounds the nesting of expressions, types, patterns and blocks.
// Each parenthesised expression, block, nested type, nested pattern and
// prefix operator is one level; a function body is a block, so the
// expression it returns starts at level 2. Deeper input is rejected with
// an Error instead of growing the stack.
const MaxDepth = 256

// ParseFile parses a complete Rust source file.
func ParseFile(src string) (*File, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	var file *File
	if err := p.run(func() { file = p.parseFile() }); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseExpr parses a single expression. Used by tests and tools.
func ParseExpr(src string) (Expr, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	var e Expr
	err = p.run(func() {
		e = p.parseExpr()
		if p.peek().Kind != EOF {
			p.errorf("unexpected %s after expression", p.peek())
		}
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// bailout carries a syntax error out of the recursive descent.
type bailout struct{ err *Error }

type parser struct {
	src   string
	toks  []Token
	pos   int
	depth int

	// noStruct is set while parsing if/while conditions, match subjects and
	// for iterators, where `{` opens the body rather than a struct literal.
	noStruct bool
}

// itemContext selects which item forms are accepted and whether function
// bodies may be omitted.
type itemContext int

const (
	ctxModule itemContext = iota
	ctxImpl
	ctxTrait
	ctxExtern
)

// run executes f, converting a bailout into an error.
func (p *parser) run(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	f()
	return nil
}

func (p *parser) errorf(format string, args ...any) {
	panic(bailout{newError(p.src, p.peek().Pos, format, args...)})
}

func (p *parser) errorAt(off int, format string, args ...any) {
	panic(bailout{newError(p.src, off, format, args...)})
}

func (p *parser) enter() {
	p.depth++
	if p.depth > MaxDepth {
		p.errorf("nesting exceeds the maximum depth of %d", MaxDepth)
	}
}

func (p *parser) leave() { p.depth-- }

// ---------------------------------------------------------------------------
// Token access

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) peekN(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

// span returns the span from start to the end of the last consumed token.
func (p *parser) span(start int) Span {
	end := start
	if p.pos > 0 {
		end = p.toks[p.pos-1].End
	}
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}

func (p *parser) at(c string) bool     { return p.peek().Is(c) }
func (p *parser) atKw(kw string) bool  { return p.peek().IsKeyword(kw) }
func (p *parser) atEOF() bool          { return p.peek().Kind == EOF }
func (p *parser) atLifetime() bool     { return p.peek().Kind == Lifetime }
func (p *parser) atContextual(w string) bool {
	t := p.peek()
	return t.Kind == Ident && !t.Raw && t.Text == w
}

func (p *parser) eat(c string) bool {
	if p.at(c) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) eatKw(kw string) bool {
	if p.atKw(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c string) Token {
	if !p.at(c) {
		p.errorf("expected `%s`, found %s", c, p.peek())
	}
	return p.next()
}

func (p *parser) expectKw(kw string) {
	if !p.eatKw(kw) {
		p.errorf("expected `%s`, found %s", kw, p.peek())
	}
}

// atSeqAt reports whether the joint punctuation run s starts n tokens ahead.
func (p *parser) atSeqAt(n int, s string) bool {
	for i := 0; i < len(s); i++ {
		t := p.peekN(n + i)
		if t.Kind != Punct || t.Text[0] != s[i] {
			return false
		}
		if i < len(s)-1 && !t.Joint {
			return false
		}
	}
	return true
}

func (p *parser) atSeq(s string) bool { return p.atSeqAt(0, s) }

func (p *parser) eatSeq(s string) bool {
	if p.atSeq(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *parser) expectSeq(s string) {
	if !p.eatSeq(s) {
		p.errorf("expected `%s`, found %s", s, p.peek())
	}
}

// isIdent reports whether t can name something: a non-keyword or raw identifier.
func isIdent(t Token) bool {
	return t.Kind == Ident && (t.Raw || !keywords[t.Text])
}

// isPathKeyword reports whether t is a keyword allowed as a path segment.
func isPathKeyword(t Token) bool {
	return t.IsKeyword("self") || t.IsKeyword("Self") || t.IsKeyword("super") || t.IsKeyword("crate")
}

func (p *parser) atPathStart() bool {
	t := p.peek()
	return isIdent(t) || isPathKeyword(t) || p.atSeq("::")
}

func (p *parser) expectIdent() string {
	t := p.peek()
	if !isIdent(t) {
		p.errorf("expected identifier, found %s", t)
	}
	p.next()
	return t.Text
}

// ---------------------------------------------------------------------------
// Attributes and visibility

func (p *parser) parseOuterAttrs() []*Attribute {
	var attrs []*Attribute
	for p.at("#") && p.peekN(1).Is("[") {
		attrs = append(attrs, p.parseAttr(false))
	}
	return attrs
}

func (p *parser) parseInnerAttrs() []*Attribute {
	var attrs []*Attribute
	for p.at("#") && p.peekN(1).Is("!") && p.peekN(2).Is("[") {
		attrs = append(attrs, p.parseAttr(true))
	}
	return attrs
}

func (p *parser) parseAttr(inner bool) *Attribute {
	start := p.next().Pos // #
	if inner {
		p.expect("!")
	}
	open := p.peek()
	p.expect("[")
	p.eatKw("unsafe")
	path := p.parsePath(false)
	var rest []Token
	for !p.at("]") {
		if p.atEOF() {
			p.errorAt(open.Pos, "unclosed delimiter `[`")
		}
		rest = append(rest, p.tokenTree()...)
	}
	p.expect("]")
	return &Attribute{
		Span:   p.span(start),
		Inner:  inner,
		Path:   path.String(),
		Tokens: tokensString(rest),
	}
}

func (p *parser) parseVis() Visibility {
	if !p.atKw("pub") {
		return Visibility{}
	}
	p.next()
	if !p.at("(") {
		return Visibility{Kind: VisPub}
	}
	t := p.peekN(1)
	closed := p.peekN(2).Is(")")
	switch {
	case t.IsKeyword("crate") && closed:
		p.pos += 3
		return Visibility{Kind: VisCrate}
	case t.IsKeyword("super") && closed:
		p.pos += 3
		return Visibility{Kind: VisSuper}
	case t.IsKeyword("self") && closed:
		p.pos += 3
		return Visibility{Kind: VisSelf}
	case t.IsKeyword("in"):
		p.pos += 2
		path := p.parsePath(false)
		p.expect(")")
		return Visibility{Kind: VisIn, Path: path.String()}
	}
	// pub (T, U) in a tuple struct: the parenthesis belongs to the type.
	return Visibility{Kind: VisPub}
}

// ---------------------------------------------------------------------------
// Token trees

func closerOf(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}

// tokenTree consumes one token, or one balanced delimited group, and
// returns the consumed tokens.
func (p *parser) tokenTree() []Token {
	start := p.pos
	t := p.peek()
	if t.Is(")") || t.Is("]") || t.Is("}") {
		p.errorf("unexpected closing delimiter `%s`", t.Text)
	}
	if closerOf(t.Text) == "" || t.Kind != Punct {
		p.next()
		return p.toks[start:p.pos]
	}
	p.delimited()
	return p.toks[start:p.pos]
}

// delimited consumes a balanced group starting at an opening delimiter and
// returns the tokens strictly inside it.
func (p *parser) delimited() []Token {
	open := p.next()
	inner := p.pos
	stack := []string{closerOf(open.Text)}
	for len(stack) > 0 {
		t := p.peek()
		switch {
		case t.Kind == EOF:
			p.errorAt(open.Pos, "unclosed delimiter `%s`", open.Text)
		case t.Kind != Punct:
		case t.Text == "(" || t.Text == "[" || t.Text == "{":
			stack = append(stack, closerOf(t.Text))
		case t.Text == ")" || t.Text == "]" || t.Text == "}":
			if want := stack[len(stack)-1]; t.Text != want {
				p.errorf("mismatched closing delimiter: expected `%s`, found `%s`", want, t.Text)
			}
			stack = stack[:len(stack)-1]
		}
		p.next()
	}
	return p.toks[inner : p.pos-1]
}

// tokensString renders tokens with normalised spacing: a space between
// adjacent words, after commas and around a lone `=`.
func tokensString(toks []Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			prev := toks[i-1]
			word := func(k TokenKind) bool { return k == Ident || k == Literal || k == Lifetime }
			switch {
			case word(prev.Kind) && word(t.Kind):
				sb.WriteByte(' ')
			case prev.Is(","):
				sb.WriteByte(' ')
			case t.Is("=") && !prev.Joint, prev.Is("=") && !prev.Joint:
				sb.WriteByte(' ')
			}
		}
		if t.Kind == Ident && t.Raw {
			sb.WriteString("r#")
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Paths and generics

// parsePath parses a path. In type context generic arguments follow a
// segment directly (Vec<T>, Fn(A) -> B); in expression and pattern context
// they need the turbofish (Vec::<T>).
func (p *parser) parsePath(typeCtx bool) *Path {
	start := p.peek().Pos
	path := &Path{}
	if p.eatSeq("::") {
		path.Global = true
	}
	for {
		t := p.peek()
		if !isIdent(t) && !isPathKeyword(t) {
			p.errorf("expected identifier, found %s", t)
		}
		p.next()
		seg := &PathSegment{Name: t.Text, Raw: t.Raw}
		path.Segments = append(path.Segments, seg)

		switch {
		case typeCtx && p.at("<"):
			seg.Args = p.parseGenericArgs()
		case typeCtx && p.at("("):
			seg.Args = p.parseParenArgs()
		case p.atSeq("::") && p.peekN(2).Is("<"):
			p.pos += 2
			seg.Args = p.parseGenericArgs()
		}

		if p.atSeq("::") && (isIdent(p.peekN(2)) || isPathKeyword(p.peekN(2))) {
			p.pos += 2
			continue
		}
		break
	}
	path.Span = p.span(start)
	return path
}

func (p *parser) parseGenericArgs() *GenericArgs {
	start := p.peek().Pos
	p.expect("<")
	args := &GenericArgs{}
	for !p.at(">") {
		t := p.peek()
		switch {
		case t.Kind == Lifetime:
			args.Lifetimes = append(args.Lifetimes, p.next().Text)
		case t.Kind == Literal || t.Is("-") || t.Is("{") || t.IsKeyword("true") || t.IsKeyword("false"):
			args.Consts = append(args.Consts, p.parseConstArg())
		case isIdent(t) && p.peekN(1).Is("=") && !p.atSeqAt(1, "=="):
			p.pos += 2
			args.Bindings = append(args.Bindings, &AssocBinding{Name: t.Text, Type: p.parseType()})
		case isIdent(t) && p.peekN(1).Is(":") && !p.atSeqAt(1, "::"):
			p.pos += 2
			args.Bindings = append(args.Bindings, &AssocBinding{Name: t.Text, Bounds: p.parseBounds()})
		default:
			args.Types = append(args.Types, p.parseType())
		}
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	args.Span = p.span(start)
	return args
}

// parseConstArg parses a const generic argument: a literal, a negated
// literal or a block.
func (p *parser) parseConstArg() Expr {
	start := p.peek().Pos
	if p.at("{") {
		return &ExprBlock{Block: p.parseBlock(), Span: p.span(start)}
	}
	if p.eat("-") {
		lit := p.parseLiteral()
		return &ExprUnary{Span: p.span(start), Op: "-", Operand: lit}
	}
	return p.parseLiteral()
}

func (p *parser) parseLiteral() *ExprLit {
	t := p.peek()
	switch {
	case t.Kind == Literal:
		p.next()
		return &ExprLit{Span: p.span(t.Pos), Lit: Lit{Kind: t.Lit, Text: t.Text, Value: t.Value}}
	case t.IsKeyword("true"), t.IsKeyword("false"):
		p.next()
		return &ExprLit{Span: p.span(t.Pos), Lit: Lit{Kind: LitBool, Text: t.Text}}
	}
	p.errorf("expected literal, found %s", t)
	return nil
}

// parseParenArgs parses Fn(A, B) -> C sugar.
func (p *parser) parseParenArgs() *GenericArgs {
	start := p.peek().Pos
	p.expect("(")
	args := &GenericArgs{Paren: true}
	for !p.at(")") {
		args.Types = append(args.Types, p.parseType())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	if p.eatSeq("->") {
		args.Output = p.parseTypeNoBounds()
	}
	args.Span = p.span(start)
	return args
}

// parseGenerics parses an optional <...> parameter list.
func (p *parser) parseGenerics() *Generics {
	g := &Generics{}
	if !p.at("<") {
		return g
	}
	p.next()
	for !p.at(">") {
		p.parseOuterAttrs()
		start := p.peek().Pos
		param := &GenericParam{}
		switch {
		case p.atLifetime():
			param.Kind = GenericLifetime
			param.Name = p.next().Text
			if p.eat(":") {
				for p.atLifetime() {
					p.next()
					if !p.eat("+") {
						break
					}
				}
			}
		case p.eatKw("const"):
			param.Kind = GenericConst
			param.Name = p.expectIdent()
			p.expect(":")
			param.ConstTy = p.parseType()
			if p.eat("=") {
				if p.atPathStart() {
					p.parsePath(false)
				} else {
					p.parseConstArg()
				}
			}
		default:
			param.Kind = GenericType
			param.Name = p.expectIdent()
			if p.eat(":") {
				param.Bounds = p.parseBounds()
			}
			if p.eat("=") {
				param.Default = p.parseType()
			}
		}
		param.Span = p.span(start)
		g.Params = append(g.Params, param)
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	return g
}

// parseWhere parses an optional where clause into g.
func (p *parser) parseWhere(g *Generics) {
	if !p.eatKw("where") {
		return
	}
	for !p.at("{") && !p.at(";") && !p.at("=") && !p.atEOF() {
		if p.atLifetime() {
			p.next()
			p.expect(":")
			for p.atLifetime() {
				p.next()
				if !p.eat("+") {
					break
				}
			}
		} else {
			p.skipForLifetimes()
			bounded := p.parseType()
			p.expect(":")
			g.Where = append(g.Where, &WherePredicate{Bounded: bounded, Bounds: p.parseBounds()})
		}
		if !p.eat(",") {
			break
		}
	}
}

// skipForLifetimes skips a higher-ranked `for<'a, 'b>` binder.
func (p *parser) skipForLifetimes() {
	if !p.atKw("for") || !p.peekN(1).Is("<") {
		return
	}
	p.pos += 2
	for !p.at(">") {
		if !p.atLifetime() {
			p.errorf("expected lifetime, found %s", p.peek())
		}
		p.next()
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
}

// parseBounds parses `Bound + Bound`. Lifetime and ?Sized bounds are
// consumed but not returned.
func (p *parser) parseBounds() []Type {
	var bounds []Type
	for {
		switch {
		case p.atLifetime():
			p.next()
		case p.at("?"):
			p.next()
			p.parsePath(true)
		case p.at("("):
			p.next()
			p.skipForLifetimes()
			bounds = append(bounds, p.parseTypePath())
			p.expect(")")
		case p.at("~"):
			p.next()
			p.expectKw("const")
			bounds = append(bounds, p.parseTypePath())
		case p.atKw("for"):
			p.skipForLifetimes()
			bounds = append(bounds, p.parseTypePath())
		case p.atKw("const") && p.peekN(1).Kind == Ident:
			p.next()
			bounds = append(bounds, p.parseTypePath())
		case p.atPathStart():
			bounds = append(bounds, p.parseTypePath())
		default:
			return bounds
		}
		if !p.eat("+") {
			return bounds
		}
	}
}

func (p *parser) parseTypePath() *TypePath {
	start := p.peek().Pos
	path := p.parsePath(true)
	return &TypePath{Span: p.span(start), Path: path}
}
