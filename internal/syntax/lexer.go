package syntax

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// punctChars are the characters lexed as single-character Punct tokens.
const punctChars = ";,.(){}[]@#~?:$=!<>-&|+*/^%"

// Lex splits src into tokens. The last token is always EOF.
//
// Comments and whitespace are dropped. Doc comments are treated as plain
// comments. A leading byte order mark and a shebang line are skipped.
func Lex(src string) ([]Token, error) {
	if !utf8.ValidString(src) {
		return nil, newError(src, firstInvalidUTF8(src), "source is not valid UTF-8")
	}
	l := &lexer{src: src}
	l.skipPreamble()
	if err := l.run(); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(l.toks); i++ {
		a, b := &l.toks[i], l.toks[i+1]
		if a.Kind == Punct && b.Kind == Punct && b.Pos == a.End {
			a.Joint = true
		}
	}
	return l.toks, nil
}

type lexer struct {
	src  string
	pos  int
	toks []Token
}

func (l *lexer) errorf(off int, format string, args ...any) error {
	return newError(l.src, off, format, args...)
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

func (l *lexer) emit(kind TokenKind, start int) *Token {
	l.toks = append(l.toks, Token{Kind: kind, Text: l.src[start:l.pos], Pos: start, End: l.pos})
	return &l.toks[len(l.toks)-1]
}

func (l *lexer) skipPreamble() {
	if strings.HasPrefix(l.src, "\uFEFF") {
		l.pos = len("\uFEFF")
	}
	rest := l.src[l.pos:]
	if !strings.HasPrefix(rest, "#!") {
		return
	}
	// #![attr] is an inner attribute, not a shebang.
	after := strings.TrimLeft(rest[2:], " \t\r\n")
	if strings.HasPrefix(after, "[") {
		return
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		l.pos += i
	} else {
		l.pos = len(l.src)
	}
}

func (l *lexer) run() error {
	for {
		if err := l.skipTrivia(); err != nil {
			return err
		}
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, Token{Kind: EOF, Pos: len(l.src), End: len(l.src)})
			return nil
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		var err error
		switch {
		case isIdentStart(r):
			err = l.lexWord()
		case r >= '0' && r <= '9':
			err = l.lexNumber()
		case r == '\'':
			err = l.lexQuote(LitChar)
		case r == '"':
			err = l.lexString(start, LitStr)
		case r < utf8.RuneSelf && strings.IndexByte(punctChars, byte(r)) >= 0:
			l.pos += size
			l.emit(Punct, start)
		default:
			return l.errorf(start, "unexpected character %s", strconv.QuoteRune(r))
		}
		if err != nil {
			return err
		}
	}
}

func (l *lexer) skipTrivia() error {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		r, size := utf8.DecodeRuneInString(rest)
		switch {
		case isWhitespace(r):
			l.pos += size
		case strings.HasPrefix(rest, "//"):
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				l.pos += i + 1
			} else {
				l.pos = len(l.src)
			}
		case strings.HasPrefix(rest, "/*"):
			depth := 0
			i := 0
			for {
				if i >= len(rest) {
					return l.errorf(l.pos, "unterminated block comment")
				}
				if strings.HasPrefix(rest[i:], "/*") {
					depth++
					i += 2
				} else if strings.HasPrefix(rest[i:], "*/") {
					depth--
					i += 2
					if depth == 0 {
						break
					}
				} else {
					i++
				}
			}
			l.pos += i
		default:
			return nil
		}
	}
	return nil
}

// lexWord lexes an identifier, a raw identifier, or a prefixed literal
// (r"", b"", b'', br"", c"", cr"").
func (l *lexer) lexWord() error {
	start := l.pos
	l.scanIdent()
	word := l.src[start:l.pos]
	next := l.peek(0)

	switch word {
	case "r":
		if next == '#' && l.pos+1 < len(l.src) {
			r, _ := utf8.DecodeRuneInString(l.src[l.pos+1:])
			if isIdentStart(r) {
				l.pos++
				nameStart := l.pos
				l.scanIdent()
				tok := l.emit(Ident, start)
				tok.Text = l.src[nameStart:l.pos]
				tok.Raw = true
				return nil
			}
		}
		if next == '"' || next == '#' {
			return l.lexRawString(start, LitStr)
		}
	case "b":
		if next == '\'' {
			l.pos = start
			return l.lexQuote(LitByte)
		}
		if next == '"' {
			return l.lexString(start, LitByteStr)
		}
	case "br":
		if next == '"' || next == '#' {
			return l.lexRawString(start, LitByteStr)
		}
	case "c":
		if next == '"' {
			return l.lexString(start, LitCStr)
		}
	case "cr":
		if next == '"' || next == '#' {
			return l.lexRawString(start, LitCStr)
		}
	}
	l.emit(Ident, start)
	return nil
}

func (l *lexer) scanIdent() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentContinue(r) {
			return
		}
		l.pos += size
	}
}

// afterFieldDot reports whether the previous token is a lone `.`, in which
// case a number is a tuple index and must not absorb a fraction.
func (l *lexer) afterFieldDot() bool {
	n := len(l.toks)
	if n == 0 || !l.toks[n-1].Is(".") {
		return false
	}
	if n >= 2 && l.toks[n-2].Is(".") && l.toks[n-2].End == l.toks[n-1].Pos {
		return false
	}
	return true
}

func (l *lexer) lexNumber() error {
	start := l.pos
	fieldIndex := l.afterFieldDot()

	if l.peek(0) == '0' {
		base := 0
		switch l.peek(1) {
		case 'x':
			base = 16
		case 'o':
			base = 8
		case 'b':
			base = 2
		}
		if base != 0 {
			l.pos += 2
			digits := 0
			for l.pos < len(l.src) {
				c := l.src[l.pos]
				if c == '_' {
					l.pos++
					continue
				}
				v := digitValue(c)
				if v < 0 || (base == 16 && v >= 16) || (base != 16 && v >= 10) {
					break
				}
				if v >= base {
					return l.errorf(l.pos, "invalid digit %q in base %d literal", c, base)
				}
				digits++
				l.pos++
			}
			if digits == 0 {
				return l.errorf(start, "no valid digits found for number")
			}
			l.scanSuffix()
			l.emit(Literal, start).Lit = LitInt
			return nil
		}
	}

	l.scanDigits()
	kind := LitInt
	if !fieldIndex && l.peek(0) == '.' && l.peek(1) != '.' && !isIdentStartByte(l.peek(1)) {
		l.pos++
		kind = LitFloat
		if isDigit(l.peek(0)) {
			l.scanDigits()
		}
	}
	if !fieldIndex && (l.peek(0) == 'e' || l.peek(0) == 'E') {
		j := 1
		if l.peek(1) == '+' || l.peek(1) == '-' {
			j = 2
		}
		if isDigit(l.peek(j)) {
			l.pos += j
			l.scanDigits()
			kind = LitFloat
		}
	}
	l.scanSuffix()
	l.emit(Literal, start).Lit = kind
	return nil
}

func (l *lexer) scanDigits() {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
}

func (l *lexer) scanSuffix() {
	if l.pos >= len(l.src) {
		return
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	if isIdentStart(r) {
		l.scanIdent()
	}
}

// lexQuote lexes a char literal, a byte literal or a lifetime. l.pos is on
// the prefix (for bytes) or the opening quote.
func (l *lexer) lexQuote(kind LitKind) error {
	start := l.pos
	if kind == LitByte {
		l.pos++ // b
	}
	l.pos++ // '
	if l.pos >= len(l.src) {
		return l.errorf(start, "unterminated character literal")
	}

	var sb strings.Builder
	if l.src[l.pos] == '\\' {
		if err := l.escape(&sb, kind == LitChar, false); err != nil {
			return err
		}
	} else {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if l.peek(size) != '\'' {
			if kind == LitChar && isIdentStart(r) {
				l.pos += size
				l.scanIdent()
				l.emit(Lifetime, start)
				return nil
			}
			return l.errorf(start, "unterminated character literal")
		}
		if r == '\n' || r == '\t' || r == '\'' {
			return l.errorf(l.pos, "character literal must escape %s", strconv.QuoteRune(r))
		}
		sb.WriteRune(r)
		l.pos += size
	}
	if l.peek(0) != '\'' {
		return l.errorf(start, "unterminated character literal")
	}
	l.pos++
	tok := l.emit(Literal, start)
	tok.Lit = kind
	tok.Value = sb.String()
	return nil
}

// lexString lexes an escaped string. l.pos is on the opening quote.
func (l *lexer) lexString(start int, kind LitKind) error {
	l.pos++ // "
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return l.errorf(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			tok := l.emit(Literal, start)
			tok.Lit = kind
			tok.Value = sb.String()
			return nil
		case '\\':
			if err := l.escape(&sb, kind != LitByteStr, true); err != nil {
				return err
			}
		default:
			if c == '\r' && l.peek(1) == '\n' {
				l.pos++
				continue
			}
			sb.WriteByte(c)
			l.pos++
		}
	}
}

// lexRawString lexes r#"..."# forms. l.pos is just after the prefix letters.
func (l *lexer) lexRawString(start int, kind LitKind) error {
	hashes := 0
	for l.peek(0) == '#' {
		hashes++
		l.pos++
	}
	if l.peek(0) != '"' {
		return l.errorf(start, "expected '\"' after raw string prefix")
	}
	l.pos++
	closing := "\"" + strings.Repeat("#", hashes)
	end := strings.Index(l.src[l.pos:], closing)
	if end < 0 {
		return l.errorf(start, "unterminated raw string literal")
	}
	value := l.src[l.pos : l.pos+end]
	l.pos += end + len(closing)
	tok := l.emit(Literal, start)
	tok.Lit = kind
	tok.Value = strings.ReplaceAll(value, "\r\n", "\n")
	return nil
}

// escape decodes one backslash escape at l.pos into sb. unicode enables
// \u{...} and restricts \x to ASCII; continuation enables the
// backslash-newline string continuation.
func (l *lexer) escape(sb *strings.Builder, unicodeOK, continuation bool) error {
	at := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.src) {
		return l.errorf(at, "unterminated escape sequence")
	}
	c := l.src[l.pos]
	l.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case '0':
		sb.WriteByte(0)
	case 'x':
		if l.pos+2 > len(l.src) {
			return l.errorf(at, "numeric character escape is too short")
		}
		v, err := strconv.ParseUint(l.src[l.pos:l.pos+2], 16, 8)
		if err != nil {
			return l.errorf(at, "invalid character in numeric character escape")
		}
		if unicodeOK && v > 0x7f {
			return l.errorf(at, "out of range hex escape")
		}
		l.pos += 2
		sb.WriteByte(byte(v))
	case 'u':
		if !unicodeOK {
			return l.errorf(at, "unicode escape in byte literal")
		}
		if l.peek(0) != '{' {
			return l.errorf(at, "incorrect unicode escape sequence")
		}
		end := strings.IndexByte(l.src[l.pos:], '}')
		if end < 0 {
			return l.errorf(at, "unterminated unicode escape")
		}
		digits := strings.ReplaceAll(l.src[l.pos+1:l.pos+end], "_", "")
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || len(digits) == 0 || len(digits) > 6 || !utf8.ValidRune(rune(v)) {
			return l.errorf(at, "invalid unicode character escape")
		}
		l.pos += end + 1
		sb.WriteRune(rune(v))
	case '\n', '\r':
		if !continuation {
			return l.errorf(at, "unknown character escape")
		}
		for l.pos < len(l.src) {
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if !isWhitespace(r) {
				break
			}
			l.pos += size
		}
	default:
		return l.errorf(at, "unknown character escape: `%c`", c)
	}
	return nil
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u0085', '\u200e', '\u200f', '\u2028', '\u2029':
		return true
	}
	return false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digitValue returns the value of a hex digit, or -1.
func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func firstInvalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}
