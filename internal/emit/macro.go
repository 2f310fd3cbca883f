package emit

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/roach88/rust2mojo/internal/ir"
)

// abortMessages are the default messages of the diverging macros.
var abortMessages = map[string]string{
	"panic":         "explicit panic",
	"todo":          "not yet implemented",
	"unimplemented": "not implemented",
	"unreachable":   "internal error: entered unreachable code",
}

func (g *generator) macro(m *ir.MacroCall) (string, int) {
	switch m.Name {
	case "println", "eprintln":
		return g.printCall(m, false)
	case "print", "eprint":
		return g.printCall(m, true)
	case "format":
		return g.format(m)
	case "vec":
		return "List(" + g.listString(m.Args) + ")", precPostfix
	case "assert", "debug_assert":
		return g.assert(m, 1, ""), precPostfix
	case "assert_eq", "debug_assert_eq":
		return g.assert(m, 2, "=="), precPostfix
	case "assert_ne", "debug_assert_ne":
		return g.assert(m, 2, "!="), precPostfix
	case "panic", "todo", "unimplemented", "unreachable":
		return g.abort(m), precPostfix
	}
	return g.unsupportedCall("macro " + m.Name + "!"), precPostfix
}

// macroPrec is the precedence macro(m) renders with.
func (g *generator) macroPrec(m *ir.MacroCall) int {
	if m.Name == "format" {
		if parts, ok := g.formatParts(m.Args); ok && len(parts) > 1 {
			return precAdd
		}
	}
	return precPostfix
}

func (g *generator) printCall(m *ir.MacroCall, noNewline bool) (string, int) {
	var args []string
	if len(m.Args) > 0 {
		parts, ok := g.formatParts(m.Args)
		if !ok {
			return g.unsupportedCall("format string"), precPostfix
		}
		for _, p := range parts {
			args = append(args, p.render(g))
		}
		if len(args) == 0 {
			args = append(args, `""`)
		}
		if len(args) > 1 {
			args = append(args, `sep=""`)
		}
	}
	if noNewline {
		args = append(args, `end=""`)
	}
	return "print(" + strings.Join(args, ", ") + ")", precPostfix
}

func (g *generator) format(m *ir.MacroCall) (string, int) {
	parts, ok := g.formatParts(m.Args)
	if !ok {
		return g.unsupportedCall("format string"), precPostfix
	}
	return g.concat(parts)
}

// concat joins parts into a String expression.
func (g *generator) concat(parts []fmtPart) (string, int) {
	switch len(parts) {
	case 0:
		return `String("")`, precPostfix
	case 1:
		return "String(" + parts[0].render(g) + ")", precPostfix
	}
	terms := make([]string, len(parts))
	for i, p := range parts {
		if p.expr != nil {
			terms[i] = "String(" + g.expr(p.expr) + ")"
		} else {
			terms[i] = quote(p.text)
		}
	}
	if parts[0].expr == nil {
		terms[0] = "String(" + terms[0] + ")"
	}
	return strings.Join(terms, " + "), precAdd
}

// assert renders the assert family as debug_assert. operands is the number
// of leading arguments compared with op; the remainder form the message.
func (g *generator) assert(m *ir.MacroCall, operands int, op string) string {
	if len(m.Args) < operands {
		return g.unsupportedCall("macro " + m.Name + "! arguments")
	}
	var cond string
	if operands == 1 {
		cond = g.expr(m.Args[0])
	} else {
		cond = g.exprPrec(m.Args[0], precCmp+1) + " " + op + " " + g.exprPrec(m.Args[1], precCmp+1)
	}
	if len(m.Args) == operands {
		return "debug_assert(" + cond + ")"
	}
	msg, ok := g.message(m.Args[operands:], "")
	if !ok {
		return g.unsupportedCall("format string")
	}
	return "debug_assert(" + cond + ", " + msg + ")"
}

// abort renders a diverging macro as a call to abort with the message Rust
// would print.
func (g *generator) abort(m *ir.MacroCall) string {
	g.usesAbort = true
	fixed := abortMessages[m.Name]
	if len(m.Args) == 0 {
		return "abort(" + quote(fixed) + ")"
	}
	prefix := fixed + ": "
	if m.Name == "panic" {
		prefix = ""
	}
	msg, ok := g.message(m.Args, prefix)
	if !ok {
		return g.unsupportedCall("format string")
	}
	return "abort(" + msg + ")"
}

// message renders format arguments as a single string expression. Plain
// text stays a string literal.
func (g *generator) message(args []ir.Expression, prefix string) (string, bool) {
	parts, ok := g.formatParts(args)
	if !ok {
		return "", false
	}
	if prefix != "" {
		parts = mergeText(append([]fmtPart{{text: prefix}}, parts...))
	}
	if len(parts) == 1 && parts[0].expr == nil {
		return quote(parts[0].text), true
	}
	s, _ := g.concat(parts)
	return s, true
}

// ---------------------------------------------------------------------------
// Format strings

// fmtPart is either literal text or an argument to be formatted.
type fmtPart struct {
	text string
	expr ir.Expression
}

func (p fmtPart) render(g *generator) string {
	if p.expr != nil {
		return g.expr(p.expr)
	}
	return quote(p.text)
}

// formatParts splits a format string and its arguments into parts. Format
// specs after a colon are ignored. It fails when the first argument is not
// a string literal or a placeholder cannot be resolved.
func (g *generator) formatParts(args []ir.Expression) ([]fmtPart, bool) {
	if len(args) == 0 {
		return nil, true
	}
	lit, ok := args[0].(*ir.LiteralExpr)
	if !ok || lit.Value.Kind != ir.LitString {
		return nil, false
	}
	format, rest := lit.Value.Str, args[1:]

	var parts []fmtPart
	var text strings.Builder
	next := 0
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, fmtPart{text: text.String()})
			text.Reset()
		}
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			text.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			text.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, false
			}
			spec := format[i+1 : i+end]
			if colon := strings.IndexByte(spec, ':'); colon >= 0 {
				spec = spec[:colon]
			}
			var arg ir.Expression
			switch {
			case spec == "":
				if next >= len(rest) {
					return nil, false
				}
				arg = rest[next]
				next++
			case spec[0] >= '0' && spec[0] <= '9':
				n, err := strconv.Atoi(spec)
				if err != nil || n >= len(rest) {
					return nil, false
				}
				arg = rest[n]
			case isIdent(spec):
				arg = &ir.Identifier{Name: spec}
			default:
				return nil, false
			}
			flush()
			parts = append(parts, fmtPart{expr: arg})
			i += end
		case c == '}':
			return nil, false
		default:
			text.WriteByte(c)
		}
	}
	flush()
	return parts, true
}

func mergeText(parts []fmtPart) []fmtPart {
	out := parts[:0:0]
	for _, p := range parts {
		if n := len(out); n > 0 && p.expr == nil && out[n-1].expr == nil {
			out[n-1].text += p.text
			continue
		}
		out = append(out, p)
	}
	return out
}

func isIdent(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}
