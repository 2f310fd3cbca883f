package testutil

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// PrimitiveTypes are the scalar Rust types the generator draws from.
var PrimitiveTypes = []string{
	"i8", "i16", "i32", "i64", "i128",
	"u8", "u16", "u32", "u64", "u128",
	"f32", "f64", "bool", "char", "()", "isize", "usize",
}

// rustKeywords are never produced as identifiers.
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "type": true, "unsafe": true, "use": true,
	"where": true, "while": true, "abstract": true, "become": true, "box": true,
	"do": true, "final": true, "macro": true, "override": true, "priv": true,
	"typeof": true, "unsized": true, "virtual": true, "yield": true, "try": true,
	"union": true, "gen": true,
}

// RustGen produces random but syntactically valid Rust source for property
// tests. The same seed always yields the same sequence of programs.
//
// RustGen is not safe for concurrent use.
type RustGen struct {
	r *rand.Rand
}

// NewRustGen creates a generator seeded with seed.
func NewRustGen(seed uint64) *RustGen {
	return &RustGen{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Identifier returns a lowercase identifier matching [a-z][a-z0-9_]*.
func (g *RustGen) Identifier() string {
	const first = "abcdefghijklmnopqrstuvwxyz"
	const rest = first + "0123456789_"
	for {
		var sb strings.Builder
		sb.WriteByte(first[g.r.IntN(len(first))])
		for n := g.r.IntN(8); n > 0; n-- {
			sb.WriteByte(rest[g.r.IntN(len(rest))])
		}
		if id := sb.String(); !rustKeywords[id] {
			return id
		}
	}
}

// PrimitiveType returns one of PrimitiveTypes.
func (g *RustGen) PrimitiveType() string {
	return PrimitiveTypes[g.r.IntN(len(PrimitiveTypes))]
}

// Literal returns an integer, float, bool or string literal. String
// contents are lowercase words so they never contain marker text.
func (g *RustGen) Literal() string {
	switch g.r.IntN(4) {
	case 0:
		return strconv.Itoa(int(g.r.Int32()))
	case 1:
		f := strconv.FormatFloat(g.r.NormFloat64()*1000, 'f', -1, 64)
		if !strings.ContainsAny(f, ".") {
			f += ".0"
		}
		return f
	case 2:
		return strconv.FormatBool(g.r.IntN(2) == 0)
	default:
		words := make([]string, g.r.IntN(3))
		for i := range words {
			words[i] = g.Identifier()
		}
		return strconv.Quote(strings.Join(words, " "))
	}
}

// SimpleExpression returns a literal, a name, a binary operation on
// literals or a call.
func (g *RustGen) SimpleExpression() string {
	switch g.r.IntN(4) {
	case 0:
		return g.Literal()
	case 1:
		return g.Identifier()
	case 2:
		ops := []string{"+", "-", "*", "/"}
		return fmt.Sprintf("%s %s %s", g.Literal(), ops[g.r.IntN(len(ops))], g.Literal())
	default:
		args := make([]string, g.r.IntN(3))
		for i := range args {
			args[i] = g.Literal()
		}
		return fmt.Sprintf("%s(%s)", g.Identifier(), strings.Join(args, ", "))
	}
}

// FunctionParameters returns up to four name: type pairs joined by commas.
// Names are p0, p1, ... so they never repeat.
func (g *RustGen) FunctionParameters() string {
	params := make([]string, g.r.IntN(5))
	for i := range params {
		params[i] = fmt.Sprintf("p%d: %s", i, g.PrimitiveType())
	}
	return strings.Join(params, ", ")
}

// FunctionBody returns a braced body.
func (g *RustGen) FunctionBody() string {
	switch g.r.IntN(4) {
	case 0:
		return "{}"
	case 1:
		return fmt.Sprintf("{ %s }", g.SimpleExpression())
	case 2:
		return fmt.Sprintf("{ let %s = %s; }", g.Identifier(), g.SimpleExpression())
	default:
		stmts := make([]string, 1+g.r.IntN(2))
		for i := range stmts {
			stmts[i] = g.SimpleExpression()
		}
		return fmt.Sprintf("{ %s; }", strings.Join(stmts, "; "))
	}
}

// FunctionDefinition returns a complete fn item.
func (g *RustGen) FunctionDefinition() string {
	ret := ""
	if g.r.IntN(2) == 0 {
		ret = " -> " + g.PrimitiveType()
	}
	return fmt.Sprintf("fn %s(%s)%s %s", g.Identifier(), g.FunctionParameters(), ret, g.FunctionBody())
}

// StructDefinition returns a unit struct or a struct with up to four fields.
func (g *RustGen) StructDefinition() string {
	name := g.Identifier()
	n := g.r.IntN(5)
	if n == 0 {
		return fmt.Sprintf("struct %s;", name)
	}
	fields := make([]string, n)
	for i := range fields {
		fields[i] = fmt.Sprintf("    f%d_%s: %s,", i, g.Identifier(), g.PrimitiveType())
	}
	return fmt.Sprintf("struct %s {\n%s\n}", name, strings.Join(fields, "\n"))
}

// EnumDefinition returns an enum with one to four unit variants.
func (g *RustGen) EnumDefinition() string {
	variants := make([]string, 1+g.r.IntN(4))
	for i := range variants {
		variants[i] = fmt.Sprintf("    V%d%s,", i, g.Identifier())
	}
	return fmt.Sprintf("enum %s {\n%s\n}", g.Identifier(), strings.Join(variants, "\n"))
}

// Program returns one to nine items separated by blank lines.
func (g *RustGen) Program() string {
	items := make([]string, 1+g.r.IntN(9))
	for i := range items {
		switch g.r.IntN(3) {
		case 0:
			items[i] = g.FunctionDefinition()
		case 1:
			items[i] = g.StructDefinition()
		default:
			items[i] = g.EnumDefinition()
		}
	}
	return strings.Join(items, "\n\n")
}

// ManyParams returns a function with n i32 parameters.
func ManyParams(n int) string {
	params := make([]string, n)
	for i := range params {
		params[i] = fmt.Sprintf("p%d: i32", i)
	}
	return fmt.Sprintf("fn test_many_params(%s) {}", strings.Join(params, ", "))
}

// NestedParens returns a function returning 1 wrapped in depth parentheses.
func NestedParens(depth int) string {
	return fmt.Sprintf("fn test() -> i32 { %s1%s }", strings.Repeat("(", depth), strings.Repeat(")", depth))
}
