package lower

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

var intSuffixes = []string{
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize",
}

func isFloatSuffix(s string) bool { return s == "f32" || s == "f64" }

// splitIntSuffix separates an integer literal from its type suffix.
// In hex literals the digits a-f are not suffix characters, so only an
// i/u suffix is recognised there.
func splitIntSuffix(text string) (body, suffix string) {
	hex := strings.HasPrefix(text, "0x")
	if !hex {
		for _, s := range []string{"f32", "f64"} {
			if strings.HasSuffix(text, s) {
				return strings.TrimSuffix(text, s), s
			}
		}
	}
	for _, s := range intSuffixes {
		if strings.HasSuffix(text, s) && len(text) > len(s) {
			return strings.TrimSuffix(text, s), s
		}
	}
	return text, ""
}

// literal converts a syntactic literal. ok is false when the value cannot
// be represented, in which case construct names the reason.
func literal(lit syntax.Lit) (value ir.Literal, construct string, ok bool) {
	switch lit.Kind {
	case syntax.LitInt:
		body, suffix := splitIntSuffix(lit.Text)
		if isFloatSuffix(suffix) {
			f, err := strconv.ParseFloat(strings.ReplaceAll(body, "_", ""), 64)
			if err != nil {
				return ir.Literal{}, "float literal out of range", false
			}
			return ir.FloatLit(f), "", true
		}
		n, err := parseIntBody(body)
		if err != nil {
			return ir.Literal{}, "integer literal out of range", false
		}
		return ir.IntLit(n), "", true

	case syntax.LitFloat:
		text := strings.ReplaceAll(lit.Text, "_", "")
		text = strings.TrimSuffix(strings.TrimSuffix(text, "f32"), "f64")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ir.Literal{}, "float literal out of range", false
		}
		return ir.FloatLit(f), "", true

	case syntax.LitStr:
		return ir.StringLit(lit.Value), "", true

	case syntax.LitChar:
		r, _ := utf8.DecodeRuneInString(lit.Value)
		return ir.CharLit(r), "", true

	case syntax.LitByte:
		if lit.Value == "" {
			return ir.Literal{}, "byte literal", false
		}
		return ir.IntLit(int64(lit.Value[0])), "", true

	case syntax.LitBool:
		return ir.BoolLit(lit.Text == "true"), "", true

	case syntax.LitByteStr:
		return ir.Literal{}, "byte string literal", false
	case syntax.LitCStr:
		return ir.Literal{}, "C string literal", false
	}
	return ir.Literal{}, "literal", false
}
