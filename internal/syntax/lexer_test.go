package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == EOF {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}

func TestLexBasicFunction(t *testing.T) {
	toks, err := Lex("fn add(a: i32) -> i32 { a + 1 }")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"fn", "add", "(", "a", ":", "i32", ")", "-", ">", "i32", "{", "a", "+", "1", "}"},
		texts(toks))
	assert.Equal(t, EOF, toks[len(toks)-1].Kind)
}

func TestLexJointPunctuation(t *testing.T) {
	toks, err := Lex("a >>= b > > c")
	require.NoError(t, err)
	// a > > = b > > c
	require.Len(t, toks, 9)
	assert.True(t, toks[1].Joint, "first > of >>= is joint")
	assert.True(t, toks[2].Joint, "second > of >>= is joint")
	assert.False(t, toks[3].Joint, "= before space is not joint")
	assert.False(t, toks[5].Joint, "spaced > is not joint")
}

func TestLexComments(t *testing.T) {
	src := "// line\nfn /* block /* nested */ still */ main() {} /// doc\n//! inner doc"
	toks, err := Lex(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"fn", "main", "(", ")", "{", "}"}, texts(toks))
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, err := Lex("fn main() { /* open /* nested */ ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated block comment")
	assert.True(t, IsError(err))
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind LitKind
		text string
	}{
		{"42", LitInt, "42"},
		{"1_000_000u64", LitInt, "1_000_000u64"},
		{"0xff_u8", LitInt, "0xff_u8"},
		{"0b1010", LitInt, "0b1010"},
		{"0o777", LitInt, "0o777"},
		{"3.14", LitFloat, "3.14"},
		{"2.", LitFloat, "2."},
		{"1e10", LitFloat, "1e10"},
		{"2.5E-3f64", LitFloat, "2.5E-3f64"},
		{"7f32", LitInt, "7f32"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Lex(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, Literal, toks[0].Kind)
			assert.Equal(t, tt.kind, toks[0].Lit)
			assert.Equal(t, tt.text, toks[0].Text)
		})
	}
}

func TestLexRangeIsNotFloat(t *testing.T) {
	toks, err := Lex("0..10")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", ".", ".", "10"}, texts(toks))
	assert.Equal(t, LitInt, toks[0].Lit)
}

func TestLexMethodOnIntegerIsNotFloat(t *testing.T) {
	toks, err := Lex("1.max(2)")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", ".", "max", "(", "2", ")"}, texts(toks))
}

func TestLexNestedTupleIndex(t *testing.T) {
	toks, err := Lex("x.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", ".", "0", ".", "1"}, texts(toks))
	assert.Equal(t, LitInt, toks[2].Lit)
}

func TestLexInvalidDigit(t *testing.T) {
	_, err := Lex("0b102")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digit")

	_, err = Lex("0x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid digits")
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kind  LitKind
		value string
	}{
		{"plain", `"hello"`, LitStr, "hello"},
		{"escapes", `"a\tb\n\"c\"\\"`, LitStr, "a\tb\n\"c\"\\"},
		{"hex", `"\x41"`, LitStr, "A"},
		{"unicode", `"\u{1F600}"`, LitStr, "\U0001F600"},
		{"continuation", "\"a\\\n    b\"", LitStr, "ab"},
		{"raw", `r"C:\path"`, LitStr, `C:\path`},
		{"raw hashes", `r#"say "hi""#`, LitStr, `say "hi"`},
		{"byte string", `b"bytes"`, LitByteStr, "bytes"},
		{"raw byte string", `br"raw"`, LitByteStr, "raw"},
		{"c string", `c"text"`, LitCStr, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Lex(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.kind, toks[0].Lit)
			assert.Equal(t, tt.value, toks[0].Value)
			assert.Equal(t, tt.src, toks[0].Text)
		})
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`let s = "open`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")

	_, err = Lex(`r#"open"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated raw string literal")
}

func TestLexCharsAndLifetimes(t *testing.T) {
	toks, err := Lex(`'a' '\n' b'x' 'static 'a: '\u{e9}'`)
	require.NoError(t, err)
	require.Len(t, toks, 8)

	assert.Equal(t, LitChar, toks[0].Lit)
	assert.Equal(t, "a", toks[0].Value)
	assert.Equal(t, "\n", toks[1].Value)
	assert.Equal(t, LitByte, toks[2].Lit)
	assert.Equal(t, "x", toks[2].Value)
	assert.Equal(t, Lifetime, toks[3].Kind)
	assert.Equal(t, "'static", toks[3].Text)
	assert.Equal(t, Lifetime, toks[4].Kind)
	assert.True(t, toks[5].Is(":"))
	assert.Equal(t, "\u00e9", toks[6].Value)
}

func TestLexRawIdentifier(t *testing.T) {
	toks, err := Lex("r#match r#type")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "match", toks[0].Text)
	assert.True(t, toks[0].Raw)
	assert.False(t, toks[0].IsKeyword("match"))
}

func TestLexUnicodeIdentifier(t *testing.T) {
	toks, err := Lex("let café = 1;")
	require.NoError(t, err)
	assert.Equal(t, "café", toks[1].Text)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	_, err := Lex("let x = 1 € 2;")
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, 11, se.Col)
	assert.Contains(t, se.Msg, "unexpected character")
}

func TestLexInvalidUTF8(t *testing.T) {
	_, err := Lex("fn main() {}\xff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestLexShebangAndBOM(t *testing.T) {
	toks, err := Lex("\uFEFF#!/usr/bin/env run-cargo-script\nfn main() {}")
	require.NoError(t, err)
	assert.Equal(t, []string{"fn", "main", "(", ")", "{", "}"}, texts(toks))

	toks, err = Lex("#![allow(unused)]\nfn main() {}")
	require.NoError(t, err)
	assert.Equal(t, "#", toks[0].Text, "inner attribute is not a shebang")
}

func TestPosition(t *testing.T) {
	src := "ab\ncdé\nf"
	line, col := Position(src, 0)
	assert.Equal(t, []int{1, 1}, []int{line, col})
	line, col = Position(src, 3)
	assert.Equal(t, []int{2, 1}, []int{line, col})
	// é is two bytes but one column.
	line, col = Position(src, len("ab\ncdé"))
	assert.Equal(t, []int{2, 4}, []int{line, col})
	line, col = Position(src, 1000)
	assert.Equal(t, []int{3, 2}, []int{line, col})
}
