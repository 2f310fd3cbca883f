package syntax

import "fmt"

// TokenKind classifies lexical tokens.
type TokenKind int

const (
	EOF      TokenKind = iota // end of input
	Ident                     // identifiers and keywords, including r#raw
	Lifetime                  // 'a, 'static, loop labels
	Literal                   // numbers, strings, chars, byte forms
	Punct                     // one punctuation character; see Token.Joint
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Lifetime:
		return "lifetime"
	case Literal:
		return "literal"
	case Punct:
		return "punctuation"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// LitKind classifies literal tokens.
type LitKind int

const (
	LitInt     LitKind = iota // 42, 0xff_u8
	LitFloat                  // 1.5, 2e10, 1f32
	LitStr                    // "text", r#"raw"#
	LitByteStr                // b"bytes", br"raw"
	LitCStr                   // c"text"
	LitChar                   // 'c'
	LitByte                   // b'c'
	LitBool                   // true, false; produced by the parser
)

// Token is one lexical token.
//
// Punctuation is always lexed one character at a time. Multi-character
// operators are recognised by the parser from runs of Joint tokens, which
// lets `>>` close two generic argument lists.
type Token struct {
	Kind  TokenKind
	Text  string  // exact source text
	Lit   LitKind // literal kind, Literal tokens only
	Value string  // decoded contents of string, char and byte literals
	Raw   bool    // raw identifier (r#name); never a keyword
	Joint bool    // Punct immediately followed by another Punct
	Pos   int     // byte offset of the first character
	End   int     // byte offset just past the last character
}

// Is reports whether t is the punctuation character c.
func (t Token) Is(c string) bool {
	return t.Kind == Punct && t.Text == c
}

// IsKeyword reports whether t is the (non-raw) keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Ident && !t.Raw && t.Text == kw
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Punct:
		return fmt.Sprintf("`%s`", t.Text)
	case Ident:
		if !t.Raw && keywords[t.Text] {
			return fmt.Sprintf("keyword `%s`", t.Text)
		}
		return fmt.Sprintf("identifier `%s`", t.Text)
	}
	return fmt.Sprintf("%s `%s`", t.Kind, t.Text)
}

// keywords are the strict and reserved Rust keywords. Contextual keywords
// (union, auto, default, macro_rules) are plain identifiers.
var keywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true,
	// reserved
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "yield": true, "try": true,
}

// IsKeyword reports whether name is a strict or reserved Rust keyword.
func IsKeyword(name string) bool {
	return keywords[name]
}
