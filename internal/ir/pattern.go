package ir

// Pattern is a sealed interface for match patterns.
// Implemented by *WildcardPattern, *IdentPattern, *LiteralPattern,
// *TuplePattern, *StructPattern, *EnumPattern and *Unsupported.
type Pattern interface {
	patternNode()
}

// WildcardPattern is `_`.
type WildcardPattern struct{}

// IdentPattern binds the matched value to Name.
type IdentPattern struct {
	Name    string `json:"name"`
	Mutable bool   `json:"mutable"`
}

// LiteralPattern matches a constant.
type LiteralPattern struct {
	Value Literal `json:"value"`
}

// TuplePattern matches a tuple element-wise.
type TuplePattern struct {
	Elements []Pattern `json:"elements"`
}

// FieldPattern is one `field: pattern` entry of a struct pattern.
type FieldPattern struct {
	Name    string  `json:"name"`
	Pattern Pattern `json:"pattern"`
}

// StructPattern is Name { field: pat, .. }.
type StructPattern struct {
	Name   string         `json:"name"`
	Fields []FieldPattern `json:"fields"`
}

// EnumPattern matches an enum variant, e.g. Color::Red or Some(x).
// Path is the enum path without the variant and may be empty.
type EnumPattern struct {
	Path    string    `json:"path,omitempty"`
	Variant string    `json:"variant"`
	Fields  []Pattern `json:"fields,omitempty"`
}

func (*WildcardPattern) patternNode() {}
func (*IdentPattern) patternNode()    {}
func (*LiteralPattern) patternNode()  {}
func (*TuplePattern) patternNode()    {}
func (*StructPattern) patternNode()   {}
func (*EnumPattern) patternNode()     {}
