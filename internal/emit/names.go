package emit

import (
	"strings"
)

// mojoKeywords are words Rust accepts as identifiers that Mojo reserves.
var mojoKeywords = map[string]bool{
	"alias":    true,
	"and":      true,
	"assert":   true,
	"borrowed": true,
	"class":    true,
	"def":      true,
	"del":      true,
	"elif":     true,
	"except":   true,
	"finally":  true,
	"from":     true,
	"global":   true,
	"import":   true,
	"inout":    true,
	"is":       true,
	"lambda":   true,
	"nonlocal": true,
	"not":      true,
	"or":       true,
	"owned":    true,
	"pass":     true,
	"raise":    true,
	"raises":   true,
	"var":      true,
	"with":     true,
}

// name escapes an identifier that collides with a Mojo keyword.
func name(n string) string {
	if mojoKeywords[n] {
		return "`" + n + "`"
	}
	return n
}

// fieldName maps tuple positions to _0, _1, ...
func fieldName(n string) string {
	if n != "" && n[0] >= '0' && n[0] <= '9' {
		return "_" + n
	}
	return name(n)
}

// pathName renders a Rust path as a dotted Mojo reference. Leading crate,
// self and super segments are dropped and Self resolves to the impl target.
func (g *generator) pathName(path string) string {
	segs := strings.Split(path, "::")
	for len(segs) > 1 && (segs[0] == "crate" || segs[0] == "self" || segs[0] == "super" || segs[0] == "") {
		segs = segs[1:]
	}
	out := make([]string, len(segs))
	for i, s := range segs {
		switch {
		case s == "Self":
			out[i] = g.selfName()
		case i == 0 && len(segs) > 1 && scalarTypes[s] != "" && s != "str" && s != "char":
			out[i] = scalarTypes[s]
		default:
			out[i] = name(s)
		}
	}
	return strings.Join(out, ".")
}
