// Package emit renders the ir model as Mojo source text.
//
// Emission is a pure function of the CompilationUnit: the same unit always
// produces byte-identical output. Declarations are emitted in ir order.
// Constructs that were lowered to ir.Unsupported are rendered as explicit
// rust2mojo_unsupported markers rather than failing the unit; CodegenFailure
// is reserved for malformed ir the generator cannot interpret.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
)

// Header is the first line of every emitted file.
const Header = "# Generated Mojo code"

// UnsupportedFunc is the call emitted in place of an unsupported expression.
const UnsupportedFunc = "rust2mojo_unsupported"

// UnsupportedComment prefixes the comment emitted in place of an
// unsupported statement.
const UnsupportedComment = "# rust2mojo: unsupported "

const indentUnit = "    "

// CodegenFailure reports ir that cannot be rendered.
type CodegenFailure struct {
	Msg string
}

func (e *CodegenFailure) Error() string {
	return "codegen error: " + e.Msg
}

// Emit renders unit as Mojo source.
func Emit(unit *ir.CompilationUnit) (string, error) {
	if unit == nil {
		return "", &CodegenFailure{Msg: "nil compilation unit"}
	}
	g := newGenerator()
	for i, it := range unit.Items {
		if i > 0 {
			g.blank()
		}
		g.item(it)
	}
	if g.err != nil {
		return "", g.err
	}

	var out strings.Builder
	g.writeHeader(&out, unit.Metadata)
	if g.sb.Len() > 0 {
		out.WriteString("\n\n")
		out.WriteString(g.sb.String())
	}
	return out.String(), nil
}

// generator accumulates the body of the output. Imports are collected while
// generating and written ahead of the body once it is complete.
type generator struct {
	sb     strings.Builder
	indent int
	err    error

	// lines of code written, excluding comments; used to decide when a
	// body needs an explicit pass
	code int

	collections map[string]bool
	usesAbort   bool

	// selfType names the impl target inside methods, for Self
	selfType string
	inMain   bool

	// pattern bindings of the enclosing match arms, innermost last
	bindings []map[string]string
	matches  int
}

func newGenerator() *generator {
	return &generator{collections: map[string]bool{"List": true}}
}

func (g *generator) failf(format string, args ...any) {
	if g.err == nil {
		g.err = &CodegenFailure{Msg: fmt.Sprintf(format, args...)}
	}
}

func (g *generator) line(format string, args ...any) {
	g.sb.WriteString(strings.Repeat(indentUnit, g.indent))
	fmt.Fprintf(&g.sb, format, args...)
	g.sb.WriteByte('\n')
	g.code++
}

func (g *generator) comment(text string) {
	g.sb.WriteString(strings.Repeat(indentUnit, g.indent))
	g.sb.WriteString("# ")
	g.sb.WriteString(text)
	g.sb.WriteByte('\n')
}

func (g *generator) blank() {
	g.sb.WriteString("\n\n")
}

func (g *generator) writeHeader(out *strings.Builder, meta ir.Metadata) {
	edition := meta.RustEdition
	if edition == "" {
		edition = ir.DefaultRustEdition
	}
	target := meta.TargetMojoVersion
	if target == "" {
		target = ir.DefaultMojoVersion
	}
	out.WriteString(Header + "\n")
	fmt.Fprintf(out, "# Translated from Rust %s for Mojo %s\n", edition, target)
	out.WriteString("from memory import UnsafePointer\n")

	names := make([]string, 0, len(g.collections))
	for name := range g.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "from collections import %s\n", strings.Join(names, ", "))
	if g.usesAbort {
		out.WriteString("from os import abort\n")
	}
}

// ---------------------------------------------------------------------------
// Items

func (g *generator) item(it ir.Item) {
	switch n := it.(type) {
	case *ir.Function:
		g.function(n, nil)
	case *ir.Struct:
		g.structItem(n)
	case *ir.Enum:
		g.enumItem(n)
	case *ir.Impl:
		g.impl(n)
	case *ir.Use:
		g.comment("use " + n.Path)
	case *ir.Module:
		g.module(n)
	case *ir.Const:
		g.constItem(n.Name, n.Type, n.Value)
	case *ir.Static:
		if n.Mutable {
			g.binding("var", n.Name, n.Type, n.Value)
		} else {
			g.constItem(n.Name, n.Type, n.Value)
		}
	case *ir.TypeAlias:
		g.typeAlias(n, nil)
	case nil:
		g.failf("nil item")
	default:
		g.failf("unexpected item %T", it)
	}
}

// function writes fn name[params](args) -> T: with its body. implGenerics
// are the generic parameters of the enclosing impl block.
func (g *generator) function(fn *ir.Function, implGenerics []ir.Generic) {
	if fn.HasAttribute("inline") {
		g.line("@always_inline")
	}
	main := fn.Name == "main" && fn.Receiver == nil && g.selfType == ""
	if main {
		g.line("fn main():")
	} else {
		var params []string
		if fn.Receiver != nil {
			params = append(params, g.receiver(fn.Receiver))
		}
		for _, p := range fn.Parameters {
			params = append(params, g.parameter(p))
		}
		sig := "fn " + name(fn.Name) + g.genericList(append(append([]ir.Generic{}, implGenerics...), fn.Generics...), "AnyType")
		sig += "(" + strings.Join(params, ", ") + ")"
		if !ir.IsUnit(fn.ReturnType) {
			sig += " -> " + g.typ(fn.ReturnType)
		}
		g.line("%s:", sig)
	}
	g.inMain = main
	g.body(fn.Body)
	g.inMain = false
}

func (g *generator) receiver(r *ir.Receiver) string {
	self := "self: " + g.selfName()
	switch {
	case r.Reference && r.Mutable:
		return "inout " + self
	case r.Reference:
		return self
	}
	return "owned " + self
}

// parameter maps &mut T to inout and a mut binding to owned. Shared
// references are passed by value.
func (g *generator) parameter(p ir.Parameter) string {
	if ref, ok := p.Type.(*ir.ReferenceType); ok && ref.Mutable {
		return "inout " + name(p.Name) + ": " + g.typ(ref.Inner)
	}
	prefix := ""
	if p.Mutable {
		prefix = "owned "
	}
	return prefix + name(p.Name) + ": " + g.typ(p.Type)
}

// genericList renders [T: Trait, N: Int]. Rust trait bounds have no Mojo
// equivalent, so every type parameter gets the given trait.
func (g *generator) genericList(generics []ir.Generic, trait string) string {
	if len(generics) == 0 {
		return ""
	}
	parts := make([]string, 0, len(generics))
	for _, gp := range generics {
		if gp.Const != nil {
			parts = append(parts, name(gp.Name)+": "+g.typ(gp.Const))
		} else {
			parts = append(parts, name(gp.Name)+": "+trait)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (g *generator) structItem(s *ir.Struct) {
	g.line("@value")
	g.line("struct %s%s:", name(s.Name), g.genericList(s.Generics, "CollectionElement"))
	g.indent++
	if len(s.Fields) == 0 {
		g.line("pass")
	}
	for _, f := range s.Fields {
		g.line("var %s: %s", fieldName(f.Name), g.typ(f.Type))
	}
	g.indent--
}

// enumItem renders an enum as a struct wrapping an Int tag with one alias
// per variant. Variant payloads are recorded in comments.
func (g *generator) enumItem(e *ir.Enum) {
	enumName := name(e.Name)
	g.line("@value")
	g.line("struct %s%s:", enumName, g.genericList(e.Generics, "CollectionElement"))
	g.indent++
	g.line("var _tag: Int")
	if len(e.Variants) > 0 {
		g.sb.WriteByte('\n')
	}
	next := int64(0)
	for _, v := range e.Variants {
		if lit, ok := v.Discriminant.(*ir.LiteralExpr); ok && lit.Value.Kind == ir.LitInteger {
			next = lit.Value.Int
		}
		alias := fmt.Sprintf("alias %s = %s(%d)", name(v.Name), enumName, next)
		if payload := g.variantPayload(v.Data); payload != "" {
			alias += "  # " + payload
		}
		g.line("%s", alias)
		next++
	}
	g.sb.WriteByte('\n')
	g.line("fn __eq__(self, other: Self) -> Bool:")
	g.indent++
	g.line("return self._tag == other._tag")
	g.indent--
	g.sb.WriteByte('\n')
	g.line("fn __ne__(self, other: Self) -> Bool:")
	g.indent++
	g.line("return self._tag != other._tag")
	g.indent--
	g.indent--
}

func (g *generator) variantPayload(d ir.VariantData) string {
	switch d.Kind {
	case ir.VariantTuple:
		parts := make([]string, len(d.Types))
		for i, t := range d.Types {
			parts[i] = g.typ(t)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ir.VariantStruct:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = fieldName(f.Name) + ": " + g.typ(f.Type)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

func (g *generator) impl(im *ir.Impl) {
	saved := g.selfType
	g.selfType = g.typ(im.Target)
	header := "impl " + ir.TypeString(im.Target)
	if im.Trait != nil {
		header = "impl " + ir.TypeString(im.Trait) + " for " + ir.TypeString(im.Target)
	}
	g.comment(header)
	for _, it := range im.Items {
		g.sb.WriteByte('\n')
		switch m := it.(type) {
		case *ir.Function:
			g.function(m, im.Generics)
		case *ir.Const:
			g.constItem(m.Name, m.Type, m.Value)
		case *ir.TypeAlias:
			g.typeAlias(m, im.Generics)
		case nil:
			g.failf("nil impl item")
		default:
			g.failf("unexpected impl item %T", it)
		}
	}
	g.selfType = saved
}

func (g *generator) module(m *ir.Module) {
	if m.External {
		g.comment("mod " + m.Name + " (defined in another file)")
		return
	}
	g.comment("mod " + m.Name)
	for _, it := range m.Items {
		g.sb.WriteByte('\n')
		g.item(it)
	}
}

func (g *generator) constItem(n string, t ir.Type, value ir.Expression) {
	if value == nil {
		g.comment("const " + n + " has no value")
		return
	}
	g.binding("alias", n, t, value)
}

func (g *generator) binding(keyword, n string, t ir.Type, value ir.Expression) {
	decl := keyword + " " + name(n)
	if t != nil && !ir.IsUnit(t) {
		decl += ": " + g.typ(t)
	}
	if value != nil {
		decl += " = " + g.expr(value)
	}
	g.line("%s", decl)
}

func (g *generator) typeAlias(ta *ir.TypeAlias, implGenerics []ir.Generic) {
	generics := append(append([]ir.Generic{}, implGenerics...), ta.Generics...)
	g.line("alias %s%s = %s", name(ta.Name), g.genericList(generics, "AnyType"), g.typ(ta.Type))
}

// selfName is what Self refers to at the current position.
func (g *generator) selfName() string {
	if g.selfType != "" {
		return g.selfType
	}
	return "Self"
}
