// Package lower converts the Rust syntax tree produced by internal/syntax
// into the ir model.
//
// Lowering is total over well-formed syntax trees: every construct either
// maps to an ir node or to an explicit ir.Unsupported. Top-level
// declarations the ir does not model (traits, extern blocks, item macros,
// unions, extern crates) are skipped and recorded as diagnostics instead of
// failing the unit.
package lower

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/syntax"
)

// ParseFailure reports that the source text is not valid Rust.
type ParseFailure struct {
	Err *syntax.Error
}

func (e *ParseFailure) Error() string {
	return "parse error: " + e.Err.Error()
}

func (e *ParseFailure) Unwrap() error { return e.Err }

// Lower parses src and lowers it into a CompilationUnit carrying meta.
// A nil logger discards debug output.
func Lower(src string, meta ir.Metadata, logger *slog.Logger) (*ir.CompilationUnit, error) {
	file, err := syntax.ParseFile(src)
	if err != nil {
		var se *syntax.Error
		if !errors.As(err, &se) {
			se = &syntax.Error{Line: 1, Col: 1, Msg: err.Error()}
		}
		return nil, &ParseFailure{Err: se}
	}
	return File(file, src, meta, logger), nil
}

// File lowers an already parsed file. src must be the text file was parsed
// from; it is used for diagnostic positions and unsupported-node sources.
func File(file *syntax.File, src string, meta ir.Metadata, logger *slog.Logger) *ir.CompilationUnit {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &lowerer{src: src, logger: logger, variants: map[string]bool{}, structs: map[string]bool{}}
	l.declare(file.Items)
	unit := &ir.CompilationUnit{
		Items:    l.items(file.Items),
		Metadata: meta,
	}
	unit.Diagnostics = l.diags
	return unit
}

type lowerer struct {
	src    string
	logger *slog.Logger
	diags  []ir.Diagnostic

	// generic parameter names in scope, innermost last
	scopes []map[string]bool

	// names of struct-like enum variants and of structs declared in the
	// file, used to tell `Circle { r }` from `Point { x }` in patterns
	variants map[string]bool
	structs  map[string]bool
}

func (l *lowerer) declare(items []syntax.Item) {
	for _, it := range items {
		switch n := it.(type) {
		case *syntax.ItemEnum:
			for _, v := range n.Variants {
				if v.Fields != nil && v.Fields.Kind == syntax.FieldsNamed {
					l.variants[ident(v.Name)] = true
				}
			}
		case *syntax.ItemStruct:
			l.structs[ident(n.Name)] = true
		case *syntax.ItemMod:
			l.declare(n.Items)
		}
	}
}

// ident normalises an identifier to NFC, matching how rustc compares names.
func ident(name string) string {
	return norm.NFC.String(name)
}

func visibility(v syntax.Visibility) ir.Visibility {
	if v.Kind == syntax.VisPub {
		return ir.Public
	}
	// pub(crate), pub(super), pub(self) and pub(in path) collapse to private.
	return ir.Private
}

func attributes(attrs []*syntax.Attribute) []ir.Attribute {
	var out []ir.Attribute
	for _, a := range attrs {
		if a.Inner {
			continue
		}
		out = append(out, ir.Attribute{Path: a.Path, Tokens: a.Tokens})
	}
	return out
}

// source returns the text of n, shortened for diagnostics.
func (l *lowerer) source(n syntax.Node) string {
	if n == nil {
		return ""
	}
	sp := n.Range()
	if sp.Start < 0 || sp.End > len(l.src) || sp.Start >= sp.End {
		return ""
	}
	text := strings.Join(strings.Fields(l.src[sp.Start:sp.End]), " ")
	const maxSource = 60
	if utf8.RuneCountInString(text) > maxSource {
		runes := []rune(text)
		text = string(runes[:maxSource]) + "..."
	}
	return text
}

func (l *lowerer) unsupported(construct string, n syntax.Node) *ir.Unsupported {
	return &ir.Unsupported{Construct: construct, Source: l.source(n)}
}

// skip records a top-level declaration that is not translated.
func (l *lowerer) skip(kind, name string, n syntax.Node) {
	line, _ := syntax.Position(l.src, n.Range().Start)
	msg := fmt.Sprintf("%s declarations are not translated", strings.ReplaceAll(kind, "_", " "))
	l.diags = append(l.diags, ir.Diagnostic{Kind: kind, Name: name, Line: line, Message: msg})
	l.logger.Debug("skipping declaration", "kind", kind, "name", name, "line", line)
}

// ---------------------------------------------------------------------------
// Items

func (l *lowerer) items(items []syntax.Item) []ir.Item {
	out := make([]ir.Item, 0, len(items))
	for _, it := range items {
		if lowered := l.item(it); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

func (l *lowerer) item(it syntax.Item) ir.Item {
	switch n := it.(type) {
	case *syntax.ItemFn:
		return l.function(n)
	case *syntax.ItemStruct:
		return l.structItem(n)
	case *syntax.ItemEnum:
		return l.enumItem(n)
	case *syntax.ItemImpl:
		return l.impl(n)
	case *syntax.ItemUse:
		return &ir.Use{Path: n.Tree, Visibility: visibility(n.Vis)}
	case *syntax.ItemMod:
		return &ir.Module{
			Name:       ident(n.Name),
			Visibility: visibility(n.Vis),
			Items:      l.items(n.Items),
			External:   !n.Inline,
		}
	case *syntax.ItemConst:
		return l.constItem(n)
	case *syntax.ItemStatic:
		return &ir.Static{
			Name:       ident(n.Name),
			Visibility: visibility(n.Vis),
			Mutable:    n.Mutable,
			Type:       l.typ(n.Ty),
			Value:      l.expr(n.Expr),
		}
	case *syntax.ItemType:
		return l.typeAlias(n)
	case *syntax.ItemTrait:
		l.skip("trait", n.Name, n)
	case *syntax.ItemForeignMod:
		l.skip("extern_block", n.Abi, n)
	case *syntax.ItemMacro:
		if n.Name != "" {
			l.skip("macro_rules", n.Name, n)
		} else {
			l.skip("macro", n.Mac.Path.String(), n)
		}
	case *syntax.ItemUnion:
		l.skip("union", n.Name, n)
	case *syntax.ItemExternCrate:
		l.skip("extern_crate", n.Name, n)
	}
	return nil
}

func (l *lowerer) function(n *syntax.ItemFn) *ir.Function {
	l.pushGenerics(n.Generics)
	defer l.popGenerics()

	fn := &ir.Function{
		Name:       ident(n.Name),
		Visibility: visibility(n.Vis),
		Generics:   l.generics(n.Generics),
		Parameters: []ir.Parameter{},
		Attributes: attributes(n.Attrs),
	}
	for _, in := range n.Inputs {
		switch arg := in.(type) {
		case *syntax.Receiver:
			fn.Receiver = &ir.Receiver{Reference: arg.Reference, Mutable: arg.Mutable || arg.MutBinding}
		case *syntax.TypedArg:
			// Destructuring parameters are dropped; only simple names are kept.
			if id, ok := arg.Pat.(*syntax.PatIdent); ok && id.Sub == nil {
				fn.Parameters = append(fn.Parameters, ir.Parameter{
					Name:    ident(id.Name),
					Type:    l.typ(arg.Ty),
					Mutable: id.Mutable,
				})
			}
		}
	}
	if n.Output != nil {
		fn.ReturnType = l.typ(n.Output)
	}
	fn.Body = []ir.Statement{}
	if n.Body != nil {
		fn.Body = l.block(n.Body, !ir.IsUnit(fn.ReturnType))
	}
	return fn
}

func (l *lowerer) structItem(n *syntax.ItemStruct) *ir.Struct {
	l.pushGenerics(n.Generics)
	defer l.popGenerics()

	s := &ir.Struct{
		Name:       ident(n.Name),
		Visibility: visibility(n.Vis),
		Generics:   l.generics(n.Generics),
		Fields:     l.fields(n.Fields),
		Attributes: attributes(n.Attrs),
	}
	switch n.Fields.Kind {
	case syntax.FieldsNamed:
		s.Kind = ir.StructNamed
	case syntax.FieldsUnnamed:
		s.Kind = ir.StructTuple
	default:
		s.Kind = ir.StructUnit
	}
	return s
}

// fields lowers struct or variant fields; unnamed fields are named by index.
func (l *lowerer) fields(f *syntax.Fields) []ir.Field {
	out := []ir.Field{}
	if f == nil {
		return out
	}
	for i, field := range f.List {
		name := field.Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		out = append(out, ir.Field{
			Name:       ident(name),
			Visibility: visibility(field.Vis),
			Type:       l.typ(field.Ty),
		})
	}
	return out
}

func (l *lowerer) enumItem(n *syntax.ItemEnum) *ir.Enum {
	l.pushGenerics(n.Generics)
	defer l.popGenerics()

	e := &ir.Enum{
		Name:       ident(n.Name),
		Visibility: visibility(n.Vis),
		Generics:   l.generics(n.Generics),
		Variants:   make([]ir.Variant, 0, len(n.Variants)),
		Attributes: attributes(n.Attrs),
	}
	for _, v := range n.Variants {
		variant := ir.Variant{Name: ident(v.Name), Discriminant: l.expr(v.Discriminant)}
		switch v.Fields.Kind {
		case syntax.FieldsUnnamed:
			variant.Data.Kind = ir.VariantTuple
			for _, f := range v.Fields.List {
				variant.Data.Types = append(variant.Data.Types, l.typ(f.Ty))
			}
		case syntax.FieldsNamed:
			variant.Data.Kind = ir.VariantStruct
			variant.Data.Fields = l.fields(v.Fields)
		default:
			variant.Data.Kind = ir.VariantUnit
		}
		e.Variants = append(e.Variants, variant)
	}
	return e
}

func (l *lowerer) impl(n *syntax.ItemImpl) *ir.Impl {
	l.pushGenerics(n.Generics)
	defer l.popGenerics()

	im := &ir.Impl{
		Target:   l.typ(n.SelfTy),
		Generics: l.generics(n.Generics),
		Items:    []ir.ImplItem{},
	}
	if n.Trait != nil {
		im.Trait = l.pathType(n.Trait)
	}
	for _, it := range n.Items {
		switch m := it.(type) {
		case *syntax.ItemFn:
			im.Items = append(im.Items, l.function(m))
		case *syntax.ItemConst:
			im.Items = append(im.Items, l.constItem(m))
		case *syntax.ItemType:
			im.Items = append(im.Items, l.typeAlias(m))
		case *syntax.ItemMacro:
			l.skip("macro", m.Mac.Path.String(), m)
		}
	}
	return im
}

func (l *lowerer) constItem(n *syntax.ItemConst) *ir.Const {
	return &ir.Const{
		Name:       ident(n.Name),
		Visibility: visibility(n.Vis),
		Type:       l.typ(n.Ty),
		Value:      l.expr(n.Expr),
	}
}

func (l *lowerer) typeAlias(n *syntax.ItemType) *ir.TypeAlias {
	l.pushGenerics(n.Generics)
	defer l.popGenerics()
	return &ir.TypeAlias{
		Name:       ident(n.Name),
		Visibility: visibility(n.Vis),
		Generics:   l.generics(n.Generics),
		Type:       l.typ(n.Ty),
	}
}

// ---------------------------------------------------------------------------
// Generics

func (l *lowerer) pushGenerics(g *syntax.Generics) {
	names := map[string]bool{}
	if g != nil {
		for _, p := range g.Params {
			if p.Kind != syntax.GenericLifetime {
				names[ident(p.Name)] = true
			}
		}
	}
	l.scopes = append(l.scopes, names)
}

func (l *lowerer) popGenerics() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *lowerer) isGeneric(name string) bool {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if l.scopes[i][name] {
			return true
		}
	}
	return false
}

// generics lowers type and const parameters. Bounds from the where clause
// are attached to the parameter they constrain; lifetimes are dropped.
func (l *lowerer) generics(g *syntax.Generics) []ir.Generic {
	if g == nil {
		return nil
	}
	var out []ir.Generic
	index := map[string]int{}
	for _, p := range g.Params {
		switch p.Kind {
		case syntax.GenericType:
			index[ident(p.Name)] = len(out)
			out = append(out, ir.Generic{Name: ident(p.Name), Bounds: l.types(p.Bounds)})
		case syntax.GenericConst:
			out = append(out, ir.Generic{Name: ident(p.Name), Const: l.typ(p.ConstTy)})
		}
	}
	for _, w := range g.Where {
		tp, ok := w.Bounded.(*syntax.TypePath)
		if !ok || tp.QSelf != nil || len(tp.Path.Segments) != 1 {
			continue
		}
		if i, ok := index[ident(tp.Path.Segments[0].Name)]; ok {
			out[i].Bounds = append(out[i].Bounds, l.types(w.Bounds)...)
		}
	}
	return out
}

// isUpperName reports whether name starts with an upper-case letter, the
// convention for enum variants and constants.
func isUpperName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
