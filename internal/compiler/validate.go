package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/rust2mojo/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Structural errors (E101-E109)
	ErrNilNode           = "E101" // required child is nil
	ErrEmptyName         = "E102" // declaration or binding without a name
	ErrInvalidIdentifier = "E103" // name is not an identifier
	ErrEmptyPath         = "E104" // path with an empty segment
	ErrKindMismatch      = "E105" // declared kind disagrees with contents
	ErrEmptyConstruct    = "E106" // Unsupported node without a construct
	ErrInvalidOperator   = "E107" // operator outside the known set
)

// ValidationError represents an IR invariant violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a lowered unit against the structural IR invariants
// emission relies on. Returns all errors found (does not fail-fast).
//
// Semantic errors in the Rust source, such as a repeated field name, are not
// IR violations and pass through to the output unchanged.
func Validate(v any) []ValidationError {
	switch unit := v.(type) {
	case *ir.CompilationUnit:
		if unit == nil {
			return []ValidationError{{Field: "unit", Message: "nil compilation unit", Code: ErrNilNode}}
		}
		return validateUnit(unit)
	case ir.CompilationUnit:
		return validateUnit(&unit)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// identPattern matches Rust identifiers after NFC normalisation.
var identPattern = regexp.MustCompile(`^[\p{L}\p{Nl}_][\p{L}\p{M}\p{N}\p{Pc}]*$`)

type validator struct {
	errs []ValidationError
	// path from the unit to the node being checked; rendered only when an
	// error is recorded
	path []segment
}

// segment is one step of a field path: a field name, or an index when
// name is empty.
type segment struct {
	name  string
	index int
}

func validateUnit(unit *ir.CompilationUnit) []ValidationError {
	v := &validator{}
	v.push("items")
	v.items(unit.Items)
	v.pop()
	return v.errs
}

func (v *validator) push(name string) { v.path = append(v.path, segment{name: name}) }
func (v *validator) pushIndex(i int)  { v.path = append(v.path, segment{index: i}) }
func (v *validator) pop()             { v.path = v.path[:len(v.path)-1] }

// field renders the current path, e.g. items[1].body[0].expr.
func (v *validator) field() string {
	var sb strings.Builder
	for i, seg := range v.path {
		switch {
		case seg.name == "":
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(seg.index))
			sb.WriteByte(']')
		case i > 0:
			sb.WriteByte('.')
			fallthrough
		default:
			sb.WriteString(seg.name)
		}
	}
	return sb.String()
}

func (v *validator) add(code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: v.field(), Message: fmt.Sprintf(format, args...), Code: code})
}

// addAt records an error at the child field of the current node.
func (v *validator) addAt(child, code, format string, args ...any) {
	v.push(child)
	v.add(code, format, args...)
	v.pop()
}

// name checks the identifier stored in the child field.
func (v *validator) name(child, name string) {
	switch {
	case name == "":
		v.addAt(child, ErrEmptyName, "name is required")
	case !identPattern.MatchString(name):
		v.addAt(child, ErrInvalidIdentifier, "invalid identifier %q", name)
	}
}

// pathName checks a "::"-joined path in the child field for empty segments.
func (v *validator) pathName(child, path string) {
	if path == "" {
		v.addAt(child, ErrEmptyPath, "path is required")
		return
	}
	for _, seg := range strings.Split(path, "::") {
		if seg == "" {
			v.addAt(child, ErrEmptyPath, "invalid path %q", path)
			return
		}
	}
}

func (v *validator) typeAt(child string, t ir.Type) {
	v.push(child)
	v.typ(t)
	v.pop()
}

func (v *validator) exprAt(child string, e ir.Expression) {
	v.push(child)
	v.expr(e)
	v.pop()
}

func (v *validator) stmtsAt(child string, stmts []ir.Statement) {
	v.push(child)
	v.stmts(stmts)
	v.pop()
}

func (v *validator) exprsAt(child string, es []ir.Expression) {
	v.push(child)
	for i, e := range es {
		v.pushIndex(i)
		v.expr(e)
		v.pop()
	}
	v.pop()
}

// ---------------------------------------------------------------------------
// Items

func (v *validator) items(items []ir.Item) {
	for i, it := range items {
		v.pushIndex(i)
		v.item(it)
		v.pop()
	}
}

func (v *validator) item(it ir.Item) {
	switch n := it.(type) {
	case nil:
		v.add(ErrNilNode, "nil item")
	case *ir.Function:
		v.function(n)
	case *ir.Struct:
		v.name("name", n.Name)
		v.generics(n.Generics)
		if n.Kind == ir.StructUnit && len(n.Fields) > 0 {
			v.addAt("fields", ErrKindMismatch, "unit struct %q has fields", n.Name)
		}
		v.fields(n.Fields, n.Kind != ir.StructTuple)
	case *ir.Enum:
		v.name("name", n.Name)
		v.generics(n.Generics)
		v.push("variants")
		for i, variant := range n.Variants {
			v.pushIndex(i)
			v.name("name", variant.Name)
			v.push("data")
			v.variantData(variant.Data)
			v.pop()
			if variant.Discriminant != nil {
				v.exprAt("discriminant", variant.Discriminant)
			}
			v.pop()
		}
		v.pop()
	case *ir.Impl:
		v.typeAt("target", n.Target)
		if n.Trait != nil {
			v.typeAt("trait", n.Trait)
		}
		v.generics(n.Generics)
		v.push("items")
		for i, m := range n.Items {
			v.pushIndex(i)
			switch m := m.(type) {
			case nil:
				v.add(ErrNilNode, "nil impl item")
			case *ir.Function:
				v.function(m)
			case *ir.Const:
				v.item(m)
			case *ir.TypeAlias:
				v.item(m)
			}
			v.pop()
		}
		v.pop()
	case *ir.Use:
		if n.Path == "" {
			v.addAt("path", ErrEmptyPath, "path is required")
		}
	case *ir.Module:
		v.name("name", n.Name)
		if n.External && len(n.Items) > 0 {
			v.addAt("items", ErrKindMismatch, "external module %q has items", n.Name)
		}
		v.push("items")
		v.items(n.Items)
		v.pop()
	case *ir.Const:
		v.name("name", n.Name)
		v.typeAt("type", n.Type)
		if n.Value != nil {
			v.exprAt("value", n.Value)
		}
	case *ir.Static:
		v.name("name", n.Name)
		v.typeAt("type", n.Type)
		v.exprAt("value", n.Value)
	case *ir.TypeAlias:
		v.name("name", n.Name)
		v.generics(n.Generics)
		v.typeAt("type", n.Type)
	default:
		v.add(ErrUnsupportedIRType, "unknown item %T", it)
	}
}

func (v *validator) function(fn *ir.Function) {
	v.name("name", fn.Name)
	v.generics(fn.Generics)
	v.push("parameters")
	for i, p := range fn.Parameters {
		v.pushIndex(i)
		v.name("name", p.Name)
		v.typeAt("type", p.Type)
		v.pop()
	}
	v.pop()
	if fn.ReturnType != nil {
		v.typeAt("return_type", fn.ReturnType)
	}
	v.stmtsAt("body", fn.Body)
}

func (v *validator) generics(gs []ir.Generic) {
	v.push("generics")
	for i, g := range gs {
		v.pushIndex(i)
		v.name("name", g.Name)
		v.push("bounds")
		for j, b := range g.Bounds {
			v.pushIndex(j)
			v.typ(b)
			v.pop()
		}
		v.pop()
		if g.Const != nil {
			v.typeAt("const", g.Const)
		}
		v.pop()
	}
	v.pop()
}

// fields checks field names and types. Tuple fields are named by position.
func (v *validator) fields(fs []ir.Field, named bool) {
	v.push("fields")
	for i, f := range fs {
		v.pushIndex(i)
		if named {
			v.name("name", f.Name)
		} else if f.Name != strconv.Itoa(i) {
			v.addAt("name", ErrKindMismatch, "tuple field %d is named %q", i, f.Name)
		}
		v.typeAt("type", f.Type)
		v.pop()
	}
	v.pop()
}

func (v *validator) variantData(d ir.VariantData) {
	switch d.Kind {
	case ir.VariantUnit:
		if len(d.Types) > 0 || len(d.Fields) > 0 {
			v.add(ErrKindMismatch, "unit variant has a payload")
		}
	case ir.VariantTuple:
		if len(d.Fields) > 0 {
			v.add(ErrKindMismatch, "tuple variant has named fields")
		}
		v.push("types")
		for i, t := range d.Types {
			v.pushIndex(i)
			v.typ(t)
			v.pop()
		}
		v.pop()
	case ir.VariantStruct:
		if len(d.Types) > 0 {
			v.add(ErrKindMismatch, "struct variant has positional types")
		}
		v.fields(d.Fields, true)
	default:
		v.add(ErrKindMismatch, "unknown variant kind %d", d.Kind)
	}
}

// ---------------------------------------------------------------------------
// Types

func (v *validator) types(child string, ts []ir.Type) {
	v.push(child)
	for i, t := range ts {
		v.pushIndex(i)
		v.typ(t)
		v.pop()
	}
	v.pop()
}

func (v *validator) typ(t ir.Type) {
	switch n := t.(type) {
	case nil:
		v.add(ErrNilNode, "nil type")
	case *ir.PathType:
		v.pathName("name", n.Name)
		v.types("args", n.Args)
	case *ir.ReferenceType:
		v.typeAt("inner", n.Inner)
	case *ir.PointerType:
		v.typeAt("inner", n.Inner)
	case *ir.ArrayType:
		v.typeAt("inner", n.Inner)
	case *ir.SliceType:
		v.typeAt("inner", n.Inner)
	case *ir.TupleType:
		if len(n.Elements) == 0 {
			v.add(ErrKindMismatch, "empty tuple type must be the unit type")
		}
		v.types("elements", n.Elements)
	case *ir.FunctionType:
		v.types("params", n.Params)
		if n.Return != nil {
			v.typeAt("return", n.Return)
		}
	case *ir.GenericType:
		v.name("name", n.Name)
	case *ir.UnitType:
	}
}

// ---------------------------------------------------------------------------
// Statements

func (v *validator) stmts(stmts []ir.Statement) {
	for i, s := range stmts {
		v.pushIndex(i)
		v.stmt(s)
		v.pop()
	}
}

func (v *validator) stmt(s ir.Statement) {
	switch n := s.(type) {
	case nil:
		v.add(ErrNilNode, "nil statement")
	case *ir.ExprStmt:
		v.exprAt("expr", n.Expr)
	case *ir.Let:
		v.name("name", n.Name)
		if n.Type != nil {
			v.typeAt("type", n.Type)
		}
		if n.Value != nil {
			v.exprAt("value", n.Value)
		}
	case *ir.Return:
		if n.Value != nil {
			v.exprAt("value", n.Value)
		}
	case *ir.If:
		v.exprAt("condition", n.Condition)
		v.stmtsAt("then", n.Then)
		v.stmtsAt("else", n.Else)
	case *ir.While:
		v.exprAt("condition", n.Condition)
		v.stmtsAt("body", n.Body)
	case *ir.For:
		v.name("variable", n.Variable)
		v.exprAt("iterator", n.Iterator)
		v.stmtsAt("body", n.Body)
	case *ir.Match:
		v.exprAt("subject", n.Subject)
		v.push("arms")
		for i, arm := range n.Arms {
			v.pushIndex(i)
			v.push("pattern")
			v.pattern(arm.Pattern)
			v.pop()
			if arm.Guard != nil {
				v.exprAt("guard", arm.Guard)
			}
			v.stmtsAt("body", arm.Body)
			v.pop()
		}
		v.pop()
	case *ir.Block:
		v.stmtsAt("statements", n.Statements)
	case *ir.Break, *ir.Continue:
	case *ir.Unsupported:
		v.unsupported(n)
	}
}

func (v *validator) unsupported(u *ir.Unsupported) {
	if u.Construct == "" {
		v.addAt("construct", ErrEmptyConstruct, "unsupported node does not name its construct")
	}
}

// ---------------------------------------------------------------------------
// Expressions

func (v *validator) expr(e ir.Expression) {
	switch n := e.(type) {
	case nil:
		v.add(ErrNilNode, "nil expression")
	case *ir.LiteralExpr:
	case *ir.Identifier:
		v.name("name", n.Name)
	case *ir.PathExpr:
		if len(n.Segments) == 0 {
			v.addAt("segments", ErrEmptyPath, "path has no segments")
		}
	case *ir.Call:
		v.exprAt("func", n.Func)
		v.exprsAt("args", n.Args)
	case *ir.MethodCall:
		v.exprAt("receiver", n.Receiver)
		v.name("method", n.Method)
		v.exprsAt("args", n.Args)
	case *ir.FieldAccess:
		v.exprAt("object", n.Object)
		if n.Field == "" {
			v.addAt("field", ErrEmptyName, "name is required")
		}
	case *ir.Index:
		v.exprAt("object", n.Object)
		v.exprAt("index", n.Index)
	case *ir.Binary:
		if n.Op.String() == "?" {
			v.addAt("op", ErrInvalidOperator, "unknown binary operator %d", n.Op)
		}
		v.exprAt("left", n.Left)
		v.exprAt("right", n.Right)
	case *ir.Unary:
		if n.Op.String() == "?" {
			v.addAt("op", ErrInvalidOperator, "unknown unary operator %d", n.Op)
		}
		v.exprAt("operand", n.Operand)
	case *ir.Cast:
		v.exprAt("expr", n.Expr)
		v.typeAt("type", n.Type)
	case *ir.Reference:
		v.exprAt("expr", n.Expr)
	case *ir.Dereference:
		v.exprAt("expr", n.Expr)
	case *ir.BlockExpr:
		v.stmtsAt("statements", n.Statements)
	case *ir.ArrayExpr:
		v.exprsAt("elements", n.Elements)
	case *ir.TupleExpr:
		v.exprsAt("elements", n.Elements)
	case *ir.StructLiteral:
		v.pathName("name", n.Name)
		v.push("fields")
		for i, f := range n.Fields {
			v.pushIndex(i)
			if f.Name == "" {
				v.addAt("name", ErrEmptyName, "name is required")
			}
			v.exprAt("value", f.Value)
			v.pop()
		}
		v.pop()
	case *ir.RangeExpr:
		if n.Start != nil {
			v.exprAt("start", n.Start)
		}
		if n.End != nil {
			v.exprAt("end", n.End)
		}
	case *ir.MacroCall:
		v.name("name", n.Name)
		v.exprsAt("args", n.Args)
	case *ir.Conditional:
		v.exprAt("condition", n.Condition)
		v.exprAt("then", n.Then)
		v.exprAt("else", n.Else)
	case *ir.Unsupported:
		v.unsupported(n)
	}
}

// ---------------------------------------------------------------------------
// Patterns

func (v *validator) pattern(p ir.Pattern) {
	switch n := p.(type) {
	case nil:
		v.add(ErrNilNode, "nil pattern")
	case *ir.WildcardPattern, *ir.LiteralPattern:
	case *ir.IdentPattern:
		v.name("name", n.Name)
	case *ir.TuplePattern:
		v.patterns("elements", n.Elements)
	case *ir.StructPattern:
		v.pathName("name", n.Name)
		v.push("fields")
		for i, f := range n.Fields {
			v.pushIndex(i)
			if f.Name == "" {
				v.addAt("name", ErrEmptyName, "name is required")
			}
			v.push("pattern")
			v.pattern(f.Pattern)
			v.pop()
			v.pop()
		}
		v.pop()
	case *ir.EnumPattern:
		v.name("variant", n.Variant)
		v.patterns("fields", n.Fields)
	case *ir.Unsupported:
		v.unsupported(n)
	}
}

func (v *validator) patterns(child string, ps []ir.Pattern) {
	v.push(child)
	for i, p := range ps {
		v.pushIndex(i)
		v.pattern(p)
		v.pop()
	}
	v.pop()
}
