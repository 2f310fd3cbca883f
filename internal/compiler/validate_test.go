package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/lower"
)

func i32() ir.Type { return &ir.PathType{Name: "i32"} }

func unitOf(items ...ir.Item) *ir.CompilationUnit {
	return &ir.CompilationUnit{Items: items, Metadata: ir.NewMetadata()}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

// =============================================================================
// Valid IR
// =============================================================================

func TestValidate_EmptyUnit(t *testing.T) {
	assert.Empty(t, Validate(unitOf()))
}

func TestValidate_ValueUnit(t *testing.T) {
	assert.Empty(t, Validate(ir.CompilationUnit{}))
}

func TestValidate_LoweredSourceIsValid(t *testing.T) {
	src := `
use std::collections::HashMap;

#[derive(Debug)]
pub struct Pair<T>(T, T);

enum Shape { Circle(f64), Rect { w: f64, h: f64 }, Empty }
enum Level { Low = 1, High = 2 }

impl<T: Clone> Pair<T> {
    const SIZE: usize = 2;
    fn first(&self) -> T { self.0.clone() }
}

mod util {
    pub fn clamp(x: i32, lo: i32, hi: i32) -> i32 {
        if x < lo { lo } else if x > hi { hi } else { x }
    }
}

static mut COUNTER: u32 = 0;
type Grid = [[u8; 3]; 3];

fn area(s: &Shape) -> f64 {
    match s {
        Shape::Circle(r) => 3.14 * r * r,
        Shape::Rect { w, h } => w * h,
        _ => 0.0,
    }
}

fn main() {
    let mut total = 0;
    for i in 0..=10 { total += i; }
    while total > 0 { total -= 3; if total == 4 { break; } }
    let v = vec![1, 2, 3];
    let f = |x: i32| x + 1;
    println!("{} {:?}", total, v);
}
`
	unit, err := lower.Lower(src, ir.NewMetadata(), nil)
	require.NoError(t, err)
	assert.Empty(t, Validate(unit))
}

// =============================================================================
// Violations
// =============================================================================

func TestValidate_UnsupportedType(t *testing.T) {
	errs := Validate("not a unit")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
	assert.Contains(t, errs[0].Message, "string")
}

func TestValidate_NilUnit(t *testing.T) {
	var unit *ir.CompilationUnit
	errs := Validate(unit)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNilNode, errs[0].Code)
}

func TestValidate_NilChildren(t *testing.T) {
	fn := &ir.Function{
		Name:       "f",
		Parameters: []ir.Parameter{{Name: "a"}},
		Body: []ir.Statement{
			nil,
			&ir.ExprStmt{Expr: &ir.Binary{Op: ir.OpAdd, Left: &ir.Identifier{Name: "a"}}},
		},
	}
	errs := Validate(unitOf(nil, fn))

	assert.Equal(t, []ValidationError{
		{Field: "items[0]", Message: "nil item", Code: ErrNilNode},
		{Field: "items[1].parameters[0].type", Message: "nil type", Code: ErrNilNode},
		{Field: "items[1].body[0]", Message: "nil statement", Code: ErrNilNode},
		{Field: "items[1].body[1].expr.right", Message: "nil expression", Code: ErrNilNode},
	}, errs)
}

func TestValidate_Names(t *testing.T) {
	tests := []struct {
		name string
		item ir.Item
		code string
	}{
		{"empty function name", &ir.Function{}, ErrEmptyName},
		{"identifier with space", &ir.Function{Name: "two words"}, ErrInvalidIdentifier},
		{"leading digit", &ir.Struct{Name: "1st"}, ErrInvalidIdentifier},
		{"empty enum variant", &ir.Enum{Name: "E", Variants: []ir.Variant{{}}}, ErrEmptyName},
		{"empty module name", &ir.Module{}, ErrEmptyName},
		{"empty generic", &ir.TypeAlias{Name: "A", Generics: []ir.Generic{{}}, Type: i32()}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(unitOf(tt.item))
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestValidate_UnicodeIdentifier(t *testing.T) {
	fn := &ir.Function{Name: "größe_λ"}
	assert.Empty(t, Validate(unitOf(fn)))
}

func TestValidate_Paths(t *testing.T) {
	errs := Validate(unitOf(
		&ir.Use{},
		&ir.Const{Name: "C", Type: &ir.PathType{Name: "std::::X"}},
		&ir.Function{Name: "f", Body: []ir.Statement{
			&ir.ExprStmt{Expr: &ir.PathExpr{}},
		}},
	))
	assert.Equal(t, []string{ErrEmptyPath, ErrEmptyPath, ErrEmptyPath}, codes(errs))
	assert.Equal(t, "items[1].type.name", errs[1].Field)
}

func TestValidate_KindMismatch(t *testing.T) {
	errs := Validate(unitOf(
		&ir.Struct{Name: "U", Kind: ir.StructUnit, Fields: []ir.Field{{Name: "x", Type: i32()}}},
		&ir.Struct{Name: "T", Kind: ir.StructTuple, Fields: []ir.Field{{Name: "x", Type: i32()}}},
		&ir.Enum{Name: "E", Variants: []ir.Variant{
			{Name: "A", Data: ir.VariantData{Kind: ir.VariantUnit, Types: []ir.Type{i32()}}},
			{Name: "B", Data: ir.VariantData{Kind: ir.VariantTuple, Fields: []ir.Field{{Name: "x", Type: i32()}}}},
		}},
		&ir.Module{Name: "m", External: true, Items: []ir.Item{&ir.Use{Path: "a"}}},
		&ir.TypeAlias{Name: "T0", Type: &ir.TupleType{}},
	))
	assert.Equal(t, []string{
		ErrKindMismatch, ErrKindMismatch, ErrKindMismatch, ErrKindMismatch, ErrKindMismatch, ErrKindMismatch,
	}, codes(errs))
}

func TestValidate_Operators(t *testing.T) {
	one := &ir.LiteralExpr{Value: ir.IntLit(1)}
	fn := &ir.Function{Name: "f", Body: []ir.Statement{
		&ir.ExprStmt{Expr: &ir.Binary{Op: ir.BinaryOp(99), Left: one, Right: one}},
		&ir.ExprStmt{Expr: &ir.Unary{Op: ir.UnaryOp(-1), Operand: one}},
	}}
	errs := Validate(unitOf(fn))
	assert.Equal(t, []string{ErrInvalidOperator, ErrInvalidOperator}, codes(errs))
	assert.Equal(t, "items[0].body[0].expr.op", errs[0].Field)
}

func TestValidate_UnsupportedNeedsConstruct(t *testing.T) {
	fn := &ir.Function{Name: "f", Body: []ir.Statement{
		&ir.Unsupported{Source: "x?"},
		&ir.Match{
			Subject: &ir.Identifier{Name: "x"},
			Arms: []ir.MatchArm{{Pattern: &ir.Unsupported{}, Body: []ir.Statement{}}},
		},
	}}
	errs := Validate(unitOf(fn))
	assert.Equal(t, []string{ErrEmptyConstruct, ErrEmptyConstruct}, codes(errs))
	assert.Equal(t, "items[0].body[1].arms[0].pattern.construct", errs[1].Field)
}

func TestValidate_ImplMembers(t *testing.T) {
	im := &ir.Impl{
		Target: &ir.PathType{Name: "S"},
		Items: []ir.ImplItem{
			&ir.Function{Name: "ok"},
			&ir.Function{Name: ""},
			nil,
		},
	}
	errs := Validate(unitOf(im))
	require.Len(t, errs, 2)
	assert.Equal(t, "items[0].items[1].name", errs[0].Field)
	assert.Equal(t, ErrNilNode, errs[1].Code)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Field: "items[0].name", Message: "name is required", Code: ErrEmptyName}
	assert.Equal(t, "[E102] items[0].name: name is required", e.Error())
}
