package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	size := int64(4)
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"nil", nil, "()"},
		{"unit", &UnitType{}, "()"},
		{"path", &PathType{Name: "i32"}, "i32"},
		{"generic args", &PathType{Name: "HashMap", Args: []Type{&PathType{Name: "String"}, &GenericType{Name: "V"}}}, "HashMap<String, V>"},
		{"shared ref", &ReferenceType{Inner: &PathType{Name: "str"}}, "&str"},
		{"mut ref", &ReferenceType{Mutable: true, Inner: &PathType{Name: "T"}}, "&mut T"},
		{"const ptr", &PointerType{Inner: &PathType{Name: "u8"}}, "*const u8"},
		{"mut ptr", &PointerType{Mutable: true, Inner: &PathType{Name: "u8"}}, "*mut u8"},
		{"array", &ArrayType{Inner: &PathType{Name: "f64"}, Size: &size}, "[f64; 4]"},
		{"array unknown size", &ArrayType{Inner: &PathType{Name: "f64"}}, "[f64; _]"},
		{"slice", &SliceType{Inner: &PathType{Name: "i32"}}, "[i32]"},
		{"one tuple", &TupleType{Elements: []Type{&PathType{Name: "i32"}}}, "(i32,)"},
		{"pair", &TupleType{Elements: []Type{&PathType{Name: "i32"}, &PathType{Name: "bool"}}}, "(i32, bool)"},
		{"fn", &FunctionType{Params: []Type{&PathType{Name: "i32"}}, Return: &PathType{Name: "bool"}}, "fn(i32) -> bool"},
		{"fn unit", &FunctionType{Return: &UnitType{}}, "fn()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeString(tt.typ))
		})
	}
}

func TestIsUnit(t *testing.T) {
	assert.True(t, IsUnit(nil))
	assert.True(t, IsUnit(&UnitType{}))
	assert.False(t, IsUnit(&PathType{Name: "i32"}))
	assert.False(t, IsUnit(&TupleType{Elements: []Type{&UnitType{}}}))
}

func TestBinaryOpSymbols(t *testing.T) {
	for op := OpAdd; op <= OpShrAssign; op++ {
		sym := op.String()
		assert.NotEqual(t, "?", sym, "operator %d has no symbol", op)
		back, ok := BinaryOpFromSymbol(sym)
		assert.True(t, ok)
		assert.Equal(t, op, back)
	}

	_, ok := BinaryOpFromSymbol("**")
	assert.False(t, ok)
	assert.Equal(t, "?", BinaryOp(-1).String())
}

func TestBinaryOpIsAssign(t *testing.T) {
	assert.True(t, OpAssign.IsAssign())
	assert.True(t, OpShlAssign.IsAssign())
	assert.False(t, OpEq.IsAssign())
	assert.False(t, OpShr.IsAssign())
}

func TestItemNames(t *testing.T) {
	impl := &Impl{Target: &PathType{Name: "Point"}}
	assert.Equal(t, "Point", impl.ItemName())
	assert.Equal(t, Private, impl.ItemVisibility())

	fn := &Function{Name: "run", Visibility: Public, Attributes: []Attribute{{Path: "inline"}}}
	assert.Equal(t, "run", fn.ItemName())
	assert.True(t, fn.ItemVisibility().IsPublic())
	assert.True(t, fn.HasAttribute("inline"))
	assert.False(t, fn.HasAttribute("test"))
}
