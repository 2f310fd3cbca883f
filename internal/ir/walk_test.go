package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUnit() *CompilationUnit {
	return &CompilationUnit{
		Metadata: NewMetadata(),
		Items: []Item{
			&Function{
				Name: "main",
				Body: []Statement{
					&Let{Name: "f", Value: &Unsupported{Construct: "closure", Source: "|x| x + 1"}},
					&ExprStmt{Expr: &MacroCall{Name: "println", Args: []Expression{
						&LiteralExpr{Value: StringLit("{}")},
						&Call{Func: &Identifier{Name: "f"}, Args: []Expression{&LiteralExpr{Value: IntLit(1)}}},
					}}},
					&Match{
						Subject: &Identifier{Name: "x"},
						Arms: []MatchArm{
							{Pattern: &Unsupported{Construct: "or pattern"}, Body: []Statement{&Break{}}},
							{Pattern: &WildcardPattern{}, Body: []Statement{&Unsupported{Construct: "nested item"}}},
						},
					},
				},
			},
			&Module{Name: "inner", Items: []Item{
				&Const{Name: "C", Type: &PathType{Name: "i32"}, Value: &MacroCall{Name: "panic"}},
			}},
		},
	}
}

func TestCollectUnsupportedInSourceOrder(t *testing.T) {
	found := CollectUnsupported(sampleUnit())
	require.Len(t, found, 3)
	assert.Equal(t, "closure", found[0].Construct)
	assert.Equal(t, "or pattern", found[1].Construct)
	assert.Equal(t, "nested item", found[2].Construct)
}

func TestCollectUnsupportedEmpty(t *testing.T) {
	unit := &CompilationUnit{Items: []Item{&Function{Name: "f"}}}
	assert.Empty(t, CollectUnsupported(unit))
}

func TestUsesMacro(t *testing.T) {
	unit := sampleUnit()
	assert.True(t, UsesMacro(unit, "println"))
	assert.True(t, UsesMacro(unit, "unreachable", "panic"), "macro inside nested module")
	assert.False(t, UsesMacro(unit, "vec"))
}

func TestWalkSkipsChildrenWhenVisitReturnsFalse(t *testing.T) {
	var visited int
	Walk(sampleUnit(), func(n any) bool {
		visited++
		_, isFn := n.(*Function)
		return !isFn
	})
	// unit, function, module, const, macro
	assert.Equal(t, 5, visited)
}

func TestWalkToleratesNilChildren(t *testing.T) {
	unit := &CompilationUnit{Items: []Item{
		nil,
		&Function{Name: "f", Body: []Statement{nil, &If{Condition: nil}, &Return{}}},
	}}
	assert.NotPanics(t, func() {
		Walk(unit, func(any) bool { return true })
	})
}
