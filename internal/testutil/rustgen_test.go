package testutil

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustGen_Deterministic(t *testing.T) {
	a := NewRustGen(42)
	b := NewRustGen(42)

	for i := 0; i < 50; i++ {
		require.Equal(t, a.Program(), b.Program())
	}
}

func TestRustGen_SeedsDiffer(t *testing.T) {
	a := NewRustGen(1).Program() + NewRustGen(1).Program()
	b := NewRustGen(2).Program() + NewRustGen(2).Program()
	assert.NotEqual(t, a, b)
}

func TestRustGen_Identifier(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	g := NewRustGen(7)

	for i := 0; i < 500; i++ {
		id := g.Identifier()
		require.Regexp(t, pattern, id)
		require.False(t, rustKeywords[id], "keyword %q generated", id)
	}
}

func TestRustGen_FunctionDefinitionShape(t *testing.T) {
	g := NewRustGen(3)
	for i := 0; i < 100; i++ {
		fn := g.FunctionDefinition()
		assert.True(t, strings.HasPrefix(fn, "fn "), fn)
		assert.True(t, strings.HasSuffix(fn, "}"), fn)
	}
}

func TestRustGen_LiteralsAvoidMarkers(t *testing.T) {
	g := NewRustGen(11)
	for i := 0; i < 500; i++ {
		lit := g.Literal()
		assert.NotContains(t, lit, "TODO")
		assert.NotContains(t, lit, "FIXME")
	}
}

func TestManyParams(t *testing.T) {
	src := ManyParams(3)
	assert.Equal(t, "fn test_many_params(p0: i32, p1: i32, p2: i32) {}", src)
}

func TestNestedParens(t *testing.T) {
	assert.Equal(t, "fn test() -> i32 { ((1)) }", NestedParens(2))
}
