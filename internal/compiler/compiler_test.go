package compiler

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rust2mojo/internal/emit"
	"github.com/roach88/rust2mojo/internal/ir"
)

// =============================================================================
// Facade contract
// =============================================================================

func TestCompileString_EmptyInput(t *testing.T) {
	out, err := CompileString("")
	require.NoError(t, err)

	assert.Contains(t, out, emit.Header)
	assert.Contains(t, out, "from collections import List\n")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestCompileString_EntryPoint(t *testing.T) {
	out, err := CompileString(`fn main() { println!("Hello, world!"); }`)
	require.NoError(t, err)
	assert.Contains(t, out, "fn main():")
	assert.Contains(t, out, `print("Hello, world!")`)
}

func TestCompileString_EmptyBody(t *testing.T) {
	out, err := CompileString("fn empty() {}")
	require.NoError(t, err)
	assert.Contains(t, out, "fn empty():\n    pass\n")
}

func TestCompileString_Struct(t *testing.T) {
	out, err := CompileString("struct Point { x: i32, y: i32 }")
	require.NoError(t, err)
	assert.Contains(t, out, "struct Point:")
	assert.Contains(t, out, "var x: Int32")
	assert.Contains(t, out, "var y: Int32")
}

func TestCompileString_TypeTable(t *testing.T) {
	tests := []struct {
		rust string
		mojo string
	}{
		{"i32", "Int32"},
		{"i64", "Int64"},
		{"f32", "Float32"},
		{"f64", "Float64"},
		{"bool", "Bool"},
	}
	for _, tt := range tests {
		t.Run(tt.rust, func(t *testing.T) {
			out, err := CompileString("fn test(x: " + tt.rust + ") {}")
			require.NoError(t, err)
			assert.Contains(t, out, "fn test(x: "+tt.mojo+"):")
		})
	}
}

func TestCompileString_AddFunction(t *testing.T) {
	out, err := CompileString("fn add(a: i32, b: i32) -> i32 { a + b }")
	require.NoError(t, err)
	assert.Contains(t, out, "fn add(a: Int32, b: Int32) -> Int32:\n    return a + b\n")
}

func TestCompileString_RawIdentifiers(t *testing.T) {
	out, err := New(WithPolicy(PolicyStrict)).CompileString("fn f(r#type: i32) -> i32 { let r#match = 1; r#type + r#match }")
	require.NoError(t, err)
	assert.Contains(t, out, "fn f(type: Int32) -> Int32:\n"+
		"    var match = 1\n"+
		"    return type + match\n")
}

func TestCompileString_MalformedInput(t *testing.T) {
	cases := []string{
		"fn incomplete_function(",
		"struct MissingBrace {",
		"enum UnterminatedEnum { Variant",
		"let x = ;",
		"fn double_return() -> -> i32 {}",
		"impl for {}",
		"trait {}",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := CompileString(src)
			require.Error(t, err)
			assert.True(t, IsParseError(err), "want parse error, got %v", err)
			assert.Contains(t, err.Error(), "parse")

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, StageLower, ce.Stage)
			assert.NotEmpty(t, ce.Detail)
		})
	}
}

func TestCompileString_Deterministic(t *testing.T) {
	src := `
struct Counter { n: u32 }
impl Counter {
    fn bump(&mut self) { self.n += 1; }
}
fn main() {
    let mut c = Counter { n: 0 };
    for _ in 0..3 { c.bump(); }
    println!("{}", c.n);
}
`
	first, err := CompileString(src)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := CompileString(src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompiler_ConcurrentUse(t *testing.T) {
	c := New()
	src := "fn square(x: i64) -> i64 { x * x }"
	want, err := c.CompileString(src)
	require.NoError(t, err)

	var wg sync.WaitGroup
	outs := make([]string, 16)
	errs := make([]error, 16)
	for i := range outs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = c.CompileString(src)
		}(i)
	}
	wg.Wait()

	for i := range outs {
		require.NoError(t, errs[i])
		assert.Equal(t, want, outs[i])
	}
}

// =============================================================================
// Options
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	opts := New().Options()
	assert.Equal(t, ir.DefaultRustEdition, opts.RustEdition)
	assert.Equal(t, ir.DefaultMojoVersion, opts.TargetMojoVersion)
	assert.Equal(t, PolicyBestEffort, opts.Policy)
	assert.Empty(t, opts.SourceFile)
}

func TestNew_EmptyOptionValuesKeepDefaults(t *testing.T) {
	opts := New(WithEdition(""), WithTarget(""), WithPolicy(""), WithLogger(nil)).Options()
	assert.Equal(t, ir.DefaultRustEdition, opts.RustEdition)
	assert.Equal(t, ir.DefaultMojoVersion, opts.TargetMojoVersion)
	assert.Equal(t, PolicyBestEffort, opts.Policy)
}

func TestCompiler_HeaderUsesEditionAndTarget(t *testing.T) {
	c := New(WithEdition("2018"), WithTarget("25.1"))
	out, err := c.CompileString("")
	require.NoError(t, err)
	assert.Contains(t, out, "# Translated from Rust 2018 for Mojo 25.1\n")
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyBestEffort, p)

	_, err = ParsePolicy("lenient")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lenient")
}

func TestWithLogger_LogsStageFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(WithLogger(logger)).CompileString("fn broken(")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "lowering failed")
}

func TestTranslate_AnalysisPanicIsTaggedWithItsStage(t *testing.T) {
	saved := analyzeRecursion
	analyzeRecursion = func(*ir.CompilationUnit) []RecursionWarning { panic("boom") }
	defer func() { analyzeRecursion = saved }()

	_, err := New().Translate("fn main() {}")
	require.Error(t, err)
	assert.True(t, IsInternal(err))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StageAnalyze, ce.Stage)
	assert.Contains(t, ce.Detail, "panic during analyze: boom")
}

func TestOutputMarkers(t *testing.T) {
	tr, err := New().Translate(closureSource)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tr.Output, OutputHeader+"\n"))
	assert.Contains(t, tr.Output, UnsupportedCall+`("closure")`)
}

// =============================================================================
// Unsupported-construct policy
// =============================================================================

const closureSource = "fn f() { let g = |x| x; }"

func TestPolicy_BestEffortMarksConstruct(t *testing.T) {
	tr, err := New().Translate(closureSource)
	require.NoError(t, err)

	assert.Contains(t, tr.Output, `var g = rust2mojo_unsupported("closure")`)
	require.Len(t, tr.Unsupported, 1)
	assert.Equal(t, "closure", tr.Unsupported[0].Construct)
	assert.Equal(t, "|x| x", tr.Unsupported[0].Source)
}

func TestPolicy_StrictRejectsConstruct(t *testing.T) {
	_, err := New(WithPolicy(PolicyStrict)).CompileString(closureSource)
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Equal(t, "unsupported Rust feature: closure: |x| x", err.Error())

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StagePolicy, ce.Stage)
}

const shapeSource = `
enum Shape { Circle { r: i32 }, Square { s: i32 } }
fn area(sh: Shape) -> i32 {
    match sh { Shape::Circle { r } => r * r * 3, Shape::Square { s } => s * s }
}
fn kind(sh: Shape) -> i32 {
    match sh { Shape::Circle { .. } => 1, _ => 2 }
}`

func TestPolicy_StructVariantPatterns(t *testing.T) {
	tr, err := New().Translate(shapeSource)
	require.NoError(t, err)

	// Payload bindings cannot be expressed, but every arm keeps its own test.
	assert.Contains(t, tr.Output, "    if rust2mojo_unsupported(\"struct variant pattern\"):\n")
	assert.Contains(t, tr.Output, "    elif rust2mojo_unsupported(\"struct variant pattern\"):\n")
	assert.Contains(t, tr.Output, "    if sh == Shape.Circle:\n        return 1\n    else:\n        return 2\n")
	require.Len(t, tr.Unsupported, 2)

	_, err = New(WithPolicy(PolicyStrict)).CompileString(shapeSource)
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "struct variant pattern: Shape::Circle { r }")
}

func TestPolicy_StrictAcceptsSupportedInput(t *testing.T) {
	_, err := New(WithPolicy(PolicyStrict)).CompileString("fn id(x: i32) -> i32 { x }")
	require.NoError(t, err)
}

// =============================================================================
// Translate
// =============================================================================

func TestTranslate_Diagnostics(t *testing.T) {
	src := `
trait Shape { fn area(&self) -> f64; }
struct Square { side: f64 }
fn main() {}
`
	tr, err := New().Translate(src)
	require.NoError(t, err)

	assert.Equal(t, 2, tr.Items)
	require.Len(t, tr.Skipped, 1)
	assert.Equal(t, "trait", tr.Skipped[0].Kind)
	assert.Equal(t, "Shape", tr.Skipped[0].Name)
	assert.Equal(t, 2, tr.Skipped[0].Line)
	assert.Empty(t, tr.Unsupported)
	assert.Empty(t, tr.Recursion)
	assert.NotContains(t, tr.Output, "Shape")
}

func TestTranslate_RecursionReported(t *testing.T) {
	tr, err := New().Translate("fn fact(n: u64) -> u64 { if n == 0 { 1 } else { n * fact(n - 1) } }")
	require.NoError(t, err)

	require.Len(t, tr.Recursion, 1)
	assert.Equal(t, []string{"fact", "fact"}, tr.Recursion[0].Path)
}

func TestTranslate_Key(t *testing.T) {
	c := New()
	tr, err := c.Translate("fn a() {}")
	require.NoError(t, err)

	assert.Len(t, tr.Key, 64)
	assert.Equal(t, c.CacheKey("fn a() {}"), tr.Key)
	assert.NotEqual(t, tr.Key, c.CacheKey("fn b() {}"))
	assert.NotEqual(t, tr.Key, New(WithPolicy(PolicyStrict)).CacheKey("fn a() {}"))
	assert.NotEqual(t, tr.Key, New(WithTarget("25.1")).CacheKey("fn a() {}"))
}

// =============================================================================
// Files
// =============================================================================

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn hello() -> bool { true }\n"), 0o644))

	out, err := CompileFile(path)
	require.NoError(t, err)
	assert.Contains(t, out, "fn hello() -> Bool:\n    return True\n")

	fromString, err := CompileString("fn hello() -> bool { true }\n")
	require.NoError(t, err)
	assert.Equal(t, fromString, out, "source file name does not affect output")
}

func TestTranslateFile_KeyIgnoresPath(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.rs")
	b := filepath.Join(dir, "b.rs")
	require.NoError(t, os.WriteFile(a, []byte("fn f() {}"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("fn f() {}"), 0o644))

	c := New()
	ta, err := c.TranslateFile(a)
	require.NoError(t, err)
	tb, err := c.TranslateFile(b)
	require.NoError(t, err)
	assert.Equal(t, ta.Key, tb.Key)
	assert.Empty(t, c.Options().SourceFile, "TranslateFile does not mutate the compiler")
}

func TestCompileFile_Missing(t *testing.T) {
	_, err := CompileFile(filepath.Join(t.TempDir(), "missing.rs"))
	require.Error(t, err)
	assert.True(t, IsIOError(err))
	assert.True(t, strings.HasPrefix(err.Error(), "I/O error: "))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompileFile_ParseErrorKeepsKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn bad("), 0o644))

	_, err := CompileFile(path)
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}
