package harness

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rust2mojo/internal/compiler"
	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/store"
	"github.com/roach88/rust2mojo/internal/testutil"
)

const firstRunID = "00000000-0000-7000-8000-000000000001"

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// mixedCases has one case of each outcome: plain pass, reference pass,
// expected compile error, and an unmet expectation.
func mixedCases() *CaseFile {
	return &CaseFile{
		Name: "mixed",
		Cases: []Case{
			{
				Name:   "hello",
				Source: "fn main() {\n    println!(\"Hello\");\n}\n",
				Expect: Expectation{Contains: []string{"fn main():", `print("Hello")`}},
			},
			{
				Name:      "with_reference",
				Source:    "fn add(a: i32, b: i32) -> i32 { a + b }",
				Reference: "fn add(a: Int32, b: Int32) -> Int32:\n    return a + b\n",
			},
			{
				Name:   "broken",
				Source: "fn broken(",
				Expect: Expectation{ErrorContains: "failed to parse"},
			},
			{
				Name:   "wrong",
				Source: "fn f() {}",
				Expect: Expectation{Contains: []string{"struct"}},
			},
		},
	}
}

func newTestRunner(stub *StubTranslator, opts ...RunnerOption) *Runner {
	engine := NewEngine(enabledConfig(), compiler.New(), WithTranslator(stub))
	base := []RunnerOption{
		WithIDGenerator(testutil.NewSequenceIDGenerator("")),
		WithClock(testutil.NewDeterministicClock()),
	}
	return NewRunner(engine, append(base, opts...)...)
}

// =============================================================================
// Runner
// =============================================================================

func TestRunner_Run(t *testing.T) {
	stub := &StubTranslator{}
	res, err := newTestRunner(stub).Run(context.Background(), mixedCases())
	require.NoError(t, err)

	assert.Equal(t, firstRunID, res.RunID)
	assert.Equal(t, "mixed", res.Suite)
	assert.True(t, res.StartedAt.Equal(testutil.Epoch))
	assert.True(t, res.FinishedAt.Equal(testutil.Epoch.Add(time.Second)))

	require.Len(t, res.Cases, 4)
	assert.Equal(t, 3, res.Passed)
	assert.False(t, res.Pass())

	hello := res.Cases[0]
	assert.True(t, hello.Pass, "failures: %v", hello.Failures)
	require.NotNil(t, hello.Comparison)
	assert.Equal(t, ExtractMojoCode(PlaceholderResponse), hello.Comparison.Reference)

	ref := res.Cases[1]
	assert.True(t, ref.Pass)
	require.NotNil(t, ref.Comparison)
	assert.Equal(t, "fn add(a: Int32, b: Int32) -> Int32:\n    return a + b", ref.Comparison.Reference)
	assert.Equal(t, 1.0, ref.Comparison.Metrics.Structural)

	broken := res.Cases[2]
	assert.True(t, broken.Pass)
	assert.Nil(t, broken.Comparison)
	assert.Contains(t, broken.Error, "failed to parse Rust code")
	assert.Empty(t, broken.Failures)

	wrong := res.Cases[3]
	assert.False(t, wrong.Pass)
	assert.Equal(t, []string{`output does not contain "struct"`}, wrong.Failures)

	// Only cases without a reference that compiled reach the translator.
	assert.Len(t, stub.Prompts, 2)

	assert.Len(t, res.Comparisons(), 3)
	assert.Contains(t, res.Report(), "- Total Test Cases: 3\n")
}

func TestRunner_SmokeSuite(t *testing.T) {
	cf, err := LoadCases("testdata/cases/smoke.yaml")
	require.NoError(t, err)

	res, err := newTestRunner(&StubTranslator{}).Run(context.Background(), cf)
	require.NoError(t, err)
	for _, c := range res.Cases {
		assert.True(t, c.Pass, "case %s: %v %s", c.Name, c.Failures, c.Error)
	}
	assert.True(t, res.Pass())
}

func TestRunner_PersistsRun(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	res, err := newTestRunner(&StubTranslator{}, WithStore(st)).Run(ctx, mixedCases())
	require.NoError(t, err)

	run, err := st.ReadRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "mixed", run.Suite)
	assert.Equal(t, "mixed", run.CaseFile, "inline case files are recorded by name")
	assert.Equal(t, "claude-3-sonnet", run.Model)
	assert.Equal(t, ir.IRVersion, run.IRVersion)
	assert.Equal(t, 4, run.Total)
	assert.Equal(t, 3, run.Passed)
	assert.True(t, run.FinishedAt.Equal(res.FinishedAt))

	records, err := st.ReadComparisons(ctx, res.RunID)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i, rec := range records {
		assert.Equal(t, int64(i+1), rec.Seq)
		assert.Equal(t, res.Cases[i].Name, rec.CaseName)
	}
	assert.Nil(t, records[2].Scores, "failed translation stores no scores")
	assert.NotEmpty(t, records[2].Error)
}

func TestLoadRun_RoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	res, err := newTestRunner(&StubTranslator{}, WithStore(st)).Run(ctx, mixedCases())
	require.NoError(t, err)

	loaded, err := LoadRun(ctx, st, res.RunID)
	require.NoError(t, err)

	assert.Equal(t, res.RunID, loaded.RunID)
	assert.Equal(t, res.Suite, loaded.Suite)
	assert.Equal(t, res.Passed, loaded.Passed)
	assert.True(t, loaded.StartedAt.Equal(res.StartedAt))
	assert.True(t, loaded.FinishedAt.Equal(res.FinishedAt))
	assert.Equal(t, res.Cases, loaded.Cases)
	assert.Equal(t, res.Report(), loaded.Report())
}

func TestLoadRun_Unknown(t *testing.T) {
	st := openStore(t)

	_, err := LoadRun(context.Background(), st, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read run missing")
}

func TestRunner_TranslatorErrorAborts(t *testing.T) {
	boom := errors.New("upstream unavailable")
	_, err := newTestRunner(&StubTranslator{Err: boom}).Run(context.Background(), mixedCases())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "case hello")
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRunner(&StubTranslator{}).Run(ctx, mixedCases())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_DefaultIDsAreUUIDv7(t *testing.T) {
	engine := NewEngine(enabledConfig(), fakeCompiler{out: "fn f():\n    pass\n"})
	res, err := NewRunner(engine).Run(context.Background(), &CaseFile{
		Name:  "one",
		Cases: []Case{{Name: "f", Source: "fn f() {}"}},
	})
	require.NoError(t, err)
	require.Len(t, res.RunID, 36)
	assert.Equal(t, byte('7'), res.RunID[14], "version nibble")
}

// =============================================================================
// Expectations
// =============================================================================

func TestCheckExpectations(t *testing.T) {
	ok := CaseResult{Comparison: &Result{Output: "fn main():\n    pass\n"}}
	failed := CaseResult{Error: "failed to parse Rust code: 1:11: expected type"}

	tests := []struct {
		name   string
		expect Expectation
		cr     CaseResult
		want   []string
	}{
		{"no expectations", Expectation{}, ok, []string{}},
		{"contains met", Expectation{Contains: []string{"pass"}}, ok, []string{}},
		{"contains unmet", Expectation{Contains: []string{"return"}}, ok, []string{`output does not contain "return"`}},
		{"not_contains unmet", Expectation{NotContains: []string{"pass"}}, ok, []string{`output contains "pass"`}},
		{"error expected, got output", Expectation{Error: true}, ok, []string{"expected a compile error, translation succeeded"}},
		{"error expected and got", Expectation{Error: true}, failed, []string{}},
		{"error text mismatch", Expectation{ErrorContains: "lex"}, failed, []string{
			`error "failed to parse Rust code: 1:11: expected type" does not contain "lex"`,
		}},
		{"unexpected error", Expectation{Contains: []string{"x"}}, failed, []string{
			"unexpected error: failed to parse Rust code: 1:11: expected type",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkExpectations(tt.expect, tt.cr))
		})
	}
}
