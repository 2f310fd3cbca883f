package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCases_Smoke(t *testing.T) {
	cf, err := LoadCases("testdata/cases/smoke.yaml")
	require.NoError(t, err)

	assert.Equal(t, "smoke", cf.Name)
	assert.Equal(t, "testdata/cases/smoke.yaml", cf.Path)
	require.Len(t, cf.Cases, 3)

	hello := cf.Cases[0]
	assert.Equal(t, "hello", hello.Name)
	assert.Equal(t, "fn main() {\n    println!(\"Hello\");\n}\n", hello.Source)
	assert.Equal(t, []string{"fn main():", `print("Hello")`}, hello.Expect.Contains)

	add := cf.Cases[1]
	assert.Equal(t, "../programs/add.rs", add.File)
	assert.Contains(t, add.Source, "fn add(a: i32, b: i32) -> i32 {", "file contents are inlined")
	assert.NotEmpty(t, add.Reference)
	assert.Equal(t, []string{"rust2mojo_unsupported("}, add.Expect.NotContains)

	broken := cf.Cases[2]
	assert.True(t, broken.Expect.ExpectsError())
	assert.Equal(t, "failed to parse", broken.Expect.ErrorContains)
}

func TestLoadCases_MissingFile(t *testing.T) {
	_, err := LoadCases(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read case file")
}

func TestLoadCases_MissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: s
cases:
  - name: gone
    file: gone.rs
`), 0o644))

	_, err := LoadCases(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cases[0] (gone): failed to read source file")
}

func TestLoadCases_AbsoluteSourceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(src, []byte("fn main() {}\n"), 0o644))

	path := filepath.Join(t.TempDir(), "cases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\ncases:\n  - name: m\n    file: "+src+"\n"), 0o644))

	cf, err := LoadCases(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", cf.Cases[0].Source)
}

func TestParseCases_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: s\ncases:\n  - name: a\n    source: x\n    expected: y\n",
			wantErr: "field expected not found",
		},
		{
			name:    "missing name",
			yaml:    "cases:\n  - name: a\n    source: x\n",
			wantErr: "name is required",
		},
		{
			name:    "no cases",
			yaml:    "name: s\n",
			wantErr: "cases list is required",
		},
		{
			name:    "unnamed case",
			yaml:    "name: s\ncases:\n  - source: x\n",
			wantErr: "cases[0]: name is required",
		},
		{
			name:    "duplicate case",
			yaml:    "name: s\ncases:\n  - name: a\n    source: x\n  - name: a\n    source: y\n",
			wantErr: `cases[1]: duplicate name "a" (first used by cases[0])`,
		},
		{
			name:    "no source",
			yaml:    "name: s\ncases:\n  - name: a\n",
			wantErr: "one of source or file is required",
		},
		{
			name:    "source and file",
			yaml:    "name: s\ncases:\n  - name: a\n    source: x\n    file: a.rs\n",
			wantErr: "mutually exclusive",
		},
		{
			name:    "reference with error",
			yaml:    "name: s\ncases:\n  - name: a\n    source: x\n    reference: y\n    expect:\n      error: true\n",
			wantErr: "reference is meaningless",
		},
		{
			name:    "contains with error_contains",
			yaml:    "name: s\ncases:\n  - name: a\n    source: x\n    expect:\n      error_contains: parse\n      contains: [fn]\n",
			wantErr: "cannot be combined with error",
		},
		{
			name:    "malformed",
			yaml:    "name: [unterminated\n",
			wantErr: "failed to parse YAML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCases([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpectation_ExpectsError(t *testing.T) {
	assert.False(t, Expectation{}.ExpectsError())
	assert.True(t, Expectation{Error: true}.ExpectsError())
	assert.True(t, Expectation{ErrorContains: "x"}.ExpectsError())
}
