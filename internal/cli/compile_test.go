package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rust2mojo/internal/compiler"
	"github.com/roach88/rust2mojo/internal/store"
)

func TestCompile_DefaultOutputPath(t *testing.T) {
	input := copyTestdata(t, "hello.rs")

	out, _, err := execute(t, "compile", input)
	require.NoError(t, err)

	want := strings.TrimSuffix(input, ".rs") + ".mojo"
	assert.Contains(t, out, "✓ Compiled "+input+" → "+want)
	assert.Contains(t, out, "1 item(s), 0 skipped declaration(s)")

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Generated Mojo code\n# Translated from Rust 2021 for Mojo 24.5\n"))
	assert.Contains(t, string(data), "fn main():\n    print(\"Hello, world!\")\n")
}

func TestCompile_OutputFlag(t *testing.T) {
	input := copyTestdata(t, "hello.rs")
	output := filepath.Join(t.TempDir(), "build", "nested", "hello.mojo")

	_, _, err := execute(t, "compile", input, "-o", output)
	require.NoError(t, err)

	_, err = os.Stat(output)
	require.NoError(t, err, "missing parent directories are created")
}

func TestCompile_OutputMatchesFacade(t *testing.T) {
	input := copyTestdata(t, "features.rs")
	out, _, err := execute(t, "compile", input, "--stdout")
	require.NoError(t, err)

	want, err := compiler.CompileFile(input)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestCompile_StdoutJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "compile", filepath.Join("testdata", "features.rs"), "--stdout")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Contains(t, data["code"], "fn main():")
	assert.Equal(t, float64(2), data["items"])
	assert.Equal(t, float64(1), data["skipped"])
	assert.Equal(t, []any{"closure"}, data["unsupported"])
	assert.Equal(t, false, data["cached"])
	assert.Len(t, data["key"], 64)
	assert.NotContains(t, data, "output")
}

func TestCompile_UnsupportedListed(t *testing.T) {
	input := copyTestdata(t, "features.rs")

	out, _, err := execute(t, "compile", input)
	require.NoError(t, err)
	assert.Contains(t, out, "1 unsupported construct(s) marked in output: closure")
}

func TestCompile_StdoutAndOutputExclusive(t *testing.T) {
	_, _, err := execute(t, "compile", filepath.Join("testdata", "hello.rs"), "--stdout", "-o", "x.mojo")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// =============================================================================
// Failures
// =============================================================================

func TestCompile_MissingInput(t *testing.T) {
	out, _, err := execute(t, "compile", filepath.Join(t.TempDir(), "missing.rs"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "Error [E002]: reading input: I/O error:")
}

func TestCompile_ParseError(t *testing.T) {
	input := copyTestdata(t, "broken.rs")

	out, _, err := execute(t, "compile", input)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]: compilation failed: failed to parse Rust code")

	_, statErr := os.Stat(strings.TrimSuffix(input, ".rs") + ".mojo")
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestCompile_ParseErrorJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "compile", filepath.Join("testdata", "broken.rs"), "--stdout")
	require.Error(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "failed to parse Rust code")
}

func TestCompile_StrictRejectsUnsupported(t *testing.T) {
	out, _, err := execute(t, "compile", filepath.Join("testdata", "features.rs"), "--stdout", "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: compilation failed: unsupported Rust feature: closure")
}

// =============================================================================
// Configuration
// =============================================================================

func TestCompile_ConfigTarget(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rust2mojo.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte("compiler: {\n\tedition: \"2018\"\n\ttarget: \"25.1\"\n}\n"), 0o644))

	out, _, err := execute(t, "--config", cfgPath, "compile", filepath.Join("testdata", "hello.rs"), "--stdout")
	require.NoError(t, err)
	assert.Contains(t, out, "# Translated from Rust 2018 for Mojo 25.1\n")
}

func TestCompile_ConfigStrictPolicy(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rust2mojo.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`compiler: unsupported: "strict"`+"\n"), 0o644))

	_, _, err := execute(t, "--config", cfgPath, "compile", filepath.Join("testdata", "features.rs"), "--stdout")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCompile_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rust2mojo.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`compiler: edition: "1999"`+"\n"), 0o644))

	out, _, err := execute(t, "--config", cfgPath, "compile", filepath.Join("testdata", "hello.rs"), "--stdout")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]: invalid configuration")
}

// =============================================================================
// Cache
// =============================================================================

func TestCompile_Cache(t *testing.T) {
	input := copyTestdata(t, "hello.rs")
	db := filepath.Join(t.TempDir(), "cache.db")

	first, firstLog, err := execute(t, "compile", input, "--stdout", "--cache", db)
	require.NoError(t, err)
	assert.NotContains(t, firstLog, "cache hit")

	second, secondLog, err := execute(t, "compile", input, "--stdout", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, secondLog, "cache hit")
	assert.Equal(t, first, second)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	key := compiler.New().CacheKey(string(mustRead(t, input)))
	hits, err := st.CacheHits(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestCompile_CacheKeyedByOptions(t *testing.T) {
	input := copyTestdata(t, "features.rs")
	db := filepath.Join(t.TempDir(), "cache.db")

	_, _, err := execute(t, "compile", input, "--stdout", "--cache", db)
	require.NoError(t, err)

	// A strict compile must not reuse the best-effort translation.
	_, log, err := execute(t, "compile", input, "--stdout", "--cache", db, "--strict")
	require.Error(t, err)
	assert.NotContains(t, log, "cache hit")
}

func TestCompile_CacheHitText(t *testing.T) {
	input := copyTestdata(t, "hello.rs")
	db := filepath.Join(t.TempDir(), "cache.db")

	_, _, err := execute(t, "compile", input, "--cache", db)
	require.NoError(t, err)
	out, _, err := execute(t, "compile", input, "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, out, "(cached)")
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
