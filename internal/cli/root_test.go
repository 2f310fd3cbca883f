package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON envelope written by the formatter.
func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// copyTestdata copies a testdata file into a fresh temp dir and returns
// the new path.
func copyTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "rust2mojo", cmd.Use)
	assert.Contains(t, cmd.Long, "Mojo")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "check", "compare", "runs", "report", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	for _, name := range []string{"stdout", "cache", "strict"} {
		assert.NotNil(t, compileCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestRunsAndReportRequireDB(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"runs", "report"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		dbFlag := sub.Flags().Lookup("db")
		require.NotNil(t, dbFlag)
		// --db is required, so default is empty
		assert.Equal(t, "", dbFlag.DefValue)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "--format", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMissingArgsIsCommandError(t *testing.T) {
	_, _, err := execute(t, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// =============================================================================
// version
// =============================================================================

func TestVersion_Text(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rust2mojo 0.1.0 (IR v1, Rust 2021 → Mojo 24.5)\n", out)
}

func TestVersion_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "version")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "rust2mojo", data["name"])
	assert.Equal(t, "0.1.0", data["version"])
	assert.Equal(t, "1", data["ir_version"])
}
