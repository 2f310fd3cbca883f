package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rust2mojo/internal/compiler"
	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Stdout bool   // write Mojo to stdout instead of a file
	Cache  string // compile cache database
	Strict bool   // reject unsupported constructs
}

// CompileResult summarises one compiled file.
type CompileResult struct {
	Input       string   `json:"input"`
	Output      string   `json:"output,omitempty"` // empty with --stdout
	Bytes       int      `json:"bytes"`
	Items       int      `json:"items"`
	Skipped     int      `json:"skipped"`
	Unsupported []string `json:"unsupported"`
	Cached      bool     `json:"cached"`
	Key         string   `json:"key"`
	Code        string   `json:"code,omitempty"` // Mojo text, with --stdout
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file.rs>",
		Short: "Translate a Rust file to Mojo",
		Long: `Translate a Rust source file to Mojo.

The output is written next to the input with a .mojo extension unless
--output or --stdout is given. With --cache, translations are stored in a
SQLite database keyed by source text, options and IR version, and reused
on later runs.

Exit codes:
  0 - Translation succeeded
  1 - The compiler rejected the source
  2 - Command error (missing file, bad config, database error)

Examples:
  rust2mojo compile main.rs
  rust2mojo compile main.rs -o build/main.mojo
  rust2mojo compile main.rs --stdout --strict
  rust2mojo compile main.rs --cache .rust2mojo.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default: input with .mojo extension)")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "write Mojo to stdout")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to compile cache database")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject unsupported constructs")
	cmd.MarkFlagsMutuallyExclusive("output", "stdout")

	return cmd
}

func runCompile(opts *CompileOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	c, err := newCompiler(cfg, opts.Strict, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	var result *CompileResult
	var code string
	if opts.Cache != "" {
		result, code, err = compileCached(cmd.Context(), c, input, opts.Cache, logger)
	} else {
		result, code, err = compileFile(c, input)
	}
	if err != nil {
		return compileFailure(formatter, err)
	}
	result.Bytes = len(code)

	if opts.Stdout {
		if opts.Format == "json" {
			result.Code = code
			return formatter.Success(result)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), code)
		return err
	}

	result.Output = opts.Output
	if result.Output == "" {
		result.Output = defaultOutputPath(input)
	}
	if err := writeOutput(result.Output, code); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing output file", err)
	}
	formatter.VerboseLog("Wrote %d byte(s) to %s", result.Bytes, result.Output)

	return outputCompileSuccess(formatter, result)
}

func compileFile(c *compiler.Compiler, input string) (*CompileResult, string, error) {
	tr, err := c.TranslateFile(input)
	if err != nil {
		return nil, "", err
	}
	return translationResult(input, tr), tr.Output, nil
}

// compileCached consults the cache before translating. Only successful
// translations are stored.
func compileCached(ctx context.Context, c *compiler.Compiler, input, dbPath string, logger *slog.Logger) (*CompileResult, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, "", &compiler.Error{Kind: compiler.KindIO, Stage: compiler.StageRead, Detail: err.Error(), Err: err}
	}
	source := string(data)

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, "", &cacheError{err: err}
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing cache", "error", closeErr)
		}
	}()

	key := c.CacheKey(source)
	code, ok, err := st.CacheGet(ctx, key, ir.IRVersion)
	if err != nil {
		return nil, "", &cacheError{err: err}
	}
	if ok {
		logger.Info("cache hit", "input", input, "key", key)
		return &CompileResult{Input: input, Unsupported: []string{}, Cached: true, Key: key}, code, nil
	}

	tr, err := c.Translate(source)
	if err != nil {
		return nil, "", err
	}
	if err := st.CachePut(ctx, key, ir.IRVersion, tr.Output); err != nil {
		return nil, "", &cacheError{err: err}
	}
	logger.Debug("cache stored", "input", input, "key", key)
	return translationResult(input, tr), tr.Output, nil
}

type cacheError struct{ err error }

func (e *cacheError) Error() string { return "compile cache: " + e.err.Error() }
func (e *cacheError) Unwrap() error { return e.err }

func translationResult(input string, tr *compiler.Translation) *CompileResult {
	unsupported := make([]string, 0, len(tr.Unsupported))
	for _, u := range tr.Unsupported {
		unsupported = append(unsupported, u.Construct)
	}
	return &CompileResult{
		Input:       input,
		Items:       tr.Items,
		Skipped:     len(tr.Skipped),
		Unsupported: unsupported,
		Key:         tr.Key,
	}
}

// compileFailure reports a failed translation. Missing inputs and cache
// failures are command errors; rejected source is a compile failure.
func compileFailure(formatter *OutputFormatter, err error) error {
	var ce *cacheError
	if errors.As(err, &ce) {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "compile cache", ce.err)
	}
	if compiler.IsIOError(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "reading input", err)
	}
	return formatter.Fail(ExitFailure, compileErrorCode(err), "compilation failed", err)
}

// defaultOutputPath replaces the input's extension with .mojo.
func defaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".mojo"
}

func writeOutput(path, code string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(code), 0o644)
}

// outputCompileSuccess outputs a successful compilation.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	suffix := ""
	if result.Cached {
		suffix = " (cached)"
	}
	fmt.Fprintf(w, "✓ Compiled %s → %s%s\n", result.Input, result.Output, suffix)
	if !result.Cached {
		fmt.Fprintf(w, "  %d item(s), %d skipped declaration(s)\n", result.Items, result.Skipped)
	}
	if n := len(result.Unsupported); n > 0 {
		fmt.Fprintf(w, "  %d unsupported construct(s) marked in output: %s\n", n, strings.Join(result.Unsupported, ", "))
	}
	return nil
}
