// Package compiler is the public facade of the translator: it runs lowering,
// IR validation, the unsupported-construct policy and emission in order and
// reports the first failure as an *Error tagged with its stage.
//
// A Compiler holds only immutable options, so one instance may be used from
// many goroutines at once.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/roach88/rust2mojo/internal/emit"
	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/lower"
)

// Markers the emitter writes into every translation. Tools that inspect
// output text match on these rather than on emitter internals.
const (
	// OutputHeader is the first line of every translation.
	OutputHeader = emit.Header
	// UnsupportedCall is the function called in place of an unsupported
	// expression.
	UnsupportedCall = emit.UnsupportedFunc
	// UnsupportedComment prefixes the comment that replaces an unsupported
	// statement.
	UnsupportedComment = emit.UnsupportedComment
)

// analyzeRecursion is swapped out in tests.
var analyzeRecursion = AnalyzeRecursion

// Policy decides what happens to constructs the IR cannot model.
type Policy string

const (
	// PolicyBestEffort emits a marker for each unsupported construct.
	PolicyBestEffort Policy = "best_effort"

	// PolicyStrict rejects any unit containing an unsupported construct.
	PolicyStrict Policy = "strict"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyBestEffort, PolicyStrict:
		return Policy(s), nil
	case "":
		return PolicyBestEffort, nil
	}
	return "", fmt.Errorf("unknown unsupported-construct policy %q (want %q or %q)", s, PolicyBestEffort, PolicyStrict)
}

// Options configures a Compiler. The zero value is not valid; use New.
type Options struct {
	RustEdition       string
	TargetMojoVersion string
	Policy            Policy
	// SourceFile is recorded in metadata only; it never affects output.
	SourceFile string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithEdition sets the Rust edition recorded in the output header.
func WithEdition(edition string) Option {
	return func(c *Compiler) {
		if edition != "" {
			c.opts.RustEdition = edition
		}
	}
}

// WithTarget sets the Mojo version recorded in the output header.
func WithTarget(version string) Option {
	return func(c *Compiler) {
		if version != "" {
			c.opts.TargetMojoVersion = version
		}
	}
}

// WithPolicy sets the unsupported-construct policy.
func WithPolicy(p Policy) Option {
	return func(c *Compiler) {
		if p != "" {
			c.opts.Policy = p
		}
	}
}

// WithLogger sets the logger for stage failures. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Compiler translates Rust source text into Mojo source text.
type Compiler struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Compiler with default edition, target and best-effort policy.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		opts: Options{
			RustEdition:       ir.DefaultRustEdition,
			TargetMojoVersion: ir.DefaultMojoVersion,
			Policy:            PolicyBestEffort,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options returns a copy of the compiler's options.
func (c *Compiler) Options() Options {
	return c.opts
}

// Translation is the result of a successful translation.
type Translation struct {
	Output string
	// Items is the number of top-level items lowered into the IR.
	Items int
	// Skipped lists top-level declarations dropped during lowering.
	Skipped []ir.Diagnostic
	// Unsupported lists constructs rendered as markers, in source order.
	Unsupported []*ir.Unsupported
	Recursion   []RecursionWarning
	// Key is the compile cache key for the source under these options.
	Key string
}

// CompileString translates source and returns the Mojo text.
func (c *Compiler) CompileString(source string) (string, error) {
	tr, err := c.Translate(source)
	if err != nil {
		return "", err
	}
	return tr.Output, nil
}

// CompileFile reads path and translates its contents. The source file name
// is recorded in the unit metadata.
func (c *Compiler) CompileFile(path string) (string, error) {
	tr, err := c.TranslateFile(path)
	if err != nil {
		return "", err
	}
	return tr.Output, nil
}

// TranslateFile is Translate over the contents of path.
func (c *Compiler) TranslateFile(path string) (*Translation, error) {
	src, err := readSource(path)
	if err != nil {
		c.logger.Debug("read failed", "path", path, "error", err)
		return nil, newError(KindIO, StageRead, err)
	}
	fc := *c
	fc.opts.SourceFile = path
	return fc.Translate(src)
}

func readSource(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Translate runs the full pipeline over source.
func (c *Compiler) Translate(source string) (tr *Translation, err error) {
	stage := StageLower
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("compiler panic", "stage", stage, "panic", r, "stack", string(debug.Stack()))
			tr = nil
			err = &Error{Kind: KindInternal, Stage: stage, Detail: fmt.Sprintf("panic during %s: %v", stage, r)}
		}
	}()

	meta := c.metadata()
	unit, err := lower.Lower(source, meta, c.logger)
	if err != nil {
		c.logger.Debug("lowering failed", "error", err)
		var pf *lower.ParseFailure
		if errors.As(err, &pf) {
			return nil, &Error{Kind: KindParse, Stage: StageLower, Detail: pf.Err.Error(), Err: pf}
		}
		return nil, newError(KindInternal, StageLower, err)
	}

	stage = StageValidate
	if errs := Validate(unit); len(errs) > 0 {
		c.logger.Debug("ir validation failed", "errors", len(errs), "first", errs[0].Error())
		return nil, newError(KindInternal, StageValidate, errs[0])
	}

	stage = StagePolicy
	unsupported := ir.CollectUnsupported(unit)
	if c.opts.Policy == PolicyStrict && len(unsupported) > 0 {
		u := unsupported[0]
		c.logger.Debug("unsupported construct rejected", "construct", u.Construct, "count", len(unsupported))
		return nil, &Error{Kind: KindUnsupported, Stage: StagePolicy, Detail: describe(u)}
	}

	stage = StageEmit
	out, err := emit.Emit(unit)
	if err != nil {
		c.logger.Debug("emission failed", "error", err)
		var cf *emit.CodegenFailure
		if errors.As(err, &cf) {
			return nil, &Error{Kind: KindCodegen, Stage: StageEmit, Detail: cf.Msg, Err: err}
		}
		return nil, newError(KindInternal, StageEmit, err)
	}

	stage = StageAnalyze
	recursion := analyzeRecursion(unit)
	key := ir.CompileKey(source, meta, string(c.opts.Policy))

	return &Translation{
		Output:      out,
		Items:       len(unit.Items),
		Skipped:     unit.Diagnostics,
		Unsupported: unsupported,
		Recursion:   recursion,
		Key:         key,
	}, nil
}

// CacheKey returns the compile cache key for source under c's options.
func (c *Compiler) CacheKey(source string) string {
	return ir.CompileKey(source, c.metadata(), string(c.opts.Policy))
}

func (c *Compiler) metadata() ir.Metadata {
	meta := ir.NewMetadata()
	meta.SourceFile = c.opts.SourceFile
	meta.RustEdition = c.opts.RustEdition
	meta.TargetMojoVersion = c.opts.TargetMojoVersion
	return meta
}

func describe(u *ir.Unsupported) string {
	if u.Source == "" {
		return u.Construct
	}
	return fmt.Sprintf("%s: %s", u.Construct, u.Source)
}

// CompileString translates source with default options.
func CompileString(source string) (string, error) {
	return New().CompileString(source)
}

// CompileFile translates the file at path with default options.
func CompileFile(path string) (string, error) {
	return New().CompileFile(path)
}
