package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/rust2mojo/internal/config"
	"github.com/roach88/rust2mojo/internal/compiler"
)

// ErrDisabled is returned by Compare when comparison is not enabled.
var ErrDisabled = errors.New("comparison is disabled")

// Fixed scores until semantic and performance analyses exist.
const (
	SemanticScore    = 0.8
	PerformanceScore = 0.75
)

// Line pattern names used for structural similarity.
const (
	PatternFunction    = "function_definition"
	PatternStruct      = "struct_definition"
	PatternConditional = "conditional"
	PatternLoop        = "loop"
	PatternAssignment  = "assignment"
)

// Compiler is the view of the translator the harness needs.
type Compiler interface {
	CompileString(source string) (string, error)
}

// CompileFailure reports that the compiler rejected a case's source.
// Translator failures are returned unwrapped.
type CompileFailure struct {
	Err error
}

func (e *CompileFailure) Error() string { return e.Err.Error() }
func (e *CompileFailure) Unwrap() error { return e.Err }

// Metrics are the similarity scores of a comparison, each in [0, 1].
type Metrics struct {
	Structural  float64 `json:"structural_similarity"`
	Semantic    float64 `json:"semantic_similarity"`
	Performance float64 `json:"performance_similarity"`
	Overall     float64 `json:"overall_score"`
}

// Analysis is the qualitative part of a comparison.
type Analysis struct {
	Rust2MojoAdvantages []string `json:"rust2mojo_advantages"`
	LLMAdvantages       []string `json:"llm_advantages"`
	Suggestions         []string `json:"improvement_suggestions"`
	CorrectnessIssues   []string `json:"correctness_issues"`
}

// Result is the outcome of comparing one Rust program.
type Result struct {
	RustCode  string   `json:"rust_code"`
	Output    string   `json:"rust2mojo_output"`
	Reference string   `json:"llm_output"`
	Metrics   Metrics  `json:"metrics"`
	Analysis  Analysis `json:"analysis"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithTranslator sets the reference translator. Default is a StubTranslator
// returning PlaceholderResponse.
func WithTranslator(t Translator) Option {
	return func(e *Engine) {
		if t != nil {
			e.translator = t
		}
	}
}

// WithLogger sets the engine logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine compares compiler output with reference translations.
type Engine struct {
	cfg        config.ComparisonConfig
	compiler   Compiler
	translator Translator
	logger     *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(cfg config.ComparisonConfig, c Compiler, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		compiler:   c,
		translator: &StubTranslator{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's comparison configuration.
func (e *Engine) Config() config.ComparisonConfig {
	return e.cfg
}

// Compare translates source with both the compiler and the reference
// translator and scores the pair. Returns ErrDisabled if comparison is off
// and a *CompileFailure if the compiler rejects source.
func (e *Engine) Compare(ctx context.Context, source string) (*Result, error) {
	if !e.cfg.Enabled {
		return nil, ErrDisabled
	}

	output, err := e.compile(source)
	if err != nil {
		return nil, err
	}

	response, err := e.translator.Complete(ctx, BuildPrompt(source))
	if err != nil {
		return nil, fmt.Errorf("reference translation (model %s): %w", e.cfg.Model, err)
	}

	return score(source, output, ExtractMojoCode(response)), nil
}

// CompareWithReference scores the compiler output against a given
// reference translation. The translator is not consulted, so this works
// with comparison disabled.
func (e *Engine) CompareWithReference(source, reference string) (*Result, error) {
	output, err := e.compile(source)
	if err != nil {
		return nil, err
	}
	return score(source, output, strings.TrimSpace(reference)), nil
}

func (e *Engine) compile(source string) (string, error) {
	output, err := e.compiler.CompileString(source)
	if err != nil {
		e.logger.Debug("compile failed", "error", err)
		return "", &CompileFailure{Err: err}
	}
	return output, nil
}

func score(source, output, reference string) *Result {
	return &Result{
		RustCode:  source,
		Output:    output,
		Reference: reference,
		Metrics:   CalculateMetrics(output, reference),
		Analysis:  Analyze(output, reference),
	}
}

// CalculateMetrics scores two Mojo programs.
func CalculateMetrics(a, b string) Metrics {
	m := Metrics{
		Structural:  StructuralSimilarity(a, b),
		Semantic:    SemanticScore,
		Performance: PerformanceScore,
	}
	m.Overall = (m.Structural + m.Semantic + m.Performance) / 3
	return m
}

// StructuralSimilarity is the Jaccard index of the line patterns of a and
// b, or 1.0 when neither has any.
func StructuralSimilarity(a, b string) float64 {
	pa := patternSet(a)
	pb := patternSet(b)

	common := 0
	union := len(pb)
	for p := range pa {
		if pb[p] {
			common++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1.0
	}
	return float64(common) / float64(union)
}

// ExtractPatterns returns the sorted set of line patterns in code.
func ExtractPatterns(code string) []string {
	set := patternSet(code)
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func patternSet(code string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "fn ") {
			set[PatternFunction] = true
		}
		if strings.HasPrefix(trimmed, "struct ") {
			set[PatternStruct] = true
		}
		if strings.HasPrefix(trimmed, "if ") {
			set[PatternConditional] = true
		}
		if strings.HasPrefix(trimmed, "for ") || strings.HasPrefix(trimmed, "while ") {
			set[PatternLoop] = true
		}
		if strings.Contains(trimmed, " = ") {
			set[PatternAssignment] = true
		}
	}
	return set
}

// Analyze compares compiler output with a reference translation
// qualitatively.
func Analyze(output, reference string) Analysis {
	a := Analysis{
		Rust2MojoAdvantages: []string{},
		LLMAdvantages:       []string{},
		Suggestions:         []string{},
		CorrectnessIssues:   []string{},
	}

	if strings.Contains(output, compiler.OutputHeader) {
		a.Rust2MojoAdvantages = append(a.Rust2MojoAdvantages, "Consistent header comments")
	}

	if len(reference) < len(output) {
		a.LLMAdvantages = append(a.LLMAdvantages, "More concise code generation")
	} else {
		a.Rust2MojoAdvantages = append(a.Rust2MojoAdvantages, "More explicit code generation")
	}

	if strings.Contains(output, "from memory import") {
		a.Rust2MojoAdvantages = append(a.Rust2MojoAdvantages, "Includes necessary memory imports")
	}

	if !strings.Contains(output, "fn main():") && strings.Contains(reference, "fn main():") {
		a.Suggestions = append(a.Suggestions, "Consider special handling for main function")
	}

	if strings.Contains(output, compiler.UnsupportedCall+"(") || strings.Contains(output, compiler.UnsupportedComment) {
		a.CorrectnessIssues = append(a.CorrectnessIssues, "Output contains unsupported-construct markers")
	}

	a.Suggestions = append(a.Suggestions,
		"Compare generated code performance",
		"Validate semantic equivalence",
	)
	return a
}
