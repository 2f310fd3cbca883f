package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/rust2mojo/internal/ir"
	"github.com/roach88/rust2mojo/internal/store"
)

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// Clock provides timestamps for runs.
type Clock interface {
	Now() time.Time
}

// UUIDv7Generator generates time-ordered UUIDv7 run IDs, so runs listed by
// ID sort by creation time.
type UUIDv7Generator struct{}

// Generate implements IDGenerator.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name string `json:"name"`
	// Comparison is nil when the compiler rejected the source.
	Comparison *Result  `json:"comparison,omitempty"`
	Error      string   `json:"error,omitempty"`
	Failures   []string `json:"failures"`
	Pass       bool     `json:"pass"`
}

// RunResult is the outcome of running a case file.
type RunResult struct {
	RunID      string       `json:"run_id"`
	Suite      string       `json:"suite"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Cases      []CaseResult `json:"cases"`
	Passed     int          `json:"passed"`
}

// Pass reports whether every case passed.
func (r *RunResult) Pass() bool {
	return r.Passed == len(r.Cases)
}

// Comparisons returns the results of the cases that compiled, in case order.
func (r *RunResult) Comparisons() []*Result {
	var out []*Result
	for _, c := range r.Cases {
		if c.Comparison != nil {
			out = append(out, c.Comparison)
		}
	}
	return out
}

// Report renders the batch report over the cases that compiled.
func (r *RunResult) Report() string {
	return GenerateBatchReport(r.Comparisons())
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStore persists runs and comparisons to st.
func WithStore(st *store.Store) RunnerOption {
	return func(r *Runner) { r.store = st }
}

// WithIDGenerator sets the run ID source. Default is UUIDv7Generator.
func WithIDGenerator(g IDGenerator) RunnerOption {
	return func(r *Runner) {
		if g != nil {
			r.ids = g
		}
	}
}

// WithClock sets the timestamp source. Default is the system clock in UTC.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithRunLogger sets the runner logger. Default discards.
func WithRunLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner executes case files through an Engine.
type Runner struct {
	engine *Engine
	store  *store.Store
	ids    IDGenerator
	clock  Clock
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(engine *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine: engine,
		ids:    UUIDv7Generator{},
		clock:  systemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every case of cf in order.
//
// Execution flow:
// 1. Allocate a run ID and record the run
// 2. Compare each case (reference cases skip the translator)
// 3. Check expectations and record each comparison
// 4. Stamp the run's finish time and totals
//
// Case failures are reported in the result, not as errors. An error is
// returned only when the translator or the store fails.
func (r *Runner) Run(ctx context.Context, cf *CaseFile) (*RunResult, error) {
	res := &RunResult{
		RunID:     r.ids.Generate(),
		Suite:     cf.Name,
		StartedAt: r.clock.Now(),
		Cases:     make([]CaseResult, 0, len(cf.Cases)),
	}
	logger := r.logger.With("run_id", res.RunID, "suite", cf.Name)

	if r.store != nil {
		caseFile := cf.Path
		if caseFile == "" {
			caseFile = cf.Name
		}
		if err := r.store.WriteRun(ctx, store.Run{
			ID:        res.RunID,
			Suite:     cf.Name,
			CaseFile:  caseFile,
			Model:     r.engine.Config().Model,
			IRVersion: ir.IRVersion,
			StartedAt: res.StartedAt,
		}); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	for i, c := range cf.Cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cr, err := r.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}
		if cr.Pass {
			res.Passed++
		}
		logger.Debug("case finished", "case", c.Name, "pass", cr.Pass, "failures", len(cr.Failures))
		res.Cases = append(res.Cases, cr)

		if r.store != nil {
			if _, err := r.store.WriteComparison(ctx, toRecord(res.RunID, int64(i+1), c, cr)); err != nil {
				return nil, fmt.Errorf("record case %s: %w", c.Name, err)
			}
		}
	}

	res.FinishedAt = r.clock.Now()
	if r.store != nil {
		if err := r.store.FinishRun(ctx, res.RunID, res.FinishedAt); err != nil {
			return nil, fmt.Errorf("finish run: %w", err)
		}
	}

	logger.Info("run finished", "passed", res.Passed, "total", len(res.Cases))
	return res, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) (CaseResult, error) {
	var (
		result *Result
		err    error
	)
	if c.Reference != "" {
		result, err = r.engine.CompareWithReference(c.Source, c.Reference)
	} else {
		result, err = r.engine.Compare(ctx, c.Source)
	}

	cr := CaseResult{Name: c.Name, Failures: []string{}}
	var cf *CompileFailure
	switch {
	case errors.As(err, &cf):
		cr.Error = cf.Error()
	case err != nil:
		return CaseResult{}, err
	default:
		cr.Comparison = result
	}

	cr.Failures = checkExpectations(c.Expect, cr)
	cr.Pass = len(cr.Failures) == 0
	return cr, nil
}

// checkExpectations returns one message per unmet expectation.
func checkExpectations(e Expectation, cr CaseResult) []string {
	failures := []string{}

	if e.ExpectsError() {
		if cr.Comparison != nil {
			failures = append(failures, "expected a compile error, translation succeeded")
			return failures
		}
		if e.ErrorContains != "" && !strings.Contains(cr.Error, e.ErrorContains) {
			failures = append(failures, fmt.Sprintf("error %q does not contain %q", cr.Error, e.ErrorContains))
		}
		return failures
	}

	if cr.Comparison == nil {
		failures = append(failures, "unexpected error: "+cr.Error)
		return failures
	}

	out := cr.Comparison.Output
	for _, want := range e.Contains {
		if !strings.Contains(out, want) {
			failures = append(failures, fmt.Sprintf("output does not contain %q", want))
		}
	}
	for _, unwanted := range e.NotContains {
		if strings.Contains(out, unwanted) {
			failures = append(failures, fmt.Sprintf("output contains %q", unwanted))
		}
	}
	return failures
}

func toRecord(runID string, seq int64, c Case, cr CaseResult) store.Comparison {
	rec := store.Comparison{
		RunID:      runID,
		Seq:        seq,
		CaseName:   c.Name,
		RustSource: c.Source,
		Error:      cr.Error,
		Failures:   cr.Failures,
		Passed:     cr.Pass,
	}
	if r := cr.Comparison; r != nil {
		rec.Output = r.Output
		rec.Reference = r.Reference
		rec.Scores = &store.Scores{
			Structural:  r.Metrics.Structural,
			Semantic:    r.Metrics.Semantic,
			Performance: r.Metrics.Performance,
			Overall:     r.Metrics.Overall,
		}
		rec.Analysis = store.Analysis{
			Rust2MojoAdvantages: r.Analysis.Rust2MojoAdvantages,
			LLMAdvantages:       r.Analysis.LLMAdvantages,
			Suggestions:         r.Analysis.Suggestions,
			CorrectnessIssues:   r.Analysis.CorrectnessIssues,
		}
	}
	return rec
}

// LoadRun rebuilds a stored run's results. Cases whose translation failed
// have no Comparison.
func LoadRun(ctx context.Context, st *store.Store, runID string) (*RunResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	records, err := st.ReadComparisons(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}

	res := &RunResult{
		RunID:      run.ID,
		Suite:      run.Suite,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Cases:      make([]CaseResult, 0, len(records)),
		Passed:     run.Passed,
	}
	for _, rec := range records {
		cr := CaseResult{
			Name:     rec.CaseName,
			Error:    rec.Error,
			Failures: rec.Failures,
			Pass:     rec.Passed,
		}
		if rec.Scores != nil {
			cr.Comparison = &Result{
				RustCode:  rec.RustSource,
				Output:    rec.Output,
				Reference: rec.Reference,
				Metrics: Metrics{
					Structural:  rec.Scores.Structural,
					Semantic:    rec.Scores.Semantic,
					Performance: rec.Scores.Performance,
					Overall:     rec.Scores.Overall,
				},
				Analysis: Analysis{
					Rust2MojoAdvantages: rec.Analysis.Rust2MojoAdvantages,
					LLMAdvantages:       rec.Analysis.LLMAdvantages,
					Suggestions:         rec.Analysis.Suggestions,
					CorrectnessIssues:   rec.Analysis.CorrectnessIssues,
				},
			}
		}
		res.Cases = append(res.Cases, cr)
	}
	return res, nil
}
