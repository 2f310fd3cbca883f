package store

import "time"

// Run is one execution of the comparison harness over a case file.
type Run struct {
	ID        string
	Suite     string
	CaseFile  string
	Model     string
	IRVersion string
	StartedAt time.Time
	// FinishedAt is zero until FinishRun is called.
	FinishedAt time.Time
	Total      int
	Passed     int
}

// Scores holds the similarity metrics of a comparison, each in [0, 1].
type Scores struct {
	Structural  float64
	Semantic    float64
	Performance float64
	Overall     float64
}

// Analysis is the qualitative part of a comparison.
type Analysis struct {
	Rust2MojoAdvantages []string `json:"rust2mojo_advantages"`
	LLMAdvantages       []string `json:"llm_advantages"`
	Suggestions         []string `json:"suggestions"`
	CorrectnessIssues   []string `json:"correctness_issues"`
}

// Comparison is the stored result of a single case.
type Comparison struct {
	RunID      string
	Seq        int64
	CaseName   string
	RustSource string
	Output     string
	Reference  string
	// Error is the compiler error text when translation failed.
	Error string
	// Scores is nil when translation failed.
	Scores   *Scores
	Analysis Analysis
	// Failures lists unmet case expectations.
	Failures []string
	Passed   bool
}
