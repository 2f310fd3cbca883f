package harness

import (
	"context"
	"fmt"
	"strings"
)

// GenerateReport renders a markdown report for one comparison.
func GenerateReport(r *Result) string {
	var b strings.Builder

	b.WriteString("# Rust to Mojo Compilation Comparison Report\n\n")

	b.WriteString("## Input Rust Code\n```rust\n")
	b.WriteString(r.RustCode)
	b.WriteString("\n```\n\n")

	b.WriteString("## rust2mojo Output\n```mojo\n")
	b.WriteString(r.Output)
	b.WriteString("\n```\n\n")

	b.WriteString("## LLM-Generated Output\n```mojo\n")
	b.WriteString(r.Reference)
	b.WriteString("\n```\n\n")

	b.WriteString("## Similarity Metrics\n")
	fmt.Fprintf(&b, "- Structural Similarity: %s\n", percent(r.Metrics.Structural))
	fmt.Fprintf(&b, "- Semantic Similarity: %s\n", percent(r.Metrics.Semantic))
	fmt.Fprintf(&b, "- Performance Similarity: %s\n", percent(r.Metrics.Performance))
	fmt.Fprintf(&b, "- **Overall Score: %s**\n\n", percent(r.Metrics.Overall))

	b.WriteString("## Analysis\n\n")
	b.WriteString("### rust2mojo Advantages\n")
	b.WriteString(bullets(r.Analysis.Rust2MojoAdvantages))
	b.WriteString("\n\n### LLM Advantages\n")
	b.WriteString(bullets(r.Analysis.LLMAdvantages))
	b.WriteString("\n\n### Improvement Suggestions\n")
	b.WriteString(bullets(r.Analysis.Suggestions))
	b.WriteString("\n\n### Correctness Issues\n")
	if len(r.Analysis.CorrectnessIssues) == 0 {
		b.WriteString("- No major correctness issues identified")
	} else {
		b.WriteString(bullets(r.Analysis.CorrectnessIssues))
	}
	b.WriteString("\n")

	return b.String()
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}

// Statistics aggregates the metrics of a batch.
type Statistics struct {
	Total              int     `json:"total_test_cases"`
	AverageStructural  float64 `json:"average_structural_similarity"`
	AverageSemantic    float64 `json:"average_semantic_similarity"`
	AveragePerformance float64 `json:"average_performance_similarity"`
	AverageOverall     float64 `json:"average_overall_score"`
}

// ComputeStatistics averages the metrics of results. Zero results give
// zero statistics.
func ComputeStatistics(results []*Result) Statistics {
	if len(results) == 0 {
		return Statistics{}
	}
	var s Statistics
	for _, r := range results {
		s.AverageStructural += r.Metrics.Structural
		s.AverageSemantic += r.Metrics.Semantic
		s.AveragePerformance += r.Metrics.Performance
		s.AverageOverall += r.Metrics.Overall
	}
	n := float64(len(results))
	s.Total = len(results)
	s.AverageStructural /= n
	s.AverageSemantic /= n
	s.AveragePerformance /= n
	s.AverageOverall /= n
	return s
}

// GenerateBatchReport renders the summary statistics followed by one
// report per result.
func GenerateBatchReport(results []*Result) string {
	stats := ComputeStatistics(results)

	var b strings.Builder
	b.WriteString("# Batch Comparison Report\n\n")
	b.WriteString("## Summary Statistics\n")
	fmt.Fprintf(&b, "- Total Test Cases: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Average Structural Similarity: %s\n", percent(stats.AverageStructural))
	fmt.Fprintf(&b, "- Average Semantic Similarity: %s\n", percent(stats.AverageSemantic))
	fmt.Fprintf(&b, "- Average Performance Similarity: %s\n", percent(stats.AveragePerformance))
	fmt.Fprintf(&b, "- **Average Overall Score: %s**\n\n", percent(stats.AverageOverall))
	b.WriteString("## Individual Results\n")

	for i, r := range results {
		fmt.Fprintf(&b, "\n### Test Case %d\n%s\n", i+1, GenerateReport(r))
	}
	return b.String()
}

// Batch accumulates comparison results.
type Batch struct {
	engine  *Engine
	results []*Result
}

// NewBatch creates an empty batch comparing through engine.
func NewBatch(engine *Engine) *Batch {
	return &Batch{engine: engine}
}

// Add compares source and records the result.
func (b *Batch) Add(ctx context.Context, source string) error {
	r, err := b.engine.Compare(ctx, source)
	if err != nil {
		return err
	}
	b.results = append(b.results, r)
	return nil
}

// AddResult records an existing result.
func (b *Batch) AddResult(r *Result) {
	b.results = append(b.results, r)
}

// Results returns the recorded results in insertion order.
func (b *Batch) Results() []*Result {
	return b.results
}

// Statistics averages the recorded results.
func (b *Batch) Statistics() Statistics {
	return ComputeStatistics(b.results)
}

// Report renders the batch report.
func (b *Batch) Report() string {
	return GenerateBatchReport(b.results)
}
