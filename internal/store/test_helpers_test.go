package store

import (
	"path/filepath"
	"testing"
	"time"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a test run with minimal required fields.
func createTestRun(id string, offset time.Duration) Run {
	return Run{
		ID:        id,
		Suite:     "smoke",
		CaseFile:  "testdata/cases.yaml",
		Model:     "stub",
		IRVersion: "1",
		StartedAt: testEpoch.Add(offset),
	}
}

// createTestComparison creates a passing comparison with scores.
func createTestComparison(runID, caseName string, seq int64) Comparison {
	return Comparison{
		RunID:      runID,
		Seq:        seq,
		CaseName:   caseName,
		RustSource: "fn main() {}",
		Output:     "fn main():\n    pass\n",
		Reference:  "fn main():\n    pass\n",
		Scores: &Scores{
			Structural:  1,
			Semantic:    0.8,
			Performance: 0.75,
			Overall:     0.85,
		},
		Analysis: Analysis{
			Rust2MojoAdvantages: []string{"Consistent header comments"},
			Suggestions:         []string{"Validate semantic equivalence"},
		},
		Passed: true,
	}
}
