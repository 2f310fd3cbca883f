package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if runs == nil {
		t.Error("ListRuns() returned nil, want empty slice")
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns() returned %d runs, want 0", len(runs))
	}
}

func TestListRuns_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Written out of order; b and c share a start time.
	for _, run := range []Run{
		createTestRun("c", time.Second),
		createTestRun("a", 0),
		createTestRun("b", time.Second),
	} {
		if err := s.WriteRun(ctx, run); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", run.ID, err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}

	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ListRuns() order = %v, want %v", ids, want)
	}
}

func TestReadComparisons_Empty(t *testing.T) {
	s := createTestStore(t)

	comparisons, err := s.ReadComparisons(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ReadComparisons() failed: %v", err)
	}
	if comparisons == nil || len(comparisons) != 0 {
		t.Errorf("ReadComparisons() = %v, want empty slice", comparisons)
	}
}

func TestReadComparisons_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", 0)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	want := createTestComparison("run-1", "hello", 1)
	want.RustSource = `fn main() { if a < b && c { println!("<ok>"); } }`
	if _, err := s.WriteComparison(ctx, want); err != nil {
		t.Fatalf("WriteComparison() failed: %v", err)
	}

	got, err := s.ReadComparisons(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadComparisons() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ReadComparisons() returned %d, want 1", len(got))
	}

	// Nil lists come back empty.
	want.Analysis.LLMAdvantages = []string{}
	want.Analysis.CorrectnessIssues = []string{}
	want.Failures = []string{}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("ReadComparisons()[0] =\n%+v\nwant\n%+v", got[0], want)
	}
}

func TestReadComparisons_NullScores(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", 0)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	c := createTestComparison("run-1", "broken", 1)
	c.Scores = nil
	c.Error = "failed to parse Rust code: 1:1: expected item"
	c.Passed = false
	if _, err := s.WriteComparison(ctx, c); err != nil {
		t.Fatalf("WriteComparison() failed: %v", err)
	}

	got, err := s.ReadComparisons(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadComparisons() failed: %v", err)
	}
	if got[0].Scores != nil {
		t.Errorf("Scores = %+v, want nil", got[0].Scores)
	}
	if got[0].Error != c.Error || got[0].Passed {
		t.Errorf("got %+v, want error %q and not passed", got[0], c.Error)
	}
}

func TestReadComparisons_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", 0)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}

	// seq decides first; case_name breaks ties.
	cases := []struct {
		name string
		seq  int64
	}{
		{"zeta", 1},
		{"beta", 2},
		{"alpha", 2},
		{"Gamma", 2},
	}
	for _, c := range cases {
		if _, err := s.WriteComparison(ctx, createTestComparison("run-1", c.name, c.seq)); err != nil {
			t.Fatalf("WriteComparison(%s) failed: %v", c.name, err)
		}
	}

	got, err := s.ReadComparisons(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadComparisons() failed: %v", err)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.CaseName)
	}
	// BINARY collation puts uppercase before lowercase.
	if want := []string{"zeta", "Gamma", "alpha", "beta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestReadComparisons_IsolatedByRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2"} {
		if err := s.WriteRun(ctx, createTestRun(id, 0)); err != nil {
			t.Fatalf("WriteRun(%s) failed: %v", id, err)
		}
	}
	if _, err := s.WriteComparison(ctx, createTestComparison("run-1", "a", 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.WriteComparison(ctx, createTestComparison("run-2", "b", 1)); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadComparisons(ctx, "run-2")
	if err != nil {
		t.Fatalf("ReadComparisons() failed: %v", err)
	}
	if len(got) != 1 || got[0].CaseName != "b" {
		t.Errorf("ReadComparisons(run-2) = %+v, want only case b", got)
	}
}
