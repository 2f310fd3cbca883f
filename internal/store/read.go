package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, suite, case_file, model, ir_version, started_at, finished_at, total, passed
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns all runs, oldest first. UUIDv7 run IDs sort by creation
// time, so id breaks ties between runs started in the same instant.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, case_file, model, ir_version, started_at, finished_at, total, passed
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadComparisons returns all comparisons of a run ordered by
// seq ASC, case_name ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the run has no comparisons.
func (s *Store) ReadComparisons(ctx context.Context, runID string) ([]Comparison, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, case_name, rust_source, output, reference, error,
		       structural, semantic, performance, overall, analysis, failures, passed
		FROM comparisons
		WHERE run_id = ?
		ORDER BY seq ASC, case_name COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer rows.Close()

	comparisons := []Comparison{}
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comparisons: %w", err)
	}

	return comparisons, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a row into a Run struct.
// sql.ErrNoRows is returned unwrapped so callers can compare it directly.
func scanRun(row scanner) (Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	if err := row.Scan(
		&run.ID, &run.Suite, &run.CaseFile, &run.Model, &run.IRVersion,
		&startedAt, &finishedAt, &run.Total, &run.Passed,
	); err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}
	if finishedAt.Valid {
		if run.FinishedAt, err = parseTime(finishedAt.String); err != nil {
			return Run{}, fmt.Errorf("scan run %s: %w", run.ID, err)
		}
	}

	return run, nil
}

// scanComparison scans a row into a Comparison struct.
func scanComparison(row scanner) (Comparison, error) {
	var c Comparison
	var structural, semantic, performance, overall sql.NullFloat64
	var analysisJSON, failuresJSON string

	if err := row.Scan(
		&c.RunID, &c.Seq, &c.CaseName, &c.RustSource, &c.Output, &c.Reference, &c.Error,
		&structural, &semantic, &performance, &overall,
		&analysisJSON, &failuresJSON, &c.Passed,
	); err != nil {
		return Comparison{}, fmt.Errorf("scan comparison: %w", err)
	}

	if overall.Valid {
		c.Scores = &Scores{
			Structural:  structural.Float64,
			Semantic:    semantic.Float64,
			Performance: performance.Float64,
			Overall:     overall.Float64,
		}
	}

	var err error
	if c.Analysis, err = unmarshalAnalysis(analysisJSON); err != nil {
		return Comparison{}, fmt.Errorf("scan comparison %s: %w", c.CaseName, err)
	}
	if c.Failures, err = unmarshalFailures(failuresJSON); err != nil {
		return Comparison{}, fmt.Errorf("scan comparison %s: %w", c.CaseName, err)
	}

	return c, nil
}
