package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Total and Passed are maintained by FinishRun.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, case_file, model, ir_version, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Suite,
		run.CaseFile,
		run.Model,
		run.IRVersion,
		formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteComparison inserts a comparison record and reports whether a new row
// was written. A second comparison for the same (run_id, case_name) is
// silently ignored and returns inserted=false.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteComparison(ctx context.Context, c Comparison) (inserted bool, err error) {
	analysisJSON, err := marshalAnalysis(c.Analysis)
	if err != nil {
		return false, fmt.Errorf("write comparison: %w", err)
	}

	failuresJSON, err := marshalFailures(c.Failures)
	if err != nil {
		return false, fmt.Errorf("write comparison: %w", err)
	}

	var structural, semantic, performance, overall sql.NullFloat64
	if c.Scores != nil {
		structural = sql.NullFloat64{Float64: c.Scores.Structural, Valid: true}
		semantic = sql.NullFloat64{Float64: c.Scores.Semantic, Valid: true}
		performance = sql.NullFloat64{Float64: c.Scores.Performance, Valid: true}
		overall = sql.NullFloat64{Float64: c.Scores.Overall, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comparisons
		(run_id, seq, case_name, rust_source, output, reference, error,
		 structural, semantic, performance, overall, analysis, failures, passed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, case_name) DO NOTHING
	`,
		c.RunID,
		c.Seq,
		c.CaseName,
		c.RustSource,
		c.Output,
		c.Reference,
		c.Error,
		structural,
		semantic,
		performance,
		overall,
		analysisJSON,
		failuresJSON,
		c.Passed,
	)
	if err != nil {
		return false, fmt.Errorf("write comparison: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write comparison: rows affected: %w", err)
	}
	return n > 0, nil
}

// FinishRun stamps the run's finish time and recomputes its totals from the
// stored comparisons. Returns sql.ErrNoRows if the run does not exist.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("finish run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var total, passed int
	if err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(passed), 0)
		FROM comparisons
		WHERE run_id = ?
	`, runID).Scan(&total, &passed); err != nil {
		return fmt.Errorf("finish run: count comparisons: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, total = ?, passed = ?
		WHERE id = ?
	`, formatTime(finishedAt), total, passed, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("finish run: commit: %w", err)
	}
	return nil
}
