package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CacheGet looks up emitted output by compile key. A hit increments the
// entry's hit counter. Entries written under a different IR version are
// treated as misses.
func (s *Store) CacheGet(ctx context.Context, key, irVersion string) (output string, ok bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("cache get: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	err = tx.QueryRowContext(ctx, `
		SELECT output FROM compile_cache
		WHERE key = ? AND ir_version = ?
	`, key, irVersion).Scan(&output)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE compile_cache SET hits = hits + 1 WHERE key = ?
	`, key); err != nil {
		return "", false, fmt.Errorf("cache get: count hit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("cache get: commit: %w", err)
	}
	return output, true, nil
}

// CachePut stores output under key. An existing entry is replaced and its
// hit counter reset.
func (s *Store) CachePut(ctx context.Context, key, irVersion, output string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compile_cache (key, output, ir_version, hits)
		VALUES (?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET output = excluded.output, ir_version = excluded.ir_version, hits = 0
	`, key, output, irVersion)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// CacheHits returns the hit counter for key, or 0 if the key is absent.
func (s *Store) CacheHits(ctx context.Context, key string) (int, error) {
	var hits int
	err := s.db.QueryRowContext(ctx, `
		SELECT hits FROM compile_cache WHERE key = ?
	`, key).Scan(&hits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache hits: %w", err)
	}
	return hits, nil
}
