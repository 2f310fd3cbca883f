// Package store provides SQLite-backed persistence for comparison runs and
// the compile cache.
//
// The store keeps three tables:
//   - runs: one row per harness run, keyed by a UUIDv7 run ID
//   - comparisons: per-case results, UNIQUE(run_id, case_name)
//   - compile_cache: emitted Mojo text keyed by ir.CompileKey
//
// # Ordering
//
// Comparisons carry a seq column assigned by the harness in case-file order.
// Reads order by seq ASC, case_name ASC COLLATE BINARY so that reports built
// from the store are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
