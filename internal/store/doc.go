// Package store persists rewrite runs and their rule firings in SQLite.
//
// Two tables make up the log:
//   - runs: one row per simplify, compute or match run, keyed by run id,
//     with the rendered input and output and a content digest of the input
//   - rule_firings: every rewrite the engine adopted during a run, keyed
//     by (run_id, seq)
//
// Writes are idempotent. Re-recording a run with the same id is a no-op,
// so a scenario replayed against an existing database leaves it unchanged.
//
// Ordering uses the logical seq columns, never wall-clock time. Every
// multi-row query orders by seq and then by id COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
