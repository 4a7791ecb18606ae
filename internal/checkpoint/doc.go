// Package checkpoint persists per-clip processing outcomes in SQLite so an
// interrupted batch can resume without losing or repeating work. One row per
// clip holds its current state (completed, failed, or in_progress), which
// structurally guarantees a clip is never simultaneously completed and
// failed. The store also keeps the last full worklist so a bare resume
// invocation knows what outstanding means.
package checkpoint
