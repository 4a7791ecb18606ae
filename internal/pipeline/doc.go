// Package pipeline composes the fetch and transcribe stages for one clip.
// It enforces the skip-if-already-done predicate (a non-trivial transcript
// on disk means the clip is a no-op), never attempts transcription without a
// fetched artifact, and reclaims media space after a successful
// transcription. The pipeline persists nothing; checkpointing is the run
// controller's job.
package pipeline
