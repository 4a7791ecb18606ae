// Package run drives the resolved work set through the pipeline one clip at
// a time, persisting a checkpoint after every clip and honoring cooperative
// cancellation at clip boundaries. A run terminates either Drained (work set
// exhausted) or Cancelled (operator interruption), and in both cases the
// in-progress marker is cleared and the persisted state is exactly what a
// subsequent resume needs.
package run
