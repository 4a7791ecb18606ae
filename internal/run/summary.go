package run

import "time"

// State is the terminal state of a run.
type State string

const (
	StateDrained   State = "drained"
	StateCancelled State = "cancelled"
)

// FailedClip pairs a clip id with the reason it failed.
type FailedClip struct {
	ClipID string
	Reason string
}

// Summary is the read-only projection over one run's outcomes.
type Summary struct {
	RunID     string
	State     State
	Started   time.Time
	Finished  time.Time
	Total     int
	Completed []string
	Failed    []FailedClip
}

// FailedIDs returns the failed clip ids in processing order.
func (s *Summary) FailedIDs() []string {
	ids := make([]string, 0, len(s.Failed))
	for _, f := range s.Failed {
		ids = append(ids, f.ClipID)
	}
	return ids
}

// Remaining counts clips that were resolved but never started, which is
// non-zero only for cancelled runs.
func (s *Summary) Remaining() int {
	remaining := s.Total - len(s.Completed) - len(s.Failed)
	if remaining < 0 {
		return 0
	}
	return remaining
}
