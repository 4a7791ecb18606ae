package checkpoint

import "time"

// State is the persisted lifecycle of one clip.
type State string

const (
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateInProgress State = "in_progress"
)

// Record is one clip's persisted outcome.
type Record struct {
	ClipID    string
	State     State
	Message   string
	UpdatedAt time.Time
}

// Snapshot is a read-only projection of the whole checkpoint database.
type Snapshot struct {
	Completed   []string
	Failed      []Record
	InProgress  string
	LastUpdated time.Time
}

// CompletedSet returns the completed clip ids as a set.
func (s *Snapshot) CompletedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.Completed))
	for _, id := range s.Completed {
		set[id] = struct{}{}
	}
	return set
}

// FailedIDs returns the failed clip ids in recorded order.
func (s *Snapshot) FailedIDs() []string {
	ids := make([]string, 0, len(s.Failed))
	for _, rec := range s.Failed {
		ids = append(ids, rec.ClipID)
	}
	return ids
}
