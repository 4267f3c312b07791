package say

import "sync"

// Store holds the single most recent terminal job, enabling "play again"
// without resynthesizing. It deliberately keeps no history: each record
// overwrites the previous entry in one atomic write, so readers never
// observe a torn state between status and artifact path.
type Store struct {
	mu      sync.RWMutex
	current *Job
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{}
}

// Record overwrites the current job slot.
func (s *Store) Record(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := *job
	s.current = &snapshot
}

// Current returns a copy of the most recently recorded job, or false when
// nothing has been recorded yet.
func (s *Store) Current() (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Job{}, false
	}
	return *s.current, true
}

// Clear empties the slot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
