package learning

import "sync"

// StatusStore is a session-scoped cache mapping plan IDs to their last
// settled status. The most recently settled write for a key wins,
// regardless of when the resolving call was issued. A stale in-flight
// resolve can therefore overwrite a fresher result if callers do not
// await in issue order; there is no version stamping to prevent it.
type StatusStore struct {
	mu       sync.Mutex
	statuses map[string]Status
}

// NewStatusStore creates an empty status store.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: make(map[string]Status),
	}
}

// Get returns the cached status for planID, or StatusUnknown when the
// plan has never been resolved.
func (s *StatusStore) Get(planID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[planID]; ok {
		return st
	}
	return StatusUnknown
}

// Set records the status for planID, overwriting any previous value.
func (s *StatusStore) Set(planID string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[planID] = status
}

// Remove drops the cached status for planID. Used when a plan leaves the
// active list entirely.
func (s *StatusStore) Remove(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, planID)
}
