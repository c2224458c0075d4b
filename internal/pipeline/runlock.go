package pipeline

import "sync"

// RunLocks prevents two concurrent runs for the same user. Runs for
// different users are independent.
type RunLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewRunLocks returns an empty lock set.
func NewRunLocks() *RunLocks {
	return &RunLocks{active: make(map[string]struct{})}
}

// TryAcquire claims the user's run slot. Returns false if a run is already
// active for that user.
func (l *RunLocks) TryAcquire(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.active[userID]; ok {
		return false
	}
	l.active[userID] = struct{}{}
	return true
}

// Release frees the user's run slot. Safe to call for a user that holds
// no slot.
func (l *RunLocks) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, userID)
}
