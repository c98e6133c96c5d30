package utils

import (
	"sync"
	"time"
)

type editLock struct {
	owner   string
	expires time.Time
}

// EditLockManager is the best-effort lock map behind the admin member-edit
// screen: single-process, lost on restart, TTL-bounded. It only warns staff
// about concurrent edits; the real state-conflict guards live in the
// membership handlers.
type EditLockManager struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	locks map[string]editLock
}

func NewEditLockManager(ttl time.Duration) *EditLockManager {
	return &EditLockManager{
		ttl:   ttl,
		now:   time.Now,
		locks: make(map[string]editLock),
	}
}

// Acquire takes or refreshes the lock on key for owner. When another owner
// holds an unexpired lock it returns false and that owner's id.
func (m *EditLockManager) Acquire(key, owner string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, ok := m.locks[key]; ok && l.owner != owner && now.Before(l.expires) {
		return false, l.owner
	}
	m.locks[key] = editLock{owner: owner, expires: now.Add(m.ttl)}
	return true, owner
}

// Release drops the lock if owner still holds it.
func (m *EditLockManager) Release(key, owner string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.locks[key]; ok && l.owner == owner {
		delete(m.locks, key)
		return true
	}
	return false
}
