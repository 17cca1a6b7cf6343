package application

import "sync"

// technicianLocks serialises check-then-write brackets per technician so two
// near-simultaneous requests cannot both pass the availability check before
// either commits. Locking is scoped to a single technician; requests for
// different technicians never contend (cross-technician bookings are not
// conflicts).
type technicianLocks struct {
	mu    sync.Mutex
	locks map[string]*technicianLock
}

type technicianLock struct {
	mu   sync.Mutex
	refs int
}

func newTechnicianLocks() *technicianLocks {
	return &technicianLocks{locks: make(map[string]*technicianLock)}
}

// Acquire blocks until the technician's lock is held and returns the release
// function. Lock entries are reference counted and removed once unused.
func (t *technicianLocks) Acquire(technicianID string) func() {
	if t == nil {
		return func() {}
	}

	t.mu.Lock()
	lock, ok := t.locks[technicianID]
	if !ok {
		lock = &technicianLock{}
		t.locks[technicianID] = lock
	}
	lock.refs++
	t.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		t.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(t.locks, technicianID)
		}
		t.mu.Unlock()
	}
}
