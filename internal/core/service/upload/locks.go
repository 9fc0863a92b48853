package upload

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks hands out one RWMutex per upload session and forgets it once unused
type sessionLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	sync.RWMutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{entries: make(map[uuid.UUID]*lockEntry)}
}

func (l *sessionLocks) acquire(id uuid.UUID) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	return e
}

func (l *sessionLocks) release(id uuid.UUID, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

// RLock is taken by chunk writes, which may run in parallel
func (l *sessionLocks) RLock(id uuid.UUID) func() {
	e := l.acquire(id)
	e.RLock()
	return func() {
		e.RUnlock()
		l.release(id, e)
	}
}

// Lock is taken by finalize and cancel
func (l *sessionLocks) Lock(id uuid.UUID) func() {
	e := l.acquire(id)
	e.Lock()
	return func() {
		e.Unlock()
		l.release(id, e)
	}
}

func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
