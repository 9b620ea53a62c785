package syncx

import (
	"sync"
	"time"
)

// Mutex is a non-reentrant exclusive lock with FIFO hand-off.
//
// Unlike sync.Mutex it supports timed and non-blocking acquisition, exposes
// its locked state, and guarantees that blocked acquirers are granted the
// lock in arrival order: Unlock passes ownership directly to the oldest
// waiter instead of letting newcomers barge.
//
// Unlock may be called from any goroutine, not just the one that locked it.
// That permits cross-goroutine hand-over patterns (lock in a producer,
// unlock in a consumer) at the cost of misuse safety; use ReentrantMutex
// when an owner check is wanted.
//
// The zero value is an unlocked Mutex.
type Mutex struct {
	_      noCopy
	mu     sync.Mutex
	locked bool
	q      waitq
}

// Lock acquires m, blocking until it is available.
func (m *Mutex) Lock() {
	m.lockTimeout(-1)
}

// TryLock attempts to acquire m without blocking.
// Reports whether the lock was taken.
func (m *Mutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	return true
}

// LockTimeout acquires m, giving up after d. It reports whether the lock was
// taken; on expiry m is left exactly as if the call had never blocked.
// A negative d blocks indefinitely.
func (m *Mutex) LockTimeout(d time.Duration) bool {
	return m.lockTimeout(d)
}

func (m *Mutex) lockTimeout(d time.Duration) bool {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()
		return true
	}
	w := newWaiter()
	m.q.enqueue(w)
	m.mu.Unlock()

	if w.parkTimeout(d) {
		return true
	}

	// Timed out. Unlock may have dequeued us in the meantime; in that case
	// ownership is already ours and the timeout loses the race.
	m.mu.Lock()
	if m.q.remove(w) {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()
	w.park()
	return true
}

// Unlock releases m. If goroutines are blocked in Lock, ownership passes
// directly to the one that has waited longest; the lock is never observably
// free while waiters exist.
//
// Unlock panics if m is not locked.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	if !m.locked {
		m.mu.Unlock()
		panic("syncx: Unlock of unlocked Mutex")
	}
	if w := m.q.dequeue(); w != nil {
		// Hand-off: locked stays true for the new owner.
		m.mu.Unlock()
		w.wake()
		return
	}
	m.locked = false
	m.mu.Unlock()
}

// Locked reports whether m is currently held.
func (m *Mutex) Locked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// releaseSave and acquireRestore let a Cond fully drop and retake the lock
// around a wait. For a plain Mutex the depth is always 1.
func (m *Mutex) releaseSave() uint32 {
	m.Unlock()
	return 1
}

func (m *Mutex) acquireRestore(uint32) {
	m.Lock()
}

// held is the best a lock without an owner can answer: whether it is locked
// at all. Cond uses it as a misuse tripwire, not a proof of ownership.
func (m *Mutex) held() bool {
	return m.Locked()
}
