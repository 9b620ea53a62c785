package syncx

import (
	"sync/atomic"
	"time"

	"github.com/zhengtong0898/syncx/internal/goid"
)

// ReentrantMutex is an exclusive lock that its owning goroutine may acquire
// repeatedly without deadlocking. Ownership is tracked as a goroutine id
// plus a depth counter; the lock is released for real only when Unlock has
// been called as many times as Lock.
//
// Unlike Mutex, Unlock is owner-checked: unlocking from a goroutine that
// does not hold the lock, or past depth zero, panics.
//
// The zero value is an unlocked ReentrantMutex.
type ReentrantMutex struct {
	_     noCopy
	inner Mutex
	// owner is the id of the holding goroutine, 0 when unheld. It is read
	// without the inner lock (the fast reentrant path), so access is atomic.
	owner atomic.Int64
	// depth is touched only by the owner while owning, so plain reads and
	// writes are safe.
	depth uint32
}

// Lock acquires m, blocking until it is available.
// If the calling goroutine already holds m, the depth is incremented and
// Lock returns immediately; there is no limit on nesting.
func (m *ReentrantMutex) Lock() {
	m.lockTimeout(-1)
}

// TryLock attempts to acquire m without blocking.
// An owner re-acquiring always succeeds.
func (m *ReentrantMutex) TryLock() bool {
	id := goid.ID()
	if m.owner.Load() == id {
		m.depth++
		return true
	}
	if !m.inner.TryLock() {
		return false
	}
	m.owner.Store(id)
	m.depth = 1
	return true
}

// LockTimeout acquires m, giving up after d. A negative d blocks
// indefinitely. On expiry the lock state is untouched.
func (m *ReentrantMutex) LockTimeout(d time.Duration) bool {
	return m.lockTimeout(d)
}

func (m *ReentrantMutex) lockTimeout(d time.Duration) bool {
	id := goid.ID()
	if m.owner.Load() == id {
		m.depth++
		return true
	}
	if !m.inner.lockTimeout(d) {
		return false
	}
	m.owner.Store(id)
	m.depth = 1
	return true
}

// Unlock decrements the depth, releasing m (and waking the oldest blocked
// acquirer) when it reaches zero.
//
// Unlock panics if the calling goroutine does not hold m. Over-releasing is
// caught the same way: once the depth reaches zero the caller is no longer
// the owner.
func (m *ReentrantMutex) Unlock() {
	if m.owner.Load() != goid.ID() {
		panic("syncx: Unlock of ReentrantMutex not held by current goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.inner.Unlock()
	}
}

// Held reports whether the calling goroutine holds m.
func (m *ReentrantMutex) Held() bool {
	return m.owner.Load() == goid.ID()
}

// Depth returns the nesting depth as seen by the calling goroutine:
// zero unless the caller is the owner.
func (m *ReentrantMutex) Depth() int {
	if !m.Held() {
		return 0
	}
	return int(m.depth)
}

// releaseSave fully releases m regardless of depth and returns the depth so
// acquireRestore can rebuild it. Only a Cond calls these, with ownership
// already verified.
func (m *ReentrantMutex) releaseSave() uint32 {
	d := m.depth
	m.depth = 0
	m.owner.Store(0)
	m.inner.Unlock()
	return d
}

func (m *ReentrantMutex) acquireRestore(depth uint32) {
	m.inner.Lock()
	m.owner.Store(goid.ID())
	m.depth = depth
}

func (m *ReentrantMutex) held() bool {
	return m.Held()
}
