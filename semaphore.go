package syncx

import (
	"sync"
	"time"
)

// Semaphore is a counting permit primitive with strict FIFO hand-off.
//
// Acquire takes one permit, blocking while none are available; Release puts
// permits back and assigns them to blocked acquirers in arrival order, at
// release time, so newcomers cannot barge past queued waiters.
//
// Release is not bounded: repeated releases can drive the count past the
// construction value. Use BoundedSemaphore to have mismatched releases
// caught instead.
type Semaphore struct {
	_  noCopy
	mu sync.Mutex
	// value is the number of free permits. Invariant: value > 0 implies the
	// queue is empty, because Release drains the queue before leaving
	// permits behind.
	value int
	q     waitq
}

// NewSemaphore returns a Semaphore holding value permits.
// It panics if value is negative.
func NewSemaphore(value int) *Semaphore {
	if value < 0 {
		panic("syncx: NewSemaphore with negative value")
	}
	return &Semaphore{value: value}
}

// Acquire takes one permit, blocking until one is available.
func (s *Semaphore) Acquire() {
	s.acquireTimeout(-1)
}

// TryAcquire takes one permit without blocking, reporting success.
// The count is untouched on failure.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// AcquireTimeout takes one permit, giving up after d. On expiry the count is
// exactly as if the call had never blocked. A negative d blocks
// indefinitely.
func (s *Semaphore) AcquireTimeout(d time.Duration) bool {
	return s.acquireTimeout(d)
}

func (s *Semaphore) acquireTimeout(d time.Duration) bool {
	s.mu.Lock()
	if s.value > 0 {
		s.value--
		s.mu.Unlock()
		return true
	}
	w := newWaiter()
	s.q.enqueue(w)
	s.mu.Unlock()

	if w.parkTimeout(d) {
		return true
	}

	s.mu.Lock()
	if s.q.remove(w) {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	// Release handed us a permit before the timeout could unregister;
	// the permit is ours.
	w.park()
	return true
}

// Release puts n permits back and hands them to up to n blocked acquirers
// in FIFO order. It panics if n < 1.
func (s *Semaphore) Release(n int) {
	if n < 1 {
		panic("syncx: Semaphore.Release of non-positive count")
	}
	s.mu.Lock()
	s.releaseLocked(n)
	s.mu.Unlock()
}

// releaseLocked adds n permits and drains the queue while permits remain.
// Callers hold s.mu. Handed permits are deducted immediately, keeping the
// value>0-implies-empty-queue invariant.
func (s *Semaphore) releaseLocked(n int) {
	s.value += n
	for s.value > 0 {
		w := s.q.dequeue()
		if w == nil {
			return
		}
		s.value--
		w.wake()
	}
}

// Value returns the current number of free permits. Diagnostic: the value
// may be stale by the time the caller looks at it.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
