package syncx

// BoundedSemaphore is a Semaphore whose permit count may never exceed its
// construction value.
//
// A release that would push the count past the bound panics and leaves the
// count unchanged. The point is to turn acquire/release mismatches — a
// common bug that silently inflates a plain Semaphore — into an error at
// the offending call site.
type BoundedSemaphore struct {
	Semaphore
	initial int
}

// NewBoundedSemaphore returns a BoundedSemaphore holding value permits,
// with value recorded as the permanent upper bound.
// It panics if value is negative.
func NewBoundedSemaphore(value int) *BoundedSemaphore {
	if value < 0 {
		panic("syncx: NewBoundedSemaphore with negative value")
	}
	return &BoundedSemaphore{
		Semaphore: Semaphore{value: value},
		initial:   value,
	}
}

// Release puts n permits back, panicking if that would raise the count past
// the construction value. On panic the count is untouched.
// It also panics if n < 1.
func (s *BoundedSemaphore) Release(n int) {
	if n < 1 {
		panic("syncx: BoundedSemaphore.Release of non-positive count")
	}
	s.mu.Lock()
	if s.value+n > s.initial {
		s.mu.Unlock()
		panic("syncx: BoundedSemaphore released too many times")
	}
	s.releaseLocked(n)
	s.mu.Unlock()
}

// Bound returns the permit ceiling fixed at construction.
func (s *BoundedSemaphore) Bound() int {
	return s.initial
}
