package syncx

import "time"

// Event is a resettable broadcast flag.
//
// Goroutines block in Wait until the flag is set; Set wakes all of them at
// once and lets every later Wait return immediately until Clear. The lock
// management is internal, so callers only ever deal with the flag: the
// one-flag hand-shake primitive for "the thing happened" signaling between
// many goroutines.
//
// The zero value is a cleared Event.
type Event struct {
	_    noCopy
	mu   Mutex
	cond *Cond
	flag bool
}

// NewEvent returns a new Event with the flag cleared.
func NewEvent() *Event {
	e := &Event{}
	e.cond = NewCond(&e.mu)
	return e
}

// cv returns the internal condition, creating it on first use so the zero
// value works. Callers hold e.mu.
func (e *Event) cv() *Cond {
	if e.cond == nil {
		e.cond = NewCond(&e.mu)
	}
	return e.cond
}

// IsSet reports whether the flag is set.
func (e *Event) IsSet() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flag
}

// Set raises the flag and wakes every goroutine blocked in Wait.
// Goroutines calling Wait afterwards return immediately.
func (e *Event) Set() {
	e.mu.Lock()
	e.flag = true
	e.cv().Broadcast()
	e.mu.Unlock()
}

// Clear lowers the flag. Goroutines already woken by a previous Set are
// unaffected; subsequent Waits block until the next Set.
func (e *Event) Clear() {
	e.mu.Lock()
	e.flag = false
	e.mu.Unlock()
}

// Wait blocks until the flag is set. If it is already set, Wait returns
// immediately without registering as a waiter.
func (e *Event) Wait() {
	e.waitTimeout(-1)
}

// WaitTimeout is Wait with a deadline, reporting the flag value when it
// returns — true when the flag was set, false when d elapsed first.
// A negative d means no deadline.
func (e *Event) WaitTimeout(d time.Duration) bool {
	return e.waitTimeout(d)
}

func (e *Event) waitTimeout(d time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.flag {
		return true
	}
	return e.cv().WaitFor(func() bool { return e.flag }, d)
}
