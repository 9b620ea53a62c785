package syncx

import (
	"sync"
	"sync/atomic"
	"time"
)

// Lock is the exclusive-lock contract a Cond binds to.
// It is satisfied by *Mutex and *ReentrantMutex only: a Cond must be able to
// fully drop the lock (all reentrant levels) around a wait and retake it
// afterwards, which requires cooperation beyond sync.Locker.
type Lock interface {
	sync.Locker
	TryLock() bool
	LockTimeout(d time.Duration) bool

	// releaseSave fully releases the lock and returns the reentrant depth;
	// acquireRestore retakes it at that depth.
	releaseSave() uint32
	acquireRestore(depth uint32)
	// held reports whether the lock appears held by the caller. For Mutex,
	// which has no owner, it degrades to "held by someone".
	held() bool
}

// Cond is a condition variable bound to a Lock.
//
// The caller must hold the bound lock around Wait, Notify and Broadcast.
// Waiters are registered while the lock is held and parked after it is
// released, so a notification issued under the lock can never slip between
// a waiter releasing the lock and becoming visible — the lost-wakeup window
// does not exist.
//
// Waiters are woken in FIFO order. A wakeup does not itself transfer the
// bound lock: each woken goroutine reacquires it before Wait returns, one at
// a time.
type Cond struct {
	_ noCopy

	// L is the bound lock. It is exported for the same reason sync.Cond's
	// L is: callers lock and unlock it around waits and notifies.
	L Lock

	// q holds the parked waiters, mutated only while L is held (timed-out
	// waiters reacquire L before unregistering).
	q waitq
	// n mirrors the queue length so Waiters stays safe without L.
	n atomic.Int32
}

// NewCond returns a Cond bound to l. A nil l binds a fresh ReentrantMutex.
func NewCond(l Lock) *Cond {
	if l == nil {
		l = new(ReentrantMutex)
	}
	return &Cond{L: l}
}

// Lock acquires the bound lock.
func (c *Cond) Lock() { c.L.Lock() }

// Unlock releases the bound lock.
func (c *Cond) Unlock() { c.L.Unlock() }

// Wait blocks until woken by Notify or Broadcast.
//
// The caller must hold the bound lock. Wait releases it (through all
// reentrant levels) while blocked and reacquires it, restoring the previous
// depth, before returning.
func (c *Cond) Wait() {
	c.waitTimeout(-1)
}

// WaitTimeout is Wait with a deadline. It reports whether the waiter was
// woken by a notification; false means the timeout elapsed first and the
// waiter unregistered itself. A negative d means no deadline.
//
// A notification that races the timeout is kept, not dropped: if a notifier
// picked this waiter before it could unregister, WaitTimeout reports true.
func (c *Cond) WaitTimeout(d time.Duration) bool {
	return c.waitTimeout(d)
}

func (c *Cond) waitTimeout(d time.Duration) bool {
	if !c.L.held() {
		panic("syncx: Cond.Wait without holding the bound lock")
	}
	w := newWaiter()
	c.q.enqueue(w)
	c.n.Add(1)

	saved := c.L.releaseSave()
	woken := w.parkTimeout(d)
	c.L.acquireRestore(saved)

	if woken {
		return true
	}
	if c.q.remove(w) {
		c.n.Add(-1)
		return false
	}
	// A notifier dequeued us after the timer fired; count it as a wakeup so
	// the notification is not lost.
	return true
}

// WaitFor blocks until pred returns true or d elapses, returning the final
// predicate value. pred is evaluated under the bound lock, first immediately
// and then after every wakeup, which also absorbs spurious wakeups.
// A negative d means no deadline.
func (c *Cond) WaitFor(pred func() bool, d time.Duration) bool {
	var deadline time.Time
	if d >= 0 {
		deadline = wallClock.Now().Add(d)
	}
	ok := pred()
	for !ok {
		if d < 0 {
			c.Wait()
		} else {
			remaining := deadline.Sub(wallClock.Now())
			if remaining <= 0 {
				break
			}
			c.WaitTimeout(remaining)
		}
		ok = pred()
	}
	return ok
}

// Notify wakes up to n waiters in FIFO order. Waking fewer than n is not an
// error; a Notify on an empty Cond is a no-op.
//
// The caller must hold the bound lock, and keeps holding it: the woken
// goroutines reacquire it only after the caller releases.
func (c *Cond) Notify(n int) {
	if !c.L.held() {
		panic("syncx: Cond.Notify without holding the bound lock")
	}
	for ; n > 0; n-- {
		w := c.q.dequeue()
		if w == nil {
			return
		}
		c.n.Add(-1)
		w.wake()
	}
}

// Signal wakes the longest-waiting goroutine, if any.
func (c *Cond) Signal() {
	c.Notify(1)
}

// Broadcast wakes all waiters. Their subsequent resumption order is
// unspecified beyond each reacquiring the bound lock in turn.
func (c *Cond) Broadcast() {
	if !c.L.held() {
		panic("syncx: Cond.Broadcast without holding the bound lock")
	}
	for {
		w := c.q.dequeue()
		if w == nil {
			return
		}
		c.n.Add(-1)
		w.wake()
	}
}

// Waiters returns the number of goroutines currently blocked in a wait on c.
// It is a diagnostic hook; the value is exact while the bound lock is held.
func (c *Cond) Waiters() int {
	return int(c.n.Load())
}
