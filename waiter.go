package syncx

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// wallClock supplies the timers behind every timed acquire and wait.
// Tests swap in a fake clock to drive timeouts deterministically.
var wallClock clockwork.Clock = clockwork.NewRealClock()

// waiter is the parking token of one blocked goroutine.
//
// The token is a buffered channel so that wake never blocks the notifier:
// a signal sent to a waiter that is concurrently timing out simply sits in
// the buffer until the waiter collects it. A waiter is used at most once.
type waiter struct {
	next  *waiter
	ready chan struct{}
}

func newWaiter() *waiter {
	return &waiter{ready: make(chan struct{}, 1)}
}

// park blocks until wake is called.
func (w *waiter) park() {
	<-w.ready
}

// parkTimeout blocks until wake is called or d elapses, reporting whether
// the waiter was woken. d < 0 means no deadline.
func (w *waiter) parkTimeout(d time.Duration) bool {
	if d < 0 {
		<-w.ready
		return true
	}
	// An already-delivered wakeup beats any deadline, including d = 0.
	select {
	case <-w.ready:
		return true
	default:
	}
	t := wallClock.NewTimer(d)
	defer t.Stop()
	select {
	case <-w.ready:
		return true
	case <-t.Chan():
		return false
	}
}

// wake releases the parked goroutine. Never blocks.
func (w *waiter) wake() {
	w.ready <- struct{}{}
}

// waitq is an intrusive FIFO queue of waiters.
//
// A waitq is always mutated under the exclusion window of the primitive that
// owns it: the internal mutex for Mutex and Semaphore, the bound lock for
// Cond. Enqueueing before that window closes is what makes the
// register-then-block sequence atomic with respect to notifiers.
type waitq struct {
	head, tail *waiter
}

func (q *waitq) empty() bool {
	return q.head == nil
}

func (q *waitq) enqueue(w *waiter) {
	if q.tail == nil {
		q.head = w
	} else {
		q.tail.next = w
	}
	q.tail = w
}

// dequeue pops the oldest waiter, or nil if the queue is empty.
func (q *waitq) dequeue() *waiter {
	w := q.head
	if w == nil {
		return nil
	}
	q.head = w.next
	if q.head == nil {
		q.tail = nil
	}
	w.next = nil
	return w
}

// remove unlinks w wherever it sits, reporting whether it was still queued.
// A false return means a notifier already dequeued w and its wakeup is
// delivered or in flight.
func (q *waitq) remove(w *waiter) bool {
	var prev *waiter
	for cur := q.head; cur != nil; cur = cur.next {
		if cur != w {
			prev = cur
			continue
		}
		if prev == nil {
			q.head = cur.next
		} else {
			prev.next = cur.next
		}
		if q.tail == cur {
			q.tail = prev
		}
		cur.next = nil
		return true
	}
	return false
}
