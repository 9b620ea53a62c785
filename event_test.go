package syncx

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestEventSimple(t *testing.T) {
	e := NewEvent()

	if e.IsSet() {
		t.Error("fresh event reports set")
	}

	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Error("Wait returned before Set")
	case <-time.After(10 * time.Millisecond):
	}

	e.Set()
	if !e.IsSet() {
		t.Error("IsSet() = false after Set")
	}
	<-done

	// Wait after Set: immediate, no waiter registered.
	e.Wait()
	if got := e.cond.Waiters(); got != 0 {
		t.Errorf("Wait on a set event registered %d waiters", got)
	}

	e.Clear()
	if e.IsSet() {
		t.Error("IsSet() = true after Clear")
	}
}

func TestEventBroadcast(t *testing.T) {
	e := NewEvent()
	const n = 10
	var woken atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			e.Wait()
			woken.Add(1)
		}()
	}

	for e.cond.Waiters() != n {
		time.Sleep(time.Millisecond)
	}
	if got := woken.Load(); got != 0 {
		t.Fatalf("%d waiters passed a cleared event", got)
	}

	e.Set()
	wg.Wait()
	if got := woken.Load(); got != n {
		t.Fatalf("woken = %d, want %d", got, n)
	}
}

func TestEventWaitTimeout(t *testing.T) {
	fc := clockwork.NewFakeClock()
	swapClock(t, fc)

	e := NewEvent()
	got := make(chan bool)
	go func() {
		got <- e.WaitTimeout(time.Second)
	}()

	fc.BlockUntil(1)
	fc.Advance(time.Second)
	if <-got {
		t.Fatal("WaitTimeout reported set after expiring on a cleared event")
	}

	e.Set()
	if !e.WaitTimeout(0) {
		t.Fatal("WaitTimeout(0) on a set event reported false")
	}
}

func TestEventClearDoesNotRecallWoken(t *testing.T) {
	e := NewEvent()

	released := make(chan struct{})
	go func() {
		e.Wait()
		close(released)
	}()

	for e.cond.Waiters() != 1 {
		time.Sleep(time.Millisecond)
	}
	e.Set()
	<-released // already woken; the Clear below cannot take that back
	e.Clear()

	blocked := make(chan struct{})
	go func() {
		e.Wait()
		close(blocked)
	}()
	select {
	case <-blocked:
		t.Fatal("Wait returned on a cleared event")
	case <-time.After(10 * time.Millisecond):
	}
	e.Set()
	<-blocked
}

func TestEventZeroValue(t *testing.T) {
	var e Event
	if e.IsSet() {
		t.Fatal("zero-value event reports set")
	}
	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()
	for {
		e.mu.Lock()
		n := 0
		if e.cond != nil {
			n = e.cond.Waiters()
		}
		e.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	e.Set()
	<-done
}

func TestEventSetClearCycles(t *testing.T) {
	e := NewEvent()
	for range 100 {
		e.Set()
		if !e.IsSet() {
			t.Fatal("flag lost")
		}
		e.Clear()
		if e.IsSet() {
			t.Fatal("flag stuck")
		}
	}
	if got := e.cond.Waiters(); got != 0 {
		t.Fatalf("leaked %d waiters across cycles", got)
	}
}
