package syncx

import (
	"sync"
	"testing"
	"time"
)

func TestMutexGroupBasic(t *testing.T) {
	var g MutexGroup[string]
	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	counter := 0
	for range n {
		go func() {
			defer wg.Done()
			g.Lock("k")
			counter++
			g.Unlock("k")
		}()
	}
	wg.Wait()
	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestMutexGroupIndependentKeys(t *testing.T) {
	var g MutexGroup[int]
	g.Lock(1)
	// A different key must not be affected.
	if !g.TryLock(2) {
		t.Fatal("TryLock on an unrelated key failed")
	}
	g.Unlock(2)
	g.Unlock(1)
}

func TestMutexGroupTryLock(t *testing.T) {
	var g MutexGroup[string]
	g.Lock("k")
	if g.TryLock("k") {
		t.Fatal("TryLock succeeded on a held key")
	}
	g.Unlock("k")
	if !g.TryLock("k") {
		t.Fatal("TryLock failed on a released key")
	}
	g.Unlock("k")
}

func TestMutexGroupLockTimeout(t *testing.T) {
	var g MutexGroup[string]
	g.Lock("k")
	if g.LockTimeout("k", 10*time.Millisecond) {
		t.Fatal("LockTimeout succeeded on a held key")
	}
	g.Unlock("k")
	if !g.LockTimeout("k", 10*time.Millisecond) {
		t.Fatal("LockTimeout failed on a free key")
	}
	g.Unlock("k")
}

func TestMutexGroupRefCounting(t *testing.T) {
	var g MutexGroup[int]

	g.Lock(1)
	if _, ok := g.m.Load(1); !ok {
		t.Fatal("entry missing while key is held")
	}
	g.Unlock(1)
	if _, ok := g.m.Load(1); ok {
		t.Fatal("entry not cleaned up after last Unlock")
	}

	// A failed TryLock must not pin the entry either.
	g.Lock(2)
	g.TryLock(2)
	g.Unlock(2)
	if _, ok := g.m.Load(2); ok {
		t.Fatal("entry leaked by failed TryLock")
	}
}
