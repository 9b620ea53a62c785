package syncx

import (
	"time"

	"github.com/llxisdsh/pb"
)

// MutexGroup provides a Mutex per key (string, int, struct, ...) without
// pre-allocating anything.
//
// Locks are created on first use and removed again once unlocked with no
// one waiting, so the group's memory footprint follows the working set of
// keys, not the key space. Entries are reference-counted; the count is
// mutated only inside the map's per-key critical section.
//
// Usage:
//
//	var group syncx.MutexGroup[string]
//	group.Lock("user-123")
//	// critical section for user-123
//	group.Unlock("user-123")
type MutexGroup[K comparable] struct {
	_ noCopy
	m pb.MapOf[K, *mutexGroupEntry]
}

type mutexGroupEntry struct {
	mu  Mutex
	ref int32
}

// Lock acquires the mutex for k, blocking until it is available.
func (g *MutexGroup[K]) Lock(k K) {
	g.retain(k).mu.Lock()
}

// TryLock attempts to acquire the mutex for k without blocking,
// reporting whether it was taken.
func (g *MutexGroup[K]) TryLock(k K) bool {
	if g.retain(k).mu.TryLock() {
		return true
	}
	g.release(k)
	return false
}

// LockTimeout acquires the mutex for k, giving up after d.
// A negative d blocks indefinitely.
func (g *MutexGroup[K]) LockTimeout(k K, d time.Duration) bool {
	if g.retain(k).mu.LockTimeout(d) {
		return true
	}
	g.release(k)
	return false
}

// Unlock releases the mutex for k. The entry is dropped from the group once
// no goroutine holds or waits for it.
func (g *MutexGroup[K]) Unlock(k K) {
	e, ok := g.m.Load(k)
	if !ok {
		return
	}
	e.mu.Unlock()
	g.release(k)
}

// retain bumps k's refcount, creating the entry on first use.
func (g *MutexGroup[K]) retain(k K) *mutexGroupEntry {
	e, _ := g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *mutexGroupEntry]) (*pb.EntryOf[K, *mutexGroupEntry], *mutexGroupEntry, bool) {
			if l != nil {
				l.Value.ref++
				return l, l.Value, true
			}
			e := &mutexGroupEntry{ref: 1}
			return &pb.EntryOf[K, *mutexGroupEntry]{Value: e}, e, false
		},
	)
	return e
}

// release drops one reference to k, deleting the entry at zero.
func (g *MutexGroup[K]) release(k K) {
	g.m.ProcessEntry(
		k,
		func(l *pb.EntryOf[K, *mutexGroupEntry]) (*pb.EntryOf[K, *mutexGroupEntry], *mutexGroupEntry, bool) {
			if l == nil {
				return nil, nil, false
			}
			l.Value.ref--
			if l.Value.ref <= 0 {
				return nil, nil, false
			}
			return l, l.Value, true
		},
	)
}
