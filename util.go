package syncx

import "sync"

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
//
// Note that it must not be embedded, due to the Lock and Unlock methods.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// With runs fn while holding l, releasing it on every exit path including
// panics. It is a convenience layered over Lock/Unlock; the primitives'
// own contracts are unchanged.
//
//	syncx.With(&mu, func() {
//		// critical section
//	})
func With(l sync.Locker, fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}
