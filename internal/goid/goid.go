// Package goid exposes the identity of the calling goroutine.
//
// The runtime does not surface goroutine ids on purpose, but an owner-checked
// reentrant lock needs a stable per-goroutine key. The id is recovered from
// the first line of the goroutine's stack trace ("goroutine N [running]:"),
// which is stable across Go versions and architectures.
//
// The cost is roughly a microsecond per call (dominated by runtime.Stack),
// which is acceptable on a path that is about to take or release a lock.
package goid

import "runtime"

// ID returns the id of the calling goroutine.
// Ids are positive and never reused while the goroutine is alive.
func ID() int64 {
	// Only the header line is needed; 64 bytes always covers it.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the numeric id from a "goroutine N [state]:" header.
// Returns 0 if the header is malformed.
func parse(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
