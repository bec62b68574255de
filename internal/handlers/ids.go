package handlers

import (
	"sync/atomic"
	"time"
)

var lastID atomic.Int64

// newID generates time-based identifiers (unix millis), bumped past the
// previous one when two records land in the same millisecond. Identifiers
// are never reused.
func newID() int64 {
	id := time.Now().UnixMilli()
	for {
		last := lastID.Load()
		if id <= last {
			id = last + 1
		}
		if lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}
