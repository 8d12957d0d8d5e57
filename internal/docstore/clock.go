package docstore

import (
	"sync/atomic"
	"time"
)

var lastMillis atomic.Int64

// Now returns the current UTC time at BSON datetime precision (milliseconds).
// Successive calls within the process are strictly increasing, so a document
// updated in the same millisecond it was created still gets a later updatedAt.
func Now() time.Time {
	for {
		prev := lastMillis.Load()
		next := time.Now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if lastMillis.CompareAndSwap(prev, next) {
			return time.UnixMilli(next).UTC()
		}
	}
}
