package domain

import (
	"sync"

	"github.com/google/uuid"
)

// DataKeyRing holds unwrapped data keys for a single encrypting connection.
type DataKeyRing struct {
	keys sync.Map // uuid.UUID -> *DataKey
}

// NewDataKeyRing builds a ring from unwrapped data keys.
func NewDataKeyRing(keys []*DataKey) *DataKeyRing {
	ring := &DataKeyRing{}
	for _, key := range keys {
		ring.keys.Store(key.ID, key)
	}
	return ring
}

// Get retrieves a data key by id.
func (r *DataKeyRing) Get(id uuid.UUID) (*DataKey, bool) {
	if key, ok := r.keys.Load(id); ok {
		return key.(*DataKey), true
	}
	return nil, false
}

// Len returns the number of keys in the ring.
func (r *DataKeyRing) Len() int {
	n := 0
	r.keys.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close zeroes every plaintext key and empties the ring.
func (r *DataKeyRing) Close() {
	r.keys.Range(func(_, value any) bool {
		if key, ok := value.(*DataKey); ok {
			Zero(key.Key)
		}
		return true
	})
	r.keys.Clear()
}
