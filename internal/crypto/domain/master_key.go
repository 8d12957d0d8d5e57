package domain

import "fmt"

// MasterKey is the root key of the client-side encryption hierarchy.
//
// It wraps every data key in the key vault and never leaves the process. Losing
// it makes all encrypted fields unrecoverable.
type MasterKey struct {
	Provider string
	Key      []byte
}

// NewMasterKey validates the key length and copies the material.
func NewMasterKey(key []byte) (*MasterKey, error) {
	if len(key) != MasterKeySize {
		return nil, fmt.Errorf(
			"%w: master key must be %d bytes, got %d",
			ErrInvalidKeySize,
			MasterKeySize,
			len(key),
		)
	}

	material := make([]byte, MasterKeySize)
	copy(material, key)

	return &MasterKey{Provider: LocalKeyProvider, Key: material}, nil
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	if m == nil {
		return
	}
	Zero(m.Key)
	m.Key = nil
}
