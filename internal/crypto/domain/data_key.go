// Package domain defines the client-side field encryption models.
//
// The hierarchy is Master Key → Data Key → field value. Data keys live wrapped in
// the key vault collection and are unwrapped into a DataKeyRing at connect time.
// Each encrypted field carries the id of the data key that protects it.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DataKey is a data encryption key stored in the key vault.
type DataKey struct {
	ID                uuid.UUID // Stored as BSON binary subtype 4
	KeyAltNames       []string  // Unique alternate names
	KeyMaterial       []byte    // Key wrapped by the master key
	Algorithm         Algorithm // AEAD used for wrapping and field encryption
	MasterKeyProvider string    // Always LocalKeyProvider
	Status            int
	CreationDate      time.Time
	UpdateDate        time.Time
	Key               []byte // Plaintext key (populated after unwrap, never persisted)
}

// EncryptionKey returns the half of the plaintext key used by the AEAD.
func (d *DataKey) EncryptionKey() []byte {
	if len(d.Key) != DataKeySize {
		return nil
	}
	return d.Key[:CipherKeySize]
}

// NonceKey returns the half of the plaintext key used to derive deterministic nonces.
func (d *DataKey) NonceKey() []byte {
	if len(d.Key) != DataKeySize {
		return nil
	}
	return d.Key[CipherKeySize:]
}

// HasAltName reports whether name is one of the key's alternate names.
func (d *DataKey) HasAltName(name string) bool {
	for _, alt := range d.KeyAltNames {
		if alt == name {
			return true
		}
	}
	return false
}
