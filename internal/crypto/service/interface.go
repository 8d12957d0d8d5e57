// Package service implements the cryptographic primitives behind client-side
// field encryption: AEAD ciphers, data key wrapping, master key loading and
// per-value field encryption.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// AEAD is an authenticated cipher bound to a single key.
type AEAD interface {
	// Encrypt seals plaintext under a fresh random nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// EncryptWithNonce seals plaintext under a caller-supplied nonce. Callers must
	// never reuse a nonce for different plaintexts under the same key.
	EncryptWithNonce(plaintext, nonce, aad []byte) ([]byte, error)

	// Decrypt opens a ciphertext produced by Encrypt or EncryptWithNonce.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD ciphers by algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyManager generates data keys and wraps/unwraps them with the master key.
type KeyManager interface {
	// CreateDataKey generates a fresh data key wrapped by masterKey.
	// The returned key has both KeyMaterial and the plaintext Key set.
	CreateDataKey(
		masterKey *cryptoDomain.MasterKey,
		alg cryptoDomain.Algorithm,
		altNames []string,
	) (*cryptoDomain.DataKey, error)

	// UnwrapDataKey returns the plaintext of a stored data key.
	UnwrapDataKey(dataKey *cryptoDomain.DataKey, masterKey *cryptoDomain.MasterKey) ([]byte, error)
}

// KeyProvider loads the master key.
type KeyProvider interface {
	LoadMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, error)
}

// FieldEncrypter encrypts and decrypts individual document values.
type FieldEncrypter interface {
	// EncryptValue encrypts a value according to its schema field spec.
	EncryptValue(value any, spec cryptoDomain.FieldSpec) (bson.Binary, error)

	// DecryptValue decrypts a BSON binary subtype 6 value back to its original Go value.
	DecryptValue(bin bson.Binary) (any, error)
}
