package domain

// Algorithm represents the AEAD cipher used to wrap data keys and encrypt field values.
//
// Both algorithms use 256-bit keys, 12-byte nonces and 16-byte authentication tags:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on systems without AES-NI
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// EncryptionAlgorithm selects how a schema field is encrypted.
type EncryptionAlgorithm string

const (
	// Deterministic encryption yields equal ciphertexts for equal plaintexts,
	// so equality filters on the field keep working.
	Deterministic EncryptionAlgorithm = "deterministic"

	// Random encryption uses a fresh nonce per value. Fields encrypted this way
	// cannot be queried.
	Random EncryptionAlgorithm = "random"
)

// Code returns the byte stored in the ciphertext header for the algorithm.
func (a EncryptionAlgorithm) Code() byte {
	switch a {
	case Deterministic:
		return 1
	case Random:
		return 2
	default:
		return 0
	}
}

// EncryptionAlgorithmFromCode is the inverse of EncryptionAlgorithm.Code.
func EncryptionAlgorithmFromCode(code byte) (EncryptionAlgorithm, bool) {
	switch code {
	case 1:
		return Deterministic, true
	case 2:
		return Random, true
	default:
		return "", false
	}
}

const (
	// MasterKeySize is the exact length of a local master key.
	MasterKeySize = 96

	// DataKeySize is the plaintext length of a data key: a 32-byte field
	// encryption key followed by a 32-byte nonce derivation key.
	DataKeySize = 64

	// CipherKeySize is the key length accepted by both AEAD ciphers.
	CipherKeySize = 32

	// NonceSize is the nonce length of both AEAD ciphers.
	NonceSize = 12

	// LocalKeyProvider identifies a master key held on the local filesystem.
	LocalKeyProvider = "local"

	// DataKeyStatusActive is the status recorded for new data keys.
	DataKeyStatusActive = 0
)
