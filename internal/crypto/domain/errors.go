package domain

import (
	"github.com/allisson/inkleaf/internal/errors"
)

// Cryptographic error definitions.
//
// These wrap the standard errors from internal/errors so the HTTP layer can map
// them without knowing about encryption.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD or field algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key of the wrong length was supplied.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates authentication of a ciphertext failed.
	//
	// The specific cause (wrong key, tampering, corruption) is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidCiphertext indicates an encrypted value does not follow the envelope layout.
	ErrInvalidCiphertext = errors.Wrap(errors.ErrInvalidInput, "invalid ciphertext")

	// ErrKeyUnavailable indicates the master key could not be loaded.
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "master key unavailable")

	// ErrUnsupportedKMSScheme indicates KMS_KEY_URI names no known KMS provider.
	ErrUnsupportedKMSScheme = errors.Wrap(errors.ErrInvalidInput, "unsupported KMS key URI scheme")

	// ErrEncryptionNotConfigured indicates required encryption settings are missing.
	ErrEncryptionNotConfigured = errors.Wrap(errors.ErrUnavailable, "encryption not configured")

	// ErrDuplicateAltName indicates a data key with the same alternate name already exists.
	ErrDuplicateAltName = errors.Wrap(errors.ErrConflict, "duplicate data key alt name")

	// ErrDataKeyNotFound indicates a referenced data key is absent from the key vault.
	ErrDataKeyNotFound = errors.Wrap(errors.ErrNotFound, "data key not found")

	// ErrInvalidSchema indicates an encryption schema is malformed.
	ErrInvalidSchema = errors.Wrap(errors.ErrInvalidInput, "invalid encryption schema")

	// ErrFieldTypeMismatch indicates a value does not have the BSON type its schema field declares.
	ErrFieldTypeMismatch = errors.Wrap(errors.ErrInvalidInput, "encrypted field type mismatch")

	// ErrFieldNotQueryable indicates a filter targets a randomly encrypted field.
	ErrFieldNotQueryable = errors.Wrap(errors.ErrInvalidInput, "field encrypted with random algorithm is not queryable")
)
