package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// FieldEncrypterService encrypts document values with the data keys of a ring.
type FieldEncrypterService struct {
	ring        *cryptoDomain.DataKeyRing
	aeadManager AEADManager
}

// NewFieldEncrypter creates a FieldEncrypterService over an unwrapped key ring.
func NewFieldEncrypter(ring *cryptoDomain.DataKeyRing, aeadManager AEADManager) *FieldEncrypterService {
	return &FieldEncrypterService{
		ring:        ring,
		aeadManager: aeadManager,
	}
}

// EncryptValue serializes value as a BSON value, checks it against the field's
// declared type and seals it into a subtype 6 binary.
func (f *FieldEncrypterService) EncryptValue(value any, spec cryptoDomain.FieldSpec) (bson.Binary, error) {
	if value == nil {
		return bson.Binary{}, fmt.Errorf("%w: null value", cryptoDomain.ErrFieldTypeMismatch)
	}

	valueType, data, err := bson.MarshalValue(value)
	if err != nil {
		return bson.Binary{}, fmt.Errorf("failed to marshal field value: %w", err)
	}
	if valueType != spec.BSONType {
		return bson.Binary{}, fmt.Errorf(
			"%w: expected %s, got %s",
			cryptoDomain.ErrFieldTypeMismatch,
			spec.BSONType,
			valueType,
		)
	}

	key, ok := f.ring.Get(spec.KeyID)
	if !ok {
		return bson.Binary{}, fmt.Errorf("%w: %s", cryptoDomain.ErrDataKeyNotFound, spec.KeyID)
	}

	aead, err := f.aeadManager.CreateCipher(key.EncryptionKey(), key.Algorithm)
	if err != nil {
		return bson.Binary{}, err
	}

	ev := &cryptoDomain.EncryptedValue{
		Algorithm: spec.Algorithm,
		KeyID:     spec.KeyID,
		ValueType: valueType,
	}
	header := ev.Header()

	switch spec.Algorithm {
	case cryptoDomain.Deterministic:
		ev.Nonce = deterministicNonce(key.NonceKey(), header, data)
		ev.Ciphertext, err = aead.EncryptWithNonce(data, ev.Nonce, header)
	case cryptoDomain.Random:
		ev.Ciphertext, ev.Nonce, err = aead.Encrypt(data, header)
	default:
		return bson.Binary{}, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if err != nil {
		return bson.Binary{}, fmt.Errorf("failed to encrypt field value: %w", err)
	}

	return ev.Binary(), nil
}

// DecryptValue opens a subtype 6 binary and decodes the original value.
// Strings decode as string, arrays as bson.A and documents as bson.D.
func (f *FieldEncrypterService) DecryptValue(bin bson.Binary) (any, error) {
	if bin.Subtype != bson.TypeBinaryEncrypted {
		return nil, fmt.Errorf("%w: binary subtype %d", cryptoDomain.ErrInvalidCiphertext, bin.Subtype)
	}

	value, err := cryptoDomain.ParseEncryptedValue(bin.Data)
	if err != nil {
		return nil, err
	}

	key, ok := f.ring.Get(value.KeyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrDataKeyNotFound, value.KeyID)
	}

	aead, err := f.aeadManager.CreateCipher(key.EncryptionKey(), key.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(value.Ciphertext, value.Nonce, value.Header())
	if err != nil {
		return nil, err
	}

	var out any
	if err := bson.UnmarshalValue(value.ValueType, plaintext, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidCiphertext, err)
	}
	return out, nil
}

func deterministicNonce(nonceKey, header, plaintext []byte) []byte {
	mac := hmac.New(sha256.New, nonceKey)
	mac.Write(header)
	mac.Write(plaintext)
	return mac.Sum(nil)[:cryptoDomain.NonceSize]
}
