package domain

import (
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ciphertextHeaderSize = 1 + 16 + 1
	aeadTagSize          = 16
)

// EncryptedValue is the payload of a BSON binary subtype 6 field:
//
//	[algorithm code][16-byte key id][original bson type][12-byte nonce][ciphertext+tag]
//
// The header (first 18 bytes) is authenticated as associated data.
type EncryptedValue struct {
	Algorithm  EncryptionAlgorithm
	KeyID      uuid.UUID
	ValueType  bson.Type
	Nonce      []byte
	Ciphertext []byte
}

// Header returns the authenticated header bytes.
func (v *EncryptedValue) Header() []byte {
	header := make([]byte, 0, ciphertextHeaderSize)
	header = append(header, v.Algorithm.Code())
	header = append(header, v.KeyID[:]...)
	header = append(header, byte(v.ValueType))
	return header
}

// Bytes serializes the value.
func (v *EncryptedValue) Bytes() []byte {
	out := make([]byte, 0, ciphertextHeaderSize+len(v.Nonce)+len(v.Ciphertext))
	out = append(out, v.Header()...)
	out = append(out, v.Nonce...)
	out = append(out, v.Ciphertext...)
	return out
}

// Binary wraps the serialized value as BSON binary subtype 6.
func (v *EncryptedValue) Binary() bson.Binary {
	return bson.Binary{Subtype: bson.TypeBinaryEncrypted, Data: v.Bytes()}
}

// ParseEncryptedValue parses the payload of a subtype 6 binary.
func ParseEncryptedValue(data []byte) (*EncryptedValue, error) {
	if len(data) < ciphertextHeaderSize+NonceSize+aeadTagSize {
		return nil, fmt.Errorf("%w: payload too short", ErrInvalidCiphertext)
	}

	alg, ok := EncryptionAlgorithmFromCode(data[0])
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm code %d", ErrInvalidCiphertext, data[0])
	}

	keyID, err := uuid.FromBytes(data[1:17])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	valueType := bson.Type(data[17])
	if !valueType.IsValid() {
		return nil, fmt.Errorf("%w: unknown bson type %d", ErrInvalidCiphertext, data[17])
	}

	rest := data[ciphertextHeaderSize:]
	return &EncryptedValue{
		Algorithm:  alg,
		KeyID:      keyID,
		ValueType:  valueType,
		Nonce:      rest[:NonceSize],
		Ciphertext: rest[NonceSize:],
	}, nil
}

// IsEncryptedBinary reports whether v is a BSON binary subtype 6 value.
func IsEncryptedBinary(v any) (bson.Binary, bool) {
	switch b := v.(type) {
	case bson.Binary:
		return b, b.Subtype == bson.TypeBinaryEncrypted
	case *bson.Binary:
		if b == nil {
			return bson.Binary{}, false
		}
		return *b, b.Subtype == bson.TypeBinaryEncrypted
	}
	return bson.Binary{}, false
}
