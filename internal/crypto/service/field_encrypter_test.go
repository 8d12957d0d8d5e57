package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

func newTestRing(t *testing.T, alg cryptoDomain.Algorithm) (*cryptoDomain.DataKeyRing, uuid.UUID) {
	t.Helper()
	km := NewKeyManager(NewAEADManager())
	dataKey, err := km.CreateDataKey(newTestMasterKey(t), alg, []string{"vaultNotesKey"})
	require.NoError(t, err)
	return cryptoDomain.NewDataKeyRing([]*cryptoDomain.DataKey{dataKey}), dataKey.ID
}

func TestFieldEncrypterService_Random(t *testing.T) {
	ring, keyID := newTestRing(t, cryptoDomain.AESGCM)
	encrypter := NewFieldEncrypter(ring, NewAEADManager())
	spec := cryptoDomain.FieldSpec{BSONType: bson.TypeString, Algorithm: cryptoDomain.Random, KeyID: keyID}

	first, err := encrypter.EncryptValue("secret content", spec)
	require.NoError(t, err)
	second, err := encrypter.EncryptValue("secret content", spec)
	require.NoError(t, err)

	assert.Equal(t, bson.TypeBinaryEncrypted, first.Subtype)
	assert.NotEqual(t, first.Data, second.Data)
	assert.NotContains(t, string(first.Data), "secret content")

	decrypted, err := encrypter.DecryptValue(first)
	require.NoError(t, err)
	assert.Equal(t, "secret content", decrypted)
}

func TestFieldEncrypterService_Deterministic(t *testing.T) {
	ring, keyID := newTestRing(t, cryptoDomain.ChaCha20)
	encrypter := NewFieldEncrypter(ring, NewAEADManager())
	spec := cryptoDomain.FieldSpec{BSONType: bson.TypeString, Algorithm: cryptoDomain.Deterministic, KeyID: keyID}

	first, err := encrypter.EncryptValue("123-45-6789", spec)
	require.NoError(t, err)
	second, err := encrypter.EncryptValue("123-45-6789", spec)
	require.NoError(t, err)
	other, err := encrypter.EncryptValue("987-65-4321", spec)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.NotEqual(t, first.Data, other.Data)

	decrypted, err := encrypter.DecryptValue(second)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", decrypted)
}

func TestFieldEncrypterService_Array(t *testing.T) {
	ring, keyID := newTestRing(t, cryptoDomain.AESGCM)
	encrypter := NewFieldEncrypter(ring, NewAEADManager())
	spec := cryptoDomain.FieldSpec{BSONType: bson.TypeArray, Algorithm: cryptoDomain.Random, KeyID: keyID}

	bin, err := encrypter.EncryptValue([]string{"health", "private"}, spec)
	require.NoError(t, err)

	decrypted, err := encrypter.DecryptValue(bin)
	require.NoError(t, err)
	assert.Equal(t, bson.A{"health", "private"}, decrypted)
}

func TestFieldEncrypterService_Errors(t *testing.T) {
	ring, keyID := newTestRing(t, cryptoDomain.AESGCM)
	encrypter := NewFieldEncrypter(ring, NewAEADManager())
	spec := cryptoDomain.FieldSpec{BSONType: bson.TypeString, Algorithm: cryptoDomain.Random, KeyID: keyID}

	t.Run("Error_TypeMismatch", func(t *testing.T) {
		_, err := encrypter.EncryptValue(int32(42), spec)
		assert.ErrorIs(t, err, cryptoDomain.ErrFieldTypeMismatch)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		unknown := spec
		unknown.KeyID = uuid.New()
		_, err := encrypter.EncryptValue("x", unknown)
		assert.ErrorIs(t, err, cryptoDomain.ErrDataKeyNotFound)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		bad := spec
		bad.Algorithm = "none"
		_, err := encrypter.EncryptValue("x", bad)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("Error_WrongSubtype", func(t *testing.T) {
		_, err := encrypter.DecryptValue(bson.Binary{Subtype: bson.TypeBinaryGeneric, Data: []byte{1}})
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidCiphertext)
	})

	t.Run("Error_Tampered", func(t *testing.T) {
		bin, err := encrypter.EncryptValue("secret content", spec)
		require.NoError(t, err)
		bin.Data[len(bin.Data)-1] ^= 0xFF

		_, err = encrypter.DecryptValue(bin)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("Error_KeyNotInRing", func(t *testing.T) {
		otherRing, otherKeyID := newTestRing(t, cryptoDomain.AESGCM)
		otherSpec := spec
		otherSpec.KeyID = otherKeyID
		bin, err := NewFieldEncrypter(otherRing, NewAEADManager()).EncryptValue("x", otherSpec)
		require.NoError(t, err)

		_, err = encrypter.DecryptValue(bin)
		assert.ErrorIs(t, err, cryptoDomain.ErrDataKeyNotFound)
	})
}
