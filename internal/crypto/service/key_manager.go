package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

const keyWrapInfo = "inkleaf/data-key-wrap/v1/"

// KeyManagerService wraps data keys with a key derived from the master key.
//
// The stored key material is nonce || AEAD(dataKey) with the data key id as
// associated data, so material copied onto another key document fails to unwrap.
type KeyManagerService struct {
	aeadManager AEADManager
}

// NewKeyManager creates a new KeyManagerService.
func NewKeyManager(aeadManager AEADManager) *KeyManagerService {
	return &KeyManagerService{
		aeadManager: aeadManager,
	}
}

// CreateDataKey generates and wraps a new 64-byte data key.
func (km *KeyManagerService) CreateDataKey(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
	altNames []string,
) (*cryptoDomain.DataKey, error) {
	plaintext := make([]byte, cryptoDomain.DataKeySize)
	if _, err := rand.Read(plaintext); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate data key id: %w", err)
	}

	aead, err := km.wrapCipher(masterKey, alg)
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, id[:])
	if err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("failed to wrap data key: %w", err)
	}

	if altNames == nil {
		altNames = []string{}
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	return &cryptoDomain.DataKey{
		ID:                id,
		KeyAltNames:       altNames,
		KeyMaterial:       append(nonce, ciphertext...),
		Algorithm:         alg,
		MasterKeyProvider: masterKey.Provider,
		Status:            cryptoDomain.DataKeyStatusActive,
		CreationDate:      now,
		UpdateDate:        now,
		Key:               plaintext,
	}, nil
}

// UnwrapDataKey decrypts the stored key material of a data key.
func (km *KeyManagerService) UnwrapDataKey(
	dataKey *cryptoDomain.DataKey,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	if len(dataKey.KeyMaterial) <= cryptoDomain.NonceSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	aead, err := km.wrapCipher(masterKey, dataKey.Algorithm)
	if err != nil {
		return nil, err
	}

	nonce := dataKey.KeyMaterial[:cryptoDomain.NonceSize]
	ciphertext := dataKey.KeyMaterial[cryptoDomain.NonceSize:]

	plaintext, err := aead.Decrypt(ciphertext, nonce, dataKey.ID[:])
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	if len(plaintext) != cryptoDomain.DataKeySize {
		cryptoDomain.Zero(plaintext)
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	return plaintext, nil
}

func (km *KeyManagerService) wrapCipher(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
) (AEAD, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.MasterKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	wrapKey := make([]byte, cryptoDomain.CipherKeySize)
	defer cryptoDomain.Zero(wrapKey)

	kdf := hkdf.New(sha256.New, masterKey.Key, nil, []byte(keyWrapInfo+string(alg)))
	if _, err := io.ReadFull(kdf, wrapKey); err != nil {
		return nil, fmt.Errorf("failed to derive key wrap key: %w", err)
	}

	return km.aeadManager.CreateCipher(wrapKey, alg)
}
