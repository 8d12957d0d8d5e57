package service

import (
	"slices"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// cipherConstructors maps each data key algorithm to the AEAD built from its
// 32-byte encryption key.
var cipherConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
		return NewAESGCM(key)
	},
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
		return NewChaCha20Poly1305(key)
	},
}

// SupportedAlgorithms lists the data key algorithms in a stable order.
func SupportedAlgorithms() []cryptoDomain.Algorithm {
	algs := make([]cryptoDomain.Algorithm, 0, len(cipherConstructors))
	for alg := range cipherConstructors {
		algs = append(algs, alg)
	}
	slices.Sort(algs)
	return algs
}

// AEADManagerService builds the cipher for a data key, or for the key wrap key
// derived from the master key.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher checks the key length before the algorithm so that a truncated
// data key is reported as such regardless of what it claims to use.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.CipherKeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	newCipher, ok := cipherConstructors[alg]
	if !ok {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	return newCipher(key)
}
