package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// FileKeyProvider reads the master key from a file.
//
// When keyURI is set, the file holds master key ciphertext produced by that KMS
// keeper and is decrypted on load.
type FileKeyProvider struct {
	path       string
	keyURI     string
	kmsService KMSService
}

// NewFileKeyProvider creates a new FileKeyProvider.
func NewFileKeyProvider(path, keyURI string, kmsService KMSService) *FileKeyProvider {
	return &FileKeyProvider{
		path:       path,
		keyURI:     keyURI,
		kmsService: kmsService,
	}
}

// Path returns the master key file path.
func (p *FileKeyProvider) Path() string {
	return p.path
}

// LoadMasterKey reads and validates the master key. Every failure wraps
// ErrKeyUnavailable.
func (p *FileKeyProvider) LoadMasterKey(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	if p.path == "" {
		return nil, fmt.Errorf("%w: key path is not set", cryptoDomain.ErrKeyUnavailable)
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	defer cryptoDomain.Zero(raw)

	material := raw
	if p.keyURI != "" {
		material, err = p.decrypt(ctx, raw)
		if err != nil {
			return nil, err
		}
		defer cryptoDomain.Zero(material)
	}

	masterKey, err := cryptoDomain.NewMasterKey(material)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyUnavailable, err)
	}
	return masterKey, nil
}

// Create generates a new random master key and writes it with 0600 permissions.
// An existing file is never overwritten.
func (p *FileKeyProvider) Create(ctx context.Context) error {
	if p.path == "" {
		return fmt.Errorf("%w: key path is not set", cryptoDomain.ErrKeyUnavailable)
	}
	if _, err := os.Stat(p.path); err == nil {
		return fmt.Errorf("master key file %s already exists", p.path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat master key file: %w", err)
	}

	key := make([]byte, cryptoDomain.MasterKeySize)
	defer cryptoDomain.Zero(key)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	content := key
	if p.keyURI != "" {
		encrypted, err := p.encrypt(ctx, key)
		if err != nil {
			return err
		}
		content = encrypted
	}

	if err := os.WriteFile(p.path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write master key file: %w", err)
	}
	return nil
}

func (p *FileKeyProvider) decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	keeper, err := p.kmsService.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyUnavailable, err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt master key: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	return plaintext, nil
}

func (p *FileKeyProvider) encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	keeper, err := p.kmsService.OpenKeeper(ctx, p.keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt master key: %w", err)
	}
	return ciphertext, nil
}
