// Package usecase defines the business logic interfaces for data key management.
//
// Data keys are generated and wrapped by the key manager service, persisted in
// the key vault collection and unwrapped into a DataKeyRing when an encrypting
// connection is established.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// DataKeyRepository defines the interface for key vault persistence.
//
// Implementations must enforce uniqueness of keyAltNames once EnsureIndex has
// run, returning cryptoDomain.ErrDuplicateAltName from Create on a clash, and
// cryptoDomain.ErrDataKeyNotFound from the lookup methods.
type DataKeyRepository interface {
	// EnsureIndex creates the unique partial index on keyAltNames. Idempotent.
	EnsureIndex(ctx context.Context) error

	// Create stores a wrapped data key.
	Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error

	// Get retrieves a wrapped data key by id.
	Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.DataKey, error)

	// GetByAltName retrieves the wrapped data key carrying altName.
	GetByAltName(ctx context.Context, altName string) (*cryptoDomain.DataKey, error)
}

// DataKeyUseCase defines the data key lifecycle operations.
type DataKeyUseCase interface {
	// EnsureKeyVaultIndex prepares the key vault collection. Safe to repeat.
	EnsureKeyVaultIndex(ctx context.Context) error

	// CreateDataKey generates a data key wrapped by masterKey and stores it
	// under altName. An existing key with the same alternate name yields
	// cryptoDomain.ErrDuplicateAltName and nothing is written.
	CreateDataKey(
		ctx context.Context,
		masterKey *cryptoDomain.MasterKey,
		altName string,
		alg cryptoDomain.Algorithm,
	) (uuid.UUID, error)

	// GetDataKeyByAltName returns the stored (still wrapped) data key for altName.
	GetDataKeyByAltName(ctx context.Context, altName string) (*cryptoDomain.DataKey, error)

	// LoadKeyRing fetches and unwraps every data key in ids. The caller owns the
	// returned ring and must Close it to zero the plaintext keys.
	LoadKeyRing(
		ctx context.Context,
		masterKey *cryptoDomain.MasterKey,
		ids []uuid.UUID,
	) (*cryptoDomain.DataKeyRing, error)
}
