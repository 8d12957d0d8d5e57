// Package usecase defines the interfaces and implementations for vault note use cases.
package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// VaultNoteRepository defines the interface for vault note persistence operations.
type VaultNoteRepository interface {
	List(ctx context.Context) ([]*vaultDomain.VaultNote, error)
	Get(ctx context.Context, id bson.ObjectID) (*vaultDomain.VaultNote, error)
	Create(ctx context.Context, note *vaultDomain.VaultNote) error
	Update(
		ctx context.Context,
		id bson.ObjectID,
		input *vaultDomain.UpdateVaultNoteInput,
		updatedAt time.Time,
	) (*vaultDomain.VaultNote, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	// GetRaw reads through the plain handle; encrypted fields stay ciphertext.
	GetRaw(ctx context.Context, id bson.ObjectID) (bson.D, error)
}

// VaultNoteUseCase defines the interface for vault note business logic.
type VaultNoteUseCase interface {
	List(ctx context.Context) ([]*vaultDomain.VaultNote, error)
	Get(ctx context.Context, id string) (*vaultDomain.VaultNote, error)
	Create(ctx context.Context, input *vaultDomain.CreateVaultNoteInput) (*vaultDomain.VaultNote, error)
	Update(ctx context.Context, id string, input *vaultDomain.UpdateVaultNoteInput) (*vaultDomain.VaultNote, error)
	// Delete reports false when no note had the id.
	Delete(ctx context.Context, id string) (bool, error)
	GetRaw(ctx context.Context, id string) (bson.D, error)
}
