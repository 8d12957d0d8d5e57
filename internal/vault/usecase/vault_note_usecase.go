package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// vaultNoteUseCase implements VaultNoteUseCase.
type vaultNoteUseCase struct {
	repo VaultNoteRepository
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, vaultDomain.ErrInvalidID
	}
	return oid, nil
}

// List returns all vault notes, most recently updated first.
func (v *vaultNoteUseCase) List(ctx context.Context) ([]*vaultDomain.VaultNote, error) {
	return v.repo.List(ctx)
}

// Get returns a vault note with its encrypted fields decrypted.
func (v *vaultNoteUseCase) Get(ctx context.Context, id string) (*vaultDomain.VaultNote, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return v.repo.Get(ctx, oid)
}

// Create stores a new vault note with createdAt equal to updatedAt.
func (v *vaultNoteUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	ts := docstore.Now()
	note := &vaultDomain.VaultNote{
		ID:        bson.NewObjectID(),
		Title:     input.Title,
		Markdown:  input.Markdown,
		Tags:      tags,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := v.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Update applies a partial update. updatedAt is refreshed even when no field changes.
func (v *vaultNoteUseCase) Update(
	ctx context.Context,
	id string,
	input *vaultDomain.UpdateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return v.repo.Update(ctx, oid, input, docstore.Now())
}

// Delete removes a vault note.
func (v *vaultNoteUseCase) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	return v.repo.Delete(ctx, oid)
}

// GetRaw returns the stored record without decryption.
func (v *vaultNoteUseCase) GetRaw(ctx context.Context, id string) (bson.D, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return v.repo.GetRaw(ctx, oid)
}

// NewVaultNoteUseCase creates a new VaultNoteUseCase.
func NewVaultNoteUseCase(repo VaultNoteRepository) VaultNoteUseCase {
	return &vaultNoteUseCase{repo: repo}
}
