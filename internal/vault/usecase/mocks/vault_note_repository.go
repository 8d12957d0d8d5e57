package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// MockVaultNoteRepository is a mock implementation of VaultNoteRepository.
type MockVaultNoteRepository struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockVaultNoteRepository) List(ctx context.Context) ([]*vaultDomain.VaultNote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.VaultNote), args.Error(1)
}

// Get mocks the Get method.
func (m *MockVaultNoteRepository) Get(ctx context.Context, id bson.ObjectID) (*vaultDomain.VaultNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultNote), args.Error(1)
}

// Create mocks the Create method.
func (m *MockVaultNoteRepository) Create(ctx context.Context, note *vaultDomain.VaultNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockVaultNoteRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	input *vaultDomain.UpdateVaultNoteInput,
	updatedAt time.Time,
) (*vaultDomain.VaultNote, error) {
	args := m.Called(ctx, id, input, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultNote), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockVaultNoteRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GetRaw mocks the GetRaw method.
func (m *MockVaultNoteRepository) GetRaw(ctx context.Context, id bson.ObjectID) (bson.D, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.D), args.Error(1)
}
