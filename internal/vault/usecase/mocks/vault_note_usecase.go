// Package mocks provides mock implementations of the vault use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// MockVaultNoteUseCase is a mock implementation of VaultNoteUseCase.
type MockVaultNoteUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockVaultNoteUseCase) List(ctx context.Context) ([]*vaultDomain.VaultNote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.VaultNote), args.Error(1)
}

// Get mocks the Get method.
func (m *MockVaultNoteUseCase) Get(ctx context.Context, id string) (*vaultDomain.VaultNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultNote), args.Error(1)
}

// Create mocks the Create method.
func (m *MockVaultNoteUseCase) Create(
	ctx context.Context,
	input *vaultDomain.CreateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultNote), args.Error(1)
}

// Update mocks the Update method.
func (m *MockVaultNoteUseCase) Update(
	ctx context.Context,
	id string,
	input *vaultDomain.UpdateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VaultNote), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockVaultNoteUseCase) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// GetRaw mocks the GetRaw method.
func (m *MockVaultNoteUseCase) GetRaw(ctx context.Context, id string) (bson.D, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.D), args.Error(1)
}
