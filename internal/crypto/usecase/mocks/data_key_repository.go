// Package mocks provides mock implementations of the crypto use case dependencies.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// MockDataKeyRepository is a mock implementation of DataKeyRepository.
type MockDataKeyRepository struct {
	mock.Mock
}

// EnsureIndex mocks the EnsureIndex method.
func (m *MockDataKeyRepository) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Create mocks the Create method.
func (m *MockDataKeyRepository) Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error {
	args := m.Called(ctx, dataKey)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockDataKeyRepository) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// GetByAltName mocks the GetByAltName method.
func (m *MockDataKeyRepository) GetByAltName(ctx context.Context, altName string) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, altName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}
