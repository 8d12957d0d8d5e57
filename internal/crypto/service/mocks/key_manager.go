// Package mocks provides mock implementations of the crypto services.
package mocks

import (
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// MockKeyManager is a mock implementation of KeyManager.
type MockKeyManager struct {
	mock.Mock
}

// CreateDataKey mocks the CreateDataKey method.
func (m *MockKeyManager) CreateDataKey(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
	altNames []string,
) (*cryptoDomain.DataKey, error) {
	args := m.Called(masterKey, alg, altNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// UnwrapDataKey mocks the UnwrapDataKey method.
func (m *MockKeyManager) UnwrapDataKey(
	dataKey *cryptoDomain.DataKey,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	args := m.Called(dataKey, masterKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
