package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/database"
)

func TestGetMongoTestURI(t *testing.T) {
	t.Setenv("TEST_MONGODB_URI", "mongodb://localhost:27017")
	assert.Equal(t, "mongodb://localhost:27017", GetMongoTestURI())

	t.Setenv("TEST_MONGODB_URI", "")
	assert.Empty(t, GetMongoTestURI())
}

func TestSetupVaultStack(t *testing.T) {
	ctx := context.Background()
	stack := SetupVaultStack(t, SetupMemoryStore(t))

	assert.NotEqual(t, uuid.Nil, stack.DataKeyID)
	assert.Equal(t, database.Connected, stack.Plain.State())
	assert.Equal(t, database.Disconnected, stack.Encrypted.State())

	_, err := stack.Encrypted.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, database.Connected, stack.Encrypted.State())
}

func TestSetupUnconfiguredVaultStack(t *testing.T) {
	stack := SetupUnconfiguredVaultStack(t, SetupMemoryStore(t))

	_, err := stack.Encrypted.Connect(context.Background())
	assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionNotConfigured)
	assert.Equal(t, database.Disconnected, stack.Encrypted.State())
}

func TestSetupPlainManager(t *testing.T) {
	manager := SetupPlainManager(t, SetupMemoryStore(t))

	assert.Equal(t, database.Connected, manager.State())
	db, err := manager.Database()
	require.NoError(t, err)
	assert.Equal(t, TestDatabase, db.Name())
}
