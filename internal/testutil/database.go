// Package testutil provides fixtures for tests that need a document store and
// the encrypting vault connection.
//
// Tests run against the in-memory store by default. Setting TEST_MONGODB_URI
// points SetupMongoDB at a real server instead:
//
//	store := testutil.SetupMemoryStore(t)
//	stack := testutil.SetupVaultStack(t, store, "markdown")
//	db, err := stack.Encrypted.Connect(ctx)
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/crypto/repository"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	cryptoUseCase "github.com/allisson/inkleaf/internal/crypto/usecase"
	"github.com/allisson/inkleaf/internal/csfle"
	"github.com/allisson/inkleaf/internal/database"
	"github.com/allisson/inkleaf/internal/docstore"
)

const (
	// TestDatabase is the database name used by fixtures.
	TestDatabase = "inkleaf_test"
	// TestKeyVaultCollection is the key vault collection used by fixtures.
	TestKeyVaultCollection = "encryption_keyVault"
	// TestDataKeyAltName is the alternate name of the fixture data key.
	TestDataKeyAltName = "vaultNotesKey"
)

// GetMongoTestURI returns the MongoDB URI for integration tests, or "" when unset.
func GetMongoTestURI() string {
	return os.Getenv("TEST_MONGODB_URI")
}

// SkipIfNoMongo skips the test when no MongoDB server is configured.
func SkipIfNoMongo(t *testing.T) {
	t.Helper()
	if GetMongoTestURI() == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}
}

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupMemoryStore returns a fresh in-memory document store.
func SetupMemoryStore(t *testing.T) *docstore.MemoryClient {
	t.Helper()
	return docstore.NewMemoryClient()
}

// SetupMongoDB connects to TEST_MONGODB_URI, skipping when unset, and drops the
// test database on cleanup.
func SetupMongoDB(t *testing.T) docstore.Client {
	t.Helper()
	SkipIfNoMongo(t)

	client, err := database.Connect(context.Background(), database.Config{
		Driver:           database.DriverMongoDB,
		URI:              GetMongoTestURI(),
		AppName:          "inkleaf-test",
		ConnectTimeout:   5 * time.Second,
		OperationTimeout: 5 * time.Second,
	})
	require.NoError(t, err, "failed to connect to test database")

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client
}

// SetupPlainManager returns a connected plain manager over store.
func SetupPlainManager(t *testing.T, store *docstore.MemoryClient) *database.Manager {
	t.Helper()

	cfg := database.Config{Driver: database.DriverMemory, Memory: store}
	manager := database.NewManager("plain", TestDatabase, database.ConnectorFunc(func(ctx context.Context) (docstore.Client, error) {
		return database.Connect(ctx, cfg)
	}), Logger())
	_, err := manager.Connect(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = manager.Close(context.Background())
	})
	return manager
}

// VaultStack is a wired plain manager and encrypting manager over one store.
type VaultStack struct {
	Store       *docstore.MemoryClient
	Plain       *database.Manager
	Encrypted   *database.Manager
	KeyProvider *cryptoService.FileKeyProvider
	DataKeyID   uuid.UUID
	Settings    csfle.Settings
}

// CreateTestMasterKey writes a fresh master key file in a temp dir.
func CreateTestMasterKey(t *testing.T) *cryptoService.FileKeyProvider {
	t.Helper()

	path := filepath.Join(t.TempDir(), "master-key.bin")
	provider := cryptoService.NewFileKeyProvider(path, "", cryptoService.NewKMSService())
	require.NoError(t, provider.Create(context.Background()))
	return provider
}

// CreateTestDataKey bootstraps the key vault index and a data key in store.
func CreateTestDataKey(
	t *testing.T,
	store docstore.Client,
	keyProvider cryptoService.KeyProvider,
) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	masterKey, err := keyProvider.LoadMasterKey(ctx)
	require.NoError(t, err)
	defer masterKey.Close()

	coll := store.Database(TestDatabase).Collection(TestKeyVaultCollection)
	keyManager := cryptoService.NewKeyManager(cryptoService.NewAEADManager())
	uc := cryptoUseCase.NewDataKeyUseCase(repository.NewKeyVaultRepository(coll), keyManager)

	require.NoError(t, uc.EnsureKeyVaultIndex(ctx))
	id, err := uc.CreateDataKey(ctx, masterKey, TestDataKeyAltName, cryptoDomain.AESGCM)
	require.NoError(t, err)
	return id
}

// SetupVaultStack builds the plain and encrypting managers over an in-memory
// store with a fully bootstrapped key vault. The plain manager is connected;
// the encrypting manager is left for the caller to connect.
func SetupVaultStack(t *testing.T, store *docstore.MemoryClient, encryptedFields ...string) *VaultStack {
	t.Helper()

	keyProvider := CreateTestMasterKey(t)
	dataKeyID := CreateTestDataKey(t, store, keyProvider)

	if len(encryptedFields) == 0 {
		encryptedFields = []string{"markdown"}
	}

	settings := csfle.Settings{
		Database:        database.Config{Driver: database.DriverMemory, Memory: store},
		DBName:          TestDatabase,
		VaultCollection: "vault_notes",
		KeyVault:        cryptoDomain.Namespace{Database: TestDatabase, Collection: TestKeyVaultCollection},
		DataKeyID:       csfle.EncodeDataKeyID(dataKeyID),
		KeyPath:         keyProvider.Path(),
		EncryptedFields: encryptedFields,
	}

	return newVaultStack(t, store, keyProvider, dataKeyID, settings)
}

// SetupUnconfiguredVaultStack is SetupVaultStack with no data key configured, so
// the encrypting manager fails to connect.
func SetupUnconfiguredVaultStack(t *testing.T, store *docstore.MemoryClient) *VaultStack {
	t.Helper()

	keyProvider := CreateTestMasterKey(t)
	settings := csfle.Settings{
		Database:        database.Config{Driver: database.DriverMemory, Memory: store},
		DBName:          TestDatabase,
		VaultCollection: "vault_notes",
		KeyVault:        cryptoDomain.Namespace{Database: TestDatabase, Collection: TestKeyVaultCollection},
		KeyPath:         keyProvider.Path(),
		EncryptedFields: []string{"markdown"},
	}

	return newVaultStack(t, store, keyProvider, uuid.Nil, settings)
}

func newVaultStack(
	t *testing.T,
	store *docstore.MemoryClient,
	keyProvider *cryptoService.FileKeyProvider,
	dataKeyID uuid.UUID,
	settings csfle.Settings,
) *VaultStack {
	t.Helper()
	ctx := context.Background()
	logger := Logger()

	plain := database.NewManager("plain", TestDatabase, database.ConnectorFunc(func(ctx context.Context) (docstore.Client, error) {
		return database.Connect(ctx, settings.Database)
	}), logger)
	_, err := plain.Connect(ctx)
	require.NoError(t, err)

	aeadManager := cryptoService.NewAEADManager()
	connector := csfle.NewConnector(
		settings,
		keyProvider,
		cryptoService.NewKeyManager(aeadManager),
		aeadManager,
		logger,
	)
	encrypted := database.NewManager("encrypted", TestDatabase, connector, logger)

	t.Cleanup(func() {
		_ = encrypted.Close(context.Background())
		_ = plain.Close(context.Background())
	})

	return &VaultStack{
		Store:       store,
		Plain:       plain,
		Encrypted:   encrypted,
		KeyProvider: keyProvider,
		DataKeyID:   dataKeyID,
		Settings:    settings,
	}
}
