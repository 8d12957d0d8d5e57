package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/inkleaf/internal/config"
	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/csfle"
	"github.com/allisson/inkleaf/internal/database"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		ServerHost:           "localhost",
		ServerPort:           0,
		StorageDriver:        config.StorageDriverMemory,
		DBName:               "inkleaf_test",
		LogLevel:             "error",
		EncryptionKeyPath:    filepath.Join(t.TempDir(), "master-key.bin"),
		KeyVaultNamespace:    "inkleaf_test.encryption_keyVault",
		CSFLEDataKeyAltName:  "vaultNotesKey",
		CSFLEKeyAlgorithm:    "aes-gcm",
		VaultEncryptedFields: "markdown",
		EmbeddingTimeout:     time.Second,
		MetricsNamespace:     "inkleaf_test",
	}
}

func newTestContainer(t *testing.T, cfg *config.Config) *Container {
	t.Helper()

	container := NewContainer(cfg)
	t.Cleanup(func() {
		assert.NoError(t, container.Shutdown(context.Background()))
	})
	return container
}

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	handler.ServeHTTP(w, req)
	return w
}

func TestNewContainer(t *testing.T) {
	cfg := memoryConfig(t)
	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainer_Logger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "invalid"} {
		t.Run(level, func(t *testing.T) {
			container := NewContainer(&config.Config{LogLevel: level})

			logger := container.Logger()

			require.NotNil(t, logger)
			assert.Same(t, logger, container.Logger())
		})
	}
}

func TestContainer_PlainManager(t *testing.T) {
	t.Run("Success_MemoryDriver", func(t *testing.T) {
		container := newTestContainer(t, memoryConfig(t))

		manager, err := container.PlainManager(context.Background())

		require.NoError(t, err)
		assert.Equal(t, database.Connected, manager.State())

		again, err := container.PlainManager(context.Background())
		require.NoError(t, err)
		assert.Same(t, manager, again)
	})

	t.Run("Error_MissingURIIsRemembered", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.StorageDriver = config.StorageDriverMongoDB
		cfg.MongoDBURI = ""
		container := newTestContainer(t, cfg)

		_, err := container.PlainManager(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, database.ErrMissingURI))

		_, err = container.HTTPServer(context.Background())
		assert.Error(t, err)
	})
}

func TestContainer_SharedMemoryStore(t *testing.T) {
	container := newTestContainer(t, memoryConfig(t))

	first := container.DatabaseConfig()
	second := container.CSFLESettings().Database

	require.NotNil(t, first.Memory)
	assert.Same(t, first.Memory, second.Memory)
}

func TestContainer_CSFLESettings(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.VaultEncryptedFields = "markdown, title"
	cfg.CSFLEDataKeyID = "abc"
	container := newTestContainer(t, cfg)

	settings := container.CSFLESettings()

	assert.Equal(t, "vault_notes", settings.VaultCollection)
	assert.Equal(t, []string{"markdown", "title"}, settings.EncryptedFields)
	assert.Equal(t, cryptoDomain.Namespace{Database: "inkleaf_test", Collection: "encryption_keyVault"}, settings.KeyVault)
	assert.Equal(t, "abc", settings.DataKeyID)
	assert.Equal(t, cfg.EncryptionKeyPath, settings.KeyPath)
}

func TestContainer_VaultManagerIsLazy(t *testing.T) {
	container := newTestContainer(t, memoryConfig(t))

	manager := container.VaultManager()

	assert.Equal(t, database.Disconnected, manager.State())
	assert.Same(t, manager, container.VaultManager())

	_, err := manager.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, cryptoDomain.ErrEncryptionNotConfigured))
	assert.Contains(t, err.Error(), "CSFLE_DATA_KEY_ID")
}

func TestContainer_MetricsDisabled(t *testing.T) {
	container := newTestContainer(t, memoryConfig(t))

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	server, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, server)

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)

	connMetrics, err := container.ConnectionMetrics()
	require.NoError(t, err)
	assert.Nil(t, connMetrics)
}

func TestContainer_MetricsEnabled(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.MetricsEnabled = true
	cfg.MetricsPort = 0
	container := newTestContainer(t, cfg)

	server, err := container.MetricsServer()
	require.NoError(t, err)
	require.NotNil(t, server)

	_, err = container.HTTPServer(context.Background())
	require.NoError(t, err)

	w := serve(t, server.GetHandler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, `inkleaf_test_database_connect_attempts_total\{[^}]*manager="database"[^}]*status="success"[^}]*\} 1`, w.Body.String())
	assert.Regexp(t, `inkleaf_test_database_connection_state\{[^}]*manager="database"[^}]*state="connected"[^}]*\} 1`, w.Body.String())
	assert.Regexp(t, `inkleaf_test_database_connection_state\{[^}]*manager="vault"[^}]*state="disconnected"[^}]*\} 1`, w.Body.String())

	connMetrics, err := container.ConnectionMetrics()
	require.NoError(t, err)
	assert.NotNil(t, connMetrics)
}

func TestContainer_HTTPServer(t *testing.T) {
	t.Run("Success_UnconfiguredVault", func(t *testing.T) {
		container := newTestContainer(t, memoryConfig(t))

		server, err := container.HTTPServer(context.Background())
		require.NoError(t, err)
		handler := server.GetHandler()

		assert.Equal(t, http.StatusOK, serve(t, handler, http.MethodGet, "/api/health", "").Code)

		w := serve(t, handler, http.MethodPost, "/api/notes", `{"title":"Plain","markdown":"text"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/vault", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "CSFLE_DATA_KEY_ID")
	})

	t.Run("Success_BootstrappedVault", func(t *testing.T) {
		ctx := context.Background()
		cfg := memoryConfig(t)
		container := newTestContainer(t, cfg)

		require.NoError(t, container.KeyProvider().Create(ctx))
		dataKeyUseCase, err := container.DataKeyUseCase(ctx)
		require.NoError(t, err)
		require.NoError(t, dataKeyUseCase.EnsureKeyVaultIndex(ctx))

		masterKey, err := container.KeyProvider().LoadMasterKey(ctx)
		require.NoError(t, err)
		keyID, err := dataKeyUseCase.CreateDataKey(ctx, masterKey, cfg.CSFLEDataKeyAltName, cryptoDomain.AESGCM)
		masterKey.Close()
		require.NoError(t, err)

		// The connector reads its settings on first use, so configure before building the server.
		cfg.CSFLEDataKeyID = csfle.EncodeDataKeyID(keyID)

		server, err := container.HTTPServer(ctx)
		require.NoError(t, err)
		handler := server.GetHandler()

		w := serve(t, handler, http.MethodPost, "/api/vault", `{"title":"Secret","markdown":"hunter2"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = serve(t, handler, http.MethodGet, "/api/vault", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "hunter2")
		assert.Equal(t, database.Connected, container.VaultManager().State())
	})
}
