package csfle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/crypto/repository"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	cryptoUseCase "github.com/allisson/inkleaf/internal/crypto/usecase"
	"github.com/allisson/inkleaf/internal/database"
	"github.com/allisson/inkleaf/internal/docstore"
)

// Settings holds what the encrypting connector needs besides its services.
type Settings struct {
	Database        database.Config
	DBName          string
	VaultCollection string
	KeyVault        cryptoDomain.Namespace
	DataKeyID       string
	KeyPath         string
	EncryptedFields []string
	// CryptSharedLibPath is logged only; encryption runs in-process.
	CryptSharedLibPath string
}

// Connector opens encrypting clients. It implements database.Connector.
type Connector struct {
	settings    Settings
	keyProvider cryptoService.KeyProvider
	keyManager  cryptoService.KeyManager
	aeadManager cryptoService.AEADManager
	logger      *slog.Logger
}

// NewConnector creates a new Connector.
func NewConnector(
	settings Settings,
	keyProvider cryptoService.KeyProvider,
	keyManager cryptoService.KeyManager,
	aeadManager cryptoService.AEADManager,
	logger *slog.Logger,
) *Connector {
	return &Connector{
		settings:    settings,
		keyProvider: keyProvider,
		keyManager:  keyManager,
		aeadManager: aeadManager,
		logger:      logger,
	}
}

// Connect loads the master key, validates the vault schema against the key
// vault and returns a client that encrypts the schema fields.
func (c *Connector) Connect(ctx context.Context) (docstore.Client, error) {
	if err := c.checkSettings(); err != nil {
		return nil, err
	}

	keyID, err := ParseDataKeyID(c.settings.DataKeyID)
	if err != nil {
		return nil, err
	}

	ns := cryptoDomain.Namespace{Database: c.settings.DBName, Collection: c.settings.VaultCollection}
	schema, err := VaultSchema(ns, c.settings.EncryptedFields, keyID)
	if err != nil {
		return nil, err
	}

	masterKey, err := c.keyProvider.LoadMasterKey(ctx)
	if err != nil {
		return nil, err
	}
	defer masterKey.Close()

	base, err := database.Connect(ctx, c.settings.Database)
	if err != nil {
		return nil, err
	}

	keyVault := base.Database(c.settings.KeyVault.Database).Collection(c.settings.KeyVault.Collection)
	dataKeyUseCase := cryptoUseCase.NewDataKeyUseCase(repository.NewKeyVaultRepository(keyVault), c.keyManager)

	ring, err := dataKeyUseCase.LoadKeyRing(ctx, masterKey, schema.KeyIDs())
	if err != nil {
		_ = base.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to load data keys: %w", err)
	}

	attrs := []any{
		slog.String("namespace", ns.String()),
		slog.String("key_vault", c.settings.KeyVault.String()),
		slog.Any("encrypted_fields", c.settings.EncryptedFields),
	}
	if c.settings.CryptSharedLibPath != "" {
		attrs = append(attrs, slog.String("crypt_shared_lib_path", c.settings.CryptSharedLibPath))
	}
	c.logger.Info("encrypting client ready", attrs...)

	encrypter := cryptoService.NewFieldEncrypter(ring, c.aeadManager)
	return NewClient(base, schema, encrypter, ring), nil
}

func (c *Connector) checkSettings() error {
	var missing []string
	if c.settings.Database.Driver != database.DriverMemory && c.settings.Database.URI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if strings.TrimSpace(c.settings.DataKeyID) == "" {
		missing = append(missing, "CSFLE_DATA_KEY_ID")
	}
	if c.settings.KeyPath == "" {
		missing = append(missing, "ENCRYPTION_KEY_PATH")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", cryptoDomain.ErrEncryptionNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}
