package app

import (
	"context"
	"fmt"
	"sync"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/crypto/repository"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	cryptoUseCase "github.com/allisson/inkleaf/internal/crypto/usecase"
	"github.com/allisson/inkleaf/internal/csfle"
	vaultRepository "github.com/allisson/inkleaf/internal/vault/repository"
)

type cryptoComponents struct {
	aeadManager    cryptoService.AEADManager
	keyManager     cryptoService.KeyManager
	kmsService     cryptoService.KMSService
	keyProvider    *cryptoService.FileKeyProvider
	dataKeyUseCase cryptoUseCase.DataKeyUseCase
	csfleConnector *csfle.Connector

	aeadManagerInit    sync.Once
	keyManagerInit     sync.Once
	kmsServiceInit     sync.Once
	keyProviderInit    sync.Once
	dataKeyUseCaseInit sync.Once
	csfleConnectorInit sync.Once
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyManager returns the key manager service.
func (c *Container) KeyManager() cryptoService.KeyManager {
	c.keyManagerInit.Do(func() {
		c.keyManager = cryptoService.NewKeyManager(c.AEADManager())
	})
	return c.keyManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyProvider returns the master key file provider.
func (c *Container) KeyProvider() *cryptoService.FileKeyProvider {
	c.keyProviderInit.Do(func() {
		c.keyProvider = cryptoService.NewFileKeyProvider(
			c.config.EncryptionKeyPath,
			c.config.KMSKeyURI,
			c.KMSService(),
		)
	})
	return c.keyProvider
}

// KeyVaultNamespace returns the configured key vault location.
func (c *Container) KeyVaultNamespace() cryptoDomain.Namespace {
	return cryptoDomain.Namespace{
		Database:   c.config.KeyVaultDatabase(),
		Collection: c.config.KeyVaultCollection(),
	}
}

// DataKeyUseCase returns the data key use case over the key vault, reached
// through the plain connection.
func (c *Container) DataKeyUseCase(ctx context.Context) (cryptoUseCase.DataKeyUseCase, error) {
	err := c.once(&c.dataKeyUseCaseInit, "dataKeyUseCase", func() error {
		plain, err := c.PlainManager(ctx)
		if err != nil {
			return fmt.Errorf("failed to get database for data key use case: %w", err)
		}
		client, err := plain.Client()
		if err != nil {
			return fmt.Errorf("failed to get database client for data key use case: %w", err)
		}

		ns := c.KeyVaultNamespace()
		keyVault := client.Database(ns.Database).Collection(ns.Collection)
		c.dataKeyUseCase = cryptoUseCase.NewDataKeyUseCase(
			repository.NewKeyVaultRepository(keyVault),
			c.KeyManager(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.dataKeyUseCase, nil
}

// CSFLEConnector returns the connector used by the vault manager. Settings are
// checked when it connects, not here.
func (c *Container) CSFLEConnector() *csfle.Connector {
	c.csfleConnectorInit.Do(func() {
		c.csfleConnector = csfle.NewConnector(
			c.CSFLESettings(),
			c.KeyProvider(),
			c.KeyManager(),
			c.AEADManager(),
			c.Logger(),
		)
	})
	return c.csfleConnector
}

// CSFLESettings assembles the encrypting connector settings from configuration.
func (c *Container) CSFLESettings() csfle.Settings {
	return csfle.Settings{
		Database:           c.DatabaseConfig(),
		DBName:             c.config.DBName,
		VaultCollection:    vaultRepository.Collection,
		KeyVault:           c.KeyVaultNamespace(),
		DataKeyID:          c.config.CSFLEDataKeyID,
		KeyPath:            c.config.EncryptionKeyPath,
		EncryptedFields:    c.config.EncryptedFields(),
		CryptSharedLibPath: c.config.CryptSharedLibPath,
	}
}
