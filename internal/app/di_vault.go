package app

import (
	"context"
	"fmt"
	"sync"

	vaultHTTP "github.com/allisson/inkleaf/internal/vault/http"
	vaultRepository "github.com/allisson/inkleaf/internal/vault/repository"
	vaultUseCase "github.com/allisson/inkleaf/internal/vault/usecase"
)

type vaultComponents struct {
	vaultNoteUseCase vaultUseCase.VaultNoteUseCase
	vaultNoteHandler *vaultHTTP.VaultNoteHandler

	vaultNoteUseCaseInit sync.Once
	vaultNoteHandlerInit sync.Once
}

// VaultNoteUseCase returns the vault note use case, wrapped with business metrics.
// Encrypted operations go through the lazy vault manager; raw reads use the
// plain connection.
func (c *Container) VaultNoteUseCase(ctx context.Context) (vaultUseCase.VaultNoteUseCase, error) {
	err := c.once(&c.vaultNoteUseCaseInit, "vaultNoteUseCase", func() error {
		plain, err := c.PlainManager(ctx)
		if err != nil {
			return fmt.Errorf("failed to get database for vault note use case: %w", err)
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return fmt.Errorf("failed to get business metrics for vault note use case: %w", err)
		}

		repo := vaultRepository.NewVaultNoteRepository(c.VaultManager(), plain)
		c.vaultNoteUseCase = vaultUseCase.NewVaultNoteUseCaseWithMetrics(
			vaultUseCase.NewVaultNoteUseCase(repo),
			businessMetrics,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.vaultNoteUseCase, nil
}

// VaultNoteHandler returns the HTTP handler for vault notes.
func (c *Container) VaultNoteHandler(ctx context.Context) (*vaultHTTP.VaultNoteHandler, error) {
	err := c.once(&c.vaultNoteHandlerInit, "vaultNoteHandler", func() error {
		useCase, err := c.VaultNoteUseCase(ctx)
		if err != nil {
			return err
		}
		c.vaultNoteHandler = vaultHTTP.NewVaultNoteHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.vaultNoteHandler, nil
}
