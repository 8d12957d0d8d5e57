package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	cryptoUseCase "github.com/allisson/inkleaf/internal/crypto/usecase"
	"github.com/allisson/inkleaf/internal/csfle"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// RunEnsureKeyVaultIndex creates the unique keyAltNames index on the key vault.
// Running it again is harmless.
func RunEnsureKeyVaultIndex(
	ctx context.Context,
	dataKeyUseCase cryptoUseCase.DataKeyUseCase,
	keyVault cryptoDomain.Namespace,
	logger *slog.Logger,
	writer io.Writer,
) error {
	if err := dataKeyUseCase.EnsureKeyVaultIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure key vault index: %w", err)
	}

	logger.Info("key vault index ready", slog.String("key_vault", keyVault.String()))
	_, _ = fmt.Fprintf(writer, "Key vault index ready on %s\n", keyVault)
	return nil
}

// RunCreateDataKey creates the vault data key under altName. When a key with
// that name already exists its id is printed instead, so the command can be
// rerun to recover CSFLE_DATA_KEY_ID.
func RunCreateDataKey(
	ctx context.Context,
	dataKeyUseCase cryptoUseCase.DataKeyUseCase,
	keyProvider cryptoService.KeyProvider,
	logger *slog.Logger,
	writer io.Writer,
	altName string,
	algorithm string,
) error {
	alg, err := parseAlgorithm(algorithm)
	if err != nil {
		return err
	}

	masterKey, err := keyProvider.LoadMasterKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}
	defer masterKey.Close()

	id, err := dataKeyUseCase.CreateDataKey(ctx, masterKey, altName, alg)
	if err == nil {
		logger.Info("data key created",
			slog.String("key_alt_name", altName),
			slog.String("algorithm", string(alg)),
		)
		_, _ = fmt.Fprintln(writer, "# Data key created. Add this to your environment:")
		_, _ = fmt.Fprintf(writer, "CSFLE_DATA_KEY_ID=%s\n", csfle.EncodeDataKeyID(id))
		return nil
	}

	if !apperrors.Is(err, cryptoDomain.ErrDuplicateAltName) {
		return fmt.Errorf("failed to create data key: %w", err)
	}

	existing, getErr := dataKeyUseCase.GetDataKeyByAltName(ctx, altName)
	if getErr != nil {
		return fmt.Errorf("data key %q exists but could not be read: %w", altName, getErr)
	}

	logger.Info("data key already exists", slog.String("key_alt_name", altName))
	_, _ = fmt.Fprintf(writer, "# Data key %q already exists. Add this to your environment:\n", altName)
	_, _ = fmt.Fprintf(writer, "CSFLE_DATA_KEY_ID=%s\n", csfle.EncodeDataKeyID(existing.ID))
	return nil
}
