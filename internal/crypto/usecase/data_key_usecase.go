package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// dataKeyUseCase implements DataKeyUseCase.
type dataKeyUseCase struct {
	dataKeyRepo DataKeyRepository
	keyManager  cryptoService.KeyManager
}

// EnsureKeyVaultIndex creates the keyAltNames index on the key vault.
func (d *dataKeyUseCase) EnsureKeyVaultIndex(ctx context.Context) error {
	return d.dataKeyRepo.EnsureIndex(ctx)
}

// CreateDataKey generates, wraps and persists a new data key.
func (d *dataKeyUseCase) CreateDataKey(
	ctx context.Context,
	masterKey *cryptoDomain.MasterKey,
	altName string,
	alg cryptoDomain.Algorithm,
) (uuid.UUID, error) {
	altName = strings.TrimSpace(altName)
	if altName == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "data key alternate name is required")
	}

	dataKey, err := d.keyManager.CreateDataKey(masterKey, alg, []string{altName})
	if err != nil {
		return uuid.Nil, err
	}
	defer cryptoDomain.Zero(dataKey.Key)

	if err := d.dataKeyRepo.Create(ctx, dataKey); err != nil {
		return uuid.Nil, err
	}

	return dataKey.ID, nil
}

// GetDataKeyByAltName looks a data key up by alternate name.
func (d *dataKeyUseCase) GetDataKeyByAltName(
	ctx context.Context,
	altName string,
) (*cryptoDomain.DataKey, error) {
	return d.dataKeyRepo.GetByAltName(ctx, altName)
}

// LoadKeyRing unwraps the requested data keys into a ring. On any failure the
// keys unwrapped so far are zeroed before returning.
func (d *dataKeyUseCase) LoadKeyRing(
	ctx context.Context,
	masterKey *cryptoDomain.MasterKey,
	ids []uuid.UUID,
) (*cryptoDomain.DataKeyRing, error) {
	keys := make([]*cryptoDomain.DataKey, 0, len(ids))
	release := func() {
		for _, key := range keys {
			cryptoDomain.Zero(key.Key)
		}
	}

	for _, id := range ids {
		dataKey, err := d.dataKeyRepo.Get(ctx, id)
		if err != nil {
			release()
			return nil, err
		}

		plaintext, err := d.keyManager.UnwrapDataKey(dataKey, masterKey)
		if err != nil {
			release()
			return nil, apperrors.Wrapf(err, "failed to unwrap data key %s", id)
		}

		dataKey.Key = plaintext
		keys = append(keys, dataKey)
	}

	return cryptoDomain.NewDataKeyRing(keys), nil
}

// NewDataKeyUseCase creates a new DataKeyUseCase.
func NewDataKeyUseCase(
	dataKeyRepo DataKeyRepository,
	keyManager cryptoService.KeyManager,
) DataKeyUseCase {
	return &dataKeyUseCase{
		dataKeyRepo: dataKeyRepo,
		keyManager:  keyManager,
	}
}
