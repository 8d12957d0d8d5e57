package service

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsSchemes are the KMS_KEY_URI schemes that can protect the master key file.
var kmsSchemes = map[string]bool{
	"base64key":     true,
	"awskms":        true,
	"gcpkms":        true,
	"azurekeyvault": true,
	"hashivault":    true,
}

// KMSService opens the keeper that wraps the master key file.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMSService.
func NewKMSService() KMSService {
	return &kmsService{}
}

// ValidateKeyURI reports whether keyURI names one of the supported KMS providers.
func ValidateKeyURI(keyURI string) error {
	u, err := url.Parse(keyURI)
	if err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrUnsupportedKMSScheme, err)
	}
	if !kmsSchemes[u.Scheme] {
		return fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedKMSScheme, u.Scheme)
	}
	return nil
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	if err := ValidateKeyURI(keyURI); err != nil {
		return nil, err
	}
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
