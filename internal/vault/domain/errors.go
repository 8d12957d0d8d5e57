// Package domain defines core domain models and errors for vault notes.
package domain

import (
	"github.com/allisson/inkleaf/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrVaultNoteNotFound indicates no vault note exists with the given id.
	ErrVaultNoteNotFound = errors.Wrap(errors.ErrNotFound, "vault note not found")

	// ErrInvalidID indicates the id is not a valid ObjectID hex string.
	ErrInvalidID = errors.Wrap(errors.ErrBadRequest, "invalid vault note id")

	// ErrVaultUnavailable indicates the encrypting connection is not ready.
	ErrVaultUnavailable = errors.Wrap(errors.ErrUnavailable, "vault unavailable")
)
