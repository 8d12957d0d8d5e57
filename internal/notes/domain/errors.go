// Package domain defines core domain models and errors for plain notes.
package domain

import (
	"github.com/allisson/inkleaf/internal/errors"
)

// Note-specific error definitions.
var (
	// ErrNoteNotFound indicates no note exists with the given id.
	ErrNoteNotFound = errors.Wrap(errors.ErrNotFound, "note not found")

	// ErrInvalidID indicates the id is not a valid ObjectID hex string.
	ErrInvalidID = errors.Wrap(errors.ErrBadRequest, "invalid note id")
)
