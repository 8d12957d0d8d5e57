package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// VaultNote is a note whose configured fields are encrypted before they reach storage.
type VaultNote struct {
	ID        bson.ObjectID
	Title     string
	Markdown  string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateVaultNoteInput holds the fields accepted on creation.
type CreateVaultNoteInput struct {
	Title    string
	Markdown string
	Tags     []string
}

// UpdateVaultNoteInput is a partial update. Nil fields are left unchanged.
type UpdateVaultNoteInput struct {
	Title    *string
	Markdown *string
	Tags     *[]string
}
