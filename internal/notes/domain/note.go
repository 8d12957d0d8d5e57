package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultNotebookID is assigned to notes created without a notebook.
const DefaultNotebookID = "default"

// Note is a plaintext markdown note. Embedding is maintained in the background
// and is never returned by the API.
type Note struct {
	ID         bson.ObjectID
	Title      string
	Markdown   string
	Tags       []string
	NotebookID string
	Embedding  []float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateNoteInput holds the fields accepted on creation.
type CreateNoteInput struct {
	Title      string
	Markdown   string
	Tags       []string
	NotebookID string
}

// UpdateNoteInput is a partial update. Nil fields are left unchanged.
type UpdateNoteInput struct {
	Title      *string
	Markdown   *string
	Tags       *[]string
	NotebookID *string
}

// ChangesContent reports whether the update touches a field the embedding is built from.
func (u *UpdateNoteInput) ChangesContent() bool {
	return u.Title != nil || u.Markdown != nil || u.Tags != nil
}
