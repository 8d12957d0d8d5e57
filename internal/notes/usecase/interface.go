// Package usecase defines the interfaces and implementations for plain note use cases.
package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// NoteRepository defines the interface for note persistence operations.
type NoteRepository interface {
	List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error)
	Get(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error)
	Create(ctx context.Context, note *notesDomain.Note) error
	Update(
		ctx context.Context,
		id bson.ObjectID,
		input *notesDomain.UpdateNoteInput,
		updatedAt time.Time,
	) (*notesDomain.Note, error)
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
}

// EmbeddingStore persists generated embeddings.
type EmbeddingStore interface {
	SetEmbedding(ctx context.Context, id bson.ObjectID, embedding []float64) error
}

// Embedder turns text into a vector. A disabled embedder returns (nil, nil).
type Embedder interface {
	Generate(ctx context.Context, text string) ([]float64, error)
}

// EmbeddingRefresher schedules regeneration of a note's embedding.
type EmbeddingRefresher interface {
	Refresh(ctx context.Context, note *notesDomain.Note)
}

// NoteUseCase defines the interface for note business logic.
type NoteUseCase interface {
	List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error)
	Get(ctx context.Context, id string) (*notesDomain.Note, error)
	Create(ctx context.Context, input *notesDomain.CreateNoteInput) (*notesDomain.Note, error)
	Update(ctx context.Context, id string, input *notesDomain.UpdateNoteInput) (*notesDomain.Note, error)
	// Delete reports false when no note had the id.
	Delete(ctx context.Context, id string) (bool, error)
}
