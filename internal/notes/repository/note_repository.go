// Package repository persists plain notes through the plain database handle.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// Collection is the notes collection name.
const Collection = "notes"

// DatabaseProvider returns a connected database handle. *database.Manager satisfies it.
type DatabaseProvider interface {
	Database() (docstore.Database, error)
}

var withoutEmbedding = bson.D{{Key: "embedding", Value: 0}}

type noteDocument struct {
	ID         bson.ObjectID `bson:"_id"`
	Title      string        `bson:"title"`
	Markdown   string        `bson:"markdown"`
	Tags       []string      `bson:"tags"`
	NotebookID string        `bson:"notebookId"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
	Embedding  []float64     `bson:"embedding,omitempty"`
}

// NoteRepository reads and writes plain notes.
type NoteRepository struct {
	db DatabaseProvider
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(db DatabaseProvider) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) collection() (docstore.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(Collection), nil
}

// List returns notes newest first, optionally limited to one notebook.
func (r *NoteRepository) List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var filter bson.D
	if notebookID != "" {
		filter = bson.D{{Key: "notebookId", Value: notebookID}}
	}

	docs, err := coll.Find(ctx, filter, &docstore.FindOptions{
		Sort:       bson.D{{Key: "updatedAt", Value: -1}},
		Projection: withoutEmbedding,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notes")
	}

	notes := make([]*notesDomain.Note, 0, len(docs))
	for _, doc := range docs {
		note, err := toDomain(doc)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// Get returns a note by id without its embedding.
func (r *NoteRepository) Get(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	doc, err := coll.FindOne(ctx, byID(id), &docstore.FindOptions{Projection: withoutEmbedding})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomain(doc)
}

// GetWithEmbedding returns a note by id including its embedding, if any.
func (r *NoteRepository) GetWithEmbedding(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	doc, err := coll.FindOne(ctx, byID(id), nil)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomain(doc)
}

// Create inserts a note. The caller sets the id and timestamps.
func (r *NoteRepository) Create(ctx context.Context, note *notesDomain.Note) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	doc, err := docstore.Encode(&noteDocument{
		ID:         note.ID,
		Title:      note.Title,
		Markdown:   note.Markdown,
		Tags:       note.Tags,
		NotebookID: note.NotebookID,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
		Embedding:  note.Embedding,
	})
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return apperrors.Wrap(err, "failed to create note")
	}
	return nil
}

// Update applies a partial update and returns the updated note without its embedding.
func (r *NoteRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	input *notesDomain.UpdateNoteInput,
	updatedAt time.Time,
) (*notesDomain.Note, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	set := bson.D{}
	if input.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *input.Title})
	}
	if input.Markdown != nil {
		set = append(set, bson.E{Key: "markdown", Value: *input.Markdown})
	}
	if input.Tags != nil {
		tags := *input.Tags
		if tags == nil {
			tags = []string{}
		}
		set = append(set, bson.E{Key: "tags", Value: tags})
	}
	if input.NotebookID != nil {
		set = append(set, bson.E{Key: "notebookId", Value: *input.NotebookID})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: updatedAt})

	doc, err := coll.FindOneAndSet(ctx, byID(id), set, &docstore.FindOptions{Projection: withoutEmbedding})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomain(doc)
}

// SetEmbedding stores a freshly generated embedding.
func (r *NoteRepository) SetEmbedding(ctx context.Context, id bson.ObjectID, embedding []float64) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	set := bson.D{{Key: "embedding", Value: embedding}}
	if _, err := coll.FindOneAndSet(ctx, byID(id), set, &docstore.FindOptions{Projection: withoutEmbedding}); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// Delete removes a note and reports whether one was deleted.
func (r *NoteRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	coll, err := r.collection()
	if err != nil {
		return false, err
	}

	deleted, err := coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete note")
	}
	return deleted == 1, nil
}

func byID(id bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func mapNotFound(err error) error {
	if apperrors.Is(err, docstore.ErrDocumentNotFound) {
		return notesDomain.ErrNoteNotFound
	}
	return err
}

func toDomain(doc bson.D) (*notesDomain.Note, error) {
	var stored noteDocument
	if err := docstore.Decode(doc, &stored); err != nil {
		return nil, err
	}

	tags := stored.Tags
	if tags == nil {
		tags = []string{}
	}

	return &notesDomain.Note{
		ID:         stored.ID,
		Title:      stored.Title,
		Markdown:   stored.Markdown,
		Tags:       tags,
		NotebookID: stored.NotebookID,
		Embedding:  stored.Embedding,
		CreatedAt:  stored.CreatedAt.UTC(),
		UpdatedAt:  stored.UpdatedAt.UTC(),
	}, nil
}
