// Package repository persists vault notes through the encrypting and plain
// database handles.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// Collection is the vault notes collection name.
const Collection = "vault_notes"

// DatabaseProvider returns a connected database handle. *database.Manager satisfies it.
type DatabaseProvider interface {
	Database() (docstore.Database, error)
}

type vaultNoteDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Title     string        `bson:"title"`
	Markdown  string        `bson:"markdown"`
	Tags      []string      `bson:"tags"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

// VaultNoteRepository reads and writes vault notes. CRUD goes through the
// encrypting handle; GetRaw goes through the plain handle and never decrypts.
type VaultNoteRepository struct {
	encrypted DatabaseProvider
	plain     DatabaseProvider
}

// NewVaultNoteRepository creates a new VaultNoteRepository.
func NewVaultNoteRepository(encrypted, plain DatabaseProvider) *VaultNoteRepository {
	return &VaultNoteRepository{encrypted: encrypted, plain: plain}
}

func (r *VaultNoteRepository) collection() (docstore.Collection, error) {
	db, err := r.encrypted.Database()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrVaultUnavailable, err)
	}
	return db.Collection(Collection), nil
}

// List returns every vault note, most recently updated first.
func (r *VaultNoteRepository) List(ctx context.Context) ([]*vaultDomain.VaultNote, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	docs, err := coll.Find(ctx, nil, &docstore.FindOptions{Sort: bson.D{{Key: "updatedAt", Value: -1}}})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault notes")
	}

	notes := make([]*vaultDomain.VaultNote, 0, len(docs))
	for _, doc := range docs {
		note, err := toDomain(doc)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// Get returns a vault note by id.
func (r *VaultNoteRepository) Get(ctx context.Context, id bson.ObjectID) (*vaultDomain.VaultNote, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	doc, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}, nil)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomain(doc)
}

// Create inserts a vault note. The caller sets the id and timestamps.
func (r *VaultNoteRepository) Create(ctx context.Context, note *vaultDomain.VaultNote) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	doc, err := docstore.Encode(&vaultNoteDocument{
		ID:        note.ID,
		Title:     note.Title,
		Markdown:  note.Markdown,
		Tags:      note.Tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	})
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return apperrors.Wrap(err, "failed to create vault note")
	}
	return nil
}

// Update applies a partial update and returns the updated note.
func (r *VaultNoteRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	input *vaultDomain.UpdateVaultNoteInput,
	updatedAt time.Time,
) (*vaultDomain.VaultNote, error) {
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
	set = append(set, bson.E{Key: "updatedAt", Value: updatedAt})

	doc, err := coll.FindOneAndSet(ctx, bson.D{{Key: "_id", Value: id}}, set, nil)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return toDomain(doc)
}

// Delete removes a vault note and reports whether one was deleted.
func (r *VaultNoteRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	coll, err := r.collection()
	if err != nil {
		return false, err
	}

	deleted, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete vault note")
	}
	return deleted == 1, nil
}

// GetRaw returns the stored document as the storage engine holds it.
func (r *VaultNoteRepository) GetRaw(ctx context.Context, id bson.ObjectID) (bson.D, error) {
	db, err := r.plain.Database()
	if err != nil {
		return nil, err
	}

	doc, err := db.Collection(Collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}, nil)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return doc, nil
}

func mapNotFound(err error) error {
	if apperrors.Is(err, docstore.ErrDocumentNotFound) {
		return vaultDomain.ErrVaultNoteNotFound
	}
	return err
}

func toDomain(doc bson.D) (*vaultDomain.VaultNote, error) {
	var stored vaultNoteDocument
	if err := docstore.Decode(doc, &stored); err != nil {
		return nil, err
	}

	tags := stored.Tags
	if tags == nil {
		tags = []string{}
	}

	return &vaultDomain.VaultNote{
		ID:        stored.ID,
		Title:     stored.Title,
		Markdown:  stored.Markdown,
		Tags:      tags,
		CreatedAt: stored.CreatedAt.UTC(),
		UpdatedAt: stored.UpdatedAt.UTC(),
	}, nil
}
