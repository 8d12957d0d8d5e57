// Package repository persists data keys in the key vault collection.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// KeyAltNamesIndex is the name of the unique partial index on keyAltNames.
const KeyAltNamesIndex = "keyAltNames_1"

type masterKeyDocument struct {
	Provider string `bson:"provider"`
}

// dataKeyDocument is the stored layout of a data key.
type dataKeyDocument struct {
	ID           bson.Binary       `bson:"_id"`
	KeyAltNames  []string          `bson:"keyAltNames,omitempty"`
	KeyMaterial  bson.Binary       `bson:"keyMaterial"`
	Algorithm    string            `bson:"algorithm"`
	CreationDate time.Time         `bson:"creationDate"`
	UpdateDate   time.Time         `bson:"updateDate"`
	Status       int32             `bson:"status"`
	MasterKey    masterKeyDocument `bson:"masterKey"`
}

// KeyVaultRepository stores data keys in a document collection.
type KeyVaultRepository struct {
	coll docstore.Collection
}

// NewKeyVaultRepository creates a repository over the key vault collection.
func NewKeyVaultRepository(coll docstore.Collection) *KeyVaultRepository {
	return &KeyVaultRepository{coll: coll}
}

// EnsureIndex creates the unique partial index on keyAltNames. An identical
// existing index is not an error; an index on the same name or keys with other
// options is reported as docstore.ErrIndexConflict, since alternate names would
// not be unique.
func (r *KeyVaultRepository) EnsureIndex(ctx context.Context) error {
	_, err := r.coll.CreateIndex(ctx, docstore.IndexModel{
		Name:   KeyAltNamesIndex,
		Keys:   bson.D{{Key: "keyAltNames", Value: 1}},
		Unique: true,
		PartialFilter: bson.D{
			{Key: "keyAltNames", Value: bson.D{{Key: "$exists", Value: true}}},
		},
	})
	if err != nil && !apperrors.Is(err, docstore.ErrIndexExists) {
		return apperrors.Wrap(err, "failed to create key vault index")
	}
	return nil
}

// Create inserts a data key. A clash on keyAltNames returns ErrDuplicateAltName.
func (r *KeyVaultRepository) Create(ctx context.Context, dataKey *cryptoDomain.DataKey) error {
	doc, err := docstore.Encode(toDocument(dataKey))
	if err != nil {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if apperrors.Is(err, docstore.ErrDuplicateKey) {
			return fmt.Errorf("%w: %v", cryptoDomain.ErrDuplicateAltName, dataKey.KeyAltNames)
		}
		return apperrors.Wrap(err, "failed to create data key")
	}
	return nil
}

// Get retrieves a data key by id.
func (r *KeyVaultRepository) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.DataKey, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: uuidBinary(id)}}, id.String())
}

// GetByAltName retrieves the data key carrying an alternate name.
func (r *KeyVaultRepository) GetByAltName(ctx context.Context, altName string) (*cryptoDomain.DataKey, error) {
	return r.findOne(ctx, bson.D{{Key: "keyAltNames", Value: altName}}, altName)
}

func (r *KeyVaultRepository) findOne(ctx context.Context, filter bson.D, ref string) (*cryptoDomain.DataKey, error) {
	doc, err := r.coll.FindOne(ctx, filter, nil)
	if err != nil {
		if apperrors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrDataKeyNotFound, ref)
		}
		return nil, apperrors.Wrap(err, "failed to get data key")
	}

	var stored dataKeyDocument
	if err := docstore.Decode(doc, &stored); err != nil {
		return nil, err
	}
	return toDomain(&stored)
}

func uuidBinary(id uuid.UUID) bson.Binary {
	return bson.Binary{Subtype: bson.TypeBinaryUUID, Data: id[:]}
}

func toDocument(dataKey *cryptoDomain.DataKey) *dataKeyDocument {
	return &dataKeyDocument{
		ID:           uuidBinary(dataKey.ID),
		KeyAltNames:  dataKey.KeyAltNames,
		KeyMaterial:  bson.Binary{Subtype: bson.TypeBinaryGeneric, Data: dataKey.KeyMaterial},
		Algorithm:    string(dataKey.Algorithm),
		CreationDate: dataKey.CreationDate,
		UpdateDate:   dataKey.UpdateDate,
		Status:       int32(dataKey.Status),
		MasterKey:    masterKeyDocument{Provider: dataKey.MasterKeyProvider},
	}
}

func toDomain(stored *dataKeyDocument) (*cryptoDomain.DataKey, error) {
	if stored.ID.Subtype != bson.TypeBinaryUUID {
		return nil, fmt.Errorf("data key id has binary subtype %d", stored.ID.Subtype)
	}
	id, err := uuid.FromBytes(stored.ID.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid data key id: %w", err)
	}

	altNames := stored.KeyAltNames
	if altNames == nil {
		altNames = []string{}
	}

	return &cryptoDomain.DataKey{
		ID:                id,
		KeyAltNames:       altNames,
		KeyMaterial:       stored.KeyMaterial.Data,
		Algorithm:         cryptoDomain.Algorithm(stored.Algorithm),
		MasterKeyProvider: stored.MasterKey.Provider,
		Status:            int(stored.Status),
		CreationDate:      stored.CreationDate.UTC(),
		UpdateDate:        stored.UpdateDate.UTC(),
	}, nil
}
