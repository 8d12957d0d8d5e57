// Package docstore defines the document storage contract shared by the MongoDB
// adapter and the in-memory store used by the memory driver and tests.
//
// Documents travel as bson.D so that field order is preserved and encrypted
// values (BSON binary subtype 6) pass through untouched.
package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// Storage errors. Adapters translate driver errors into these.
var (
	// ErrDocumentNotFound indicates no document matched the filter.
	ErrDocumentNotFound = apperrors.Wrap(apperrors.ErrNotFound, "document not found")

	// ErrDuplicateKey indicates a unique index rejected a write.
	ErrDuplicateKey = apperrors.Wrap(apperrors.ErrConflict, "duplicate key")

	// ErrIndexExists indicates an identical index already exists.
	ErrIndexExists = apperrors.Wrap(apperrors.ErrConflict, "index already exists")

	// ErrIndexConflict indicates an index with the same name or keys exists with
	// different options, so the requested constraint is not in place.
	ErrIndexConflict = apperrors.Wrap(apperrors.ErrConflict, "index conflicts with an existing index")

	// ErrUnsupported indicates the store cannot run the requested operation,
	// such as Atlas Search stages on the memory driver.
	ErrUnsupported = apperrors.Wrap(apperrors.ErrUnavailable, "operation not supported by storage driver")
)

// Client is a connection to a document store.
type Client interface {
	Database(name string) Database
	Disconnect(ctx context.Context) error
}

// Database is a named group of collections.
type Database interface {
	Name() string
	Collection(name string) Collection
}

// Collection is the set of operations the repositories need.
type Collection interface {
	Name() string
	DatabaseName() string

	InsertOne(ctx context.Context, doc bson.D) (any, error)
	Find(ctx context.Context, filter bson.D, opts *FindOptions) ([]bson.D, error)
	// FindOne returns ErrDocumentNotFound when nothing matches.
	FindOne(ctx context.Context, filter bson.D, opts *FindOptions) (bson.D, error)
	// FindOneAndSet applies a $set update and returns the updated document.
	// It returns ErrDocumentNotFound when nothing matches.
	FindOneAndSet(ctx context.Context, filter bson.D, set bson.D, opts *FindOptions) (bson.D, error)
	// DeleteOne returns the number of deleted documents (0 or 1).
	DeleteOne(ctx context.Context, filter bson.D) (int64, error)
	Aggregate(ctx context.Context, pipeline []bson.D) ([]bson.D, error)

	CreateIndex(ctx context.Context, model IndexModel) (string, error)
	CreateSearchIndex(ctx context.Context, model SearchIndexModel) (string, error)
}

// FindOptions carries the subset of find options the repositories use.
type FindOptions struct {
	// Sort is applied in order; values are 1 (ascending) or -1 (descending).
	Sort bson.D
	// Limit caps the number of results. Zero means no limit.
	Limit int64
	// Projection excludes fields set to 0.
	Projection bson.D
}

// IndexModel describes a regular index.
type IndexModel struct {
	Name   string
	Keys   bson.D
	Unique bool
	// PartialFilter limits the index to matching documents, e.g. {field: {$exists: true}}.
	PartialFilter bson.D
}

// SearchIndexModel describes an Atlas Search or Vector Search index.
type SearchIndexModel struct {
	Name string
	// Type is "search" or "vectorSearch".
	Type       string
	Definition bson.D
}

// Decode converts a document into out through a BSON round trip.
func Decode(doc bson.D, out any) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := bson.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Encode converts a struct with bson tags into a document.
func Encode(v any) (bson.D, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// Lookup returns the value of a top-level field.
func Lookup(doc bson.D, key string) (any, bool) {
	for _, e := range doc {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}
