package domain

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Namespace identifies a collection as "<database>.<collection>".
type Namespace struct {
	Database   string
	Collection string
}

// String returns the dotted form of the namespace.
func (n Namespace) String() string {
	return n.Database + "." + n.Collection
}

// ParseNamespace parses "<database>.<collection>".
func ParseNamespace(s string) (Namespace, error) {
	db, coll, found := strings.Cut(s, ".")
	if !found || db == "" || coll == "" {
		return Namespace{}, fmt.Errorf("%w: namespace %q must be <database>.<collection>", ErrInvalidSchema, s)
	}
	return Namespace{Database: db, Collection: coll}, nil
}

// FieldSpec describes how one top-level field of a collection is encrypted.
type FieldSpec struct {
	BSONType  bson.Type
	Algorithm EncryptionAlgorithm
	KeyID     uuid.UUID
}

// CollectionSchema lists the encrypted fields of a collection.
type CollectionSchema struct {
	Fields map[string]FieldSpec
}

// Field returns the spec for a field name.
func (c CollectionSchema) Field(name string) (FieldSpec, bool) {
	spec, ok := c.Fields[name]
	return spec, ok
}

// EncryptionSchema maps namespaces to their encrypted fields. It is fixed for the
// lifetime of an encrypting connection.
type EncryptionSchema map[Namespace]CollectionSchema

// Collection returns the schema registered for a namespace.
func (s EncryptionSchema) Collection(ns Namespace) (CollectionSchema, bool) {
	c, ok := s[ns]
	return c, ok
}

// KeyIDs returns every distinct data key referenced by the schema, sorted.
func (s EncryptionSchema) KeyIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, coll := range s {
		for _, spec := range coll.Fields {
			if !slices.Contains(ids, spec.KeyID) {
				ids = append(ids, spec.KeyID)
			}
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

// Validate checks the schema shape. Key existence is checked against the key
// vault when the encrypting connection is established.
func (s EncryptionSchema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no collections", ErrInvalidSchema)
	}

	for ns, coll := range s {
		if ns.Database == "" || ns.Collection == "" {
			return fmt.Errorf("%w: empty namespace %q", ErrInvalidSchema, ns.String())
		}
		if len(coll.Fields) == 0 {
			return fmt.Errorf("%w: %s has no encrypted fields", ErrInvalidSchema, ns)
		}
		for name, spec := range coll.Fields {
			if err := validateField(name, spec); err != nil {
				return fmt.Errorf("%s: %w", ns, err)
			}
		}
	}
	return nil
}

func validateField(name string, spec FieldSpec) error {
	if name == "" || name == "_id" || strings.ContainsAny(name, ".$") {
		return fmt.Errorf("%w: field %q cannot be encrypted", ErrInvalidSchema, name)
	}
	if spec.KeyID == uuid.Nil {
		return fmt.Errorf("%w: field %q has no key id", ErrInvalidSchema, name)
	}
	if !spec.BSONType.IsValid() {
		return fmt.Errorf("%w: field %q has invalid bson type", ErrInvalidSchema, name)
	}

	switch spec.Algorithm {
	case Random:
	case Deterministic:
		switch spec.BSONType {
		case bson.TypeEmbeddedDocument, bson.TypeArray, bson.TypeDouble, bson.TypeBoolean, bson.TypeDecimal128:
			return fmt.Errorf(
				"%w: field %q of type %s cannot use deterministic encryption",
				ErrInvalidSchema,
				name,
				spec.BSONType,
			)
		}
	default:
		return fmt.Errorf("%w: field %q: %q", ErrUnsupportedAlgorithm, name, spec.Algorithm)
	}
	return nil
}
