package csfle

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// vaultFieldTypes lists the vault note fields that may be encrypted and their BSON types.
var vaultFieldTypes = map[string]bson.Type{
	"markdown": bson.TypeString,
	"title":    bson.TypeString,
	"tags":     bson.TypeArray,
}

// VaultSchema builds the encryption schema for the vault collection. Every
// configured field uses the random algorithm under keyID.
func VaultSchema(ns cryptoDomain.Namespace, fields []string, keyID uuid.UUID) (cryptoDomain.EncryptionSchema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no vault fields configured for encryption", cryptoDomain.ErrInvalidSchema)
	}

	specs := make(map[string]cryptoDomain.FieldSpec, len(fields))
	for _, field := range fields {
		bsonType, ok := vaultFieldTypes[field]
		if !ok {
			return nil, fmt.Errorf("%w: vault field %q cannot be encrypted", cryptoDomain.ErrInvalidSchema, field)
		}
		specs[field] = cryptoDomain.FieldSpec{
			BSONType:  bsonType,
			Algorithm: cryptoDomain.Random,
			KeyID:     keyID,
		}
	}

	schema := cryptoDomain.EncryptionSchema{
		ns: cryptoDomain.CollectionSchema{Fields: specs},
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// ParseDataKeyID accepts a data key id as canonical UUID text or as the base64
// encoding of its 16 bytes.
func ParseDataKeyID(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: data key id %q is neither a UUID nor base64", cryptoDomain.ErrEncryptionNotConfigured, s)
	}
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: data key id must be 16 bytes, got %d", cryptoDomain.ErrEncryptionNotConfigured, len(raw))
	}
	return id, nil
}

// EncodeDataKeyID renders an id the way create-data-key prints it.
func EncodeDataKeyID(id uuid.UUID) string {
	return base64.StdEncoding.EncodeToString(id[:])
}
