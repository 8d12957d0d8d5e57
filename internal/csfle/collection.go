package csfle

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
	cryptoService "github.com/allisson/inkleaf/internal/crypto/service"
	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// ErrPartialFieldUpdate indicates an update targets a path inside an encrypted field.
var ErrPartialFieldUpdate = apperrors.Wrap(apperrors.ErrInvalidInput, "cannot update part of an encrypted field")

type collection struct {
	inner     docstore.Collection
	schema    cryptoDomain.CollectionSchema
	encrypter cryptoService.FieldEncrypter
}

func (c *collection) Name() string {
	return c.inner.Name()
}

func (c *collection) DatabaseName() string {
	return c.inner.DatabaseName()
}

func (c *collection) InsertOne(ctx context.Context, doc bson.D) (any, error) {
	encrypted, err := c.encryptFields(doc)
	if err != nil {
		return nil, err
	}
	return c.inner.InsertOne(ctx, encrypted)
}

func (c *collection) Find(ctx context.Context, filter bson.D, opts *docstore.FindOptions) ([]bson.D, error) {
	filter, err := c.encryptFilter(filter)
	if err != nil {
		return nil, err
	}

	docs, err := c.inner.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		if docs[i], err = c.decryptDocument(doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (c *collection) FindOne(ctx context.Context, filter bson.D, opts *docstore.FindOptions) (bson.D, error) {
	filter, err := c.encryptFilter(filter)
	if err != nil {
		return nil, err
	}

	doc, err := c.inner.FindOne(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return c.decryptDocument(doc)
}

func (c *collection) FindOneAndSet(
	ctx context.Context,
	filter bson.D,
	set bson.D,
	opts *docstore.FindOptions,
) (bson.D, error) {
	filter, err := c.encryptFilter(filter)
	if err != nil {
		return nil, err
	}

	for _, e := range set {
		if name, _, dotted := strings.Cut(e.Key, "."); dotted {
			if _, ok := c.schema.Field(name); ok {
				return nil, fmt.Errorf("%w: %s", ErrPartialFieldUpdate, e.Key)
			}
		}
	}

	set, err = c.encryptFields(set)
	if err != nil {
		return nil, err
	}

	doc, err := c.inner.FindOneAndSet(ctx, filter, set, opts)
	if err != nil {
		return nil, err
	}
	return c.decryptDocument(doc)
}

func (c *collection) DeleteOne(ctx context.Context, filter bson.D) (int64, error) {
	filter, err := c.encryptFilter(filter)
	if err != nil {
		return 0, err
	}
	return c.inner.DeleteOne(ctx, filter)
}

// Aggregate is only available on collections without encrypted fields.
func (c *collection) Aggregate(ctx context.Context, pipeline []bson.D) ([]bson.D, error) {
	if len(c.schema.Fields) > 0 {
		return nil, fmt.Errorf("%w: aggregation on encrypted collection %s", docstore.ErrUnsupported, c.inner.Name())
	}

	docs, err := c.inner.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	for i, doc := range docs {
		if docs[i], err = c.decryptDocument(doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// CreateIndex refuses indexes over randomly encrypted fields.
func (c *collection) CreateIndex(ctx context.Context, model docstore.IndexModel) (string, error) {
	for _, key := range model.Keys {
		name, _, _ := strings.Cut(key.Key, ".")
		if spec, ok := c.schema.Field(name); ok && spec.Algorithm != cryptoDomain.Deterministic {
			return "", fmt.Errorf("%w: %s", cryptoDomain.ErrFieldNotQueryable, key.Key)
		}
	}
	return c.inner.CreateIndex(ctx, model)
}

func (c *collection) CreateSearchIndex(ctx context.Context, model docstore.SearchIndexModel) (string, error) {
	return c.inner.CreateSearchIndex(ctx, model)
}

// encryptFields returns a copy of doc with every schema field encrypted.
func (c *collection) encryptFields(doc bson.D) (bson.D, error) {
	if len(c.schema.Fields) == 0 {
		return doc, nil
	}

	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		spec, ok := c.schema.Field(e.Key)
		if !ok {
			out = append(out, e)
			continue
		}

		bin, err := c.encrypter.EncryptValue(e.Value, spec)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", e.Key, err)
		}
		out = append(out, bson.E{Key: e.Key, Value: bin})
	}
	return out, nil
}

func (c *collection) decryptDocument(doc bson.D) (bson.D, error) {
	out := make(bson.D, len(doc))
	for i, e := range doc {
		value, err := c.decryptValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", e.Key, err)
		}
		out[i] = bson.E{Key: e.Key, Value: value}
	}
	return out, nil
}

func (c *collection) decryptValue(v any) (any, error) {
	if bin, ok := cryptoDomain.IsEncryptedBinary(v); ok {
		return c.encrypter.DecryptValue(bin)
	}

	switch value := v.(type) {
	case bson.D:
		return c.decryptDocument(value)
	case bson.A:
		out := make(bson.A, len(value))
		for i, elem := range value {
			decrypted, err := c.decryptValue(elem)
			if err != nil {
				return nil, err
			}
			out[i] = decrypted
		}
		return out, nil
	default:
		return v, nil
	}
}
