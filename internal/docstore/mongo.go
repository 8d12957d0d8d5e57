package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/inkleaf/internal/errors"
)

// Server error codes for an existing index: 68 IndexAlreadyExists, 85
// IndexOptionsConflict and 86 IndexKeySpecsConflict.
var (
	indexExistsCodes   = []int{68}
	indexConflictCodes = []int{85, 86}
)

// MongoClient adapts a *mongo.Client. Every collection operation runs under
// opTimeout and driver errors are translated to the storage errors.
type MongoClient struct {
	client    *mongo.Client
	opTimeout time.Duration
}

// NewMongoClient wraps a connected driver client.
func NewMongoClient(client *mongo.Client, opTimeout time.Duration) *MongoClient {
	return &MongoClient{client: client, opTimeout: opTimeout}
}

// Database returns a handle for the named database.
func (c *MongoClient) Database(name string) Database {
	return &mongoDatabase{db: c.client.Database(name), opTimeout: c.opTimeout}
}

// Disconnect closes the underlying driver client.
func (c *MongoClient) Disconnect(ctx context.Context) error {
	return mapError(c.client.Disconnect(ctx))
}

type mongoDatabase struct {
	db        *mongo.Database
	opTimeout time.Duration
}

func (d *mongoDatabase) Name() string {
	return d.db.Name()
}

func (d *mongoDatabase) Collection(name string) Collection {
	return &mongoCollection{coll: d.db.Collection(name), opTimeout: d.opTimeout}
}

type mongoCollection struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

func (c *mongoCollection) Name() string {
	return c.coll.Name()
}

func (c *mongoCollection) DatabaseName() string {
	return c.coll.Database().Name()
}

func (c *mongoCollection) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc bson.D) (any, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mapError(err)
	}
	return result.InsertedID, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.D, opts *FindOptions) ([]bson.D, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	findOpts := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
		if len(opts.Projection) > 0 {
			findOpts.SetProjection(opts.Projection)
		}
	}

	cursor, err := c.coll.Find(ctx, orEmpty(filter), findOpts)
	if err != nil {
		return nil, mapError(err)
	}

	docs := make([]bson.D, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}
	return docs, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.D, opts *FindOptions) (bson.D, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	findOpts := options.FindOne()
	if opts != nil && len(opts.Projection) > 0 {
		findOpts.SetProjection(opts.Projection)
	}

	var doc bson.D
	if err := c.coll.FindOne(ctx, orEmpty(filter), findOpts).Decode(&doc); err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

func (c *mongoCollection) FindOneAndSet(
	ctx context.Context,
	filter bson.D,
	set bson.D,
	opts *FindOptions,
) (bson.D, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	updateOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if opts != nil && len(opts.Projection) > 0 {
		updateOpts.SetProjection(opts.Projection)
	}

	var doc bson.D
	err := c.coll.FindOneAndUpdate(ctx, orEmpty(filter), bson.D{{Key: "$set", Value: set}}, updateOpts).
		Decode(&doc)
	if err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.D) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := c.coll.DeleteOne(ctx, orEmpty(filter))
	if err != nil {
		return 0, mapError(err)
	}
	return result.DeletedCount, nil
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline []bson.D) ([]bson.D, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	cursor, err := c.coll.Aggregate(ctx, mongo.Pipeline(pipeline))
	if err != nil {
		return nil, mapError(err)
	}

	docs := make([]bson.D, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}
	return docs, nil
}

func (c *mongoCollection) CreateIndex(ctx context.Context, model IndexModel) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	indexOpts := options.Index()
	if model.Name != "" {
		indexOpts.SetName(model.Name)
	}
	if model.Unique {
		indexOpts.SetUnique(true)
	}
	if len(model.PartialFilter) > 0 {
		indexOpts.SetPartialFilterExpression(model.PartialFilter)
	}

	name, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: model.Keys, Options: indexOpts})
	if err != nil {
		return "", mapError(err)
	}
	return name, nil
}

func (c *mongoCollection) CreateSearchIndex(ctx context.Context, model SearchIndexModel) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	searchOpts := options.SearchIndexes().SetName(model.Name)
	if model.Type != "" {
		searchOpts.SetType(model.Type)
	}

	name, err := c.coll.SearchIndexes().CreateOne(ctx, mongo.SearchIndexModel{
		Definition: model.Definition,
		Options:    searchOpts,
	})
	if err != nil {
		return "", mapError(err)
	}
	return name, nil
}

func orEmpty(filter bson.D) bson.D {
	if filter == nil {
		return bson.D{}
	}
	return filter
}

// mapError translates driver errors into storage errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrDocumentNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case hasErrorCode(err, indexExistsCodes...):
		return fmt.Errorf("%w: %v", ErrIndexExists, err)
	case hasErrorCode(err, indexConflictCodes...):
		return fmt.Errorf("%w: %v", ErrIndexConflict, err)
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", apperrors.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
}

func hasErrorCode(err error, codes ...int) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	for _, code := range codes {
		if serverErr.HasErrorCode(code) {
			return true
		}
	}
	return false
}
