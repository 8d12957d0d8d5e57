package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	apperrors "github.com/allisson/inkleaf/internal/errors"
)

func newTestCollection(t *testing.T) Collection {
	t.Helper()
	return NewMemoryClient().Database("inkleaf").Collection("notes")
}

func TestMemoryClient_Database(t *testing.T) {
	client := NewMemoryClient()

	first := client.Database("inkleaf").Collection("notes")
	second := client.Database("inkleaf").Collection("notes")
	assert.Same(t, first, second)
	assert.Equal(t, "inkleaf", client.Database("inkleaf").Name())
	assert.Equal(t, "notes", first.Name())
	assert.Equal(t, "inkleaf", first.DatabaseName())
	assert.NoError(t, client.Disconnect(context.Background()))
}

func TestMemoryCollection_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)

	now := time.Now().UTC()
	id, err := coll.InsertOne(ctx, bson.D{
		{Key: "title", Value: "First"},
		{Key: "tags", Value: []string{"go", "mongo"}},
		{Key: "updatedAt", Value: now},
	})
	require.NoError(t, err)
	oid, ok := id.(bson.ObjectID)
	require.True(t, ok)

	t.Run("Success_FindByID", func(t *testing.T) {
		doc, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, nil)
		require.NoError(t, err)
		title, _ := Lookup(doc, "title")
		assert.Equal(t, "First", title)
		tags, _ := Lookup(doc, "tags")
		assert.Equal(t, bson.A{"go", "mongo"}, tags)
		updatedAt, _ := Lookup(doc, "updatedAt")
		assert.IsType(t, bson.DateTime(0), updatedAt)
	})

	t.Run("Success_ArrayContains", func(t *testing.T) {
		docs, err := coll.Find(ctx, bson.D{{Key: "tags", Value: "mongo"}}, nil)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: bson.NewObjectID()}}, nil)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_DuplicateID", func(t *testing.T) {
		_, err := coll.InsertOne(ctx, bson.D{{Key: "_id", Value: oid}})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestMemoryCollection_FindOptions(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"a", "b", "c"} {
		_, err := coll.InsertOne(ctx, bson.D{
			{Key: "title", Value: title},
			{Key: "notebookId", Value: "default"},
			{Key: "updatedAt", Value: base.Add(time.Duration(i) * time.Hour)},
			{Key: "embedding", Value: []float64{0.1, 0.2}},
		})
		require.NoError(t, err)
	}

	docs, err := coll.Find(ctx, bson.D{{Key: "notebookId", Value: "default"}}, &FindOptions{
		Sort:       bson.D{{Key: "updatedAt", Value: -1}},
		Limit:      2,
		Projection: bson.D{{Key: "embedding", Value: 0}},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	first, _ := Lookup(docs[0], "title")
	second, _ := Lookup(docs[1], "title")
	assert.Equal(t, "c", first)
	assert.Equal(t, "b", second)
	_, hasEmbedding := Lookup(docs[0], "embedding")
	assert.False(t, hasEmbedding)

	ascending, err := coll.Find(ctx, nil, &FindOptions{Sort: bson.D{{Key: "title", Value: 1}}})
	require.NoError(t, err)
	require.Len(t, ascending, 3)
	firstAsc, _ := Lookup(ascending[0], "title")
	assert.Equal(t, "a", firstAsc)

	included, err := coll.Find(ctx, nil, &FindOptions{Projection: bson.D{{Key: "title", Value: 1}}})
	require.NoError(t, err)
	assert.Len(t, included[0], 2)
}

func TestMemoryCollection_Operators(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)

	keepID, err := coll.InsertOne(ctx, bson.D{{Key: "title", Value: "keep"}, {Key: "pinned", Value: true}})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, bson.D{{Key: "title", Value: "other"}})
	require.NoError(t, err)

	docs, err := coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$ne", Value: keepID}}}}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = coll.Find(ctx, bson.D{{Key: "pinned", Value: bson.D{{Key: "$exists", Value: true}}}}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = coll.Find(ctx, bson.D{{Key: "title", Value: bson.D{{Key: "$in", Value: bson.A{"keep", "other"}}}}}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = coll.Find(ctx, bson.D{{Key: "$text", Value: "x"}}, nil)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = coll.Find(ctx, bson.D{{Key: "title", Value: bson.D{{Key: "$regex", Value: "k"}}}}, nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMemoryCollection_FindOneAndSet(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)

	id, err := coll.InsertOne(ctx, bson.D{{Key: "title", Value: "before"}, {Key: "markdown", Value: "body"}})
	require.NoError(t, err)

	t.Run("Success_ReturnsUpdated", func(t *testing.T) {
		doc, err := coll.FindOneAndSet(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{
			{Key: "title", Value: "after"},
			{Key: "tags", Value: []string{"x"}},
		}, nil)
		require.NoError(t, err)

		title, _ := Lookup(doc, "title")
		markdown, _ := Lookup(doc, "markdown")
		tags, _ := Lookup(doc, "tags")
		assert.Equal(t, "after", title)
		assert.Equal(t, "body", markdown)
		assert.Equal(t, bson.A{"x"}, tags)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, err := coll.FindOneAndSet(ctx, bson.D{{Key: "_id", Value: bson.NewObjectID()}}, bson.D{{Key: "title", Value: "x"}}, nil)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("Error_DottedPath", func(t *testing.T) {
		_, err := coll.FindOneAndSet(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "a.b", Value: 1}}, nil)
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestMemoryCollection_DeleteOne(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)

	id, err := coll.InsertOne(ctx, bson.D{{Key: "title", Value: "gone"}})
	require.NoError(t, err)

	deleted, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestMemoryCollection_UniquePartialIndex(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryClient().Database("inkleaf").Collection("encryption_keyVault")

	model := IndexModel{
		Keys:          bson.D{{Key: "keyAltNames", Value: 1}},
		Unique:        true,
		PartialFilter: bson.D{{Key: "keyAltNames", Value: bson.D{{Key: "$exists", Value: true}}}},
	}

	name, err := coll.CreateIndex(ctx, model)
	require.NoError(t, err)
	assert.Equal(t, "keyAltNames_1", name)

	name, err = coll.CreateIndex(ctx, model)
	require.NoError(t, err, "creating the same index twice is a no-op")
	assert.Equal(t, "keyAltNames_1", name)

	_, err = coll.CreateIndex(ctx, IndexModel{Name: "keyAltNames_1", Keys: bson.D{{Key: "other", Value: 1}}})
	assert.ErrorIs(t, err, ErrIndexConflict)

	_, err = coll.CreateIndex(ctx, IndexModel{Name: "altNames", Keys: bson.D{{Key: "keyAltNames", Value: 1}}})
	assert.ErrorIs(t, err, ErrIndexConflict, "same keys with different options")

	_, err = coll.InsertOne(ctx, bson.D{{Key: "keyAltNames", Value: []string{"vaultNotesKey"}}})
	require.NoError(t, err)

	_, err = coll.InsertOne(ctx, bson.D{{Key: "keyAltNames", Value: []string{"other", "vaultNotesKey"}}})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Documents without alt names are outside the partial index.
	_, err = coll.InsertOne(ctx, bson.D{{Key: "status", Value: 0}})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, bson.D{{Key: "status", Value: 0}})
	require.NoError(t, err)

	docs, err := coll.Find(ctx, bson.D{{Key: "keyAltNames", Value: "vaultNotesKey"}}, nil)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestMemoryCollection_Unsupported(t *testing.T) {
	ctx := context.Background()
	coll := newTestCollection(t)

	_, err := coll.Aggregate(ctx, []bson.D{{{Key: "$search", Value: bson.D{}}}})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	_, err = coll.CreateSearchIndex(ctx, SearchIndexModel{Name: "notes_search_index"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMemoryCollection_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestCollection(t).InsertOne(ctx, bson.D{{Key: "title", Value: "x"}})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	var out struct {
		Title string   `bson:"title"`
		Tags  []string `bson:"tags"`
	}
	err := Decode(bson.D{{Key: "title", Value: "t"}, {Key: "tags", Value: bson.A{"a"}}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "t", out.Title)
	assert.Equal(t, []string{"a"}, out.Tags)
}
