package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	"github.com/allisson/inkleaf/internal/testutil"
)

func setupRepository(t *testing.T) (*NoteRepository, docstore.Collection) {
	t.Helper()
	manager := testutil.SetupPlainManager(t, testutil.SetupMemoryStore(t))
	db, err := manager.Database()
	require.NoError(t, err)
	return NewNoteRepository(manager), db.Collection(Collection)
}

func newNote(title, notebookID string, updatedAt time.Time) *notesDomain.Note {
	return &notesDomain.Note{
		ID:         bson.NewObjectID(),
		Title:      title,
		Markdown:   "body of " + title,
		Tags:       []string{"go"},
		NotebookID: notebookID,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	}
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, coll := setupRepository(t)
	ts := time.Now().UTC().Truncate(time.Millisecond)

	note := newNote("Ideas", "default", ts)
	require.NoError(t, repo.Create(ctx, note))
	require.NoError(t, repo.SetEmbedding(ctx, note.ID, []float64{0.1, 0.2}))

	t.Run("Success_GetHidesEmbedding", func(t *testing.T) {
		got, err := repo.Get(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ideas", got.Title)
		assert.Equal(t, "default", got.NotebookID)
		assert.Nil(t, got.Embedding)
		assert.True(t, ts.Equal(got.UpdatedAt))
	})

	t.Run("Success_GetWithEmbedding", func(t *testing.T) {
		got, err := repo.GetWithEmbedding(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.2}, got.Embedding)
	})

	t.Run("Success_StoredCamelCase", func(t *testing.T) {
		raw, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: note.ID}}, nil)
		require.NoError(t, err)
		_, ok := docstore.Lookup(raw, "notebookId")
		assert.True(t, ok)
		_, ok = docstore.Lookup(raw, "createdAt")
		assert.True(t, ok)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, bson.NewObjectID())
		assert.ErrorIs(t, err, notesDomain.ErrNoteNotFound)

		err = repo.SetEmbedding(ctx, bson.NewObjectID(), []float64{1})
		assert.ErrorIs(t, err, notesDomain.ErrNoteNotFound)
	})
}

func TestNoteRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := newNote("older", "work", base.Add(-time.Hour))
	newer := newNote("newer", "work", base)
	personal := newNote("personal", "home", base.Add(-time.Minute))
	for _, n := range []*notesDomain.Note{older, newer, personal} {
		require.NoError(t, repo.Create(ctx, n))
	}
	require.NoError(t, repo.SetEmbedding(ctx, newer.ID, []float64{1, 2, 3}))

	t.Run("Success_AllNewestFirst", func(t *testing.T) {
		notes, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, "newer", notes[0].Title)
		assert.Equal(t, "personal", notes[1].Title)
		assert.Equal(t, "older", notes[2].Title)
		for _, n := range notes {
			assert.Nil(t, n.Embedding)
		}
	})

	t.Run("Success_FilterByNotebook", func(t *testing.T) {
		notes, err := repo.List(ctx, "work")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "newer", notes[0].Title)
	})

	t.Run("Success_EmptyNotebook", func(t *testing.T) {
		notes, err := repo.List(ctx, "missing")
		require.NoError(t, err)
		assert.NotNil(t, notes)
		assert.Empty(t, notes)
	})
}

func TestNoteRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)
	ts := time.Now().UTC().Truncate(time.Millisecond)

	note := newNote("draft", "default", ts)
	require.NoError(t, repo.Create(ctx, note))

	t.Run("Success_PartialUpdate", func(t *testing.T) {
		title := "final"
		notebook := "archive"
		var noTags []string
		later := ts.Add(time.Second)

		got, err := repo.Update(ctx, note.ID, &notesDomain.UpdateNoteInput{
			Title:      &title,
			Tags:       &noTags,
			NotebookID: &notebook,
		}, later)

		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.Equal(t, "body of draft", got.Markdown)
		assert.Equal(t, []string{}, got.Tags)
		assert.Equal(t, "archive", got.NotebookID)
		assert.True(t, later.Equal(got.UpdatedAt))
		assert.True(t, ts.Equal(got.CreatedAt))
	})

	t.Run("Error_UpdateNotFound", func(t *testing.T) {
		_, err := repo.Update(ctx, bson.NewObjectID(), &notesDomain.UpdateNoteInput{}, ts)
		assert.ErrorIs(t, err, notesDomain.ErrNoteNotFound)
	})

	t.Run("Success_Delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, note.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, note.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
