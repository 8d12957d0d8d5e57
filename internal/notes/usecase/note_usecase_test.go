package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	"github.com/allisson/inkleaf/internal/notes/usecase/mocks"
)

func setupNoteUseCase(t *testing.T) (NoteUseCase, *mocks.MockNoteRepository, *mocks.MockEmbeddingRefresher) {
	t.Helper()

	repo := &mocks.MockNoteRepository{}
	refresher := &mocks.MockEmbeddingRefresher{}
	t.Cleanup(func() {
		repo.AssertExpectations(t)
		refresher.AssertExpectations(t)
	})
	return NewNoteUseCase(repo, refresher), repo, refresher
}

func TestNoteUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DefaultsAndRefresh", func(t *testing.T) {
		uc, repo, refresher := setupNoteUseCase(t)

		repo.On("Create", ctx, mock.AnythingOfType("*domain.Note")).Return(nil).Once()
		refresher.On("Refresh", ctx, mock.MatchedBy(func(n *notesDomain.Note) bool {
			return n.Markdown == "body"
		})).Return().Once()

		note, err := uc.Create(ctx, &notesDomain.CreateNoteInput{Title: "Ideas", Markdown: "body"})

		require.NoError(t, err)
		assert.Equal(t, notesDomain.DefaultNotebookID, note.NotebookID)
		assert.Equal(t, []string{}, note.Tags)
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
		assert.False(t, note.ID.IsZero())
	})

	t.Run("Success_EmptyMarkdownSkipsRefresh", func(t *testing.T) {
		uc, repo, refresher := setupNoteUseCase(t)

		repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		note, err := uc.Create(ctx, &notesDomain.CreateNoteInput{Title: "Empty", NotebookID: "work"})

		require.NoError(t, err)
		assert.Equal(t, "work", note.NotebookID)
		refresher.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryFailureSkipsRefresh", func(t *testing.T) {
		uc, repo, refresher := setupNoteUseCase(t)

		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		note, err := uc.Create(ctx, &notesDomain.CreateNoteInput{Title: "x", Markdown: "y"})

		assert.Nil(t, note)
		assert.ErrorIs(t, err, assert.AnError)
		refresher.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})
}

func TestNoteUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ContentChangeRefreshes", func(t *testing.T) {
		uc, repo, refresher := setupNoteUseCase(t)

		id := bson.NewObjectID()
		title := "New"
		input := &notesDomain.UpdateNoteInput{Title: &title}
		updated := &notesDomain.Note{ID: id, Title: title, Markdown: "body"}

		repo.On("Update", ctx, id, input, mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
		refresher.On("Refresh", ctx, updated).Return().Once()

		note, err := uc.Update(ctx, id.Hex(), input)

		require.NoError(t, err)
		assert.Equal(t, updated, note)
	})

	t.Run("Success_NotebookMoveDoesNotRefresh", func(t *testing.T) {
		uc, repo, refresher := setupNoteUseCase(t)

		id := bson.NewObjectID()
		notebook := "archive"
		input := &notesDomain.UpdateNoteInput{NotebookID: &notebook}

		repo.On("Update", ctx, id, input, mock.Anything).Return(&notesDomain.Note{ID: id}, nil).Once()

		_, err := uc.Update(ctx, id.Hex(), input)

		require.NoError(t, err)
		refresher.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, repo, _ := setupNoteUseCase(t)

		id := bson.NewObjectID()
		title := "x"
		repo.On("Update", ctx, id, mock.Anything, mock.Anything).Return(nil, notesDomain.ErrNoteNotFound).Once()

		_, err := uc.Update(ctx, id.Hex(), &notesDomain.UpdateNoteInput{Title: &title})

		assert.ErrorIs(t, err, notesDomain.ErrNoteNotFound)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		uc, _, _ := setupNoteUseCase(t)

		_, err := uc.Update(ctx, "nope", &notesDomain.UpdateNoteInput{})

		assert.ErrorIs(t, err, notesDomain.ErrInvalidID)
	})
}

func TestNoteUseCase_GetListDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Get", func(t *testing.T) {
		uc, repo, _ := setupNoteUseCase(t)

		id := bson.NewObjectID()
		repo.On("Get", ctx, id).Return(&notesDomain.Note{ID: id}, nil).Once()

		note, err := uc.Get(ctx, id.Hex())

		require.NoError(t, err)
		assert.Equal(t, id, note.ID)
	})

	t.Run("Error_GetInvalidID", func(t *testing.T) {
		uc, _, _ := setupNoteUseCase(t)

		_, err := uc.Get(ctx, "zzz")

		assert.ErrorIs(t, err, notesDomain.ErrInvalidID)
	})

	t.Run("Success_ListByNotebook", func(t *testing.T) {
		uc, repo, _ := setupNoteUseCase(t)

		repo.On("List", ctx, "work").Return([]*notesDomain.Note{}, nil).Once()

		notes, err := uc.List(ctx, "work")

		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("Success_Delete", func(t *testing.T) {
		uc, repo, _ := setupNoteUseCase(t)

		id := bson.NewObjectID()
		repo.On("Delete", ctx, id).Return(true, nil).Once()

		deleted, err := uc.Delete(ctx, id.Hex())

		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestEmbeddingWorker(t *testing.T) {
	ctx := context.Background()
	note := &notesDomain.Note{
		ID:       bson.NewObjectID(),
		Title:    "Title",
		Markdown: "Body",
		Tags:     []string{"a", "b"},
	}

	t.Run("Success_StoresEmbedding", func(t *testing.T) {
		embedder := &mocks.MockEmbedder{}
		store := &mocks.MockEmbeddingStore{}
		worker := NewEmbeddingWorker(embedder, store, nil)

		vector := []float64{0.5, 0.25}
		embedder.On("Generate", mock.Anything, "Title\n\nBody\n\na, b").Return(vector, nil).Once()
		store.On("SetEmbedding", mock.Anything, note.ID, vector).Return(nil).Once()

		worker.Refresh(ctx, note)
		worker.Wait()

		embedder.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Success_DisabledEmbedderSkipsStore", func(t *testing.T) {
		embedder := &mocks.MockEmbedder{}
		store := &mocks.MockEmbeddingStore{}
		worker := NewEmbeddingWorker(embedder, store, nil)

		embedder.On("Generate", mock.Anything, mock.Anything).Return(nil, nil).Once()

		worker.Refresh(ctx, note)
		worker.Wait()

		store.AssertNotCalled(t, "SetEmbedding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_FailureIsSwallowed", func(t *testing.T) {
		embedder := &mocks.MockEmbedder{}
		store := &mocks.MockEmbeddingStore{}
		worker := NewEmbeddingWorker(embedder, store, nil)

		embedder.On("Generate", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()

		worker.Refresh(ctx, note)
		worker.Wait()

		store.AssertNotCalled(t, "SetEmbedding", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_OutlivesCanceledRequest", func(t *testing.T) {
		embedder := &mocks.MockEmbedder{}
		store := &mocks.MockEmbeddingStore{}
		worker := NewEmbeddingWorker(embedder, store, nil)

		reqCtx, cancel := context.WithCancel(ctx)
		embedder.On("Generate", mock.MatchedBy(func(c context.Context) bool {
			return c.Err() == nil
		}), mock.Anything).
			Run(func(mock.Arguments) { time.Sleep(10 * time.Millisecond) }).
			Return([]float64{1}, nil).
			Once()
		store.On("SetEmbedding", mock.Anything, note.ID, []float64{1}).Return(nil).Once()

		worker.Refresh(reqCtx, note)
		cancel()
		worker.Wait()

		store.AssertExpectations(t)
	})
}
