package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
	"github.com/allisson/inkleaf/internal/search/usecase/mocks"
)

type searchMocks struct {
	repo     *mocks.MockSearchRepository
	notes    *mocks.MockNoteSource
	embedder *mocks.MockEmbedder
}

func setupSearchUseCase(t *testing.T) (SearchUseCase, searchMocks) {
	t.Helper()

	m := searchMocks{
		repo:     &mocks.MockSearchRepository{},
		notes:    &mocks.MockNoteSource{},
		embedder: &mocks.MockEmbedder{},
	}
	t.Cleanup(func() {
		m.repo.AssertExpectations(t)
		m.notes.AssertExpectations(t)
		m.embedder.AssertExpectations(t)
	})
	return NewSearchUseCase(m.repo, m.notes, m.embedder), m
}

func TestSearchUseCase_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithTags", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		hits := []*searchDomain.SearchResult{{Title: "Go tips", Score: 1.5}}

		m.repo.On("Search", ctx, "golang", []string{"go", "tips"}).Return(hits, nil).Once()

		results, err := uc.Search(ctx, "golang", []string{"go", "tips"})

		require.NoError(t, err)
		assert.Equal(t, hits, results)
	})

	t.Run("Error_EmptyQuery", func(t *testing.T) {
		uc, _ := setupSearchUseCase(t)

		_, err := uc.Search(ctx, "", nil)

		assert.ErrorIs(t, err, searchDomain.ErrQueryRequired)
	})
}

func TestSearchUseCase_Autocomplete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EmptyQueryReturnsEmpty", func(t *testing.T) {
		uc, _ := setupSearchUseCase(t)

		results, err := uc.Autocomplete(ctx, "")

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("Success", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		hits := []*searchDomain.AutocompleteResult{{Title: "Groceries"}}

		m.repo.On("Autocomplete", ctx, "gro").Return(hits, nil).Once()

		results, err := uc.Autocomplete(ctx, "gro")

		require.NoError(t, err)
		assert.Equal(t, hits, results)
	})
}

func TestSearchUseCase_Semantic(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		vector := []float64{0.1, 0.2}
		hits := []*searchDomain.SemanticResult{{Title: "Close match", Score: 0.9}}

		m.embedder.On("Generate", ctx, "meaning").Return(vector, nil).Once()
		m.repo.On("VectorSearch", ctx, searchDomain.VectorQuery{
			Vector:        vector,
			NumCandidates: 100,
			Limit:         10,
		}).Return(hits, nil).Once()

		results, err := uc.Semantic(ctx, "meaning")

		require.NoError(t, err)
		assert.Equal(t, hits, results)
	})

	t.Run("Success_EmbeddingsDisabled", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)

		m.embedder.On("Generate", ctx, "meaning").Return(nil, nil).Once()

		results, err := uc.Semantic(ctx, "meaning")

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Error_EmptyQuery", func(t *testing.T) {
		uc, _ := setupSearchUseCase(t)

		_, err := uc.Semantic(ctx, "")

		assert.ErrorIs(t, err, searchDomain.ErrQueryRequired)
	})

	t.Run("Error_Embedder", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)

		m.embedder.On("Generate", ctx, "meaning").Return(nil, assert.AnError).Once()

		_, err := uc.Semantic(ctx, "meaning")

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSearchUseCase_Related(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_StoredEmbedding", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		id := bson.NewObjectID()
		vector := []float64{0.3}
		hits := []*searchDomain.SemanticResult{{Title: "Sibling"}}

		m.notes.On("GetWithEmbedding", ctx, id).Return(&notesDomain.Note{ID: id, Embedding: vector}, nil).Once()
		m.repo.On("VectorSearch", ctx, mock.MatchedBy(func(q searchDomain.VectorQuery) bool {
			return q.NumCandidates == 50 && q.Limit == 6 && q.ResultLimit == 5 &&
				q.ExcludeID != nil && *q.ExcludeID == id
		})).Return(hits, nil).Once()

		results, err := uc.Related(ctx, id.Hex())

		require.NoError(t, err)
		assert.Equal(t, hits, results)
	})

	t.Run("Success_GeneratesMissingEmbedding", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		id := bson.NewObjectID()
		note := &notesDomain.Note{ID: id, Title: "Title", Markdown: "Body"}

		m.notes.On("GetWithEmbedding", ctx, id).Return(note, nil).Once()
		m.embedder.On("Generate", ctx, "Title\n\nBody").Return([]float64{1}, nil).Once()
		m.repo.On("VectorSearch", ctx, mock.Anything).Return([]*searchDomain.SemanticResult{}, nil).Once()

		_, err := uc.Related(ctx, id.Hex())

		require.NoError(t, err)
	})

	t.Run("Success_UnknownNote", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		id := bson.NewObjectID()

		m.notes.On("GetWithEmbedding", ctx, id).Return(nil, notesDomain.ErrNoteNotFound).Once()

		results, err := uc.Related(ctx, id.Hex())

		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("Success_NoEmbeddingAvailable", func(t *testing.T) {
		uc, m := setupSearchUseCase(t)
		id := bson.NewObjectID()

		m.notes.On("GetWithEmbedding", ctx, id).Return(&notesDomain.Note{ID: id, Title: "t"}, nil).Once()
		m.embedder.On("Generate", ctx, "t").Return(nil, nil).Once()

		results, err := uc.Related(ctx, id.Hex())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		uc, _ := setupSearchUseCase(t)

		_, err := uc.Related(ctx, "bogus")

		assert.ErrorIs(t, err, notesDomain.ErrInvalidID)
	})
}
