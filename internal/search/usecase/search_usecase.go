// Package usecase implements keyword, autocomplete and semantic search over notes.
package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/embedding"
	apperrors "github.com/allisson/inkleaf/internal/errors"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// Vector search tuning.
const (
	SemanticNumCandidates = 100
	SemanticLimit         = 10
	RelatedNumCandidates  = 50
	RelatedLimit          = 5
)

// SearchRepository defines the search query operations.
type SearchRepository interface {
	Search(ctx context.Context, query string, tags []string) ([]*searchDomain.SearchResult, error)
	Autocomplete(ctx context.Context, query string) ([]*searchDomain.AutocompleteResult, error)
	VectorSearch(ctx context.Context, q searchDomain.VectorQuery) ([]*searchDomain.SemanticResult, error)
}

// NoteSource loads a note together with its stored embedding.
type NoteSource interface {
	GetWithEmbedding(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error)
}

// Embedder turns text into a vector. A disabled embedder returns (nil, nil).
type Embedder interface {
	Generate(ctx context.Context, text string) ([]float64, error)
}

// SearchUseCase defines the search operations.
type SearchUseCase interface {
	Search(ctx context.Context, query string, tags []string) ([]*searchDomain.SearchResult, error)
	// Autocomplete returns no suggestions for an empty query.
	Autocomplete(ctx context.Context, query string) ([]*searchDomain.AutocompleteResult, error)
	// Semantic returns no results when embeddings are disabled.
	Semantic(ctx context.Context, query string) ([]*searchDomain.SemanticResult, error)
	// Related returns no results for an unknown note or when no embedding is available.
	Related(ctx context.Context, noteID string) ([]*searchDomain.SemanticResult, error)
}

type searchUseCase struct {
	repo     SearchRepository
	notes    NoteSource
	embedder Embedder
}

// NewSearchUseCase creates a new SearchUseCase.
func NewSearchUseCase(repo SearchRepository, notes NoteSource, embedder Embedder) SearchUseCase {
	return &searchUseCase{repo: repo, notes: notes, embedder: embedder}
}

func (s *searchUseCase) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*searchDomain.SearchResult, error) {
	if query == "" {
		return nil, searchDomain.ErrQueryRequired
	}
	return s.repo.Search(ctx, query, tags)
}

func (s *searchUseCase) Autocomplete(ctx context.Context, query string) ([]*searchDomain.AutocompleteResult, error) {
	if query == "" {
		return []*searchDomain.AutocompleteResult{}, nil
	}
	return s.repo.Autocomplete(ctx, query)
}

func (s *searchUseCase) Semantic(ctx context.Context, query string) ([]*searchDomain.SemanticResult, error) {
	if query == "" {
		return nil, searchDomain.ErrQueryRequired
	}

	vector, err := s.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}
	if vector == nil {
		return []*searchDomain.SemanticResult{}, nil
	}

	return s.repo.VectorSearch(ctx, searchDomain.VectorQuery{
		Vector:        vector,
		NumCandidates: SemanticNumCandidates,
		Limit:         SemanticLimit,
	})
}

func (s *searchUseCase) Related(ctx context.Context, noteID string) ([]*searchDomain.SemanticResult, error) {
	id, err := bson.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, notesDomain.ErrInvalidID
	}

	note, err := s.notes.GetWithEmbedding(ctx, id)
	if err != nil {
		if apperrors.Is(err, notesDomain.ErrNoteNotFound) {
			return []*searchDomain.SemanticResult{}, nil
		}
		return nil, err
	}

	vector := note.Embedding
	if len(vector) == 0 {
		vector, err = s.embedder.Generate(ctx, embedding.PrepareText(note.Title, note.Markdown, note.Tags))
		if err != nil {
			return nil, err
		}
		if vector == nil {
			return []*searchDomain.SemanticResult{}, nil
		}
	}

	// One extra candidate so the source note can be dropped.
	return s.repo.VectorSearch(ctx, searchDomain.VectorQuery{
		Vector:        vector,
		NumCandidates: RelatedNumCandidates,
		Limit:         RelatedLimit + 1,
		ExcludeID:     &id,
		ResultLimit:   RelatedLimit,
	})
}
