// Package mocks provides mock implementations of the search use case and its dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// MockSearchRepository is a mock implementation of SearchRepository.
type MockSearchRepository struct {
	mock.Mock
}

// Search mocks the Search method.
func (m *MockSearchRepository) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*searchDomain.SearchResult, error) {
	args := m.Called(ctx, query, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.SearchResult), args.Error(1)
}

// Autocomplete mocks the Autocomplete method.
func (m *MockSearchRepository) Autocomplete(
	ctx context.Context,
	query string,
) ([]*searchDomain.AutocompleteResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.AutocompleteResult), args.Error(1)
}

// VectorSearch mocks the VectorSearch method.
func (m *MockSearchRepository) VectorSearch(
	ctx context.Context,
	q searchDomain.VectorQuery,
) ([]*searchDomain.SemanticResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.SemanticResult), args.Error(1)
}

// MockNoteSource is a mock implementation of NoteSource.
type MockNoteSource struct {
	mock.Mock
}

// GetWithEmbedding mocks the GetWithEmbedding method.
func (m *MockNoteSource) GetWithEmbedding(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// MockEmbedder is a mock implementation of Embedder.
type MockEmbedder struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockEmbedder) Generate(ctx context.Context, text string) ([]float64, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockSearchUseCase is a mock implementation of SearchUseCase.
type MockSearchUseCase struct {
	mock.Mock
}

// Search mocks the Search method.
func (m *MockSearchUseCase) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*searchDomain.SearchResult, error) {
	args := m.Called(ctx, query, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.SearchResult), args.Error(1)
}

// Autocomplete mocks the Autocomplete method.
func (m *MockSearchUseCase) Autocomplete(
	ctx context.Context,
	query string,
) ([]*searchDomain.AutocompleteResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.AutocompleteResult), args.Error(1)
}

// Semantic mocks the Semantic method.
func (m *MockSearchUseCase) Semantic(ctx context.Context, query string) ([]*searchDomain.SemanticResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.SemanticResult), args.Error(1)
}

// Related mocks the Related method.
func (m *MockSearchUseCase) Related(ctx context.Context, noteID string) ([]*searchDomain.SemanticResult, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*searchDomain.SemanticResult), args.Error(1)
}
