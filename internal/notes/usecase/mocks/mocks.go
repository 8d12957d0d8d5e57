// Package mocks provides mock implementations of the note use cases and their dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// MockNoteRepository is a mock implementation of NoteRepository.
type MockNoteRepository struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockNoteRepository) List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error) {
	args := m.Called(ctx, notebookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notesDomain.Note), args.Error(1)
}

// Get mocks the Get method.
func (m *MockNoteRepository) Get(ctx context.Context, id bson.ObjectID) (*notesDomain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Create mocks the Create method.
func (m *MockNoteRepository) Create(ctx context.Context, note *notesDomain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockNoteRepository) Update(
	ctx context.Context,
	id bson.ObjectID,
	input *notesDomain.UpdateNoteInput,
	updatedAt time.Time,
) (*notesDomain.Note, error) {
	args := m.Called(ctx, id, input, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockNoteRepository) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockEmbeddingStore is a mock implementation of EmbeddingStore.
type MockEmbeddingStore struct {
	mock.Mock
}

// SetEmbedding mocks the SetEmbedding method.
func (m *MockEmbeddingStore) SetEmbedding(ctx context.Context, id bson.ObjectID, embedding []float64) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
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

// MockEmbeddingRefresher is a mock implementation of EmbeddingRefresher.
type MockEmbeddingRefresher struct {
	mock.Mock
}

// Refresh mocks the Refresh method.
func (m *MockEmbeddingRefresher) Refresh(ctx context.Context, note *notesDomain.Note) {
	m.Called(ctx, note)
}

// MockNoteUseCase is a mock implementation of NoteUseCase.
type MockNoteUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockNoteUseCase) List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error) {
	args := m.Called(ctx, notebookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notesDomain.Note), args.Error(1)
}

// Get mocks the Get method.
func (m *MockNoteUseCase) Get(ctx context.Context, id string) (*notesDomain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Create mocks the Create method.
func (m *MockNoteUseCase) Create(ctx context.Context, input *notesDomain.CreateNoteInput) (*notesDomain.Note, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Update mocks the Update method.
func (m *MockNoteUseCase) Update(
	ctx context.Context,
	id string,
	input *notesDomain.UpdateNoteInput,
) (*notesDomain.Note, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notesDomain.Note), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockNoteUseCase) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
