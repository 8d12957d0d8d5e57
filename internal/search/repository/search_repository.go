// Package repository runs keyword, autocomplete and vector search pipelines
// against the plain notes collection and manages the search index definitions.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	apperrors "github.com/allisson/inkleaf/internal/errors"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// Collection is the searched collection.
const Collection = "notes"

// DatabaseProvider returns a connected database handle. *database.Manager satisfies it.
type DatabaseProvider interface {
	Database() (docstore.Database, error)
}

// IndexResult reports the outcome of creating one search index.
type IndexResult struct {
	Name          string
	AlreadyExists bool
	Err           error
}

// SearchRepository executes search pipelines.
type SearchRepository struct {
	db DatabaseProvider
}

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(db DatabaseProvider) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) collection() (docstore.Collection, error) {
	db, err := r.db.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(Collection), nil
}

// Search runs the keyword search.
func (r *SearchRepository) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*searchDomain.SearchResult, error) {
	return aggregate[searchDomain.SearchResult](ctx, r, SearchPipeline(query, tags), "search notes")
}

// Autocomplete suggests note titles.
func (r *SearchRepository) Autocomplete(
	ctx context.Context,
	query string,
) ([]*searchDomain.AutocompleteResult, error) {
	return aggregate[searchDomain.AutocompleteResult](ctx, r, AutocompletePipeline(query), "autocomplete notes")
}

// VectorSearch runs a $vectorSearch.
func (r *SearchRepository) VectorSearch(
	ctx context.Context,
	q searchDomain.VectorQuery,
) ([]*searchDomain.SemanticResult, error) {
	return aggregate[searchDomain.SemanticResult](ctx, r, VectorSearchPipeline(q), "vector search notes")
}

// EnsureIndexes creates every search index. An index that already exists is
// reported with AlreadyExists and no error.
func (r *SearchRepository) EnsureIndexes(ctx context.Context) ([]IndexResult, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	models := SearchIndexModels()
	results := make([]IndexResult, 0, len(models))
	for _, model := range models {
		result := IndexResult{Name: model.Name}
		if _, err := coll.CreateSearchIndex(ctx, model); err != nil {
			if apperrors.Is(err, docstore.ErrIndexExists) {
				result.AlreadyExists = true
			} else {
				result.Err = err
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func aggregate[T any](ctx context.Context, r *SearchRepository, pipeline []bson.D, op string) ([]*T, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	docs, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to "+op)
	}

	results := make([]*T, 0, len(docs))
	for _, doc := range docs {
		var result T
		if err := docstore.Decode(doc, &result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, nil
}
