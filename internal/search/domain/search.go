// Package domain defines the result types returned by keyword, autocomplete
// and vector search over plain notes.
package domain

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/errors"
)

// Index names.
const (
	SearchIndexName = "notes_search_index"
	VectorIndexName = "notes_vector_index"
)

// ErrQueryRequired indicates a search was requested without a query.
var ErrQueryRequired = errors.Wrap(errors.ErrBadRequest, "Query parameter 'q' is required")

// HighlightText is one fragment of a highlight; Type is "hit" or "text".
type HighlightText struct {
	Value string `bson:"value"`
	Type  string `bson:"type"`
}

// Highlight holds the matched fragments of one field.
type Highlight struct {
	Path  string          `bson:"path"`
	Texts []HighlightText `bson:"texts"`
	Score float64         `bson:"score"`
}

// SearchResult is a keyword search hit.
type SearchResult struct {
	ID         bson.ObjectID `bson:"_id"`
	Title      string        `bson:"title"`
	Markdown   string        `bson:"markdown"`
	Tags       []string      `bson:"tags"`
	Score      float64       `bson:"score"`
	Highlights []Highlight   `bson:"highlights"`
}

// AutocompleteResult is a title suggestion.
type AutocompleteResult struct {
	ID    bson.ObjectID `bson:"_id"`
	Title string        `bson:"title"`
}

// SemanticResult is a vector search hit.
type SemanticResult struct {
	ID       bson.ObjectID `bson:"_id"`
	Title    string        `bson:"title"`
	Markdown string        `bson:"markdown"`
	Tags     []string      `bson:"tags"`
	Score    float64       `bson:"score"`
}

// VectorQuery parameterizes a $vectorSearch.
type VectorQuery struct {
	Vector        []float64
	NumCandidates int
	Limit         int
	// ExcludeID drops one note from the results, used for related notes.
	ExcludeID *bson.ObjectID
	// ResultLimit caps results after exclusion. Zero keeps Limit results.
	ResultLimit int
}
