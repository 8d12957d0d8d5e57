package repository

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// Result limits.
const (
	SearchLimit       = 20
	AutocompleteLimit = 8
)

// SearchPipeline builds the keyword search: fuzzy text over title and markdown,
// an optional tags filter, and highlights.
func SearchPipeline(query string, tags []string) []bson.D {
	compound := bson.D{
		{Key: "must", Value: bson.A{
			bson.D{{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: bson.A{"title", "markdown"}},
				{Key: "fuzzy", Value: bson.D{{Key: "maxEdits", Value: 1}}},
			}}},
		}},
	}
	if len(tags) > 0 {
		compound = append(compound, bson.E{Key: "filter", Value: bson.A{
			bson.D{{Key: "text", Value: bson.D{
				{Key: "query", Value: tags},
				{Key: "path", Value: "tags"},
			}}},
		}})
	}

	return []bson.D{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: searchDomain.SearchIndexName},
			{Key: "compound", Value: compound},
			{Key: "highlight", Value: bson.D{{Key: "path", Value: bson.A{"title", "markdown"}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "title", Value: 1},
			{Key: "markdown", Value: 1},
			{Key: "tags", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
			{Key: "highlights", Value: bson.D{{Key: "$meta", Value: "searchHighlights"}}},
		}}},
		{{Key: "$limit", Value: SearchLimit}},
	}
}

// AutocompletePipeline builds the title autocomplete query.
func AutocompletePipeline(query string) []bson.D {
	return []bson.D{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: searchDomain.SearchIndexName},
			{Key: "autocomplete", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: "title"},
			}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "title", Value: 1}}}},
		{{Key: "$limit", Value: AutocompleteLimit}},
	}
}

// VectorSearchPipeline builds a $vectorSearch over note embeddings.
func VectorSearchPipeline(q searchDomain.VectorQuery) []bson.D {
	pipeline := []bson.D{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: searchDomain.VectorIndexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: q.Vector},
			{Key: "numCandidates", Value: q.NumCandidates},
			{Key: "limit", Value: q.Limit},
		}}},
	}
	if q.ExcludeID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ne", Value: *q.ExcludeID}}},
		}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "title", Value: 1},
		{Key: "markdown", Value: 1},
		{Key: "tags", Value: 1},
		{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
	}}})
	if q.ResultLimit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: q.ResultLimit}})
	}
	return pipeline
}
