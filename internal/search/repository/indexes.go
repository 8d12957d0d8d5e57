package repository

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/docstore"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// EmbeddingDimensions matches the text-embedding-3-small output size.
const EmbeddingDimensions = 1536

// SearchIndexModels returns the Atlas Search and Vector Search index definitions
// for the notes collection.
func SearchIndexModels() []docstore.SearchIndexModel {
	return []docstore.SearchIndexModel{
		{
			Name: searchDomain.SearchIndexName,
			Type: "search",
			Definition: bson.D{{Key: "mappings", Value: bson.D{
				{Key: "dynamic", Value: false},
				{Key: "fields", Value: bson.D{
					{Key: "title", Value: bson.A{
						bson.D{{Key: "type", Value: "string"}, {Key: "analyzer", Value: "lucene.standard"}},
						bson.D{
							{Key: "type", Value: "autocomplete"},
							{Key: "tokenization", Value: "edgeGram"},
							{Key: "minGrams", Value: 2},
							{Key: "maxGrams", Value: 15},
						},
					}},
					{Key: "markdown", Value: bson.D{
						{Key: "type", Value: "string"},
						{Key: "analyzer", Value: "lucene.standard"},
					}},
					{Key: "tags", Value: bson.A{
						bson.D{{Key: "type", Value: "string"}, {Key: "analyzer", Value: "lucene.keyword"}},
						bson.D{{Key: "type", Value: "token"}},
					}},
				}},
			}}},
		},
		{
			Name: searchDomain.VectorIndexName,
			Type: "vectorSearch",
			Definition: bson.D{{Key: "fields", Value: bson.A{
				bson.D{
					{Key: "type", Value: "vector"},
					{Key: "path", Value: "embedding"},
					{Key: "numDimensions", Value: EmbeddingDimensions},
					{Key: "similarity", Value: "cosine"},
				},
			}}},
		},
	}
}
