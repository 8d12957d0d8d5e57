// Package dto provides response objects for the search endpoints.
package dto

import (
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// HighlightTextResponse is one highlight fragment.
type HighlightTextResponse struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// HighlightResponse holds the highlighted fragments of one field.
type HighlightResponse struct {
	Path  string                  `json:"path"`
	Texts []HighlightTextResponse `json:"texts"`
}

// SearchResultResponse is a keyword search hit.
type SearchResultResponse struct {
	ID         string              `json:"_id"`
	Title      string              `json:"title"`
	Markdown   string              `json:"markdown"`
	Tags       []string            `json:"tags"`
	Score      float64             `json:"score"`
	Highlights []HighlightResponse `json:"highlights"`
}

// AutocompleteResponse is a title suggestion.
type AutocompleteResponse struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// SemanticResultResponse is a vector search hit.
type SemanticResultResponse struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Markdown string   `json:"markdown"`
	Tags     []string `json:"tags"`
	Score    float64  `json:"score"`
}

func orEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// MapSearchResults converts keyword search hits.
func MapSearchResults(results []*searchDomain.SearchResult) []SearchResultResponse {
	out := make([]SearchResultResponse, 0, len(results))
	for _, r := range results {
		highlights := make([]HighlightResponse, 0, len(r.Highlights))
		for _, h := range r.Highlights {
			texts := make([]HighlightTextResponse, 0, len(h.Texts))
			for _, text := range h.Texts {
				texts = append(texts, HighlightTextResponse{Value: text.Value, Type: text.Type})
			}
			highlights = append(highlights, HighlightResponse{Path: h.Path, Texts: texts})
		}
		out = append(out, SearchResultResponse{
			ID:         r.ID.Hex(),
			Title:      r.Title,
			Markdown:   r.Markdown,
			Tags:       orEmpty(r.Tags),
			Score:      r.Score,
			Highlights: highlights,
		})
	}
	return out
}

// MapAutocompleteResults converts title suggestions.
func MapAutocompleteResults(results []*searchDomain.AutocompleteResult) []AutocompleteResponse {
	out := make([]AutocompleteResponse, 0, len(results))
	for _, r := range results {
		out = append(out, AutocompleteResponse{ID: r.ID.Hex(), Title: r.Title})
	}
	return out
}

// MapSemanticResults converts vector search hits.
func MapSemanticResults(results []*searchDomain.SemanticResult) []SemanticResultResponse {
	out := make([]SemanticResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, SemanticResultResponse{
			ID:       r.ID.Hex(),
			Title:    r.Title,
			Markdown: r.Markdown,
			Tags:     orEmpty(r.Tags),
			Score:    r.Score,
		})
	}
	return out
}
