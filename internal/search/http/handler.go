// Package http provides HTTP handlers for keyword and semantic note search.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/inkleaf/internal/errors"
	"github.com/allisson/inkleaf/internal/httputil"
	"github.com/allisson/inkleaf/internal/search/http/dto"
	searchUseCase "github.com/allisson/inkleaf/internal/search/usecase"
)

var errQueryRequired = apperrors.New("Query parameter 'q' is required")

// SearchHandler handles search requests.
type SearchHandler struct {
	searchUseCase searchUseCase.SearchUseCase
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchUseCase searchUseCase.SearchUseCase, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
		logger:        logger,
	}
}

// SearchHandler runs a keyword search.
// GET /api/search?q=&tags=a,b - Returns 400 when q is empty.
func (h *SearchHandler) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		httputil.HandleBadRequestGin(c, errQueryRequired, h.logger)
		return
	}

	results, err := h.searchUseCase.Search(c.Request.Context(), query, parseTags(c.Query("tags")))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSearchResults(results))
}

// AutocompleteHandler suggests titles.
// GET /api/search/autocomplete?q= - Returns [] when q is empty.
func (h *SearchHandler) AutocompleteHandler(c *gin.Context) {
	results, err := h.searchUseCase.Autocomplete(c.Request.Context(), c.Query("q"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAutocompleteResults(results))
}

// SemanticSearchHandler runs a vector search for the query text.
// GET /api/semantic/search?q= - Returns 400 when q is empty.
func (h *SearchHandler) SemanticSearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		httputil.HandleBadRequestGin(c, errQueryRequired, h.logger)
		return
	}

	results, err := h.searchUseCase.Semantic(c.Request.Context(), query)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSemanticResults(results))
}

// RelatedHandler returns the notes nearest to a note.
// GET /api/semantic/related/:noteId
func (h *SearchHandler) RelatedHandler(c *gin.Context) {
	results, err := h.searchUseCase.Related(c.Request.Context(), c.Param("noteId"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSemanticResults(results))
}

// parseTags splits a comma-separated tag list, trimming entries and dropping empty ones.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
