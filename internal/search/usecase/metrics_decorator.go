package usecase

import (
	"context"
	"time"

	"github.com/allisson/inkleaf/internal/metrics"
	searchDomain "github.com/allisson/inkleaf/internal/search/domain"
)

// searchUseCaseWithMetrics decorates SearchUseCase with metrics instrumentation.
type searchUseCaseWithMetrics struct {
	next    SearchUseCase
	metrics metrics.BusinessMetrics
}

// NewSearchUseCaseWithMetrics wraps a SearchUseCase with metrics recording.
func NewSearchUseCaseWithMetrics(useCase SearchUseCase, m metrics.BusinessMetrics) SearchUseCase {
	return &searchUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *searchUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "search", operation, status)
	s.metrics.RecordDuration(ctx, "search", operation, time.Since(start), status)
}

func (s *searchUseCaseWithMetrics) Search(
	ctx context.Context,
	query string,
	tags []string,
) ([]*searchDomain.SearchResult, error) {
	start := time.Now()
	results, err := s.next.Search(ctx, query, tags)
	s.record(ctx, "search_keyword", start, err)
	return results, err
}

func (s *searchUseCaseWithMetrics) Autocomplete(
	ctx context.Context,
	query string,
) ([]*searchDomain.AutocompleteResult, error) {
	start := time.Now()
	results, err := s.next.Autocomplete(ctx, query)
	s.record(ctx, "search_autocomplete", start, err)
	return results, err
}

func (s *searchUseCaseWithMetrics) Semantic(ctx context.Context, query string) ([]*searchDomain.SemanticResult, error) {
	start := time.Now()
	results, err := s.next.Semantic(ctx, query)
	s.record(ctx, "search_semantic", start, err)
	return results, err
}

func (s *searchUseCaseWithMetrics) Related(ctx context.Context, noteID string) ([]*searchDomain.SemanticResult, error) {
	start := time.Now()
	results, err := s.next.Related(ctx, noteID)
	s.record(ctx, "search_related", start, err)
	return results, err
}
