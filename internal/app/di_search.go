package app

import (
	"context"
	"fmt"
	"sync"

	searchHTTP "github.com/allisson/inkleaf/internal/search/http"
	searchRepository "github.com/allisson/inkleaf/internal/search/repository"
	searchUseCase "github.com/allisson/inkleaf/internal/search/usecase"
)

type searchComponents struct {
	searchRepository *searchRepository.SearchRepository
	searchUseCase    searchUseCase.SearchUseCase
	searchHandler    *searchHTTP.SearchHandler

	searchRepositoryInit sync.Once
	searchUseCaseInit    sync.Once
	searchHandlerInit    sync.Once
}

// SearchRepository returns the Atlas Search repository over plain notes.
func (c *Container) SearchRepository(ctx context.Context) (*searchRepository.SearchRepository, error) {
	err := c.once(&c.searchRepositoryInit, "searchRepository", func() error {
		plain, err := c.PlainManager(ctx)
		if err != nil {
			return fmt.Errorf("failed to get database for search repository: %w", err)
		}
		c.searchRepository = searchRepository.NewSearchRepository(plain)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.searchRepository, nil
}

// SearchUseCase returns the keyword and semantic search use case, wrapped with business metrics.
func (c *Container) SearchUseCase(ctx context.Context) (searchUseCase.SearchUseCase, error) {
	err := c.once(&c.searchUseCaseInit, "searchUseCase", func() error {
		repo, err := c.SearchRepository(ctx)
		if err != nil {
			return err
		}
		notes, err := c.NoteRepository(ctx)
		if err != nil {
			return err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return fmt.Errorf("failed to get business metrics for search use case: %w", err)
		}

		useCase := searchUseCase.NewSearchUseCase(repo, notes, c.EmbeddingClient())
		c.searchUseCase = searchUseCase.NewSearchUseCaseWithMetrics(useCase, businessMetrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.searchUseCase, nil
}

// SearchHandler returns the HTTP handler for search endpoints.
func (c *Container) SearchHandler(ctx context.Context) (*searchHTTP.SearchHandler, error) {
	err := c.once(&c.searchHandlerInit, "searchHandler", func() error {
		useCase, err := c.SearchUseCase(ctx)
		if err != nil {
			return err
		}
		c.searchHandler = searchHTTP.NewSearchHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.searchHandler, nil
}
