package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/allisson/inkleaf/internal/embedding"
	notesHTTP "github.com/allisson/inkleaf/internal/notes/http"
	notesRepository "github.com/allisson/inkleaf/internal/notes/repository"
	notesUseCase "github.com/allisson/inkleaf/internal/notes/usecase"
)

type notesComponents struct {
	embeddingClient *embedding.Client
	embeddingWorker *notesUseCase.EmbeddingWorker
	noteRepository  *notesRepository.NoteRepository
	noteUseCase     notesUseCase.NoteUseCase
	noteHandler     *notesHTTP.NoteHandler

	embeddingClientInit sync.Once
	embeddingWorkerInit sync.Once
	noteRepositoryInit  sync.Once
	noteUseCaseInit     sync.Once
	noteHandlerInit     sync.Once
}

// EmbeddingClient returns the embeddings API client. It is disabled when no API key is set.
func (c *Container) EmbeddingClient() *embedding.Client {
	c.embeddingClientInit.Do(func() {
		c.embeddingClient = embedding.NewClient(embedding.Config{
			APIKey:  c.config.EmbeddingAPIKey,
			BaseURL: c.config.EmbeddingAPIURL,
			Model:   c.config.EmbeddingModel,
			Timeout: c.config.EmbeddingTimeout,
		})
		if !c.embeddingClient.Enabled() {
			c.Logger().Warn("OPENAI_API_KEY is not set, embeddings and semantic search are disabled")
		}
	})
	return c.embeddingClient
}

// NoteRepository returns the plain note repository.
func (c *Container) NoteRepository(ctx context.Context) (*notesRepository.NoteRepository, error) {
	err := c.once(&c.noteRepositoryInit, "noteRepository", func() error {
		plain, err := c.PlainManager(ctx)
		if err != nil {
			return fmt.Errorf("failed to get database for note repository: %w", err)
		}
		c.noteRepository = notesRepository.NewNoteRepository(plain)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.noteRepository, nil
}

// EmbeddingWorker returns the background embedding refresher.
func (c *Container) EmbeddingWorker(ctx context.Context) (*notesUseCase.EmbeddingWorker, error) {
	err := c.once(&c.embeddingWorkerInit, "embeddingWorker", func() error {
		repo, err := c.NoteRepository(ctx)
		if err != nil {
			return err
		}
		c.embeddingWorker = notesUseCase.NewEmbeddingWorker(c.EmbeddingClient(), repo, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.embeddingWorker, nil
}

// NoteUseCase returns the note use case, wrapped with business metrics.
func (c *Container) NoteUseCase(ctx context.Context) (notesUseCase.NoteUseCase, error) {
	err := c.once(&c.noteUseCaseInit, "noteUseCase", func() error {
		repo, err := c.NoteRepository(ctx)
		if err != nil {
			return err
		}
		worker, err := c.EmbeddingWorker(ctx)
		if err != nil {
			return err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return fmt.Errorf("failed to get business metrics for note use case: %w", err)
		}

		useCase := notesUseCase.NewNoteUseCase(repo, worker)
		c.noteUseCase = notesUseCase.NewNoteUseCaseWithMetrics(useCase, businessMetrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.noteUseCase, nil
}

// NoteHandler returns the HTTP handler for plain notes.
func (c *Container) NoteHandler(ctx context.Context) (*notesHTTP.NoteHandler, error) {
	err := c.once(&c.noteHandlerInit, "noteHandler", func() error {
		useCase, err := c.NoteUseCase(ctx)
		if err != nil {
			return err
		}
		c.noteHandler = notesHTTP.NewNoteHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.noteHandler, nil
}
