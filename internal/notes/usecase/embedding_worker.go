package usecase

import (
	"context"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/embedding"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// EmbeddingWorker regenerates note embeddings in tracked background goroutines.
// Failures are logged and never reach the request that triggered them.
type EmbeddingWorker struct {
	embedder Embedder
	store    EmbeddingStore
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewEmbeddingWorker creates a new EmbeddingWorker.
func NewEmbeddingWorker(embedder Embedder, store EmbeddingStore, logger *slog.Logger) *EmbeddingWorker {
	return &EmbeddingWorker{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Refresh starts regeneration for note and returns immediately. The work is
// detached from ctx cancellation so it outlives the request.
func (w *EmbeddingWorker) Refresh(ctx context.Context, note *notesDomain.Note) {
	id := note.ID
	text := embedding.PrepareText(note.Title, note.Markdown, note.Tags)
	bg := context.WithoutCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.process(bg, id, text)
	}()
}

func (w *EmbeddingWorker) process(ctx context.Context, id bson.ObjectID, text string) {
	noteID := id.Hex()
	vector, err := w.embedder.Generate(ctx, text)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("failed to generate embedding",
				slog.String("note_id", noteID),
				slog.Any("error", err),
			)
		}
		return
	}
	if vector == nil {
		if w.logger != nil {
			w.logger.Debug("embeddings disabled, skipping", slog.String("note_id", noteID))
		}
		return
	}

	if err := w.store.SetEmbedding(ctx, id, vector); err != nil && w.logger != nil {
		w.logger.Error("failed to store embedding",
			slog.String("note_id", noteID),
			slog.Any("error", err),
		)
	}
}

// Wait blocks until every scheduled refresh has finished.
func (w *EmbeddingWorker) Wait() {
	w.wg.Wait()
}
