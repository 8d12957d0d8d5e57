package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/embedding"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
	"github.com/allisson/inkleaf/internal/notes/seed"
)

// SeedStore is the note persistence the seed command writes through.
type SeedStore interface {
	List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error)
	Create(ctx context.Context, note *notesDomain.Note) error
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	SetEmbedding(ctx context.Context, id bson.ObjectID, embedding []float64) error
}

// SeedEmbedder generates embeddings. A disabled embedder returns (nil, nil).
type SeedEmbedder interface {
	Generate(ctx context.Context, text string) ([]float64, error)
}

// RunSeed loads the bundled sample notes into the notes collection. With reset
// every existing plain note is deleted first; vault notes are never touched.
// Sample notes are spaced an hour apart so list ordering is stable. Embeddings
// are generated one at a time; a failure is reported and the rest continue.
func RunSeed(
	ctx context.Context,
	store SeedStore,
	embedder SeedEmbedder,
	logger *slog.Logger,
	writer io.Writer,
	reset bool,
) error {
	samples, err := seed.Notes()
	if err != nil {
		return err
	}

	if reset {
		existing, err := store.List(ctx, "")
		if err != nil {
			return fmt.Errorf("failed to list existing notes: %w", err)
		}
		for _, note := range existing {
			if _, err := store.Delete(ctx, note.ID); err != nil {
				return fmt.Errorf("failed to delete note %s: %w", note.ID.Hex(), err)
			}
		}
		_, _ = fmt.Fprintf(writer, "Deleted %d existing notes\n", len(existing))
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	created := make([]*notesDomain.Note, 0, len(samples))
	for i, sample := range samples {
		note := &notesDomain.Note{
			ID:         bson.NewObjectID(),
			Title:      sample.Title,
			Markdown:   sample.Markdown,
			Tags:       sample.Tags,
			NotebookID: sample.NotebookID,
			CreatedAt:  now.Add(-time.Duration(i) * time.Hour),
			UpdatedAt:  now.Add(-time.Duration(i) * 30 * time.Minute),
		}
		if err := store.Create(ctx, note); err != nil {
			return fmt.Errorf("failed to create sample note %q: %w", sample.Title, err)
		}
		created = append(created, note)
	}
	logger.Info("sample notes inserted", slog.Int("count", len(created)))
	_, _ = fmt.Fprintf(writer, "Inserted %d sample notes\n", len(created))

	var embedded, failed int
	for _, note := range created {
		vector, err := embedder.Generate(ctx, embedding.PrepareText(note.Title, note.Markdown, note.Tags))
		if err == nil && vector == nil {
			_, _ = fmt.Fprintln(writer, "Skipping embeddings (OPENAI_API_KEY not set)")
			return nil
		}
		if err == nil {
			err = store.SetEmbedding(ctx, note.ID, vector)
		}
		if err != nil {
			failed++
			logger.Error("failed to embed sample note", slog.String("title", note.Title), slog.Any("error", err))
			_, _ = fmt.Fprintf(writer, "  failed: %s\n", note.Title)
			continue
		}
		embedded++
		_, _ = fmt.Fprintf(writer, "  embedded: %s\n", note.Title)
	}

	_, _ = fmt.Fprintf(writer, "Generated %d embeddings, %d failed\n", embedded, failed)
	return nil
}
