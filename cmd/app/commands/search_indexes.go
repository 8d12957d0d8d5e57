package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	searchRepository "github.com/allisson/inkleaf/internal/search/repository"
)

// SearchIndexEnsurer creates the Atlas Search and vector indexes.
type SearchIndexEnsurer interface {
	EnsureIndexes(ctx context.Context) ([]searchRepository.IndexResult, error)
}

// RunCreateSearchIndexes creates the keyword and vector search indexes on the
// notes collection. Indexes that already exist count as success.
func RunCreateSearchIndexes(
	ctx context.Context,
	ensurer SearchIndexEnsurer,
	logger *slog.Logger,
	writer io.Writer,
) error {
	results, err := ensurer.EnsureIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to create search indexes: %w", err)
	}

	var failed int
	for _, result := range results {
		switch {
		case result.Err != nil:
			failed++
			logger.Error("search index failed", slog.String("index", result.Name), slog.Any("error", result.Err))
			_, _ = fmt.Fprintf(writer, "%s: failed: %v\n", result.Name, result.Err)
		case result.AlreadyExists:
			_, _ = fmt.Fprintf(writer, "%s: already exists\n", result.Name)
		default:
			logger.Info("search index created", slog.String("index", result.Name))
			_, _ = fmt.Fprintf(writer, "%s: created\n", result.Name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d search indexes failed", failed, len(results))
	}
	return nil
}
