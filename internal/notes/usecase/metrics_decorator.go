package usecase

import (
	"context"
	"time"

	"github.com/allisson/inkleaf/internal/metrics"
	notesDomain "github.com/allisson/inkleaf/internal/notes/domain"
)

// noteUseCaseWithMetrics decorates NoteUseCase with metrics instrumentation.
type noteUseCaseWithMetrics struct {
	next    NoteUseCase
	metrics metrics.BusinessMetrics
}

// NewNoteUseCaseWithMetrics wraps a NoteUseCase with metrics recording.
func NewNoteUseCaseWithMetrics(useCase NoteUseCase, m metrics.BusinessMetrics) NoteUseCase {
	return &noteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (n *noteUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	n.metrics.RecordOperation(ctx, "notes", operation, status)
	n.metrics.RecordDuration(ctx, "notes", operation, time.Since(start), status)
}

func (n *noteUseCaseWithMetrics) List(ctx context.Context, notebookID string) ([]*notesDomain.Note, error) {
	start := time.Now()
	notes, err := n.next.List(ctx, notebookID)
	n.record(ctx, "note_list", start, err)
	return notes, err
}

func (n *noteUseCaseWithMetrics) Get(ctx context.Context, id string) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Get(ctx, id)
	n.record(ctx, "note_get", start, err)
	return note, err
}

func (n *noteUseCaseWithMetrics) Create(
	ctx context.Context,
	input *notesDomain.CreateNoteInput,
) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Create(ctx, input)
	n.record(ctx, "note_create", start, err)
	return note, err
}

func (n *noteUseCaseWithMetrics) Update(
	ctx context.Context,
	id string,
	input *notesDomain.UpdateNoteInput,
) (*notesDomain.Note, error) {
	start := time.Now()
	note, err := n.next.Update(ctx, id, input)
	n.record(ctx, "note_update", start, err)
	return note, err
}

func (n *noteUseCaseWithMetrics) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	deleted, err := n.next.Delete(ctx, id)
	n.record(ctx, "note_delete", start, err)
	return deleted, err
}
