package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/metrics"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
)

// vaultNoteUseCaseWithMetrics decorates VaultNoteUseCase with metrics instrumentation.
type vaultNoteUseCaseWithMetrics struct {
	next    VaultNoteUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultNoteUseCaseWithMetrics wraps a VaultNoteUseCase with metrics recording.
func NewVaultNoteUseCaseWithMetrics(useCase VaultNoteUseCase, m metrics.BusinessMetrics) VaultNoteUseCase {
	return &vaultNoteUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultNoteUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// List records metrics for vault note listing.
func (v *vaultNoteUseCaseWithMetrics) List(ctx context.Context) ([]*vaultDomain.VaultNote, error) {
	start := time.Now()
	notes, err := v.next.List(ctx)
	v.record(ctx, "vault_note_list", start, err)
	return notes, err
}

// Get records metrics for vault note retrieval.
func (v *vaultNoteUseCaseWithMetrics) Get(ctx context.Context, id string) (*vaultDomain.VaultNote, error) {
	start := time.Now()
	note, err := v.next.Get(ctx, id)
	v.record(ctx, "vault_note_get", start, err)
	return note, err
}

// Create records metrics for vault note creation.
func (v *vaultNoteUseCaseWithMetrics) Create(
	ctx context.Context,
	input *vaultDomain.CreateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	start := time.Now()
	note, err := v.next.Create(ctx, input)
	v.record(ctx, "vault_note_create", start, err)
	return note, err
}

// Update records metrics for vault note updates.
func (v *vaultNoteUseCaseWithMetrics) Update(
	ctx context.Context,
	id string,
	input *vaultDomain.UpdateVaultNoteInput,
) (*vaultDomain.VaultNote, error) {
	start := time.Now()
	note, err := v.next.Update(ctx, id, input)
	v.record(ctx, "vault_note_update", start, err)
	return note, err
}

// Delete records metrics for vault note deletion.
func (v *vaultNoteUseCaseWithMetrics) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	deleted, err := v.next.Delete(ctx, id)
	v.record(ctx, "vault_note_delete", start, err)
	return deleted, err
}

// GetRaw records metrics for raw vault note reads.
func (v *vaultNoteUseCaseWithMetrics) GetRaw(ctx context.Context, id string) (bson.D, error) {
	start := time.Now()
	doc, err := v.next.GetRaw(ctx, id)
	v.record(ctx, "vault_note_get_raw", start, err)
	return doc, err
}
