package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/allisson/inkleaf/internal/metrics"
	vaultDomain "github.com/allisson/inkleaf/internal/vault/domain"
	"github.com/allisson/inkleaf/internal/vault/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectRecord(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "vault", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "vault", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestNewVaultNoteUseCaseWithMetrics(t *testing.T) {
	decorator := NewVaultNoteUseCaseWithMetrics(&mocks.MockVaultNoteUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*VaultNoteUseCase)(nil), decorator)
}

func TestVaultNoteMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	id := bson.NewObjectID().Hex()

	t.Run("Success_Create", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}
		input := &vaultDomain.CreateVaultNoteInput{Title: "Bank"}

		next.On("Create", ctx, input).Return(&vaultDomain.VaultNote{Title: "Bank"}, nil).Once()
		expectRecord(ctx, m, "vault_note_create", "success")

		note, err := NewVaultNoteUseCaseWithMetrics(next, m).Create(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, "Bank", note.Title)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Error_Get", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Get", ctx, id).Return(nil, vaultDomain.ErrVaultNoteNotFound).Once()
		expectRecord(ctx, m, "vault_note_get", "error")

		_, err := NewVaultNoteUseCaseWithMetrics(next, m).Get(ctx, id)

		assert.ErrorIs(t, err, vaultDomain.ErrVaultNoteNotFound)
		m.AssertExpectations(t)
	})

	t.Run("Success_List", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}

		next.On("List", ctx).Return([]*vaultDomain.VaultNote{}, nil).Once()
		expectRecord(ctx, m, "vault_note_list", "success")

		_, err := NewVaultNoteUseCaseWithMetrics(next, m).List(ctx)

		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("Success_Update", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}
		input := &vaultDomain.UpdateVaultNoteInput{}

		next.On("Update", ctx, id, input).Return(&vaultDomain.VaultNote{}, nil).Once()
		expectRecord(ctx, m, "vault_note_update", "success")

		_, err := NewVaultNoteUseCaseWithMetrics(next, m).Update(ctx, id, input)

		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("Error_Delete", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Delete", ctx, id).Return(false, errors.New("boom")).Once()
		expectRecord(ctx, m, "vault_note_delete", "error")

		deleted, err := NewVaultNoteUseCaseWithMetrics(next, m).Delete(ctx, id)

		assert.Error(t, err)
		assert.False(t, deleted)
		m.AssertExpectations(t)
	})

	t.Run("Success_GetRaw", func(t *testing.T) {
		next := &mocks.MockVaultNoteUseCase{}
		m := &mockBusinessMetrics{}

		next.On("GetRaw", ctx, id).Return(bson.D{}, nil).Once()
		expectRecord(ctx, m, "vault_note_get_raw", "success")

		_, err := NewVaultNoteUseCaseWithMetrics(next, m).GetRaw(ctx, id)

		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}
