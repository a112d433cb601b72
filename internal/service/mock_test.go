package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/repo"
)

// mockEventRepo is a hand-written test double for repo.EventRepo.
// Each method is a function field; set only the ones your test needs.
type mockEventRepo struct {
	insert      func(ctx context.Context, batchID uuid.UUID, events []domain.Event) (int, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.StoredEvent, error)
	listBetween func(ctx context.Context, from, to time.Time) ([]domain.StoredEvent, error)
	deleteBatch func(ctx context.Context, batchID uuid.UUID) (int, error)
}

func (m *mockEventRepo) Insert(ctx context.Context, batchID uuid.UUID, events []domain.Event) (int, error) {
	return m.insert(ctx, batchID, events)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.StoredEvent, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.StoredEvent, error) {
	return m.listBetween(ctx, from, to)
}
func (m *mockEventRepo) DeleteBatch(ctx context.Context, batchID uuid.UUID) (int, error) {
	return m.deleteBatch(ctx, batchID)
}

// compile-time check: mockEventRepo must satisfy repo.EventRepo.
var _ repo.EventRepo = (*mockEventRepo)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
