package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/repo"
)

// DefaultBatchSize is the number of events sent to the repo per Insert call.
const DefaultBatchSize = 500

// ImportReport summarises one Import call.
type ImportReport struct {
	BatchID    uuid.UUID
	Inserted   int
	Duplicates int
}

// ImportService persists decoded events.
type ImportService struct {
	repo      repo.EventRepo
	logger    *slog.Logger
	batchSize int
}

// NewImportService constructs an ImportService backed by the provided EventRepo.
func NewImportService(r repo.EventRepo, logger *slog.Logger) *ImportService {
	return &ImportService{repo: r, logger: logger, batchSize: DefaultBatchSize}
}

// WithBatchSize returns a copy of s that inserts n events per round trip.
func (s *ImportService) WithBatchSize(n int) *ImportService {
	c := *s
	if n > 0 {
		c.batchSize = n
	}
	return &c
}

// Import stores events under a new batch id. Events already in the database
// are counted as duplicates, so importing the same export twice is harmless.
// On error the report covers the chunks that were committed before it.
func (s *ImportService) Import(ctx context.Context, events []domain.Event) (ImportReport, error) {
	report := ImportReport{BatchID: uuid.New()}

	for start := 0; start < len(events); start += s.batchSize {
		end := min(start+s.batchSize, len(events))
		chunk := events[start:end]

		n, err := s.repo.Insert(ctx, report.BatchID, chunk)
		if err != nil {
			return report, fmt.Errorf("service.ImportService.Import: %w", err)
		}
		report.Inserted += n
		report.Duplicates += len(chunk) - n
		s.logger.Debug("import chunk stored", "batch_id", report.BatchID, "inserted", n, "size", len(chunk))
	}

	s.logger.Info("import finished",
		"batch_id", report.BatchID,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
	)
	return report, nil
}

// Undo removes every event of a previous import and returns how many were removed.
// Returns domain.ErrNotFound if the batch is unknown.
func (s *ImportService) Undo(ctx context.Context, batchID uuid.UUID) (int, error) {
	n, err := s.repo.DeleteBatch(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("service.ImportService.Undo: %w", err)
	}
	s.logger.Info("import removed", "batch_id", batchID, "deleted", n)
	return n, nil
}
