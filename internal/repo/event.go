// Package repo contains all database access logic for babystats.
// Events are stored in a single table with the variant-specific fields in a
// JSONB column. No aggregation lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/babystats/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// EventRepo defines the persistence operations for decoded events.
// The service layer depends on this interface, not the Postgres implementation.
type EventRepo interface {
	// Insert stores events under batchID. An event identical in every field to
	// one already stored is skipped. Returns the number of rows inserted.
	Insert(ctx context.Context, batchID uuid.UUID, events []domain.Event) (int, error)

	// GetByID retrieves a single stored event.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.StoredEvent, error)

	// ListBetween returns events with from <= start < to, ordered by start.
	// A zero from or to leaves that side unbounded.
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.StoredEvent, error)

	// DeleteBatch removes every event imported under batchID and returns how
	// many were removed. Returns domain.ErrNotFound if the batch has no events.
	DeleteBatch(ctx context.Context, batchID uuid.UUID) (int, error)
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db  db
	loc *time.Location
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// Timestamps read back are converted to loc so that day grouping matches a
// run over the original export.
func NewEventRepo(db db, loc *time.Location) EventRepo {
	if loc == nil {
		loc = time.Local
	}
	return &pgEventRepo{db: db, loc: loc}
}

const eventColumns = `id, batch_id, row_type, occurred_at, ended_at, duration_ms, note, details, imported_at`

// Insert queues one INSERT per event in a single batch round trip.
func (r *pgEventRepo) Insert(ctx context.Context, batchID uuid.UUID, events []domain.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	const q = `
		INSERT INTO events (batch_id, content_key, kind, row_type, occurred_at, ended_at, duration_ms, note, details)
		VALUES (@batch_id, @content_key, @kind, @row_type, @occurred_at, @ended_at, @duration_ms, @note, @details)
		ON CONFLICT ON CONSTRAINT events_content_key_key DO NOTHING`

	batch := &pgx.Batch{}
	for i, e := range events {
		rec := toRecord(e)
		key, err := rec.contentKey(e.Kind())
		if err != nil {
			return 0, fmt.Errorf("repo.EventRepo.Insert: event %d: %w", i, err)
		}
		batch.Queue(q, pgx.NamedArgs{
			"batch_id":    batchID,
			"content_key": key,
			"kind":        string(e.Kind()),
			"row_type":    string(rec.rowType),
			"occurred_at": rec.occurredAt,
			"ended_at":    rec.endedAt, // nil becomes NULL
			"duration_ms": rec.duration.Milliseconds(),
			"note":        rec.note,
			"details":     rec.details,
		})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for i := range events {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("repo.EventRepo.Insert: event %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return inserted, fmt.Errorf("repo.EventRepo.Insert: close batch: %w", err)
	}
	return inserted, nil
}

// GetByID retrieves an event by primary key.
func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.StoredEvent, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := r.scanEvent(row)
	if err != nil {
		return domain.StoredEvent{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListBetween returns events in [from, to) ordered by start time.
func (r *pgEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.StoredEvent, error) {
	q := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE (@from::timestamptz IS NULL OR occurred_at >= @from)
		  AND (@to::timestamptz   IS NULL OR occurred_at <  @to)
		ORDER BY occurred_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"from": optionalTime(from), "to": optionalTime(to)})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListBetween: %w", err)
	}
	defer rows.Close()

	var events []domain.StoredEvent
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListBetween: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListBetween: rows: %w", err)
	}

	return events, nil
}

// DeleteBatch removes all events of one import.
func (r *pgEventRepo) DeleteBatch(ctx context.Context, batchID uuid.UUID) (int, error) {
	const q = `DELETE FROM events WHERE batch_id = @batch_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"batch_id": batchID})
	if err != nil {
		return 0, fmt.Errorf("repo.EventRepo.DeleteBatch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("repo.EventRepo.DeleteBatch: %w", domain.ErrNotFound)
	}
	return int(tag.RowsAffected()), nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEvent maps a single database row into a domain.StoredEvent.
func (r *pgEventRepo) scanEvent(s scanner) (domain.StoredEvent, error) {
	var (
		id, batchID pgtype.UUID
		rec         record
		rowType     string
		ended       pgtype.Timestamptz
		durationMS  int64
		importedAt  time.Time
	)

	err := s.Scan(&id, &batchID, &rowType, &rec.occurredAt, &ended, &durationMS, &rec.note, &rec.details, &importedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredEvent{}, domain.ErrNotFound
		}
		return domain.StoredEvent{}, err
	}

	rec.rowType = domain.RowType(rowType)
	rec.occurredAt = rec.occurredAt.In(r.loc)
	if ended.Valid {
		e := ended.Time.In(r.loc)
		rec.endedAt = &e
	}
	rec.duration = time.Duration(durationMS) * time.Millisecond

	ev, err := rec.event()
	if err != nil {
		return domain.StoredEvent{}, err
	}

	return domain.StoredEvent{
		ID:         uuid.UUID(id.Bytes),
		BatchID:    uuid.UUID(batchID.Bytes),
		RowType:    rec.rowType,
		Event:      ev,
		ImportedAt: importedAt,
	}, nil
}
