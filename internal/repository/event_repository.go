package repository

import (
	"context"
	"database/sql"

	"github.com/expoflow/exhibition-backend/internal/model"
)

// EventRepo provides read access to the events table.  Events are
// created and edited by an out-of-scope administration flow; the
// engine and the public browse endpoints only need lookups.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// List returns all published events ordered by start date.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT id, name, venue, starts_at, ends_at, status, created_at, updated_at
	           FROM events
	           WHERE status = 'published'
	           ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt, &e.EndsAt, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID fetches a single event.  sql.ErrNoRows is returned when
// it does not exist.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	const q = `SELECT id, name, venue, starts_at, ends_at, status, created_at, updated_at
	           FROM events WHERE id = ?`
	var e model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name, &e.Venue, &e.StartsAt, &e.EndsAt, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ExistsTx reports whether the event exists, within the provided
// transaction so the check shares the run's snapshot.
func (r *EventRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
