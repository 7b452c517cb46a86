package repository

import (
	"context"
	"database/sql"

	"github.com/expoflow/exhibition-backend/internal/model"
)

// HistoryRepo provides data access to the append-only
// assignment_history table.  Rows are never updated or deleted.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo returns a new HistoryRepo bound to the given database.
func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// HistoryRecord carries the fields inserted by CreateTx.  Details
// arrives pre-serialized as JSON.
type HistoryRecord struct {
	EventID     uint64
	Kind        string
	RequestID   *uint64
	StandID     *uint64
	ActorID     uint64
	OriginIP    string
	UserAgent   string
	DetailsJSON string
}

// CreateTx appends one history row within the provided transaction.
// The caller must commit or roll back.
func (r *HistoryRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec HistoryRecord) error {
	const q = `INSERT INTO assignment_history
	           (event_id, kind, request_id, stand_id, actor_id, origin_ip, user_agent, details)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var requestID, standID interface{}
	if rec.RequestID != nil {
		requestID = *rec.RequestID
	}
	if rec.StandID != nil {
		standID = *rec.StandID
	}
	_, err := tx.ExecContext(ctx, q,
		rec.EventID, rec.Kind, requestID, standID, rec.ActorID, rec.OriginIP, rec.UserAgent, rec.DetailsJSON)
	return err
}

// ListByEvent returns the audit trail for an event, newest first.
func (r *HistoryRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.AssignmentHistory, error) {
	const q = `SELECT id, event_id, kind, request_id, stand_id, actor_id, origin_ip, user_agent, details, recorded_at
	           FROM assignment_history
	           WHERE event_id = ?
	           ORDER BY recorded_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.AssignmentHistory, 0)
	for rows.Next() {
		var h model.AssignmentHistory
		var requestID, standID sql.NullInt64
		if err := rows.Scan(&h.ID, &h.EventID, &h.Kind, &requestID, &standID, &h.ActorID, &h.OriginIP, &h.UserAgent, &h.Details, &h.RecordedAt); err != nil {
			return nil, err
		}
		if requestID.Valid {
			id := uint64(requestID.Int64)
			h.RequestID = &id
		}
		if standID.Valid {
			id := uint64(standID.Int64)
			h.StandID = &id
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
