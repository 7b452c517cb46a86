package repository

import (
	"context"
	"database/sql"

	"github.com/expoflow/exhibition-backend/internal/model"
)

// ConflictRepo provides data access to the assignment_conflicts
// table.  Conflicts are written only by the engine; resolution is
// a manual workflow that lives elsewhere.
type ConflictRepo struct {
	db *sql.DB
}

// NewConflictRepo returns a new ConflictRepo bound to the given database.
func NewConflictRepo(db *sql.DB) *ConflictRepo { return &ConflictRepo{db: db} }

// ConflictRecord carries the fields inserted by CreateTx.  The
// contenders snapshot arrives pre-serialized as JSON.
type ConflictRecord struct {
	EventID          uint64
	StandID          uint64
	ContendersJSON   string
	Severity         string
	DetectionMethod  string
	ResolutionStatus string
}

// CreateTx inserts one conflict within the provided transaction.
// The caller must commit or roll back.
func (r *ConflictRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec ConflictRecord) error {
	const q = `INSERT INTO assignment_conflicts
	           (event_id, stand_id, contenders, severity, detection_method, resolution_status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		rec.EventID, rec.StandID, rec.ContendersJSON, rec.Severity, rec.DetectionMethod, rec.ResolutionStatus)
	return err
}

// ListByEvent returns all recorded conflicts for an event, newest
// first, for the organizer review endpoints.
func (r *ConflictRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.AssignmentConflict, error) {
	const q = `SELECT id, event_id, stand_id, contenders, severity, detection_method, resolution_status, detected_at
	           FROM assignment_conflicts
	           WHERE event_id = ?
	           ORDER BY detected_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	conflicts := make([]model.AssignmentConflict, 0)
	for rows.Next() {
		var c model.AssignmentConflict
		if err := rows.Scan(&c.ID, &c.EventID, &c.StandID, &c.Contenders, &c.Severity, &c.DetectionMethod, &c.ResolutionStatus, &c.DetectedAt); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conflicts, nil
}
