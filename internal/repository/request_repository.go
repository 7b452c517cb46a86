package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/expoflow/exhibition-backend/internal/model"
)

// RequestRepo provides data access to the assignment_requests
// table.  Eligible selection joins the owning company so the
// engine receives company identity, size and zone preference in
// one round trip.  All timestamp columns are stored in UTC.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// EligibleRow is one request joined with its company, as selected
// for a run.  CriteriaJSON is decoded by the assignment store.
type EligibleRow struct {
	ID               uint64
	CompanyID        uint64
	CompanyName      string
	CompanySize      string
	CompanyZone      string
	EventID          uint64
	RequestedStandID *uint64
	Status           string
	Mode             string
	PriorityScore    float64
	CriteriaJSON     string
	SubmittedAt      time.Time
}

// ListEligibleTx selects the requests eligible for a run: matching
// event, status in the provided set, no stand assigned yet, owning
// company approved, and modality filtered when includeAutomatic is
// false.  Rows come back pre-sorted by priority descending then
// submission ascending as a stable default; the ordering policy is
// applied separately by the engine.
func (r *RequestRepo) ListEligibleTx(ctx context.Context, tx *sql.Tx, eventID uint64, statuses []string, includeAutomatic bool) ([]EligibleRow, error) {
	if len(statuses) == 0 {
		return []EligibleRow{}, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, eventID)
	for i, s := range statuses {
		placeholders[i] = "?"
		args = append(args, s)
	}
	q := `SELECT r.id, r.company_id, c.name, c.size, c.preferred_zone,
	             r.event_id, r.requested_stand_id, r.status, r.assignment_mode,
	             r.priority_score, r.criteria, r.submitted_at
	      FROM assignment_requests r
	      JOIN companies c ON c.id = r.company_id
	      WHERE r.event_id = ?
	        AND r.status IN (` + strings.Join(placeholders, ",") + `)
	        AND r.assigned_stand_id IS NULL
	        AND c.status = 'approved'`
	if !includeAutomatic {
		q += ` AND r.assignment_mode <> 'automatic'`
	}
	q += ` ORDER BY r.priority_score DESC, r.submitted_at ASC`

	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	eligible := make([]EligibleRow, 0)
	for rows.Next() {
		var row EligibleRow
		var requested sql.NullInt64
		var criteria sql.NullString
		if err := rows.Scan(
			&row.ID, &row.CompanyID, &row.CompanyName, &row.CompanySize, &row.CompanyZone,
			&row.EventID, &requested, &row.Status, &row.Mode,
			&row.PriorityScore, &criteria, &row.SubmittedAt,
		); err != nil {
			return nil, err
		}
		if requested.Valid {
			id := uint64(requested.Int64)
			row.RequestedStandID = &id
		}
		if criteria.Valid {
			row.CriteriaJSON = criteria.String
		}
		eligible = append(eligible, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return eligible, nil
}

// MarkAssignedTx transitions a request to assigned and sets its
// stand, guarding against double assignment: when the request is
// no longer unassigned the update affects no rows and
// ErrRequestAssigned is returned so the caller can skip the item.
func (r *RequestRepo) MarkAssignedTx(ctx context.Context, tx *sql.Tx, requestID, standID uint64) error {
	const q = `UPDATE assignment_requests
	           SET status = 'assigned', assigned_stand_id = ?
	           WHERE id = ? AND assigned_stand_id IS NULL`
	res, err := tx.ExecContext(ctx, q, standID, requestID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestAssigned
	}
	return nil
}

// ListByEvent returns all requests for an event, newest first, for
// the organizer review endpoints.
func (r *RequestRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.AssignmentRequest, error) {
	const q = `SELECT id, company_id, event_id, requested_stand_id, assigned_stand_id,
	                  status, assignment_mode, priority_score, criteria, submitted_at, updated_at
	           FROM assignment_requests
	           WHERE event_id = ?
	           ORDER BY submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	requests := make([]model.AssignmentRequest, 0)
	for rows.Next() {
		var m model.AssignmentRequest
		var requested, assigned sql.NullInt64
		var criteria sql.NullString
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.EventID, &requested, &assigned,
			&m.Status, &m.AssignmentMode, &m.PriorityScore, &criteria, &m.SubmittedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if requested.Valid {
			id := uint64(requested.Int64)
			m.RequestedStandID = &id
		}
		if assigned.Valid {
			id := uint64(assigned.Int64)
			m.AssignedStandID = &id
		}
		if criteria.Valid {
			m.Criteria = criteria.String
		}
		requests = append(requests, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
