package repository

import (
	"context"
	"database/sql"
	"encoding/json"
)

// StandRepo provides data access to the stands, stand_types and
// stand_event_availability tables.  Candidate selection joins all
// three so the engine receives fully hydrated rows; reservation of
// the per-event availability row is the write that serializes
// concurrent runs on the same event.
type StandRepo struct {
	db *sql.DB
}

// NewStandRepo returns a new StandRepo bound to the given database.
func NewStandRepo(db *sql.DB) *StandRepo { return &StandRepo{db: db} }

// CandidateRow is a stand joined with its type, as selected for
// matching.  Services are decoded from the JSON column.
type CandidateRow struct {
	ID                 uint64
	Number             string
	AreaM2             float64
	Location           string
	CustomPriceCents   *int64
	Services           []string
	TypeName           string
	TypeBasePriceCents int64
	TypePremium        bool
}

// EventStandRow is a stand with its per-event availability status,
// returned for the public browse endpoints.
type EventStandRow struct {
	ID           uint64   `json:"id"`
	Number       string   `json:"number"`
	AreaM2       float64  `json:"area_m2"`
	Location     string   `json:"location"`
	TypeName     string   `json:"type"`
	Services     []string `json:"services"`
	Availability string   `json:"availability"`
}

const candidateColumns = `st.id, st.number, st.area_m2, st.location, st.custom_price_cents, st.services,
	       t.name, t.base_price_cents, t.is_premium`

// ListCandidatesForEventTx returns every stand that is a matching
// candidate for the event: physically active and available, active
// type, and per-event availability in the available state.  Rows
// are ordered by stand id for deterministic matching input.
func (r *StandRepo) ListCandidatesForEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) ([]CandidateRow, error) {
	const q = `SELECT ` + candidateColumns + `
	           FROM stands st
	           JOIN stand_types t ON t.id = st.type_id
	           JOIN stand_event_availability a ON a.stand_id = st.id AND a.event_id = ?
	           WHERE st.status = 'active'
	             AND st.is_available = 1
	             AND t.is_active = 1
	             AND a.status = 'available'
	           ORDER BY st.id ASC`
	rows, err := tx.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stands := make([]CandidateRow, 0)
	for rows.Next() {
		row, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		stands = append(stands, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stands, nil
}

// GetCandidateTx fetches one stand joined with its type regardless
// of per-event availability, for the standalone compatibility
// check.  sql.ErrNoRows is returned when the stand does not exist
// or is not physically active.
func (r *StandRepo) GetCandidateTx(ctx context.Context, tx *sql.Tx, standID uint64) (CandidateRow, error) {
	const q = `SELECT ` + candidateColumns + `
	           FROM stands st
	           JOIN stand_types t ON t.id = st.type_id
	           WHERE st.id = ? AND st.status = 'active'`
	row := tx.QueryRowContext(ctx, q, standID)
	return scanCandidate(row)
}

// ReserveForEventTx flips the per-event availability of a stand
// from available to reserved.  It returns ErrStandTaken when no
// row was updated, meaning a concurrent run claimed the stand
// first or it was withdrawn; callers skip that single assignment
// and continue.
func (r *StandRepo) ReserveForEventTx(ctx context.Context, tx *sql.Tx, eventID, standID uint64) error {
	const q = `UPDATE stand_event_availability
	           SET status = 'reserved'
	           WHERE stand_id = ? AND event_id = ? AND status = 'available'`
	res, err := tx.ExecContext(ctx, q, standID, eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStandTaken
	}
	return nil
}

// ListForEvent returns all stands offered at the event with their
// availability status, for public browsing.  Unlike candidate
// selection it includes reserved and unavailable rows so clients
// can render the full floor plan.
func (r *StandRepo) ListForEvent(ctx context.Context, eventID uint64) ([]EventStandRow, error) {
	const q = `SELECT st.id, st.number, st.area_m2, st.location, st.services, t.name, a.status
	           FROM stands st
	           JOIN stand_types t ON t.id = st.type_id
	           JOIN stand_event_availability a ON a.stand_id = st.id
	           WHERE a.event_id = ? AND st.status = 'active'
	           ORDER BY st.number ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stands := make([]EventStandRow, 0)
	for rows.Next() {
		var s EventStandRow
		var servicesJSON sql.NullString
		if err := rows.Scan(&s.ID, &s.Number, &s.AreaM2, &s.Location, &servicesJSON, &s.TypeName, &s.Availability); err != nil {
			return nil, err
		}
		s.Services = decodeServices(servicesJSON)
		stands = append(stands, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stands, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(sc rowScanner) (CandidateRow, error) {
	var row CandidateRow
	var custom sql.NullInt64
	var servicesJSON sql.NullString
	err := sc.Scan(
		&row.ID, &row.Number, &row.AreaM2, &row.Location, &custom, &servicesJSON,
		&row.TypeName, &row.TypeBasePriceCents, &row.TypePremium,
	)
	if err != nil {
		return CandidateRow{}, err
	}
	if custom.Valid {
		v := custom.Int64
		row.CustomPriceCents = &v
	}
	row.Services = decodeServices(servicesJSON)
	return row, nil
}

// decodeServices unmarshals the JSON services column, tolerating
// null and malformed legacy values by returning an empty list.
func decodeServices(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var services []string
	if err := json.Unmarshal([]byte(raw.String), &services); err != nil {
		return []string{}
	}
	return services
}
