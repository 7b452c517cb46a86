package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/expoflow/exhibition-backend/internal/assignment"
)

// AssignmentStore implements assignment.Store on top of the SQL
// repositories.  Every unit of work wraps one database transaction
// so a run's reads and writes share a single atomic boundary; the
// engine relies entirely on that boundary to serialize conflicting
// writes between concurrent runs.
type AssignmentStore struct {
	db        *sql.DB
	events    *EventRepo
	stands    *StandRepo
	requests  *RequestRepo
	companies *CompanyRepo
	conflicts *ConflictRepo
	history   *HistoryRepo
}

// NewAssignmentStore wires the repositories into a store the engine
// can open units of work against.  All dependencies must be non-nil.
func NewAssignmentStore(db *sql.DB, events *EventRepo, stands *StandRepo, requests *RequestRepo, companies *CompanyRepo, conflicts *ConflictRepo, history *HistoryRepo) *AssignmentStore {
	if db == nil || events == nil || stands == nil || requests == nil || companies == nil || conflicts == nil || history == nil {
		panic("nil dependency passed to NewAssignmentStore")
	}
	return &AssignmentStore{
		db:        db,
		events:    events,
		stands:    stands,
		requests:  requests,
		companies: companies,
		conflicts: conflicts,
		history:   history,
	}
}

// Begin opens a new transaction-backed unit of work.
func (s *AssignmentStore) Begin(ctx context.Context) (assignment.UnitOfWork, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlUnit{store: s, tx: tx}, nil
}

// sqlUnit is one transaction-scoped unit of work.  The done flag
// guards against double commit/rollback since the coordinator
// pairs a deferred rollback with an explicit commit.  seq numbers
// the per-item savepoints within the transaction.
type sqlUnit struct {
	store *AssignmentStore
	tx    *sql.Tx
	done  bool
	seq   int
}

func (u *sqlUnit) EventExists(ctx context.Context, eventID uint64) (bool, error) {
	return u.store.events.ExistsTx(ctx, u.tx, eventID)
}

func (u *sqlUnit) EligibleRequests(ctx context.Context, eventID uint64, filter assignment.RequestFilter) ([]assignment.Request, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	rows, err := u.store.requests.ListEligibleTx(ctx, u.tx, eventID, statuses, filter.IncludeAutomatic)
	if err != nil {
		return nil, err
	}
	requests := make([]assignment.Request, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, assignment.Request{
			ID:               row.ID,
			CompanyID:        row.CompanyID,
			CompanyName:      row.CompanyName,
			CompanySize:      assignment.CompanySize(row.CompanySize),
			EventID:          row.EventID,
			RequestedStandID: row.RequestedStandID,
			Status:           assignment.RequestStatus(row.Status),
			Mode:             assignment.AssignmentMode(row.Mode),
			PriorityScore:    row.PriorityScore,
			SubmittedAt:      row.SubmittedAt,
			Criteria:         decodeCriteria(row.CriteriaJSON),
			PreferredZone:    row.CompanyZone,
		})
	}
	return requests, nil
}

func (u *sqlUnit) CandidateStands(ctx context.Context, eventID uint64) ([]assignment.Stand, error) {
	rows, err := u.store.stands.ListCandidatesForEventTx(ctx, u.tx, eventID)
	if err != nil {
		return nil, err
	}
	stands := make([]assignment.Stand, 0, len(rows))
	for _, row := range rows {
		stands = append(stands, candidateToStand(row))
	}
	return stands, nil
}

func (u *sqlUnit) CompanyProfile(ctx context.Context, companyID uint64) (assignment.CompanyProfile, error) {
	c, err := u.store.companies.GetByIDTx(ctx, u.tx, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assignment.CompanyProfile{}, assignment.NotFoundError("company", companyID)
		}
		return assignment.CompanyProfile{}, err
	}
	return assignment.CompanyProfile{
		ID:            c.ID,
		Name:          c.Name,
		Size:          assignment.CompanySize(c.Size),
		Approved:      c.Status == "approved",
		PriorityScore: c.PriorityScore,
		PreferredZone: c.PreferredZone,
	}, nil
}

func (u *sqlUnit) StandByID(ctx context.Context, standID uint64) (assignment.Stand, error) {
	row, err := u.store.stands.GetCandidateTx(ctx, u.tx, standID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assignment.Stand{}, assignment.NotFoundError("stand", standID)
		}
		return assignment.Stand{}, err
	}
	return candidateToStand(row), nil
}

// RecordAssignment marks the request assigned and reserves the
// stand's per-event availability.  Either write affecting no rows
// surfaces as an error the coordinator treats as a skippable
// per-item persistence failure.  The pair runs inside a savepoint:
// when the reserve loses to a concurrent run, the request update is
// rolled back with it, so a skipped item leaves no persisted state
// when the surrounding transaction later commits.
func (u *sqlUnit) RecordAssignment(ctx context.Context, a assignment.Assignment) error {
	u.seq++
	sp := fmt.Sprintf("item_%d", u.seq)
	if _, err := u.tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return err
	}
	if err := u.writeAssignment(ctx, a); err != nil {
		if _, rbErr := u.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return fmt.Errorf("revert %s after %v: %w", sp, err, rbErr)
		}
		return err
	}
	_, err := u.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp)
	return err
}

func (u *sqlUnit) writeAssignment(ctx context.Context, a assignment.Assignment) error {
	if err := u.store.requests.MarkAssignedTx(ctx, u.tx, a.Request.ID, a.Stand.ID); err != nil {
		return err
	}
	return u.store.stands.ReserveForEventTx(ctx, u.tx, a.Request.EventID, a.Stand.ID)
}

func (u *sqlUnit) RecordConflict(ctx context.Context, c assignment.Conflict) error {
	contenders, err := json.Marshal(c.Contenders)
	if err != nil {
		return err
	}
	return u.store.conflicts.CreateTx(ctx, u.tx, ConflictRecord{
		EventID:          c.EventID,
		StandID:          c.StandID,
		ContendersJSON:   string(contenders),
		Severity:         string(c.Severity),
		DetectionMethod:  c.DetectionMethod,
		ResolutionStatus: c.ResolutionStatus,
	})
}

func (u *sqlUnit) AppendHistory(ctx context.Context, h assignment.HistoryEntry) error {
	details, err := json.Marshal(h.Details)
	if err != nil {
		return err
	}
	return u.store.history.CreateTx(ctx, u.tx, HistoryRecord{
		EventID:     h.EventID,
		Kind:        h.Kind,
		RequestID:   h.RequestID,
		StandID:     h.StandID,
		ActorID:     h.ActorID,
		OriginIP:    h.OriginIP,
		UserAgent:   h.UserAgent,
		DetailsJSON: string(details),
	})
}

func (u *sqlUnit) Commit() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Commit()
}

func (u *sqlUnit) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}

func candidateToStand(row CandidateRow) assignment.Stand {
	return assignment.Stand{
		ID:                 row.ID,
		Number:             row.Number,
		AreaM2:             row.AreaM2,
		TypeName:           row.TypeName,
		TypeBasePriceCents: row.TypeBasePriceCents,
		Premium:            row.TypePremium,
		Location:           row.Location,
		CustomPriceCents:   row.CustomPriceCents,
		Services:           row.Services,
	}
}

// decodeCriteria unmarshals a request's criteria JSON, tolerating
// empty and malformed documents by falling back to zero criteria
// (the scorer then applies its documented defaults).
func decodeCriteria(raw string) assignment.Criteria {
	if raw == "" {
		return assignment.Criteria{}
	}
	var c assignment.Criteria
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return assignment.Criteria{}
	}
	return c
}
