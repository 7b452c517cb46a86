package assignment

import (
	"context"
	"time"
)

// RequestFilter narrows the eligible request selection.  Statuses
// comes from the run configuration; IncludeAutomatic controls
// whether automatic-mode requests are in scope (manual-mode
// requests always are).
type RequestFilter struct {
	Statuses         []RequestStatus
	IncludeAutomatic bool
}

// HistoryEntry is one append-only audit record.  Details is
// serialized to JSON by the store.
type HistoryEntry struct {
	EventID    uint64
	Kind       string // "run_completed" or "stand_assigned"
	RequestID  *uint64
	StandID    *uint64
	ActorID    uint64
	OriginIP   string
	UserAgent  string
	Details    map[string]any
	RecordedAt time.Time
}

// Store opens units of work against the backing datastore.  The
// production implementation wraps a SQL transaction; tests use an
// in-memory fake.
type Store interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// UnitOfWork scopes all reads and writes of one run to a single
// atomic boundary.  Callers must end every unit with exactly one
// Commit or Rollback; the coordinator guarantees a rollback on
// every non-committed exit path.
//
// RecordAssignment is the effective mutual exclusion point between
// concurrent runs on the same event: reserving an already-claimed
// stand must fail that single write, which the coordinator logs
// and skips without aborting the run.
type UnitOfWork interface {
	EventExists(ctx context.Context, eventID uint64) (bool, error)
	EligibleRequests(ctx context.Context, eventID uint64, filter RequestFilter) ([]Request, error)
	CandidateStands(ctx context.Context, eventID uint64) ([]Stand, error)
	CompanyProfile(ctx context.Context, companyID uint64) (CompanyProfile, error)
	StandByID(ctx context.Context, standID uint64) (Stand, error)

	RecordAssignment(ctx context.Context, a Assignment) error
	RecordConflict(ctx context.Context, c Conflict) error
	AppendHistory(ctx context.Context, h HistoryEntry) error

	Commit() error
	Rollback() error
}
