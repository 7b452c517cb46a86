package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store.  Writes accumulate inside the
// unit of work and only land in the persisted fields on Commit, so
// tests can observe rollback semantics directly.
type fakeStore struct {
	events    map[uint64]bool
	requests  []Request
	stands    []Stand
	companies map[uint64]CompanyProfile

	failAssign   map[uint64]error // request ID -> forced write error
	failConflict error
	failHistory  error

	persistedAssignments []Assignment
	persistedConflicts   []Conflict
	persistedHistory     []HistoryEntry

	lastUnit *fakeUnit
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:     map[uint64]bool{1: true},
		companies:  map[uint64]CompanyProfile{},
		failAssign: map[uint64]error{},
	}
}

func (s *fakeStore) Begin(ctx context.Context) (UnitOfWork, error) {
	u := &fakeUnit{store: s}
	s.lastUnit = u
	return u, nil
}

type fakeUnit struct {
	store       *fakeStore
	assignments []Assignment
	conflicts   []Conflict
	history     []HistoryEntry
	committed   bool
	rolledBack  bool
}

func (u *fakeUnit) EventExists(ctx context.Context, eventID uint64) (bool, error) {
	return u.store.events[eventID], nil
}

func (u *fakeUnit) EligibleRequests(ctx context.Context, eventID uint64, filter RequestFilter) ([]Request, error) {
	allowed := map[RequestStatus]bool{}
	for _, st := range filter.Statuses {
		allowed[st] = true
	}
	out := make([]Request, 0, len(u.store.requests))
	for _, r := range u.store.requests {
		if r.EventID != eventID || !allowed[r.Status] {
			continue
		}
		if !filter.IncludeAutomatic && r.Mode == ModeAutomatic {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (u *fakeUnit) CandidateStands(ctx context.Context, eventID uint64) ([]Stand, error) {
	out := make([]Stand, len(u.store.stands))
	copy(out, u.store.stands)
	return out, nil
}

func (u *fakeUnit) CompanyProfile(ctx context.Context, companyID uint64) (CompanyProfile, error) {
	p, ok := u.store.companies[companyID]
	if !ok {
		return CompanyProfile{}, NotFoundError("company", companyID)
	}
	return p, nil
}

func (u *fakeUnit) StandByID(ctx context.Context, standID uint64) (Stand, error) {
	for _, s := range u.store.stands {
		if s.ID == standID {
			return s, nil
		}
	}
	return Stand{}, NotFoundError("stand", standID)
}

func (u *fakeUnit) RecordAssignment(ctx context.Context, a Assignment) error {
	if err := u.store.failAssign[a.Request.ID]; err != nil {
		return err
	}
	u.assignments = append(u.assignments, a)
	return nil
}

func (u *fakeUnit) RecordConflict(ctx context.Context, c Conflict) error {
	if u.store.failConflict != nil {
		return u.store.failConflict
	}
	u.conflicts = append(u.conflicts, c)
	return nil
}

func (u *fakeUnit) AppendHistory(ctx context.Context, h HistoryEntry) error {
	if u.store.failHistory != nil {
		return u.store.failHistory
	}
	u.history = append(u.history, h)
	return nil
}

func (u *fakeUnit) Commit() error {
	u.committed = true
	u.store.persistedAssignments = append(u.store.persistedAssignments, u.assignments...)
	u.store.persistedConflicts = append(u.store.persistedConflicts, u.conflicts...)
	u.store.persistedHistory = append(u.store.persistedHistory, u.history...)
	return nil
}

func (u *fakeUnit) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func historyKinds(entries []HistoryEntry) map[string]int {
	kinds := map[string]int{}
	for _, h := range entries {
		kinds[h.Kind]++
	}
	return kinds
}

var testMeta = RunMeta{ActorID: 99, OriginIP: "203.0.113.7", UserAgent: "test-agent"}

func TestRunAssignsAndCommits(t *testing.T) {
	store := newFakeStore()
	store.requests = []Request{newRequest(1, 1, 8, 0), newRequest(2, 2, 4, 5)}
	store.stands = []Stand{newStand(10, "A-10"), newStand(11, "A-11")}

	co := NewCoordinator(store)
	summary, err := co.Run(context.Background(), 1, DefaultRunConfig(), testMeta)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.AssignmentsMade)
	assert.Equal(t, 2, summary.RequestsProcessed)
	assert.Equal(t, 2, summary.AvailableStands)
	assert.Empty(t, summary.SkippedWrites)

	require.True(t, store.lastUnit.committed)
	assert.Len(t, store.persistedAssignments, 2)

	kinds := historyKinds(store.persistedHistory)
	assert.Equal(t, 2, kinds[HistoryKindStandAssigned])
	assert.Equal(t, 1, kinds[HistoryKindRunCompleted])

	for _, h := range store.persistedHistory {
		assert.Equal(t, testMeta.ActorID, h.ActorID)
		assert.Equal(t, testMeta.OriginIP, h.OriginIP)
		assert.Equal(t, testMeta.UserAgent, h.UserAgent)
	}
}

func TestRunNothingToDoIsSuccess(t *testing.T) {
	store := newFakeStore()
	for i := uint64(1); i <= 5; i++ {
		store.requests = append(store.requests, newRequest(i, i, float64(10-i), int(i)))
	}
	// no stands at all

	co := NewCoordinator(store)
	summary, err := co.Run(context.Background(), 1, DefaultRunConfig(), testMeta)
	require.NoError(t, err)

	assert.Zero(t, summary.AssignmentsMade)
	assert.Equal(t, 5, summary.RequestsProcessed)
	assert.Zero(t, summary.AvailableStands)
	assert.Empty(t, summary.Assignments)
	assert.Zero(t, summary.ConflictsDetected)

	// The aggregate audit record still lands.
	require.True(t, store.lastUnit.committed)
	kinds := historyKinds(store.persistedHistory)
	assert.Equal(t, 1, kinds[HistoryKindRunCompleted])
	assert.Zero(t, kinds[HistoryKindStandAssigned])
}

func TestRunUnknownAlgorithmRejected(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	cfg := DefaultRunConfig()
	cfg.Algorithm = "simulated_annealing"
	_, err := co.Run(context.Background(), 1, cfg, testMeta)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Nil(t, store.lastUnit, "no unit of work should be opened")
}

func TestRunMissingEvent(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	_, err := co.Run(context.Background(), 77, DefaultRunConfig(), testMeta)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	require.NotNil(t, store.lastUnit)
	assert.True(t, store.lastUnit.rolledBack)
	assert.Empty(t, store.persistedHistory)
}

func TestRunSkipsFailedAssignmentWrites(t *testing.T) {
	store := newFakeStore()
	store.requests = []Request{newRequest(1, 1, 8, 0), newRequest(2, 2, 4, 5)}
	store.stands = []Stand{newStand(10, "A-10"), newStand(11, "A-11")}
	store.failAssign[1] = errors.New("stand already reserved")

	co := NewCoordinator(store)
	summary, err := co.Run(context.Background(), 1, DefaultRunConfig(), testMeta)
	require.NoError(t, err, "a single failed write never aborts the run")

	assert.Equal(t, 1, summary.AssignmentsMade)
	require.Len(t, summary.SkippedWrites, 1)
	assert.Equal(t, uint64(1), summary.SkippedWrites[0].RequestID)

	require.True(t, store.lastUnit.committed)
	require.Len(t, store.persistedAssignments, 1)
	assert.Equal(t, uint64(2), store.persistedAssignments[0].Request.ID)

	kinds := historyKinds(store.persistedHistory)
	assert.Equal(t, 1, kinds[HistoryKindStandAssigned])
	assert.Equal(t, 1, kinds[HistoryKindRunCompleted])
}

func TestRunHistoryFailureAbortsAndRollsBack(t *testing.T) {
	store := newFakeStore()
	store.requests = []Request{newRequest(1, 1, 8, 0)}
	store.stands = []Stand{newStand(10, "A-10")}
	store.failHistory = errors.New("history table unavailable")

	co := NewCoordinator(store)
	_, err := co.Run(context.Background(), 1, DefaultRunConfig(), testMeta)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindRun))
	assert.True(t, store.lastUnit.rolledBack)
	assert.Empty(t, store.persistedAssignments)
	assert.Empty(t, store.persistedHistory)
}

func TestRunSkipsFailedConflictWrites(t *testing.T) {
	store := newFakeStore()
	reqs := make([]Request, 0, 3)
	for i := uint64(1); i <= 3; i++ {
		r := newRequest(i, i, float64(10-i), int(i))
		r.RequestedStandID = u64(10)
		reqs = append(reqs, r)
	}
	store.requests = reqs
	store.stands = []Stand{newStand(10, "A-10")}
	store.failConflict = errors.New("conflict table unavailable")

	co := NewCoordinator(store)
	summary, err := co.Run(context.Background(), 1, DefaultRunConfig(), testMeta)
	require.NoError(t, err)

	assert.Zero(t, summary.ConflictsDetected)
	require.Len(t, summary.SkippedWrites, 1)
	assert.Equal(t, uint64(10), summary.SkippedWrites[0].StandID)
	assert.True(t, store.lastUnit.committed)
	assert.Empty(t, store.persistedConflicts)
}

func TestRunExcludesAutomaticWhenConfigured(t *testing.T) {
	store := newFakeStore()
	auto := newRequest(1, 1, 8, 0)
	manual := newRequest(2, 2, 4, 5)
	manual.Mode = ModeManual
	store.requests = []Request{auto, manual}
	store.stands = []Stand{newStand(10, "A-10"), newStand(11, "A-11")}

	cfg := DefaultRunConfig()
	cfg.IncludeAutomaticRequests = false

	co := NewCoordinator(store)
	summary, err := co.Run(context.Background(), 1, cfg, testMeta)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RequestsProcessed)
	require.Len(t, store.persistedAssignments, 1)
	assert.Equal(t, uint64(2), store.persistedAssignments[0].Request.ID)
}

func TestSimulateDiscardsEverything(t *testing.T) {
	store := newFakeStore()
	store.requests = []Request{newRequest(1, 1, 8, 0), newRequest(2, 2, 4, 5)}
	store.stands = []Stand{newStand(10, "A-10")}

	co := NewCoordinator(store)
	sim, err := co.Simulate(context.Background(), 1, DefaultRunConfig(), testMeta)
	require.NoError(t, err)

	assert.Equal(t, 1, sim.SuccessPossibleCount)
	assert.Equal(t, 1, sim.UnresolvedCount)
	assert.InDelta(t, 50.0, sim.SuccessPercentage, 1e-9)

	assert.True(t, store.lastUnit.rolledBack)
	assert.Empty(t, store.persistedAssignments)
	assert.Empty(t, store.persistedConflicts)
	assert.Empty(t, store.persistedHistory)
}

func TestSimulateMatchesRealRun(t *testing.T) {
	store := newFakeStore()
	store.requests = []Request{
		newRequest(1, 1, 8, 0),
		newRequest(2, 2, 4, 5),
		newRequest(3, 3, 6, 2),
	}
	store.stands = []Stand{newStand(10, "A-10"), newStand(11, "A-11")}

	co := NewCoordinator(store)
	cfg := DefaultRunConfig()

	sim, err := co.Simulate(context.Background(), 1, cfg, testMeta)
	require.NoError(t, err)

	again, err := co.Simulate(context.Background(), 1, cfg, testMeta)
	require.NoError(t, err)
	assert.Equal(t, sim, again, "simulation is idempotent over an unchanged snapshot")

	real, err := co.Run(context.Background(), 1, cfg, testMeta)
	require.NoError(t, err)
	assert.Equal(t, sim.RunSummary.Assignments, real.Assignments)
	assert.Equal(t, sim.SuccessPossibleCount, real.AssignmentsMade)
}

func TestCheckCompatibilityRecommendation(t *testing.T) {
	store := newFakeStore()
	store.companies[7] = CompanyProfile{ID: 7, Name: "Acme", Size: SizeSmall, Approved: true, PriorityScore: 5, PreferredZone: "north"}
	store.stands = []Stand{newStand(10, "A-10")}

	co := NewCoordinator(store)
	report, err := co.CheckCompatibility(context.Background(), 7, 10, nil)
	require.NoError(t, err)

	// Preferred zone bonus lifts the neutral baseline to 77.
	assert.Equal(t, 77, report.Result.Score)
	assert.True(t, report.Result.Compatible)
	assert.Equal(t, RecommendationRecommended, report.Recommendation)
	assert.True(t, store.lastUnit.rolledBack, "read-only operations discard their unit")
}

func TestCheckCompatibilityNotRecommendedWhenBudgetGates(t *testing.T) {
	store := newFakeStore()
	store.companies[7] = CompanyProfile{ID: 7, Name: "Acme", Size: SizeSmall, Approved: true}
	store.stands = []Stand{newStand(10, "A-10")} // effective price 5000 cents

	co := NewCoordinator(store)
	extra := &Criteria{MaxBudgetCents: i64(1000)}
	report, err := co.CheckCompatibility(context.Background(), 7, 10, extra)
	require.NoError(t, err)

	// A gated budget factor fails the pair outright, so the report
	// lands in the rejection bucket regardless of the other factors.
	assert.False(t, report.Result.Compatible)
	assert.Equal(t, 63, report.Result.Score)
	assert.Equal(t, RecommendationNotRecommended, report.Recommendation)
}

func TestCheckCompatibilityUnknownCompany(t *testing.T) {
	store := newFakeStore()
	store.stands = []Stand{newStand(10, "A-10")}

	co := NewCoordinator(store)
	_, err := co.CheckCompatibility(context.Background(), 404, 10, nil)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestBestCandidatesRankingAndLimit(t *testing.T) {
	store := newFakeStore()
	store.companies[7] = CompanyProfile{ID: 7, Name: "Acme", Size: SizeLarge, Approved: true}

	plain := newStand(10, "A-10")
	premium := newStand(11, "V-1")
	premium.Premium = true // scores higher for a large company
	twin := newStand(12, "A-12")
	store.stands = []Stand{plain, premium, twin}

	co := NewCoordinator(store)
	candidates, err := co.BestCandidates(context.Background(), 7, 1, 10, nil)
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, uint64(11), candidates[0].StandID)
	// Identical scores tie-break by ascending stand id.
	assert.Equal(t, uint64(10), candidates[1].StandID)
	assert.Equal(t, uint64(12), candidates[2].StandID)

	top, err := co.BestCandidates(context.Background(), 7, 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, uint64(11), top[0].StandID)
	assert.Equal(t, CandidateHighlyRecommended, top[0].Recommendation)
}

func TestBestCandidatesMissingEvent(t *testing.T) {
	store := newFakeStore()
	store.companies[7] = CompanyProfile{ID: 7, Name: "Acme"}

	co := NewCoordinator(store)
	_, err := co.BestCandidates(context.Background(), 7, 55, 5, nil)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}
