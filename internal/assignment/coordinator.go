package assignment

import (
	"context"
	"log"
	"math"
	"sort"
	"time"
)

// RunState names the phases of a run.  Real runs walk idle ->
// selecting -> ordering -> matching -> persisting -> committed;
// simulations end in discarded instead of persisting.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateSelecting  RunState = "selecting"
	StateOrdering   RunState = "ordering"
	StateMatching   RunState = "matching"
	StatePersisting RunState = "persisting"
	StateCommitted  RunState = "committed"
	StateDiscarded  RunState = "discarded"
)

// History entry kinds written by the coordinator.
const (
	HistoryKindRunCompleted  = "run_completed"
	HistoryKindStandAssigned = "stand_assigned"
)

// RunMeta carries the actor identity and request metadata that is
// passed through verbatim into audit records.
type RunMeta struct {
	ActorID   uint64
	OriginIP  string
	UserAgent string
}

// AssignmentDetail is one line of the per-assignment detail list in
// a run summary.
type AssignmentDetail struct {
	RequestID   uint64 `json:"request_id"`
	CompanyName string `json:"company_name"`
	StandID     uint64 `json:"stand_id"`
	StandNumber string `json:"stand_number"`
	Score       int    `json:"score"`
}

// SkippedWrite records one item whose persistence failed and was
// skipped without aborting the run.
type SkippedWrite struct {
	RequestID uint64 `json:"request_id,omitempty"`
	StandID   uint64 `json:"stand_id,omitempty"`
	Reason    string `json:"reason"`
}

// RunSummary reports what a run did.  "Nothing to do" is a success
// with zero counts, never an error.
type RunSummary struct {
	EventID           uint64             `json:"event_id"`
	AssignmentsMade   int                `json:"assignments_made"`
	RequestsProcessed int                `json:"requests_processed"`
	ConflictsDetected int                `json:"conflicts_detected"`
	AvailableStands   int                `json:"available_stands"`
	Assignments       []AssignmentDetail `json:"assignments"`
	SkippedWrites     []SkippedWrite     `json:"skipped_writes,omitempty"`
	Config            RunConfig          `json:"config"`
}

// SimulationSummary extends the run summary with dry-run statistics.
// Simulations compute the same assignment, conflict and unresolved
// sets as a real run over the same snapshot; only persistence
// differs.
type SimulationSummary struct {
	RunSummary
	SuccessPossibleCount   int     `json:"success_possible_count"`
	PotentialConflictCount int     `json:"potential_conflict_count"`
	UnresolvedCount        int     `json:"unresolved_count"`
	SuccessPercentage      float64 `json:"success_percentage"`
}

// Recommendation buckets for the standalone compatibility check.
const (
	RecommendationRecommended    = "recommended"
	RecommendationAcceptable     = "acceptable"
	RecommendationNotRecommended = "not_recommended"
)

// Recommendation buckets for best-candidates ranking.
const (
	CandidateHighlyRecommended = "highly_recommended"
	CandidateRecommended       = "recommended"
	CandidateNotRecommended    = "not_recommended"
)

// CompatibilityReport is the output of the standalone compatibility
// check between one company and one stand.
type CompatibilityReport struct {
	CompanyID      uint64              `json:"company_id"`
	StandID        uint64              `json:"stand_id"`
	Result         CompatibilityResult `json:"result"`
	Recommendation string              `json:"recommendation"`
}

// Candidate is one ranked stand in a best-candidates response.
type Candidate struct {
	StandID        uint64 `json:"stand_id"`
	StandNumber    string `json:"stand_number"`
	Score          int    `json:"score"`
	Compatible     bool   `json:"compatible"`
	Recommendation string `json:"recommendation"`
}

// Coordinator orchestrates selection, ordering, matching and
// persistence of assignment runs against an injected Store.  It is
// logically single-threaded per run; concurrency between runs on
// the same event is serialized by the store's atomic commit
// boundary, not by the coordinator.
type Coordinator struct {
	store Store
}

// NewCoordinator returns a Coordinator bound to the given store.
func NewCoordinator(store Store) *Coordinator {
	if store == nil {
		panic("nil store passed to NewCoordinator")
	}
	return &Coordinator{store: store}
}

// Run executes a real assignment run for one event.  It fails
// fatally only when the configuration is invalid or the event does
// not exist; individual write failures are logged, skipped and
// reported in the summary.  All writes happen inside one unit of
// work that is rolled back in full on any run failure.
func (co *Coordinator) Run(ctx context.Context, eventID uint64, cfg RunConfig, meta RunMeta) (*RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	uow, err := co.store.Begin(ctx)
	if err != nil {
		return nil, RunError("begin unit of work", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	requests, stands, err := co.selectEligible(ctx, uow, eventID, cfg)
	if err != nil {
		return nil, err
	}

	ordered := OrderRequests(requests, cfg.Algorithm)
	matched := Match(ordered, stands, cfg)
	conflicts := DetectConflicts(eventID, matched.PotentialConflicts)

	summary := buildSummary(eventID, cfg, len(ordered), len(stands), matched, conflicts)
	log.Printf("assignment run event=%d state=%s matched=%d unresolved=%d conflicts=%d",
		eventID, StatePersisting, len(matched.Assignments), len(matched.Unresolved), len(conflicts))

	// persisting: each assignment and conflict write is attempted
	// independently; a failure removes that item from the summary
	// but never stops the others.
	kept := summary.Assignments[:0]
	for _, a := range matched.Assignments {
		if err := uow.RecordAssignment(ctx, a); err != nil {
			perr := PersistenceError("assignment", a.Request.ID, err)
			log.Printf("assignment run event=%d: skipping request %d stand %d: %v", eventID, a.Request.ID, a.Stand.ID, perr)
			summary.SkippedWrites = append(summary.SkippedWrites, SkippedWrite{RequestID: a.Request.ID, StandID: a.Stand.ID, Reason: perr.Error()})
			continue
		}
		if err := uow.AppendHistory(ctx, assignmentHistory(a, cfg, meta)); err != nil {
			return nil, RunError("append assignment history", err)
		}
		kept = append(kept, AssignmentDetail{
			RequestID:   a.Request.ID,
			CompanyName: a.Request.CompanyName,
			StandID:     a.Stand.ID,
			StandNumber: a.Stand.Number,
			Score:       a.Result.Score,
		})
	}
	summary.Assignments = kept
	summary.AssignmentsMade = len(kept)

	persisted := 0
	for _, c := range conflicts {
		if err := uow.RecordConflict(ctx, c); err != nil {
			perr := PersistenceError("conflict", c.StandID, err)
			log.Printf("assignment run event=%d: skipping conflict on stand %d: %v", eventID, c.StandID, perr)
			summary.SkippedWrites = append(summary.SkippedWrites, SkippedWrite{StandID: c.StandID, Reason: perr.Error()})
			continue
		}
		persisted++
	}
	summary.ConflictsDetected = persisted

	// The aggregate audit record always lands once the run reaches
	// persisting; failing to write it fails the run.
	if err := uow.AppendHistory(ctx, runHistory(eventID, cfg, meta, summary)); err != nil {
		return nil, RunError("append run history", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, RunError("commit unit of work", err)
	}
	committed = true
	log.Printf("assignment run event=%d state=%s assignments=%d", eventID, StateCommitted, summary.AssignmentsMade)
	return summary, nil
}

// Simulate executes selection, ordering and matching identically to
// a real run, computes the same summary statistics, and then
// unconditionally discards every write.  Running it twice without
// an intervening state change yields identical summaries.
func (co *Coordinator) Simulate(ctx context.Context, eventID uint64, cfg RunConfig, meta RunMeta) (*SimulationSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	uow, err := co.store.Begin(ctx)
	if err != nil {
		return nil, RunError("begin unit of work", err)
	}
	// Discard on every exit path, success included.
	defer func() { _ = uow.Rollback() }()

	requests, stands, err := co.selectEligible(ctx, uow, eventID, cfg)
	if err != nil {
		return nil, err
	}

	ordered := OrderRequests(requests, cfg.Algorithm)
	matched := Match(ordered, stands, cfg)
	conflicts := DetectConflicts(eventID, matched.PotentialConflicts)

	summary := buildSummary(eventID, cfg, len(ordered), len(stands), matched, conflicts)
	sim := &SimulationSummary{
		RunSummary:             *summary,
		SuccessPossibleCount:   len(matched.Assignments),
		PotentialConflictCount: len(conflicts),
		UnresolvedCount:        len(matched.Unresolved),
	}
	if len(ordered) > 0 {
		pct := float64(len(matched.Assignments)) / float64(len(ordered)) * 100
		sim.SuccessPercentage = math.Round(pct*100) / 100
	}
	log.Printf("assignment simulation event=%d state=%s possible=%d unresolved=%d", eventID, StateDiscarded, sim.SuccessPossibleCount, sim.UnresolvedCount)
	return sim, nil
}

// CheckCompatibility scores one company against one stand using a
// synthetic request built from the company profile plus optional
// extra criteria.
func (co *Coordinator) CheckCompatibility(ctx context.Context, companyID, standID uint64, extra *Criteria) (*CompatibilityReport, error) {
	uow, err := co.store.Begin(ctx)
	if err != nil {
		return nil, RunError("begin unit of work", err)
	}
	defer func() { _ = uow.Rollback() }()

	profile, err := uow.CompanyProfile(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stand, err := uow.StandByID(ctx, standID)
	if err != nil {
		return nil, err
	}
	result := ScoreCompatibility(SyntheticRequest(profile, 0, extra), stand)
	report := &CompatibilityReport{
		CompanyID: companyID,
		StandID:   standID,
		Result:    result,
	}
	switch {
	case result.Score >= 70 && result.Compatible:
		report.Recommendation = RecommendationRecommended
	case result.Score >= 50 && result.Compatible:
		report.Recommendation = RecommendationAcceptable
	default:
		report.Recommendation = RecommendationNotRecommended
	}
	return report, nil
}

// BestCandidates scores a synthetic request for the company against
// every currently available stand of the event and returns the
// top-N by score.  Ties resolve by ascending stand id so the
// ranking is deterministic.
func (co *Coordinator) BestCandidates(ctx context.Context, companyID, eventID uint64, limit int, extra *Criteria) ([]Candidate, error) {
	uow, err := co.store.Begin(ctx)
	if err != nil {
		return nil, RunError("begin unit of work", err)
	}
	defer func() { _ = uow.Rollback() }()

	exists, err := uow.EventExists(ctx, eventID)
	if err != nil {
		return nil, RunError("check event", err)
	}
	if !exists {
		return nil, NotFoundError("event", eventID)
	}
	profile, err := uow.CompanyProfile(ctx, companyID)
	if err != nil {
		return nil, err
	}
	stands, err := uow.CandidateStands(ctx, eventID)
	if err != nil {
		return nil, RunError("load candidate stands", err)
	}

	req := SyntheticRequest(profile, eventID, extra)
	candidates := make([]Candidate, 0, len(stands))
	for _, stand := range stands {
		res := ScoreCompatibility(req, stand)
		c := Candidate{
			StandID:     stand.ID,
			StandNumber: stand.Number,
			Score:       res.Score,
			Compatible:  res.Compatible,
		}
		switch {
		case res.Compatible && res.Score >= 70:
			c.Recommendation = CandidateHighlyRecommended
		case res.Compatible && res.Score >= 50:
			c.Recommendation = CandidateRecommended
		default:
			c.Recommendation = CandidateNotRecommended
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].StandID < candidates[j].StandID
	})
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// selectEligible loads the eligible requests and candidate stands
// for the event.  A missing event is fatal; empty result sets are
// not errors and produce a zero-work summary upstream.
func (co *Coordinator) selectEligible(ctx context.Context, uow UnitOfWork, eventID uint64, cfg RunConfig) ([]Request, []Stand, error) {
	exists, err := uow.EventExists(ctx, eventID)
	if err != nil {
		return nil, nil, RunError("check event", err)
	}
	if !exists {
		return nil, nil, NotFoundError("event", eventID)
	}
	filter := RequestFilter{Statuses: cfg.EligibleStatuses(), IncludeAutomatic: cfg.IncludeAutomaticRequests}
	requests, err := uow.EligibleRequests(ctx, eventID, filter)
	if err != nil {
		return nil, nil, RunError("load eligible requests", err)
	}
	stands, err := uow.CandidateStands(ctx, eventID)
	if err != nil {
		return nil, nil, RunError("load candidate stands", err)
	}
	return requests, stands, nil
}

func buildSummary(eventID uint64, cfg RunConfig, processed, available int, matched MatchResult, conflicts []Conflict) *RunSummary {
	summary := &RunSummary{
		EventID:           eventID,
		AssignmentsMade:   len(matched.Assignments),
		RequestsProcessed: processed,
		ConflictsDetected: len(conflicts),
		AvailableStands:   available,
		Assignments:       make([]AssignmentDetail, 0, len(matched.Assignments)),
		Config:            cfg,
	}
	for _, a := range matched.Assignments {
		summary.Assignments = append(summary.Assignments, AssignmentDetail{
			RequestID:   a.Request.ID,
			CompanyName: a.Request.CompanyName,
			StandID:     a.Stand.ID,
			StandNumber: a.Stand.Number,
			Score:       a.Result.Score,
		})
	}
	return summary
}

// assignmentHistory builds the audit record for one successful
// assignment, embedding the winning factor breakdown and the
// configuration used.
func assignmentHistory(a Assignment, cfg RunConfig, meta RunMeta) HistoryEntry {
	reqID := a.Request.ID
	standID := a.Stand.ID
	return HistoryEntry{
		EventID:    a.Request.EventID,
		Kind:       HistoryKindStandAssigned,
		RequestID:  &reqID,
		StandID:    &standID,
		ActorID:    meta.ActorID,
		OriginIP:   meta.OriginIP,
		UserAgent:  meta.UserAgent,
		RecordedAt: time.Now().UTC(),
		Details: map[string]any{
			"company_id":   a.Request.CompanyID,
			"company_name": a.Request.CompanyName,
			"stand_number": a.Stand.Number,
			"score":        a.Result.Score,
			"factors":      a.Result.Factors,
			"config":       cfg,
		},
	}
}

// runHistory builds the aggregate audit record for a whole run.
func runHistory(eventID uint64, cfg RunConfig, meta RunMeta, s *RunSummary) HistoryEntry {
	return HistoryEntry{
		EventID:    eventID,
		Kind:       HistoryKindRunCompleted,
		ActorID:    meta.ActorID,
		OriginIP:   meta.OriginIP,
		UserAgent:  meta.UserAgent,
		RecordedAt: time.Now().UTC(),
		Details: map[string]any{
			"assignments_made":   s.AssignmentsMade,
			"requests_processed": s.RequestsProcessed,
			"conflicts_detected": s.ConflictsDetected,
			"available_stands":   s.AvailableStands,
			"skipped_writes":     len(s.SkippedWrites),
			"config":             cfg,
		},
	}
}
