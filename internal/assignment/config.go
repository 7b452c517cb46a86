package assignment

// Algorithm names the ordering strategy applied to eligible
// requests before the greedy matching pass.
type Algorithm string

const (
	// AlgorithmPriorityScore orders by descending priority score,
	// breaking ties by ascending submission time.
	AlgorithmPriorityScore Algorithm = "priority_score"
	// AlgorithmFirstComeFirstServed orders by ascending submission
	// time only.
	AlgorithmFirstComeFirstServed Algorithm = "first_come_first_served"
	// AlgorithmMixed orders by 0.7*priority + 0.3*(N - original
	// position), descending.  The recency term rewards earlier
	// discovery order, not wall-clock time; see OrderRequests.
	AlgorithmMixed Algorithm = "mixed"
)

// RunConfig is the full set of options accepted by a run.  All
// options are independently toggleable; DefaultRunConfig returns
// the documented defaults.
type RunConfig struct {
	Algorithm Algorithm `json:"algorithm"`
	// IncludeAutomaticRequests includes requests flagged for
	// automatic matching.  Manual-mode requests are always in scope;
	// turning this off restricts a run to manual-mode requests only.
	IncludeAutomaticRequests bool `json:"include_automatic_requests"`
	// IncludePendingRequests widens eligibility from {approved} to
	// {requested, under_review, approved}.
	IncludePendingRequests bool `json:"include_pending_requests"`
	// RespectPreferences tries a request's explicitly requested
	// stand before scanning the rest of the pool.
	RespectPreferences bool `json:"respect_preferences"`
	// OptimizeOccupancy is reserved for future use and currently has
	// no computational effect.
	OptimizeOccupancy bool `json:"optimize_occupancy"`
	// AllowReassignment is reserved for future use and currently not
	// implemented.
	AllowReassignment bool `json:"allow_reassignment"`
}

// DefaultRunConfig returns the documented option defaults.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Algorithm:                AlgorithmPriorityScore,
		IncludeAutomaticRequests: true,
		IncludePendingRequests:   true,
		RespectPreferences:       true,
		OptimizeOccupancy:        true,
		AllowReassignment:        false,
	}
}

// Validate rejects unknown algorithm names before any work begins.
func (c RunConfig) Validate() error {
	switch c.Algorithm {
	case AlgorithmPriorityScore, AlgorithmFirstComeFirstServed, AlgorithmMixed:
		return nil
	default:
		return ValidationError("unknown algorithm %q", string(c.Algorithm))
	}
}

// EligibleStatuses returns the request status set selected by this
// configuration.
func (c RunConfig) EligibleStatuses() []RequestStatus {
	if c.IncludePendingRequests {
		return []RequestStatus{StatusRequested, StatusUnderReview, StatusApproved}
	}
	return []RequestStatus{StatusApproved}
}
