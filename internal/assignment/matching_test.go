package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchNeverAssignsAStandTwice(t *testing.T) {
	stands := []Stand{newStand(10, "A-10"), newStand(11, "A-11"), newStand(12, "A-12")}
	requests := make([]Request, 0, 6)
	for i := uint64(1); i <= 6; i++ {
		requests = append(requests, newRequest(i, i, float64(10-i), int(i)))
	}

	res := Match(OrderRequests(requests, AlgorithmPriorityScore), stands, DefaultRunConfig())

	assert.Len(t, res.Assignments, 3)
	assert.Len(t, res.Unresolved, 3)
	seen := map[uint64]bool{}
	for _, a := range res.Assignments {
		require.False(t, seen[a.Stand.ID], "stand %d assigned twice", a.Stand.ID)
		seen[a.Stand.ID] = true
	}
}

func TestMatchHigherPriorityWinsTheContestedStand(t *testing.T) {
	stands := []Stand{newStand(10, "A-10")}
	low := newRequest(1, 1, 2, 0)
	low.RequestedStandID = u64(10)
	high := newRequest(2, 2, 8, 5)
	high.RequestedStandID = u64(10)

	ordered := OrderRequests([]Request{low, high}, AlgorithmPriorityScore)
	res := Match(ordered, stands, DefaultRunConfig())

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(2), res.Assignments[0].Request.ID)
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, uint64(1), res.Unresolved[0].ID)
}

func TestMatchPrefersRequestedStand(t *testing.T) {
	// The requested stand scores lower than the alternative, but
	// preferences short-circuit the pool scan.
	requested := newStand(10, "A-10")
	better := newStand(11, "V-1")
	better.Premium = true

	req := newRequest(1, 1, 5, 0)
	req.CompanySize = SizeLarge // premium stand would score 95 on type
	req.RequestedStandID = u64(10)

	res := Match([]Request{req}, []Stand{requested, better}, DefaultRunConfig())

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(10), res.Assignments[0].Stand.ID)
}

func TestMatchIgnoresPreferenceWhenDisabled(t *testing.T) {
	requested := newStand(10, "A-10")
	better := newStand(11, "V-1")
	better.Premium = true

	req := newRequest(1, 1, 5, 0)
	req.CompanySize = SizeLarge
	req.RequestedStandID = u64(10)

	cfg := DefaultRunConfig()
	cfg.RespectPreferences = false
	res := Match([]Request{req}, []Stand{requested, better}, cfg)

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(11), res.Assignments[0].Stand.ID)
}

func TestMatchFallsBackWhenRequestedStandIncompatible(t *testing.T) {
	tooSmall := newStand(10, "A-10")
	tooSmall.AreaM2 = 20
	fitting := newStand(11, "A-11")
	fitting.AreaM2 = 80

	req := newRequest(1, 1, 5, 0)
	req.RequestedStandID = u64(10)
	req.Criteria.MinAreaM2 = f64(50)

	res := Match([]Request{req}, []Stand{tooSmall, fitting}, DefaultRunConfig())

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(11), res.Assignments[0].Stand.ID)
}

func TestMatchBestCandidateTieBreaksByPoolOrder(t *testing.T) {
	first := newStand(10, "A-10")
	second := newStand(11, "A-11") // identical, later in pool order

	res := Match([]Request{newRequest(1, 1, 5, 0)}, []Stand{first, second}, DefaultRunConfig())

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(10), res.Assignments[0].Stand.ID)
}

func TestMatchPlentifulPoolServesEveryoneWithoutConflicts(t *testing.T) {
	// Two differently sized stands, both inside every request's area
	// bounds.  With as many compatible stands as requests the run
	// resolves fully and detection finds nothing to report.
	small := newStand(10, "A-10")
	small.AreaM2 = 20
	large := newStand(11, "A-11")
	large.AreaM2 = 50

	urgent := newRequest(1, 1, 90, 0)
	urgent.Criteria.MinAreaM2 = f64(15)
	urgent.Criteria.MaxAreaM2 = f64(60)
	casual := newRequest(2, 2, 10, 5)
	casual.Criteria.MinAreaM2 = f64(15)
	casual.Criteria.MaxAreaM2 = f64(60)

	ordered := OrderRequests([]Request{casual, urgent}, AlgorithmPriorityScore)
	res := Match(ordered, []Stand{small, large}, DefaultRunConfig())

	require.Len(t, res.Assignments, 2)
	assert.Equal(t, uint64(1), res.Assignments[0].Request.ID, "priority 90 is served first")
	assert.Equal(t, uint64(2), res.Assignments[1].Request.ID)
	assert.Empty(t, res.Unresolved)
	assert.Empty(t, DetectConflicts(1, res.PotentialConflicts))
}

func TestMatchGroupsUnresolvedByRequestedStand(t *testing.T) {
	stands := []Stand{newStand(10, "A-10")}
	requests := make([]Request, 0, 4)
	for i := uint64(1); i <= 4; i++ {
		r := newRequest(i, i, float64(10-i), int(i))
		r.RequestedStandID = u64(10)
		requests = append(requests, r)
	}

	res := Match(OrderRequests(requests, AlgorithmPriorityScore), stands, DefaultRunConfig())

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, uint64(1), res.Assignments[0].Request.ID)
	require.Len(t, res.Unresolved, 3)
	group := res.PotentialConflicts[10]
	assert.Len(t, group, 3)
}

func TestMatchNoConflictGroupForUnknownStand(t *testing.T) {
	// The requested stand is not part of the candidate pool, so the
	// unresolved request cannot contend for it.
	req := newRequest(1, 1, 5, 0)
	req.RequestedStandID = u64(99)
	req.Criteria.MinAreaM2 = f64(500) // nothing in the pool fits

	res := Match([]Request{req}, []Stand{newStand(10, "A-10")}, DefaultRunConfig())

	assert.Empty(t, res.Assignments)
	require.Len(t, res.Unresolved, 1)
	assert.Empty(t, res.PotentialConflicts)
}
