package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsOf(requests []Request) []uint64 {
	ids := make([]uint64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestOrderByPriorityScore(t *testing.T) {
	input := []Request{
		newRequest(1, 1, 3, 0),
		newRequest(2, 2, 9, 30),
		newRequest(3, 3, 9, 10), // same priority as 2, submitted earlier
		newRequest(4, 4, 5, 5),
	}

	ordered := OrderRequests(input, AlgorithmPriorityScore)

	assert.Equal(t, []uint64{3, 2, 4, 1}, idsOf(ordered))
}

func TestOrderFirstComeFirstServed(t *testing.T) {
	input := []Request{
		newRequest(1, 1, 3, 40),
		newRequest(2, 2, 9, 10),
		newRequest(3, 3, 1, 20),
	}

	ordered := OrderRequests(input, AlgorithmFirstComeFirstServed)

	assert.Equal(t, []uint64{2, 3, 1}, idsOf(ordered))
}

func TestOrderMixedCombinesPriorityAndPosition(t *testing.T) {
	// composite = 0.7*priority + 0.3*(N - original index)
	//   id 1: 0.7*1.0 + 0.3*3 = 1.60
	//   id 2: 0.7*2.0 + 0.3*2 = 2.00
	//   id 3: 0.7*1.5 + 0.3*1 = 1.35
	input := []Request{
		newRequest(1, 1, 1.0, 0),
		newRequest(2, 2, 2.0, 1),
		newRequest(3, 3, 1.5, 2),
	}

	ordered := OrderRequests(input, AlgorithmMixed)
	assert.Equal(t, []uint64{2, 1, 3}, idsOf(ordered))

	// Pure priority ordering ranks id 3 ahead of id 1; the position
	// term flips them.
	byPriority := OrderRequests(input, AlgorithmPriorityScore)
	assert.Equal(t, []uint64{2, 3, 1}, idsOf(byPriority))
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	input := []Request{
		newRequest(1, 1, 1, 0),
		newRequest(2, 2, 9, 1),
	}
	before := idsOf(input)

	_ = OrderRequests(input, AlgorithmPriorityScore)
	_ = OrderRequests(input, AlgorithmFirstComeFirstServed)
	_ = OrderRequests(input, AlgorithmMixed)

	assert.Equal(t, before, idsOf(input))
}

func TestOrderIsDeterministic(t *testing.T) {
	input := []Request{
		newRequest(1, 1, 5, 0),
		newRequest(2, 2, 5, 0), // fully tied with 1
		newRequest(3, 3, 7, 2),
	}
	for _, alg := range []Algorithm{AlgorithmPriorityScore, AlgorithmFirstComeFirstServed, AlgorithmMixed} {
		first := idsOf(OrderRequests(input, alg))
		for i := 0; i < 5; i++ {
			require.Equal(t, first, idsOf(OrderRequests(input, alg)), "algorithm %s", alg)
		}
	}
}

func TestRunConfigValidation(t *testing.T) {
	cfg := DefaultRunConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, AlgorithmPriorityScore, cfg.Algorithm)

	cfg.Algorithm = "round_robin"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestEligibleStatusesFollowPendingToggle(t *testing.T) {
	cfg := DefaultRunConfig()
	assert.ElementsMatch(t,
		[]RequestStatus{StatusRequested, StatusUnderReview, StatusApproved},
		cfg.EligibleStatuses())

	cfg.IncludePendingRequests = false
	assert.Equal(t, []RequestStatus{StatusApproved}, cfg.EligibleStatuses())
}
