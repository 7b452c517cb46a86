package assignment

import "sort"

// OrderRequests returns a new slice with the requests ordered by
// the named strategy.  The input is never mutated and the sort is
// stable, so re-running with the same input yields an identical
// order.
//
// The mixed strategy computes 0.7*priority + 0.3*(N - original
// position) per request, where the position is the index in the
// unsorted input.  That term rewards earlier discovery order, not
// wall-clock recency; the observable ranking is preserved as-is.
// Positions are snapshotted once before sorting so the comparator
// stays constant-time and deterministic.
func OrderRequests(requests []Request, algorithm Algorithm) []Request {
	ordered := make([]Request, len(requests))
	copy(ordered, requests)

	switch algorithm {
	case AlgorithmFirstComeFirstServed:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		})
	case AlgorithmMixed:
		n := len(requests)
		composite := make(map[uint64]float64, n)
		for idx, r := range requests {
			composite[r.ID] = 0.7*r.PriorityScore + 0.3*float64(n-idx)
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return composite[ordered[i].ID] > composite[ordered[j].ID]
		})
	default: // AlgorithmPriorityScore
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].PriorityScore != ordered[j].PriorityScore {
				return ordered[i].PriorityScore > ordered[j].PriorityScore
			}
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		})
	}
	return ordered
}
