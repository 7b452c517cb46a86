package assignment

// Assignment pairs a request with the stand it won and the scoring
// result that justified the match.
type Assignment struct {
	Request Request
	Stand   Stand
	Result  CompatibilityResult
}

// MatchResult is the outcome of one greedy matching pass.
// PotentialConflicts groups unresolved requests by the stand they
// explicitly asked for; groups with at least two contenders become
// conflict records in DetectConflicts.
type MatchResult struct {
	Assignments        []Assignment
	Unresolved         []Request
	PotentialConflicts map[uint64][]Request
}

// Match walks the ordered requests once and greedily assigns each
// to a stand.  A request's explicitly requested stand is tried
// first when the configuration honors preferences and the stand is
// still unused; otherwise every unused candidate is scored and the
// best compatible one wins.  A local used-set guarantees no stand
// is handed out twice within the run.  The pass is deterministic
// for a given ordered input and stand pool: ties on score resolve
// to the earliest stand in pool order.
func Match(ordered []Request, stands []Stand, cfg RunConfig) MatchResult {
	byID := make(map[uint64]Stand, len(stands))
	for _, s := range stands {
		byID[s.ID] = s
	}
	used := make(map[uint64]bool, len(stands))
	result := MatchResult{PotentialConflicts: make(map[uint64][]Request)}

	for _, req := range ordered {
		if cfg.RespectPreferences && req.RequestedStandID != nil {
			if stand, ok := byID[*req.RequestedStandID]; ok && !used[stand.ID] {
				if res := ScoreCompatibility(req, stand); res.Compatible {
					used[stand.ID] = true
					result.Assignments = append(result.Assignments, Assignment{Request: req, Stand: stand, Result: res})
					continue
				}
			}
		}

		best, ok := bestCandidate(req, stands, used)
		if ok {
			used[best.Stand.ID] = true
			result.Assignments = append(result.Assignments, best)
			continue
		}

		result.Unresolved = append(result.Unresolved, req)
		if req.RequestedStandID != nil {
			if _, exists := byID[*req.RequestedStandID]; exists {
				id := *req.RequestedStandID
				result.PotentialConflicts[id] = append(result.PotentialConflicts[id], req)
			}
		}
	}
	return result
}

// bestCandidate scores the request against every unused stand and
// returns the highest-scoring compatible one, if any.
func bestCandidate(req Request, stands []Stand, used map[uint64]bool) (Assignment, bool) {
	var best Assignment
	found := false
	for _, stand := range stands {
		if used[stand.ID] {
			continue
		}
		res := ScoreCompatibility(req, stand)
		if !res.Compatible {
			continue
		}
		if !found || res.Score > best.Result.Score {
			best = Assignment{Request: req, Stand: stand, Result: res}
			found = true
		}
	}
	return best, found
}
