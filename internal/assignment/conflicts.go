package assignment

import "sort"

// Severity buckets a conflict by contender count.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Contender snapshots the company identity and priority of one
// competing request at detection time, so later mutation of the
// request does not rewrite historical conflict data.
type Contender struct {
	RequestID     uint64  `json:"request_id"`
	CompanyID     uint64  `json:"company_id"`
	CompanyName   string  `json:"company_name"`
	PriorityScore float64 `json:"priority_score"`
}

// Conflict records an unresolved contention among two or more
// requests for one stand.  The engine creates conflicts with
// detection method "automatic" and resolution status "detected";
// resolving them is an external workflow.
type Conflict struct {
	EventID          uint64      `json:"event_id"`
	StandID          uint64      `json:"stand_id"`
	Contenders       []Contender `json:"contenders"`
	Severity         Severity    `json:"severity"`
	DetectionMethod  string      `json:"detection_method"`
	ResolutionStatus string      `json:"resolution_status"`
}

// DetectConflicts turns the matcher's grouped potential conflicts
// into conflict records.  Only groups with at least two distinct
// requests qualify.  Output is sorted by stand id so the result is
// deterministic regardless of map iteration order.
func DetectConflicts(eventID uint64, potential map[uint64][]Request) []Conflict {
	conflicts := make([]Conflict, 0, len(potential))
	for standID, group := range potential {
		seen := make(map[uint64]bool, len(group))
		contenders := make([]Contender, 0, len(group))
		for _, req := range group {
			if seen[req.ID] {
				continue
			}
			seen[req.ID] = true
			contenders = append(contenders, Contender{
				RequestID:     req.ID,
				CompanyID:     req.CompanyID,
				CompanyName:   req.CompanyName,
				PriorityScore: req.PriorityScore,
			})
		}
		if len(contenders) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			EventID:          eventID,
			StandID:          standID,
			Contenders:       contenders,
			Severity:         severityFor(len(contenders)),
			DetectionMethod:  "automatic",
			ResolutionStatus: "detected",
		})
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].StandID < conflicts[j].StandID })
	return conflicts
}

// severityFor buckets by contender count: up to three contenders is
// medium, four or five is high, more than five is critical.
func severityFor(contenders int) Severity {
	switch {
	case contenders > 5:
		return SeverityCritical
	case contenders > 3:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
