package model

import "time"

// AssignmentConflict records that two or more requests contended
// for the same stand during an automatic run and none could be
// placed.  Contenders are snapshotted as a JSON array (company id,
// name and priority at detection time) so later mutation of a
// request does not rewrite historical conflict data.  Conflicts
// are created only by the engine; resolving them is a manual
// workflow that updates the resolution status.
//
// Fields:
//  ID               - primary key identifier.
//  EventID          - event the contention happened at.
//  StandID          - stand the requests competed for.
//  Contenders       - JSON snapshot of the competing requests.
//  Severity         - medium, high or critical by contender count.
//  DetectionMethod  - always "automatic" for engine-created rows.
//  ResolutionStatus - starts at "detected".
//  DetectedAt       - creation timestamp.
type AssignmentConflict struct {
	ID               uint64    // assignment_conflicts.id
	EventID          uint64    // assignment_conflicts.event_id
	StandID          uint64    // assignment_conflicts.stand_id
	Contenders       string    // assignment_conflicts.contenders (JSON)
	Severity         string    // assignment_conflicts.severity
	DetectionMethod  string    // assignment_conflicts.detection_method
	ResolutionStatus string    // assignment_conflicts.resolution_status
	DetectedAt       time.Time // assignment_conflicts.detected_at
}
