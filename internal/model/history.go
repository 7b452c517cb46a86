package model

import "time"

// AssignmentHistory is an immutable audit record written by the
// assignment engine.  A row is either the aggregate outcome of a
// run (kind "run_completed") or one successful assignment (kind
// "stand_assigned") with the configuration and scoring factors
// used.  Rows are append-only; the engine never updates or deletes
// them.
//
// Fields:
//  ID         - primary key identifier.
//  EventID    - event the run was executed for.
//  Kind       - run_completed or stand_assigned.
//  RequestID  - request involved (null for run_completed rows).
//  StandID    - stand involved (null for run_completed rows).
//  ActorID    - user that triggered the run.
//  OriginIP   - origin address passed through from the request.
//  UserAgent  - agent string passed through from the request.
//  Details    - JSON snapshot (configuration, counts or factors).
//  RecordedAt - creation timestamp.
type AssignmentHistory struct {
	ID         uint64    // assignment_history.id
	EventID    uint64    // assignment_history.event_id
	Kind       string    // assignment_history.kind
	RequestID  *uint64   // assignment_history.request_id (nullable)
	StandID    *uint64   // assignment_history.stand_id (nullable)
	ActorID    uint64    // assignment_history.actor_id
	OriginIP   string    // assignment_history.origin_ip
	UserAgent  string    // assignment_history.user_agent
	Details    string    // assignment_history.details (JSON)
	RecordedAt time.Time // assignment_history.recorded_at
}
