// Package queue defines message payloads exchanged over the message broker.
package queue

// AssignmentRunCompletedEvent is published when a real assignment
// run commits.  It carries enough information for downstream
// consumers to log, notify exhibitors or feed analytics without
// querying the primary database.  Simulations never publish.
type AssignmentRunCompletedEvent struct {
	EventID           uint64 `json:"event_id"`
	EventName         string `json:"event_name"`
	ActorID           uint64 `json:"actor_id"`
	Algorithm         string `json:"algorithm"`
	AssignmentsMade   int    `json:"assignments_made"`
	RequestsProcessed int    `json:"requests_processed"`
	ConflictsDetected int    `json:"conflicts_detected"`
	AvailableStands   int    `json:"available_stands"`
	CompletedAt       string `json:"completed_at"`
}
