package model

import "time"

// AssignmentRequest records one exhibitor's ask for a stand at one
// event, as stored in the `assignment_requests` table.  Matching
// criteria are stored as a JSON document in the criteria column and
// decoded by the repository layer.
//
// The assigned stand reference is non-null exactly when the status
// is "assigned".  A request is eligible for the automatic engine
// only while its status is requested, under_review or approved and
// no stand has been assigned yet.  The engine never deletes
// requests; rejection and withdrawal are handled by the manual
// review flows.
//
// Fields:
//  ID               - primary key identifier.
//  CompanyID        - company that submitted the request.
//  EventID          - event the stand is requested for.
//  RequestedStandID - optional explicitly requested stand.
//  AssignedStandID  - stand assigned by the engine or a reviewer.
//  Status           - requested, under_review, approved, assigned, rejected.
//  AssignmentMode   - automatic or manual.
//  PriorityScore    - priority snapshot taken at submission time.
//  Criteria         - raw JSON matching criteria document.
//  SubmittedAt      - submission timestamp (orders first-come-first-served).
//  UpdatedAt        - last update timestamp.
type AssignmentRequest struct {
	ID               uint64    // assignment_requests.id
	CompanyID        uint64    // assignment_requests.company_id
	EventID          uint64    // assignment_requests.event_id
	RequestedStandID *uint64   // assignment_requests.requested_stand_id (nullable)
	AssignedStandID  *uint64   // assignment_requests.assigned_stand_id (nullable)
	Status           string    // assignment_requests.status
	AssignmentMode   string    // assignment_requests.assignment_mode
	PriorityScore    float64   // assignment_requests.priority_score
	Criteria         string    // assignment_requests.criteria (JSON)
	SubmittedAt      time.Time // assignment_requests.submitted_at
	UpdatedAt        time.Time // assignment_requests.updated_at
}
