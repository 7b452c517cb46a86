package model

import "time"

// Company represents an exhibitor company as stored in the
// `companies` table.  Companies submit stand assignment requests
// for events; only approved companies are considered by the
// automatic assignment engine.  The priority score is recomputed
// elsewhere from participation history and snapshotted onto each
// request at submission time.
//
// Fields:
//  ID            - primary key identifier.
//  Name          - legal or trade name shown in listings.
//  Size          - company size bracket (micro, small, medium, large).
//  Status        - approval state (pending, approved, suspended).
//  PriorityScore - current priority used to rank new requests.
//  PreferredZone - free-text zone preference matched against stand locations.
//  CreatedAt     - creation timestamp.
//  UpdatedAt     - last update timestamp.
type Company struct {
	ID            uint64    // companies.id
	Name          string    // companies.name
	Size          string    // companies.size
	Status        string    // companies.status
	PriorityScore float64   // companies.priority_score
	PreferredZone string    // companies.preferred_zone
	CreatedAt     time.Time // companies.created_at
	UpdatedAt     time.Time // companies.updated_at
}
