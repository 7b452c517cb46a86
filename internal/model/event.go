package model

import "time"

// Event represents an exhibition or fair as stored in the `events`
// table.  Stands are associated to events through the
// stand_event_availability table, so the same physical stand can be
// offered at several events with independent availability.
//
// Fields:
//  ID        - primary key identifier.
//  Name      - public name of the event.
//  Venue     - venue or hall description.
//  StartsAt  - when the event opens.
//  EndsAt    - when the event closes (must be after StartsAt).
//  Status    - current state (draft, published, archived).
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type Event struct {
	ID        uint64    // events.id
	Name      string    // events.name
	Venue     string    // events.venue
	StartsAt  time.Time // events.starts_at
	EndsAt    time.Time // events.ends_at
	Status    string    // events.status
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}
