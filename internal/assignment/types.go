package assignment

import (
	"math"
	"time"
)

// RequestStatus enumerates the lifecycle states of an assignment
// request that the engine cares about.
type RequestStatus string

const (
	StatusRequested   RequestStatus = "requested"
	StatusUnderReview RequestStatus = "under_review"
	StatusApproved    RequestStatus = "approved"
	StatusAssigned    RequestStatus = "assigned"
)

// AssignmentMode distinguishes requests submitted for automatic
// matching from those awaiting a manual decision.
type AssignmentMode string

const (
	ModeAutomatic AssignmentMode = "automatic"
	ModeManual    AssignmentMode = "manual"
)

// CompanySize brackets used by the type/size scoring factor.
type CompanySize string

const (
	SizeMicro  CompanySize = "micro"
	SizeSmall  CompanySize = "small"
	SizeMedium CompanySize = "medium"
	SizeLarge  CompanySize = "large"
)

// Criteria holds the automatic-matching criteria attached to a
// request.  All fields are optional; unset bounds fall back to the
// documented defaults inside the scorer.
type Criteria struct {
	MinAreaM2        *float64 `json:"min_area_m2,omitempty"`
	MaxAreaM2        *float64 `json:"max_area_m2,omitempty"`
	IdealAreaM2      *float64 `json:"ideal_area_m2,omitempty"`
	PreferredType    string   `json:"preferred_type,omitempty"`
	MaxBudgetCents   *int64   `json:"max_budget_cents,omitempty"`
	RequiredServices []string `json:"required_services,omitempty"`
	AllowedLocations []string `json:"allowed_locations,omitempty"`
}

// Request is the engine's view of one eligible assignment request.
// The store joins company identity, size and zone preference into
// it so scoring and ordering never reach back into the database.
type Request struct {
	ID               uint64
	CompanyID        uint64
	CompanyName      string
	CompanySize      CompanySize
	EventID          uint64
	RequestedStandID *uint64
	Status           RequestStatus
	Mode             AssignmentMode
	PriorityScore    float64
	SubmittedAt      time.Time
	Criteria         Criteria
	PreferredZone    string
}

// Stand is the engine's view of one candidate stand, joined with
// its type so pricing and the premium flag are available locally.
type Stand struct {
	ID                 uint64
	Number             string
	AreaM2             float64
	TypeName           string
	TypeBasePriceCents int64
	Premium            bool
	Location           string
	CustomPriceCents   *int64
	Services           []string
}

// PriceCents returns the effective price of the stand: the custom
// override when set, otherwise the type base price per square
// meter multiplied by the area.
func (s Stand) PriceCents() int64 {
	if s.CustomPriceCents != nil {
		return *s.CustomPriceCents
	}
	return int64(math.Round(float64(s.TypeBasePriceCents) * s.AreaM2))
}

// CompanyProfile is the subset of company data needed to build a
// synthetic request for the standalone compatibility operations.
type CompanyProfile struct {
	ID            uint64
	Name          string
	Size          CompanySize
	Approved      bool
	PriorityScore float64
	PreferredZone string
}

// SyntheticRequest builds a request-like value from a company
// profile and optional extra criteria.  It backs the compatibility
// check and best-candidates operations, which score a company that
// has not necessarily submitted a request yet.
func SyntheticRequest(p CompanyProfile, eventID uint64, extra *Criteria) Request {
	r := Request{
		CompanyID:     p.ID,
		CompanyName:   p.Name,
		CompanySize:   p.Size,
		EventID:       eventID,
		Status:        StatusApproved,
		Mode:          ModeAutomatic,
		PriorityScore: p.PriorityScore,
		PreferredZone: p.PreferredZone,
	}
	if extra != nil {
		r.Criteria = *extra
	}
	return r
}
