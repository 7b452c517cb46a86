package assignment

import "time"

// Shared builders for the engine tests.  The defaults produce a
// fully neutral pair: every factor lands on its baseline and the
// overall score is 73.

var testEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newStand(id uint64, number string) Stand {
	return Stand{
		ID:                 id,
		Number:             number,
		AreaM2:             50,
		TypeName:           "standard",
		TypeBasePriceCents: 100,
		Premium:            false,
		Location:           "Hall A - North",
		Services:           []string{"power", "wifi"},
	}
}

func newRequest(id, companyID uint64, priority float64, submittedOffsetMin int) Request {
	return Request{
		ID:            id,
		CompanyID:     companyID,
		CompanyName:   "Company " + string(rune('A'+id%26)),
		CompanySize:   SizeSmall,
		EventID:       1,
		Status:        StatusApproved,
		Mode:          ModeAutomatic,
		PriorityScore: priority,
		SubmittedAt:   testEpoch.Add(time.Duration(submittedOffsetMin) * time.Minute),
	}
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func u64(v uint64) *uint64   { return &v }
