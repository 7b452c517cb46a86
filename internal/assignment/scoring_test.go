package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factorByName(t *testing.T, res CompatibilityResult, name string) Factor {
	t.Helper()
	for _, f := range res.Factors {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("factor %q not present", name)
	return Factor{}
}

func TestScoreCompatibilityNeutralBaseline(t *testing.T) {
	res := ScoreCompatibility(newRequest(1, 1, 5, 0), newStand(10, "A-10"))

	require.True(t, res.Compatible)
	assert.Equal(t, 73, res.Score)
	assert.Len(t, res.Factors, 5)
	for _, f := range res.Factors {
		assert.True(t, f.Compatible, "factor %s", f.Name)
	}
}

func TestScoreCompatibilityIsPure(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria = Criteria{
		IdealAreaM2:      f64(60),
		PreferredType:    "standard",
		MaxBudgetCents:   i64(10000),
		RequiredServices: []string{"power"},
	}
	stand := newStand(10, "A-10")

	first := ScoreCompatibility(req, stand)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreCompatibility(req, stand))
	}
}

func TestAreaOutsideRangeGates(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.MinAreaM2 = f64(100)

	res := ScoreCompatibility(req, newStand(10, "A-10")) // 50 m2

	require.False(t, res.Compatible)
	area := factorByName(t, res, "area")
	assert.False(t, area.Compatible)
	assert.Zero(t, area.Score)
}

func TestAreaIdealClosenessScoring(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.IdealAreaM2 = f64(100)
	stand := newStand(10, "A-10")
	stand.AreaM2 = 90

	res := ScoreCompatibility(req, stand)

	require.True(t, res.Compatible)
	assert.InDelta(t, 90, factorByName(t, res, "area").Score, 1e-9)
	assert.Equal(t, 76, res.Score)
}

func TestTypePremiumBySize(t *testing.T) {
	stand := newStand(10, "A-10")
	stand.Premium = true

	large := newRequest(1, 1, 5, 0)
	large.CompanySize = SizeLarge
	res := ScoreCompatibility(large, stand)
	assert.InDelta(t, 95, factorByName(t, res, "type").Score, 1e-9)
	assert.Equal(t, 79, res.Score)

	micro := newRequest(2, 2, 5, 0)
	micro.CompanySize = SizeMicro
	res = ScoreCompatibility(micro, stand)
	assert.InDelta(t, 50, factorByName(t, res, "type").Score, 1e-9)
	assert.Equal(t, 68, res.Score)

	// Medium companies take the neutral base on premium stands.
	medium := newRequest(3, 3, 5, 0)
	medium.CompanySize = SizeMedium
	res = ScoreCompatibility(medium, stand)
	assert.InDelta(t, 70, factorByName(t, res, "type").Score, 1e-9)
}

func TestTypePreferredMatchBonusIsCapped(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.PreferredType = "Standard" // case-insensitive match
	res := ScoreCompatibility(req, newStand(10, "A-10"))
	assert.InDelta(t, 90, factorByName(t, res, "type").Score, 1e-9)
	assert.Equal(t, 78, res.Score)

	// Premium + large starts at 95; the bonus cannot push past 100.
	stand := newStand(11, "V-1")
	stand.Premium = true
	stand.TypeName = "vip"
	capped := newRequest(2, 2, 5, 0)
	capped.CompanySize = SizeLarge
	capped.Criteria.PreferredType = "VIP"
	res = ScoreCompatibility(capped, stand)
	assert.InDelta(t, 100, factorByName(t, res, "type").Score, 1e-9)
	assert.Equal(t, 81, res.Score)
}

func TestLocationPreferredZoneBonus(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.PreferredZone = "north"

	res := ScoreCompatibility(req, newStand(10, "A-10")) // "Hall A - North"

	require.True(t, res.Compatible)
	assert.InDelta(t, 90, factorByName(t, res, "location").Score, 1e-9)
	assert.Equal(t, 77, res.Score)
}

func TestLocationAllowListGates(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.AllowedLocations = []string{"east", "south"}

	res := ScoreCompatibility(req, newStand(10, "A-10"))

	require.False(t, res.Compatible)
	loc := factorByName(t, res, "location")
	assert.False(t, loc.Compatible)
	assert.Zero(t, loc.Score)
	assert.Equal(t, 59, res.Score)
}

func TestBudgetGateOnPrice(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.MaxBudgetCents = i64(4000) // stand price = 100 * 50 = 5000

	res := ScoreCompatibility(req, newStand(10, "A-10"))

	require.False(t, res.Compatible)
	assert.False(t, factorByName(t, res, "budget").Compatible)
	assert.Equal(t, 63, res.Score)
}

func TestBudgetWithinScoresByHeadroom(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.MaxBudgetCents = i64(10000) // price uses exactly half

	res := ScoreCompatibility(req, newStand(10, "A-10"))

	require.True(t, res.Compatible)
	assert.InDelta(t, 50, factorByName(t, res, "budget").Score, 1e-9)
	assert.Equal(t, 70, res.Score)
}

func TestBudgetUsesCustomPriceOverride(t *testing.T) {
	stand := newStand(10, "A-10")
	stand.CustomPriceCents = i64(20000)
	require.Equal(t, int64(20000), stand.PriceCents())

	req := newRequest(1, 1, 5, 0)
	req.Criteria.MaxBudgetCents = i64(10000)

	res := ScoreCompatibility(req, stand)
	require.False(t, res.Compatible)
}

func TestServicesCoverage(t *testing.T) {
	req := newRequest(1, 1, 5, 0)
	req.Criteria.RequiredServices = []string{"power", "catering"}
	res := ScoreCompatibility(req, newStand(10, "A-10")) // has power, wifi
	require.True(t, res.Compatible)
	assert.InDelta(t, 75, factorByName(t, res, "services").Score, 1e-9)
	assert.Equal(t, 74, res.Score)

	req.Criteria.RequiredServices = []string{"catering"}
	res = ScoreCompatibility(req, newStand(10, "A-10"))
	require.True(t, res.Compatible, "missing services lower the score but never gate")
	assert.InDelta(t, 50, factorByName(t, res, "services").Score, 1e-9)
	assert.Equal(t, 71, res.Score)
}

func TestScoreStaysInRange(t *testing.T) {
	stands := []Stand{newStand(10, "A-10")}
	premium := newStand(11, "V-1")
	premium.Premium = true
	premium.AreaM2 = 200
	stands = append(stands, premium)

	reqs := []Request{newRequest(1, 1, 0, 0), newRequest(2, 2, 10, 0)}
	withCriteria := newRequest(3, 3, 5, 0)
	withCriteria.CompanySize = SizeLarge
	withCriteria.Criteria = Criteria{
		IdealAreaM2:      f64(200),
		PreferredType:    "standard",
		MaxBudgetCents:   i64(1000000),
		RequiredServices: []string{"power", "wifi"},
	}
	reqs = append(reqs, withCriteria)

	for _, r := range reqs {
		for _, s := range stands {
			res := ScoreCompatibility(r, s)
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 100)
		}
	}
}
