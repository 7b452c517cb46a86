package assignment

import (
	"fmt"
	"math"
	"strings"
)

// Factor weights.  They sum to 1 so the overall score stays in the
// 0-100 range of the individual factors.
const (
	weightArea     = 0.30
	weightType     = 0.25
	weightLocation = 0.20
	weightBudget   = 0.15
	weightServices = 0.10
)

// Default area bounds applied when a request's criteria leave them
// unset.
const (
	defaultMinAreaM2 = 0.0
	defaultMaxAreaM2 = 1000.0
)

// Factor is the outcome of one scoring dimension for a
// (request, stand) pair.
type Factor struct {
	Name       string  `json:"name"`
	Compatible bool    `json:"compatible"`
	Score      float64 `json:"score"`
	Weight     float64 `json:"weight"`
	Label      string  `json:"label"`
}

// CompatibilityResult aggregates the five factors.  Compatible is
// the AND of every factor's flag; Score is the rounded weighted
// sum.  Results are ephemeral: they are produced per scoring call
// and only the winning breakdown is embedded in the audit trail.
type CompatibilityResult struct {
	Compatible bool     `json:"compatible"`
	Score      int      `json:"score"`
	Factors    []Factor `json:"factors"`
}

// ScoreCompatibility computes the weighted score and the hard
// compatibility gate for one (request, stand) pair.  It is a pure
// function: same inputs always produce the same result and every
// factor is order-independent.
func ScoreCompatibility(req Request, stand Stand) CompatibilityResult {
	factors := []Factor{
		areaFactor(req.Criteria, stand),
		typeFactor(req, stand),
		locationFactor(req, stand),
		budgetFactor(req.Criteria, stand),
		servicesFactor(req.Criteria, stand),
	}
	compatible := true
	weighted := 0.0
	for _, f := range factors {
		compatible = compatible && f.Compatible
		weighted += f.Score * f.Weight
	}
	return CompatibilityResult{
		Compatible: compatible,
		Score:      int(math.Round(weighted)),
		Factors:    factors,
	}
}

// areaFactor gates on the requested area bounds and scores by
// closeness to the ideal area when one is given.
func areaFactor(c Criteria, stand Stand) Factor {
	minArea := defaultMinAreaM2
	if c.MinAreaM2 != nil {
		minArea = *c.MinAreaM2
	}
	maxArea := defaultMaxAreaM2
	if c.MaxAreaM2 != nil {
		maxArea = *c.MaxAreaM2
	}
	f := Factor{Name: "area", Weight: weightArea}
	if stand.AreaM2 < minArea || stand.AreaM2 > maxArea {
		f.Label = fmt.Sprintf("area %.1fm2 outside requested range %.1f-%.1f", stand.AreaM2, minArea, maxArea)
		return f
	}
	f.Compatible = true
	if c.IdealAreaM2 != nil && *c.IdealAreaM2 > 0 {
		ideal := *c.IdealAreaM2
		f.Score = math.Max(0, 100-math.Abs(stand.AreaM2-ideal)/ideal*100)
		f.Label = fmt.Sprintf("area %.1fm2 vs ideal %.1fm2", stand.AreaM2, ideal)
	} else {
		f.Score = 80
		f.Label = fmt.Sprintf("area %.1fm2 within range", stand.AreaM2)
	}
	return f
}

// typeFactor rates how well the stand type suits the company size
// and the requested type name.  It never gates.
func typeFactor(req Request, stand Stand) Factor {
	f := Factor{Name: "type", Compatible: true, Weight: weightType, Score: 70, Label: "standard type fit"}
	if stand.Premium {
		switch req.CompanySize {
		case SizeLarge:
			f.Score = 95
			f.Label = "premium stand for large company"
		case SizeMicro:
			f.Score = 50
			f.Label = "premium stand penalized for micro company"
		}
	}
	if req.Criteria.PreferredType != "" && strings.EqualFold(req.Criteria.PreferredType, stand.TypeName) {
		f.Score = math.Min(100, f.Score+20)
		f.Label = "preferred stand type matched"
	}
	return f
}

// locationFactor rewards the preferred zone and gates on the
// explicit allow-list of locations when one is given.
func locationFactor(req Request, stand Stand) Factor {
	f := Factor{Name: "location", Compatible: true, Weight: weightLocation, Score: 70, Label: "neutral location"}
	location := strings.ToLower(stand.Location)
	if req.PreferredZone != "" && strings.Contains(location, strings.ToLower(req.PreferredZone)) {
		f.Score = 90
		f.Label = fmt.Sprintf("located in preferred zone %q", req.PreferredZone)
	}
	if len(req.Criteria.AllowedLocations) > 0 {
		allowed := false
		for _, loc := range req.Criteria.AllowedLocations {
			if strings.Contains(location, strings.ToLower(loc)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return Factor{Name: "location", Weight: weightLocation, Label: "location not in allowed list"}
		}
	}
	return f
}

// budgetFactor gates when the effective stand price exceeds the
// maximum budget and otherwise rewards cheaper stands.
func budgetFactor(c Criteria, stand Stand) Factor {
	f := Factor{Name: "budget", Compatible: true, Weight: weightBudget, Score: 70, Label: "no budget limit set"}
	if c.MaxBudgetCents == nil {
		return f
	}
	budget := *c.MaxBudgetCents
	price := stand.PriceCents()
	if budget <= 0 || price > budget {
		return Factor{
			Name:   "budget",
			Weight: weightBudget,
			Label:  fmt.Sprintf("price %d exceeds budget %d", price, budget),
		}
	}
	f.Score = math.Max(50, 100-float64(price)/float64(budget)*100)
	f.Label = fmt.Sprintf("price %d within budget %d", price, budget)
	return f
}

// servicesFactor scores the coverage of required services.  Missing
// services lower the score but never gate.
func servicesFactor(c Criteria, stand Stand) Factor {
	f := Factor{Name: "services", Compatible: true, Weight: weightServices, Score: 70, Label: "no services required"}
	if len(c.RequiredServices) == 0 {
		return f
	}
	declared := make(map[string]bool, len(stand.Services))
	for _, s := range stand.Services {
		declared[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched := 0
	for _, s := range c.RequiredServices {
		if declared[strings.ToLower(strings.TrimSpace(s))] {
			matched++
		}
	}
	if matched == 0 {
		f.Score = 50
		f.Label = "none of the required services available"
		return f
	}
	f.Score = 50 + float64(matched)/float64(len(c.RequiredServices))*50
	f.Label = fmt.Sprintf("%d of %d required services available", matched, len(c.RequiredServices))
	return f
}
