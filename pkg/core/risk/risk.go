package risk

import (
	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

// Level is a categorical risk grade.
type Level string

const (
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	LevelExtreme Level = "extreme"
)

// Profile holds the three independent risk grades for one report.
type Profile struct {
	Valuation  Level `json:"valuation_risk"`
	Volatility Level `json:"volatility_risk"`
	Exposure   Level `json:"exposure_risk"`
}

// Thresholds drives every risk grade. All cut-offs live here rather than in
// conditionals so they can be overridden per deployment.
type Thresholds struct {
	// Valuation multiple (P/E) cut-offs, highest first.
	ValuationExtreme  float64
	ValuationVeryHigh float64
	ValuationHigh     float64
	ValuationMedium   float64

	// Realized return dispersion cut-offs, in percent.
	DispersionExtreme float64
	DispersionHigh    float64
	DispersionMedium  float64

	// Verdict-confidence floors: exposure risk rises as confidence falls.
	ConfidenceComfort int // >= this: low exposure risk
	ConfidenceCaution int // >= this: medium, below: high
}

// DefaultThresholds carries the inherited cut-offs.
var DefaultThresholds = Thresholds{
	ValuationExtreme:  100,
	ValuationVeryHigh: 50,
	ValuationHigh:     30,
	ValuationMedium:   15,

	DispersionExtreme: 8,
	DispersionHigh:    4,
	DispersionMedium:  2,

	ConfidenceComfort: 70,
	ConfidenceCaution: 40,
}

// Assess grades the bundle and verdict. Pure: same inputs, same profile.
// Missing inputs degrade to Medium, the not-enough-information grade.
func Assess(b *signal.Bundle, v debate.Verdict, t Thresholds) Profile {
	return Profile{
		Valuation:  valuationRisk(b, t),
		Volatility: volatilityRisk(b, t),
		Exposure:   exposureRisk(v, t),
	}
}

func valuationRisk(b *signal.Bundle, t Thresholds) Level {
	fin, ok := b.Financials()
	if !ok || fin.PERatio <= 0 {
		return LevelMedium
	}
	multiple := fin.PERatio
	switch {
	case multiple > t.ValuationExtreme:
		return LevelExtreme
	case multiple > t.ValuationVeryHigh:
		return LevelHigh
	case multiple > t.ValuationHigh:
		return LevelHigh
	case multiple > t.ValuationMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}

func volatilityRisk(b *signal.Bundle, t Thresholds) Level {
	quote, ok := b.Quote()
	if !ok || len(quote.RecentCloses) < 2 {
		return LevelMedium
	}
	dispersion := specialist.ReturnDispersion(quote.RecentCloses)
	switch {
	case dispersion > t.DispersionExtreme:
		return LevelExtreme
	case dispersion > t.DispersionHigh:
		return LevelHigh
	case dispersion > t.DispersionMedium:
		return LevelMedium
	default:
		return LevelLow
	}
}

func exposureRisk(v debate.Verdict, t Thresholds) Level {
	switch {
	case v.Confidence >= t.ConfidenceComfort:
		return LevelLow
	case v.Confidence >= t.ConfidenceCaution:
		return LevelMedium
	default:
		return LevelHigh
	}
}
