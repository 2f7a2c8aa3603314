package risk

import (
	"testing"

	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/signal"
)

func bundleWith(results ...signal.Result) *signal.Bundle {
	b := &signal.Bundle{Subject: "NVDA", Entries: make(map[string]signal.Entry)}
	for _, r := range results {
		name := string(r.Capability())
		b.Entries[name] = signal.Entry{Provider: name, Capability: r.Capability(), Result: r}
	}
	return b
}

func TestValuationRiskGrades(t *testing.T) {
	cases := []struct {
		pe   float64
		want Level
	}{
		{302, LevelExtreme},
		{60, LevelHigh},
		{35, LevelHigh},
		{20, LevelMedium},
		{12, LevelLow},
	}
	for _, c := range cases {
		b := bundleWith(signal.Fundamentals{PERatio: c.pe})
		p := Assess(b, debate.Verdict{Confidence: 80}, DefaultThresholds)
		if p.Valuation != c.want {
			t.Errorf("P/E %.0f: expected %s valuation risk, got %s", c.pe, c.want, p.Valuation)
		}
	}
}

func TestValuationRiskMissingInputs(t *testing.T) {
	p := Assess(bundleWith(), debate.Verdict{Confidence: 80}, DefaultThresholds)
	if p.Valuation != LevelMedium {
		t.Errorf("Missing fundamentals should grade medium, got %s", p.Valuation)
	}

	negative := bundleWith(signal.Fundamentals{PERatio: -12})
	if p := Assess(negative, debate.Verdict{Confidence: 80}, DefaultThresholds); p.Valuation != LevelMedium {
		t.Errorf("Negative P/E should grade medium, got %s", p.Valuation)
	}
}

func TestVolatilityRiskFromDispersion(t *testing.T) {
	calm := bundleWith(signal.PriceQuote{
		Price:        101,
		RecentCloses: []float64{100, 100.5, 101, 100.8, 101.2},
	})
	if p := Assess(calm, debate.Verdict{Confidence: 80}, DefaultThresholds); p.Volatility != LevelLow {
		t.Errorf("Calm closes should grade low volatility risk, got %s", p.Volatility)
	}

	wild := bundleWith(signal.PriceQuote{
		Price:        90,
		RecentCloses: []float64{100, 115, 88, 112, 85},
	})
	if p := Assess(wild, debate.Verdict{Confidence: 80}, DefaultThresholds); p.Volatility != LevelExtreme {
		t.Errorf("Wild closes should grade extreme volatility risk, got %s", p.Volatility)
	}

	if p := Assess(bundleWith(), debate.Verdict{Confidence: 80}, DefaultThresholds); p.Volatility != LevelMedium {
		t.Errorf("Missing history should grade medium, got %s", p.Volatility)
	}
}

func TestExposureRiskFromConfidence(t *testing.T) {
	b := bundleWith()
	cases := []struct {
		confidence int
		want       Level
	}{
		{95, LevelLow},
		{70, LevelLow},
		{55, LevelMedium},
		{40, LevelMedium},
		{20, LevelHigh},
	}
	for _, c := range cases {
		p := Assess(b, debate.Verdict{Confidence: c.confidence}, DefaultThresholds)
		if p.Exposure != c.want {
			t.Errorf("Confidence %d: expected %s exposure risk, got %s", c.confidence, c.want, p.Exposure)
		}
	}
}

func TestAssessIsPure(t *testing.T) {
	b := bundleWith(
		signal.Fundamentals{PERatio: 302},
		signal.PriceQuote{Price: 100, RecentCloses: []float64{100, 101, 100.5, 101.5}},
	)
	v := debate.Verdict{Winner: debate.RoleProponent, Confidence: 87}

	first := Assess(b, v, DefaultThresholds)
	second := Assess(b, v, DefaultThresholds)
	if first != second {
		t.Errorf("Assess is not deterministic: %+v vs %+v", first, second)
	}
	if first.Valuation != LevelExtreme || first.Volatility != LevelLow || first.Exposure != LevelLow {
		t.Errorf("Unexpected profile: %+v", first)
	}
}
