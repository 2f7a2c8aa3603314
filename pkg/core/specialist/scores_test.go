package specialist

import (
	"math"
	"testing"

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

func TestFundamentalNeutralWhenMissing(t *testing.T) {
	s := Fundamental(bundleWith())
	if s.Value != neutralScore {
		t.Errorf("Expected neutral score %.1f, got %.1f", neutralScore, s.Value)
	}
	if s.Domain != DomainFundamental {
		t.Errorf("Expected fundamental domain, got %s", s.Domain)
	}
}

func TestFundamentalStrongMetrics(t *testing.T) {
	s := Fundamental(bundleWith(signal.Fundamentals{
		ProfitMargin:  20,
		RevenueGrowth: 25,
		EPS:           3.5,
		PERatio:       28,
		DebtToEquity:  0.8,
	}))
	// 5 + 1 (margin) + 1 (growth) + 0.5 (EPS)
	if s.Value != 7.5 {
		t.Errorf("Expected score 7.5, got %.1f", s.Value)
	}
}

func TestFundamentalStretchedValuation(t *testing.T) {
	s := Fundamental(bundleWith(signal.Fundamentals{
		ProfitMargin: 5,
		EPS:          -1,
		PERatio:      80,
		DebtToEquity: 3,
	}))
	// 5 - 1 (P/E) - 0.5 (debt)
	if s.Value != 3.5 {
		t.Errorf("Expected score 3.5, got %.1f", s.Value)
	}
}

func TestTechnicalMomentum(t *testing.T) {
	up := Technical(bundleWith(signal.PriceQuote{
		Price:        110,
		RecentCloses: []float64{100, 102, 105, 108, 110},
	}))
	if up.Value <= neutralScore {
		t.Errorf("Rising closes should score above neutral, got %.1f", up.Value)
	}

	down := Technical(bundleWith(signal.PriceQuote{
		Price:        90,
		RecentCloses: []float64{110, 105, 100, 95, 90},
	}))
	if down.Value >= neutralScore {
		t.Errorf("Falling closes should score below neutral, got %.1f", down.Value)
	}

	flat := Technical(bundleWith(signal.PriceQuote{Price: 100}))
	if flat.Value != neutralScore {
		t.Errorf("Missing close history should be neutral, got %.1f", flat.Value)
	}
}

func TestSentimentSkew(t *testing.T) {
	bullish := Sentiment(bundleWith(
		signal.SentimentReading{Source: "forum", Score: 0.9, Label: "very bullish", MentionVolume: 40},
		signal.InstitutionalFlow{ActivityLevel: signal.FlowStrongBuying},
	))
	// 5 + (0.9-0.5)*4 + 2
	if math.Abs(bullish.Value-8.6) > 1e-9 {
		t.Errorf("Expected score 8.6, got %.2f", bullish.Value)
	}

	bearish := Sentiment(bundleWith(
		signal.SentimentReading{Source: "microblog", Score: 0.1, Label: "very bearish", MentionVolume: 25},
		signal.InstitutionalFlow{ActivityLevel: signal.FlowStrongSelling},
	))
	// 5 - 1.6 - 2
	if math.Abs(bearish.Value-1.4) > 1e-9 {
		t.Errorf("Expected score 1.4, got %.2f", bearish.Value)
	}

	empty := Sentiment(bundleWith())
	if empty.Value != neutralScore {
		t.Errorf("No sentiment inputs should be neutral, got %.1f", empty.Value)
	}
}

func TestScoreAllFixedOrder(t *testing.T) {
	scores := ScoreAll(bundleWith(signal.Fundamentals{ProfitMargin: 20}))
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	want := []Domain{DomainFundamental, DomainTechnical, DomainSentiment}
	for i, d := range want {
		if scores[i].Domain != d {
			t.Errorf("Expected domain %s at index %d, got %s", d, i, scores[i].Domain)
		}
	}
}

func TestReturnDispersion(t *testing.T) {
	if d := ReturnDispersion([]float64{100}); d != 0 {
		t.Errorf("Single close should have zero dispersion, got %.2f", d)
	}
	if d := ReturnDispersion([]float64{100, 100, 100}); d != 0 {
		t.Errorf("Flat closes should have zero dispersion, got %.2f", d)
	}
	volatile := ReturnDispersion([]float64{100, 110, 95, 112, 90})
	calm := ReturnDispersion([]float64{100, 101, 100, 101, 100})
	if volatile <= calm {
		t.Errorf("Volatile series (%.2f) should exceed calm series (%.2f)", volatile, calm)
	}
}
