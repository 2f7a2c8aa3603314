package specialist

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"agentic_research/pkg/core/signal"
)

// Domain identifies one specialist discipline.
type Domain string

const (
	DomainFundamental Domain = "fundamental"
	DomainTechnical   Domain = "technical"
	DomainSentiment   Domain = "sentiment"
)

// Score is one specialist's 0-10 reading of the bundle with its rationale.
type Score struct {
	Domain    Domain  `json:"domain"`
	Value     float64 `json:"value"`
	Rationale string  `json:"rationale"`
}

// neutralScore is the contribution of a domain whose inputs are unavailable.
const neutralScore = 5.0

// Fundamental scores headline financial health. Unavailable fundamentals
// degrade to the neutral default rather than erroring.
func Fundamental(b *signal.Bundle) Score {
	fin, ok := b.Financials()
	if !ok {
		return Score{Domain: DomainFundamental, Value: neutralScore, Rationale: "fundamentals unavailable, neutral default"}
	}

	score := neutralScore
	var notes []string

	if fin.ProfitMargin > 15 {
		score++
		notes = append(notes, fmt.Sprintf("profit margin %.1f%%", fin.ProfitMargin))
	}
	if fin.RevenueGrowth > 20 {
		score++
		notes = append(notes, fmt.Sprintf("revenue growth %.1f%%", fin.RevenueGrowth))
	}
	if fin.EPS > 0 {
		score += 0.5
		notes = append(notes, "positive EPS")
	}
	if fin.PERatio > 40 {
		score--
		notes = append(notes, fmt.Sprintf("stretched P/E %.1f", fin.PERatio))
	}
	if fin.DebtToEquity > 2 {
		score -= 0.5
		notes = append(notes, fmt.Sprintf("debt/equity %.1f", fin.DebtToEquity))
	}

	if len(notes) == 0 {
		notes = append(notes, "no strong fundamental signals")
	}
	return Score{Domain: DomainFundamental, Value: clamp(score), Rationale: strings.Join(notes, ", ")}
}

// Technical scores recent price behavior: momentum over the close window,
// penalized for elevated dispersion.
func Technical(b *signal.Bundle) Score {
	quote, ok := b.Quote()
	if !ok || len(quote.RecentCloses) < 2 {
		return Score{Domain: DomainTechnical, Value: neutralScore, Rationale: "price history unavailable, neutral default"}
	}

	closes := quote.RecentCloses
	first, last := closes[0], closes[len(closes)-1]
	if first == 0 {
		return Score{Domain: DomainTechnical, Value: neutralScore, Rationale: "degenerate price history, neutral default"}
	}

	momentumPct := (last - first) / first * 100
	score := neutralScore + math.Max(-2.5, math.Min(2.5, momentumPct/4))

	dispersion := ReturnDispersion(closes)
	if dispersion > 4 {
		score -= 0.5
	}

	rationale := fmt.Sprintf("momentum %+.1f%% over %d sessions, dispersion %.1f%%", momentumPct, len(closes), dispersion)
	return Score{Domain: DomainTechnical, Value: clamp(score), Rationale: rationale}
}

// Sentiment scores social chatter and institutional positioning together.
func Sentiment(b *signal.Bundle) Score {
	score := neutralScore
	var notes []string

	for _, reading := range b.Sentiments() {
		score += (reading.Score - 0.5) * 4
		notes = append(notes, fmt.Sprintf("%s %s (%d mentions)", reading.Source, reading.Label, reading.MentionVolume))
	}

	if flow, ok := b.Flow(); ok {
		switch flow.ActivityLevel {
		case signal.FlowStrongBuying:
			score += 2
		case signal.FlowNetBuying:
			score++
		case signal.FlowNetSelling:
			score--
		case signal.FlowStrongSelling:
			score -= 2
		}
		notes = append(notes, fmt.Sprintf("institutional %s", flow.ActivityLevel))
	}

	if len(notes) == 0 {
		return Score{Domain: DomainSentiment, Value: neutralScore, Rationale: "sentiment signals unavailable, neutral default"}
	}
	return Score{Domain: DomainSentiment, Value: clamp(score), Rationale: strings.Join(notes, ", ")}
}

// ScoreAll runs the three specialists concurrently over the read-only bundle
// and returns their scores in fixed domain order.
func ScoreAll(b *signal.Bundle) []Score {
	scores := make([]Score, 3)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); scores[0] = Fundamental(b) }()
	go func() { defer wg.Done(); scores[1] = Technical(b) }()
	go func() { defer wg.Done(); scores[2] = Sentiment(b) }()
	wg.Wait()
	return scores
}

// ReturnDispersion computes the standard deviation of simple daily returns,
// in percent. Used both here and by the risk assessor.
func ReturnDispersion(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	var returns []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1]*100)
	}
	if len(returns) == 0 {
		return 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}
