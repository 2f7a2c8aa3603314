package conviction

import (
	"math"

	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/signal"
)

// Action is the recommendation derived from a conviction score.
type Action string

const (
	ActionStrongBuy  Action = "strong_buy"
	ActionBuy        Action = "buy"
	ActionHold       Action = "hold"
	ActionSell       Action = "sell"
	ActionStrongSell Action = "strong_sell"
)

// Score is the final bounded actionability score, always in [1,10].
type Score int

// Policy holds the signal-adjustment deltas and triggering thresholds. The
// magnitudes are inherited behavior with no documented provenance, so they
// live here as named, overridable values rather than inline arithmetic.
type Policy struct {
	// Sentiment skew: any social reading above High adds SentimentDelta,
	// below Low subtracts it.
	SentimentSkewHigh float64
	SentimentSkewLow  float64
	SentimentDelta    float64

	// Institutional flow: strong aggregate buying adds FlowDelta, strong
	// selling subtracts it.
	FlowDelta float64

	// Unusual options activity: a detected bullish bias adds UnusualDelta,
	// bearish subtracts it.
	UnusualDelta float64
}

// DefaultPolicy preserves the inherited adjustment magnitudes.
var DefaultPolicy = Policy{
	SentimentSkewHigh: 0.75,
	SentimentSkewLow:  0.25,
	SentimentDelta:    1,
	FlowDelta:         1.5,
	UnusualDelta:      0.5,
}

// Adjustments sums the policy's signal deltas for the bundle.
func (p Policy) Adjustments(b *signal.Bundle) float64 {
	var sum float64

	for _, reading := range b.Sentiments() {
		if reading.Score > p.SentimentSkewHigh {
			sum += p.SentimentDelta
		} else if reading.Score < p.SentimentSkewLow {
			sum -= p.SentimentDelta
		}
	}

	if flow, ok := b.Flow(); ok {
		switch flow.ActivityLevel {
		case signal.FlowStrongBuying:
			sum += p.FlowDelta
		case signal.FlowStrongSelling:
			sum -= p.FlowDelta
		}
	}

	if unusual, ok := b.Unusual(); ok && unusual.Detected {
		switch unusual.Bias {
		case signal.BiasBullish:
			sum += p.UnusualDelta
		case signal.BiasBearish:
			sum -= p.UnusualDelta
		}
	}

	return sum
}

// Compute derives the conviction score from the verdict and the raw bundle:
// raw = round(confidence/10) + adjustments, inverted when the Opponent won,
// then clamped to [1,10]. The clamp holds for every reachable input.
func (p Policy) Compute(v debate.Verdict, b *signal.Bundle) Score {
	raw := math.Round(float64(v.Confidence)/10) + p.Adjustments(b)

	if v.Winner == debate.RoleOpponent {
		raw = 10 - raw
	}

	score := int(math.Round(raw))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return Score(score)
}

// ActionBand maps an inclusive conviction range to an action.
type ActionBand struct {
	Min    Score
	Max    Score
	Action Action
}

// DefaultLadder is the conviction-to-action table. Thresholds are data, not
// logic, so they can be recalibrated without touching the scoring math.
var DefaultLadder = []ActionBand{
	{Min: 9, Max: 10, Action: ActionStrongBuy},
	{Min: 8, Max: 8, Action: ActionBuy},
	{Min: 4, Max: 7, Action: ActionHold},
	{Min: 2, Max: 3, Action: ActionSell},
	{Min: 1, Max: 1, Action: ActionStrongSell},
}

// ActionFor resolves the action for a score against the ladder. Scores
// outside every band (impossible with the default ladder) fall back to Hold.
func ActionFor(score Score, ladder []ActionBand) Action {
	for _, band := range ladder {
		if score >= band.Min && score <= band.Max {
			return band.Action
		}
	}
	return ActionHold
}
