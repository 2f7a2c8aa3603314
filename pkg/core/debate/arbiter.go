package debate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/signal"
)

const verdictTemperature = 0.3

// TiePolicy names the otherwise-implicit bias applied when the arbiter
// cannot pick a side at low confidence. It is overridable because the bias
// has no stated rationale in the source behavior it preserves.
type TiePolicy struct {
	// Ceiling is the highest confidence at which an undecided verdict is
	// resolved by the policy instead of rejected.
	Ceiling int
	// Winner is the side awarded an undecided low-confidence verdict.
	Winner Role
}

// DefaultTiePolicy preserves the observed bias: ties at confidence <= 55 go
// to the Proponent.
var DefaultTiePolicy = TiePolicy{Ceiling: 55, Winner: RoleProponent}

// Arbiter judges the finished debate against the raw signal bundle.
type Arbiter struct {
	gen llm.Generator
	tie TiePolicy
	log zerolog.Logger
}

// NewArbiter creates an arbiter using the given tie policy.
func NewArbiter(gen llm.Generator, tie TiePolicy, log zerolog.Logger) *Arbiter {
	if tie.Winner == "" {
		tie = DefaultTiePolicy
	}
	return &Arbiter{gen: gen, tie: tie, log: log.With().Str("component", "arbiter").Logger()}
}

// verdictDraft is the schema the generator must satisfy.
type verdictDraft struct {
	Winner     string `json:"winner"`
	Confidence int    `json:"confidence"`
	Rationale  string `json:"rationale"`
}

// Judge weighs the transcript against the raw bundle, not the arguments
// alone, and returns the verdict. Produced exactly once per debate.
func (a *Arbiter) Judge(ctx context.Context, bundle *signal.Bundle, proCase, oppCase Case, transcript Transcript) (Verdict, error) {
	req := llm.Request{
		System:      arbiterSystemPrompt,
		Prompt:      verdictPrompt(bundle.Subject, BundleDigest(bundle), renderCase(proCase), renderCase(oppCase), renderTranscript(transcript)),
		Temperature: verdictTemperature,
	}

	var draft verdictDraft
	if err := a.gen.GenerateObject(ctx, req, &draft); err != nil {
		return Verdict{}, fmt.Errorf("verdict generation: %w", err)
	}

	confidence := draft.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	winner := Role(strings.ToLower(strings.TrimSpace(draft.Winner)))
	if !winner.Valid() {
		// Undecided verdicts are only resolvable inside the tie band.
		if confidence > a.tie.Ceiling {
			return Verdict{}, fmt.Errorf("arbiter returned no valid winner (%q) at confidence %d", draft.Winner, confidence)
		}
		a.log.Info().
			Str("raw_winner", draft.Winner).
			Int("confidence", confidence).
			Str("awarded_to", string(a.tie.Winner)).
			Msg("undecided verdict resolved by tie policy")
		winner = a.tie.Winner
	}

	v := Verdict{Winner: winner, Confidence: confidence, Rationale: strings.TrimSpace(draft.Rationale)}
	a.log.Info().
		Str("winner", string(v.Winner)).
		Int("confidence", v.Confidence).
		Msg("debate judged")
	return v, nil
}
