package debate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

const (
	minEvidence = 3
	maxEvidence = 5

	caseTemperature = 0.7
)

// CaseBuilder turns the scored bundle into one side's structured opening
// argument. Both sides receive identical inputs and never observe each
// other's draft.
type CaseBuilder struct {
	gen llm.Generator
	log zerolog.Logger
}

// NewCaseBuilder creates a builder over the given generator.
func NewCaseBuilder(gen llm.Generator, log zerolog.Logger) *CaseBuilder {
	return &CaseBuilder{gen: gen, log: log.With().Str("component", "case_builder").Logger()}
}

// caseDraft is the schema the generator must satisfy.
type caseDraft struct {
	Thesis      string     `json:"thesis"`
	Evidence    []Evidence `json:"evidence"`
	TargetValue float64    `json:"target_value"`
}

// Build generates and validates the case for role. Any generator failure or
// schema violation is an error; a research call cannot proceed with only one
// side argued.
func (cb *CaseBuilder) Build(ctx context.Context, role Role, bundle *signal.Bundle, scores []specialist.Score) (Case, error) {
	req := llm.Request{
		System:      systemPrompts[role],
		Prompt:      casePrompt(role, bundle.Subject, BundleDigest(bundle), ScoreDigest(scores)),
		Temperature: caseTemperature,
	}

	var draft caseDraft
	if err := cb.gen.GenerateObject(ctx, req, &draft); err != nil {
		return Case{}, fmt.Errorf("%s case generation: %w", role, err)
	}

	c := Case{
		Role:        role,
		Thesis:      strings.TrimSpace(draft.Thesis),
		Evidence:    draft.Evidence,
		TargetValue: draft.TargetValue,
	}
	if err := cb.validate(&c, bundle); err != nil {
		return Case{}, fmt.Errorf("%s case invalid: %w", role, err)
	}

	cb.log.Debug().
		Str("role", string(role)).
		Int("evidence", len(c.Evidence)).
		Float64("target", c.TargetValue).
		Bool("direction_conflict", c.DirectionConflict).
		Msg("case built")
	return c, nil
}

// validate enforces the case schema and flags a target on the wrong side of
// the current value instead of silently inverting it.
func (cb *CaseBuilder) validate(c *Case, bundle *signal.Bundle) error {
	if c.Thesis == "" {
		return fmt.Errorf("empty thesis")
	}
	if len(c.Evidence) < minEvidence {
		return fmt.Errorf("only %d evidence points, need at least %d", len(c.Evidence), minEvidence)
	}
	if len(c.Evidence) > maxEvidence {
		c.Evidence = c.Evidence[:maxEvidence]
	}
	for i, ev := range c.Evidence {
		if strings.TrimSpace(ev.Claim) == "" || strings.TrimSpace(ev.Citation) == "" {
			return fmt.Errorf("evidence %d missing claim or citation", i+1)
		}
	}
	if c.TargetValue <= 0 {
		return fmt.Errorf("non-positive target value %.2f", c.TargetValue)
	}

	if quote, ok := bundle.Quote(); ok && quote.Price > 0 {
		switch c.Role {
		case RoleProponent:
			c.DirectionConflict = c.TargetValue <= quote.Price
		case RoleOpponent:
			c.DirectionConflict = c.TargetValue >= quote.Price
		}
		if c.DirectionConflict {
			cb.log.Warn().
				Str("role", string(c.Role)).
				Float64("target", c.TargetValue).
				Float64("current", quote.Price).
				Msg("case target conflicts with thesis direction")
		}
	}
	return nil
}
