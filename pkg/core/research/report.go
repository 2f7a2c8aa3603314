package research

import (
	"fmt"
	"time"

	"agentic_research/pkg/core/conviction"
	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/risk"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

// Report is the immutable result of one research call. Ownership passes
// entirely to the caller; the engine retains no reference after returning.
type Report struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Profile     Profile   `json:"profile"`
	GeneratedAt time.Time `json:"generated_at"`

	Bundle *signal.Bundle     `json:"bundle"`
	Scores []specialist.Score `json:"specialist_scores"`

	Proponent       debate.Case       `json:"proponent_case"`
	Opponent        debate.Case       `json:"opponent_case"`
	Transcript      debate.Transcript `json:"transcript"`
	RoundsCompleted int               `json:"rounds_completed"`
	Verdict         debate.Verdict    `json:"verdict"`

	Conviction conviction.Score  `json:"conviction"`
	Action     conviction.Action `json:"action"`
	Risk       risk.Profile      `json:"risk"`

	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	UpsidePct    float64 `json:"upside_pct"`
	Headline     string  `json:"headline"`
}

// assembleInput carries everything the assembler composes.
type assembleInput struct {
	ID              string
	Subject         string
	Profile         Profile
	Bundle          *signal.Bundle
	Scores          []specialist.Score
	Proponent       debate.Case
	Opponent        debate.Case
	Transcript      debate.Transcript
	RoundsCompleted int
	Verdict         debate.Verdict
	Conviction      conviction.Score
	Action          conviction.Action
	Risk            risk.Profile
}

// assemble composes the final report. Pure: no I/O, and it fails only when a
// required upstream input is structurally absent.
func assemble(in assembleInput) (*Report, error) {
	if in.Bundle == nil {
		return nil, fmt.Errorf("assemble: bundle missing")
	}
	if in.Proponent.Thesis == "" || in.Opponent.Thesis == "" {
		return nil, fmt.Errorf("assemble: both cases are required")
	}
	if !in.Verdict.Winner.Valid() {
		return nil, fmt.Errorf("assemble: verdict missing")
	}
	if len(in.Transcript) != 2*in.RoundsCompleted {
		return nil, fmt.Errorf("assemble: transcript length %d does not match %d rounds", len(in.Transcript), in.RoundsCompleted)
	}

	r := &Report{
		ID:              in.ID,
		Subject:         in.Subject,
		Profile:         in.Profile,
		GeneratedAt:     time.Now().UTC(),
		Bundle:          in.Bundle,
		Scores:          in.Scores,
		Proponent:       in.Proponent,
		Opponent:        in.Opponent,
		Transcript:      in.Transcript,
		RoundsCompleted: in.RoundsCompleted,
		Verdict:         in.Verdict,
		Conviction:      in.Conviction,
		Action:          in.Action,
		Risk:            in.Risk,
		Headline:        in.Verdict.Rationale,
	}

	winning := in.Proponent
	if in.Verdict.Winner == debate.RoleOpponent {
		winning = in.Opponent
	}
	r.TargetValue = winning.TargetValue
	if quote, ok := in.Bundle.Quote(); ok && quote.Price > 0 {
		r.CurrentValue = quote.Price
		r.UpsidePct = (r.TargetValue - quote.Price) / quote.Price * 100
	}

	return r, nil
}
