package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/llm"
)

const (
	// MaxRoundsLimit bounds how many rebuttal rounds any profile may request.
	MaxRoundsLimit = 3

	rebuttalTemperature = 0.7
)

// Reply is one side's answer within a round. Decline signals that the side
// has nothing further to add; when both sides decline in the same round the
// debate closes early.
type Reply struct {
	Statement string
	Decline   bool
}

// Rebutter produces one side's rebuttal to the opposing side's latest
// statement.
type Rebutter interface {
	Role() Role
	Rebut(ctx context.Context, own, opposing Case, opposingLatest string, transcript Transcript) (Reply, error)
}

// Engine runs the bounded multi-round rebuttal state machine:
// Built -> Debating (round 1..maxRounds) -> Closed.
type Engine struct {
	proponent Rebutter
	opponent  Rebutter
	maxRounds int
	log       zerolog.Logger

	state           State
	transcript      Transcript
	roundsCompleted int
}

// NewEngine creates an engine for a debate of maxRounds rounds.
func NewEngine(proponent, opponent Rebutter, maxRounds int, log zerolog.Logger) (*Engine, error) {
	if proponent == nil || opponent == nil {
		return nil, fmt.Errorf("both rebutters are required")
	}
	if proponent.Role() != RoleProponent || opponent.Role() != RoleOpponent {
		return nil, fmt.Errorf("rebutters wired to the wrong roles")
	}
	if maxRounds < 1 || maxRounds > MaxRoundsLimit {
		return nil, fmt.Errorf("maxRounds must be in [1,%d], got %d", MaxRoundsLimit, maxRounds)
	}
	return &Engine{
		proponent: proponent,
		opponent:  opponent,
		maxRounds: maxRounds,
		state:     StateBuilt,
		log:       log.With().Str("component", "debate_engine").Logger(),
	}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Transcript returns the rebuttals recorded so far.
func (e *Engine) Transcript() Transcript { return e.transcript }

// RoundsCompleted returns how many full rounds have run.
func (e *Engine) RoundsCompleted() int { return e.roundsCompleted }

// Run executes the debate between the two opening cases. The two rebuttals
// within a round are generated concurrently but always appended
// Proponent-first, so transcript order is deterministic regardless of
// completion order. A failed rebuttal aborts the whole debate.
func (e *Engine) Run(ctx context.Context, proCase, oppCase Case) (Transcript, error) {
	if e.state != StateBuilt {
		return nil, fmt.Errorf("debate already ran (state %s)", e.state)
	}
	e.state = StateDebating

	for round := 1; round <= e.maxRounds; round++ {
		// Each side answers the other's latest statement as of the start of
		// the round; on round 1 that is the opposing opening case itself.
		proTarget := e.latestOpposing(RoleProponent, proCase, oppCase)
		oppTarget := e.latestOpposing(RoleOpponent, proCase, oppCase)
		snapshot := make(Transcript, len(e.transcript))
		copy(snapshot, e.transcript)

		var (
			proReply, oppReply Reply
			proErr, oppErr     error
			done               = make(chan struct{}, 2)
		)
		go func() {
			proReply, proErr = e.proponent.Rebut(ctx, proCase, oppCase, proTarget, snapshot)
			done <- struct{}{}
		}()
		go func() {
			oppReply, oppErr = e.opponent.Rebut(ctx, oppCase, proCase, oppTarget, snapshot)
			done <- struct{}{}
		}()
		<-done
		<-done

		if proErr != nil {
			return nil, fmt.Errorf("round %d proponent rebuttal: %w", round, proErr)
		}
		if oppErr != nil {
			return nil, fmt.Errorf("round %d opponent rebuttal: %w", round, oppErr)
		}

		now := time.Now().UTC()
		e.transcript = append(e.transcript,
			Rebuttal{Role: RoleProponent, Round: round, Statement: proReply.Statement, GeneratedAt: now},
			Rebuttal{Role: RoleOpponent, Round: round, Statement: oppReply.Statement, GeneratedAt: now},
		)
		e.roundsCompleted++
		e.log.Debug().Int("round", round).Msg("debate round complete")

		if proReply.Decline && oppReply.Decline {
			e.log.Info().Int("round", round).Msg("both sides declined, closing debate early")
			break
		}
	}

	e.state = StateClosed
	return e.transcript, nil
}

// latestOpposing returns what the given side must answer this round: the
// other side's latest rebuttal, or its opening case before any rounds ran.
func (e *Engine) latestOpposing(r Role, proCase, oppCase Case) string {
	if s := e.transcript.latestBy(r.Other()); s != "" {
		return s
	}
	if r == RoleProponent {
		return renderCase(oppCase)
	}
	return renderCase(proCase)
}

// GeneratorRebutter produces rebuttals via the text-generation service. It
// never declines under the current policy.
type GeneratorRebutter struct {
	role    Role
	subject string
	gen     llm.Generator
}

// NewGeneratorRebutter wires one debate side to the generator.
func NewGeneratorRebutter(role Role, subject string, gen llm.Generator) *GeneratorRebutter {
	return &GeneratorRebutter{role: role, subject: subject, gen: gen}
}

func (r *GeneratorRebutter) Role() Role { return r.role }

func (r *GeneratorRebutter) Rebut(ctx context.Context, own, opposing Case, opposingLatest string, transcript Transcript) (Reply, error) {
	req := llm.Request{
		System:      systemPrompts[r.role],
		Prompt:      rebuttalPrompt(r.role, r.subject, renderCase(own), renderCase(opposing), opposingLatest, renderTranscript(transcript)),
		Temperature: rebuttalTemperature,
	}
	text, err := r.gen.GenerateText(ctx, req)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Statement: text}, nil
}
