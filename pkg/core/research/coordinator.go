package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agentic_research/pkg/core/conviction"
	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/risk"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

// Stage names the phases a research call moves through, in order.
type Stage string

const (
	StageGathering Stage = "gathering"
	StageScoring   Stage = "scoring"
	StageCases     Stage = "cases"
	StageDebate    Stage = "debate"
	StageVerdict   Stage = "verdict"
	StageAssembly  Stage = "assembly"
	StageDone      Stage = "done"
	StageFailed    Stage = "failed"
)

// Event is a progress notification emitted as the call advances.
type Event struct {
	Stage   Stage     `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Observer receives progress events. Observers must not block.
type Observer func(Event)

// Coordinator wires the full pipeline: gather, score, build cases, debate,
// judge, score conviction, assess risk, assemble. It holds no state between
// calls and never retains a reference to a returned report.
type Coordinator struct {
	providers  *signal.ProviderSet
	gen        llm.Generator
	policy     conviction.Policy
	ladder     []conviction.ActionBand
	thresholds risk.Thresholds
	tie        debate.TiePolicy
	observer   Observer
	log        zerolog.Logger
}

// CoordinatorOption overrides a policy table or attaches an observer.
type CoordinatorOption func(*Coordinator)

// WithConvictionPolicy overrides the signal-adjustment policy.
func WithConvictionPolicy(p conviction.Policy) CoordinatorOption {
	return func(c *Coordinator) { c.policy = p }
}

// WithActionLadder overrides the conviction-to-action table.
func WithActionLadder(ladder []conviction.ActionBand) CoordinatorOption {
	return func(c *Coordinator) { c.ladder = ladder }
}

// WithRiskThresholds overrides the risk cut-off table.
func WithRiskThresholds(t risk.Thresholds) CoordinatorOption {
	return func(c *Coordinator) { c.thresholds = t }
}

// WithTiePolicy overrides the arbiter tie policy.
func WithTiePolicy(t debate.TiePolicy) CoordinatorOption {
	return func(c *Coordinator) { c.tie = t }
}

// WithObserver attaches a progress observer.
func WithObserver(o Observer) CoordinatorOption {
	return func(c *Coordinator) { c.observer = o }
}

// NewCoordinator validates its dependencies up front: an empty provider set
// or missing generator is a configuration error before any work happens.
func NewCoordinator(providers *signal.ProviderSet, gen llm.Generator, log zerolog.Logger, opts ...CoordinatorOption) (*Coordinator, error) {
	if providers == nil || providers.Len() == 0 {
		return nil, configErr("setup", "provider set is empty")
	}
	if gen == nil {
		return nil, configErr("setup", "generator is required")
	}
	c := &Coordinator{
		providers:  providers,
		gen:        gen,
		policy:     conviction.DefaultPolicy,
		ladder:     conviction.DefaultLadder,
		thresholds: risk.DefaultThresholds,
		tie:        debate.DefaultTiePolicy,
		log:        log.With().Str("component", "coordinator").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Coordinator) emit(stage Stage, format string, args ...interface{}) {
	if c.observer == nil {
		return
	}
	c.observer(Event{Stage: stage, Message: fmt.Sprintf(format, args...), At: time.Now().UTC()})
}

// Research runs the full pipeline for one subject under one profile. It
// returns either a complete report or a tagged *Error; never a partial
// report.
func (c *Coordinator) Research(ctx context.Context, subject string, profile Profile) (*Report, error) {
	subject = strings.ToUpper(strings.TrimSpace(subject))
	if subject == "" {
		return nil, configErr("input", "subject is empty")
	}
	spec, ok := SpecFor(profile)
	if !ok {
		return nil, configErr("input", "unknown profile %q", profile)
	}
	selected, err := c.providers.Select(spec.Capabilities)
	if err != nil {
		return nil, configErr("input", "profile %s: %v", profile, err)
	}

	// One deadline for the whole call; every child call derives from it.
	ctx, cancel := context.WithTimeout(ctx, spec.Budget)
	defer cancel()

	id := uuid.New().String()
	log := c.log.With().Str("research_id", id).Str("subject", subject).Logger()
	log.Info().Str("profile", string(profile)).Int("providers", selected.Len()).Msg("research starting")

	// 4.1 Gather signals. Provider failures degrade, never abort.
	c.emit(StageGathering, "gathering signals from %d providers", selected.Len())
	gateway := signal.NewGateway(selected, log, signal.WithCallTimeout(spec.CallTimeout))
	bundle := gateway.Gather(ctx, subject)

	// 4.2 Specialist scores, concurrent over the read-only bundle.
	c.emit(StageScoring, "running specialist analysis")
	scores := specialist.ScoreAll(bundle)

	// 4.3 Both cases from identical inputs; neither sees the other's draft.
	c.emit(StageCases, "building proponent and opponent cases")
	builder := debate.NewCaseBuilder(c.gen, log)
	var (
		proCase, oppCase debate.Case
		proErr, oppErr   error
		wg               sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		proCase, proErr = builder.Build(ctx, debate.RoleProponent, bundle, scores)
	}()
	go func() {
		defer wg.Done()
		oppCase, oppErr = builder.Build(ctx, debate.RoleOpponent, bundle, scores)
	}()
	wg.Wait()
	if proErr != nil {
		return nil, generationErr("case", proErr)
	}
	if oppErr != nil {
		return nil, generationErr("case", oppErr)
	}

	// 4.4 Multi-round rebuttal state machine.
	c.emit(StageDebate, "debating over %d rounds", spec.Rounds)
	engine, err := debate.NewEngine(
		debate.NewGeneratorRebutter(debate.RoleProponent, subject, c.gen),
		debate.NewGeneratorRebutter(debate.RoleOpponent, subject, c.gen),
		spec.Rounds, log,
	)
	if err != nil {
		return nil, configErr("debate", "%v", err)
	}
	transcript, err := engine.Run(ctx, proCase, oppCase)
	if err != nil {
		return nil, generationErr("debate", err)
	}

	// 4.5 Judge against the raw bundle.
	c.emit(StageVerdict, "judging the debate")
	arbiter := debate.NewArbiter(c.gen, c.tie, log)
	verdict, err := arbiter.Judge(ctx, bundle, proCase, oppCase, transcript)
	if err != nil {
		return nil, generationErr("verdict", err)
	}

	// 4.6-4.8 Deterministic tail: conviction, risk, assembly.
	c.emit(StageAssembly, "assembling report")
	score := c.policy.Compute(verdict, bundle)
	action := conviction.ActionFor(score, c.ladder)
	profileRisk := risk.Assess(bundle, verdict, c.thresholds)

	report, err := assemble(assembleInput{
		ID:              id,
		Subject:         subject,
		Profile:         profile,
		Bundle:          bundle,
		Scores:          scores,
		Proponent:       proCase,
		Opponent:        oppCase,
		Transcript:      transcript,
		RoundsCompleted: engine.RoundsCompleted(),
		Verdict:         verdict,
		Conviction:      score,
		Action:          action,
		Risk:            profileRisk,
	})
	if err != nil {
		return nil, generationErr("assembly", err)
	}

	c.emit(StageDone, "research complete: %s at conviction %d", action, score)
	log.Info().
		Str("action", string(action)).
		Int("conviction", int(score)).
		Str("winner", string(verdict.Winner)).
		Int("confidence", verdict.Confidence).
		Msg("research complete")
	return report, nil
}
