package research

import (
	"time"

	"agentic_research/pkg/core/signal"
)

// Profile selects how much evidence is gathered and how long the debate
// runs, trading completeness for latency.
type Profile string

const (
	ProfileMinimal    Profile = "minimal"
	ProfileStandard   Profile = "standard"
	ProfileExhaustive Profile = "exhaustive"
)

// Spec is the concrete shape of a profile: which capabilities must be
// gathered, how many rebuttal rounds run, and the deadlines involved.
type Spec struct {
	Rounds       int
	Capabilities []signal.Capability
	Budget       time.Duration
	CallTimeout  time.Duration
}

// profiles maps each profile to its required capabilities. The generator
// never decides what gets fetched; the mapping is fixed data.
var profiles = map[Profile]Spec{
	ProfileMinimal: {
		Rounds: 1,
		Capabilities: []signal.Capability{
			signal.CapPrice,
			signal.CapFundamentals,
			signal.CapNews,
		},
		Budget:      30 * time.Second,
		CallTimeout: 8 * time.Second,
	},
	ProfileStandard: {
		Rounds: 2,
		Capabilities: []signal.Capability{
			signal.CapPrice,
			signal.CapFundamentals,
			signal.CapNews,
			signal.CapInsiderTrades,
			signal.CapInstitutionalFlow,
			signal.CapSocialSentiment,
			signal.CapMicroblogSentiment,
			signal.CapAnalystRatings,
		},
		Budget:      60 * time.Second,
		CallTimeout: 10 * time.Second,
	},
	ProfileExhaustive: {
		Rounds: 3,
		Capabilities: []signal.Capability{
			signal.CapPrice,
			signal.CapFundamentals,
			signal.CapNews,
			signal.CapInsiderTrades,
			signal.CapInstitutionalFlow,
			signal.CapSocialSentiment,
			signal.CapMicroblogSentiment,
			signal.CapUnusualActivity,
			signal.CapAnalystRatings,
			signal.CapEarningsCalendar,
			signal.CapEarningsHistory,
			signal.CapFilings,
			signal.CapShortInterest,
			signal.CapMarketOverview,
		},
		Budget:      180 * time.Second,
		CallTimeout: 15 * time.Second,
	},
}

// SpecFor resolves a profile to its spec.
func SpecFor(p Profile) (Spec, bool) {
	spec, ok := profiles[p]
	return spec, ok
}
