package providers

import (
	"context"
	"time"

	"agentic_research/pkg/core/signal"
)

// StaticProvider returns a fixed result. It backs demo runs and lets a
// deployment pin a capability to canned data when no upstream is wired.
type StaticProvider struct {
	name   string
	result signal.Result
	err    error
	delay  time.Duration
}

// NewStaticProvider creates a provider that always returns result.
func NewStaticProvider(name string, result signal.Result) *StaticProvider {
	return &StaticProvider{name: name, result: result}
}

// NewFailingProvider creates a provider that always fails with err.
func NewFailingProvider(name string, cap signal.Capability, err error) *StaticProvider {
	return &StaticProvider{name: name, result: capabilityZero(cap), err: err}
}

// WithDelay makes each Fetch sleep first, for exercising timeouts.
func (p *StaticProvider) WithDelay(d time.Duration) *StaticProvider {
	p.delay = d
	return p
}

func (p *StaticProvider) Name() string                  { return p.name }
func (p *StaticProvider) Capability() signal.Capability { return p.result.Capability() }

func (p *StaticProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func capabilityZero(cap signal.Capability) signal.Result {
	switch cap {
	case signal.CapPrice:
		return signal.PriceQuote{}
	case signal.CapFundamentals:
		return signal.Fundamentals{}
	case signal.CapNews:
		return signal.NewsDigest{}
	case signal.CapMicroblogSentiment:
		return signal.SentimentReading{Source: "microblog"}
	case signal.CapSocialSentiment:
		return signal.SentimentReading{Source: "forum"}
	case signal.CapInstitutionalFlow:
		return signal.InstitutionalFlow{}
	case signal.CapUnusualActivity:
		return signal.UnusualActivity{}
	case signal.CapInsiderTrades:
		return signal.InsiderActivity{}
	case signal.CapAnalystRatings:
		return signal.AnalystRatings{}
	case signal.CapEarningsCalendar:
		return signal.EarningsEvent{}
	case signal.CapEarningsHistory:
		return signal.EarningsHistory{}
	case signal.CapFilings:
		return signal.Filings{}
	case signal.CapShortInterest:
		return signal.ShortInterest{}
	default:
		return signal.MarketOverview{}
	}
}
