package signal

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Capability identifies the category of evidence a provider can supply.
// Providers declare exactly one capability; research profiles select the
// capability sets they need.
type Capability string

const (
	CapPrice              Capability = "price"
	CapFundamentals       Capability = "fundamentals"
	CapNews               Capability = "news"
	CapInsiderTrades      Capability = "insider_trades"
	CapInstitutionalFlow  Capability = "institutional_flow"
	CapSocialSentiment    Capability = "social_sentiment"
	CapMicroblogSentiment Capability = "microblog_sentiment"
	CapUnusualActivity    Capability = "unusual_activity"
	CapAnalystRatings     Capability = "analyst_ratings"
	CapEarningsCalendar   Capability = "earnings_calendar"
	CapEarningsHistory    Capability = "earnings_history"
	CapFilings            Capability = "filings"
	CapShortInterest      Capability = "short_interest"
	CapMarketOverview     Capability = "market_overview"
)

// Provider is the contract for one external evidence source. Implementations
// are stateless between calls; only the Gateway invokes them.
type Provider interface {
	Name() string
	Capability() Capability
	Fetch(ctx context.Context, subject string) (Result, error)
}

// FailureClass categorizes provider failures. Only transient classes
// (Timeout, RateLimited) are eligible for retry inside the Gateway.
type FailureClass string

const (
	ClassTimeout     FailureClass = "timeout"
	ClassRateLimited FailureClass = "rate_limited"
	ClassUpstream    FailureClass = "upstream"
	ClassBadSubject  FailureClass = "bad_subject"
)

// ProviderError tags a provider failure with its class. It never escapes the
// Gateway; it only surfaces as an unavailable bundle entry.
type ProviderError struct {
	Provider string
	Class    FailureClass
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Class, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the failure class is transient.
func (e *ProviderError) Retryable() bool {
	return e.Class == ClassTimeout || e.Class == ClassRateLimited
}

// Classify wraps err as a ProviderError, defaulting to the upstream class.
// Context deadline errors map to the timeout class.
func Classify(provider string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	class := ClassUpstream
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		class = ClassTimeout
	}
	return &ProviderError{Provider: provider, Class: class, Err: err}
}

// ProviderSet is an explicit, immutable collection of providers constructed
// once and injected into the Gateway. It replaces any notion of a global
// name->implementation registry.
type ProviderSet struct {
	byName map[string]Provider
	names  []string
}

// NewProviderSet builds a set from the given providers. Duplicate names and
// empty sets are configuration errors.
func NewProviderSet(providers ...Provider) (*ProviderSet, error) {
	if len(providers) == 0 {
		return nil, errors.New("provider set must contain at least one provider")
	}
	set := &ProviderSet{byName: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p.Name() == "" {
			return nil, errors.New("provider with empty name")
		}
		if _, dup := set.byName[p.Name()]; dup {
			return nil, fmt.Errorf("duplicate provider name %q", p.Name())
		}
		set.byName[p.Name()] = p
		set.names = append(set.names, p.Name())
	}
	sort.Strings(set.names)
	return set, nil
}

// Select returns the subset of providers whose capability appears in caps.
// The receiver is unchanged. Selecting zero providers is an error: a profile
// that maps to no providers cannot gather anything.
func (s *ProviderSet) Select(caps []Capability) (*ProviderSet, error) {
	wanted := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		wanted[c] = true
	}
	var picked []Provider
	for _, name := range s.names {
		p := s.byName[name]
		if wanted[p.Capability()] {
			picked = append(picked, p)
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no providers cover the requested capabilities %v", caps)
	}
	return NewProviderSet(picked...)
}

// Names returns the provider names in sorted order.
func (s *ProviderSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of providers in the set.
func (s *ProviderSet) Len() int { return len(s.names) }

// Providers returns the providers in name order.
func (s *ProviderSet) Providers() []Provider {
	out := make([]Provider, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.byName[name])
	}
	return out
}
