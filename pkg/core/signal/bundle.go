package signal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Entry is one provider's contribution to a bundle. Exactly one of Result or
// Unavailable is meaningful: a failed fetch leaves Result nil and records the
// failure reason.
type Entry struct {
	Provider    string     `json:"provider"`
	Capability  Capability `json:"capability"`
	Result      Result     `json:"result,omitempty"`
	Unavailable string     `json:"unavailable,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
}

// UnmarshalJSON restores the concrete result type behind the Result
// interface, dispatching on the capability tag. Needed wherever stored
// bundles are read back, e.g. the report repository.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Provider    string          `json:"provider"`
		Capability  Capability      `json:"capability"`
		Result      json.RawMessage `json:"result,omitempty"`
		Unavailable string          `json:"unavailable,omitempty"`
		FetchedAt   time.Time       `json:"fetched_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Provider = raw.Provider
	e.Capability = raw.Capability
	e.Unavailable = raw.Unavailable
	e.FetchedAt = raw.FetchedAt
	e.Result = nil

	if len(raw.Result) == 0 || bytes.Equal(raw.Result, []byte("null")) {
		return nil
	}
	result, err := decodeResult(raw.Capability, raw.Result)
	if err != nil {
		return fmt.Errorf("entry for provider %q: %w", raw.Provider, err)
	}
	e.Result = result
	return nil
}

// decodeResult picks the concrete result struct for a capability. Results are
// returned as value types so the bundle accessors' type assertions hold after
// a round trip through storage.
func decodeResult(cap Capability, data []byte) (Result, error) {
	switch cap {
	case CapPrice:
		var v PriceQuote
		err := json.Unmarshal(data, &v)
		return v, err
	case CapFundamentals:
		var v Fundamentals
		err := json.Unmarshal(data, &v)
		return v, err
	case CapNews:
		var v NewsDigest
		err := json.Unmarshal(data, &v)
		return v, err
	case CapSocialSentiment, CapMicroblogSentiment:
		var v SentimentReading
		err := json.Unmarshal(data, &v)
		return v, err
	case CapInstitutionalFlow:
		var v InstitutionalFlow
		err := json.Unmarshal(data, &v)
		return v, err
	case CapUnusualActivity:
		var v UnusualActivity
		err := json.Unmarshal(data, &v)
		return v, err
	case CapInsiderTrades:
		var v InsiderActivity
		err := json.Unmarshal(data, &v)
		return v, err
	case CapAnalystRatings:
		var v AnalystRatings
		err := json.Unmarshal(data, &v)
		return v, err
	case CapEarningsCalendar:
		var v EarningsEvent
		err := json.Unmarshal(data, &v)
		return v, err
	case CapEarningsHistory:
		var v EarningsHistory
		err := json.Unmarshal(data, &v)
		return v, err
	case CapFilings:
		var v Filings
		err := json.Unmarshal(data, &v)
		return v, err
	case CapShortInterest:
		var v ShortInterest
		err := json.Unmarshal(data, &v)
		return v, err
	case CapMarketOverview:
		var v MarketOverview
		err := json.Unmarshal(data, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown capability %q", cap)
	}
}

// OK reports whether the entry carries a usable result.
func (e Entry) OK() bool { return e.Result != nil }

// Bundle is the full set of gathered evidence for one subject. It is created
// once by the Gateway and read-only afterwards; downstream stages never write
// into it.
type Bundle struct {
	Subject    string           `json:"subject"`
	Entries    map[string]Entry `json:"entries"`
	GatheredAt time.Time        `json:"gathered_at"`
}

// ProviderNames returns the entry keys in sorted order, independent of
// arrival order during gathering.
func (b *Bundle) ProviderNames() []string {
	names := make([]string, 0, len(b.Entries))
	for name := range b.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableCount returns how many entries carry usable results.
func (b *Bundle) AvailableCount() int {
	n := 0
	for _, e := range b.Entries {
		if e.OK() {
			n++
		}
	}
	return n
}

// byCapability returns the first available result with the given capability.
func (b *Bundle) byCapability(cap Capability) (Result, bool) {
	for _, name := range b.ProviderNames() {
		e := b.Entries[name]
		if e.Capability == cap && e.OK() {
			return e.Result, true
		}
	}
	return nil, false
}

// Quote returns the price quote, if gathered.
func (b *Bundle) Quote() (PriceQuote, bool) {
	r, ok := b.byCapability(CapPrice)
	if !ok {
		return PriceQuote{}, false
	}
	q, ok := r.(PriceQuote)
	return q, ok
}

// Financials returns the fundamentals snapshot, if gathered.
func (b *Bundle) Financials() (Fundamentals, bool) {
	r, ok := b.byCapability(CapFundamentals)
	if !ok {
		return Fundamentals{}, false
	}
	f, ok := r.(Fundamentals)
	return f, ok
}

// Sentiments returns every available sentiment reading, social and microblog,
// in provider-name order.
func (b *Bundle) Sentiments() []SentimentReading {
	var out []SentimentReading
	for _, name := range b.ProviderNames() {
		e := b.Entries[name]
		if !e.OK() {
			continue
		}
		if s, ok := e.Result.(SentimentReading); ok {
			out = append(out, s)
		}
	}
	return out
}

// Flow returns the institutional flow summary, if gathered.
func (b *Bundle) Flow() (InstitutionalFlow, bool) {
	r, ok := b.byCapability(CapInstitutionalFlow)
	if !ok {
		return InstitutionalFlow{}, false
	}
	f, ok := r.(InstitutionalFlow)
	return f, ok
}

// Unusual returns the unusual-activity reading, if gathered.
func (b *Bundle) Unusual() (UnusualActivity, bool) {
	r, ok := b.byCapability(CapUnusualActivity)
	if !ok {
		return UnusualActivity{}, false
	}
	u, ok := r.(UnusualActivity)
	return u, ok
}

// News returns the headline digest, if gathered.
func (b *Bundle) News() (NewsDigest, bool) {
	r, ok := b.byCapability(CapNews)
	if !ok {
		return NewsDigest{}, false
	}
	n, ok := r.(NewsDigest)
	return n, ok
}

// Ratings returns the analyst consensus, if gathered.
func (b *Bundle) Ratings() (AnalystRatings, bool) {
	r, ok := b.byCapability(CapAnalystRatings)
	if !ok {
		return AnalystRatings{}, false
	}
	a, ok := r.(AnalystRatings)
	return a, ok
}

// Insider returns the insider-activity summary, if gathered.
func (b *Bundle) Insider() (InsiderActivity, bool) {
	r, ok := b.byCapability(CapInsiderTrades)
	if !ok {
		return InsiderActivity{}, false
	}
	i, ok := r.(InsiderActivity)
	return i, ok
}
