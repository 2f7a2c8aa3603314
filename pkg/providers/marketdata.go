package providers

import (
	"context"
	"fmt"
	"net/url"

	"agentic_research/pkg/core/signal"
)

// PriceProvider serves the latest quote with a recent-close window.
type PriceProvider struct {
	client *Client
}

func NewPriceProvider(client *Client) *PriceProvider { return &PriceProvider{client: client} }

func (p *PriceProvider) Name() string                  { return "market_price" }
func (p *PriceProvider) Capability() signal.Capability { return signal.CapPrice }

func (p *PriceProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var quote signal.PriceQuote
	params := url.Values{}
	params.Set("closes", "30")
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/quotes/%s", subject), params, &quote); err != nil {
		return nil, err
	}
	return quote, nil
}

// FundamentalsProvider serves headline financial metrics.
type FundamentalsProvider struct {
	client *Client
}

func NewFundamentalsProvider(client *Client) *FundamentalsProvider {
	return &FundamentalsProvider{client: client}
}

func (p *FundamentalsProvider) Name() string                  { return "market_fundamentals" }
func (p *FundamentalsProvider) Capability() signal.Capability { return signal.CapFundamentals }

func (p *FundamentalsProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var f signal.Fundamentals
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/fundamentals/%s", subject), nil, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// InsiderProvider serves recent insider transactions.
type InsiderProvider struct {
	client *Client
}

func NewInsiderProvider(client *Client) *InsiderProvider { return &InsiderProvider{client: client} }

func (p *InsiderProvider) Name() string                  { return "insider_trades" }
func (p *InsiderProvider) Capability() signal.Capability { return signal.CapInsiderTrades }

func (p *InsiderProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var a signal.InsiderActivity
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/insiders/%s", subject), nil, &a); err != nil {
		return nil, err
	}
	return a, nil
}

// FlowProvider serves aggregate 13F institutional activity.
type FlowProvider struct {
	client *Client
}

func NewFlowProvider(client *Client) *FlowProvider { return &FlowProvider{client: client} }

func (p *FlowProvider) Name() string                  { return "institutional_flow" }
func (p *FlowProvider) Capability() signal.Capability { return signal.CapInstitutionalFlow }

func (p *FlowProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var f signal.InstitutionalFlow
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/institutional/%s", subject), nil, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// UnusualActivityProvider flags anomalous options flow.
type UnusualActivityProvider struct {
	client *Client
}

func NewUnusualActivityProvider(client *Client) *UnusualActivityProvider {
	return &UnusualActivityProvider{client: client}
}

func (p *UnusualActivityProvider) Name() string                  { return "unusual_activity" }
func (p *UnusualActivityProvider) Capability() signal.Capability { return signal.CapUnusualActivity }

func (p *UnusualActivityProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var u signal.UnusualActivity
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/options/unusual/%s", subject), nil, &u); err != nil {
		return nil, err
	}
	return u, nil
}

// RatingsProvider serves the sell-side consensus snapshot.
type RatingsProvider struct {
	client *Client
}

func NewRatingsProvider(client *Client) *RatingsProvider { return &RatingsProvider{client: client} }

func (p *RatingsProvider) Name() string                  { return "analyst_ratings" }
func (p *RatingsProvider) Capability() signal.Capability { return signal.CapAnalystRatings }

func (p *RatingsProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var r signal.AnalystRatings
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/ratings/%s", subject), nil, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// EarningsCalendarProvider serves the next scheduled report.
type EarningsCalendarProvider struct {
	client *Client
}

func NewEarningsCalendarProvider(client *Client) *EarningsCalendarProvider {
	return &EarningsCalendarProvider{client: client}
}

func (p *EarningsCalendarProvider) Name() string                  { return "earnings_calendar" }
func (p *EarningsCalendarProvider) Capability() signal.Capability { return signal.CapEarningsCalendar }

func (p *EarningsCalendarProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var e signal.EarningsEvent
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/earnings/calendar/%s", subject), nil, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// EarningsHistoryProvider serves recent surprise behavior.
type EarningsHistoryProvider struct {
	client *Client
}

func NewEarningsHistoryProvider(client *Client) *EarningsHistoryProvider {
	return &EarningsHistoryProvider{client: client}
}

func (p *EarningsHistoryProvider) Name() string                  { return "earnings_history" }
func (p *EarningsHistoryProvider) Capability() signal.Capability { return signal.CapEarningsHistory }

func (p *EarningsHistoryProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var h signal.EarningsHistory
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/earnings/history/%s", subject), nil, &h); err != nil {
		return nil, err
	}
	return h, nil
}

// FilingsProvider lists recent regulatory filings.
type FilingsProvider struct {
	client *Client
}

func NewFilingsProvider(client *Client) *FilingsProvider { return &FilingsProvider{client: client} }

func (p *FilingsProvider) Name() string                  { return "regulatory_filings" }
func (p *FilingsProvider) Capability() signal.Capability { return signal.CapFilings }

func (p *FilingsProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var f signal.Filings
	params := url.Values{}
	params.Set("limit", "10")
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/filings/%s", subject), params, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// ShortInterestProvider serves the short position as a percent of float.
type ShortInterestProvider struct {
	client *Client
}

func NewShortInterestProvider(client *Client) *ShortInterestProvider {
	return &ShortInterestProvider{client: client}
}

func (p *ShortInterestProvider) Name() string                  { return "short_interest" }
func (p *ShortInterestProvider) Capability() signal.Capability { return signal.CapShortInterest }

func (p *ShortInterestProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var s signal.ShortInterest
	if err := p.client.get(ctx, p.Name(), fmt.Sprintf("/v1/short-interest/%s", subject), nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// MarketOverviewProvider serves the broad-market backdrop. The subject is
// ignored upstream; the backdrop is session-wide.
type MarketOverviewProvider struct {
	client *Client
}

func NewMarketOverviewProvider(client *Client) *MarketOverviewProvider {
	return &MarketOverviewProvider{client: client}
}

func (p *MarketOverviewProvider) Name() string                  { return "market_overview" }
func (p *MarketOverviewProvider) Capability() signal.Capability { return signal.CapMarketOverview }

func (p *MarketOverviewProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var m signal.MarketOverview
	if err := p.client.get(ctx, p.Name(), "/v1/market/overview", nil, &m); err != nil {
		return nil, err
	}
	return m, nil
}
