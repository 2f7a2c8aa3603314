package signal

import "time"

// Result is the typed payload a provider returns for one subject.
type Result interface {
	Capability() Capability
}

// PriceQuote carries the latest trade price and a short window of recent
// closes used by the technical scorer and the volatility assessor.
type PriceQuote struct {
	Symbol       string    `json:"symbol"`
	Price        float64   `json:"price"`
	Change       float64   `json:"change"`
	ChangePct    float64   `json:"change_pct"`
	DayHigh      float64   `json:"day_high"`
	DayLow       float64   `json:"day_low"`
	RecentCloses []float64 `json:"recent_closes,omitempty"`
	AsOf         time.Time `json:"as_of"`
}

func (PriceQuote) Capability() Capability { return CapPrice }

// Fundamentals holds headline financial metrics. Percent values are expressed
// as plain percentages (15 means 15%), mirroring the upstream data service.
type Fundamentals struct {
	PERatio       float64 `json:"pe_ratio"`
	ProfitMargin  float64 `json:"profit_margin"`
	RevenueGrowth float64 `json:"revenue_growth"`
	EPS           float64 `json:"eps"`
	DebtToEquity  float64 `json:"debt_to_equity"`
	MarketCap     float64 `json:"market_cap"`
}

func (Fundamentals) Capability() Capability { return CapFundamentals }

// Headline is one news item.
type Headline struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
}

// NewsDigest aggregates recent headlines for the subject.
type NewsDigest struct {
	Headlines []Headline `json:"headlines"`
}

func (NewsDigest) Capability() Capability { return CapNews }

// SentimentReading is a normalized social-sentiment measurement.
// Score is in [0,1]: 0 maximally bearish, 0.5 neutral, 1 maximally bullish.
type SentimentReading struct {
	Source        string  `json:"source"`
	Score         float64 `json:"score"`
	Label         string  `json:"label"`
	MentionVolume int     `json:"mention_volume"`
}

func (r SentimentReading) Capability() Capability {
	if r.Source == "microblog" {
		return CapMicroblogSentiment
	}
	return CapSocialSentiment
}

// FlowLevel grades aggregate institutional 13F activity.
type FlowLevel string

const (
	FlowStrongSelling FlowLevel = "strong_selling"
	FlowNetSelling    FlowLevel = "net_selling"
	FlowNeutral       FlowLevel = "neutral"
	FlowNetBuying     FlowLevel = "net_buying"
	FlowStrongBuying  FlowLevel = "strong_buying"
)

// InstitutionalFlow summarizes recent institutional position changes.
type InstitutionalFlow struct {
	ActivityLevel FlowLevel `json:"activity_level"`
	NetShares     float64   `json:"net_shares"`
	FilerCount    int       `json:"filer_count"`
}

func (InstitutionalFlow) Capability() Capability { return CapInstitutionalFlow }

// Bias is the direction implied by an activity pattern.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

// UnusualActivity flags anomalous options flow.
type UnusualActivity struct {
	Detected bool     `json:"detected"`
	Bias     Bias     `json:"bias"`
	Patterns []string `json:"patterns,omitempty"`
}

func (UnusualActivity) Capability() Capability { return CapUnusualActivity }

// InsiderActivity summarizes recent insider transactions.
type InsiderActivity struct {
	NetBuyers int     `json:"net_buyers"`
	NetShares float64 `json:"net_shares"`
}

func (InsiderActivity) Capability() Capability { return CapInsiderTrades }

// AnalystRatings is the sell-side consensus snapshot.
type AnalystRatings struct {
	Buy        int     `json:"buy"`
	Hold       int     `json:"hold"`
	Sell       int     `json:"sell"`
	MeanTarget float64 `json:"mean_target"`
}

func (AnalystRatings) Capability() Capability { return CapAnalystRatings }

// EarningsEvent is the next scheduled earnings report.
type EarningsEvent struct {
	ReportDate  time.Time `json:"report_date"`
	EstimateEPS float64   `json:"estimate_eps"`
}

func (EarningsEvent) Capability() Capability { return CapEarningsCalendar }

// EarningsHistory tracks recent surprise behavior.
type EarningsHistory struct {
	Quarters       int     `json:"quarters"`
	BeatCount      int     `json:"beat_count"`
	AvgSurprisePct float64 `json:"avg_surprise_pct"`
}

func (EarningsHistory) Capability() Capability { return CapEarningsHistory }

// FilingRef points at a regulatory filing.
type FilingRef struct {
	Form  string    `json:"form"`
	Filed time.Time `json:"filed"`
	URL   string    `json:"url"`
}

// Filings lists the most recent regulatory filings.
type Filings struct {
	Recent []FilingRef `json:"recent"`
}

func (Filings) Capability() Capability { return CapFilings }

// ShortInterest reports the short position as a percent of float.
type ShortInterest struct {
	PctOfFloat  float64 `json:"pct_of_float"`
	DaysToCover float64 `json:"days_to_cover"`
}

func (ShortInterest) Capability() Capability { return CapShortInterest }

// MarketOverview is the broad-market backdrop for the session.
type MarketOverview struct {
	IndexChangePct  float64 `json:"index_change_pct"`
	SectorChangePct float64 `json:"sector_change_pct"`
	Breadth         string  `json:"breadth"`
}

func (MarketOverview) Capability() Capability { return CapMarketOverview }
