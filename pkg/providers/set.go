package providers

import (
	"net/http"

	"agentic_research/pkg/core/signal"
)

// BuildSet assembles the full provider set against one shared API client.
// This is the production wiring; tests and demos assemble their own sets
// from static providers.
func BuildSet(client *Client) (*signal.ProviderSet, error) {
	return signal.NewProviderSet(
		NewPriceProvider(client),
		NewFundamentalsProvider(client),
		NewNewsProvider("", &http.Client{Timeout: DefaultTimeout}),
		NewForumSentimentProvider(client),
		NewMicroblogSentimentProvider(client),
		NewInsiderProvider(client),
		NewFlowProvider(client),
		NewUnusualActivityProvider(client),
		NewRatingsProvider(client),
		NewEarningsCalendarProvider(client),
		NewEarningsHistoryProvider(client),
		NewFilingsProvider(client),
		NewShortInterestProvider(client),
		NewMarketOverviewProvider(client),
	)
}
