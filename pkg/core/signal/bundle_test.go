package signal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBundleJSONRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	orig := &Bundle{
		Subject: "NVDA",
		Entries: map[string]Entry{
			"market_price": {
				Provider:   "market_price",
				Capability: CapPrice,
				Result:     PriceQuote{Symbol: "NVDA", Price: 500, RecentCloses: []float64{490, 495, 500}},
				FetchedAt:  now,
			},
			"microblog_sentiment": {
				Provider:   "microblog_sentiment",
				Capability: CapMicroblogSentiment,
				Result:     SentimentReading{Source: "microblog", Score: 0.8, Label: "bullish", MentionVolume: 40},
				FetchedAt:  now,
			},
			"institutional_flow": {
				Provider:   "institutional_flow",
				Capability: CapInstitutionalFlow,
				Result:     InstitutionalFlow{ActivityLevel: FlowStrongBuying, NetShares: 1e6, FilerCount: 12},
				FetchedAt:  now,
			},
			"news": {
				Provider:    "news",
				Capability:  CapNews,
				Unavailable: "upstream: 503",
				FetchedAt:   now,
			},
		},
		GatheredAt: now,
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Bundle
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	quote, ok := got.Quote()
	if !ok {
		t.Fatal("Expected a price quote after round trip")
	}
	if quote.Price != 500 {
		t.Errorf("Expected price 500, got %v", quote.Price)
	}
	if len(quote.RecentCloses) != 3 {
		t.Errorf("Expected 3 recent closes, got %d", len(quote.RecentCloses))
	}

	sentiments := got.Sentiments()
	if len(sentiments) != 1 {
		t.Fatalf("Expected 1 sentiment reading, got %d", len(sentiments))
	}
	if sentiments[0].Score != 0.8 || sentiments[0].Label != "bullish" {
		t.Errorf("Unexpected sentiment after round trip: %+v", sentiments[0])
	}

	flow, ok := got.Flow()
	if !ok {
		t.Fatal("Expected institutional flow after round trip")
	}
	if flow.ActivityLevel != FlowStrongBuying {
		t.Errorf("Expected activity level %q, got %q", FlowStrongBuying, flow.ActivityLevel)
	}

	news := got.Entries["news"]
	if news.OK() {
		t.Error("Expected the news entry to stay unavailable")
	}
	if news.Unavailable != "upstream: 503" {
		t.Errorf("Expected unavailable reason to survive, got %q", news.Unavailable)
	}
	if got.AvailableCount() != 3 {
		t.Errorf("Expected 3 available entries, got %d", got.AvailableCount())
	}
}

func TestEntryUnmarshalRejectsUnknownCapability(t *testing.T) {
	raw := `{"provider":"x","capability":"telemetry","result":{"a":1},"fetched_at":"2026-01-02T00:00:00Z"}`
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err == nil {
		t.Fatal("Expected an error for an unknown capability")
	}
}

func TestEntryUnmarshalNullResult(t *testing.T) {
	raw := `{"provider":"x","capability":"price","result":null,"fetched_at":"2026-01-02T00:00:00Z"}`
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.OK() {
		t.Error("Expected a null result to leave the entry unavailable")
	}
}
