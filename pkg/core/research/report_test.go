package research

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/debate"
)

// Stored reports are decoded back through the same path the report
// repository uses, including the typed results behind the bundle entries.
func TestReportJSONRoundTrip(t *testing.T) {
	coord, err := NewCoordinator(minimalProviders(t), scriptedFullDebate(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	report, err := coord.Research(context.Background(), "NVDA", ProfileMinimal)
	if err != nil {
		t.Fatalf("Research failed: %v", err)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got.ID != report.ID || got.Subject != report.Subject {
		t.Errorf("Expected identity %s/%s, got %s/%s", report.ID, report.Subject, got.ID, got.Subject)
	}
	if got.Conviction != report.Conviction || got.Action != report.Action {
		t.Errorf("Expected conviction %d/%s, got %d/%s", report.Conviction, report.Action, got.Conviction, got.Action)
	}
	if got.Verdict.Winner != debate.RoleProponent {
		t.Errorf("Expected proponent winner, got %s", got.Verdict.Winner)
	}
	if got.Bundle == nil {
		t.Fatal("Expected the bundle to survive the round trip")
	}
	if got.Bundle.AvailableCount() != 3 {
		t.Errorf("Expected 3 available entries, got %d", got.Bundle.AvailableCount())
	}
	quote, ok := got.Bundle.Quote()
	if !ok {
		t.Fatal("Expected a typed price quote after decoding")
	}
	if quote.Price != 500 {
		t.Errorf("Expected price 500, got %v", quote.Price)
	}
	fin, ok := got.Bundle.Financials()
	if !ok {
		t.Fatal("Expected typed fundamentals after decoding")
	}
	if fin.PERatio != 40 {
		t.Errorf("Expected P/E 40, got %v", fin.PERatio)
	}
}
