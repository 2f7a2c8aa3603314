package debate

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

func testBundle(price float64) *signal.Bundle {
	b := &signal.Bundle{Subject: "NVDA", Entries: make(map[string]signal.Entry)}
	if price > 0 {
		b.Entries["price"] = signal.Entry{
			Provider:   "price",
			Capability: signal.CapPrice,
			Result:     signal.PriceQuote{Symbol: "NVDA", Price: price},
		}
	}
	return b
}

const validProCaseJSON = `{
	"thesis": "Momentum and margins point up.",
	"evidence": [
		{"claim": "Profit margin above 20%", "citation": "profit_margin"},
		{"claim": "Institutional buying detected", "citation": "institutional_flow"},
		{"claim": "Positive EPS", "citation": "eps"}
	],
	"target_value": 650
}`

func TestCaseBuilderBuildsValidCase(t *testing.T) {
	gen := llm.NewScriptedGenerator("").Reply("target ABOVE the current value", validProCaseJSON)
	cb := NewCaseBuilder(gen, zerolog.Nop())

	c, err := cb.Build(context.Background(), RoleProponent, testBundle(500), []specialist.Score{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.Role != RoleProponent {
		t.Errorf("Expected proponent role, got %s", c.Role)
	}
	if len(c.Evidence) != 3 {
		t.Errorf("Expected 3 evidence entries, got %d", len(c.Evidence))
	}
	if c.TargetValue != 650 {
		t.Errorf("Expected target 650, got %.1f", c.TargetValue)
	}
	if c.DirectionConflict {
		t.Error("Target above price should not be a direction conflict for the proponent")
	}
}

func TestCaseBuilderRejectsTooFewEvidence(t *testing.T) {
	bad := `{"thesis": "Up.", "evidence": [{"claim": "one", "citation": "price"}], "target_value": 650}`
	gen := llm.NewScriptedGenerator(bad)
	cb := NewCaseBuilder(gen, zerolog.Nop())

	if _, err := cb.Build(context.Background(), RoleProponent, testBundle(500), nil); err == nil {
		t.Fatal("Expected error for insufficient evidence, got nil")
	}
}

func TestCaseBuilderRejectsEmptyThesis(t *testing.T) {
	bad := `{"thesis": "", "evidence": [
		{"claim": "a", "citation": "x"}, {"claim": "b", "citation": "y"}, {"claim": "c", "citation": "z"}
	], "target_value": 650}`
	gen := llm.NewScriptedGenerator(bad)
	cb := NewCaseBuilder(gen, zerolog.Nop())

	if _, err := cb.Build(context.Background(), RoleProponent, testBundle(500), nil); err == nil {
		t.Fatal("Expected error for empty thesis, got nil")
	}
}

func TestCaseBuilderTruncatesExcessEvidence(t *testing.T) {
	long := `{"thesis": "Up.", "evidence": [
		{"claim": "a", "citation": "1"}, {"claim": "b", "citation": "2"}, {"claim": "c", "citation": "3"},
		{"claim": "d", "citation": "4"}, {"claim": "e", "citation": "5"}, {"claim": "f", "citation": "6"},
		{"claim": "g", "citation": "7"}
	], "target_value": 650}`
	gen := llm.NewScriptedGenerator(long)
	cb := NewCaseBuilder(gen, zerolog.Nop())

	c, err := cb.Build(context.Background(), RoleProponent, testBundle(500), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(c.Evidence) != 5 {
		t.Errorf("Expected evidence truncated to 5, got %d", len(c.Evidence))
	}
}

func TestCaseBuilderFlagsDirectionConflict(t *testing.T) {
	// Proponent target below the current price: flagged, never inverted.
	conflicted := `{"thesis": "Up, allegedly.", "evidence": [
		{"claim": "a", "citation": "1"}, {"claim": "b", "citation": "2"}, {"claim": "c", "citation": "3"}
	], "target_value": 400}`
	gen := llm.NewScriptedGenerator(conflicted)
	cb := NewCaseBuilder(gen, zerolog.Nop())

	c, err := cb.Build(context.Background(), RoleProponent, testBundle(500), nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !c.DirectionConflict {
		t.Error("Expected direction conflict flag for a bull target below the price")
	}
	if c.TargetValue != 400 {
		t.Errorf("Target must be preserved as cited, got %.1f", c.TargetValue)
	}
}

func TestCaseBuilderUnparseableOutput(t *testing.T) {
	gen := llm.NewScriptedGenerator("I would rather write prose about this stock.")
	cb := NewCaseBuilder(gen, zerolog.Nop())

	if _, err := cb.Build(context.Background(), RoleOpponent, testBundle(500), nil); err == nil {
		t.Fatal("Expected error for unparseable case output, got nil")
	}
}
