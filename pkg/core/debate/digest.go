package debate

import (
	"fmt"
	"strings"

	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/core/specialist"
)

// BundleDigest renders the gathered evidence as plain text for generator
// prompts. Unavailable entries are listed as such so the generators argue
// from what was actually gathered.
func BundleDigest(b *signal.Bundle) string {
	var parts []string

	if quote, ok := b.Quote(); ok {
		parts = append(parts, fmt.Sprintf("Current Price: $%.2f (%+.2f%%)", quote.Price, quote.ChangePct))
	}
	if fin, ok := b.Financials(); ok {
		parts = append(parts,
			fmt.Sprintf("P/E Ratio: %.1f", fin.PERatio),
			fmt.Sprintf("Profit Margin: %.1f%%", fin.ProfitMargin),
			fmt.Sprintf("Revenue Growth: %.1f%%", fin.RevenueGrowth),
			fmt.Sprintf("EPS: %.2f", fin.EPS),
			fmt.Sprintf("Debt/Equity: %.2f", fin.DebtToEquity),
		)
	}
	for _, s := range b.Sentiments() {
		parts = append(parts, fmt.Sprintf("%s Sentiment: %s (%d mentions, %.0f%% bullish)",
			strings.Title(s.Source), s.Label, s.MentionVolume, s.Score*100))
	}
	if flow, ok := b.Flow(); ok {
		parts = append(parts, fmt.Sprintf("Institutional 13F Activity: %s (%d filers, net %.0f shares)",
			flow.ActivityLevel, flow.FilerCount, flow.NetShares))
	}
	if unusual, ok := b.Unusual(); ok && unusual.Detected {
		parts = append(parts, fmt.Sprintf("Unusual Options Activity: %s (%s)",
			unusual.Bias, strings.Join(unusual.Patterns, ", ")))
	}
	if insider, ok := b.Insider(); ok {
		parts = append(parts, fmt.Sprintf("Insider Activity: %d net buyers, net %.0f shares", insider.NetBuyers, insider.NetShares))
	}
	if ratings, ok := b.Ratings(); ok {
		parts = append(parts, fmt.Sprintf("Analyst Ratings: %d buy / %d hold / %d sell, mean target $%.2f",
			ratings.Buy, ratings.Hold, ratings.Sell, ratings.MeanTarget))
	}
	if news, ok := b.News(); ok {
		for i, h := range news.Headlines {
			if i >= 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("Headline: %s (%s)", h.Title, h.Source))
		}
	}

	for _, name := range b.ProviderNames() {
		e := b.Entries[name]
		if !e.OK() {
			parts = append(parts, fmt.Sprintf("[%s unavailable]", name))
		}
	}

	if len(parts) == 0 {
		return "No signals available."
	}
	return strings.Join(parts, "\n")
}

// ScoreDigest renders the specialist scores for generator prompts.
func ScoreDigest(scores []specialist.Score) string {
	var sb strings.Builder
	for _, s := range scores {
		fmt.Fprintf(&sb, "- %s: %.1f/10 (%s)\n", strings.Title(string(s.Domain)), s.Value, s.Rationale)
	}
	return sb.String()
}

// renderCase formats a case as prompt context for rebuttals and judging.
func renderCase(c Case) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Thesis: %s\n", c.Thesis)
	for _, ev := range c.Evidence {
		fmt.Fprintf(&sb, "- %s [%s]\n", ev.Claim, ev.Citation)
	}
	fmt.Fprintf(&sb, "Target: $%.2f\n", c.TargetValue)
	if c.DirectionConflict {
		sb.WriteString("Note: target direction conflicts with this side's thesis.\n")
	}
	return sb.String()
}

// renderTranscript formats the transcript for judge prompts.
func renderTranscript(t Transcript) string {
	if len(t) == 0 {
		return "No rebuttal rounds."
	}
	var sb strings.Builder
	for _, r := range t {
		fmt.Fprintf(&sb, "Round %d %s: %s\n", r.Round, r.Role, r.Statement)
	}
	return sb.String()
}
