// Package render turns research reports into human-readable documents.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"agentic_research/pkg/core/debate"
	"agentic_research/pkg/core/research"
)

// Markdown renders the full whiteboard view of a report.
func Markdown(r *research.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Research Report\n\n", r.Subject)
	fmt.Fprintf(&b, "> %s\n\n", r.Headline)
	fmt.Fprintf(&b, "- **Profile:** %s\n", r.Profile)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "- **Conviction:** %d/10 (%s)\n", r.Conviction, strings.ReplaceAll(string(r.Action), "_", " "))
	fmt.Fprintf(&b, "- **Risk:** valuation %s, volatility %s, exposure %s\n", r.Risk.Valuation, r.Risk.Volatility, r.Risk.Exposure)
	if r.CurrentValue > 0 {
		fmt.Fprintf(&b, "- **Price:** %.2f", r.CurrentValue)
		if r.TargetValue > 0 {
			fmt.Fprintf(&b, " (target %.2f, %+.1f%%)", r.TargetValue, r.UpsidePct)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Specialist Scores\n\n")
	b.WriteString("| Domain | Score | Rationale |\n|---|---|---|\n")
	for _, s := range r.Scores {
		fmt.Fprintf(&b, "| %s | %.1f | %s |\n", s.Domain, s.Value, s.Rationale)
	}
	b.WriteString("\n")

	writeCase(&b, "Bull Case", r.Proponent.Thesis, r.Proponent.Evidence, r.Proponent.DirectionConflict)
	writeCase(&b, "Bear Case", r.Opponent.Thesis, r.Opponent.Evidence, r.Opponent.DirectionConflict)

	if len(r.Transcript) > 0 {
		fmt.Fprintf(&b, "## Debate (%d rounds)\n\n", r.RoundsCompleted)
		for _, reb := range r.Transcript {
			fmt.Fprintf(&b, "**Round %d, %s:** %s\n\n", reb.Round, reb.Role, reb.Statement)
		}
	}

	b.WriteString("## Verdict\n\n")
	fmt.Fprintf(&b, "**Winner:** %s (confidence %d%%)\n\n%s\n\n", r.Verdict.Winner, r.Verdict.Confidence, r.Verdict.Rationale)

	fmt.Fprintf(&b, "## Evidence Coverage\n\n%d of %d providers reported", r.Bundle.AvailableCount(), len(r.Bundle.Entries))
	var missing []string
	for _, name := range r.Bundle.ProviderNames() {
		if !r.Bundle.Entries[name].OK() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "; unavailable: %s", strings.Join(missing, ", "))
	}
	b.WriteString(".\n")

	return b.String()
}

func writeCase(b *strings.Builder, title, thesis string, evidence []debate.Evidence, conflict bool) {
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, thesis)
	for _, ev := range evidence {
		fmt.Fprintf(b, "- %s (%s)\n", ev.Claim, ev.Citation)
	}
	if conflict {
		b.WriteString("\n*Note: cited target conflicts with the assigned direction.*\n")
	}
	b.WriteString("\n")
}

// HTML renders the markdown view through goldmark with table support.
func HTML(r *research.Report) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var out bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &out); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return out.String(), nil
}
