package debate

import "fmt"

// System prompts keyed by role. The proponent argues for acting on the
// subject, the opponent against; the arbiter weighs both against the raw
// evidence.
var systemPrompts = map[Role]string{
	RoleProponent: `You are an analyst building the strongest possible case FOR acting on the subject.
Be specific, cite the supplied data fields by name, and make the argument compelling.
Never invent numbers that are not in the supplied data.`,

	RoleOpponent: `You are an analyst building the strongest possible case AGAINST acting on the subject.
Be specific, cite the supplied data fields by name, and play devil's advocate.
Never invent numbers that are not in the supplied data.`,
}

const arbiterSystemPrompt = `You are an impartial judge evaluating a structured debate about a security.
Weigh the arguments against the RAW market data supplied, not rhetoric alone.
Consider strength of evidence, data support, logical consistency, and risk/reward balance.`

// casePrompt asks one side for its structured opening argument.
func casePrompt(role Role, subject, signalDigest, scoreDigest string) string {
	direction := "why this is worth acting on, with a price target ABOVE the current value"
	if role == RoleOpponent {
		direction = "why this should be avoided, with a price target BELOW the current value"
	}
	return fmt.Sprintf(`Subject: %s

Market data:
%s

Specialist analysis:
%s

Build your case for %s.
Respond as JSON with exactly these fields:
{
  "thesis": "<one powerful sentence>",
  "evidence": [{"claim": "<point backed by a data field>", "citation": "<the data field it relies on>"}],
  "target_value": <number>
}
Provide between 3 and 5 evidence entries. Every citation must name a supplied data field.`,
		subject, signalDigest, scoreDigest, direction)
}

// rebuttalPrompt asks one side to answer the opposing side's latest statement.
func rebuttalPrompt(role Role, subject, ownCase, opposingCase, opposingLatest, transcript string) string {
	stance := "show why the case for acting still wins"
	if role == RoleOpponent {
		stance = "show why the risks still outweigh the rewards"
	}
	return fmt.Sprintf(`Subject: %s

Your original case:
%s

Opposing case:
%s

Debate so far:
%s

The opposing side's latest statement:
%s

Respond to their strongest points. Be specific, use the data, acknowledge what is valid, and %s.
Keep it under 200 words.`,
		subject, ownCase, opposingCase, transcript, opposingLatest, stance)
}

// verdictPrompt asks the arbiter for a structured decision.
func verdictPrompt(subject, signalDigest, proCase, oppCase, transcript string) string {
	return fmt.Sprintf(`Subject: %s

Proponent's opening case:
%s

Opponent's opening case:
%s

Debate transcript:
%s

Actual market data:
%s

Decide the debate. Respond as JSON with exactly these fields:
{
  "winner": "proponent" | "opponent",
  "confidence": <integer 0-100>,
  "rationale": "<one sentence naming the winning side's strongest point>"
}`,
		subject, proCase, oppCase, transcript, signalDigest)
}
