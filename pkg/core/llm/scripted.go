package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentic_research/pkg/core/textutil"
)

// ScriptedGenerator replays canned responses in order, with optional
// simulated latency. It backs simulation mode and deterministic tests;
// replies are matched by a substring of the prompt, falling back to a
// default.
type ScriptedGenerator struct {
	mu       sync.Mutex
	replies  []scriptedReply
	fallback string
	latency  time.Duration
	calls    int
}

type scriptedReply struct {
	match string
	text  string
	err   error
}

// NewScriptedGenerator creates an empty scripted generator whose fallback
// reply is returned for unmatched prompts.
func NewScriptedGenerator(fallback string) *ScriptedGenerator {
	return &ScriptedGenerator{fallback: fallback}
}

// Reply registers a canned response for prompts containing match.
func (g *ScriptedGenerator) Reply(match, text string) *ScriptedGenerator {
	g.replies = append(g.replies, scriptedReply{match: match, text: text})
	return g
}

// Fail registers a canned error for prompts containing match.
func (g *ScriptedGenerator) Fail(match string, err error) *ScriptedGenerator {
	g.replies = append(g.replies, scriptedReply{match: match, err: err})
	return g
}

// WithLatency adds simulated thinking time to every call.
func (g *ScriptedGenerator) WithLatency(d time.Duration) *ScriptedGenerator {
	g.latency = d
	return g
}

// Calls returns how many generation calls were made.
func (g *ScriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *ScriptedGenerator) GenerateText(ctx context.Context, req Request) (string, error) {
	if g.latency > 0 {
		select {
		case <-time.After(g.latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	} else if ctx.Err() != nil {
		return "", ctx.Err()
	}

	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	full := req.System + "\n" + req.Prompt
	for _, r := range g.replies {
		if r.match != "" && strings.Contains(full, r.match) {
			if r.err != nil {
				return "", r.err
			}
			return r.text, nil
		}
	}
	if g.fallback == "" {
		return "", fmt.Errorf("scripted generator has no reply for prompt")
	}
	return g.fallback, nil
}

func (g *ScriptedGenerator) GenerateObject(ctx context.Context, req Request, out interface{}) error {
	text, err := g.GenerateText(ctx, req)
	if err != nil {
		return err
	}
	return textutil.SmartParse(text, out)
}
