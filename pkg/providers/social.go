package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"agentic_research/pkg/core/signal"
)

// Keyword lists mirror the upstream discussion scanners. Scoring is the
// bullish share of all keyword hits; no hits means neutral.
var (
	forumBullish = []string{"bullish", "moon", "buy", "calls", "rocket", "yolo", "diamond hands", "hodl", "breakout", "pump"}
	forumBearish = []string{"bearish", "puts", "sell", "crash", "dump", "rip", "dead", "overvalued", "short"}

	microblogBullish = []string{"bullish", "long", "buy", "moon", "calls", "breakout", "undervalued"}
	microblogBearish = []string{"bearish", "short", "sell", "puts", "crash", "overvalued", "dump"}
)

type discussionPost struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SentimentProvider derives a sentiment reading from recent discussion posts
// on one social source. The source string decides the capability: "microblog"
// maps to microblog sentiment, anything else to forum sentiment.
type SentimentProvider struct {
	client  *Client
	source  string
	bullish []string
	bearish []string
}

// NewForumSentimentProvider scans investing forum discussions.
func NewForumSentimentProvider(client *Client) *SentimentProvider {
	return &SentimentProvider{client: client, source: "forum", bullish: forumBullish, bearish: forumBearish}
}

// NewMicroblogSentimentProvider scans short-form finance posts.
func NewMicroblogSentimentProvider(client *Client) *SentimentProvider {
	return &SentimentProvider{client: client, source: "microblog", bullish: microblogBullish, bearish: microblogBearish}
}

func (p *SentimentProvider) Name() string { return p.source + "_sentiment" }

func (p *SentimentProvider) Capability() signal.Capability {
	if p.source == "microblog" {
		return signal.CapMicroblogSentiment
	}
	return signal.CapSocialSentiment
}

func (p *SentimentProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	var posts []discussionPost
	params := url.Values{}
	params.Set("limit", "30")
	path := fmt.Sprintf("/v1/discussions/%s/%s", p.source, subject)
	if err := p.client.get(ctx, p.Name(), path, params, &posts); err != nil {
		return nil, err
	}

	score := p.score(posts)
	return signal.SentimentReading{
		Source:        p.source,
		Score:         score,
		Label:         sentimentLabel(score),
		MentionVolume: len(posts),
	}, nil
}

func (p *SentimentProvider) score(posts []discussionPost) float64 {
	var bullish, bearish int
	for _, post := range posts {
		combined := strings.ToLower(post.Title + " " + post.Text)
		for _, w := range p.bullish {
			if strings.Contains(combined, w) {
				bullish++
			}
		}
		for _, w := range p.bearish {
			if strings.Contains(combined, w) {
				bearish++
			}
		}
	}
	total := bullish + bearish
	if total == 0 {
		return 0.5
	}
	return float64(bullish) / float64(total)
}

func sentimentLabel(score float64) string {
	switch {
	case score >= 0.7:
		return "very bullish"
	case score >= 0.55:
		return "bullish"
	case score >= 0.45:
		return "neutral"
	case score >= 0.3:
		return "bearish"
	default:
		return "very bearish"
	}
}
