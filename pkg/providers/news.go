package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"agentic_research/pkg/core/signal"
)

const (
	// DefaultNewsBaseURL is the headline index page, one page per symbol.
	DefaultNewsBaseURL = "https://finviz.com/quote.ashx?t="

	maxHeadlines = 20
)

// NewsProvider scrapes recent headlines from the public quote page. Headlines
// are evidence for the debaters, not structured data, so scraping is enough.
type NewsProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewNewsProvider creates a headline scraper. An empty baseURL uses the
// default index.
func NewNewsProvider(baseURL string, httpClient *http.Client) *NewsProvider {
	if baseURL == "" {
		baseURL = DefaultNewsBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &NewsProvider{baseURL: baseURL, httpClient: httpClient}
}

func (p *NewsProvider) Name() string                  { return "headline_news" }
func (p *NewsProvider) Capability() signal.Capability { return signal.CapNews }

func (p *NewsProvider) Fetch(ctx context.Context, subject string) (signal.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+subject, nil)
	if err != nil {
		return nil, signal.Classify(p.Name(), err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; research-bot)")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, signal.Classify(p.Name(), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, &signal.ProviderError{
			Provider: p.Name(),
			Class:    signal.ClassBadSubject,
			Err:      fmt.Errorf("no quote page for %s", subject),
		}
	case http.StatusTooManyRequests:
		return nil, &signal.ProviderError{
			Provider: p.Name(),
			Class:    signal.ClassRateLimited,
			Err:      fmt.Errorf("headline index throttled"),
		}
	default:
		return nil, &signal.ProviderError{
			Provider: p.Name(),
			Class:    signal.ClassUpstream,
			Err:      fmt.Errorf("headline index returned status %d", resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, signal.Classify(p.Name(), fmt.Errorf("failed to parse headline page: %w", err))
	}

	digest := signal.NewsDigest{}
	doc.Find("#news-table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		link := row.Find("a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		source := strings.TrimSpace(row.Find("span").Last().Text())

		digest.Headlines = append(digest.Headlines, signal.Headline{
			Title:     title,
			URL:       href,
			Source:    source,
			Published: parseHeadlineTime(row.Find("td").First().Text()),
		})
		return len(digest.Headlines) < maxHeadlines
	})

	if len(digest.Headlines) == 0 {
		return nil, &signal.ProviderError{
			Provider: p.Name(),
			Class:    signal.ClassUpstream,
			Err:      fmt.Errorf("headline table missing or empty for %s", subject),
		}
	}
	return digest, nil
}

// parseHeadlineTime handles the index's two timestamp shapes: "Jan-02-06
// 03:04PM" on the first row of a day and a bare "03:04PM" on the rest.
// Unparseable cells fall back to now.
func parseHeadlineTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("Jan-02-06 03:04PM", raw); err == nil {
		return t
	}
	if t, err := time.Parse("03:04PM", raw); err == nil {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	}
	return time.Now().UTC()
}
