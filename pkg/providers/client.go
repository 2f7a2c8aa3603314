// Package providers implements the market, news, and social signal providers
// that feed the research gateway.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"agentic_research/pkg/core/signal"
)

const (
	// DefaultBaseURL is the base URL for the market data API.
	DefaultBaseURL = "https://api.marketsignal.dev"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5
)

// Client is a shared HTTP client for the market data API. All providers
// backed by the API go through it so rate limiting is enforced globally.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new market data API client. An empty apiKey falls back
// to the MARKET_DATA_API_KEY environment variable.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	if apiKey == "" {
		apiKey = os.Getenv("MARKET_DATA_API_KEY")
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request and classifies failures so the gateway can
// decide what is worth retrying.
func (c *Client) get(ctx context.Context, provider, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return classified(provider, signal.ClassRateLimited, err)
	}

	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return classified(provider, signal.ClassUpstream, err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("provider", provider).Str("url", c.baseURL+path).Msg("market data request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return classified(provider, signal.ClassTimeout, err)
		}
		return classified(provider, signal.ClassUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return classified(provider, signal.ClassRateLimited, fmt.Errorf("status %d from %s", resp.StatusCode, path))
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		return classified(provider, signal.ClassBadSubject, fmt.Errorf("status %d from %s: %s", resp.StatusCode, path, string(body)))
	default:
		body, _ := io.ReadAll(resp.Body)
		return classified(provider, signal.ClassUpstream, fmt.Errorf("status %d from %s: %s", resp.StatusCode, path, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return classified(provider, signal.ClassUpstream, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func classified(provider string, class signal.FailureClass, err error) error {
	return &signal.ProviderError{Provider: provider, Class: class, Err: err}
}
