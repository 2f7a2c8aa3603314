package signal

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultCallTimeout = 10 * time.Second
	defaultMaxRetries  = 2
	retryBackoff       = 250 * time.Millisecond
)

// Gateway fans out to every provider in a set concurrently and joins the
// results into one Bundle. A provider failing or timing out never aborts the
// other calls; it only produces an unavailable entry.
type Gateway struct {
	set         *ProviderSet
	callTimeout time.Duration
	maxRetries  int
	log         zerolog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithCallTimeout sets the per-provider call deadline.
func WithCallTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.callTimeout = d }
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) GatewayOption {
	return func(g *Gateway) { g.maxRetries = n }
}

// NewGateway creates a Gateway over the given provider set.
func NewGateway(set *ProviderSet, log zerolog.Logger, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		set:         set,
		callTimeout: defaultCallTimeout,
		maxRetries:  defaultMaxRetries,
		log:         log.With().Str("component", "gateway").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Gather invokes every provider concurrently and returns a bundle with
// exactly one entry per provider. When ctx expires, in-flight calls are
// abandoned and recorded as unavailable; results already completed are kept.
func (g *Gateway) Gather(ctx context.Context, subject string) *Bundle {
	bundle := &Bundle{
		Subject:    subject,
		Entries:    make(map[string]Entry, g.set.Len()),
		GatheredAt: time.Now().UTC(),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, p := range g.set.Providers() {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			entry := g.fetchOne(ctx, p, subject)
			mu.Lock()
			bundle.Entries[p.Name()] = entry
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	g.log.Info().
		Str("subject", subject).
		Int("providers", g.set.Len()).
		Int("available", bundle.AvailableCount()).
		Msg("signal gathering complete")
	return bundle
}

// fetchOne runs a single provider call with its own deadline and a bounded
// retry loop for transient failure classes.
func (g *Gateway) fetchOne(ctx context.Context, p Provider, subject string) Entry {
	entry := Entry{
		Provider:   p.Name(),
		Capability: p.Capability(),
	}

	var lastErr *ProviderError
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				lastErr = Classify(p.Name(), ctx.Err())
			case <-time.After(retryBackoff):
			}
			if ctx.Err() != nil {
				break
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		result, err := p.Fetch(callCtx, subject)
		cancel()

		if err == nil {
			entry.Result = result
			entry.FetchedAt = time.Now().UTC()
			return entry
		}

		lastErr = Classify(p.Name(), err)
		if !lastErr.Retryable() || ctx.Err() != nil {
			break
		}
		g.log.Debug().
			Str("provider", p.Name()).
			Int("attempt", attempt+1).
			Str("class", string(lastErr.Class)).
			Msg("retrying transient provider failure")
	}

	g.log.Warn().
		Str("provider", p.Name()).
		Str("subject", subject).
		Err(lastErr).
		Msg("provider unavailable")
	entry.Unavailable = lastErr.Error()
	entry.FetchedAt = time.Now().UTC()
	return entry
}
