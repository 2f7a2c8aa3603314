package signal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubProvider struct {
	name   string
	cap    Capability
	result Result
	err    error
	delay  time.Duration

	mu    sync.Mutex
	calls int
}

func (p *stubProvider) Name() string           { return p.name }
func (p *stubProvider) Capability() Capability { return p.cap }

func (p *stubProvider) Fetch(ctx context.Context, subject string) (Result, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func mustSet(t *testing.T, providers ...Provider) *ProviderSet {
	t.Helper()
	set, err := NewProviderSet(providers...)
	if err != nil {
		t.Fatalf("NewProviderSet failed: %v", err)
	}
	return set
}

func TestGatherOneEntryPerProvider(t *testing.T) {
	set := mustSet(t,
		&stubProvider{name: "price", cap: CapPrice, result: PriceQuote{Symbol: "NVDA", Price: 500}},
		&stubProvider{name: "fundamentals", cap: CapFundamentals, result: Fundamentals{PERatio: 40}},
		&stubProvider{name: "news", cap: CapNews, err: &ProviderError{Provider: "news", Class: ClassUpstream, Err: errors.New("service down")}},
	)

	g := NewGateway(set, zerolog.Nop())
	bundle := g.Gather(context.Background(), "NVDA")

	if len(bundle.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(bundle.Entries))
	}
	if bundle.AvailableCount() != 2 {
		t.Errorf("Expected 2 available entries, got %d", bundle.AvailableCount())
	}

	news, ok := bundle.Entries["news"]
	if !ok {
		t.Fatal("Expected an entry for the failed provider")
	}
	if news.OK() {
		t.Error("Failed provider entry should not be OK")
	}
	if news.Unavailable == "" {
		t.Error("Failed provider entry should carry an unavailable reason")
	}

	if quote, ok := bundle.Quote(); !ok || quote.Price != 500 {
		t.Errorf("Expected quote at 500, got %+v (ok=%v)", quote, ok)
	}
}

func TestGatherRetriesTransientFailuresOnly(t *testing.T) {
	throttled := &stubProvider{
		name: "social",
		cap:  CapSocialSentiment,
		err:  &ProviderError{Provider: "social", Class: ClassRateLimited, Err: errors.New("429")},
	}
	broken := &stubProvider{
		name: "flow",
		cap:  CapInstitutionalFlow,
		err:  &ProviderError{Provider: "flow", Class: ClassUpstream, Err: errors.New("500")},
	}

	g := NewGateway(mustSet(t, throttled, broken), zerolog.Nop(), WithMaxRetries(2))
	g.Gather(context.Background(), "NVDA")

	if got := throttled.callCount(); got != 3 {
		t.Errorf("Expected 3 attempts for rate-limited provider, got %d", got)
	}
	if got := broken.callCount(); got != 1 {
		t.Errorf("Expected 1 attempt for upstream failure, got %d", got)
	}
}

func TestGatherContextExpiryRecordsUnavailable(t *testing.T) {
	slow := &stubProvider{name: "price", cap: CapPrice, result: PriceQuote{Price: 100}, delay: 500 * time.Millisecond}
	fast := &stubProvider{name: "news", cap: CapNews, result: NewsDigest{}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	g := NewGateway(mustSet(t, slow, fast), zerolog.Nop(), WithMaxRetries(0))
	bundle := g.Gather(ctx, "NVDA")

	if len(bundle.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(bundle.Entries))
	}
	if bundle.Entries["price"].OK() {
		t.Error("Slow provider should be unavailable after context expiry")
	}
	if !bundle.Entries["news"].OK() {
		t.Error("Fast provider should still have completed")
	}
}

func TestNewProviderSetRejectsDuplicates(t *testing.T) {
	_, err := NewProviderSet(
		&stubProvider{name: "price", cap: CapPrice},
		&stubProvider{name: "price", cap: CapPrice},
	)
	if err == nil {
		t.Fatal("Expected duplicate name error, got nil")
	}
}

func TestNewProviderSetRejectsEmpty(t *testing.T) {
	if _, err := NewProviderSet(); err == nil {
		t.Fatal("Expected error for empty provider set, got nil")
	}
}

func TestSelectCoversRequestedCapabilities(t *testing.T) {
	set := mustSet(t,
		&stubProvider{name: "price", cap: CapPrice},
		&stubProvider{name: "news", cap: CapNews},
		&stubProvider{name: "flow", cap: CapInstitutionalFlow},
	)

	selected, err := set.Select([]Capability{CapPrice, CapNews})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if selected.Len() != 2 {
		t.Errorf("Expected 2 selected providers, got %d", selected.Len())
	}

	if _, err := set.Select([]Capability{CapShortInterest}); err == nil {
		t.Error("Expected error selecting an uncovered capability")
	}
}

func TestClassifyDefaultsAndDeadlines(t *testing.T) {
	pe := Classify("p", fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	if pe.Class != ClassTimeout {
		t.Errorf("Expected timeout class, got %s", pe.Class)
	}
	if !pe.Retryable() {
		t.Error("Timeout should be retryable")
	}

	pe = Classify("p", errors.New("boom"))
	if pe.Class != ClassUpstream {
		t.Errorf("Expected upstream class, got %s", pe.Class)
	}
	if pe.Retryable() {
		t.Error("Upstream failure should not be retryable")
	}
}
