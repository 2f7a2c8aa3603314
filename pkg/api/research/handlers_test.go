package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/research"
	"agentic_research/pkg/core/signal"
	"agentic_research/pkg/providers"
)

type stubArchive struct {
	reports map[string]*research.Report
	recent  []*research.Report
	err     error
}

func (a *stubArchive) Load(ctx context.Context, id string) (*research.Report, error) {
	if a.err != nil {
		return nil, a.err
	}
	r, ok := a.reports[id]
	if !ok {
		return nil, errors.New("no report found")
	}
	return r, nil
}

func (a *stubArchive) RecentForSubject(ctx context.Context, subject string, limit int) ([]*research.Report, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.recent, nil
}

func testManager(t *testing.T) *research.Manager {
	t.Helper()
	set, err := signal.NewProviderSet(
		providers.NewStaticProvider("price", signal.PriceQuote{Symbol: "NVDA", Price: 500}),
	)
	if err != nil {
		t.Fatalf("provider set: %v", err)
	}
	coord, err := research.NewCoordinator(set, llm.NewScriptedGenerator("ok"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	return research.NewManager(coord, nil, zerolog.Nop())
}

func TestHandleHistoryReturnsStoredReports(t *testing.T) {
	archive := &stubArchive{recent: []*research.Report{
		{ID: "r1", Subject: "NVDA"},
		{ID: "r2", Subject: "NVDA"},
	}}
	h := NewHandlers(testManager(t), archive)

	req := httptest.NewRequest("GET", "/api/research/history?subject=NVDA", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string][]*research.Report
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	reports := body["reports"]
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "r1" {
		t.Errorf("Expected first report r1, got %s", reports[0].ID)
	}
}

func TestHandleHistoryWithoutArchive(t *testing.T) {
	h := NewHandlers(testManager(t), nil)

	req := httptest.NewRequest("GET", "/api/research/history?subject=NVDA", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != 404 {
		t.Errorf("Expected status 404 without an archive, got %d", rec.Code)
	}
}

func TestHandleHistoryRequiresSubject(t *testing.T) {
	h := NewHandlers(testManager(t), &stubArchive{})

	req := httptest.NewRequest("GET", "/api/research/history", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)

	if rec.Code != 400 {
		t.Errorf("Expected status 400 without a subject, got %d", rec.Code)
	}
}

func TestHandleReportFallsBackToArchive(t *testing.T) {
	archive := &stubArchive{reports: map[string]*research.Report{
		"r1": {ID: "r1", Subject: "NVDA"},
	}}
	h := NewHandlers(testManager(t), archive)

	req := httptest.NewRequest("GET", "/api/research/report?id=r1", nil)
	rec := httptest.NewRecorder()
	h.HandleReport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected status 200 from the archive fallback, got %d", rec.Code)
	}
	var got research.Report
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Subject != "NVDA" {
		t.Errorf("Expected subject NVDA, got %s", got.Subject)
	}

	req = httptest.NewRequest("GET", "/api/research/report?id=missing", nil)
	rec = httptest.NewRecorder()
	h.HandleReport(rec, req)
	if rec.Code != 404 {
		t.Errorf("Expected status 404 for an unknown id, got %d", rec.Code)
	}
}
