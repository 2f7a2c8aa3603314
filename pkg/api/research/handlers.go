package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agentic_research/pkg/core/research"
	"agentic_research/pkg/render"
)

type StartResearchRequest struct {
	Subject string `json:"subject"`
	Profile string `json:"profile"` // "minimal", "standard", or "exhaustive"
}

type StartResearchResponse struct {
	SessionID string `json:"session_id"`
}

// ReportArchive reads back persisted reports. A nil archive disables the
// history endpoint and the stored-report fallback.
type ReportArchive interface {
	Load(ctx context.Context, id string) (*research.Report, error)
	RecentForSubject(ctx context.Context, subject string, limit int) ([]*research.Report, error)
}

// Handlers exposes the research engine over HTTP.
type Handlers struct {
	manager *research.Manager
	archive ReportArchive
}

// NewHandlers wires the handler set to a session manager and an optional
// report archive.
func NewHandlers(manager *research.Manager, archive ReportArchive) *Handlers {
	return &Handlers{manager: manager, archive: archive}
}

// Register mounts all routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/research/start", h.HandleStart)
	mux.HandleFunc("/api/research/stream", h.HandleStream)
	mux.HandleFunc("/api/research/report", h.HandleReport)
	mux.HandleFunc("/api/research/history", h.HandleHistory)
	mux.HandleFunc("/api/research/active", h.HandleActive)
}

// HandleStart launches a background research session.
func (h *Handlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StartResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.Subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}
	profile := research.Profile(req.Profile)
	if req.Profile == "" {
		profile = research.ProfileStandard
	}

	id, err := h.manager.Start(req.Subject, profile)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to start research: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StartResearchResponse{SessionID: id})
}

// HandleStream provides an SSE stream of session events, including history.
func (h *Handlers) HandleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Content-Type", "text/event-stream")

	sessionID := r.URL.Query().Get("id")
	if sessionID == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	session, exists := h.manager.Get(sessionID)
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	eventChan, history := session.Subscribe()
	defer session.Unsubscribe(eventChan)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	for _, ev := range history {
		if err := sendSSE(w, flusher, ev); err != nil {
			return
		}
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	notify := r.Context().Done()

	for {
		select {
		case ev, open := <-eventChan:
			if !open {
				status, _, _ := session.Snapshot()
				sendSSEEvent(w, flusher, "status", string(status))
				return
			}
			if err := sendSSE(w, flusher, ev); err != nil {
				return
			}

		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()

		case <-notify:
			return
		}
	}
}

// HandleReport returns a finished session's report, as JSON by default or as
// markdown/html via the format query parameter.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sessionID := r.URL.Query().Get("id")
	if sessionID == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	session, exists := h.manager.Get(sessionID)
	if !exists {
		// Sessions are evicted after they go idle; persisted reports
		// stay retrievable through the archive.
		if h.archive != nil {
			if report, err := h.archive.Load(r.Context(), sessionID); err == nil {
				h.writeReport(w, r, report)
				return
			}
		}
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	status, report, sessionErr := session.Snapshot()
	switch status {
	case research.SessionRunning:
		http.Error(w, "Research still in progress", http.StatusAccepted)
		return
	case research.SessionFailed:
		http.Error(w, fmt.Sprintf("Research failed: %v", sessionErr), http.StatusUnprocessableEntity)
		return
	}

	h.writeReport(w, r, report)
}

func (h *Handlers) writeReport(w http.ResponseWriter, r *http.Request, report *research.Report) {
	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		fmt.Fprint(w, render.Markdown(report))
	case "html":
		html, err := render.HTML(report)
		if err != nil {
			http.Error(w, "Failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// HandleHistory lists the most recent stored reports for a subject.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if h.archive == nil {
		http.Error(w, "Report archive not configured", http.StatusNotFound)
		return
	}

	subject := r.URL.Query().Get("subject")
	if subject == "" {
		http.Error(w, "Missing 'subject' query parameter", http.StatusBadRequest)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid 'limit' query parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := h.archive.RecentForSubject(r.Context(), subject, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load reports: %v", err), http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []*research.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]*research.Report{"reports": reports})
}

// HandleActive returns the IDs of running sessions.
func (h *Handlers) HandleActive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	active := h.manager.Active()
	if active == nil {
		active = []string{}
	}
	json.NewEncoder(w).Encode(map[string][]string{"active_sessions": active})
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
	return nil
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
