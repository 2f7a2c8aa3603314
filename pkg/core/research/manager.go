package research

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReportSink receives completed reports. Implementations live outside the
// engine; a nil sink is valid and means reports are not persisted.
type ReportSink interface {
	SaveReport(ctx context.Context, report *Report) error
}

// SessionStatus enumerates the lifecycle of a background research session.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// Session is one background research call with a replayable event stream.
type Session struct {
	ID        string
	Subject   string
	Profile   Profile
	Status    SessionStatus
	StartedAt time.Time
	UpdatedAt time.Time
	Report    *Report
	Err       error

	events      []Event
	subscribers []chan Event
	mu          sync.RWMutex
}

// Subscribe registers a listener and returns the event history for replay.
func (s *Session) Subscribe() (chan Event, []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 64)
	history := make([]Event, len(s.events))
	copy(history, s.events)

	// A finished session only replays history; the live channel is already
	// closed so streams terminate immediately.
	if s.Status != SessionRunning {
		close(ch)
		return ch, history
	}
	s.subscribers = append(s.subscribers, ch)
	return ch, history
}

// Unsubscribe removes and closes a listener channel.
func (s *Session) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Snapshot returns the session's externally visible state.
func (s *Session) Snapshot() (SessionStatus, *Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status, s.Report, s.Err
}

func (s *Session) broadcast(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.UpdatedAt = time.Now().UTC()
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop for slow listeners rather than blocking the pipeline.
		}
	}
}

func (s *Session) finish(status SessionStatus, report *Report, err error) {
	s.mu.Lock()
	s.Status = status
	s.Report = report
	s.Err = err
	s.UpdatedAt = time.Now().UTC()
	subs := s.subscribers
	s.subscribers = nil
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}

// Manager runs research calls as background sessions and fans progress out
// to stream subscribers. Completed sessions are retained for a day.
type Manager struct {
	coord    *Coordinator
	sink     ReportSink
	sessions map[string]*Session
	mu       sync.RWMutex
	log      zerolog.Logger
}

// NewManager creates a session manager. The sink receives completed reports;
// persistence stays entirely outside the research engine.
func NewManager(coord *Coordinator, sink ReportSink, log zerolog.Logger) *Manager {
	m := &Manager{
		coord:    coord,
		sink:     sink,
		sessions: make(map[string]*Session),
		log:      log.With().Str("component", "research_manager").Logger(),
	}
	go m.cleanup()
	return m
}

// Start launches a background research session and returns its ID.
func (m *Manager) Start(subject string, profile Profile) (string, error) {
	if _, ok := SpecFor(profile); !ok {
		return "", configErr("input", "unknown profile %q", profile)
	}

	id := uuid.New().String()
	session := &Session{
		ID:        id,
		Subject:   subject,
		Profile:   profile,
		Status:    SessionRunning,
		StartedAt: time.Now().UTC(),
	}
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	go m.run(session)
	return id, nil
}

func (m *Manager) run(session *Session) {
	observed := m.coord.withObserver(func(ev Event) { session.broadcast(ev) })

	report, err := observed.Research(context.Background(), session.Subject, session.Profile)
	if err != nil {
		m.log.Warn().Str("session", session.ID).Err(err).Msg("research session failed")
		session.finish(SessionFailed, nil, err)
		return
	}

	if m.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.sink.SaveReport(ctx, report); err != nil {
			m.log.Warn().Str("session", session.ID).Err(err).Msg("report sink rejected report")
		}
		cancel()
	}
	session.finish(SessionCompleted, report, nil)
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Active lists the IDs of currently running sessions.
func (m *Manager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, s := range m.sessions {
		if status, _, _ := s.Snapshot(); status == SessionRunning {
			ids = append(ids, id)
		}
	}
	return ids
}

// cleanup evicts finished sessions older than 24 hours.
func (m *Manager) cleanup() {
	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.RLock()
			done := s.Status != SessionRunning
			stale := time.Since(s.UpdatedAt) > 24*time.Hour
			s.mu.RUnlock()
			if done && stale {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}

// withObserver clones the coordinator with a per-session observer.
func (c *Coordinator) withObserver(obs Observer) *Coordinator {
	clone := *c
	clone.observer = obs
	return &clone
}
