package research

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func waitForSession(t *testing.T, m *Manager, id string) SessionStatus {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		session, ok := m.Get(id)
		if !ok {
			t.Fatalf("session %s disappeared", id)
		}
		status, _, _ := session.Snapshot()
		if status != SessionRunning {
			return status
		}
		select {
		case <-deadline:
			t.Fatal("session did not finish in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManagerRunsSessionToCompletion(t *testing.T) {
	coord, err := NewCoordinator(minimalProviders(t), scriptedFullDebate(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	m := NewManager(coord, nil, zerolog.Nop())

	id, err := m.Start("NVDA", ProfileMinimal)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if status := waitForSession(t, m, id); status != SessionCompleted {
		t.Fatalf("Expected completed session, got %s", status)
	}

	session, _ := m.Get(id)
	_, report, sessionErr := session.Snapshot()
	if sessionErr != nil {
		t.Errorf("Expected no session error, got %v", sessionErr)
	}
	if report == nil {
		t.Fatal("Completed session must carry a report")
	}
	if report.Subject != "NVDA" {
		t.Errorf("Expected subject NVDA, got %s", report.Subject)
	}
}

func TestManagerSubscribeReplaysHistory(t *testing.T) {
	coord, err := NewCoordinator(minimalProviders(t), scriptedFullDebate(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	m := NewManager(coord, nil, zerolog.Nop())

	id, err := m.Start("NVDA", ProfileMinimal)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForSession(t, m, id)

	session, _ := m.Get(id)
	ch, history := session.Subscribe()
	defer session.Unsubscribe(ch)

	if len(history) == 0 {
		t.Fatal("Expected replayed event history for a finished session")
	}
	if history[len(history)-1].Stage != StageDone {
		t.Errorf("Expected final event stage done, got %s", history[len(history)-1].Stage)
	}

	// The live channel of a finished session closes immediately.
	select {
	case _, open := <-ch:
		if open {
			t.Error("Expected closed channel for a finished session")
		}
	case <-time.After(time.Second):
		t.Error("Channel for a finished session should not block")
	}
}

func TestManagerRejectsUnknownProfile(t *testing.T) {
	coord, err := NewCoordinator(minimalProviders(t), scriptedFullDebate(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	m := NewManager(coord, nil, zerolog.Nop())

	if _, err := m.Start("NVDA", Profile("bogus")); err == nil {
		t.Fatal("Expected error starting a session with an unknown profile")
	}
}

func TestManagerActiveSessions(t *testing.T) {
	coord, err := NewCoordinator(minimalProviders(t), scriptedFullDebate(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCoordinator failed: %v", err)
	}
	m := NewManager(coord, nil, zerolog.Nop())

	id, err := m.Start("NVDA", ProfileMinimal)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForSession(t, m, id)

	for _, active := range m.Active() {
		if active == id {
			t.Error("Finished session should not be listed as active")
		}
	}
}
