package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateGetEnd(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("u1", "warm")
	if s.ID == "" {
		t.Fatalf("session ID should not be empty")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "u1" || got.PersonaID != "warm" || got.Status != StatusActive {
		t.Fatalf("unexpected session state: %+v", got)
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
}

func TestManagerLessonResetsTurnCount(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("u1", "warm")

	if err := m.SetLesson(s.ID, "n5-1", "我是谁？"); err != nil {
		t.Fatalf("SetLesson() error = %v", err)
	}
	if err := m.StartTurn(s.ID, "turn-1"); err != nil {
		t.Fatalf("StartTurn() error = %v", err)
	}
	if err := m.EndTurn(s.ID); err != nil {
		t.Fatalf("EndTurn() error = %v", err)
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.LessonID != "n5-1" || got.TurnCount != 1 || got.ActiveTurnID != "" {
		t.Fatalf("unexpected session state: %+v", got)
	}

	if err := m.SetLesson(s.ID, "rp-konbini", "深夜便利店"); err != nil {
		t.Fatalf("SetLesson() error = %v", err)
	}
	got, _ = m.Get(s.ID)
	if got.TurnCount != 0 {
		t.Fatalf("TurnCount after new lesson = %d, want 0", got.TurnCount)
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	s := m.Create("u1", "warm")

	expired := make(chan *Session, 1)
	m.SetExpireHook(func(s *Session) { expired <- s })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	select {
	case got := <-expired:
		if got.ID != s.ID || got.Status != StatusEnded {
			t.Fatalf("expired session = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("expire hook never fired")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusEnded {
		t.Fatalf("Status = %q, want %q", got.Status, StatusEnded)
	}
}
