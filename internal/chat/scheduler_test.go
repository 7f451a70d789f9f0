package chat

import (
	"context"
	"testing"
	"time"
)

// sleepRecorder captures every requested pause without waiting.
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func collectEvents(events *[]LogEvent) func(LogEvent) {
	return func(ev LogEvent) { *events = append(*events, ev) }
}

func TestPlayRevealOrder(t *testing.T) {
	var events []LogEvent
	log := NewLog(collectEvents(&events))
	rec := &sleepRecorder{}
	s := NewScheduler(log, DefaultSchedulerConfig(), rec.sleep)

	placeholder := NewPlaceholder()
	log.Append(log.Epoch(), placeholder)
	events = nil

	err := s.Play(context.Background(), log.Epoch(), []string{"一", "二", "三"}, placeholder.ID)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	wantTypes := []LogEventType{LogReplace, LogAppend, LogReplace, LogAppend, LogReplace}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Fatalf("event %d type = %s, want %s", i, ev.Type, wantTypes[i])
		}
	}

	msgs := log.Messages()
	if len(msgs) != 3 {
		t.Fatalf("log has %d messages, want 3", len(msgs))
	}
	for i, want := range []string{"一", "二", "三"} {
		if msgs[i].Text != want {
			t.Fatalf("message %d text = %q, want %q", i, msgs[i].Text, want)
		}
		if msgs[i].Streaming {
			t.Fatalf("message %d still streaming", i)
		}
	}
}

func TestPlayDelaySequence(t *testing.T) {
	log := NewLog(nil)
	rec := &sleepRecorder{}
	cfg := DefaultSchedulerConfig()
	s := NewScheduler(log, cfg, rec.sleep)

	placeholder := NewPlaceholder()
	log.Append(log.Epoch(), placeholder)

	if err := s.Play(context.Background(), log.Epoch(), []string{"一", "二"}, placeholder.ID); err != nil {
		t.Fatalf("Play: %v", err)
	}

	// initial, reading for segment one, thinking. No pause after the last.
	want := []time.Duration{cfg.InitialDelay, cfg.MinReadingDelay, cfg.ThinkingDelay}
	if len(rec.delays) != len(want) {
		t.Fatalf("got %d sleeps %v, want %d", len(rec.delays), rec.delays, len(want))
	}
	for i, d := range rec.delays {
		if d != want[i] {
			t.Fatalf("sleep %d = %v, want %v", i, d, want[i])
		}
	}
}

func TestPlayZeroSegmentsRemovesPlaceholder(t *testing.T) {
	log := NewLog(nil)
	rec := &sleepRecorder{}
	s := NewScheduler(log, DefaultSchedulerConfig(), rec.sleep)

	placeholder := NewPlaceholder()
	log.Append(log.Epoch(), placeholder)

	if err := s.Play(context.Background(), log.Epoch(), nil, placeholder.ID); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if log.Len() != 0 {
		t.Fatalf("log has %d messages, want 0", log.Len())
	}
	if len(rec.delays) != 0 {
		t.Fatalf("slept %v, want no sleeps", rec.delays)
	}
}

func TestPlayStaleEpochIsSilent(t *testing.T) {
	log := NewLog(nil)
	s := NewScheduler(log, DefaultSchedulerConfig(), (&sleepRecorder{}).sleep)

	placeholder := NewPlaceholder()
	epoch := log.Epoch()
	log.Append(epoch, placeholder)
	log.Advance()

	if err := s.Play(context.Background(), epoch, []string{"一", "二"}, placeholder.ID); err != nil {
		t.Fatalf("Play: %v", err)
	}
	msgs := log.Messages()
	if len(msgs) != 1 || msgs[0].ID != placeholder.ID || !msgs[0].Streaming {
		t.Fatalf("stale playback mutated the log: %+v", msgs)
	}
}

func TestPlayCancelledSleepPropagates(t *testing.T) {
	log := NewLog(nil)
	s := NewScheduler(log, DefaultSchedulerConfig(), func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	})

	placeholder := NewPlaceholder()
	log.Append(log.Epoch(), placeholder)

	if err := s.Play(context.Background(), log.Epoch(), []string{"一"}, placeholder.ID); err != context.Canceled {
		t.Fatalf("Play err = %v, want context.Canceled", err)
	}
}

func TestReadingDelayClamp(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	s := NewScheduler(NewLog(nil), cfg, nil)

	cases := []struct {
		text string
		want time.Duration
	}{
		{"短い", cfg.MinReadingDelay},
		{string(make([]rune, 30)), 30 * cfg.ReadingDelayPerRune},
		{string(make([]rune, 200)), cfg.MaxReadingDelay},
	}
	for _, tc := range cases {
		if got := s.readingDelay(tc.text); got != tc.want {
			t.Fatalf("readingDelay(%d runes) = %v, want %v", len([]rune(tc.text)), got, tc.want)
		}
	}
}
