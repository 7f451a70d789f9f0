package chat

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// SleepFunc suspends the caller for d or until the context ends. Tests swap
// in an instant implementation so playback runs without wall-clock time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SchedulerConfig tunes bubble pacing.
type SchedulerConfig struct {
	// InitialDelay runs before the first segment replaces the placeholder, so
	// the thinking indicator never flashes straight into content.
	InitialDelay time.Duration
	// ReadingDelayPerRune scales the pause after a revealed bubble with its
	// length, clamped to [MinReadingDelay, MaxReadingDelay].
	ReadingDelayPerRune time.Duration
	MinReadingDelay     time.Duration
	MaxReadingDelay     time.Duration
	// ThinkingDelay runs between a new placeholder appearing and its content.
	ThinkingDelay time.Duration
}

// DefaultSchedulerConfig matches the pacing the product shipped with:
// roughly 12 characters of reading per second with a comfortable floor.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		InitialDelay:        time.Second,
		ReadingDelayPerRune: 80 * time.Millisecond,
		MinReadingDelay:     1500 * time.Millisecond,
		MaxReadingDelay:     5 * time.Second,
		ThinkingDelay:       time.Second,
	}
}

// Scheduler reveals one turn's segments into a Log one bubble at a time.
//
// The per-step order is a UX contract: after a bubble lands the reader gets
// the full reading delay with no new UI element, then the next placeholder
// appears, then after the thinking delay its content. Placeholder insertion
// is gated on the reading delay of the previous segment, never the next one.
type Scheduler struct {
	log   *Log
	cfg   SchedulerConfig
	sleep SleepFunc

	// Observe, when set, receives each computed reading delay.
	Observe func(d time.Duration)
}

func NewScheduler(log *Log, cfg SchedulerConfig, sleep SleepFunc) *Scheduler {
	if sleep == nil {
		sleep = Sleep
	}
	return &Scheduler{log: log, cfg: cfg, sleep: sleep}
}

// Play reveals segments sequentially, replacing the message with id
// placeholderID first. Segments must be pre-trimmed and non-empty; that is
// the caller's contract, not checked here. With zero segments the placeholder
// is removed and Play returns immediately.
//
// A stale epoch ends playback silently: the conversation was torn down and
// nothing should mutate it anymore. Context cancellation is reported.
func (s *Scheduler) Play(ctx context.Context, epoch uint64, segments []string, placeholderID string) error {
	if len(segments) == 0 {
		s.log.Remove(epoch, placeholderID)
		return nil
	}

	if err := s.sleep(ctx, s.cfg.InitialDelay); err != nil {
		return err
	}

	target := placeholderID
	for i, text := range segments {
		ok := s.log.Replace(epoch, target, Message{
			ID:        uuid.NewString(),
			Role:      RoleModel,
			Text:      text,
			Timestamp: time.Now().UTC(),
			Kind:      KindChat,
		})
		if !ok {
			return nil
		}
		if i == len(segments)-1 {
			return nil
		}

		reading := s.readingDelay(text)
		if s.Observe != nil {
			s.Observe(reading)
		}
		if err := s.sleep(ctx, reading); err != nil {
			return err
		}

		next := NewPlaceholder()
		if !s.log.Append(epoch, next) {
			return nil
		}
		if err := s.sleep(ctx, s.cfg.ThinkingDelay); err != nil {
			return err
		}
		target = next.ID
	}
	return nil
}

func (s *Scheduler) readingDelay(text string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(text)) * s.cfg.ReadingDelayPerRune
	if d < s.cfg.MinReadingDelay {
		return s.cfg.MinReadingDelay
	}
	if d > s.cfg.MaxReadingDelay {
		return s.cfg.MaxReadingDelay
	}
	return d
}
