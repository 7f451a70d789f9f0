package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Kind string

const (
	KindChat    Kind = "chat"
	KindSummary Kind = "summary"
)

// Message is one unit of conversation. Streaming marks a placeholder that is
// still waiting for real content; content always lands as a single atomic
// replacement, never as an incremental append.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Streaming bool      `json:"streaming,omitempty"`
	Kind      Kind      `json:"kind"`
}

// Suggestion is one quick-reply option offered below the input box.
type Suggestion struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// NewPlaceholder builds an empty streaming model message with a fresh id.
func NewPlaceholder() Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		Streaming: true,
		Timestamp: time.Now().UTC(),
		Kind:      KindChat,
	}
}

type LogEventType string

const (
	LogAppend  LogEventType = "append"
	LogReplace LogEventType = "replace"
	LogRemove  LogEventType = "remove"
)

// LogEvent describes one mutation of the conversation log, in the order it
// was applied. TargetID is set for replace and remove.
type LogEvent struct {
	Type     LogEventType
	TargetID string
	Message  Message
}

// Log is the ordered conversation log for one chat view. Every mutation
// carries the epoch the caller observed when its turn began; a mutation with
// a stale epoch is silently dropped. Advancing the epoch on navigation-away
// therefore cancels all pending reveals without touching in-flight timers.
type Log struct {
	mu      sync.Mutex
	epoch   uint64
	msgs    []Message
	onEvent func(LogEvent)
}

// NewLog builds an empty log. onEvent, when non-nil, observes every applied
// mutation and is invoked while the log lock is held, so mutations and their
// events share a single total order.
func NewLog(onEvent func(LogEvent)) *Log {
	return &Log{onEvent: onEvent}
}

// Epoch returns the current generation counter.
func (l *Log) Epoch() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epoch
}

// Advance invalidates every outstanding mutation handle. Called when the
// conversation is torn down or a new lesson replaces it.
func (l *Log) Advance() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
}

// Reset clears the log for a fresh lesson and invalidates stale writers.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.msgs = nil
}

// Append adds a message at the end. Returns false when epoch is stale.
func (l *Log) Append(epoch uint64, m Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return false
	}
	l.msgs = append(l.msgs, m)
	l.emit(LogEvent{Type: LogAppend, Message: m})
	return true
}

// Replace swaps the message with the given id for m, in place. Returns false
// when epoch is stale or no message carries the id.
func (l *Log) Replace(epoch uint64, id string, m Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return false
	}
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs[i] = m
			l.emit(LogEvent{Type: LogReplace, TargetID: id, Message: m})
			return true
		}
	}
	return false
}

// Remove drops the message with the given id. Returns false when epoch is
// stale or the id is absent.
func (l *Log) Remove(epoch uint64, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return false
	}
	for i := range l.msgs {
		if l.msgs[i].ID == id {
			l.msgs = append(l.msgs[:i], l.msgs[i+1:]...)
			l.emit(LogEvent{Type: LogRemove, TargetID: id})
			return true
		}
	}
	return false
}

// Messages returns a copy of the current log contents.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of messages currently in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs)
}

func (l *Log) emit(ev LogEvent) {
	if l.onEvent != nil {
		l.onEvent(ev)
	}
}
