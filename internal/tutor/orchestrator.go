package tutor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucamoroni/kaiwa/internal/chat"
	"github.com/lucamoroni/kaiwa/internal/lessons"
	"github.com/lucamoroni/kaiwa/internal/llm"
	"github.com/lucamoroni/kaiwa/internal/observability"
	"github.com/lucamoroni/kaiwa/internal/progress"
	"github.com/lucamoroni/kaiwa/internal/protocol"
	"github.com/lucamoroni/kaiwa/internal/session"
)

const (
	// completionMinMessages is the smallest conversation that counts as a
	// worked lesson: the opening turn plus at least one learner exchange.
	completionMinMessages = 3

	progressWriteTimeout = 2 * time.Second
)

// Orchestrator drives one tutoring conversation per websocket connection:
// lesson start, paced turn playback, summary requests, progress marking.
type Orchestrator struct {
	sessions *session.Manager
	client   llm.Client
	catalog  *lessons.Catalog
	progress progress.Store
	metrics  *observability.Metrics

	controllerCfg chat.ControllerConfig
	schedulerCfg  chat.SchedulerConfig

	// sleep overrides the pacing clock in tests; nil means real time.
	sleep chat.SleepFunc
}

func NewOrchestrator(
	sessions *session.Manager,
	client llm.Client,
	catalog *lessons.Catalog,
	store progress.Store,
	metrics *observability.Metrics,
	controllerCfg chat.ControllerConfig,
) *Orchestrator {
	return &Orchestrator{
		sessions:      sessions,
		client:        client,
		catalog:       catalog,
		progress:      store,
		metrics:       metrics,
		controllerCfg: controllerCfg,
		schedulerCfg:  chat.DefaultSchedulerConfig(),
	}
}

// connState is the per-connection conversation state. It lives for the
// lifetime of one RunConnection call and is rebuilt on reconnect.
type connState struct {
	log        *chat.Log
	history    *chat.History
	controller *chat.Controller

	lesson      lessons.Lesson
	lessonOpen  bool
	firstTurnOK bool
}

// RunConnection drives a session lifecycle for one websocket connection.
// Inbound messages are handled strictly in order; a turn runs to completion
// before the next message is read, so playback pacing is never interleaved.
func (o *Orchestrator) RunConnection(ctx context.Context, s *session.Session, inbound <-chan any, outbound chan<- any) error {
	send := func(msg any) {
		select {
		case <-ctx.Done():
		case outbound <- msg:
		}
	}

	log := chat.NewLog(func(ev chat.LogEvent) {
		switch ev.Type {
		case chat.LogAppend:
			send(protocol.ChatAppend{Type: protocol.TypeChatAppend, SessionID: s.ID, Message: ev.Message})
		case chat.LogReplace:
			send(protocol.ChatReplace{Type: protocol.TypeChatReplace, SessionID: s.ID, TargetID: ev.TargetID, Message: ev.Message})
		case chat.LogRemove:
			send(protocol.ChatRemove{Type: protocol.TypeChatRemove, SessionID: s.ID, TargetID: ev.TargetID})
		}
	})
	defer log.Advance()

	scheduler := chat.NewScheduler(log, o.schedulerCfg, o.sleep)
	scheduler.Observe = o.metrics.ObserveBubbleRevealDelay

	ui := &wsUI{sessionID: s.ID, send: send}
	history := chat.NewHistory()
	client := &measuredClient{inner: o.client, metrics: o.metrics}

	state := &connState{
		log:        log,
		history:    history,
		controller: chat.NewController(log, client, history, scheduler, ui, o.controllerCfg, o.sleep),
	}
	defer o.markCompletion(s, state)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbound:
			if !ok {
				return nil
			}
			_ = o.sessions.Touch(s.ID)

			switch m := msg.(type) {
			case protocol.ClientStartLesson:
				o.handleStartLesson(ctx, s, state, send, m)
			case protocol.ClientMessage:
				o.handleMessage(ctx, s, state, send, m)
			case protocol.ClientSummary:
				o.handleSummary(ctx, s, state, send)
			default:
				send(protocol.ErrorEvent{
					Type:      protocol.TypeErrorEvent,
					SessionID: s.ID,
					Code:      "unsupported_message",
					Retryable: false,
					Detail:    "message type not handled by tutor",
				})
			}
		}
	}
}

func (o *Orchestrator) handleStartLesson(ctx context.Context, s *session.Session, state *connState, send func(any), m protocol.ClientStartLesson) {
	lesson, err := o.resolveLesson(m)
	if err != nil {
		send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: s.ID,
			Code:      "unknown_lesson",
			Retryable: false,
			Detail:    err.Error(),
		})
		return
	}

	persona, err := lessons.PersonaByID(s.PersonaID)
	if err != nil {
		persona, _ = lessons.PersonaByID(lessons.DefaultPersonaID)
	}

	// Leaving a worked lesson for a new one marks the old one complete.
	o.markCompletion(s, state)

	_ = o.sessions.SetLesson(s.ID, lesson.ID, lesson.Title)
	o.metrics.SessionEvents.WithLabelValues("lesson_started").Inc()

	state.lesson = lesson
	state.lessonOpen = true
	state.firstTurnOK = false
	state.log.Reset()
	state.history.Start(lessons.BuildSystemPrompt(lesson, persona))

	if err := o.runTurn(ctx, s, state, send, lesson.InitialPrompt, true); err == nil {
		state.firstTurnOK = true
	}
}

func (o *Orchestrator) handleMessage(ctx context.Context, s *session.Session, state *connState, send func(any), m protocol.ClientMessage) {
	if !state.lessonOpen {
		send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: s.ID,
			Code:      "lesson_not_started",
			Retryable: false,
			Detail:    "start a lesson before sending messages",
		})
		return
	}

	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}

	echo := chat.Message{
		ID:        uuid.NewString(),
		Role:      chat.RoleUser,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Kind:      chat.KindChat,
	}
	state.log.Append(state.log.Epoch(), echo)

	// A failed opening turn retries as the first turn so the learner sees
	// the start-flavored apology, matching the lesson-open experience.
	firstTurn := !state.firstTurnOK
	if err := o.runTurn(ctx, s, state, send, text, firstTurn); err == nil && firstTurn {
		state.firstTurnOK = true
	}
}

func (o *Orchestrator) handleSummary(ctx context.Context, s *session.Session, state *connState, send func(any)) {
	if !state.lessonOpen {
		send(protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: s.ID,
			Code:      "lesson_not_started",
			Retryable: false,
			Detail:    "start a lesson before requesting a summary",
		})
		return
	}

	var lines []lessons.TranscriptLine
	for _, msg := range state.log.Messages() {
		if msg.Kind != chat.KindChat || msg.Streaming || msg.Text == "" {
			continue
		}
		lines = append(lines, lessons.TranscriptLine{
			FromUser: msg.Role == chat.RoleUser,
			Text:     msg.Text,
		})
	}

	start := time.Now()
	err := state.controller.RunSummary(ctx, lessons.BuildSummaryPrompt(lines))
	o.metrics.ObservePacingStage("summary_total", time.Since(start))
	if err != nil {
		o.observeProviderError(err)
		o.metrics.TurnEvents.WithLabelValues("summary_error").Inc()
		return
	}
	o.metrics.TurnEvents.WithLabelValues("summary_ok").Inc()
}

// runTurn wraps one controller turn with session bookkeeping, metrics and
// the turn_end notification.
func (o *Orchestrator) runTurn(ctx context.Context, s *session.Session, state *connState, send func(any), prompt string, firstTurn bool) error {
	turnID := uuid.NewString()
	_ = o.sessions.StartTurn(s.ID, turnID)
	start := time.Now()

	err := state.controller.RunTurn(ctx, prompt, firstTurn)

	_ = o.sessions.EndTurn(s.ID)
	o.metrics.ObservePacingStage("turn_total", time.Since(start))

	reason := "ok"
	switch {
	case err == nil:
		o.metrics.TurnEvents.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		reason = "cancelled"
		o.metrics.TurnEvents.WithLabelValues("cancelled").Inc()
	default:
		reason = "error"
		o.metrics.TurnEvents.WithLabelValues("error").Inc()
		o.observeProviderError(err)
	}

	send(protocol.TurnEnd{
		Type:      protocol.TypeTurnEnd,
		SessionID: s.ID,
		TurnID:    turnID,
		Reason:    reason,
	})
	return err
}

func (o *Orchestrator) resolveLesson(m protocol.ClientStartLesson) (lessons.Lesson, error) {
	if m.LessonID != "" {
		return o.catalog.Get(m.LessonID)
	}
	topic := strings.TrimSpace(m.CustomTopic)
	if topic == "" {
		return lessons.Lesson{}, errors.New("empty custom topic")
	}
	return lessons.NewCustomLesson(topic), nil
}

// markCompletion records the current lesson as worked when the conversation
// went beyond its opening. Best effort; progress writes never block the chat.
func (o *Orchestrator) markCompletion(s *session.Session, state *connState) {
	if o.progress == nil || !state.lessonOpen {
		return
	}
	if state.log.Len() < completionMinMessages {
		return
	}
	lessonID := state.lesson.ID
	if lessonID == "" || strings.HasPrefix(lessonID, "custom-") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), progressWriteTimeout)
	defer cancel()
	if err := o.progress.MarkCompleted(ctx, s.UserID, lessonID); err == nil {
		o.metrics.SessionEvents.WithLabelValues("lesson_completed").Inc()
	}
}

func (o *Orchestrator) observeProviderError(err error) {
	code := "transport"
	if llm.IsCredentialError(err) {
		code = "credential"
	}
	o.metrics.ProviderErrors.WithLabelValues(code).Inc()
}

// wsUI forwards controller UI directives onto the outbound channel.
type wsUI struct {
	sessionID string
	send      func(any)
}

func (u *wsUI) SetInputEnabled(enabled bool) {
	u.send(protocol.InputState{Type: protocol.TypeInputState, SessionID: u.sessionID, Enabled: enabled})
}

func (u *wsUI) PublishSuggestions(suggestions []chat.Suggestion) {
	u.send(protocol.Suggestions{Type: protocol.TypeSuggestions, SessionID: u.sessionID, Suggestions: suggestions})
}

func (u *wsUI) RequireCredentials() {
	u.send(protocol.CredentialRequired{Type: protocol.TypeCredentialRequired, SessionID: u.sessionID, Reason: "provider API key missing or rejected"})
}

// measuredClient times full-response drains around the wrapped provider.
type measuredClient struct {
	inner   llm.Client
	metrics *observability.Metrics
}

func (c *measuredClient) StreamChat(ctx context.Context, messages []llm.ChatMessage, onDelta llm.DeltaHandler) (string, error) {
	start := time.Now()
	text, err := c.inner.StreamChat(ctx, messages, onDelta)
	if err == nil {
		c.metrics.ObserveStreamDrainLatency(time.Since(start))
	}
	return text, err
}

func (c *measuredClient) Complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	return c.inner.Complete(ctx, messages)
}
