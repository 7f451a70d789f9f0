package tutor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lucamoroni/kaiwa/internal/chat"
	"github.com/lucamoroni/kaiwa/internal/lessons"
	"github.com/lucamoroni/kaiwa/internal/llm"
	"github.com/lucamoroni/kaiwa/internal/observability"
	"github.com/lucamoroni/kaiwa/internal/progress"
	"github.com/lucamoroni/kaiwa/internal/protocol"
	"github.com/lucamoroni/kaiwa/internal/session"
)

type scriptedClient struct {
	replies    []string
	streamErr  error
	completion string
	calls      int
}

func (c *scriptedClient) StreamChat(_ context.Context, _ []llm.ChatMessage, onDelta llm.DeltaHandler) (string, error) {
	if c.streamErr != nil {
		return "", c.streamErr
	}
	reply := c.replies[c.calls%len(c.replies)]
	c.calls++
	if onDelta != nil {
		if err := onDelta(reply); err != nil {
			return "", err
		}
	}
	return reply, nil
}

func (c *scriptedClient) Complete(_ context.Context, _ []llm.ChatMessage) (string, error) {
	return c.completion, nil
}

type harness struct {
	orch     *Orchestrator
	sessions *session.Manager
	store    *progress.InMemoryStore
	sess     *session.Session
	inbound  chan any
	outbound chan any
	done     chan error
	stopped  bool
	cancel   context.CancelFunc
}

func newHarness(t *testing.T, client llm.Client) *harness {
	t.Helper()
	catalog, err := lessons.NewCatalog("")
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	sessions := session.NewManager(time.Hour)
	store := progress.NewInMemoryStore()
	metrics := observability.NewMetrics(fmt.Sprintf("kaiwa_test_tutor_%d", time.Now().UnixNano()))

	cfg := chat.DefaultControllerConfig()
	cfg.PreTurnDelay = 0

	orch := NewOrchestrator(sessions, client, catalog, store, metrics, cfg)
	orch.sleep = func(context.Context, time.Duration) error { return nil }

	sess := sessions.Create("learner-1", "default")

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{
		orch:     orch,
		sessions: sessions,
		store:    store,
		sess:     sess,
		inbound:  make(chan any, 16),
		outbound: make(chan any, 256),
		done:     make(chan error, 1),
		cancel:   cancel,
	}
	go func() {
		h.done <- orch.RunConnection(ctx, sess, h.inbound, h.outbound)
	}()
	t.Cleanup(func() {
		if h.stopped {
			return
		}
		cancel()
		<-h.done
	})
	return h
}

// close stops the connection loop and waits for teardown hooks to run.
func (h *harness) close(t *testing.T) {
	t.Helper()
	close(h.inbound)
	select {
	case <-h.done:
		h.stopped = true
	case <-time.After(5 * time.Second):
		t.Fatal("RunConnection did not stop")
	}
}

// awaitTurnEnd drains outbound until a turn_end arrives, returning everything
// seen on the way, the turn_end included.
func (h *harness) awaitTurnEnd(t *testing.T) []any {
	t.Helper()
	deadline := time.After(5 * time.Second)
	var seen []any
	for {
		select {
		case msg := <-h.outbound:
			seen = append(seen, msg)
			if _, ok := msg.(protocol.TurnEnd); ok {
				return seen
			}
		case <-deadline:
			t.Fatalf("no turn_end; saw %d messages: %#v", len(seen), seen)
		}
	}
}

func typesOf(msgs []any) []protocol.MessageType {
	var out []protocol.MessageType
	for _, m := range msgs {
		switch v := m.(type) {
		case protocol.ChatAppend:
			out = append(out, v.Type)
		case protocol.ChatReplace:
			out = append(out, v.Type)
		case protocol.ChatRemove:
			out = append(out, v.Type)
		case protocol.Suggestions:
			out = append(out, v.Type)
		case protocol.InputState:
			out = append(out, v.Type)
		case protocol.CredentialRequired:
			out = append(out, v.Type)
		case protocol.TurnEnd:
			out = append(out, v.Type)
		case protocol.ErrorEvent:
			out = append(out, v.Type)
		}
	}
	return out
}

func countType(msgs []any, want protocol.MessageType) int {
	n := 0
	for _, got := range typesOf(msgs) {
		if got == want {
			n++
		}
	}
	return n
}

func TestStartLessonPlaysPacedBubbles(t *testing.T) {
	client := &scriptedClient{replies: []string{"第一句！\n===\n第二句。\n<<<好的>>>"}}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{
		Type:      protocol.TypeClientStartLesson,
		SessionID: h.sess.ID,
		LessonID:  "b-1",
	}
	seen := h.awaitTurnEnd(t)

	// Placeholder append, first replace, second placeholder, second replace.
	if got := countType(seen, protocol.TypeChatAppend); got != 2 {
		t.Fatalf("chat_append count = %d, want 2 (types %v)", got, typesOf(seen))
	}
	if got := countType(seen, protocol.TypeChatReplace); got != 2 {
		t.Fatalf("chat_replace count = %d, want 2", got)
	}

	var gotSuggestions []chat.Suggestion
	for _, m := range seen {
		if s, ok := m.(protocol.Suggestions); ok && len(s.Suggestions) > 0 {
			gotSuggestions = s.Suggestions
		}
	}
	if len(gotSuggestions) != 1 || gotSuggestions[0].Value != "好的" {
		t.Fatalf("suggestions = %v", gotSuggestions)
	}

	turnEnd := seen[len(seen)-1].(protocol.TurnEnd)
	if turnEnd.Reason != "ok" {
		t.Fatalf("turn_end reason = %q", turnEnd.Reason)
	}

	sess, err := h.sessions.Get(h.sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.LessonID != "b-1" || sess.TurnCount != 1 {
		t.Fatalf("session = %+v", sess)
	}
}

func TestMessageBeforeLessonIsRejected(t *testing.T) {
	h := newHarness(t, &scriptedClient{replies: []string{"irrelevant"}})

	h.inbound <- protocol.ClientMessage{
		Type:      protocol.TypeClientMessage,
		SessionID: h.sess.ID,
		Text:      "こんにちは",
	}

	select {
	case msg := <-h.outbound:
		ev, ok := msg.(protocol.ErrorEvent)
		if !ok || ev.Code != "lesson_not_started" {
			t.Fatalf("got %#v, want lesson_not_started error", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error event")
	}
}

func TestMessageEchoesUserBubbleThenReplies(t *testing.T) {
	client := &scriptedClient{replies: []string{"开场。\n<<<继续>>>", "回答。\n<<<明白>>>"}}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	h.awaitTurnEnd(t)

	h.inbound <- protocol.ClientMessage{Type: protocol.TypeClientMessage, SessionID: h.sess.ID, Text: "続けて"}
	seen := h.awaitTurnEnd(t)

	first, ok := seen[0].(protocol.ChatAppend)
	if !ok || first.Message.Role != chat.RoleUser || first.Message.Text != "続けて" {
		t.Fatalf("first outbound = %#v, want user echo", seen[0])
	}
	if client.calls != 2 {
		t.Fatalf("client calls = %d, want 2", client.calls)
	}
}

func TestStreamErrorEndsTurnWithError(t *testing.T) {
	client := &scriptedClient{streamErr: errors.New("upstream down")}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	seen := h.awaitTurnEnd(t)

	turnEnd := seen[len(seen)-1].(protocol.TurnEnd)
	if turnEnd.Reason != "error" {
		t.Fatalf("turn_end reason = %q, want error", turnEnd.Reason)
	}

	// The placeholder is removed and one apology bubble replaces it.
	if got := countType(seen, protocol.TypeChatRemove); got != 1 {
		t.Fatalf("chat_remove count = %d, want 1", got)
	}
	var apology string
	for _, m := range seen {
		if a, ok := m.(protocol.ChatAppend); ok && a.Message.Role == chat.RoleModel {
			apology = a.Message.Text
		}
	}
	if apology != chat.DefaultControllerConfig().StartErrorText {
		t.Fatalf("apology = %q", apology)
	}
}

func TestCredentialErrorPromptsForKey(t *testing.T) {
	client := &scriptedClient{streamErr: llm.ErrMissingAPIKey}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	seen := h.awaitTurnEnd(t)

	if got := countType(seen, protocol.TypeCredentialRequired); got != 1 {
		t.Fatalf("credential_required count = %d, want 1 (types %v)", got, typesOf(seen))
	}
	// No apology bubble on credential failures.
	for _, m := range seen {
		if a, ok := m.(protocol.ChatAppend); ok && a.Message.Role == chat.RoleModel && a.Message.Text != "" {
			t.Fatalf("unexpected model bubble %q", a.Message.Text)
		}
	}
}

func TestSummaryAppendsSummaryBubble(t *testing.T) {
	client := &scriptedClient{
		replies:    []string{"开场。\n<<<继续>>>"},
		completion: "## ✅ 本课小结: テスト",
	}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	h.awaitTurnEnd(t)

	h.inbound <- protocol.ClientSummary{Type: protocol.TypeClientSummary, SessionID: h.sess.ID}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-h.outbound:
			if a, ok := msg.(protocol.ChatAppend); ok && a.Message.Kind == chat.KindSummary {
				if a.Message.Text != "## ✅ 本课小结: テスト" {
					t.Fatalf("summary text = %q", a.Message.Text)
				}
				return
			}
		case <-deadline:
			t.Fatal("no summary bubble")
		}
	}
}

func TestWorkedLessonMarkedCompletedOnTeardown(t *testing.T) {
	client := &scriptedClient{replies: []string{"开场。\n<<<继续>>>", "回答。\n<<<好>>>"}}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	h.awaitTurnEnd(t)
	h.inbound <- protocol.ClientMessage{Type: protocol.TypeClientMessage, SessionID: h.sess.ID, Text: "続けて"}
	h.awaitTurnEnd(t)

	h.close(t)

	completed, err := h.store.Completed(context.Background(), "learner-1")
	if err != nil {
		t.Fatalf("Completed() error = %v", err)
	}
	if len(completed) != 1 || completed[0] != "b-1" {
		t.Fatalf("completed = %v", completed)
	}
}

func TestUnworkedLessonNotMarkedCompleted(t *testing.T) {
	client := &scriptedClient{replies: []string{"开场。\n<<<继续>>>"}}
	h := newHarness(t, client)

	h.inbound <- protocol.ClientStartLesson{Type: protocol.TypeClientStartLesson, SessionID: h.sess.ID, LessonID: "b-1"}
	h.awaitTurnEnd(t)

	h.close(t)

	completed, err := h.store.Completed(context.Background(), "learner-1")
	if err != nil {
		t.Fatalf("Completed() error = %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("completed = %v, want none", completed)
	}
}
