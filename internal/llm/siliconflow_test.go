package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(serverURL string) *SiliconFlowClient {
	return NewSiliconFlowClient(SiliconFlowConfig{
		APIKey:  "sk-test",
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	})
}

func TestStreamChatAccumulatesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"你好\"}}]}\n\n")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"，世界\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var deltas []string
	got, err := client.StreamChat(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}}, func(delta string) error {
		deltas = append(deltas, delta)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if got != "你好，世界" {
		t.Fatalf("StreamChat() = %q", got)
	}
	if len(deltas) != 2 || deltas[0] != "你好" {
		t.Fatalf("deltas = %v", deltas)
	}
}

func TestStreamChatDeltaHandlerErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
	}))
	defer srv.Close()

	wantErr := errors.New("stop")
	client := newTestClient(srv.URL)
	_, err := client.StreamChat(context.Background(), nil, func(string) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("StreamChat() error = %v, want %v", err, wantErr)
	}
}

func TestCompleteDecodesMessageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  今日の总结  "}}]}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got, err := client.Complete(context.Background(), []ChatMessage{{Role: RoleUser, Content: "summarize"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "今日の总结" {
		t.Fatalf("Complete() = %q", got)
	}
}

func TestSendWithoutAPIKeyFailsFast(t *testing.T) {
	client := NewSiliconFlowClient(SiliconFlowConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := client.Complete(context.Background(), nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Complete() error = %v, want ErrMissingAPIKey", err)
	}
	if client.HasAPIKey() {
		t.Fatal("HasAPIKey() = true, want false")
	}
}

func TestSendMapsUnauthorizedToInvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), nil)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Complete() error = %v, want ErrInvalidToken", err)
	}
	if !IsCredentialError(err) {
		t.Fatal("IsCredentialError() = false")
	}
}

func TestSendRetriesOnceOnRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got, err := client.Complete(context.Background(), nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "ok" {
		t.Fatalf("Complete() = %q", got)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestSendGivesUpAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("Complete() error = nil, want failure")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("error = %v, want status in message", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestSetAPIKeyReplacesCredential(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	client.SetAPIKey("  sk-rotated  ")
	if _, err := client.Complete(context.Background(), nil); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := seen.Load(); got != "Bearer sk-rotated" {
		t.Fatalf("Authorization = %v", got)
	}
}
