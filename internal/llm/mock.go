package llm

import (
	"context"
	"sync"
)

// MockClient replays scripted turns. With no script it cycles a small
// canned lesson so the app is demoable without a provider key.
type MockClient struct {
	mu      sync.Mutex
	replies []string
	next    int
}

func NewMockClient(replies ...string) *MockClient {
	if len(replies) == 0 {
		replies = []string{
			"こんにちは！===今天我们随便聊聊吧。===想从哪里开始呢？<<<从自我介绍开始>>><<<教我一句日语>>>",
			"「はじめまして」的意思是初次见面。===跟我念一遍试试？<<<はじめまして！>>><<<再教一句>>>",
		}
	}
	return &MockClient{replies: replies}
}

func (m *MockClient) take() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	reply := m.replies[m.next%len(m.replies)]
	m.next++
	return reply
}

func (m *MockClient) StreamChat(ctx context.Context, _ []ChatMessage, onDelta DeltaHandler) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	reply := m.take()
	if onDelta != nil {
		for _, r := range reply {
			if err := onDelta(string(r)); err != nil {
				return "", err
			}
		}
	}
	return reply, nil
}

func (m *MockClient) Complete(ctx context.Context, _ []ChatMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.take(), nil
}
