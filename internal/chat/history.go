package chat

import (
	"sync"

	"github.com/lucamoroni/kaiwa/internal/llm"
)

// History holds the prompt transcript sent to the model on every turn.
// It is distinct from the Log: the Log stores displayed bubbles, the
// History stores whole turns in provider message form.
type History struct {
	mu   sync.Mutex
	msgs []llm.ChatMessage
}

func NewHistory() *History {
	return &History{}
}

// Start resets the transcript to a single system message.
func (h *History) Start(system string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = []llm.ChatMessage{{Role: llm.RoleSystem, Content: system}}
}

func (h *History) User(text string) {
	h.append(llm.RoleUser, text)
}

func (h *History) Assistant(text string) {
	h.append(llm.RoleAssistant, text)
}

func (h *History) append(role, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, llm.ChatMessage{Role: role, Content: text})
}

// Messages returns a copy of the transcript.
func (h *History) Messages() []llm.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]llm.ChatMessage, len(h.msgs))
	copy(out, h.msgs)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.msgs)
}
