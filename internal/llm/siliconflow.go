package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lucamoroni/kaiwa/internal/reliability"
)

const (
	defaultBaseURL = "https://api.siliconflow.cn/v1/chat/completions"
	defaultModel   = "Qwen/Qwen2.5-72B-Instruct"

	streamTemperature   = 0.8
	streamTopP          = 0.95
	completeTemperature = 0.7

	retryBackoffBase = 200 * time.Millisecond
	retryBackoffCap  = 2 * time.Second
)

// SiliconFlowConfig controls the OpenAI-compatible chat completions client.
type SiliconFlowConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// SiliconFlowClient talks to the SiliconFlow chat completions endpoint.
// The API key may be replaced at runtime once the user supplies one.
type SiliconFlowClient struct {
	mu      sync.RWMutex
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewSiliconFlowClient(cfg SiliconFlowConfig) *SiliconFlowClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &SiliconFlowClient{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// SetAPIKey replaces the credential used for subsequent requests.
func (c *SiliconFlowClient) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(key)
}

// HasAPIKey reports whether a credential is currently configured.
func (c *SiliconFlowClient) HasAPIKey() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatChoice struct {
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type chatCompletion struct {
	Choices []chatChoice `json:"choices"`
}

func (c *SiliconFlowClient) StreamChat(ctx context.Context, messages []ChatMessage, onDelta DeltaHandler) (string, error) {
	body, err := c.send(ctx, chatRequest{
		Model:       c.modelName(),
		Messages:    messages,
		Stream:      true,
		Temperature: streamTemperature,
		TopP:        streamTopP,
	})
	if err != nil {
		return "", err
	}
	defer body.Close()
	return consumeSSE(body, onDelta)
}

func (c *SiliconFlowClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := c.send(ctx, chatRequest{
		Model:       c.modelName(),
		Messages:    messages,
		Stream:      false,
		Temperature: completeTemperature,
	})
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var completion chatCompletion
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// send posts the request and returns the response body on a 2xx status.
// Retryable upstream statuses get one backoff-delayed retry; 401 is mapped to
// the credential taxonomy so callers never inspect status codes themselves.
func (c *SiliconFlowClient) send(ctx context.Context, req chatRequest) (io.ReadCloser, error) {
	c.mu.RLock()
	apiKey := c.apiKey
	baseURL := c.baseURL
	c.mu.RUnlock()

	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)

		res, err := c.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}

		if res.StatusCode >= 200 && res.StatusCode < 300 {
			return res.Body, nil
		}

		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		_ = res.Body.Close()

		if res.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: status 401", ErrInvalidToken)
		}
		if attempt == 0 && reliability.IsRetryableHTTPStatus(res.StatusCode) {
			if err := sleepCtx(ctx, reliability.ExponentialBackoff(attempt, retryBackoffBase, retryBackoffCap)); err != nil {
				return nil, err
			}
			continue
		}
		return nil, fmt.Errorf("chat completions status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}
}

func (c *SiliconFlowClient) modelName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// consumeSSE drains an event-stream body, forwarding each delta fragment.
func consumeSSE(body io.Reader, onDelta DeltaHandler) (string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk chatCompletion
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Providers occasionally interleave non-JSON keepalives; skip them.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		out.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return "", err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("stream read: %w", err)
	}
	return out.String(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
