package app

import (
	"fmt"
	"strings"

	"github.com/lucamoroni/kaiwa/internal/config"
	"github.com/lucamoroni/kaiwa/internal/llm"
)

type providerSetup struct {
	client           llm.Client
	resolvedProvider string
	detail           string
}

// resolveModelProvider picks the chat model backend. Auto mode prefers
// SiliconFlow when a key is present; without one it still wires SiliconFlow
// so a key installed at runtime brings the real provider up without a
// restart. Mock is offline-only and never takes credentials.
func resolveModelProvider(cfg config.Config) (providerSetup, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.LLMMode))
	if mode == "" {
		mode = "auto"
	}

	newSiliconFlow := func() *llm.SiliconFlowClient {
		return llm.NewSiliconFlowClient(llm.SiliconFlowConfig{
			APIKey:  cfg.SiliconFlowAPIKey,
			BaseURL: cfg.SiliconFlowBaseURL,
			Model:   cfg.SiliconFlowModel,
			Timeout: cfg.SiliconFlowTimeout,
		})
	}

	switch mode {
	case "siliconflow":
		client := newSiliconFlow()
		detail := "siliconflow"
		if !client.HasAPIKey() {
			detail = "siliconflow (awaiting runtime key)"
		}
		return providerSetup{client: client, resolvedProvider: "siliconflow", detail: detail}, nil
	case "mock":
		return providerSetup{client: llm.NewMockClient(), resolvedProvider: "mock", detail: "mock"}, nil
	case "auto":
		client := newSiliconFlow()
		detail := "siliconflow"
		if !client.HasAPIKey() {
			detail = "siliconflow (no key yet, clients will be prompted)"
		}
		return providerSetup{client: client, resolvedProvider: "siliconflow", detail: detail}, nil
	default:
		return providerSetup{}, fmt.Errorf("invalid LLM_MODE: %q (expected auto|siliconflow|mock)", cfg.LLMMode)
	}
}
