package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.LLMMode != "auto" {
		t.Fatalf("LLMMode = %q, want %q", cfg.LLMMode, "auto")
	}
	if cfg.SiliconFlowBaseURL != "https://api.siliconflow.cn/v1/chat/completions" {
		t.Fatalf("SiliconFlowBaseURL = %q", cfg.SiliconFlowBaseURL)
	}
	if cfg.SiliconFlowModel != "Qwen/Qwen2.5-72B-Instruct" {
		t.Fatalf("SiliconFlowModel = %q", cfg.SiliconFlowModel)
	}
	if cfg.SessionInactivityTimeout != 30*time.Minute {
		t.Fatalf("SessionInactivityTimeout = %v", cfg.SessionInactivityTimeout)
	}
	if cfg.PreTurnDelay != 800*time.Millisecond {
		t.Fatalf("PreTurnDelay = %v", cfg.PreTurnDelay)
	}
	if cfg.AllowAnyOrigin {
		t.Fatal("AllowAnyOrigin = true, want false by default")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("LLM_MODE", "mock")
	t.Setenv("APP_PRE_TURN_DELAY", "250ms")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "yes")
	t.Setenv("APP_ALLOWED_ORIGINS", "http://localhost:5173, https://kaiwa.example.com")
	t.Setenv("SILICONFLOW_API_KEY", "  sk-test  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.LLMMode != "mock" {
		t.Fatalf("LLMMode = %q", cfg.LLMMode)
	}
	if cfg.PreTurnDelay != 250*time.Millisecond {
		t.Fatalf("PreTurnDelay = %v", cfg.PreTurnDelay)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatal("AllowAnyOrigin = false, want true")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://kaiwa.example.com" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.SiliconFlowAPIKey != "sk-test" {
		t.Fatalf("SiliconFlowAPIKey = %q, want trimmed value", cfg.SiliconFlowAPIKey)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown llm mode", key: "LLM_MODE", value: "gemini"},
		{name: "bad duration", key: "APP_SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "tiny inactivity timeout", key: "APP_SESSION_INACTIVITY_TIMEOUT", value: "1s"},
		{name: "bad bool", key: "APP_ALLOW_ANY_ORIGIN", value: "maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() = nil error, want failure for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_ALLOWED_ORIGINS",
		"APP_PRE_TURN_DELAY",
		"APP_CATALOG_PATH",
		"LLM_MODE",
		"SILICONFLOW_API_KEY",
		"SILICONFLOW_BASE_URL",
		"SILICONFLOW_MODEL",
		"SILICONFLOW_TIMEOUT",
		"DATABASE_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}
