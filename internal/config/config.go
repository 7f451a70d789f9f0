package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains all runtime settings for the tutoring service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool
	AllowedOrigins []string

	LLMMode string

	SiliconFlowAPIKey  string
	SiliconFlowBaseURL string
	SiliconFlowModel   string
	SiliconFlowTimeout time.Duration

	PreTurnDelay time.Duration

	DatabaseURL string
	CatalogPath string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:           envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:   envOrDefault("APP_METRICS_NAMESPACE", "kaiwa"),
		AllowAnyOrigin:     false,
		LLMMode:            envOrDefault("LLM_MODE", "auto"),
		SiliconFlowAPIKey:  stringsTrimSpace("SILICONFLOW_API_KEY"),
		SiliconFlowBaseURL: envOrDefault("SILICONFLOW_BASE_URL", "https://api.siliconflow.cn/v1/chat/completions"),
		SiliconFlowModel:   envOrDefault("SILICONFLOW_MODEL", "Qwen/Qwen2.5-72B-Instruct"),
		DatabaseURL:        stringsTrimSpace("DATABASE_URL"),
		CatalogPath:        stringsTrimSpace("APP_CATALOG_PATH"),

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
		SiliconFlowTimeout:       120 * time.Second,
		PreTurnDelay:             800 * time.Millisecond,
	}
	if origins := stringsTrimSpace("APP_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			o = trimSpace(o)
			if o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SiliconFlowTimeout, err = durationFromEnv("SILICONFLOW_TIMEOUT", cfg.SiliconFlowTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.PreTurnDelay, err = durationFromEnv("APP_PRE_TURN_DELAY", cfg.PreTurnDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	switch cfg.LLMMode {
	case "auto", "siliconflow", "mock":
	default:
		return Config{}, fmt.Errorf("LLM_MODE must be auto, siliconflow, or mock")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.SiliconFlowTimeout <= 0 {
		return Config{}, fmt.Errorf("SILICONFLOW_TIMEOUT must be positive")
	}
	if cfg.PreTurnDelay < 0 {
		return Config{}, fmt.Errorf("APP_PRE_TURN_DELAY must be >= 0")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
