package httpapi

import (
	"net/http"
	"strings"

	"github.com/lucamoroni/kaiwa/internal/lessons"
	"github.com/lucamoroni/kaiwa/internal/llm"
)

const explainTextMaxRunes = 2000

type explainRequest struct {
	Text string `json:"text"`
}

type explainResponse struct {
	Markdown string `json:"markdown"`
}

// handleExplain runs the dictionary-style deep dive for a selected piece of
// text. It is a standalone completion, outside any tutoring session.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "model provider not configured")
		return
	}
	var req explainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if len([]rune(text)) > explainTextMaxRunes {
		respondError(w, http.StatusBadRequest, "invalid_request", "text too long")
		return
	}

	markdown, err := s.client.Complete(r.Context(), []llm.ChatMessage{
		{Role: llm.RoleUser, Content: lessons.BuildExplainPrompt(text)},
	})
	if err != nil {
		if llm.IsCredentialError(err) {
			s.metrics.ProviderErrors.WithLabelValues("credential").Inc()
			respondError(w, http.StatusUnauthorized, "credential_required", err.Error())
			return
		}
		s.metrics.ProviderErrors.WithLabelValues("transport").Inc()
		respondError(w, http.StatusBadGateway, "provider_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, explainResponse{Markdown: markdown})
}

type setCredentialsRequest struct {
	APIKey string `json:"api_key"`
}

// handleSetCredentials installs a provider API key at runtime. Providers
// without runtime credentials, like the offline mock, reject the call.
func (s *Server) handleSetCredentials(w http.ResponseWriter, r *http.Request) {
	type keySetter interface {
		SetAPIKey(key string)
		HasAPIKey() bool
	}
	setter, ok := s.client.(keySetter)
	if !ok {
		respondError(w, http.StatusNotImplemented, "unavailable", "provider does not take runtime credentials")
		return
	}

	var req setCredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "api_key is required")
		return
	}

	setter.SetAPIKey(req.APIKey)
	respondJSON(w, http.StatusOK, map[string]any{"configured": setter.HasAPIKey()})
}
