package httpapi

import (
	"net/http"
	"strings"

	"github.com/lucamoroni/kaiwa/internal/lessons"
)

type lessonListResponse struct {
	Lessons []lessons.Lesson `json:"lessons"`
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "catalog not configured")
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	list := s.catalog.All()
	if category != "" {
		list = s.catalog.ByCategory(category)
	}
	respondJSON(w, http.StatusOK, lessonListResponse{Lessons: list})
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	if s.catalog == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "catalog not configured")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": s.catalog.Categories(),
	})
}

func (s *Server) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"personas":   lessons.Personas(),
		"default_id": lessons.DefaultPersonaID,
	})
}
