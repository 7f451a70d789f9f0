package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lucamoroni/kaiwa/internal/progress"
)

type toggleFavoriteRequest struct {
	UserID   string `json:"user_id"`
	LessonID string `json:"lesson_id"`
}

type toggleFavoriteResponse struct {
	LessonID  string `json:"lesson_id"`
	Favorited bool   `json:"favorited"`
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	var req toggleFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	userID := normalizeUserID(req.UserID)
	if strings.TrimSpace(req.LessonID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "lesson_id is required")
		return
	}
	if s.catalog != nil {
		if _, err := s.catalog.Get(req.LessonID); err != nil {
			respondError(w, http.StatusNotFound, "unknown_lesson", err.Error())
			return
		}
	}

	favorited, err := s.progress.ToggleFavorite(r.Context(), userID, req.LessonID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, toggleFavoriteResponse{LessonID: req.LessonID, Favorited: favorited})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	userID := normalizeUserID(r.URL.Query().Get("user_id"))
	ids, err := s.progress.Favorites(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"lesson_ids": ids})
}

func (s *Server) handleListCompleted(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	userID := normalizeUserID(r.URL.Query().Get("user_id"))
	ids, err := s.progress.Completed(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"lesson_ids": ids})
}

type addNotebookRequest struct {
	UserID      string `json:"user_id"`
	Text        string `json:"text"`
	LessonTitle string `json:"lesson_title"`
}

func (s *Server) handleAddNotebookEntry(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	var req addNotebookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}

	entry, err := s.progress.AddNotebookEntry(r.Context(), progress.NotebookEntry{
		UserID:      normalizeUserID(req.UserID),
		Text:        text,
		LessonTitle: strings.TrimSpace(req.LessonTitle),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListNotebookEntries(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	userID := normalizeUserID(r.URL.Query().Get("user_id"))
	entries, err := s.progress.NotebookEntries(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleRemoveNotebookEntry(w http.ResponseWriter, r *http.Request) {
	if s.progress == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "progress store not configured")
		return
	}
	entryID := chi.URLParam(r, "id")
	if strings.TrimSpace(entryID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing entry id")
		return
	}
	userID := normalizeUserID(r.URL.Query().Get("user_id"))
	if err := s.progress.RemoveNotebookEntry(r.Context(), userID, entryID); err != nil {
		respondError(w, http.StatusNotFound, "entry_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"removed": entryID})
}

func normalizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "anonymous"
	}
	return userID
}
