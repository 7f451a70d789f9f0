package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process progress store for local/dev use.
type InMemoryStore struct {
	mu        sync.RWMutex
	favorites map[string]map[string]bool
	completed map[string][]string
	notebook  map[string][]NotebookEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		favorites: make(map[string]map[string]bool),
		completed: make(map[string][]string),
		notebook:  make(map[string][]NotebookEntry),
	}
}

func (s *InMemoryStore) ToggleFavorite(_ context.Context, userID, lessonID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.favorites[userID]
	if set == nil {
		set = make(map[string]bool)
		s.favorites[userID] = set
	}
	if set[lessonID] {
		delete(set, lessonID)
		return false, nil
	}
	set[lessonID] = true
	return true, nil
}

func (s *InMemoryStore) Favorites(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.favorites[userID]))
	for id := range s.favorites[userID] {
		out = append(out, id)
	}
	return out, nil
}

func (s *InMemoryStore) MarkCompleted(_ context.Context, userID, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.completed[userID] {
		if id == lessonID {
			return nil
		}
	}
	s.completed[userID] = append(s.completed[userID], lessonID)
	return nil
}

func (s *InMemoryStore) Completed(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.completed[userID]))
	copy(out, s.completed[userID])
	return out, nil
}

func (s *InMemoryStore) AddNotebookEntry(_ context.Context, entry NotebookEntry) (NotebookEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.notebook[entry.UserID] = append(s.notebook[entry.UserID], entry)
	return entry, nil
}

func (s *InMemoryStore) RemoveNotebookEntry(_ context.Context, userID, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.notebook[userID]
	for i, e := range entries {
		if e.ID == entryID {
			s.notebook[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("notebook entry %s not found", entryID)
}

func (s *InMemoryStore) NotebookEntries(_ context.Context, userID string) ([]NotebookEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]NotebookEntry, len(s.notebook[userID]))
	copy(out, s.notebook[userID])
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
