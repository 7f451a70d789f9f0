package progress

import (
	"context"
	"time"
)

// NotebookEntry is one snippet the learner saved for later review.
type NotebookEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Text        string    `json:"text"`
	LessonTitle string    `json:"lesson_title"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists per-user learning progress: favorited lessons, completed
// lessons and the review notebook.
type Store interface {
	// ToggleFavorite flips the favorite flag and returns the new state.
	ToggleFavorite(ctx context.Context, userID, lessonID string) (bool, error)
	Favorites(ctx context.Context, userID string) ([]string, error)

	MarkCompleted(ctx context.Context, userID, lessonID string) error
	Completed(ctx context.Context, userID string) ([]string, error)

	AddNotebookEntry(ctx context.Context, entry NotebookEntry) (NotebookEntry, error)
	RemoveNotebookEntry(ctx context.Context, userID, entryID string) error
	NotebookEntries(ctx context.Context, userID string) ([]NotebookEntry, error)

	Close() error
}
