package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists learning progress in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lesson_favorites (
			user_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, lesson_id)
		);`,
		`CREATE TABLE IF NOT EXISTS lesson_completions (
			user_id TEXT NOT NULL,
			lesson_id TEXT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, lesson_id)
		);`,
		`CREATE TABLE IF NOT EXISTS notebook_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			text TEXT NOT NULL,
			lesson_title TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notebook_entries_user_created ON notebook_entries (user_id, created_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) ToggleFavorite(ctx context.Context, userID, lessonID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM lesson_favorites WHERE user_id=$1 AND lesson_id=$2`,
		userID, lessonID,
	)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO lesson_favorites (user_id, lesson_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID, lessonID,
	)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) Favorites(ctx context.Context, userID string) ([]string, error) {
	return s.lessonIDs(ctx,
		`SELECT lesson_id FROM lesson_favorites WHERE user_id=$1 ORDER BY created_at`,
		userID)
}

func (s *PostgresStore) MarkCompleted(ctx context.Context, userID, lessonID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lesson_completions (user_id, lesson_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, lesson_id) DO NOTHING`,
		userID, lessonID,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Completed(ctx context.Context, userID string) ([]string, error) {
	return s.lessonIDs(ctx,
		`SELECT lesson_id FROM lesson_completions WHERE user_id=$1 ORDER BY completed_at`,
		userID)
}

func (s *PostgresStore) lessonIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query lesson ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lesson id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson ids: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) AddNotebookEntry(ctx context.Context, entry NotebookEntry) (NotebookEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notebook_entries (id, user_id, text, lesson_title, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.UserID, entry.Text, entry.LessonTitle, entry.CreatedAt,
	)
	if err != nil {
		return NotebookEntry{}, fmt.Errorf("add notebook entry: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) RemoveNotebookEntry(ctx context.Context, userID, entryID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM notebook_entries WHERE user_id=$1 AND id=$2`,
		userID, entryID,
	)
	if err != nil {
		return fmt.Errorf("remove notebook entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notebook entry %s not found", entryID)
	}
	return nil
}

func (s *PostgresStore) NotebookEntries(ctx context.Context, userID string) ([]NotebookEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, text, lesson_title, created_at
		 FROM notebook_entries WHERE user_id=$1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notebook entries: %w", err)
	}
	defer rows.Close()

	var entries []NotebookEntry
	for rows.Next() {
		var e NotebookEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Text, &e.LessonTitle, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notebook entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notebook entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
