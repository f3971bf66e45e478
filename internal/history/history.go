package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS chat_messages (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			source TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_chat_messages_user_created
			ON chat_messages(user_id, created_at DESC);
	`

	insertSQL = `
		INSERT INTO chat_messages (id, user_id, role, content, source)
		VALUES ($1, $2, $3, $4, $5)
	`

	recentSQL = `
		SELECT id, user_id, role, content, COALESCE(source, ''), created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
)

// Message is one stored chat turn.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists chat history in PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a chat history repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Initialize creates the chat table if it doesn't exist.
func (r *Repository) Initialize(ctx context.Context) error {
	_, err := r.db.Exec(ctx, createTableSQL)
	return err
}

// Save stores one chat turn and returns its generated id.
func (r *Repository) Save(ctx context.Context, userID, role, content, source string) (string, error) {
	id := uuid.New().String()
	if _, err := r.db.Exec(ctx, insertSQL, id, userID, role, content, source); err != nil {
		return "", fmt.Errorf("failed to save message: %w", err)
	}
	return id, nil
}

// Recent returns the user's latest turns, oldest first.
func (r *Repository) Recent(ctx context.Context, userID string, limit int) ([]Message, error) {
	rows, err := r.db.Query(ctx, recentSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// query returns newest first; callers want chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
