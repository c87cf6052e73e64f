package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budgetchat/internal/chat"
)

// ErrNotFound is returned when a conversation is not archived.
var ErrNotFound = errors.New("conversation not archived")

// Preview summarizes an archived conversation for listing.
type Preview struct {
	ID           string
	Title        string
	MessageCount int
	UpdatedAt    time.Time
}

// Store reads and writes archived conversations.
type Store struct {
	db *DB
}

// NewStore creates a store over the archive database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// Save upserts a conversation and replaces its messages with the given
// canonical set.
func (s *Store) Save(ctx context.Context, c *chat.Conversation) error {
	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning archive tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		c.ID, c.Title, c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clearing messages: %w", err)
	}

	for _, m := range c.Messages {
		var sources []byte
		if len(m.Sources) > 0 {
			sources, err = json.Marshal(m.Sources)
			if err != nil {
				return fmt.Errorf("encoding sources: %w", err)
			}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO messages (id, conversation_id, role, content, sources, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, c.ID, string(m.Role), m.Content, nullableText(sources), m.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("inserting message: %w", err)
		}
	}

	return tx.Commit()
}

// Get returns an archived conversation with its messages.
func (s *Store) Get(ctx context.Context, id string) (*chat.Conversation, error) {
	row := s.db.conn.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM conversations WHERE id = ?`, id)

	var c chat.Conversation
	var created, updated int64
	if err := row.Scan(&c.ID, &c.Title, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading conversation: %w", err)
	}
	c.CreatedAt = time.UnixMilli(created)
	c.UpdatedAt = time.UnixMilli(updated)

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, role, content, sources, created_at
		FROM messages WHERE conversation_id = ? ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("reading messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m chat.Message
		var role string
		var sources sql.NullString
		var createdAt int64
		if err := rows.Scan(&m.ID, &role, &m.Content, &sources, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = chat.Role(role)
		m.CreatedAt = time.UnixMilli(createdAt)
		if sources.Valid && sources.String != "" {
			if err := json.Unmarshal([]byte(sources.String), &m.Sources); err != nil {
				return nil, fmt.Errorf("decoding sources: %w", err)
			}
		}
		c.Messages = append(c.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return &c, nil
}

// List returns previews of all archived conversations, most recently
// updated first.
func (s *Store) List(ctx context.Context) ([]Preview, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT c.id, c.title, c.updated_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		GROUP BY c.id
		ORDER BY c.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var previews []Preview
	for rows.Next() {
		var p Preview
		var updated int64
		if err := rows.Scan(&p.ID, &p.Title, &updated, &p.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning preview: %w", err)
		}
		p.UpdatedAt = time.UnixMilli(updated)
		previews = append(previews, p)
	}
	return previews, rows.Err()
}

// Delete removes an archived conversation and its messages.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.conn.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
