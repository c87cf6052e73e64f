// Package gateway is the client for the remote chat API that performs
// retrieval, translation, and answer generation.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetchat/internal/chat"
)

// ErrNotFound is returned when the gateway rejects a conversation ID.
var ErrNotFound = errors.New("conversation not found")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("gateway: unexpected status %d", e.StatusCode)
}

// SendResult is the gateway's reply to a posted user message.
type SendResult struct {
	Answer    string        `json:"answer"`
	Sources   []chat.Source `json:"sources"`
	MessageID string        `json:"message_id"`
}

// AuthResult is the gateway's reply to login/register.
type AuthResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// User identifies the authenticated account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client is the Remote Chat Gateway contract. All calls are fire-once;
// the client never retries.
type Client interface {
	// CreateChat creates an empty session and returns its ID.
	CreateChat(ctx context.Context) (string, error)

	// ListChats returns all of the user's conversations (summaries,
	// without messages).
	ListChats(ctx context.Context) ([]*chat.Conversation, error)

	// GetChat returns the full conversation including messages.
	// Returns ErrNotFound when the ID is unknown.
	GetChat(ctx context.Context, id string) (*chat.Conversation, error)

	// SendMessage posts a user message and returns the assistant reply.
	SendMessage(ctx context.Context, id, text string) (*SendResult, error)

	// DeleteChat removes a conversation server-side.
	DeleteChat(ctx context.Context, id string) error

	// Login authenticates and returns an access token.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Register creates an account and returns an access token.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
}

// Wire shapes. The gateway speaks JSON with snake_case fields and
// RFC 3339 timestamps.

type wireSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Title     *string       `json:"title"`
	CreatedAt string        `json:"created_at"`
	Messages  []wireMessage `json:"messages,omitempty"`
}

type wireMessage struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Sources   []chat.Source `json:"sources,omitempty"`
	CreatedAt string        `json:"created_at"`
}

func parseWireTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func conversationFromWire(ws wireSession) *chat.Conversation {
	c := &chat.Conversation{
		ID:        ws.ID,
		CreatedAt: parseWireTime(ws.CreatedAt),
		UpdatedAt: parseWireTime(ws.CreatedAt),
	}
	if ws.Title != nil {
		c.Title = *ws.Title
	}
	for _, wm := range ws.Messages {
		c.Messages = append(c.Messages, chat.Message{
			ID:        wm.ID,
			Role:      chat.Role(wm.Role),
			Content:   wm.Content,
			Sources:   wm.Sources,
			CreatedAt: parseWireTime(wm.CreatedAt),
		})
	}
	return c
}
