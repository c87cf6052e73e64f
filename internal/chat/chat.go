// Package chat defines the conversation domain model.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source is a document reference attached to an assistant message.
type Source struct {
	DocName    string `json:"doc_name"`
	PageNumber int    `json:"page_number"`
}

// Message represents a single conversation message.
// Optimistic messages carry a client-generated temporary ID until the
// conversation is reloaded from the gateway.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Sources   []Source
	CreatedAt time.Time
}

// TempIDPrefix marks client-generated message IDs that have not been
// confirmed by the gateway.
const TempIDPrefix = "temp-"

// NewUserMessage creates an optimistic user message with a temporary ID.
func NewUserMessage(content string) Message {
	return Message{
		ID:        TempIDPrefix + uuid.New().String(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now(),
	}
}

// IsTemp reports whether the message still has a client-generated ID.
func (m Message) IsTemp() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

// Conversation represents a chat session with the assistant.
// An empty Title means the server has not derived one yet.
type Conversation struct {
	ID        string
	Title     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayTitle returns the title to show in lists, falling back to a
// placeholder for untitled conversations.
func (c *Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New conversation"
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return &c.Messages[i]
		}
	}
	return nil
}

// AppendMessage adds a message to the end of the conversation and bumps
// the update timestamp.
func (c *Conversation) AppendMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// RemoveMessage deletes the message with the given ID, leaving all other
// messages intact. It reports whether a message was removed.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, m := range c.Messages {
		if m.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the conversation. Snapshots handed to the
// presentation layer must not alias controller-owned state.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	for i := range cp.Messages {
		if src := c.Messages[i].Sources; src != nil {
			cp.Messages[i].Sources = make([]Source, len(src))
			copy(cp.Messages[i].Sources, src)
		}
	}
	return &cp
}
