// Package events defines the domain event payloads published on the hub.
package events

import "time"

// ChatEventType represents chat-specific event types.
type ChatEventType string

// Chat event type constants.
const (
	ChatEventListLoaded   ChatEventType = "list_loaded"
	ChatEventSwitched     ChatEventType = "switched"
	ChatEventUpserted     ChatEventType = "upserted"
	ChatEventDeleted      ChatEventType = "deleted"
	ChatEventSendStarted  ChatEventType = "send_started"
	ChatEventSendFinished ChatEventType = "send_finished"
	ChatEventNotice       ChatEventType = "notice"
)

// ChatEvent represents a conversation lifecycle event.
type ChatEvent struct {
	Type           ChatEventType
	ConversationID string
	Title          string
	Notice         string // human-readable text for ChatEventNotice
	Timestamp      time.Time
}

// NewChatSwitchedEvent creates a switched event.
func NewChatSwitchedEvent(id string) ChatEvent {
	return ChatEvent{
		Type:           ChatEventSwitched,
		ConversationID: id,
		Timestamp:      time.Now(),
	}
}

// NewChatUpsertedEvent creates an upserted event.
func NewChatUpsertedEvent(id, title string) ChatEvent {
	return ChatEvent{
		Type:           ChatEventUpserted,
		ConversationID: id,
		Title:          title,
		Timestamp:      time.Now(),
	}
}

// NewChatDeletedEvent creates a deleted event.
func NewChatDeletedEvent(id string) ChatEvent {
	return ChatEvent{
		Type:           ChatEventDeleted,
		ConversationID: id,
		Timestamp:      time.Now(),
	}
}

// NewChatListLoadedEvent creates a list-loaded event.
func NewChatListLoadedEvent() ChatEvent {
	return ChatEvent{
		Type:      ChatEventListLoaded,
		Timestamp: time.Now(),
	}
}

// NewChatNoticeEvent creates a user-visible notice event.
func NewChatNoticeEvent(text string) ChatEvent {
	return ChatEvent{
		Type:      ChatEventNotice,
		Notice:    text,
		Timestamp: time.Now(),
	}
}

// NewChatSendEvent creates a send lifecycle event.
func NewChatSendEvent(t ChatEventType, id string) ChatEvent {
	return ChatEvent{
		Type:           t,
		ConversationID: id,
		Timestamp:      time.Now(),
	}
}
