// Package bridge connects the pub/sub hub to Bubble Tea.
package bridge

import (
	"budgetchat/internal/events"
	"budgetchat/internal/pubsub"
)

// ChatEventMsg wraps a chat event for the TUI.
type ChatEventMsg struct {
	Event pubsub.Event[events.ChatEvent]
}

// SpeechEventMsg wraps a speech event for the TUI.
type SpeechEventMsg struct {
	Event pubsub.Event[events.SpeechEvent]
}
