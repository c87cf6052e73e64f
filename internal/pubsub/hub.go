package pubsub

import (
	"sync"

	"budgetchat/internal/events"
)

// Hub is the central container for the application's brokers.
type Hub struct {
	Chat   *Broker[events.ChatEvent]
	Speech *Broker[events.SpeechEvent]

	done chan struct{}
}

// NewHub creates a Hub with all brokers initialized.
func NewHub() *Hub {
	return &Hub{
		Chat:   NewBroker[events.ChatEvent]("chat"),
		Speech: NewBroker[events.SpeechEvent]("speech"),
		done:   make(chan struct{}),
	}
}

// Shutdown gracefully shuts down all brokers.
func (h *Hub) Shutdown() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); h.Chat.Shutdown() }()
	go func() { defer wg.Done(); h.Speech.Shutdown() }()
	wg.Wait()
}

// Done returns a channel that's closed when the hub is shut down.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
