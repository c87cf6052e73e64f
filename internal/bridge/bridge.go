package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"budgetchat/internal/debug"
	"budgetchat/internal/pubsub"
)

// Bridge subscribes to the hub's brokers and forwards their events to
// the tea.Program as messages.
type Bridge struct {
	hub     *pubsub.Hub
	program *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a bridge between the hub and the program.
func New(hub *pubsub.Hub, program *tea.Program) *Bridge {
	return &Bridge{hub: hub, program: program}
}

// Start begins forwarding events. Call Stop to shut down.
func (b *Bridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(2)
	go b.subscribeChat()
	go b.subscribeSpeech()

	debug.Event("bridge", "start", "event bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "event bridge stopped")
}

func (b *Bridge) subscribeChat() {
	defer b.wg.Done()

	ch := b.hub.Chat.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.program.Send(ChatEventMsg{Event: event})
		}
	}
}

func (b *Bridge) subscribeSpeech() {
	defer b.wg.Done()

	ch := b.hub.Speech.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.program.Send(SpeechEventMsg{Event: event})
		}
	}
}
