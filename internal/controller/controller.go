// Package controller orchestrates conversation lifecycle against the
// remote gateway: creation, optimistic message send with rollback,
// selection, deletion, and reconciliation between location-driven and
// user-driven navigation.
package controller

import (
	"context"
	"strings"
	"sync"

	"budgetchat/internal/chat"
	"budgetchat/internal/debug"
	"budgetchat/internal/events"
	"budgetchat/internal/gateway"
	"budgetchat/internal/nav"
	"budgetchat/internal/pubsub"
	"budgetchat/internal/store"
)

// Archiver persists canonical conversations locally. Archive failures
// never affect sync semantics; they are only logged.
type Archiver interface {
	Save(ctx context.Context, c *chat.Conversation) error
	Delete(ctx context.Context, id string) error
}

// Controller is the conversation sync controller. All gateway calls are
// fire-once; every failure surfaces as a notice event and rolls back as
// described per operation, and the controller stays usable afterward.
type Controller struct {
	gw      gateway.Client
	store   *store.Store
	loc     *nav.Location
	broker  *pubsub.Broker[events.ChatEvent]
	archive Archiver

	mu      sync.Mutex
	active  string
	sending bool
	// loadGen increments on every select/load so stale completions can
	// be detected and discarded instead of overwriting newer state.
	loadGen uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithArchive enables write-through archiving of canonical conversations.
func WithArchive(a Archiver) Option {
	return func(c *Controller) {
		c.archive = a
	}
}

// New creates a controller over the given collaborators.
func New(gw gateway.Client, st *store.Store, loc *nav.Location, broker *pubsub.Broker[events.ChatEvent], opts ...Option) *Controller {
	c := &Controller{
		gw:     gw,
		store:  st,
		loc:    loc,
		broker: broker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the session store the controller maintains.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Active returns the active conversation ID, or "" for the new-chat state.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// ActiveConversation returns a snapshot of the active conversation, or nil.
func (c *Controller) ActiveConversation() *chat.Conversation {
	c.mu.Lock()
	id := c.active
	c.mu.Unlock()
	if id == "" {
		return nil
	}
	return c.store.Get(id)
}

// Sending reports whether a message send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// LoadConversations fetches all conversations from the gateway and
// replaces the store contents. If the location names a conversation that
// is in the fetched list, it becomes active; nothing is auto-selected
// otherwise.
func (c *Controller) LoadConversations(ctx context.Context) error {
	c.store.SetLoadingList(true)
	convs, err := c.gw.ListChats(ctx)
	c.store.SetLoadingList(false)
	if err != nil {
		c.notice("Failed to load conversations")
		return err
	}

	c.store.Replace(convs)

	if id := c.loc.Current(); id != "" && c.store.Contains(id) {
		c.mu.Lock()
		c.active = id
		c.mu.Unlock()
		c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(id))
	}

	c.publish(pubsub.EventUpdated, events.NewChatListLoadedEvent())
	return nil
}

// Select makes the conversation active and fetches its full detail.
// Selecting the already-active conversation is a no-op. The pointer
// moves optimistically before the fetch; on failure it reverts to the
// previous value. A completion that lost to a newer select is discarded.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	if id == c.active {
		c.mu.Unlock()
		return nil
	}
	prev := c.active
	c.active = id
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	c.store.SetLoadingActive(true)
	c.loc.Replace(id)
	c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(id))
	debug.Event("controller", "select", id)

	conv, err := c.gw.GetChat(ctx, id)

	c.mu.Lock()
	if gen != c.loadGen {
		// A newer select owns the pointer and the loading flag now.
		c.mu.Unlock()
		return nil
	}
	c.store.SetLoadingActive(false)
	if err != nil {
		c.active = prev
		c.mu.Unlock()
		c.loc.Replace(prev)
		c.notice("Failed to load conversation")
		c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(prev))
		return err
	}
	c.mu.Unlock()

	c.store.Upsert(conv)
	c.archiveSave(ctx, conv)
	c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(conv.ID, conv.Title))
	return nil
}

// SyncFromLocation reconciles the active pointer with the location,
// loading the conversation the location names. If the gateway rejects
// the ID, the location falls back to the no-conversation state.
func (c *Controller) SyncFromLocation(ctx context.Context) error {
	id := c.loc.Current()

	c.mu.Lock()
	if id == "" || id == c.active {
		c.mu.Unlock()
		return nil
	}
	prev := c.active
	c.active = id
	c.loadGen++
	gen := c.loadGen
	c.mu.Unlock()

	c.store.SetLoadingActive(true)
	c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(id))
	debug.Event("controller", "sync_from_location", id)

	conv, err := c.gw.GetChat(ctx, id)

	c.mu.Lock()
	if gen != c.loadGen {
		c.mu.Unlock()
		return nil
	}
	c.store.SetLoadingActive(false)
	if err != nil {
		c.active = prev
		c.mu.Unlock()
		// The location named a conversation the gateway rejected;
		// fall back rather than leave a dangling deep link.
		c.loc.Replace(prev)
		c.notice("Conversation not found")
		c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(prev))
		return err
	}
	c.mu.Unlock()

	c.store.Upsert(conv)
	c.archiveSave(ctx, conv)
	c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(conv.ID, conv.Title))
	return nil
}

// Send posts a user message. With no active conversation it first
// creates one lazily; the user message is applied optimistically in both
// branches, rolled back by its temporary ID if the send fails, and
// superseded wholesale by the server's canonical conversation on
// success. Empty input and send-while-sending are silent no-ops.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil
	}
	c.sending = true
	id := c.active
	c.mu.Unlock()

	userMsg := chat.NewUserMessage(text)

	if id == "" {
		newID, err := c.gw.CreateChat(ctx)
		if err != nil {
			c.mu.Lock()
			c.sending = false
			c.mu.Unlock()
			c.notice("Failed to create conversation")
			return err
		}
		id = newID
		conv := &chat.Conversation{
			ID:        id,
			Messages:  []chat.Message{userMsg},
			CreatedAt: userMsg.CreatedAt,
			UpdatedAt: userMsg.CreatedAt,
		}
		c.store.Upsert(conv)
		c.mu.Lock()
		c.active = id
		c.mu.Unlock()
		c.loc.Replace(id)
		c.publish(pubsub.EventCreated, events.NewChatSwitchedEvent(id))
		c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(id, ""))
	} else {
		c.store.AppendMessage(id, userMsg)
		c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(id, ""))
	}

	c.publish(pubsub.EventStarted, events.NewChatSendEvent(events.ChatEventSendStarted, id))
	debug.Event("controller", "send", id)

	res, err := c.gw.SendMessage(ctx, id, text)
	var full *chat.Conversation
	if err == nil {
		debug.Log("send confirmed: conversation=%s message=%s", id, res.MessageID)
		// Reload so the optimistic state is replaced by the canonical
		// message list and any server-derived title.
		full, err = c.gw.GetChat(ctx, id)
	}

	if err != nil {
		c.store.RemoveMessage(id, userMsg.ID)
		c.notice("Failed to send message")
		c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(id, ""))
	} else {
		c.store.Upsert(full)
		c.archiveSave(ctx, full)
		c.publish(pubsub.EventUpdated, events.NewChatUpsertedEvent(full.ID, full.Title))
	}

	c.mu.Lock()
	c.sending = false
	c.mu.Unlock()
	c.publish(pubsub.EventFinished, events.NewChatSendEvent(events.ChatEventSendFinished, id))
	return err
}

// NewConversation clears the active pointer and returns the location to
// the no-conversation state. No gateway call; the session is created
// lazily on the first message.
func (c *Controller) NewConversation() {
	c.mu.Lock()
	c.active = ""
	c.mu.Unlock()
	c.loc.Replace("")
	c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(""))
}

// Delete removes a conversation remotely, then locally. If the deleted
// conversation was active, the first remaining one becomes active, or
// the pointer clears when none remain. On gateway failure the store is
// left untouched.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.gw.DeleteChat(ctx, id); err != nil {
		c.notice("Failed to delete conversation")
		return err
	}

	c.store.Remove(id)
	c.archiveDelete(ctx, id)

	c.mu.Lock()
	wasActive := c.active == id
	if wasActive {
		if first := c.store.First(); first != nil {
			c.active = first.ID
			c.mu.Unlock()
			c.loc.Replace(first.ID)
			c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(first.ID))
		} else {
			c.active = ""
			c.mu.Unlock()
			c.loc.Replace("")
			c.publish(pubsub.EventUpdated, events.NewChatSwitchedEvent(""))
		}
	} else {
		c.mu.Unlock()
	}

	c.publish(pubsub.EventDeleted, events.NewChatDeletedEvent(id))
	return nil
}

func (c *Controller) publish(t pubsub.EventType, ev events.ChatEvent) {
	if c.broker != nil {
		c.broker.Publish(t, ev)
	}
}

func (c *Controller) notice(text string) {
	debug.Event("controller", "notice", text)
	c.publish(pubsub.EventFailed, events.NewChatNoticeEvent(text))
}

func (c *Controller) archiveSave(ctx context.Context, conv *chat.Conversation) {
	if c.archive == nil {
		return
	}
	if err := c.archive.Save(ctx, conv); err != nil {
		debug.Error("controller", err, "archiving conversation")
	}
}

func (c *Controller) archiveDelete(ctx context.Context, id string) {
	if c.archive == nil {
		return
	}
	if err := c.archive.Delete(ctx, id); err != nil {
		debug.Error("controller", err, "removing archived conversation")
	}
}
