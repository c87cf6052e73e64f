package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"budgetchat/internal/chat"
	"budgetchat/internal/events"
	"budgetchat/internal/gateway"
	"budgetchat/internal/nav"
	"budgetchat/internal/pubsub"
	"budgetchat/internal/store"
)

// fakeGateway is a scriptable gateway.Client.
type fakeGateway struct {
	mu sync.Mutex

	createID  string
	createErr error

	listResp []*chat.Conversation
	listErr  error

	getResp map[string]*chat.Conversation
	getErr  map[string]error
	// getGate blocks GetChat for an ID until the channel is closed.
	getGate map[string]chan struct{}

	sendResp *gateway.SendResult
	sendErr  error

	deleteErr error

	createCalls int
	getCalls    []string
	sendCalls   []string
	deleteCalls []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		getResp: make(map[string]*chat.Conversation),
		getErr:  make(map[string]error),
		getGate: make(map[string]chan struct{}),
	}
}

func (f *fakeGateway) CreateChat(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func (f *fakeGateway) ListChats(context.Context) ([]*chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listResp, f.listErr
}

func (f *fakeGateway) GetChat(_ context.Context, id string) (*chat.Conversation, error) {
	f.mu.Lock()
	gate := f.getGate[id]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, id)
	if err := f.getErr[id]; err != nil {
		return nil, err
	}
	if conv, ok := f.getResp[id]; ok {
		return conv.Clone(), nil
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeGateway) SendMessage(_ context.Context, id, _ string) (*gateway.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls = append(f.sendCalls, id)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sendResp != nil {
		return f.sendResp, nil
	}
	return &gateway.SendResult{Answer: "answer", MessageID: "m1"}, nil
}

func (f *fakeGateway) DeleteChat(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeGateway) Login(context.Context, string, string) (*gateway.AuthResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Register(context.Context, string, string, string) (*gateway.AuthResult, error) {
	return nil, errors.New("not implemented")
}

// fakeArchiver records archive writes.
type fakeArchiver struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (a *fakeArchiver) Save(_ context.Context, c *chat.Conversation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, c.ID)
	return nil
}

func (a *fakeArchiver) Delete(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleted = append(a.deleted, id)
	return nil
}

func conv(id, title string, msgs ...chat.Message) *chat.Conversation {
	return &chat.Conversation{
		ID:       id,
		Title:    title,
		Messages: msgs,
	}
}

func msg(id string, role chat.Role, content string) chat.Message {
	return chat.Message{ID: id, Role: role, Content: content}
}

type fixture struct {
	gw     *fakeGateway
	store  *store.Store
	loc    *nav.Location
	broker *pubsub.Broker[events.ChatEvent]
	events <-chan pubsub.Event[events.ChatEvent]
	ctrl   *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	gw := newFakeGateway()
	st := store.New()
	loc := nav.New("")
	broker := pubsub.NewBroker[events.ChatEvent]("chat")
	t.Cleanup(broker.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &fixture{
		gw:     gw,
		store:  st,
		loc:    loc,
		broker: broker,
		events: broker.Subscribe(ctx),
		ctrl:   New(gw, st, loc, broker, opts...),
	}
}

// drainEvents returns the event payloads published so far.
func (f *fixture) drainEvents() []events.ChatEvent {
	var out []events.ChatEvent
	for {
		select {
		case ev := <-f.events:
			out = append(out, ev.Payload)
		case <-time.After(50 * time.Millisecond):
			return out
		}
	}
}

func (f *fixture) hasNotice(t *testing.T, text string) {
	t.Helper()
	for _, ev := range f.drainEvents() {
		if ev.Type == events.ChatEventNotice && ev.Notice == text {
			return
		}
	}
	t.Errorf("expected notice %q, none published", text)
}

func TestLoadConversations(t *testing.T) {
	t.Run("replaces store contents", func(t *testing.T) {
		f := newFixture(t)
		f.gw.listResp = []*chat.Conversation{conv("c2", "Second"), conv("c1", "First")}

		if err := f.ctrl.LoadConversations(context.Background()); err != nil {
			t.Fatalf("LoadConversations: %v", err)
		}

		if got := f.store.Len(); got != 2 {
			t.Fatalf("store.Len() = %d, want 2", got)
		}
		if f.ctrl.Active() != "" {
			t.Errorf("Active() = %q, want none selected", f.ctrl.Active())
		}
	})

	t.Run("activates the conversation the location names", func(t *testing.T) {
		f := newFixture(t)
		f.loc.Replace("c1")
		f.gw.listResp = []*chat.Conversation{conv("c1", "First")}

		if err := f.ctrl.LoadConversations(context.Background()); err != nil {
			t.Fatalf("LoadConversations: %v", err)
		}

		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want c1", f.ctrl.Active())
		}
	})

	t.Run("ignores a location ID missing from the list", func(t *testing.T) {
		f := newFixture(t)
		f.loc.Replace("ghost")
		f.gw.listResp = []*chat.Conversation{conv("c1", "First")}

		if err := f.ctrl.LoadConversations(context.Background()); err != nil {
			t.Fatalf("LoadConversations: %v", err)
		}

		if f.ctrl.Active() != "" {
			t.Errorf("Active() = %q, want none", f.ctrl.Active())
		}
	})

	t.Run("failure publishes a notice and clears the loading flag", func(t *testing.T) {
		f := newFixture(t)
		f.gw.listErr = errors.New("boom")

		if err := f.ctrl.LoadConversations(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if f.store.LoadingList() {
			t.Error("loading flag still set after failure")
		}
		f.hasNotice(t, "Failed to load conversations")
	})
}

func TestSelect(t *testing.T) {
	t.Run("loads detail and stores it", func(t *testing.T) {
		f := newFixture(t)
		f.store.Replace([]*chat.Conversation{conv("c1", "First")})
		f.gw.getResp["c1"] = conv("c1", "First", msg("m1", chat.RoleUser, "hello"))

		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		if f.ctrl.Active() != "c1" {
			t.Fatalf("Active() = %q, want c1", f.ctrl.Active())
		}
		if f.loc.Current() != "c1" {
			t.Errorf("location = %q, want c1", f.loc.Current())
		}
		got := f.store.Get("c1")
		if got == nil || len(got.Messages) != 1 {
			t.Fatalf("stored conversation = %+v, want 1 message", got)
		}
	})

	t.Run("selecting the active conversation is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.gw.getResp["c1"] = conv("c1", "First")
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}
		before := len(f.gw.getCalls)

		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("second Select: %v", err)
		}
		if len(f.gw.getCalls) != before {
			t.Errorf("GetChat called %d times, want %d", len(f.gw.getCalls), before)
		}
	})

	t.Run("failure reverts the pointer and the location", func(t *testing.T) {
		f := newFixture(t)
		f.gw.getResp["c1"] = conv("c1", "First")
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select c1: %v", err)
		}

		f.gw.getErr["c2"] = errors.New("boom")
		if err := f.ctrl.Select(context.Background(), "c2"); err == nil {
			t.Fatal("expected error")
		}

		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want reverted to c1", f.ctrl.Active())
		}
		if f.loc.Current() != "c1" {
			t.Errorf("location = %q, want reverted to c1", f.loc.Current())
		}
		f.hasNotice(t, "Failed to load conversation")
	})

	t.Run("a completion that lost to a newer select is discarded", func(t *testing.T) {
		f := newFixture(t)
		f.gw.getResp["slow"] = conv("slow", "Slow", msg("m1", chat.RoleUser, "old"))
		f.gw.getResp["fast"] = conv("fast", "Fast", msg("m2", chat.RoleUser, "new"))

		gate := make(chan struct{})
		f.gw.getGate["slow"] = gate

		done := make(chan error, 1)
		go func() { done <- f.ctrl.Select(context.Background(), "slow") }()

		// Wait until the slow select has moved the pointer.
		deadline := time.After(time.Second)
		for f.ctrl.Active() != "slow" {
			select {
			case <-deadline:
				t.Fatal("slow select never started")
			case <-time.After(time.Millisecond):
			}
		}

		if err := f.ctrl.Select(context.Background(), "fast"); err != nil {
			t.Fatalf("Select fast: %v", err)
		}

		close(gate)
		if err := <-done; err != nil {
			t.Fatalf("slow select: %v", err)
		}

		if f.ctrl.Active() != "fast" {
			t.Errorf("Active() = %q, want fast", f.ctrl.Active())
		}
		if f.store.Get("slow") != nil {
			t.Error("stale completion was applied to the store")
		}
	})
}

func TestSyncFromLocation(t *testing.T) {
	t.Run("loads the conversation the location names", func(t *testing.T) {
		f := newFixture(t)
		f.gw.getResp["c1"] = conv("c1", "First", msg("m1", chat.RoleUser, "hello"))
		f.loc.Replace("c1")

		if err := f.ctrl.SyncFromLocation(context.Background()); err != nil {
			t.Fatalf("SyncFromLocation: %v", err)
		}
		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want c1", f.ctrl.Active())
		}
	})

	t.Run("unknown ID falls back to the empty state", func(t *testing.T) {
		f := newFixture(t)
		f.loc.Replace("ghost")

		if err := f.ctrl.SyncFromLocation(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if f.ctrl.Active() != "" {
			t.Errorf("Active() = %q, want empty", f.ctrl.Active())
		}
		if f.loc.Current() != "" {
			t.Errorf("location = %q, want cleared", f.loc.Current())
		}
		f.hasNotice(t, "Conversation not found")
	})

	t.Run("matching location is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.gw.getResp["c1"] = conv("c1", "First")
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}
		before := len(f.gw.getCalls)

		if err := f.ctrl.SyncFromLocation(context.Background()); err != nil {
			t.Fatalf("SyncFromLocation: %v", err)
		}
		if len(f.gw.getCalls) != before {
			t.Error("SyncFromLocation refetched an already-active conversation")
		}
	})
}

func TestSend(t *testing.T) {
	t.Run("lazily creates a conversation on first send", func(t *testing.T) {
		archive := &fakeArchiver{}
		f := newFixture(t, WithArchive(archive))
		f.gw.createID = "c1"
		f.gw.sendResp = &gateway.SendResult{Answer: "42 lakh crore", MessageID: "m2"}
		f.gw.getResp["c1"] = conv("c1", "Budget size",
			msg("m1", chat.RoleUser, "abc"),
			msg("m2", chat.RoleAssistant, "42 lakh crore"),
		)

		if err := f.ctrl.Send(context.Background(), "abc"); err != nil {
			t.Fatalf("Send: %v", err)
		}

		if f.gw.createCalls != 1 {
			t.Errorf("CreateChat called %d times, want 1", f.gw.createCalls)
		}
		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want c1", f.ctrl.Active())
		}
		if f.loc.Current() != "c1" {
			t.Errorf("location = %q, want c1", f.loc.Current())
		}

		got := f.store.Get("c1")
		if got == nil {
			t.Fatal("conversation missing from store")
		}
		if len(got.Messages) != 2 {
			t.Fatalf("got %d messages, want canonical 2", len(got.Messages))
		}
		if got.Messages[0].ID != "m1" || got.Messages[1].ID != "m2" {
			t.Errorf("messages = %v, want canonical IDs m1, m2", got.Messages)
		}
		if got.Title != "Budget size" {
			t.Errorf("title = %q, want server-derived title", got.Title)
		}
		if len(archive.saved) == 0 || archive.saved[len(archive.saved)-1] != "c1" {
			t.Errorf("archive saves = %v, want c1", archive.saved)
		}
	})

	t.Run("create failure leaves everything untouched", func(t *testing.T) {
		f := newFixture(t)
		f.gw.createErr = errors.New("boom")

		if err := f.ctrl.Send(context.Background(), "hello"); err == nil {
			t.Fatal("expected error")
		}

		if f.store.Len() != 0 {
			t.Errorf("store.Len() = %d, want 0", f.store.Len())
		}
		if f.ctrl.Active() != "" {
			t.Errorf("Active() = %q, want empty", f.ctrl.Active())
		}
		if f.ctrl.Sending() {
			t.Error("sending flag stuck after create failure")
		}
		f.hasNotice(t, "Failed to create conversation")
	})

	t.Run("send failure rolls back only the optimistic message", func(t *testing.T) {
		f := newFixture(t)
		existing := conv("c1", "First", msg("m1", chat.RoleUser, "earlier"))
		f.store.Replace([]*chat.Conversation{existing})
		f.gw.getResp["c1"] = existing
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		f.gw.sendErr = errors.New("boom")
		if err := f.ctrl.Send(context.Background(), "new question"); err == nil {
			t.Fatal("expected error")
		}

		got := f.store.Get("c1")
		if len(got.Messages) != 1 || got.Messages[0].ID != "m1" {
			t.Errorf("messages after rollback = %v, want only m1", got.Messages)
		}
		if f.ctrl.Sending() {
			t.Error("sending flag stuck after send failure")
		}
		f.hasNotice(t, "Failed to send message")
	})

	t.Run("success replaces the conversation with the canonical reload", func(t *testing.T) {
		f := newFixture(t)
		existing := conv("c1", "", msg("m1", chat.RoleUser, "earlier"))
		f.store.Replace([]*chat.Conversation{existing})
		f.gw.getResp["c1"] = existing.Clone()
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		f.gw.getResp["c1"] = conv("c1", "Titled now",
			msg("m1", chat.RoleUser, "earlier"),
			msg("m2", chat.RoleUser, "follow-up"),
			msg("m3", chat.RoleAssistant, "reply"),
		)

		if err := f.ctrl.Send(context.Background(), "follow-up"); err != nil {
			t.Fatalf("Send: %v", err)
		}

		got := f.store.Get("c1")
		if len(got.Messages) != 3 {
			t.Fatalf("got %d messages, want canonical 3", len(got.Messages))
		}
		for _, m := range got.Messages {
			if m.IsTemp() {
				t.Errorf("optimistic message %s survived the canonical reload", m.ID)
			}
		}
		if got.Title != "Titled now" {
			t.Errorf("title = %q, want server title", got.Title)
		}
	})

	t.Run("empty and whitespace input is a silent no-op", func(t *testing.T) {
		f := newFixture(t)
		if err := f.ctrl.Send(context.Background(), "   "); err != nil {
			t.Fatalf("Send: %v", err)
		}
		if f.gw.createCalls != 0 || len(f.gw.sendCalls) != 0 {
			t.Error("gateway called for empty input")
		}
	})
}

func TestNewConversation(t *testing.T) {
	f := newFixture(t)
	f.store.Replace([]*chat.Conversation{conv("c1", "First")})
	f.gw.getResp["c1"] = conv("c1", "First")
	if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	f.ctrl.NewConversation()

	if f.ctrl.Active() != "" {
		t.Errorf("Active() = %q, want empty", f.ctrl.Active())
	}
	if f.loc.Current() != "" {
		t.Errorf("location = %q, want empty", f.loc.Current())
	}
	if f.store.Len() != 1 {
		t.Errorf("store.Len() = %d, existing conversations must survive", f.store.Len())
	}
}

func TestDelete(t *testing.T) {
	t.Run("deleting the only conversation clears the pointer", func(t *testing.T) {
		archive := &fakeArchiver{}
		f := newFixture(t, WithArchive(archive))
		f.store.Replace([]*chat.Conversation{conv("c1", "First")})
		f.gw.getResp["c1"] = conv("c1", "First")
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		if err := f.ctrl.Delete(context.Background(), "c1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		if f.store.Len() != 0 {
			t.Errorf("store.Len() = %d, want 0", f.store.Len())
		}
		if f.ctrl.Active() != "" || f.loc.Current() != "" {
			t.Errorf("active=%q loc=%q, want both empty", f.ctrl.Active(), f.loc.Current())
		}
		if len(archive.deleted) != 1 || archive.deleted[0] != "c1" {
			t.Errorf("archive deletes = %v, want [c1]", archive.deleted)
		}
	})

	t.Run("deleting the active conversation falls back to the first remaining", func(t *testing.T) {
		f := newFixture(t)
		f.store.Replace([]*chat.Conversation{conv("c1", "First"), conv("c2", "Second"), conv("c3", "Third")})
		f.gw.getResp["c2"] = conv("c2", "Second")
		if err := f.ctrl.Select(context.Background(), "c2"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		if err := f.ctrl.Delete(context.Background(), "c2"); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want first remaining c1", f.ctrl.Active())
		}
		if f.loc.Current() != "c1" {
			t.Errorf("location = %q, want c1", f.loc.Current())
		}
	})

	t.Run("deleting an inactive conversation keeps the pointer", func(t *testing.T) {
		f := newFixture(t)
		f.store.Replace([]*chat.Conversation{conv("c1", "First"), conv("c2", "Second")})
		f.gw.getResp["c1"] = conv("c1", "First")
		if err := f.ctrl.Select(context.Background(), "c1"); err != nil {
			t.Fatalf("Select: %v", err)
		}

		if err := f.ctrl.Delete(context.Background(), "c2"); err != nil {
			t.Fatalf("Delete: %v", err)
		}

		if f.ctrl.Active() != "c1" {
			t.Errorf("Active() = %q, want unchanged c1", f.ctrl.Active())
		}
	})

	t.Run("gateway failure leaves the store untouched", func(t *testing.T) {
		f := newFixture(t)
		f.store.Replace([]*chat.Conversation{conv("c1", "First")})
		f.gw.deleteErr = errors.New("boom")

		if err := f.ctrl.Delete(context.Background(), "c1"); err == nil {
			t.Fatal("expected error")
		}
		if f.store.Len() != 1 {
			t.Errorf("store.Len() = %d, want untouched 1", f.store.Len())
		}
		f.hasNotice(t, "Failed to delete conversation")
	})
}

func TestSendWhileSending(t *testing.T) {
	// A second send while one is in flight must be dropped, not queued.
	f := newFixture(t)
	f.gw.createID = "c1"
	f.gw.getResp["c1"] = conv("c1", "")

	gate := make(chan struct{})
	f.gw.getGate["c1"] = gate

	done := make(chan error, 1)
	go func() { done <- f.ctrl.Send(context.Background(), "first") }()

	deadline := time.After(time.Second)
	for !f.ctrl.Sending() {
		select {
		case <-deadline:
			t.Fatal("send never started")
		case <-time.After(time.Millisecond):
		}
	}

	if err := f.ctrl.Send(context.Background(), "second"); err != nil {
		t.Fatalf("overlapping Send: %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := len(f.gw.sendCalls); got != 1 {
		t.Errorf("SendMessage called %d times, want 1", got)
	}
}

func TestSendPublishesLifecycleEvents(t *testing.T) {
	f := newFixture(t)
	f.gw.createID = "c1"
	f.gw.getResp["c1"] = conv("c1", "", msg("m1", chat.RoleUser, "q"), msg("m2", chat.RoleAssistant, "a"))

	if err := f.ctrl.Send(context.Background(), "q"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	var started, finished bool
	for _, ev := range f.drainEvents() {
		switch ev.Type {
		case events.ChatEventSendStarted:
			started = true
		case events.ChatEventSendFinished:
			finished = true
		}
	}
	if !started || !finished {
		t.Errorf("send lifecycle events: started=%v finished=%v, want both", started, finished)
	}
}

func ExampleController_Send() {
	gw := newFakeGateway()
	gw.createID = "c1"
	gw.getResp["c1"] = conv("c1", "Defence outlay",
		msg("m1", chat.RoleUser, "How much for defence?"),
		msg("m2", chat.RoleAssistant, "6.2 lakh crore"),
	)

	ctrl := New(gw, store.New(), nav.New(""), nil)
	_ = ctrl.Send(context.Background(), "How much for defence?")

	c := ctrl.ActiveConversation()
	fmt.Println(c.Title, len(c.Messages))
	// Output: Defence outlay 2
}
