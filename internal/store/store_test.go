package store

import (
	"testing"

	"budgetchat/internal/chat"
)

func conv(id, title string) *chat.Conversation {
	return &chat.Conversation{ID: id, Title: title}
}

func TestUpsert(t *testing.T) {
	t.Run("new conversations are prepended", func(t *testing.T) {
		s := New()
		s.Upsert(conv("c1", "First"))
		s.Upsert(conv("c2", "Second"))

		all := s.All()
		if len(all) != 2 {
			t.Fatalf("Len = %d, want 2", len(all))
		}
		if all[0].ID != "c2" || all[1].ID != "c1" {
			t.Errorf("order = [%s %s], want newest first [c2 c1]", all[0].ID, all[1].ID)
		}
	})

	t.Run("replacement keeps list position", func(t *testing.T) {
		s := New()
		s.Upsert(conv("c1", "First"))
		s.Upsert(conv("c2", "Second"))

		s.Upsert(conv("c1", "First, renamed"))

		all := s.All()
		if all[1].ID != "c1" || all[1].Title != "First, renamed" {
			t.Errorf("got %s %q at position 1, want updated c1", all[1].ID, all[1].Title)
		}
	})

	t.Run("stored conversations are isolated from the caller", func(t *testing.T) {
		s := New()
		c := conv("c1", "First")
		c.Messages = []chat.Message{{ID: "m1", Role: chat.RoleUser, Content: "hi"}}
		s.Upsert(c)

		c.Messages[0].Content = "mutated"
		if got := s.Get("c1").Messages[0].Content; got != "hi" {
			t.Errorf("stored content = %q, caller mutation leaked", got)
		}

		snap := s.Get("c1")
		snap.Messages[0].Content = "mutated again"
		if got := s.Get("c1").Messages[0].Content; got != "hi" {
			t.Errorf("stored content = %q, snapshot mutation leaked", got)
		}
	})
}

func TestReplace(t *testing.T) {
	s := New()
	s.Upsert(conv("old", "Old"))

	s.Replace([]*chat.Conversation{conv("c1", "First"), conv("c2", "Second")})

	if s.Contains("old") {
		t.Error("Replace kept a conversation it should have dropped")
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != "c1" || all[1].ID != "c2" {
		t.Errorf("Replace did not preserve the given order: %v", all)
	}
}

func TestRemove(t *testing.T) {
	s := New()
	s.Replace([]*chat.Conversation{conv("c1", ""), conv("c2", ""), conv("c3", "")})

	if !s.Remove("c2") {
		t.Fatal("Remove(c2) = false, want true")
	}
	if s.Remove("c2") {
		t.Error("second Remove(c2) = true, want false")
	}

	all := s.All()
	if len(all) != 2 || all[0].ID != "c1" || all[1].ID != "c3" {
		t.Errorf("after remove: %v, want [c1 c3]", all)
	}
}

func TestFirst(t *testing.T) {
	s := New()
	if s.First() != nil {
		t.Error("First on empty store should be nil")
	}

	s.Replace([]*chat.Conversation{conv("c1", ""), conv("c2", "")})
	if got := s.First(); got == nil || got.ID != "c1" {
		t.Errorf("First = %v, want c1", got)
	}
}

func TestMessages(t *testing.T) {
	s := New()
	s.Upsert(conv("c1", ""))

	if !s.AppendMessage("c1", chat.Message{ID: "m1", Role: chat.RoleUser, Content: "q"}) {
		t.Fatal("AppendMessage to existing conversation failed")
	}
	if s.AppendMessage("ghost", chat.Message{ID: "m2"}) {
		t.Error("AppendMessage to missing conversation succeeded")
	}

	s.AppendMessage("c1", chat.Message{ID: "m2", Role: chat.RoleAssistant, Content: "a"})

	if !s.RemoveMessage("c1", "m1") {
		t.Fatal("RemoveMessage(m1) = false, want true")
	}
	got := s.Get("c1")
	if len(got.Messages) != 1 || got.Messages[0].ID != "m2" {
		t.Errorf("messages = %v, want only m2 left", got.Messages)
	}
}

func TestLoadingFlags(t *testing.T) {
	s := New()
	if s.LoadingList() || s.LoadingActive() {
		t.Error("flags should start false")
	}
	s.SetLoadingList(true)
	s.SetLoadingActive(true)
	if !s.LoadingList() || !s.LoadingActive() {
		t.Error("flags did not latch")
	}
}
