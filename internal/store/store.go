// Package store holds the in-memory conversation cache shared by the
// controller and the presentation layer.
package store

import (
	"sync"

	"budgetchat/internal/chat"
)

// Store is the authoritative-as-known set of conversations plus the
// loading flags for the list and the active conversation. It performs no
// network calls.
type Store struct {
	mu            sync.RWMutex
	order         []string
	byID          map[string]*chat.Conversation
	loadingList   bool
	loadingActive bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byID: make(map[string]*chat.Conversation),
	}
}

// Get returns a copy of the conversation with the given ID, or nil.
func (s *Store) Get(id string) *chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byID[id]; ok {
		return c.Clone()
	}
	return nil
}

// Upsert inserts or replaces a conversation by ID. New conversations are
// prepended so the list reads most-recent-first; replacements keep their
// position.
func (s *Store) Upsert(c *chat.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := c.Clone()
	if _, ok := s.byID[cp.ID]; !ok {
		s.order = append([]string{cp.ID}, s.order...)
	}
	s.byID[cp.ID] = cp
}

// Remove deletes the conversation with the given ID. It reports whether
// an entry was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Replace swaps the entire contents with the given conversations,
// preserving their order.
func (s *Store) Replace(convs []*chat.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.byID = make(map[string]*chat.Conversation, len(convs))
	for _, c := range convs {
		if _, ok := s.byID[c.ID]; ok {
			continue
		}
		cp := c.Clone()
		s.order = append(s.order, cp.ID)
		s.byID[cp.ID] = cp
	}
}

// All returns copies of all conversations in store order.
func (s *Store) All() []*chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*chat.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// First returns the first conversation in store order, or nil.
func (s *Store) First() *chat.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil
	}
	return s.byID[s.order[0]].Clone()
}

// Len returns the number of conversations held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Contains reports whether a conversation with the given ID is held.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// AppendMessage appends a message to an existing conversation in place.
// It reports whether the conversation was found.
func (s *Store) AppendMessage(id string, msg chat.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return false
	}
	c.AppendMessage(msg)
	return true
}

// RemoveMessage removes the message with msgID from the conversation,
// leaving all other messages intact.
func (s *Store) RemoveMessage(id, msgID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return false
	}
	return c.RemoveMessage(msgID)
}

// SetLoadingList sets the list-loading flag.
func (s *Store) SetLoadingList(v bool) {
	s.mu.Lock()
	s.loadingList = v
	s.mu.Unlock()
}

// LoadingList reports whether the conversation list is being fetched.
func (s *Store) LoadingList() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingList
}

// SetLoadingActive sets the active-conversation-loading flag.
func (s *Store) SetLoadingActive(v bool) {
	s.mu.Lock()
	s.loadingActive = v
	s.mu.Unlock()
}

// LoadingActive reports whether the active conversation detail is being
// fetched.
func (s *Store) LoadingActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingActive
}
