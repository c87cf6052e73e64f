// Package nav provides the navigable location that addresses the active
// conversation, the terminal client's equivalent of the browser route.
package nav

import (
	"sync"
	"sync/atomic"
)

// Location holds a single addressable conversation ID. An empty value
// means "no active conversation". Writes are observable through a
// callback so the controller can react to externally driven changes
// (deep links) without polling.
//
// Loop avoidance between location-driven loads and state-driven location
// writes uses compare-before-act on the value itself plus a monotonic
// revision: a write that does not change the value is a no-op and never
// re-triggers the opposite direction.
type Location struct {
	mu       sync.Mutex
	current  string
	revision atomic.Uint64
	onChange func(id string)
}

// New creates a location initialized to the given conversation ID
// (empty for the home state).
func New(initial string) *Location {
	return &Location{current: initial}
}

// OnChange registers a callback invoked after every effective change.
// Only one callback is supported; later registrations replace earlier
// ones. The callback runs without the location lock held.
func (l *Location) OnChange(fn func(id string)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Current returns the conversation ID the location addresses, or "".
func (l *Location) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Revision returns a counter that increments on every effective change.
func (l *Location) Revision() uint64 {
	return l.revision.Load()
}

// Replace sets the location to the given conversation ID. Setting the
// value it already holds is a no-op, which is what breaks
// location <-> state feedback loops.
func (l *Location) Replace(id string) {
	l.mu.Lock()
	if l.current == id {
		l.mu.Unlock()
		return
	}
	l.current = id
	fn := l.onChange
	l.mu.Unlock()

	l.revision.Add(1)
	if fn != nil {
		fn(id)
	}
}
