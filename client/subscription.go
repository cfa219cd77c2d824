package client

import (
	"encoding/json"
	"sync"
	"sync/atomic"
)

// Handler is a callback invoked with the payload of a push event
type Handler func(json.RawMessage)

// Subscription binds an event name to a caller-supplied handler with two
// guarantees: the handler actually invoked is always the most recently
// supplied one, and re-binding never duplicates the underlying
// registration with the channel.
//
// The mechanism is a two-layer indirection: a stable dispatch function is
// registered with the channel at most once per event name, and it
// forwards to a swappable handler slot. Swapping the slot (Rebind) is
// cheap and never touches the channel registration, which is what
// prevents a previously bound handler from running after it has been
// replaced.
type Subscription struct {
	// latest handler; written synchronously by Rebind before any event
	// delivered afterwards can observe the old value
	handler atomic.Value // Handler

	mu       sync.Mutex
	event    string
	dispatch func(json.RawMessage)
	handle   *listenerHandle
	ch       *Channel
}

// Subscribe registers handler for the named push event on the shared
// channel. An empty event name creates an inert subscription whose
// Cancel is a no-op.
func Subscribe(event string, handler Handler) *Subscription {
	s := &Subscription{}
	s.handler.Store(Handler(nil))
	s.dispatch = func(data json.RawMessage) {
		if fn, _ := s.handler.Load().(Handler); fn != nil {
			fn(data)
		}
	}
	s.Rebind(event, handler)
	return s
}

// Rebind swaps in a new handler and, only if the event name changed,
// re-registers with the channel. Calling it repeatedly with the same
// event name updates the handler without touching the registration.
func (s *Subscription) Rebind(event string, handler Handler) {
	// The handler slot must be current before any registration work so a
	// frame arriving mid-rebind runs the new handler, never the old one.
	s.handler.Store(handler)

	s.mu.Lock()
	defer s.mu.Unlock()

	if event == s.event && (s.handle != nil || event == "") {
		return
	}

	if s.handle != nil {
		s.ch.off(s.event, s.handle)
		s.handle = nil
	}
	s.event = event
	if event == "" {
		return
	}

	s.ch = Acquire()
	s.handle = s.ch.on(event, s.dispatch)
}

// Cancel deregisters the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		s.ch.off(s.event, s.handle)
		s.handle = nil
	}
}
