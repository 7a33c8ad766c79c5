package graph

import (
	"sync"

	"github.com/aretw0/flowforge/pkg/domain"
)

// StateListener receives every state write of a block.
// Listeners run synchronously on the goroutine that changed the state, after the block's lock
// is released, so they may call back into the block.
type StateListener interface {
	OnStateChanged(event domain.StateChangeEvent)
}

// StateListenerFunc adapts a function to StateListener.
type StateListenerFunc func(event domain.StateChangeEvent)

// OnStateChanged calls f(event).
func (f StateListenerFunc) OnStateChanged(event domain.StateChangeEvent) {
	f(event)
}

type listenerEntry struct {
	id       uint64
	listener StateListener
}

// listenerSet is a copy-on-read list of listeners.
type listenerSet struct {
	mu      sync.RWMutex
	nextID  uint64
	entries []listenerEntry
}

func (s *listenerSet) add(l StateListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, listenerEntry{id: id, listener: l})

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *listenerSet) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) snapshot() []StateListener {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StateListener, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.listener
	}
	return out
}

func (s *listenerSet) notify(events []domain.StateChangeEvent) {
	if len(events) == 0 {
		return
	}
	listeners := s.snapshot()
	for _, e := range events {
		for _, l := range listeners {
			l.OnStateChanged(e)
		}
	}
}
