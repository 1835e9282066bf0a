package runtime

import (
	"sync"

	"chat-relay/contract"
)

// Registry maps a user id to the sink of its one live session.
// It is the only intentionally shared mutable structure in the process and
// must stay safe under concurrent calls from arbitrarily many sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]contract.Sink // map user -> Sink
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]contract.Sink),
	}
}

// Register inserts or replaces the binding for a user.
// A replaced session keeps running on its own connection but is no longer
// reachable for forwarding; its lifecycle closes it independently.
func (r *Registry) Register(userID int64, sink contract.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = sink
}

// Unregister removes the binding, but only while it still belongs to the
// given sink. A stale session cleaning up after being replaced must not
// evict its replacement.
func (r *Registry) Unregister(userID int64, sink contract.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[userID]; ok && current == sink {
		delete(r.sessions, userID)
	}
}

// TryDeliver pushes the payload to the user's live sink, if any, and reports
// whether the write succeeded. A failed write evicts the binding: a dead
// handle must not linger. The write happens outside the map lock so one slow
// connection cannot stall every other session.
func (r *Registry) TryDeliver(userID int64, payload []byte) bool {
	r.mu.RLock()
	sink, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if err := sink.Push(payload); err != nil {
		r.Unregister(userID, sink)
		return false
	}
	return true
}

// Size returns the number of live bindings.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
