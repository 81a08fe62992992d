// Package sessions keeps one conversation coordinator per browser tab and the
// websocket connections watching it.
package sessions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/healthdash/internal/conversation"
)

// Key identifies a dashboard session: the anonymous device id plus the tab session id.
type Key struct {
	UserID    string
	SessionID string
}

// String returns "user:session", the id handed to the coordinator.
func (k Key) String() string {
	return k.UserID + ":" + k.SessionID
}

// Factory builds a coordinator for a new session.
type Factory func(key Key) *conversation.Coordinator

type entry struct {
	coord    *conversation.Coordinator
	lastSeen time.Time
}

// Registry maps session keys to coordinators. Sessions live in memory only.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	factory Factory
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		entries: make(map[Key]*entry),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the coordinator for key, creating it on first use, and marks the session as seen.
func (r *Registry) Get(key Key) *conversation.Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		e.lastSeen = r.now()
		return e.coord
	}

	e := &entry{coord: r.factory(key), lastSeen: r.now()}
	r.entries[key] = e
	slog.Info("Dashboard session created", "user_id", key.UserID, "session_id", key.SessionID)
	return e.coord
}

// Lookup returns the coordinator for key without creating one.
func (r *Registry) Lookup(key Key) (*conversation.Coordinator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return e.coord, true
}

// Touch marks a session as active.
func (r *Registry) Touch(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.lastSeen = r.now()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Expired returns sessions idle for longer than ttl with no send in flight.
func (r *Registry) Expired(ttl time.Duration) []Key {
	cutoff := r.now().Add(-ttl)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []Key
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) && e.coord.Pending() == 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// evictIfIdle drops a session unless it was used again since Expired listed it.
func (r *Registry) evictIfIdle(key Key, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok || !e.lastSeen.Before(r.now().Add(-ttl)) || e.coord.Pending() != 0 {
		return false
	}
	delete(r.entries, key)
	slog.Info("Dashboard session evicted", "user_id", key.UserID, "session_id", key.SessionID)
	return true
}
