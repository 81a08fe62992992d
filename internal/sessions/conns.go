package sessions

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// ConnManager tracks the live websocket for each session. A tab holds at
// most one socket; registering a new one closes the old.
type ConnManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewConnManager creates a new connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// GetActive returns the active connection for a session.
func (m *ConnManager) GetActive(key Key) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[key.UserID]; ok {
		return sessions[key.SessionID]
	}
	return nil
}

// Register adds a websocket for a session, replacing any previous one.
func (m *ConnManager) Register(key Key, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[key.UserID]; !exists {
		m.active[key.UserID] = make(map[string]*websocket.Conn)
	}

	if existing, exists := m.active[key.UserID][key.SessionID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}

	m.active[key.UserID][key.SessionID] = conn
	slog.Info("Dashboard socket registered", "user_id", key.UserID, "session_id", key.SessionID)
}

// Unregister removes conn if it is still the session's active socket.
func (m *ConnManager) Unregister(key Key, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[key.UserID]; ok {
		if current, exists := sessions[key.SessionID]; exists && current == conn {
			delete(sessions, key.SessionID)
			if len(sessions) == 0 {
				delete(m.active, key.UserID)
			}
			slog.Info("Dashboard socket unregistered", "user_id", key.UserID, "session_id", key.SessionID)
		}
	}
}

// Close terminates the socket for one session.
func (m *ConnManager) Close(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.active[key.UserID]
	if !ok {
		return
	}
	if conn, exists := sessions[key.SessionID]; exists {
		_ = conn.Close(websocket.StatusNormalClosure, "session expired")
		delete(sessions, key.SessionID)
		slog.Info("Dashboard socket closed", "user_id", key.UserID, "session_id", key.SessionID)
	}
	if len(sessions) == 0 {
		delete(m.active, key.UserID)
	}
}
