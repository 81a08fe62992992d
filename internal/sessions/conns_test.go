package sessions

import (
	"testing"

	"github.com/coder/websocket"
)

func TestConnManagerRegister(t *testing.T) {
	m := NewConnManager()
	conn := &websocket.Conn{}
	key := Key{UserID: "anon_1", SessionID: "tab-1"}

	m.Register(key, conn)

	if active := m.GetActive(key); active != conn {
		t.Errorf("Expected connection %v, got %v", conn, active)
	}
}

func TestConnManagerUnregister(t *testing.T) {
	m := NewConnManager()
	conn := &websocket.Conn{}
	key := Key{UserID: "anon_1", SessionID: "tab-1"}

	m.Register(key, conn)
	m.Unregister(key, conn)

	if active := m.GetActive(key); active != nil {
		t.Errorf("Expected nil connection, got %v", active)
	}
}

func TestConnManagerUnregisterStale(t *testing.T) {
	m := NewConnManager()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}
	tab1 := Key{UserID: "anon_1", SessionID: "tab-1"}
	tab2 := Key{UserID: "anon_1", SessionID: "tab-2"}

	m.Register(tab1, conn1)
	// Another tab should remain active when the first unregisters.
	m.Register(tab2, conn2)
	m.Unregister(tab1, conn1)

	if active := m.GetActive(tab2); active != conn2 {
		t.Errorf("Expected connection %v, got %v", conn2, active)
	}
}

func TestConnManagerCloseUnknownIsNoop(t *testing.T) {
	m := NewConnManager()
	m.Close(Key{UserID: "nobody", SessionID: "tab"})
	if active := m.GetActive(Key{UserID: "nobody", SessionID: "tab"}); active != nil {
		t.Errorf("Expected nil connection, got %v", active)
	}
}
