package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/tictacserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent []string
}

func (m *MockConnection) Send(event string, payload interface{}) error {
	m.sent = append(m.sent, event)
	return nil
}
func (m *MockConnection) ReadEnvelope() (*network.Envelope, error) { return nil, nil }
func (m *MockConnection) Close() error                             { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                     { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)      {}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{}, "user1", "Alice")

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByUserID(t *testing.T) {
	manager := NewManager()

	manager.Add(NewSession("session1", &MockConnection{}, "user100", "Alice"))
	manager.Add(NewSession("session2", &MockConnection{}, "user200", "Bob"))
	manager.Add(NewSession("session3", &MockConnection{}, "user100", "Alice"))

	if got := manager.GetByUserID("user100"); len(got) != 2 {
		t.Errorf("Expected 2 sessions for user100, got %d", len(got))
	}
	if got := manager.GetByUserID("user200"); len(got) != 1 {
		t.Errorf("Expected 1 session for user200, got %d", len(got))
	}
	if got := manager.GetByUserID("user300"); len(got) != 0 {
		t.Errorf("Expected 0 sessions for user300, got %d", len(got))
	}
}

func TestSession_Send(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("test_session", conn, "user1", "Alice")
	before := sess.LastActive

	time.Sleep(time.Millisecond)
	if err := sess.Send("room-snapshot", map[string]string{"room_code": "4821"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(conn.sent) != 1 || conn.sent[0] != "room-snapshot" {
		t.Errorf("Expected one room-snapshot send, got %v", conn.sent)
	}
	if !sess.LastActive.After(before) {
		t.Error("Send should bump LastActive")
	}
}
