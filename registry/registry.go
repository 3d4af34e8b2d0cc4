// registry/registry.go
package registry

import (
	"sync"

	"github.com/wfunc/tictacserver/game"
)

// Binding ties a live connection to the room and participant it is acting
// for. A connection holds at most one binding at a time.
type Binding struct {
	RoomCode string
	UserID   string
}

// Registry 维护连接与 (房间, 玩家) 之间的双向映射
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]Binding
	byRoom map[string]map[string]struct{} // roomCode -> set of connIDs
}

func New() *Registry {
	return &Registry{
		byConn: make(map[string]Binding),
		byRoom: make(map[string]map[string]struct{}),
	}
}

// Bind records connID as acting for (roomCode, userID). Any previous binding
// of the same connection is replaced.
func (r *Registry) Bind(connID, roomCode, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.unbindLocked(connID)
	r.byConn[connID] = Binding{RoomCode: roomCode, UserID: userID}
	conns, exists := r.byRoom[roomCode]
	if !exists {
		conns = make(map[string]struct{})
		r.byRoom[roomCode] = conns
	}
	conns[connID] = struct{}{}
}

// Lookup 返回连接当前的绑定，未绑定时返回 game.ErrNotBound
func (r *Registry) Lookup(connID string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	binding, exists := r.byConn[connID]
	if !exists {
		return Binding{}, game.ErrNotBound
	}
	return binding, nil
}

// Unbind clears the binding for connID, if any.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unbindLocked(connID)
}

func (r *Registry) unbindLocked(connID string) {
	binding, exists := r.byConn[connID]
	if !exists {
		return
	}
	delete(r.byConn, connID)
	if conns, ok := r.byRoom[binding.RoomCode]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byRoom, binding.RoomCode)
		}
	}
}

// Connections returns the IDs of every connection currently bound to
// roomCode (a copy, safe to iterate without the lock).
func (r *Registry) Connections(roomCode string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]string, 0, len(r.byRoom[roomCode]))
	for connID := range r.byRoom[roomCode] {
		conns = append(conns, connID)
	}
	return conns
}
