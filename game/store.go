// game/store.go
package game

import (
	"sync"

	"github.com/wfunc/tictacserver/logger"
)

// StateSink receives the durable copy of a room after every committed
// mutation. It is written after the in-memory transition succeeds; a sink
// failure is logged and never unwinds the committed transition.
type StateSink interface {
	SaveRoomState(roomCode, status string, snapshot interface{}) error
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// Store 管理所有活跃房间，按房间码加锁
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*entry
	sink  StateSink
}

// NewStore creates a store. sink may be nil.
func NewStore(sink StateSink) *Store {
	return &Store{
		rooms: make(map[string]*entry),
		sink:  sink,
	}
}

// Create 创建一个新房间，房间码已存在时返回 ErrDuplicateRoom
func (st *Store) Create(roomCode, userID, name string) (*Session, error) {
	st.mu.Lock()
	if _, exists := st.rooms[roomCode]; exists {
		st.mu.Unlock()
		return nil, ErrDuplicateRoom
	}
	sess := NewSession(roomCode, userID, name)
	st.rooms[roomCode] = &entry{sess: sess}
	st.mu.Unlock()

	st.persist(sess)
	return sess.clone(), nil
}

// Get returns a private copy of the session for roomCode.
func (st *Store) Get(roomCode string) (*Session, error) {
	st.mu.RLock()
	e, exists := st.rooms[roomCode]
	st.mu.RUnlock()
	if !exists {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone(), nil
}

// Has reports whether roomCode is live in the store.
func (st *Store) Has(roomCode string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, exists := st.rooms[roomCode]
	return exists
}

// Mutate applies fn to the session under that room's exclusive lock. fn runs
// on a copy: if it returns an error nothing is committed and the error is
// propagated unchanged. Two near-simultaneous mutations of the same room are
// serialized; mutations of different rooms proceed independently.
func (st *Store) Mutate(roomCode string, fn func(*Session) error) (*Session, error) {
	st.mu.RLock()
	e, exists := st.rooms[roomCode]
	st.mu.RUnlock()
	if !exists {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	work := e.sess.clone()
	if err := fn(work); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.sess = work
	result := work.clone()
	e.mu.Unlock()

	st.persist(result)
	return result, nil
}

// Remove 移除一个房间（终态房间的清理，对正确性不是必须的）
func (st *Store) Remove(roomCode string) {
	st.mu.Lock()
	delete(st.rooms, roomCode)
	st.mu.Unlock()
}

// Len returns the number of live rooms.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.rooms)
}

func (st *Store) persist(sess *Session) {
	if st.sink == nil {
		return
	}
	if err := st.sink.SaveRoomState(sess.RoomCode, string(sess.Status), sess.Snapshot()); err != nil {
		logger.Log.Errorf("Failed to persist room %s: %v", sess.RoomCode, err)
	}
}
