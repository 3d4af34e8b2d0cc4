package game

import (
	"errors"
	"sync"
	"testing"

	"github.com/wfunc/tictacserver/board"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(nil)

	sess, err := store.Create("4821", "user1", "Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if sess.Status != StatusWaiting {
		t.Errorf("Expected status %q, got %q", StatusWaiting, sess.Status)
	}
	if !sess.Players[0].Bound() || sess.Players[0].UserID != "user1" {
		t.Error("Creator should occupy slot 0")
	}
	if sess.Players[0].Mark != board.MarkX {
		t.Errorf("Slot 0 should hold mark X, got %q", sess.Players[0].Mark)
	}

	got, err := store.Get("4821")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.RoomCode != "4821" {
		t.Errorf("Expected room code 4821, got %s", got.RoomCode)
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	store := NewStore(nil)

	if _, err := store.Create("4821", "user1", "Alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create("4821", "user2", "Bob"); err != ErrDuplicateRoom {
		t.Errorf("Expected ErrDuplicateRoom, got %v", err)
	}
}

func TestStore_GetUnknownRoom(t *testing.T) {
	store := NewStore(nil)
	if _, err := store.Get("0000"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_MutateUnknownRoom(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Mutate("0000", func(s *Session) error { return nil })
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_MutateCommits(t *testing.T) {
	store := NewStore(nil)
	store.Create("4821", "user1", "Alice")

	sess, err := store.Mutate("4821", func(s *Session) error {
		s.MoveCount = 3
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if sess.MoveCount != 3 {
		t.Errorf("Expected returned session moveCount 3, got %d", sess.MoveCount)
	}

	got, _ := store.Get("4821")
	if got.MoveCount != 3 {
		t.Errorf("Expected committed moveCount 3, got %d", got.MoveCount)
	}
}

func TestStore_MutateAllOrNothing(t *testing.T) {
	store := NewStore(nil)
	store.Create("4821", "user1", "Alice")

	boom := errors.New("boom")
	_, err := store.Mutate("4821", func(s *Session) error {
		s.MoveCount = 99
		s.Status = StatusActive
		return boom
	})
	if err != boom {
		t.Fatalf("Expected the mutation error to propagate unchanged, got %v", err)
	}

	got, _ := store.Get("4821")
	if got.MoveCount != 0 || got.Status != StatusWaiting {
		t.Error("A failed mutation must leave the session untouched")
	}
}

func TestStore_ReturnedSessionIsPrivate(t *testing.T) {
	store := NewStore(nil)
	sess, _ := store.Create("4821", "user1", "Alice")

	// Scribbling on the returned copy must not leak into the store.
	sess.MoveCount = 42
	sess.Players[0].Name = "Mallory"

	got, _ := store.Get("4821")
	if got.MoveCount != 0 {
		t.Error("Returned session shares state with the store")
	}
	if got.Players[0].Name != "Alice" {
		t.Error("Returned participant shares state with the store")
	}
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(nil)
	store.Create("4821", "user1", "Alice")

	store.Remove("4821")
	if store.Has("4821") {
		t.Error("Removed room should not be live")
	}
	if _, err := store.Get("4821"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after removal, got %v", err)
	}
}

func TestStore_ConcurrentMutationsSerialized(t *testing.T) {
	store := NewStore(nil)
	store.Create("4821", "userA", "Alice")
	store.Mutate("4821", func(s *Session) error {
		s.Players[1] = &Participant{UserID: "userB", Name: "Bob", Mark: board.MarkO}
		s.Status = StatusActive
		return nil
	})

	// Both goroutines target cell 0 for the mark whose turn it is. The
	// second mutation must observe the first one's committed board and be
	// rejected; exactly one succeeds.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Mutate("4821", func(s *Session) error {
				next, err := s.Board.ApplyMove(0, s.Turn)
				if err != nil {
					return err
				}
				s.Board = next
				s.MoveCount++
				s.Turn = board.Opponent(s.Turn)
				return nil
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else if err != board.ErrIllegalMove {
			t.Errorf("Unexpected rejection: %v", err)
		}
	}
	if accepted != 1 {
		t.Fatalf("Expected exactly one accepted mutation, got %d", accepted)
	}

	got, _ := store.Get("4821")
	if got.MoveCount != 1 {
		t.Errorf("Expected moveCount 1, got %d", got.MoveCount)
	}
}

// recordingSink captures persisted room states.
type recordingSink struct {
	mu    sync.Mutex
	saves []string
}

func (r *recordingSink) SaveRoomState(roomCode, status string, snapshot interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, roomCode+":"+status)
	return nil
}

func TestStore_PersistsAfterCommit(t *testing.T) {
	sink := &recordingSink{}
	store := NewStore(sink)

	store.Create("4821", "user1", "Alice")
	store.Mutate("4821", func(s *Session) error {
		s.Status = StatusAbandoned
		return nil
	})
	_, _ = store.Mutate("4821", func(s *Session) error {
		return errors.New("rejected")
	})

	if len(sink.saves) != 2 {
		t.Fatalf("Expected 2 persisted states (create + committed mutation), got %d", len(sink.saves))
	}
	if sink.saves[0] != "4821:waiting" || sink.saves[1] != "4821:abandoned" {
		t.Errorf("Unexpected persisted states: %v", sink.saves)
	}
}
