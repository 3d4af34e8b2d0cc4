// game/session.go
package game

import (
	"time"

	"github.com/wfunc/tictacserver/board"
)

// Status 表示对局的生命周期状态
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Result 表示已完成对局的结果
type Result string

const (
	ResultNone    Result = ""
	ResultWinnerX Result = "winner-X"
	ResultWinnerO Result = "winner-O"
	ResultDraw    Result = "draw"
)

// Participant is one of the two player slots in a session. ConnID is empty
// until that participant's connection attaches, and again after it drops.
type Participant struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	ConnID string     `json:"-"`
	Mark   board.Mark `json:"mark"`
}

// Bound reports whether the slot has been claimed by a participant.
func (p *Participant) Bound() bool {
	return p != nil && p.UserID != ""
}

// Session 是一局两人对战的全部状态
type Session struct {
	RoomCode    string
	Players     [2]*Participant // slot 0 is always MarkX
	Board       board.Board
	Turn        board.Mark
	MoveCount   int
	Status      Status
	Outcome     Result
	CreatedAt   time.Time
	CompletedAt time.Time
}

// NewSession creates a fresh waiting session with the creator in slot 0.
func NewSession(roomCode, userID, name string) *Session {
	return &Session{
		RoomCode: roomCode,
		Players: [2]*Participant{
			{UserID: userID, Name: name, Mark: board.MarkX},
			nil,
		},
		Turn:      board.MarkX,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
}

// ParticipantByID returns the slot bound to userID, or nil.
func (s *Session) ParticipantByID(userID string) *Participant {
	for _, p := range s.Players {
		if p.Bound() && p.UserID == userID {
			return p
		}
	}
	return nil
}

// ParticipantByConn returns the slot whose live connection is connID, or nil.
func (s *Session) ParticipantByConn(connID string) *Participant {
	for _, p := range s.Players {
		if p.Bound() && p.ConnID == connID {
			return p
		}
	}
	return nil
}

// Opponent returns the other bound slot, or nil.
func (s *Session) Opponent(userID string) *Participant {
	for _, p := range s.Players {
		if p.Bound() && p.UserID != userID {
			return p
		}
	}
	return nil
}

// clone returns a deep copy so a failed mutation never leaks partial state.
func (s *Session) clone() *Session {
	dup := *s
	for i, p := range s.Players {
		if p != nil {
			pc := *p
			dup.Players[i] = &pc
		}
	}
	return &dup
}

// PlayerView 是快照里的玩家信息
type PlayerView struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	Mark   board.Mark `json:"mark"`
	Online bool       `json:"online"`
}

// Snapshot 是广播给客户端的完整可观测状态
type Snapshot struct {
	RoomCode  string       `json:"room_code"`
	Players   []PlayerView `json:"players"`
	Board     board.Board  `json:"board"`
	Turn      board.Mark   `json:"turn"`
	MoveCount int          `json:"move_count"`
	Status    Status       `json:"status"`
	Outcome   Result       `json:"outcome"`
}

// Snapshot builds the client-facing view of the session. Clients are
// expected to be stateless and trust the latest snapshot.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		RoomCode:  s.RoomCode,
		Board:     s.Board,
		Turn:      s.Turn,
		MoveCount: s.MoveCount,
		Status:    s.Status,
		Outcome:   s.Outcome,
	}
	for _, p := range s.Players {
		if p.Bound() {
			snap.Players = append(snap.Players, PlayerView{
				UserID: p.UserID,
				Name:   p.Name,
				Mark:   p.Mark,
				Online: p.ConnID != "",
			})
		}
	}
	return snap
}
