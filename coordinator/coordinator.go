// coordinator/coordinator.go
package coordinator

import (
	"time"

	"github.com/wfunc/tictacserver/board"
	"github.com/wfunc/tictacserver/broadcast"
	"github.com/wfunc/tictacserver/game"
	"github.com/wfunc/tictacserver/logger"
	"github.com/wfunc/tictacserver/network"
	"github.com/wfunc/tictacserver/registry"
	"github.com/wfunc/tictacserver/roomcode"
)

// StatsRecorder persists a finished game for one participant. Called once
// per participant per completed game, never for abandoned games.
type StatsRecorder interface {
	RecordOutcome(userID, opponentName, result string, moveCount int, playedAt time.Time) error
}

// Scheduler 延时任务接口，由 timer.Manager 实现
type Scheduler interface {
	AddTimer(delay, interval time.Duration, callback func()) int64
}

// Metrics is the optional gauge/counter surface the coordinator feeds.
type Metrics interface {
	SetActiveRooms(count int)
	IncMoves()
	IncGamesCompleted()
}

// Options 协调器的可选依赖和策略
type Options struct {
	Stats       StatsRecorder
	Scheduler   Scheduler
	Metrics     Metrics
	WaitTimeout time.Duration // waiting 房间的过期时间
	RoomLinger  time.Duration // 终态房间的驻留时间
}

// Coordinator orchestrates join, move and disconnect transitions against
// the store and decides what to broadcast. All rejection errors are local
// to the single request; the session is left unchanged.
type Coordinator struct {
	store       *game.Store
	registry    *registry.Registry
	broadcaster broadcast.Broadcaster
	codes       *roomcode.Allocator
	opts        Options
}

func New(store *game.Store, reg *registry.Registry, b broadcast.Broadcaster, codes *roomcode.Allocator, opts Options) *Coordinator {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Minute
	}
	if opts.RoomLinger <= 0 {
		opts.RoomLinger = time.Minute
	}
	return &Coordinator{
		store:       store,
		registry:    reg,
		broadcaster: b,
		codes:       codes,
		opts:        opts,
	}
}

// CreateSession allocates a room code and opens a waiting session with the
// caller in the first slot. The creator attaches a connection by joining
// the room like anybody else.
func (c *Coordinator) CreateSession(userID, name string) (string, error) {
	code, err := c.codes.Next(c.store.Has)
	if err != nil {
		return "", err
	}
	if _, err := c.store.Create(code, userID, name); err != nil {
		return "", err
	}
	logger.Log.Infof("User %s created room %s", userID, code)

	c.schedule(c.opts.WaitTimeout, func() { c.expireWaiting(code) })
	c.gauge()
	return code, nil
}

// Join binds connID to the room. A caller matching a bound slot only
// rebinds its connection, whatever the status; a new caller fills slot 2 of
// a waiting room and activates the game; anything else is ErrNotJoinable.
func (c *Coordinator) Join(roomCode, userID, name, connID string) (game.Snapshot, error) {
	var activated bool
	sess, err := c.store.Mutate(roomCode, func(s *game.Session) error {
		if p := s.ParticipantByID(userID); p != nil {
			// reconnect: rebind the connection only
			p.ConnID = connID
			return nil
		}
		if s.Status != game.StatusWaiting {
			return game.ErrNotJoinable
		}
		s.Players[1] = &game.Participant{
			UserID: userID,
			Name:   name,
			ConnID: connID,
			Mark:   board.MarkO,
		}
		s.Status = game.StatusActive
		s.Turn = board.MarkX // X always opens
		activated = true
		return nil
	})
	if err != nil {
		return game.Snapshot{}, err
	}

	c.registry.Bind(connID, roomCode, userID)
	snap := sess.Snapshot()
	c.broadcaster.Publish(roomCode, network.EventParticipantJoined, snap)
	if activated {
		logger.Log.Infof("User %s joined room %s, game is active", userID, roomCode)
	}
	return snap, nil
}

// SubmitMove applies one move for userID. On a terminal result the stats
// collaborator is triggered for both participants, outside the room lock.
func (c *Coordinator) SubmitMove(roomCode, userID string, position int) (game.Snapshot, error) {
	sess, err := c.store.Mutate(roomCode, func(s *game.Session) error {
		if s.Status != game.StatusActive {
			return game.ErrNotActive
		}
		p := s.ParticipantByID(userID)
		if p == nil || p.Mark != s.Turn {
			return game.ErrWrongTurn
		}
		next, err := s.Board.ApplyMove(position, p.Mark)
		if err != nil {
			return err
		}
		s.Board = next
		s.MoveCount++
		s.Turn = board.Opponent(p.Mark)

		outcome, winner := s.Board.Evaluate()
		switch outcome {
		case board.OutcomeWin:
			s.Status = game.StatusCompleted
			if winner == board.MarkX {
				s.Outcome = game.ResultWinnerX
			} else {
				s.Outcome = game.ResultWinnerO
			}
			s.CompletedAt = time.Now()
		case board.OutcomeDraw:
			s.Status = game.StatusCompleted
			s.Outcome = game.ResultDraw
			s.CompletedAt = time.Now()
		}
		return nil
	})
	if err != nil {
		return game.Snapshot{}, err
	}

	snap := sess.Snapshot()
	c.broadcaster.Publish(roomCode, network.EventMoveApplied, snap)

	if c.opts.Metrics != nil {
		c.opts.Metrics.IncMoves()
	}
	if sess.Status == game.StatusCompleted {
		c.recordOutcomes(sess)
		if c.opts.Metrics != nil {
			c.opts.Metrics.IncGamesCompleted()
		}
		c.schedule(c.opts.RoomLinger, func() { c.evictTerminal(roomCode) })
	}
	return snap, nil
}

// ConnectionClosed handles the drop of connID. An active session is
// abandoned and the room is told; no stats are recorded for abandonment.
func (c *Coordinator) ConnectionClosed(connID string) {
	binding, err := c.registry.Lookup(connID)
	if err != nil {
		return
	}
	c.registry.Unbind(connID)

	var abandoned bool
	sess, err := c.store.Mutate(binding.RoomCode, func(s *game.Session) error {
		if p := s.ParticipantByConn(connID); p != nil {
			p.ConnID = ""
		}
		if s.Status == game.StatusActive {
			s.Status = game.StatusAbandoned
			abandoned = true
		}
		return nil
	})
	if err != nil {
		return
	}

	if abandoned {
		logger.Log.Infof("User %s left active room %s, game abandoned", binding.UserID, binding.RoomCode)
		c.broadcaster.Publish(binding.RoomCode, network.EventPlayerLeft, sess.Snapshot())
		c.schedule(c.opts.RoomLinger, func() { c.evictTerminal(binding.RoomCode) })
	}
}

// recordOutcomes triggers the stats collaborator once per participant.
func (c *Coordinator) recordOutcomes(sess *game.Session) {
	if c.opts.Stats == nil {
		return
	}
	for _, p := range sess.Players {
		if !p.Bound() {
			continue
		}
		result := "draw"
		if sess.Outcome != game.ResultDraw {
			result = "loss"
			if (sess.Outcome == game.ResultWinnerX && p.Mark == board.MarkX) ||
				(sess.Outcome == game.ResultWinnerO && p.Mark == board.MarkO) {
				result = "win"
			}
		}
		opponentName := ""
		if opp := sess.Opponent(p.UserID); opp != nil {
			opponentName = opp.Name
		}
		if err := c.opts.Stats.RecordOutcome(p.UserID, opponentName, result, sess.MoveCount, sess.CompletedAt); err != nil {
			logger.Log.Errorf("Failed to record outcome for user %s in room %s: %v", p.UserID, sess.RoomCode, err)
		}
	}
}

// expireWaiting evicts a room whose second participant never arrived.
func (c *Coordinator) expireWaiting(roomCode string) {
	sess, err := c.store.Get(roomCode)
	if err != nil || sess.Status != game.StatusWaiting {
		return
	}
	logger.Log.Infof("Room %s expired while waiting", roomCode)
	c.store.Mutate(roomCode, func(s *game.Session) error {
		if s.Status == game.StatusWaiting {
			s.Status = game.StatusAbandoned
		}
		return nil
	})
	c.evict(roomCode)
}

// evictTerminal removes a finished room once its linger window has passed.
func (c *Coordinator) evictTerminal(roomCode string) {
	sess, err := c.store.Get(roomCode)
	if err != nil || !sess.Status.Terminal() {
		return
	}
	c.evict(roomCode)
}

func (c *Coordinator) evict(roomCode string) {
	for _, connID := range c.registry.Connections(roomCode) {
		c.registry.Unbind(connID)
	}
	c.store.Remove(roomCode)
	c.gauge()
}

func (c *Coordinator) schedule(delay time.Duration, callback func()) {
	if c.opts.Scheduler == nil {
		return
	}
	c.opts.Scheduler.AddTimer(delay, 0, callback)
}

func (c *Coordinator) gauge() {
	if c.opts.Metrics != nil {
		c.opts.Metrics.SetActiveRooms(c.store.Len())
	}
}
