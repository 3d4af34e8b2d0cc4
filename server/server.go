package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/tictacserver/board"
	"github.com/wfunc/tictacserver/broadcast"
	"github.com/wfunc/tictacserver/config"
	"github.com/wfunc/tictacserver/coordinator"
	"github.com/wfunc/tictacserver/game"
	"github.com/wfunc/tictacserver/logger"
	"github.com/wfunc/tictacserver/monitor"
	"github.com/wfunc/tictacserver/network"
	"github.com/wfunc/tictacserver/persistence"
	"github.com/wfunc/tictacserver/registry"
	tictacserver_rpc "github.com/wfunc/tictacserver/rpc"
	"github.com/wfunc/tictacserver/roomcode"
	"github.com/wfunc/tictacserver/services"
	"github.com/wfunc/tictacserver/session"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	store          *game.Store
	registry       *registry.Registry
	coordinator    *coordinator.Coordinator
	statsService   *services.StatsService
	identity       services.Identity
	monitor        *monitor.Monitor
	rpcServer      *tictacserver_rpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database, scheduler coordinator.Scheduler) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		sessionManager: session.NewManager(),
		store:          game.NewStore(db),
		registry:       registry.New(),
		statsService:   services.NewStatsService(db),
		identity:       services.NewTokenIdentity(),
		monitor:        monitor.NewMonitor("tictacserver"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	broadcaster := broadcast.NewRoomBroadcaster(s.registry, s.sessionManager)
	codes := roomcode.NewAllocator(time.Now().UnixNano())
	s.coordinator = coordinator.New(s.store, s.registry, broadcaster, codes, coordinator.Options{
		Stats:       s.statsService,
		Scheduler:   scheduler,
		Metrics:     s.monitor,
		WaitTimeout: cfg.Server.WaitTimeout,
		RoomLinger:  cfg.Server.RoomLinger,
	})

	// 初始化RPC服务器
	rpcServer, err := tictacserver_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(tictacserver_rpc.NewStatsQuery(s.statsService))

	s.monitor.StartServer(cfg.Server.MonitorAddress)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID, name, err := s.identity.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn, userID, name)
}

func (s *GameServer) handleConnection(conn *websocket.Conn, userID, name string) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn, userID, name)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, user %s, session ID: %s", wsConn.RemoteAddr(), userID, sess.GetID())

	if err := s.statsService.EnsureUser(userID, name); err != nil {
		logger.Log.Errorf("Failed to upsert user %s: %v", userID, err)
	}

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.coordinator.ConnectionClosed(sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.ReadEnvelope()
			if err != nil {
				return
			}
			s.handleEnvelope(sess, env)
		}
	}
}

func (s *GameServer) handleEnvelope(sess *session.Session, env *network.Envelope) {
	s.monitor.IncMessagesReceived()

	switch env.Event {
	case network.EventHeartbeat:
		sess.LastActive = time.Now()
	case network.EventCreateRoom:
		s.handleCreateRoom(sess)
	case network.EventJoinRoom:
		s.handleJoinRoom(sess, env.Data)
	case network.EventMakeMove:
		s.handleMakeMove(sess, env.Data)
	default:
		logger.Log.Infof("Unknown event %q from session %s", env.Event, sess.GetID())
	}
}

func (s *GameServer) handleCreateRoom(sess *session.Session) {
	roomCode, err := s.coordinator.CreateSession(sess.UserID, sess.Name)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	sess.Send(network.EventRoomCreated, map[string]string{"room_code": roomCode})
}

func (s *GameServer) handleJoinRoom(sess *session.Session, data json.RawMessage) {
	var req network.JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(sess, err)
		return
	}

	snap, err := s.coordinator.Join(req.RoomCode, sess.UserID, sess.Name, sess.GetID())
	if err != nil {
		s.sendError(sess, err)
		return
	}
	// 给新加入的连接发送当前房间快照
	sess.Send(network.EventRoomSnapshot, snap)
}

func (s *GameServer) handleMakeMove(sess *session.Session, data json.RawMessage) {
	var req network.MakeMoveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendError(sess, err)
		return
	}

	start := time.Now()
	_, err := s.coordinator.SubmitMove(req.RoomCode, sess.UserID, req.Position)
	s.monitor.ObserveMoveLatency(time.Since(start))
	if err != nil {
		// 拒绝只回给请求方，房间内其他人不感知
		s.sendError(sess, err)
	}
}

// sendError reports a rejection to the requesting connection only.
func (s *GameServer) sendError(sess *session.Session, err error) {
	sess.Send(network.EventError, network.ErrorPayload{Message: errorMessage(err)})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return "Game not found"
	case errors.Is(err, game.ErrNotJoinable):
		return "Game is not available to join"
	case errors.Is(err, game.ErrNotActive):
		return "Game is not active"
	case errors.Is(err, game.ErrWrongTurn):
		return "Not your turn"
	case errors.Is(err, board.ErrIllegalMove):
		return "Invalid move"
	default:
		return err.Error()
	}
}
