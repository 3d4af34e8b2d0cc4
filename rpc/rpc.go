package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/tictacserver/logger"
	"github.com/wfunc/tictacserver/persistence"
	"github.com/wfunc/tictacserver/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. Services are registered by the caller
// via net/rpc before Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// StatsQuery exposes the stats read surface to internal tooling over
// net/rpc: exported methods, exported args, pointer reply, error return.
type StatsQuery struct {
	stats *services.StatsService
}

func NewStatsQuery(stats *services.StatsService) *StatsQuery {
	return &StatsQuery{stats: stats}
}

type GetUserStatsArgs struct {
	UserID string
}

type GetUserStatsReply struct {
	Stats *persistence.UserStats
}

func (q *StatsQuery) GetUserStats(args *GetUserStatsArgs, reply *GetUserStatsReply) error {
	stats, err := q.stats.GetUserStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type LeaderboardArgs struct {
	Limit int
}

type LeaderboardReply struct {
	Entries []persistence.LeaderboardEntry
}

func (q *StatsQuery) Leaderboard(args *LeaderboardArgs, reply *LeaderboardReply) error {
	entries, err := q.stats.Leaderboard(args.Limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	return nil
}
