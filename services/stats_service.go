package services

import (
	"fmt"
	"time"

	"github.com/wfunc/tictacserver/persistence"
)

const maxLeaderboardSize = 100

// StatsService 封装战绩读写
type StatsService struct {
	db persistence.Database
}

func NewStatsService(db persistence.Database) *StatsService {
	return &StatsService{db: db}
}

// EnsureUser makes sure a profile row exists before the participant's first
// game is recorded.
func (s *StatsService) EnsureUser(userID, name string) error {
	return s.db.UpsertUser(userID, name)
}

// RecordOutcome 记录一名玩家的单场结果
func (s *StatsService) RecordOutcome(userID, opponentName, result string, moveCount int, playedAt time.Time) error {
	switch result {
	case "win", "loss", "draw":
	default:
		return fmt.Errorf("invalid result %q", result)
	}
	return s.db.RecordOutcome(userID, opponentName, result, moveCount, playedAt)
}

// GetUserStats 查询玩家战绩
func (s *StatsService) GetUserStats(userID string) (*persistence.UserStats, error) {
	return s.db.GetUserStats(userID)
}

// Leaderboard 查询排行榜
func (s *StatsService) Leaderboard(limit int) ([]persistence.LeaderboardEntry, error) {
	if limit <= 0 || limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	return s.db.Leaderboard(limit)
}
