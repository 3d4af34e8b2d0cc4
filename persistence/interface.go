// persistence/interface.go
package persistence

import (
	"fmt"
	"time"
)

// UserStats 玩家战绩
type UserStats struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	TotalGames int    `json:"total_games"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Wins       int    `json:"wins"`
	TotalGames int    `json:"total_games"`
}

// Database 数据库接口
type Database interface {
	// UpsertUser creates or refreshes the profile row for a participant.
	UpsertUser(userID, name string) error
	// RecordOutcome bumps one participant's stats and appends a match row.
	RecordOutcome(userID, opponentName, result string, moveCount int, playedAt time.Time) error
	// SaveRoomState writes the durable copy of a live room.
	SaveRoomState(roomCode, status string, snapshot interface{}) error
	GetUserStats(userID string) (*UserStats, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
