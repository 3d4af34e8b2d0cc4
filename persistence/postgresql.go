// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"
)

// PostgreSQL 不经过 ORM 的 database/sql 实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS user_models (
            id SERIAL PRIMARY KEY,
            user_id TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            wins INT NOT NULL DEFAULT 0,
            losses INT NOT NULL DEFAULT 0,
            draws INT NOT NULL DEFAULT 0,
            total_games INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_models (
            id SERIAL PRIMARY KEY,
            user_id TEXT NOT NULL,
            opponent TEXT,
            result TEXT NOT NULL,
            moves INT NOT NULL DEFAULT 0,
            played_at TIMESTAMP NOT NULL
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_match_models_user_id ON match_models (user_id)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS room_models (
            id SERIAL PRIMARY KEY,
            room_code TEXT UNIQUE NOT NULL,
            status TEXT NOT NULL,
            snapshot JSONB,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	return err
}

// UpsertUser 创建或刷新玩家档案
func (p *PostgreSQL) UpsertUser(userID, name string) error {
	_, err := p.db.Exec(`
        INSERT INTO user_models (user_id, name)
        VALUES ($1, $2)
        ON CONFLICT (user_id)
        DO UPDATE SET name = $2, updated_at = CURRENT_TIMESTAMP`,
		userID, name)
	return err
}

// RecordOutcome 更新玩家战绩并追加一条对局历史（单事务）
func (p *PostgreSQL) RecordOutcome(userID, opponentName, result string, moveCount int, playedAt time.Time) error {
	column := ""
	switch result {
	case "win":
		column = "wins"
	case "loss":
		column = "losses"
	case "draw":
		column = "draws"
	default:
		return fmt.Errorf("unknown result %q", result)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(fmt.Sprintf(`
        UPDATE user_models
        SET %s = %s + 1, total_games = total_games + 1, updated_at = CURRENT_TIMESTAMP
        WHERE user_id = $1`, column, column),
		userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	_, err = tx.Exec(`
        INSERT INTO match_models (user_id, opponent, result, moves, played_at)
        VALUES ($1, $2, $3, $4, $5)`,
		userID, opponentName, result, moveCount, playedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// SaveRoomState 保存房间状态
func (p *PostgreSQL) SaveRoomState(roomCode, status string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO room_models (room_code, status, snapshot)
        VALUES ($1, $2, $3)
        ON CONFLICT (room_code)
        DO UPDATE SET status = $2, snapshot = $3, updated_at = CURRENT_TIMESTAMP`,
		roomCode, status, data)
	return err
}

// GetUserStats 查询玩家战绩
func (p *PostgreSQL) GetUserStats(userID string) (*UserStats, error) {
	stats := &UserStats{}
	err := p.db.QueryRow(`
        SELECT user_id, name, wins, losses, draws, total_games
        FROM user_models WHERE user_id = $1`,
		userID).Scan(&stats.UserID, &stats.Name, &stats.Wins, &stats.Losses, &stats.Draws, &stats.TotalGames)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Leaderboard 按胜场排序返回前 limit 名玩家
func (p *PostgreSQL) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := p.db.Query(`
        SELECT user_id, name, wins, total_games
        FROM user_models
        ORDER BY wins DESC, total_games ASC
        LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Wins, &e.TotalGames); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
