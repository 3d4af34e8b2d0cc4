// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// UserModel 玩家模型
type UserModel struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	Wins       int    `gorm:"default:0"`
	Losses     int    `gorm:"default:0"`
	Draws      int    `gorm:"default:0"`
	TotalGames int    `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MatchModel 单场对局历史
type MatchModel struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"index;not null"`
	Opponent string
	Result   string `gorm:"not null"` // win/loss/draw
	Moves    int
	PlayedAt time.Time
}

// RoomModel 房间的持久化快照
type RoomModel struct {
	ID        uint   `gorm:"primaryKey"`
	RoomCode  string `gorm:"uniqueIndex;not null"`
	Status    string `gorm:"not null"`
	Snapshot  string `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&MatchModel{},
		&RoomModel{},
	)
}

// UpsertUser 创建或刷新玩家档案
func (p *GormPostgreSQL) UpsertUser(userID, name string) error {
	var user UserModel
	result := p.db.Where("user_id = ?", userID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		user = UserModel{
			UserID: userID,
			Name:   name,
		}
		return p.db.Create(&user).Error
	} else if result.Error != nil {
		return result.Error
	}

	if user.Name == name {
		return nil
	}
	return p.db.Model(&user).Update("name", name).Error
}

// RecordOutcome 更新玩家战绩并追加一条对局历史（单事务）
func (p *GormPostgreSQL) RecordOutcome(userID, opponentName, result string, moveCount int, playedAt time.Time) error {
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

	return p.db.Transaction(func(tx *gorm.DB) error {
		var user UserModel
		if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrRecordNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			column:        gorm.Expr(column+" + ?", 1),
			"total_games": gorm.Expr("total_games + ?", 1),
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		match := MatchModel{
			UserID:   userID,
			Opponent: opponentName,
			Result:   result,
			Moves:    moveCount,
			PlayedAt: playedAt,
		}
		return tx.Create(&match).Error
	})
}

// SaveRoomState 保存房间状态
func (p *GormPostgreSQL) SaveRoomState(roomCode, status string, snapshot interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	var room RoomModel
	result := p.db.Where("room_code = ?", roomCode).First(&room)

	if result.Error == gorm.ErrRecordNotFound {
		room = RoomModel{
			RoomCode: roomCode,
			Status:   status,
			Snapshot: string(data),
		}
		return p.db.Create(&room).Error
	} else if result.Error != nil {
		return result.Error
	}

	room.Status = status
	room.Snapshot = string(data)
	room.UpdatedAt = time.Now()
	return p.db.Save(&room).Error
}

// GetUserStats 查询玩家战绩
func (p *GormPostgreSQL) GetUserStats(userID string) (*UserStats, error) {
	var user UserModel
	if err := p.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &UserStats{
		UserID:     user.UserID,
		Name:       user.Name,
		Wins:       user.Wins,
		Losses:     user.Losses,
		Draws:      user.Draws,
		TotalGames: user.TotalGames,
	}, nil
}

// Leaderboard 按胜场排序返回前 limit 名玩家
func (p *GormPostgreSQL) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var users []UserModel
	err := p.db.Order("wins DESC, total_games ASC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:     u.UserID,
			Name:       u.Name,
			Wins:       u.Wins,
			TotalGames: u.TotalGames,
		})
	}
	return entries, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
