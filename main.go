package main

import (
	"github.com/wfunc/tictacserver/config"
	"github.com/wfunc/tictacserver/logger"
	"github.com/wfunc/tictacserver/persistence"
	"github.com/wfunc/tictacserver/server"
	"github.com/wfunc/tictacserver/timer"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	db, err := persistence.NewGormPostgreSQL(
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.User,
		cfg.Database.Postgres.Password,
		cfg.Database.Postgres.DBName,
	)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Database connection successful.")

	// Room expiry scheduler
	timers := timer.NewManager()
	defer timers.Stop()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, db, timers)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
