package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"quiz-portal/internal/config"
	"quiz-portal/internal/database"
	"quiz-portal/internal/logger"
)

func main() {
	migrationsPath := flag.String("path", "migrations", "directory holding the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	if cfg.Database.DSN == "" {
		l.Fatal("database.dsn is not configured")
	}

	if err := database.RunMigrations(cfg.Database.DSN, *migrationsPath); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("path", *migrationsPath))
}
