package main

import (
	"context"

	"canteen-ordering/internal/config"
	"canteen-ordering/internal/db"
	"canteen-ordering/internal/logging"
	menurepo "canteen-ordering/internal/repository/menu"
	"canteen-ordering/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("canteen-seed", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, 2)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if _, err := seed.Apply(ctx, menurepo.NewPostgres(pool, logger), logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
}
