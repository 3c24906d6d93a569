package main

import (
	"context"
	"flag"

	"canteen-ordering/internal/config"
	"canteen-ordering/internal/db"
	"canteen-ordering/internal/logging"
	"canteen-ordering/internal/migrate"
	"go.uber.org/zap"
)

func main() {
	var (
		down        int
		showVersion bool
	)
	flag.IntVar(&down, "down", 0, "roll back this many migrations instead of applying")
	flag.BoolVar(&showVersion, "version", false, "print the current schema version and exit")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New("canteen-migrate", cfg.LogLevel)
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

	switch {
	case showVersion:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Fatal("read version", zap.Error(err))
		}
		logger.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	case down > 0:
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatal("rollback migrations", zap.Int("steps", down), zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", down))
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}
}
