package main

import (
	"context"
	"flag"
	"os"
	"time"

	"canteen-ordering/internal/config"
	"canteen-ordering/internal/db"
	"canteen-ordering/internal/importer"
	"canteen-ordering/internal/logging"
	menurepo "canteen-ordering/internal/repository/menu"
	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a YAML menu catalog")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New("canteen-importer", cfg.LogLevel)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.String("file", filePath), zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewYAMLImporter(f, menurepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.String("file", filePath), zap.Error(err))
	}

	logger.Info("menu imported",
		zap.String("file", filePath),
		zap.Int("items", count),
		zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
	)
}
