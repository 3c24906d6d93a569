package main

import (
	"context"
	"os/signal"
	"syscall"

	"canteen-ordering/internal/config"
	"canteen-ordering/internal/events"
	"canteen-ordering/internal/logging"
	"canteen-ordering/internal/notify"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("canteen-notifier", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic, logger)
	notifier := notify.New(nil, logger)

	logger.Info("notifier: consuming",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
		zap.String("group", cfg.KafkaGroupID))
	if err := consumer.Run(ctx, notifier.Handle); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
	logger.Info("notifier: stopped")
}
