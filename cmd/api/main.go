package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"canteen-ordering/internal/config"
	"canteen-ordering/internal/db"
	"canteen-ordering/internal/discount"
	"canteen-ordering/internal/events"
	"canteen-ordering/internal/httpserver"
	"canteen-ordering/internal/kvstore"
	"canteen-ordering/internal/logging"
	cartrepo "canteen-ordering/internal/repository/cart"
	checkoutrepo "canteen-ordering/internal/repository/checkout"
	feedbackrepo "canteen-ordering/internal/repository/feedback"
	loyaltyrepo "canteen-ordering/internal/repository/loyalty"
	menurepo "canteen-ordering/internal/repository/menu"
	orderrepo "canteen-ordering/internal/repository/order"
	reviewrepo "canteen-ordering/internal/repository/review"
	cartsvc "canteen-ordering/internal/service/cart"
	checkoutsvc "canteen-ordering/internal/service/checkout"
	feedbacksvc "canteen-ordering/internal/service/feedback"
	menusvc "canteen-ordering/internal/service/menu"
	ordersvc "canteen-ordering/internal/service/order"
	reportsvc "canteen-ordering/internal/service/report"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var store kvstore.Store
	if cfg.RedisAddr != "" {
		rdb := kvstore.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		redisStore := kvstore.NewRedis(rdb)
		if err := redisStore.Ping(ctx); err != nil {
			logger.Fatal("connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		store = redisStore
	} else {
		logger.Warn("REDIS_ADDR not set, carts are kept in process memory")
		store = kvstore.NewMemory()
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaBufferSz, logger)
		producer.Start()
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := producer.Close(closeCtx); err != nil {
				logger.Warn("kafka producer close", zap.Error(err))
			}
		}()
		publisher = producer
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events are discarded")
	}

	policy := discount.NewDefault()

	menuRepo := menurepo.NewPostgres(dbpool, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)
	feedbackRepo := feedbackrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	loyaltyRepo := loyaltyrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewKV(store, cfg.CartTTL, logger)
	uow := checkoutrepo.NewPostgres(dbpool, logger)

	menuService := menusvc.New(menuRepo, reviewRepo, logger)
	cartService := cartsvc.New(cartRepo, menuRepo, loyaltyRepo, policy, logger)
	checkoutService := checkoutsvc.New(cartRepo, uow, checkoutsvc.Options{
		Policy:    policy,
		Publisher: publisher,
		Producer:  cfg.ServiceName,
		Logger:    logger,
	})
	orderService := ordersvc.New(orderRepo, publisher, cfg.ServiceName, logger)
	reportService := reportsvc.New(orderRepo)
	feedbackService := feedbacksvc.New(feedbackRepo, logger)

	if cfg.StaffKeyHash == "" && cfg.AdminKeyHash == "" {
		logger.Warn("STAFF_KEY_HASH and ADMIN_KEY_HASH not set, staff routes are closed")
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		MenuSvc:     menuService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		ReportSvc:   reportService,
		FeedbackSvc: feedbackService,
		Loyalty:     loyaltyRepo,
		Auth:        httpserver.NewStaffAuth(cfg.AdminKeyHash, cfg.StaffKeyHash),
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
