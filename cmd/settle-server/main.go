package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"settle-core/internal/consumer"
	"settle-core/internal/handler"
	"settle-core/internal/model"
	"settle-core/internal/server"
	"settle-core/internal/service"
	"settle-core/internal/service/mq"
	"settle-core/pkg/cache"
	"settle-core/pkg/config"
	"settle-core/pkg/database"
	"settle-core/pkg/logger"
	"settle-core/pkg/monitor"
	"settle-core/pkg/utils/lock"
	"settle-core/pkg/walletrpc"
)

func main() {
	// 0. Config
	config.Init()

	// 1. Logger and metrics
	logger.Init(config.Global.App.Env)
	defer logger.Sync()
	monitor.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Postgres
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}

	// 3. Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	// 4. Schema (dev only; production uses the migrate tool)
	if config.Global.App.Env == "development" {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("auto migrate failed", zap.Error(err))
		}
		logger.Info("auto migrate done (dev mode)")
	}

	// 5. Services
	coinService := service.NewCoinService(db, cache.NewRedisCache(rdb))
	walletService := service.NewWalletService(db, lock.NewRedisLock(rdb))
	withdrawService := service.NewWithdrawService(db)

	// 6. Wallet RPC client
	var resolver walletrpc.Resolver
	if config.Global.RPC.Resolver == "static" {
		resolver = walletrpc.StaticResolver{Endpoints: config.Global.RPC.Endpoints}
	} else {
		resolver = walletrpc.NamingResolver{
			Scheme: config.Global.RPC.Scheme,
			Prefix: config.Global.RPC.Prefix,
		}
	}
	rpcClient := walletrpc.NewClient(resolver, config.Global.RPC.Timeout)

	// 7. Message bus
	var busConsumer mq.Consumer
	var busProducer mq.Producer
	if config.Global.Redis.MQType == "redis" {
		logger.Info("using redis streams as message bus")
		busConsumer = mq.NewRedisConsumer(rdb, config.Global.Kafka.GroupID, "settle-0")
		busProducer = mq.NewRedisProducer(rdb)
	} else {
		logger.Info("using kafka as message bus")
		busConsumer = mq.NewKafkaConsumer(config.Global.Kafka.Brokers, config.Global.Kafka.GroupID)
		busProducer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
	}
	defer busConsumer.Close()
	defer busProducer.Close()

	// 8. Finance consumers
	financeConsumer := consumer.NewFinanceConsumer(coinService, walletService, withdrawService, rpcClient)
	if err := financeConsumer.Start(ctx, busConsumer); err != nil {
		logger.Fatal("consumer start failed", zap.Error(err))
	}

	// 9. Ops HTTP server
	withdrawHandler := handler.NewWithdrawHandler(withdrawService, busProducer)
	router := server.NewHTTPRouter(withdrawHandler)

	httpServer := &http.Server{
		Addr:    ":" + config.Global.App.HttpPort,
		Handler: router,
	}
	go func() {
		logger.Info("ops http server listening", zap.String("port", config.Global.App.HttpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 10. Block until shutdown signal
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("stopped")
}
