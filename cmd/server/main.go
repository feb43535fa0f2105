package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store-admin/config"
	"store-admin/internal/api"
	"store-admin/internal/bot"
	"store-admin/internal/broker"
	"store-admin/internal/redisclient"
	"store-admin/internal/service"
	"store-admin/internal/store"
	"store-admin/internal/util"
	"store-admin/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting store admin", zap.String("env", cfg.Server.Env), zap.String("port", cfg.Server.Port))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	eventsProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer eventsProducer.Close()
	updatesProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicBotUpdates)
	defer updatesProducer.Close()
	logger.Info("Kafka producers initialized")

	eventPublisher := broker.NewEventPublisher(eventsProducer)
	registrar := bot.NewRegistrar(cfg.Bot.TelegramAPIURL, cfg.Bot.WebhookHost, cfg.Bot.WebhookPath, redisClient)

	authService := service.NewAuthService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	storeService := service.NewStoreService(db, redisClient, eventPublisher, registrar, cfg.Business.IdempotencyTTL)
	botService := service.NewBotService(db, redisClient, broker.NewUpdateRelay(updatesProducer), registrar)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	go func() {
		if _, err := botService.SyncBots(workerCtx); err != nil {
			logger.Warn("Initial bot webhook sync incomplete", zap.Error(err))
		}
	}()

	botConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	botWorker := worker.NewBotWorker(botConsumer, registrar, botService)
	go func() {
		if err := botWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Bot worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Services{
		Auth:      authService,
		Catalog:   service.NewCatalogService(db, eventPublisher),
		Stores:    storeService,
		Customers: service.NewCustomerService(db),
		Mails:     service.NewMailService(db),
		Carts:     service.NewCartService(db, eventPublisher),
		Reference: service.NewReferenceService(db),
		Bots:      botService,
	}, db, cfg.Bot.WebhookPath)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := botWorker.Stop(); err != nil {
		logger.Error("Error stopping bot worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
