package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/di"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/gateway"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/handler"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/notify"
	"github.com/prohmpiriya/tournament-registration/backend-registration/internal/repository"
	"github.com/prohmpiriya/tournament-registration/pkg/config"
	"github.com/prohmpiriya/tournament-registration/pkg/database"
	"github.com/prohmpiriya/tournament-registration/pkg/kafka"
	"github.com/prohmpiriya/tournament-registration/pkg/logger"
	"github.com/prohmpiriya/tournament-registration/pkg/middleware"
	"github.com/prohmpiriya/tournament-registration/pkg/redis"
	"github.com/prohmpiriya/tournament-registration/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := logger.Init(&logger.Config{
		Level:       logLevel(cfg),
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		OutputPath:  "stdout",
	}); err != nil {
		logger.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		logger.Fatal("failed to init telemetry", zap.Error(err))
	}

	var db *database.PostgresDB
	if cfg.Storage.Driver == "postgres" {
		db, err = database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnectTimeout:  5 * time.Second,
			MaxRetries:      5,
			RetryInterval:   2 * time.Second,
		})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := repository.EnsureSchema(ctx, db.Pool()); err != nil {
			logger.Fatal("failed to apply schema", zap.Error(err))
		}
	} else {
		logger.Warn("using in-memory storage, data is lost on restart")
	}

	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = cache.Close() }()
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producerCfg := kafka.DefaultProducerConfig()
		producerCfg.Brokers = cfg.Kafka.Brokers
		producerCfg.TopicPrefix = cfg.Kafka.TopicPrefix
		if cfg.Kafka.ClientID != "" {
			producerCfg.ClientID = cfg.Kafka.ClientID
		}
		producer, err = kafka.NewProducer(ctx, producerCfg)
		if err != nil {
			logger.Fatal("failed to connect to kafka", zap.Error(err))
		}
	}

	paymentGateway, err := gateway.New(&gateway.GatewayConfig{
		Provider:      cfg.Payment.Provider,
		SecretKey:     cfg.Payment.SecretKey,
		WebhookSecret: cfg.Payment.WebhookSecret,
		PublicBaseURL: cfg.App.PublicBaseURL,
	})
	if err != nil {
		logger.Fatal("failed to init payment gateway", zap.Error(err))
	}

	var notifier notify.Notifier
	if cfg.Email.Enabled {
		notifier = notify.NewResendNotifier(cfg.Email.APIKey, cfg.Email.From)
	}

	rateLimit := middleware.DefaultRateLimitConfig()
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rateLimit.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
	}
	if cfg.RateLimit.BurstSize > 0 {
		rateLimit.BurstSize = cfg.RateLimit.BurstSize
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:            db,
		Redis:         cache,
		Producer:      producer,
		Gateway:       paymentGateway,
		Notifier:      notifier,
		JWT:           &middleware.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
		RateLimit:     rateLimit,
		PublicBaseURL: cfg.App.PublicBaseURL,
	})

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := handler.NewEngine(middleware.CORSConfigWithOrigins(cfg.CORS.AllowedOrigins))
	container.Router.SetupRoutes(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("registration service listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("payment_provider", paymentGateway.Name()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	container.Close()
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown failed", zap.Error(err))
	}
}

func logLevel(cfg *config.Config) string {
	if cfg.App.Debug {
		return "debug"
	}
	return "info"
}
