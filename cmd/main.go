package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/dog-registry/config"
	"github.com/oksasatya/dog-registry/internal/container"
	"github.com/oksasatya/dog-registry/internal/infrastructure/sqlite"
	"github.com/oksasatya/dog-registry/internal/infrastructure/storage"
	"github.com/oksasatya/dog-registry/internal/router"
	"github.com/oksasatya/dog-registry/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	if cfg.UsesDevSecret() && cfg.Env != "development" {
		logger.Warn("SESSION_SECRET not set; session cookies are signed with the development secret")
	}

	ctx := context.Background()

	// Embedded database; tables exist before the first request
	db, err := sqlite.Open(cfg.DBPath, cfg.DBMaxOpenConns, cfg.DBLogLevel, logger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = sqlite.Close(db) }()
	if err := sqlite.Initialize(ctx, db, logger); err != nil {
		log.Fatalf("failed to create tables: %v", err)
	}

	// Redis (register rate limiter); optional
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unavailable; rate limiting disabled")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// RabbitMQ (registration events); optional
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, cfg.AppName)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; registration events disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	// Avatar store
	var store helpers.ObjectStore
	switch cfg.AvatarBackend {
	case "gcs":
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
		store = storage.NewGCSStore(gcsClient, cfg.GCSBucket, "profile_pics")
	default:
		disk, err := storage.NewDiskStore(cfg.AvatarDir)
		if err != nil {
			log.Fatalf("failed to prepare avatar dir: %v", err)
		}
		store = disk
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetDB(db)
	container.SetRedis(rdb)
	container.SetAvatarStore(store)

	r := router.NewEngine()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
