package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/remix-service/internal/cache"
	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/http/routes"
	"github.com/princekumarofficial/remix-service/internal/services/lineage"
	"github.com/princekumarofficial/remix-service/internal/services/media"
	"github.com/princekumarofficial/remix-service/internal/services/upload"
	"github.com/princekumarofficial/remix-service/internal/storage"
	"github.com/princekumarofficial/remix-service/internal/storage/memory"
	"github.com/princekumarofficial/remix-service/internal/storage/postgres"
)

// @title Remix Service API
// @version 1.0
// @description Presigned uploads and remix lineage for short videos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()
	ctx := context.Background()

	// database setup
	var store storage.Storage
	switch cfg.Storage.Driver {
	case "memory":
		store = memory.New()
		slog.Warn("Using in-memory storage, data is lost on restart")
	default:
		pg, err := postgres.NewPostgres(cfg)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer pg.Close()
		store = pg
		slog.Info("Connected to Postgres database")
	}

	presigner, err := media.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}
	slog.Info("Object storage ready", slog.String("driver", cfg.ObjectStorage.Driver), slog.String("bucket", cfg.ObjectStorage.BucketName))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))

	var videos storage.VideoStore = store
	if cfg.Cache.Enabled {
		videos = cache.NewVideoCache(store, redisClient, cfg.Cache.VideoTTL)
	}

	uploads := upload.NewService(videos, presigner,
		upload.WithMaxFiles(cfg.Media.MaxFilesPerRequest))
	resolver := lineage.NewService(videos, presigner, cfg.Media.DownloadURLTTL)

	// setup router
	router := routes.New(routes.Deps{
		Users:     store,
		Uploads:   uploads,
		Lineage:   resolver,
		JWTSecret:    cfg.JWTSecret,
		AdminUserIDs: cfg.AdminUserIDs,
		Redis:        redisClient,
		RateLimit:    cfg.RateLimit,
	})

	server := http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	slog.Info("Server started", slog.String("address", cfg.HTTPServer.Address))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
