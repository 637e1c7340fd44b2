package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/princekumarofficial/remix-service/internal/audit"
	"github.com/princekumarofficial/remix-service/internal/config"
	"github.com/princekumarofficial/remix-service/internal/storage/postgres"
)

func main() {
	cfg := config.MustLoad()

	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer storage.Close()
	slog.Info("Connected to Postgres database")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	auditor := audit.NewAuditor(storage, cfg.Auditor.Interval, cfg.Auditor.Limit, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	auditor.Start(ctx)

	slog.Info("Lineage auditor stopped")
}
