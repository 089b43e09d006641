package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/veloworks/user-service/internal/config"
	"github.com/veloworks/user-service/internal/observability"
	"github.com/veloworks/user-service/internal/server"
	"github.com/veloworks/user-service/internal/storage"
)

func main() {
	// Load env if it exists
	godotenv.Load()

	cfg := config.Load()
	logger := observability.NewLogger()

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Server.Environment); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}
	defer observability.FlushSentry()

	pg, err := storage.NewPostgres(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pg.Close()

	if err := pg.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is volatile by design: an unreachable store downgrades the
	// deployment to cache-disabled, throttle-open behavior, it never
	// prevents startup.
	redis := storage.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redis.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redis.Ping(pingCtx); err != nil {
		logger.Warn("redis_unreachable", map[string]any{"addr": cfg.Redis.Addr, "error": err.Error()})
	}
	pingCancel()

	srv := server.New(cfg, logger, redis, pg)

	go func() {
		addr := ":" + cfg.Server.Port
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting_down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server_exited", nil)
}
