package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ADH36/SENC-ESPORTS-sub001/internal/config"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/infra"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/logging"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/routes"
	"github.com/ADH36/SENC-ESPORTS-sub001/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting", "app", cfg.AppName, "env", cfg.AppEnv, "addr", cfg.Address())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			if !cfg.IsDev() {
				logger.Error("postgres connection failed", "error", err)
				os.Exit(1)
			}
			logger.Warn("postgres unavailable, falling back to in-memory stores", "error", err)
			db = nil
		}
	}
	if db != nil {
		defer db.Close()
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if !cfg.IsDev() {
				logger.Error("redis connection failed", "error", err)
				os.Exit(1)
			}
			logger.Warn("redis unavailable, idempotency and rate limiting disabled", "error", err)
			cache = nil
		}
	}
	if cache != nil {
		defer cache.Close()
	}

	app := server.New(cfg)
	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		logger.Error("route setup failed", "error", err)
		os.Exit(1)
	}

	if err := server.Run(ctx, app, cfg); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
