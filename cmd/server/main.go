package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"shop_backend/internal/app/config"
	"shop_backend/internal/app/di"
	"shop_backend/internal/app/router"
	platformhandler "shop_backend/internal/platform/http/handler"
	platformredis "shop_backend/internal/platform/redis"
	"shop_backend/internal/platform/telemetry"
	"shop_backend/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.Setup(ctx, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
	})
	if err != nil {
		slog.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}

	store, err := di.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("store unavailable", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	slog.Info("store connected", "driver", store.Driver)

	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if rdb, err = platformredis.NewRedisClient(ctx, platformredis.Options{Addr: cfg.Redis.Addr(), Password: cfg.Redis.Password}); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
			rdb = nil
		}
	}

	checks := map[string]platformhandler.Pinger{"store": store}
	if rdb != nil {
		checks["redis"] = platformhandler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	engine := router.NewRouter(di.NewHandlers(cfg, store, rdb), router.Options{
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		ServiceName:    cfg.Telemetry.ServiceName,
		ExposeErrors:   cfg.IsDevelopment(),
		AuthLimiter:    ratelimiter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Ready:          platformhandler.NewReadyHandler(2*time.Second, checks),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	if err := store.Close(sctx); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	if err := shutdownTracer(sctx); err != nil {
		slog.Error("failed to flush traces", "error", err)
	}
	slog.Info("server stopped")
}
