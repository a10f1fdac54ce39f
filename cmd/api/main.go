// Command api serves rotisserie standings, team profiles and trade recommendations.
//
// Usage:
//
//	POSTGRES_URL=postgres://... REDIS_URL=redis://localhost:6379/0 api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rotolab/roto-api/internal/cache"
	"github.com/rotolab/roto-api/internal/category"
	"github.com/rotolab/roto-api/internal/config"
	"github.com/rotolab/roto-api/internal/handlers"
	"github.com/rotolab/roto-api/internal/logger"
	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/store"
	"github.com/rotolab/roto-api/internal/worker"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("API exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	sugar := log.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	defer pg.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	leagues := store.New(pg, sugar)
	if cfg.AutoMigrate {
		if err := leagues.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	analysis := logic.NewAnalysisService(logic.AnalysisConfig{
		Registry:          category.DefaultRegistry(),
		Policy:            cfg.InvalidStatPolicy,
		TopK:              cfg.TopK,
		TopN:              cfg.TopN,
		WaiverPerCategory: cfg.WaiverPerCategory,
		Logger:            sugar,
	})
	reports := cache.NewReportCache(rdb, cfg.ReportCacheTTL, sugar)

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount: cfg.WorkerCount,
		QueueSize:   cfg.QueueSize,
		JobTimeout:  cfg.JobTimeout,
		Store:       leagues,
		Analysis:    analysis,
		Cache:       reports,
		Logger:      log,
	})
	// The pool outlives the signal context so Stop can drain queued recomputes.
	pool.Start(context.Background())
	defer pool.Stop()

	h := handlers.New(handlers.Config{
		Analysis: analysis,
		Store:    leagues,
		Cache:    reports,
		Queue:    pool,
		HealthChecks: map[string]handlers.HealthCheck{
			"postgres": leagues.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})
	router := handlers.NewRouter(h, handlers.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerSecond: float64(cfg.RateLimitPerSecond),
		RateLimitBurst:     cfg.RateLimitBurst,
		Metrics:            promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Starting roto API",
			"addr", srv.Addr,
			"env", cfg.Env,
			"workers", cfg.WorkerCount,
			"policy", cfg.InvalidStatPolicy,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		sugar.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	sugar.Info("Server stopped")
	return nil
}
