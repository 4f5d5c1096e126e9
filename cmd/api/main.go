package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/futchampions/tracker-api/internal/catalog"
	"github.com/futchampions/tracker-api/internal/config"
	_ "github.com/futchampions/tracker-api/internal/docs"
	"github.com/futchampions/tracker-api/internal/handlers"
	"github.com/futchampions/tracker-api/internal/logic"
	"github.com/futchampions/tracker-api/internal/migrate"
	"github.com/futchampions/tracker-api/internal/worker"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 35 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	sugar.Infow("Catalog loaded", "achievements", len(cat.Achievements), "path", cfg.CatalogPath)

	// Postgres
	pg, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("parse clickhouse url: %w", err)
	}
	ch, err := clickhouse.Open(chOpts)
	if err != nil {
		return fmt.Errorf("connect clickhouse: %w", err)
	}
	defer ch.Close()
	if err := ch.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	if cfg.AutoMigrate {
		if err := migrate.Install(ctx, pg, ch, sugar); err != nil {
			return fmt.Errorf("install schema: %w", err)
		}
	}

	// Services
	runs := logic.NewRunService(pg)
	achievements := logic.NewAchievementsService(pg, runs, cat.Achievements)
	leagues := logic.NewLeagueService(pg, rdb, cfg.StandingsTTL)
	settings := logic.NewSettingsService(pg)
	dashboard := logic.NewDashboardService(runs, achievements, logic.NewVersionStatsService(ch))

	// Workers
	recalc := worker.NewAchievementWorker(achievements, leagues, worker.NewRedisStatStore(rdb), sugar, worker.AchievementWorkerConfig{
		Workers:   cfg.AchievementWorkers,
		QueueSize: cfg.QueueSize,
		LockTTL:   cfg.AchievementLockTTL,
	})
	recalc.Start()

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    ch,
		Achievements:  recalc,
		Logger:        logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		GamePool: pool,
		Recalc:   recalc,
		Checks: map[string]handlers.HealthCheck{
			"postgres":   pg.Ping,
			"clickhouse": ch.Ping,
			"redis":      func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger:         logger,
		DefaultVersion: cfg.DefaultGameVersion,
		Runs:           runs,
		Achievements:   achievements,
		Leagues:        leagues,
		Settings:       settings,
		Dashboard:      dashboard,
		Feedback:       logic.NewFeedbackSelector(cat.Feedback, nil),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Routes(cfg.AllowedOrigins),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("Starting HTTP server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		sugar.Info("Shutdown signal received")
	case err := <-errCh:
		sugar.Errorw("HTTP server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("HTTP shutdown incomplete", "error", err)
	}

	// Pool flushes first so its recalculations land before the worker drains
	pool.Stop()
	recalc.Stop()
	sugar.Info("Shutdown complete")
	return nil
}
