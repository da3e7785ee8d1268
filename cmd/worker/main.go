// Package main runs the background worker: scheduled retention sweeps
// of the recordings bucket plus the processing job consumer.
//
// Set RETENTION_RUN_ONCE=true to run a single sweep and exit (cron
// mode); RETENTION_DRY_RUN=true classifies without deleting.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/laneway/backend/config"
	"github.com/laneway/backend/internal/recordings"
	"github.com/laneway/backend/internal/retention"
	"github.com/laneway/backend/internal/worker"
	"github.com/laneway/backend/pkg/database"
	"github.com/laneway/backend/pkg/queue"
	"github.com/laneway/backend/pkg/redis"
	"github.com/laneway/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.NewClient(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	sweeper := retention.NewSweeper(store, logger)

	if os.Getenv("RETENTION_RUN_ONCE") == "true" {
		report, err := sweeper.Sweep(ctx, cfg.Retention.Days, cfg.Retention.DryRun)
		if err != nil {
			logger.Fatal("retention sweep", zap.Error(err))
		}
		logger.Info("retention sweep finished",
			zap.Int("total", report.TotalCount),
			zap.Int("old", report.OldCount),
			zap.Int("deleted", len(report.Deleted)),
			zap.Int("failed", len(report.Failed)),
			zap.Int64("freed_bytes", report.DeletedBytes))
		return
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	recRepo := recordings.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewProcessor(recRepo, jobQueue, logger)

	scheduler := retention.NewScheduler(
		sweeper,
		cfg.Retention.Days,
		time.Duration(cfg.Retention.IntervalHours)*time.Hour,
		cfg.Retention.DryRun,
		logger,
	)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go scheduler.Run(workerCtx)
	go processor.Run(workerCtx)
	logger.Info("worker started",
		zap.Int("retention_days", cfg.Retention.Days),
		zap.Int("interval_hours", cfg.Retention.IntervalHours),
		zap.Bool("dry_run", cfg.Retention.DryRun))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
