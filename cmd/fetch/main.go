// Package main pulls recordings from the bucket to local disk so the
// offline processing pipeline can pick them up. Intended to run from
// cron; already-downloaded recordings are skipped.
//
// RECORDINGS_DIR sets the target directory (default ./recordings).
package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/laneway/backend/config"
	"github.com/laneway/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	dir := os.Getenv("RECORDINGS_DIR")
	if dir == "" {
		dir = "recordings"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Fatal("create recordings dir", zap.String("dir", dir), zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.NewClient(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	objects, err := store.ListObjects(ctx, storage.RecordingPrefix)
	if err != nil {
		logger.Fatal("list recordings", zap.Error(err))
	}
	logger.Info("found recordings", zap.Int("count", len(objects)))

	var fetched, skipped, failed int
	for _, obj := range objects {
		target := filepath.Join(dir, obj.Name)
		if info, err := os.Stat(target); err == nil && info.Size() == obj.Size {
			skipped++
			continue
		}

		f, err := os.Create(target)
		if err != nil {
			logger.Error("create file failed", zap.String("path", target), zap.Error(err))
			failed++
			continue
		}
		n, err := store.Download(ctx, obj.Key, f)
		f.Close()
		if err != nil {
			logger.Error("download failed", zap.String("key", obj.Key), zap.Error(err))
			os.Remove(target)
			failed++
			continue
		}
		logger.Info("downloaded recording", zap.String("key", obj.Key), zap.Int64("bytes", n))
		fetched++
	}

	logger.Info("fetch complete",
		zap.Int("fetched", fetched),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
