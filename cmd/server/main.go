// Package main runs the Laneway backend HTTP API: upload-URL issuance,
// recording completion, analytics and absences for the extension.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/laneway/backend/config"
	"github.com/laneway/backend/internal/absences"
	"github.com/laneway/backend/internal/analytics"
	"github.com/laneway/backend/internal/auth"
	"github.com/laneway/backend/internal/middleware"
	"github.com/laneway/backend/internal/recordings"
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
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	store, err := storage.NewClient(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	// Redis only feeds the optional processing queue; the serving path
	// works without it.
	var jobQueue *queue.Queue
	if rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger); err != nil {
		logger.Warn("redis unavailable, processing queue disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		jobQueue = queue.NewQueue(rdb.Client, logger)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	uploadExpiry := time.Duration(cfg.Storage.UploadExpireSeconds) * time.Second

	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	recordingRepo := recordings.NewRepository(pool)
	participantRepo := recordings.NewParticipantRepository(pool)
	reconciler := recordings.NewReconciler(recordingRepo, participantRepo, logger)
	recordingHandler := recordings.NewHandler(recordingRepo, reconciler, store, jobQueue, uploadExpiry, logger)

	analyticsRepo := analytics.NewRepository(pool)
	analyticsHandler := analytics.NewHandler(analyticsRepo, logger)

	absenceRepo := absences.NewRepository(pool)
	absenceHandler := absences.NewHandler(absenceRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online", "service": "Laneway Backend API", "version": "1.0.0"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/register", authHandler.Register)

	api := router.Group("/api")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/recordings/upload-url", recordingHandler.GetUploadURL)
		api.POST("/recordings/complete", recordingHandler.Complete)
		api.GET("/recordings", middleware.RequireRole("admin"), recordingHandler.ListByMeeting)
		api.GET("/recordings/:id/download-url", recordingHandler.GetDownloadURL)

		api.POST("/analytics/upload", analyticsHandler.Upload)
		api.GET("/analytics/user/:id", analyticsHandler.GetUserStats)

		api.POST("/absences/notify", absenceHandler.Notify)
		api.GET("/absences/meeting/:id", absenceHandler.ListByMeeting)
		api.POST("/absences/mark-shown", absenceHandler.MarkShown)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
