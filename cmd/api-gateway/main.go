package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/slotforge/timetable-api/api/swagger"
	"github.com/slotforge/timetable-api/internal/handler"
	internalmiddleware "github.com/slotforge/timetable-api/internal/middleware"
	"github.com/slotforge/timetable-api/internal/repository"
	"github.com/slotforge/timetable-api/internal/service"
	"github.com/slotforge/timetable-api/pkg/cache"
	"github.com/slotforge/timetable-api/pkg/config"
	"github.com/slotforge/timetable-api/pkg/jobs"
	"github.com/slotforge/timetable-api/pkg/logger"
	corsmiddleware "github.com/slotforge/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/slotforge/timetable-api/pkg/middleware/requestid"
	"github.com/slotforge/timetable-api/pkg/storage"
)

// @title Timetable Allocation API
// @version 0.1.0
// @description Greedy randomized timetable generation with faculty projections and file exports
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Redis.CacheTTL, logr, cacheRepo != nil)

	timetableSvc := service.NewTimetableService(validate, cacheSvc, metricsSvc, logr, service.TimetableConfig{
		DefaultOptionCount: cfg.Timetable.OptionCount,
		MaxOptionCount:     cfg.Timetable.MaxOptionCount,
		OptionTTL:          cfg.Timetable.OptionTTL,
		Seed:               cfg.Timetable.Seed,
		CacheTTL:           cfg.Redis.CacheTTL,
	})

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(timetableSvc, exportStorage, signer, metricsSvc, validate, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr)

	exportQueue := jobs.NewQueue("exports", exportSvc.Process, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportSvc.StartCleanup(ctx, cfg.Exports.CleanupInterval)

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	exportHandler := handler.NewExportHandler(exportSvc, exportQueue, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/timetables", timetableHandler.Generate)
		api.GET("/timetables/:id", timetableHandler.Get)
		api.GET("/timetables/:id/tables", timetableHandler.Tables)
		api.POST("/timetables/:id/regenerate", timetableHandler.Regenerate)
		api.POST("/timetables/:id/exports", exportHandler.Create)
		api.GET("/exports/:jobId", exportHandler.Get)
		api.GET("/exports/download", exportHandler.Download)
		api.GET("/metrics/summary", metricsHandler.Summary)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
