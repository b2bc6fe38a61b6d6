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

	"orderdesk/docs"
	"orderdesk/internal/caching"
	"orderdesk/internal/config"
	"orderdesk/internal/handlers"
	"orderdesk/internal/jobs"
	"orderdesk/internal/logger"
	"orderdesk/internal/middleware"
	"orderdesk/internal/repositories"
	"orderdesk/internal/services"
	"orderdesk/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

// @title						orderdesk API
// @version					1.0
// @description				Order lifecycle, payments and rentals for an event rental business.
// @BasePath					/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolConfig{}, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.ClosePool(pool, log)

	store := repositories.NewStore(pool)

	var cacheSvc caching.CacheService
	if cfg.Redis.Addr == "" {
		log.Info("no redis address configured, summary caching disabled")
		cacheSvc = caching.NewNoopCacheService()
	} else {
		redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()
		cacheSvc = caching.NewRedisCacheService(redisClient, caching.DefaultSummaryTTL)
		if err := cacheSvc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, summaries will be computed on every request", zap.Error(err))
		}
	}

	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	audit := services.NewAuditTrail(store)
	orderSvc := services.NewOrderService(store, audit, cacheSvc, cfg.Orders.DefaultMinDownpaymentPercent)
	paymentSvc := services.NewPaymentService(store, audit, cacheSvc)
	rentalSvc := services.NewRentalService(store, services.NewInventoryService(), cacheSvc)
	exportSvc := services.NewAuditExportService(audit, storage, cfg.AuditExport.Bucket)

	var scheduler *jobs.Scheduler
	if cfg.AuditExport.Bucket != "" {
		if err := storage.EnsureBucketExists(ctx, cfg.AuditExport.Bucket); err != nil {
			log.Warn("audit export bucket not ready", zap.String("bucket", cfg.AuditExport.Bucket), zap.Error(err))
		}
		scheduler, err = jobs.NewScheduler(exportSvc, cfg.AuditExport.Interval, log)
		if err != nil {
			log.Fatal("failed to create job scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	docs.SwaggerInfo.Version = version

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(versionMiddleware.APIVersionResolver())

	handlers.RegisterRoutes(e, &handlers.Handlers{
		Orders:   handlers.NewOrderHandlers(orderSvc),
		Payments: handlers.NewPaymentHandlers(paymentSvc),
		Rentals:  handlers.NewRentalHandlers(rentalSvc),
		Audit:    handlers.NewAuditLogsHandlers(audit, exportSvc),
		Health:   handlers.NewHealthHandlers(pool, cacheSvc, storage, cfg.AuditExport.Bucket, version),
	}, versionMiddleware)

	go func() {
		log.Info("orderdesk server starting", zap.String("version", version), zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Error("scheduler shutdown failed", zap.Error(err))
		}
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
}
