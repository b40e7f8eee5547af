package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campushq/idcard-api/api/swagger"
	"github.com/campushq/idcard-api/internal/handler"
	"github.com/campushq/idcard-api/internal/middleware"
	"github.com/campushq/idcard-api/internal/repository"
	"github.com/campushq/idcard-api/internal/service"
	"github.com/campushq/idcard-api/pkg/cache"
	"github.com/campushq/idcard-api/pkg/config"
	"github.com/campushq/idcard-api/pkg/database"
	"github.com/campushq/idcard-api/pkg/export"
	"github.com/campushq/idcard-api/pkg/logger"
	corsmiddleware "github.com/campushq/idcard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/idcard-api/pkg/middleware/requestid"
	"github.com/campushq/idcard-api/pkg/storage"
)

// @title Student ID Card Portal API
// @version 1.0.0
// @description Admin backend for student ID card requests
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	files, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	adminRepo := repository.NewAdminRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	authSvc := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "idcard-api",
	})

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureSeedAdmin(seedCtx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logr.Warn("seed admin provisioning failed", zap.Error(err))
	}
	cancel()

	intakeSvc := service.NewIntakeService(requestRepo, files, validate, logr, service.IntakeConfig{
		MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
	})

	archiveSvc := service.NewArchiveService(applicationRepo, cacheSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	reviewSvc := service.NewReviewService(requestRepo, applicationRepo, signer, archiveSvc, logr, service.ReviewConfig{
		RecentApprovedLimit: cfg.Dashboard.RecentApprovedLimit,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	intakeHandler := handler.NewIntakeHandler(intakeSvc)
	adminHandler := handler.NewAdminHandler(reviewSvc, archiveSvc, signer, files, logr)
	applicationHandler := handler.NewApplicationHandler(archiveSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/students", intakeHandler.Submit)
		api.GET("/applications", applicationHandler.List)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/requests", adminHandler.ListRequests)
			admin.POST("/application/:id/action", adminHandler.Decide)
			admin.GET("/applications/export", adminHandler.Export)
			admin.GET("/documents/download", adminHandler.DownloadDocument)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
