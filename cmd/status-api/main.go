package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/nipitpongpan/Jenzabar/api/swagger"
	"github.com/nipitpongpan/Jenzabar/internal/handler"
	"github.com/nipitpongpan/Jenzabar/internal/middleware"
	"github.com/nipitpongpan/Jenzabar/internal/repository"
	"github.com/nipitpongpan/Jenzabar/internal/service"
	"github.com/nipitpongpan/Jenzabar/pkg/cache"
	"github.com/nipitpongpan/Jenzabar/pkg/config"
	"github.com/nipitpongpan/Jenzabar/pkg/database"
	"github.com/nipitpongpan/Jenzabar/pkg/logger"
	corsmiddleware "github.com/nipitpongpan/Jenzabar/pkg/middleware/cors"
	reqidmiddleware "github.com/nipitpongpan/Jenzabar/pkg/middleware/requestid"
)

// @title Enrollment Status API
// @version 0.1.0
// @description Read-only classification of students as New/Continue/Return per academic term
// @BasePath /api/v1
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
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Calendar.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			// Redis only backs the calendar snapshot; classification works
			// without it.
			logr.Warn("redis unavailable, calendar cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	termRepo := repository.NewTermRepository(db)
	historyRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	classifySvc := service.NewClassificationService(termRepo, historyRepo, nil, logr, metricsSvc)
	termSvc := service.NewTermService(termRepo, cacheRepo, cfg.Calendar.CacheTTL, logr, metricsSvc)

	classifyHandler := handler.NewClassificationHandler(classifySvc)
	termHandler := handler.NewTermHandler(termSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(middleware.BearerAuth(cfg.Auth.Secret))
	}
	api.GET("/students/:studentId/enrollment-status", classifyHandler.Get)
	api.GET("/terms", termHandler.List)
	api.GET("/terms/:year/:term", termHandler.Get)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
