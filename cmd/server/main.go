package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commercekit/service-promotions/internal/application"
	"github.com/commercekit/service-promotions/internal/auth"
	"github.com/commercekit/service-promotions/internal/cache"
	"github.com/commercekit/service-promotions/internal/config"
	"github.com/commercekit/service-promotions/internal/events"
	"github.com/commercekit/service-promotions/internal/handler"
	"github.com/commercekit/service-promotions/internal/health"
	"github.com/commercekit/service-promotions/internal/logger"
	"github.com/commercekit/service-promotions/internal/middleware"
	"github.com/commercekit/service-promotions/internal/repository"
	"github.com/commercekit/service-promotions/internal/rules"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-promotions")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-promotions",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := repository.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(repository.Models()...); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 8*time.Hour)

	// Initialize Kafka producer
	producer := events.NewProducer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.Topic,
		"service-promotions",
		zapLogger,
	)
	defer producer.Close()

	// Initialize the optional Redis name cache
	var nameCache cache.NameCache = cache.NoopNameCache{}
	if cfg.RedisConfig.Addr != "" {
		redisCache := cache.NewRedisNameCache(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			zapLogger.Warn("redis unavailable, name cache disabled", zap.Error(err))
		} else {
			nameCache = redisCache
			defer redisCache.Close()
		}
		pingCancel()
	}

	// Initialize repositories
	promoRepo := repository.NewGormPromotionRepository(db)
	ruleRepo := repository.NewGormRuleRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	marketRepo := repository.NewGormMarketRepository(db)
	tagRepo := repository.NewGormTagRepository(db)

	// Initialize application services
	lookup := application.NewCatalogLookup(marketRepo, tagRepo, nameCache, zapLogger)
	resolver := rules.NewNameResolver(lookup, zapLogger)

	promoService := application.NewPromotionService(promoRepo, producer, zapLogger)
	ruleService := application.NewRuleService(promoRepo, ruleRepo, resolver, zapLogger)
	couponService := application.NewCouponService(promoRepo, couponRepo, zapLogger)
	catalogService := application.NewCatalogService(marketRepo, tagRepo)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-promotions")
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewPromotionHandler(promoService, ruleService).RegisterRoutes(apiV1, jwtManager)
	handler.NewRuleHandler(ruleService).RegisterRoutes(apiV1, jwtManager)
	handler.NewCouponHandler(couponService).RegisterRoutes(apiV1, jwtManager)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-promotions...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-promotions stopped")
}
