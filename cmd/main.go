package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/catalog"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/sku"
)

// @title Catalog Management API
// @version 1.0.0
// @description Product catalog service with brand/category/color resolution, SKU generation and store inventory

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8087
// @BasePath /

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse Redis URL (continuing without Redis)")
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis (caching will be disabled)")
		redisClient = nil
	} else {
		logger.Info("Redis connected successfully")
	}
	cancel()

	// Initialize event publisher (no-op when NATS_URL is unset)
	eventsPublisher, err := events.NewPublisher(cfg.NATSURL, logger)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize events publisher (continuing without event publishing)")
		eventsPublisher = nil
	}
	defer eventsPublisher.Close()

	// Initialize repositories and services
	catalogRepo := repository.NewCatalogRepository(db, redisClient)
	storeRepo := repository.NewStoreRepository(db)

	catalogService, err := catalog.NewService(catalog.Deps{
		Store:  catalogRepo,
		SKUGen: sku.New().WithMaxAttempts(cfg.SKUMaxAttempts),
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize catalog service")
	}

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService, eventsPublisher, logger)
	storeHandler := handlers.NewStoreHandler(storeRepo, logger)
	exportHandler := handlers.NewExportHandler(catalogService, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// Product catalog routes
	lists := router.Group("/lists")
	{
		lists.GET("/", catalogHandler.ListProducts)
		lists.POST("/", catalogHandler.CreateProduct)
		lists.DELETE("/", catalogHandler.PurgeCatalog)
		lists.GET("/export", exportHandler.ExportProducts)
		lists.GET("/:id/", catalogHandler.GetProduct)
		lists.PUT("/:id/", catalogHandler.UpdateProduct)
		lists.DELETE("/:id/", catalogHandler.DeleteProduct)
	}

	// Store and inventory routes
	stores := router.Group("/stores")
	{
		stores.GET("/", storeHandler.ListStores)
		stores.POST("/", storeHandler.CreateStore)
		stores.GET("/:id/", storeHandler.GetStore)
		stores.DELETE("/:id/", storeHandler.DeleteStore)
		stores.GET("/:id/inventory/", storeHandler.ListInventory)
		stores.PUT("/:id/inventory/:productId/", storeHandler.UpsertInventory)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithField("port", cfg.Port).Info("Catalog service starting")
		if err := router.Run(":" + cfg.Port); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-quit
	logger.Info("Shutting down catalog-service...")
}
