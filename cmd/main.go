package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/priyanshuspawar/Karwaan-Backend/config"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/cache"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/delivery"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/payment"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/repository"
	"github.com/priyanshuspawar/Karwaan-Backend/internal/usecase"
	"github.com/priyanshuspawar/Karwaan-Backend/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Karwaan backend...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Infof("Redis client initialized for %s", cfg.RedisAddr)

	gateway := payment.NewRazorpayClient(
		cfg.GatewayBaseURL,
		cfg.GatewayKeyID,
		cfg.GatewayKeySecret,
		cfg.GatewayTimeout,
		logger,
	)
	logger.Infof("Payment gateway client initialized for target: %s", cfg.GatewayBaseURL)

	// --- Dependency Injection ---
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	addressRepo := repository.NewPostgresAddressRepository(database, logger)
	productRepo := cache.NewCachedProductRepository(
		repository.NewPostgresProductRepository(database, logger),
		redisClient,
		5*time.Minute,
		logger,
	)
	logger.Info("Repositories initialized.")

	orderUseCase := usecase.NewOrderUseCase(orderRepo, userRepo, productRepo, cartRepo, gateway, cfg.GatewayCurrency, cfg.GatewayKeySecret, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, userRepo, logger)
	addressUseCase := usecase.NewAddressUseCase(addressRepo, userRepo, logger)
	logger.Info("Use cases initialized.")

	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	cartHandler := delivery.NewCartHandler(cartUseCase, logger)
	addressHandler := delivery.NewAddressHandler(addressUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(delivery.RequestLogger(logger))
	router.Use(delivery.AuthMiddleware(cfg.JWTSecret, logger))

	orderHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	addressHandler.RegisterRoutes(router)
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}
