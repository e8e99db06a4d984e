package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"steezestore/app/echo-server/router"
	"steezestore/business/analytics"
	"steezestore/business/customer"
	"steezestore/business/engagement"
	"steezestore/business/identity"
	"steezestore/business/orders"
	"steezestore/business/product"
	"steezestore/internal/middleware"
	"steezestore/internal/repository/cloudinary"
	psqlRepo "steezestore/internal/repository/postgres"
	"steezestore/internal/rest"
	"steezestore/pkg/config"
	"steezestore/pkg/database"
	redisdb "steezestore/pkg/database/redis"
	"steezestore/pkg/logger"
	"steezestore/pkg/metrics"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Steezestore", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	imageStore := cloudinary.NewCloudinaryRepository(
		cloudinary.CloudinaryConfig{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
		},
	)

	// Init repo
	customerRepo := psqlRepo.NewCustomerRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	eventRepo := psqlRepo.NewEventRepository(db)

	// Init service
	identityService := identity.NewIdentityService(customerRepo)
	ordersService := orders.NewOrdersService(ordersRepo, identityService, customerRepo, eventRepo)
	productService := product.NewProductService(productRepo, imageStore)
	engagementService := engagement.NewEngagementService(productRepo, eventRepo, identityService, customerRepo)
	customerService := customer.NewCustomerService(customerRepo, ordersRepo)
	analyticsService := analytics.NewAnalyticsService(ordersRepo, productRepo)

	// Init handler
	authHandler := rest.NewAuthHandler(cfg.Admin)
	ordersHandler := rest.NewOrdersHandler(ordersService)
	productHandler := rest.NewProductHandler(productService, engagementService)
	customerHandler := rest.NewCustomerHandler(customerService)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService)
	lookbookHandler := rest.NewLookbookHandler(imageStore, cfg.Cloudinary.ModelsPrefix)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.App.ClientOrigin, "http://localhost:3000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "x-cid"},
		AllowCredentials: true,
	}))
	e.Use(middleware.CIDMiddleware(cfg.App.Environment))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()
	rateLimit := middleware.RateLimitMiddleware(redisClient, "public", cfg.RateLimit.RequestsPerMinute, time.Minute)
	loginLimit := middleware.RateLimitMiddleware(redisClient, "login", cfg.RateLimit.LoginAttempts, 5*time.Minute)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api")
	router.SetupHealthRoute(api)
	router.SetupAuthRoutes(api, authHandler, authRequired, loginLimit)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly, rateLimit)
	router.SetupLookbookRoutes(api, lookbookHandler)
	router.SetupOrdersRoutes(api, ordersHandler, rateLimit)
	router.SetupAdminRoutes(api, ordersHandler, customerHandler, analyticsHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
