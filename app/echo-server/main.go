package main

import (
	"context"
	"fmt"
	"log"
	"myCatalog/app/echo-server/router"
	"myCatalog/business/category"
	"myCatalog/business/compare"
	"myCatalog/business/product"
	"myCatalog/business/review"
	userService "myCatalog/business/user"
	"myCatalog/internal/middleware"
	"myCatalog/internal/repository/notification"
	psqlRepo "myCatalog/internal/repository/postgres"
	redisRepo "myCatalog/internal/repository/redis"
	"myCatalog/internal/rest"
	"myCatalog/pkg/config"
	"myCatalog/pkg/database"
	redisClient "myCatalog/pkg/database/redis"
	"myCatalog/pkg/logger"
	"myCatalog/pkg/metrics"
	"myCatalog/pkg/serializer"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting myCatalog", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	logger.Info("Database connected successfully")

	// Session store is optional; without it tokens are trusted until expiry
	var (
		sessions       userService.SessionStore
		tokenValidator middleware.TokenValidator
	)
	if cfg.Redis.Enabled {
		rdb, err := redisClient.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer func() { _ = redisClient.CloseRedisClient(rdb) }()

		tokenRepo := redisRepo.NewTokenRepository(rdb)
		sessions = tokenRepo
		tokenValidator = tokenRepo
		logger.Info("Redis connected successfully")
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, sessions, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	categorySvc := category.NewCategoryService(categoryRepo)
	productSvc := product.NewProductService(productRepo, categoryRepo)
	reviewSvc := review.NewReviewService(reviewRepo, productRepo, cfg.Catalog.RatingIncludeDisabled)
	compareSvc := compare.NewCompareService(productRepo, categoryRepo, nil, cfg.Catalog.TopSpecs)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	categoryHandler := rest.NewCategoryHandler(categorySvc)
	productHandler := rest.NewProductHandler(productSvc)
	reviewHandler := rest.NewReviewHandler(reviewSvc)
	compareHandler := rest.NewCompareHandler(compareSvc)

	metrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = serializer.GoJSONSerializer{}

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestTrace())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	var authRequired echo.MiddlewareFunc
	if tokenValidator != nil {
		authRequired = middleware.AuthMiddlewareWithRedis(tokenValidator)
	} else {
		authRequired = middleware.AuthMiddleware()
	}
	authOptional := middleware.OptionalAuth(tokenValidator)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()

	e.GET("/metrics", metrics.Handler())
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly, selfOrAdmin)
	router.SetupCategoryRoutes(api, categoryHandler, compareHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCompareRoutes(api, compareHandler)
	router.SetupReviewRoutes(api, reviewHandler, authOptional, authRequired, adminOnly)

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
