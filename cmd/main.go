package main

import (
	"context"

	"github.com/rivacortez/management-demo/internal/auth"
	"github.com/rivacortez/management-demo/internal/comparison"
	"github.com/rivacortez/management-demo/internal/handler"
	"github.com/rivacortez/management-demo/internal/middleware"
	"github.com/rivacortez/management-demo/internal/purchasing"
	"github.com/rivacortez/management-demo/internal/report"
	"github.com/rivacortez/management-demo/internal/repository"
	"github.com/rivacortez/management-demo/pkg/config"
	"github.com/rivacortez/management-demo/pkg/database"
	"github.com/rivacortez/management-demo/pkg/jwtutil"
	"github.com/rivacortez/management-demo/pkg/logger"
	"github.com/rivacortez/management-demo/pkg/storage"
	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting management service...", cfg.LogConfig()...)

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("db_name", cfg.DB.DBName))

	jwt := jwtutil.NewJWTUtil(&cfg.JWT)

	// Repositories
	products := repository.NewProductRepository(db)
	categories := repository.NewCategoryRepository(db)
	suppliers := repository.NewSupplierRepository(db)
	offers := repository.NewProductSupplierRepository(db)
	orders := repository.NewPurchaseOrderRepository(db)
	users := repository.NewUserRepository(db)

	// Services
	authService := auth.NewService(users, jwt)
	created, err := authService.SeedAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
	if err != nil {
		log.Fatal("Failed to seed admin user", zap.Error(err))
	}
	if created {
		log.Info("Admin user created", zap.String("email", cfg.Auth.AdminEmail))
	}

	images := storage.New(cfg.Storage)
	if cfg.Storage.BaseURL == "" {
		log.Warn("STORAGE_URL is not set, image uploads are disabled")
	}
	comparisons := comparison.NewService(products, offers, suppliers)
	orderService := purchasing.NewService(orders, offers)
	reports := report.NewGenerator(offers, products, comparisons)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.MetricsMiddleware())
	e.Use(middleware.RequestLoggerMiddleware())

	// Public routes
	e.GET("/health", handler.NewHealthHandler(cfg.ServiceName, db).HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))
	handler.NewAuthHandler(authService).RegisterRoutes(e.Group("/auth"))

	// API routes that require authentication
	api := e.Group("/api", middleware.JWTAuthMiddleware(jwt))
	handler.NewProductHandler(products, images).RegisterRoutes(api.Group("/products"))
	handler.NewCategoryHandler(categories, images).RegisterRoutes(api.Group("/categories"))
	handler.NewSupplierHandler(suppliers).RegisterRoutes(api.Group("/suppliers"))
	handler.NewProductSupplierHandler(offers).RegisterRoutes(api.Group("/product-suppliers"))
	handler.NewComparisonHandler(comparisons).RegisterRoutes(api.Group("/comparisons"))
	handler.NewPurchaseOrderHandler(orders, orderService).RegisterRoutes(api.Group("/purchase-orders"))
	handler.NewImageHandler(images, cfg.Storage.MaxUploadBytes).RegisterRoutes(api.Group("/images"))
	handler.NewReportHandler(reports).RegisterRoutes(api.Group("/reports"))

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
