package main

import (
	"context"
	"fmt"
	"log"
	"lojaConforto/app/echo-server/router"
	"lojaConforto/business/inventory"
	"lojaConforto/business/labelscan"
	"lojaConforto/business/routing"
	"lojaConforto/business/share"
	"lojaConforto/business/stats"
	userService "lojaConforto/business/user"
	"lojaConforto/internal/middleware"
	"lojaConforto/internal/repository/memory"
	"lojaConforto/internal/repository/nominatim"
	"lojaConforto/internal/repository/ocr"
	"lojaConforto/internal/repository/osrm"
	"lojaConforto/internal/rest"
	"lojaConforto/pkg/config"
	"lojaConforto/pkg/logger"
	"lojaConforto/pkg/metrics"
	"lojaConforto/pkg/utils"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
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
	logger.Info("Starting Loja Conforto API", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTLMinutes)
	metrics.Init()

	// Init repo. Everything lives in memory, nothing survives a restart.
	productRepo := memory.NewProductRepository()
	userRepo := memory.NewUserRepository()

	if !cfg.Seed.Disabled {
		seed := cfg.Seed.Rand
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))

		if err := productRepo.SeedProducts(context.Background(), rng); err != nil {
			logger.Fatal("Failed to seed products", "error", err)
		}
		if err := userRepo.SeedUsers(context.Background(), cfg.Seed.DefaultPassword, cfg.Seed.AdminUsers); err != nil {
			logger.Fatal("Failed to seed users", "error", err)
		}

		logger.Info("Seeded mock inventory", "seed", seed)
	}

	nominatimRepo := nominatim.NewNominatimRepository(nominatim.NominatimConfig{
		BaseURL: cfg.Geocoding.BaseURL,
	})
	osrmRepo := osrm.NewOSRMRepository(osrm.OSRMConfig{
		BaseURL: cfg.Routing.BaseURL,
	})
	ocrRepo := ocr.NewOCRRepository(ocr.OCRConfig{
		BaseURL: cfg.OCR.BaseURL,
		APIKey:  cfg.OCR.APIKey,
	})

	// Init service
	inventoryService := inventory.NewInventoryService(productRepo)
	statsService := stats.NewStatsService(productRepo)
	usersService := userService.NewUserService(userRepo)
	shareService := share.NewShareService(productRepo, cfg.Share.CodeKey, cfg.Share.TTLMinutes)
	routingService := routing.NewRoutingService(productRepo, nominatimRepo, osrmRepo)
	labelScanService := labelscan.NewLabelScanService(ocrRepo)

	// Init handler
	productHandler := rest.NewProductHandler(inventoryService)
	statsHandler := rest.NewStatsHandler(statsService)
	userHandler := rest.NewUserHandler(usersService)
	deliveryHandler := rest.NewDeliveryHandler(inventoryService, routingService, shareService)
	labelHandler := rest.NewLabelHandler(labelScanService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Metrics())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupStatsRoutes(api, statsHandler, authRequired)
	router.SetupDeliveryRoutes(api, deliveryHandler, authRequired)
	router.SetupLabelRoutes(api, labelHandler, authRequired)

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

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
