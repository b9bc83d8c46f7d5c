package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/invopost/invoice-dispatch/internal/config"
	"github.com/invopost/invoice-dispatch/internal/handler"
	"github.com/invopost/invoice-dispatch/internal/observability"
	"github.com/invopost/invoice-dispatch/internal/provider"
	"github.com/invopost/invoice-dispatch/internal/render"
	"github.com/invopost/invoice-dispatch/internal/service"
	"github.com/invopost/invoice-dispatch/internal/storage"
	"github.com/invopost/invoice-dispatch/internal/transport"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	store, err := storage.NewFSStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal("artifact store initialization failed", zap.Error(err))
	}

	emailProvider, err := provider.NewEmailAPIProvider(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	if err != nil {
		logger.Fatal("email provider initialization failed", zap.Error(err))
	}
	smsProvider, err := provider.NewSMSAPIProvider(cfg.SMSAPIURL, cfg.SMSAPIKey, cfg.SMSFrom)
	if err != nil {
		logger.Fatal("sms provider initialization failed", zap.Error(err))
	}

	// Email first: the reported outcome order matches attempt slots.
	providers := []provider.Provider{emailProvider, smsProvider}

	dispatchService, err := service.NewDispatchService(
		render.NewPDFRenderer(),
		store,
		providers,
		cfg.BaseURL,
		metrics,
		logger,
	)
	if err != nil {
		logger.Fatal("dispatch service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(cors.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, store)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if err := handler.RegisterInvoiceRoutes(app, dispatchService, store); err != nil {
		logger.Fatal("route registration failed", zap.Error(err))
	}

	logger.Info("invoice-dispatch api started",
		zap.Int("port", cfg.APIPort),
		zap.String("baseUrl", cfg.BaseURL),
		zap.String("storageDir", cfg.StorageDir),
	)

	if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
