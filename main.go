package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storeops-br/catalog-admin-api/internal/app/catalog"
	"github.com/storeops-br/catalog-admin-api/internal/app/service"
	"github.com/storeops-br/catalog-admin-api/internal/app/session"
	"github.com/storeops-br/catalog-admin-api/internal/infrastructure/config"
	httpserver "github.com/storeops-br/catalog-admin-api/internal/infrastructure/http"
	"github.com/storeops-br/catalog-admin-api/internal/infrastructure/http/handler"
	"github.com/storeops-br/catalog-admin-api/internal/infrastructure/source"
	"github.com/storeops-br/catalog-admin-api/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.ExportEnabled {
		t, err := telemetry.NewTelemetry(&cfg.OTLP)
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
		telem = t
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer("catalog-admin-api")
	meter := telem.MeterProvider.Meter("catalog-admin-api")
	logger := telem.Logger

	logger.Info("Starting Catalog Admin API")

	// Remote product source client
	src := source.NewClient(
		cfg.Source.BaseURL,
		&http.Client{Timeout: cfg.Source.Timeout},
		cfg.Source.RequestsPerSecond,
		tracer,
		logger,
	)

	// Cache-aside catalog client over the source
	cat := catalog.NewClient(src, tracer, meter, logger)

	// Per-viewer sessions
	sessions := session.NewRegistry()

	// Service facade
	storeService := service.NewStoreService(cat, sessions, tracer, meter, logger)

	// HTTP surface
	storeHandler := handler.NewStoreHandler(storeService, logger)
	server := httpserver.NewServer(&cfg.Server, storeHandler, tracer, logger, telem)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	logger.Info("Server stopped")
}
