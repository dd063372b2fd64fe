package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/githubixx/xmltv-epg-go/internal/adapters/primary/http"
	"github.com/githubixx/xmltv-epg-go/internal/adapters/secondary/xmltvfetch"
	"github.com/githubixx/xmltv-epg-go/internal/application/services"
	"github.com/githubixx/xmltv-epg-go/internal/infrastructure/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("xmltv-epg-go v%s (%s %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting xmltv-epg-go", slog.String("version", version), slog.String("commit", commit), slog.String("date", date))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("source_url", cfg.Source.URL),
		slog.String("server_host", cfg.Server.Host),
		slog.Int("server_port", cfg.Server.Port),
	)

	// Initialize fetch client
	guideClient := xmltvfetch.NewClient(
		cfg.Source.URL,
		cfg.Source.Timeout,
		xmltvfetch.WithMaxBodySize(cfg.Source.MaxBodySize),
		xmltvfetch.WithLogger(logger),
	)

	// Initialize guide service
	guideService := services.NewGuideService(
		guideClient,
		cfg.Guide.RefreshInterval,
		cfg.Guide.Lookahead,
		cfg.Guide.Primetime,
		logger,
	)

	// Attempt an early refresh (non-fatal). The background loop retries,
	// and the API reports 503 until a guide is available.
	refreshCtx, refreshCancel := context.WithTimeout(context.Background(), cfg.Source.Timeout)
	if err := guideService.Refresh(refreshCtx); err != nil {
		logger.Warn("initial guide refresh failed (continuing without guide)", slog.Any("error", err))
	}
	refreshCancel()

	// Start background refresh loop
	loopCtx, loopCancel := context.WithCancel(context.Background())
	defer loopCancel()
	guideService.Start(loopCtx)

	// Initialize HTTP handler
	httpHandler := httpAdapter.NewHandler(guideService, logger)

	// Setup routes
	mux := httpAdapter.SetupRoutes(httpHandler, &cfg.Auth, logger)

	// Create HTTP server
	server := httpAdapter.NewServer(&cfg.Server, logger, httpHandler, mux)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	logger.Info("server started",
		slog.String("addr", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	guideService.Stop()

	logger.Info("shutdown complete")
}
