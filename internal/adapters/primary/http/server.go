package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/githubixx/xmltv-epg-go/internal/infrastructure/config"
)

// Server represents the HTTP server
type Server struct {
	config  *config.ServerConfig
	logger  *slog.Logger
	server  *http.Server
	handler *Handler
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.ServerConfig, logger *slog.Logger, handler *Handler, mux http.Handler) *Server {
	return &Server{
		config:  cfg,
		logger:  logger,
		handler: handler,
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:        mux,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		slog.String("addr", s.server.Addr),
		slog.Bool("tls", s.config.TLS.Enabled),
	)

	if s.config.TLS.Enabled {
		return s.server.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// SetupRoutes configures all HTTP routes using Go 1.22+ routing
func SetupRoutes(handler *Handler, authCfg *config.AuthConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Apply middleware chain
	chain := func(h http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
		handler := http.Handler(h)
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}

	// Common middleware for all routes
	commonMiddleware := []func(http.Handler) http.Handler{
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		SecurityHeadersMiddleware(),
		CompressionMiddleware(),
		AuthMiddleware(authCfg),
	}

	mux.Handle("GET /healthz", chain(handler.Healthz, commonMiddleware...))
	mux.Handle("GET /api/status", chain(handler.Status, commonMiddleware...))
	mux.Handle("GET /api/guide", chain(handler.Guide, commonMiddleware...))
	mux.Handle("GET /api/channels", chain(handler.Channels, commonMiddleware...))
	mux.Handle("GET /api/channels/{id}", chain(handler.Channel, commonMiddleware...))
	mux.Handle("GET /api/channels/{id}/now", chain(handler.CurrentProgram, commonMiddleware...))
	mux.Handle("GET /api/channels/{id}/next", chain(handler.NextProgram, commonMiddleware...))
	mux.Handle("GET /api/channels/{id}/primetime", chain(handler.PrimetimeProgram, commonMiddleware...))

	return mux
}
