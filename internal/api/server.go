package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sentinel/internal/adapters/config"
	"sentinel/internal/api/health"
	"sentinel/internal/metrics"
	"sentinel/pkg/errors"
	"sentinel/pkg/logger"
)

// Server wraps HTTP server with lifecycle management
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg *config.Config, handlers *Handlers, healthHandler *health.Handler, audit *zap.Logger, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	// Analysis endpoints carry per-client limits since each call can spend
	// model quota.
	var analyzeLimiter, comprehensiveLimiter *ipLimiter
	if cfg.RateLimit.Enabled {
		analyzeLimiter = newIPLimiter(rate.Limit(cfg.RateLimit.AnalyzePerMinute/60.0), int(cfg.RateLimit.AnalyzePerMinute))
		comprehensiveLimiter = newIPLimiter(rate.Limit(cfg.RateLimit.ComprehensivePerHour/3600.0), int(cfg.RateLimit.ComprehensivePerHour))
	}

	route := func(pattern string, handler http.HandlerFunc, limiter *ipLimiter) {
		mux.Handle(pattern, observe(pattern, rateLimited(limiter, handler)))
	}

	route("GET /api/vendors", handlers.handleListVendors, nil)
	route("POST /api/vendors", handlers.handleCreateVendor, nil)
	route("POST /api/analysis", handlers.handleAnalyzeText, analyzeLimiter)
	route("POST /api/vendors/{id}/documents", handlers.handleUploadDocument, nil)
	route("GET /api/vendors/{id}/documents", handlers.handleListDocuments, nil)
	route("POST /api/documents/{id}/analyze", handlers.handleAnalyzeDocument, analyzeLimiter)
	route("POST /api/vendors/{id}/analyze-all", handlers.handleAnalyzeAll, comprehensiveLimiter)
	route("GET /api/vendors/{id}/assessments", handlers.handleAssessmentHistory, nil)
	route("GET /api/vendors/{id}/assessments/latest", handlers.handleLatestAssessment, nil)
	route("GET /api/vendors/{id}/assessments/summary", handlers.handleAssessmentSummary, nil)
	route("DELETE /api/vendors/{id}/assessments", handlers.handleDeleteAssessments, nil)
	route("GET /files/{vendor}/{name}", handlers.handleServeFile, nil)

	// Health check endpoints (Kubernetes probes)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/ready", healthHandler.HandleReadiness)
	mux.HandleFunc("/live", healthHandler.HandleLiveness)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Root endpoint (service info)
	mux.HandleFunc("/", handlers.handleRoot)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})

	handler := recovered(securityHeaders(auditLog(audit, corsHandler.Handler(mux))))

	port := 8080
	if cfg.Server.Port > 0 {
		port = cfg.Server.Port
	}

	log.Infof("HTTP server configured on port %d", port)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
		// Analysis endpoints wait on the model, so the write timeout covers
		// the model timeout plus overhead.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		log:        log,
	}
}

// Start begins listening for HTTP requests
// Blocks until server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
// Waits for active connections to complete within timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("✓ HTTP server stopped")
	return nil
}
