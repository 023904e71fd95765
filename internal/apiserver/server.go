package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/logging"
)

// ReadinessChecker is an interface for checking component readiness
type ReadinessChecker interface {
	IsReady() bool
}

// NoOpReadinessChecker is a ReadinessChecker that always returns true.
type NoOpReadinessChecker struct{}

// IsReady always returns true for the no-op checker.
func (n *NoOpReadinessChecker) IsReady() bool {
	return true
}

// TracerSource is the slice of the tracing provider the server needs.
type TracerSource interface {
	Tracer(name string) trace.Tracer
	IsEnabled() bool
}

// Server handles HTTP API requests for analysis, correlation, and reports
type Server struct {
	port             int
	server           *http.Server
	logger           *logging.Logger
	router           *http.ServeMux
	engines          api.EngineSource
	readinessChecker ReadinessChecker
	registry         *prometheus.Registry
	metrics          *Metrics
	reportCacheSize  int
	sem              chan struct{}
	tracingProvider  TracerSource
}

// New creates a new API server. The registry carries both the engine
// metrics and the server's own request metrics and backs the /metrics
// endpoint.
func New(
	port int,
	engines api.EngineSource,
	readinessChecker ReadinessChecker,
	registry *prometheus.Registry,
	reportCacheSize int,
	maxConcurrentRequests int,
	tracingProvider TracerSource,
) (*Server, error) {
	if engines == nil {
		return nil, fmt.Errorf("engines cannot be nil")
	}
	if readinessChecker == nil {
		readinessChecker = &NoOpReadinessChecker{}
	}

	s := &Server{
		port:             port,
		logger:           logging.GetLogger("api"),
		router:           http.NewServeMux(),
		engines:          engines,
		readinessChecker: readinessChecker,
		registry:         registry,
		reportCacheSize:  reportCacheSize,
		sem:              make(chan struct{}, maxConcurrentRequests),
		tracingProvider:  tracingProvider,
	}

	if registry != nil {
		s.metrics = NewMetrics(registry)
	}

	if err := s.registerHandlers(); err != nil {
		return nil, err
	}

	s.configureHTTPServer(port)
	return s, nil
}

// configureHTTPServer creates the HTTP server with middleware and timeouts
func (s *Server) configureHTTPServer(port int) {
	handler := s.corsMiddleware(s.limitConcurrency(s.trackRequests(s.router)))

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Start implements the lifecycle.Component interface
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting API server on port %d", s.port)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	s.logger.Info("API server started and listening on port %d", s.port)
	return nil
}

// Stop implements the lifecycle.Component interface
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")

	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.server.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("HTTP server shutdown error: %v", err)
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("API server shutdown timeout")
		return ctx.Err()
	}
}

// Name implements the lifecycle.Component interface
func (s *Server) Name() string {
	return "API Server"
}

// GetPort returns the port the server is listening on
func (s *Server) GetPort() int {
	return s.port
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "healthy",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, response)
}

// handleReady handles readiness check requests
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ready := s.readinessChecker.IsReady()

	response := map[string]interface{}{
		"ready": ready,
	}

	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = api.WriteJSON(w, response)
}

// getTracer returns a tracer for the given name
func (s *Server) getTracer(name string) trace.Tracer {
	if s.tracingProvider != nil && s.tracingProvider.IsEnabled() {
		return s.tracingProvider.Tracer(name)
	}
	return otel.GetTracerProvider().Tracer(name)
}
