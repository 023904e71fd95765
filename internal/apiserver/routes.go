package apiserver

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdant/canopy/internal/api/handlers"
)

// registerHandlers registers all HTTP handlers
func (s *Server) registerHandlers() error {
	if err := handlers.RegisterHandlers(
		s.router,
		s.engines,
		s.reportCacheSize,
		s.logger,
		s.getTracer("canopy.api"),
		s.withMethod,
	); err != nil {
		return err
	}

	s.registerHealthEndpoints()
	s.registerMetricsEndpoint()
	return nil
}

// registerHealthEndpoints registers health and readiness check endpoints
func (s *Server) registerHealthEndpoints() {
	s.router.HandleFunc("/healthz", s.handleHealth)
	s.router.HandleFunc("/readyz", s.handleReady)
}

// registerMetricsEndpoint exposes the Prometheus registry
func (s *Server) registerMetricsEndpoint() {
	if s.registry == nil {
		s.logger.Debug("No metrics registry configured, skipping /metrics endpoint")
		return
	}
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		Registry: s.registry,
	}))
}
