package apiserver

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the HTTP server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // Requests served, by path
	RequestDuration *prometheus.HistogramVec // Request latency, by path
	InFlight        prometheus.Gauge         // Requests currently being processed
}

// NewMetrics creates and registers the server metrics. A nil registerer
// disables metric collection.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canopy_http_requests_total",
		Help: "Total number of HTTP requests served",
	}, []string{"path"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "canopy_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "canopy_http_requests_in_flight",
		Help: "Number of HTTP requests currently being processed",
	})

	reg.MustRegister(requestsTotal)
	reg.MustRegister(requestDuration)
	reg.MustRegister(inFlight)

	return &Metrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		InFlight:        inFlight,
	}
}
