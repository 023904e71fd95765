package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for analysis observability.
type Metrics struct {
	RunsTotal        prometheus.Counter   // Total analysis passes executed
	AnomaliesTotal   prometheus.Counter   // Total anomaly records processed
	ClustersLastRun  prometheus.Gauge     // Clusters produced by the most recent pass
	RunDuration      prometheus.Histogram // Analysis pass duration in seconds
}

// NewMetrics creates Prometheus metrics for an engine instance. The
// registerer is injected so tests can use an isolated registry and
// multi-tenant deployments can label per instance.
func NewMetrics(reg prometheus.Registerer, instanceName string) *Metrics {
	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "canopy_analysis_runs_total",
		Help:        "Total number of analysis passes executed",
		ConstLabels: prometheus.Labels{"instance": instanceName},
	})

	anomaliesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "canopy_analysis_anomalies_total",
		Help:        "Total number of anomaly records processed",
		ConstLabels: prometheus.Labels{"instance": instanceName},
	})

	clustersLastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "canopy_analysis_clusters",
		Help:        "Number of clusters produced by the most recent pass",
		ConstLabels: prometheus.Labels{"instance": instanceName},
	})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "canopy_analysis_run_duration_seconds",
		Help:        "Duration of analysis passes in seconds",
		ConstLabels: prometheus.Labels{"instance": instanceName},
		Buckets:     prometheus.DefBuckets,
	})

	reg.MustRegister(runsTotal)
	reg.MustRegister(anomaliesTotal)
	reg.MustRegister(clustersLastRun)
	reg.MustRegister(runDuration)

	return &Metrics{
		RunsTotal:       runsTotal,
		AnomaliesTotal:  anomaliesTotal,
		ClustersLastRun: clustersLastRun,
		RunDuration:     runDuration,
	}
}
