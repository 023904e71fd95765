// Package analysis turns severity-tagged sensor anomaly events into
// prioritized, de-duplicated incident clusters with inferred root causes
// and remediation suggestions.
//
// The pipeline is score -> cluster -> infer -> recommend -> aggregate. A
// pass is pure with respect to its inputs: no I/O, no cross-call state,
// and identical input (including order) always yields identical clusters
// and scores. Data-quality problems (unknown severities, unparseable
// timestamps, unknown sensor types) degrade to documented defaults; there
// are no fatal error states.
package analysis

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdant/canopy/internal/analysis/correlation"
	"github.com/verdant/canopy/internal/logging"
)

// Engine runs analysis passes over anomaly event batches. Engines are
// cheap; hosts that serve multiple deployments with different physics
// create one engine per table set.
type Engine struct {
	tables  Tables
	logger  *logging.Logger
	metrics *Metrics

	// now is sampled exactly once per pass. Injectable for tests.
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall-clock source used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithMetrics attaches Prometheus metrics registered on the given registerer.
func WithMetrics(reg prometheus.Registerer, instanceName string) Option {
	return func(e *Engine) {
		e.metrics = NewMetrics(reg, instanceName)
	}
}

// WithSharedMetrics attaches an already-registered metrics set. Hosts that
// rebuild engines on table reload use this so collectors register only once.
func WithSharedMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine with the given tables. Invalid tables are an
// error; callers that want the stock behavior pass DefaultTables().
func NewEngine(tables Tables, opts ...Option) (*Engine, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	tables.buildPairIndex()

	e := &Engine{
		tables: tables,
		logger: logging.GetLogger("analysis.engine"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Tables returns a copy of the engine's tables. Engines are immutable;
// hosts swap entire engines on table reload so a pass stays internally
// consistent.
func (e *Engine) Tables() Tables {
	return e.tables
}

// Relationships returns the expected-association table used to interpret
// correlation results against this engine's physics.
func (e *Engine) Relationships() correlation.Relationships {
	return e.tables.Relationships
}

// Analyze runs one full analysis pass. The context is accepted for
// interface symmetry with the serving layer; the pass itself never blocks.
// Empty input produces an empty, structurally valid report - the healthy
// terminal state, not an error.
func (e *Engine) Analyze(ctx context.Context, records []AnomalyRecord) Report {
	start := time.Now()
	now := e.now()

	scored := e.tables.scoreAll(records, now)
	clusters := e.tables.buildClusters(scored)

	for i := range clusters {
		clusters[i].RootCause = e.tables.inferRootCause(clusters[i])
		clusters[i].Recommendations = e.tables.recommend(clusters[i])
	}

	report := Report{
		Clusters:    clusters,
		Summary:     summarize(records, clusters),
		GeneratedAt: now,
	}

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.RunsTotal.Inc()
		e.metrics.AnomaliesTotal.Add(float64(len(records)))
		e.metrics.ClustersLastRun.Set(float64(len(clusters)))
		e.metrics.RunDuration.Observe(elapsed.Seconds())
	}

	e.logger.WithContext(ctx).DebugWithFields("analysis pass complete",
		logging.Field("anomalies", len(records)),
		logging.Field("clusters", len(clusters)),
		logging.Field("duration_ms", elapsed.Milliseconds()),
	)

	return report
}

// summarize aggregates counts for display and alerting consumers.
func summarize(records []AnomalyRecord, clusters []Cluster) Summary {
	summary := Summary{
		TotalAnomalies: len(records),
		TotalClusters:  len(clusters),
		ByPriority:     make(map[Priority]int),
		BySensor:       make(map[string]int),
	}

	for _, cluster := range clusters {
		summary.ByPriority[cluster.Primary.Priority]++
		summary.BySensor[cluster.Primary.SensorType]++
		for _, rel := range cluster.Related {
			summary.ByPriority[rel.Priority]++
			summary.BySensor[rel.SensorType]++
		}
	}

	return summary
}
