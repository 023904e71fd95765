package analysis

import (
	"time"
)

// Severity is the impact level assigned by the upstream detector.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Priority is the discrete urgency tier derived from the priority score.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AnomalyRecord is a single severity-tagged anomaly event as delivered by
// the upstream detector. Fields beyond sensor identity are optional;
// missing values degrade to documented defaults instead of being rejected.
type AnomalyRecord struct {
	SensorID   string   `json:"sensor_id"`
	SensorType string   `json:"sensor_type"`
	Type       string   `json:"type"`
	Severity   Severity `json:"severity,omitempty"` // defaults to medium
	Value      *float64 `json:"value,omitempty"`
	Deviation  *float64 `json:"deviation,omitempty"` // percent
	Timestamp  string   `json:"timestamp"`           // RFC3339, loosely parsed
}

// ScoredAnomaly is an AnomalyRecord with its derived priority. Scores are
// recomputed on every analysis pass and never persisted.
type ScoredAnomaly struct {
	AnomalyRecord
	PriorityScore float64  `json:"priority_score"`
	Priority      Priority `json:"priority"`

	// observedAt is the parsed timestamp; zero when unparseable.
	observedAt time.Time
}

// ObservedAt returns the parsed event time, or the zero time if the
// record's timestamp could not be parsed.
func (s ScoredAnomaly) ObservedAt() time.Time {
	return s.observedAt
}

// Recommendation is a single remediation suggestion for a cluster.
type Recommendation struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
}

// Cluster groups anomalies that likely share a common cause. The primary
// is the highest-priority member; every input anomaly ends up in exactly
// one cluster, either as primary or inside Related.
type Cluster struct {
	ID              string           `json:"id"`
	Primary         ScoredAnomaly    `json:"primary"`
	Related         []ScoredAnomaly  `json:"related"`
	RootCause       string           `json:"root_cause"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Size returns the number of anomalies in the cluster including the primary.
func (c Cluster) Size() int {
	return 1 + len(c.Related)
}

// Summary aggregates a report for display and alerting consumers.
type Summary struct {
	TotalAnomalies int              `json:"total_anomalies"`
	TotalClusters  int              `json:"total_clusters"`
	ByPriority     map[Priority]int `json:"by_priority"`
	BySensor       map[string]int   `json:"by_sensor"`
}

// Report is the full output of one analysis pass.
type Report struct {
	Clusters    []Cluster `json:"clusters"`
	Summary     Summary   `json:"summary"`
	GeneratedAt time.Time `json:"generated_at"`
}
