package config

import (
	"fmt"
	"time"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/analysis/correlation"
)

// TablesFile represents the top-level structure of the analysis tables
// override file. Every section is optional; sections left out keep the
// built-in greenhouse defaults, sections present replace their default
// table wholesale.
//
// Example YAML structure:
//
//	schema_version: v1
//	cluster_window_minutes: 30
//	critical_sensors: [temperature, co2]
//	root_cause_signatures:
//	  co2_spike:
//	    - "Burner misfire"
//	type_recommendations:
//	  offline:
//	    - action: check_connection
//	      label: Check connection
//	      icon: wifi
type TablesFile struct {
	// SchemaVersion is the explicit config schema version (e.g., "v1")
	SchemaVersion string `yaml:"schema_version"`

	// SeverityScores maps detector severity names to base priority scores
	SeverityScores map[string]float64 `yaml:"severity_scores,omitempty"`

	// CriticalSensors lists sensor types earning the criticality bonus
	CriticalSensors []string `yaml:"critical_sensors,omitempty"`

	// ClusterWindowMinutes is the clustering time window in minutes
	ClusterWindowMinutes int `yaml:"cluster_window_minutes,omitempty"`

	// CorrelatedPairs lists physically related sensor type pairs
	CorrelatedPairs []analysis.MetricPair `yaml:"correlated_pairs,omitempty"`

	// Relationships maps metric pairs to their expected correlation sign
	// and explanation text
	Relationships correlation.Relationships `yaml:"relationships,omitempty"`

	// RootCauseSignatures maps "<sensor_type>_<anomaly_type>" to candidate
	// causes ordered by likelihood
	RootCauseSignatures map[string][]string `yaml:"root_cause_signatures,omitempty"`

	// SensorLabels maps sensor type keys to display labels
	SensorLabels map[string]string `yaml:"sensor_labels,omitempty"`

	// TypeRecommendations maps anomaly types to remediation suggestions
	TypeRecommendations map[string][]RecommendationSpec `yaml:"type_recommendations,omitempty"`

	// SensorRecommendations maps sensor types to remediation suggestions
	SensorRecommendations map[string][]RecommendationSpec `yaml:"sensor_recommendations,omitempty"`

	// MaxRecommendations caps the suggestions per cluster. Nil keeps the
	// default; an explicit 0 disables recommendations.
	MaxRecommendations *int `yaml:"max_recommendations,omitempty"`
}

// RecommendationSpec is the YAML shape of a single remediation suggestion.
type RecommendationSpec struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label"`
	Icon   string `yaml:"icon"`
}

// knownSeverities guards against typos in severity_scores keys.
var knownSeverities = map[string]bool{
	string(analysis.SeverityCritical): true,
	string(analysis.SeverityHigh):     true,
	string(analysis.SeverityMedium):   true,
	string(analysis.SeverityLow):      true,
}

// Validate checks that the TablesFile is valid.
// Returns descriptive errors for validation failures.
func (f *TablesFile) Validate() error {
	if f.SchemaVersion != "v1" {
		return NewConfigError(fmt.Sprintf(
			"unsupported schema_version: %q (expected \"v1\")",
			f.SchemaVersion,
		))
	}

	if f.SeverityScores != nil {
		for name := range f.SeverityScores {
			if !knownSeverities[name] {
				return NewConfigError(fmt.Sprintf(
					"severity_scores: unknown severity %q", name,
				))
			}
		}
		if _, ok := f.SeverityScores[string(analysis.SeverityMedium)]; !ok {
			return NewConfigError("severity_scores must define the medium default")
		}
	}

	if f.ClusterWindowMinutes < 0 {
		return NewConfigError("cluster_window_minutes must not be negative")
	}

	for i, pair := range f.CorrelatedPairs {
		if pair.A == "" || pair.B == "" {
			return NewConfigError(fmt.Sprintf(
				"correlated_pairs[%d]: both metrics must be named", i,
			))
		}
	}

	for i, rel := range f.Relationships {
		if rel.MetricA == "" || rel.MetricB == "" {
			return NewConfigError(fmt.Sprintf(
				"relationships[%d]: both metrics must be named", i,
			))
		}
		switch rel.ExpectedSign {
		case correlation.DirectionPositive, correlation.DirectionNegative, correlation.DirectionNone:
		default:
			return NewConfigError(fmt.Sprintf(
				"relationships[%d]: expected must be positive, negative, or none (got %q)",
				i, rel.ExpectedSign,
			))
		}
	}

	for anomalyType, recs := range f.TypeRecommendations {
		if err := validateRecs("type_recommendations", anomalyType, recs); err != nil {
			return err
		}
	}
	for sensorType, recs := range f.SensorRecommendations {
		if err := validateRecs("sensor_recommendations", sensorType, recs); err != nil {
			return err
		}
	}

	if f.MaxRecommendations != nil && *f.MaxRecommendations < 0 {
		return NewConfigError("max_recommendations must not be negative")
	}

	return nil
}

func validateRecs(section, key string, recs []RecommendationSpec) error {
	for i, rec := range recs {
		if rec.Action == "" {
			return NewConfigError(fmt.Sprintf(
				"%s[%s][%d]: action is required", section, key, i,
			))
		}
	}
	return nil
}

// Merge applies the file's overrides on top of the given base tables and
// returns the result. The base is not modified.
func (f *TablesFile) Merge(base analysis.Tables) analysis.Tables {
	merged := base

	if f.SeverityScores != nil {
		scores := make(map[analysis.Severity]float64, len(f.SeverityScores))
		for name, score := range f.SeverityScores {
			scores[analysis.Severity(name)] = score
		}
		merged.SeverityScores = scores
	}
	if f.CriticalSensors != nil {
		merged.CriticalSensors = f.CriticalSensors
	}
	if f.ClusterWindowMinutes > 0 {
		merged.ClusterWindow = time.Duration(f.ClusterWindowMinutes) * time.Minute
	}
	if f.CorrelatedPairs != nil {
		merged.CorrelatedPairs = f.CorrelatedPairs
	}
	if f.Relationships != nil {
		merged.Relationships = f.Relationships
	}
	if f.RootCauseSignatures != nil {
		merged.RootCauseSignatures = f.RootCauseSignatures
	}
	if f.SensorLabels != nil {
		merged.SensorLabels = f.SensorLabels
	}
	if f.TypeRecommendations != nil {
		merged.TypeRecommendations = convertRecs(f.TypeRecommendations)
	}
	if f.SensorRecommendations != nil {
		merged.SensorRecommendations = convertRecs(f.SensorRecommendations)
	}
	if f.MaxRecommendations != nil {
		merged.MaxRecommendations = *f.MaxRecommendations
	}

	return merged
}

func convertRecs(specs map[string][]RecommendationSpec) map[string][]analysis.Recommendation {
	out := make(map[string][]analysis.Recommendation, len(specs))
	for key, recs := range specs {
		converted := make([]analysis.Recommendation, 0, len(recs))
		for _, rec := range recs {
			converted = append(converted, analysis.Recommendation{
				Action: rec.Action,
				Label:  rec.Label,
				Icon:   rec.Icon,
			})
		}
		out[key] = converted
	}
	return out
}
