package analysis

import (
	"strings"
	"time"

	"github.com/verdant/canopy/internal/analysis/correlation"
)

// MetricPair is an unordered pair of sensor metric types.
type MetricPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// Key returns an order-independent lookup key for the pair.
func (p MetricPair) Key() string {
	a, b := p.A, p.B
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Tables holds every lookup table the engine consults. Tables are immutable
// once handed to an engine; deployments with different sensor physics (e.g.
// different greenhouse types) run separate engines with their own tables.
type Tables struct {
	// SeverityScores maps detector severity to the base priority score.
	SeverityScores map[Severity]float64 `yaml:"severity_scores"`

	// CriticalSensors are sensor types that earn the criticality bonus.
	CriticalSensors []string `yaml:"critical_sensors"`

	// ClusterWindow is the max timestamp distance for correlated-pair
	// clustering. Same-sensor anomalies cluster regardless of the window.
	ClusterWindow time.Duration `yaml:"cluster_window"`

	// CorrelatedPairs lists sensor-type pairs known to be physically
	// related. Used both for clustering and correlation interpretation.
	CorrelatedPairs []MetricPair `yaml:"correlated_pairs"`

	// Relationships maps metric pairs to their physically expected
	// correlation sign and explanation text.
	Relationships correlation.Relationships `yaml:"relationships"`

	// RootCauseSignatures maps "<sensor_type>_<anomaly_type>" to candidate
	// causes ordered by likelihood. The first candidate is reported.
	RootCauseSignatures map[string][]string `yaml:"root_cause_signatures"`

	// SensorLabels maps sensor type keys to display labels.
	SensorLabels map[string]string `yaml:"sensor_labels"`

	// TypeRecommendations maps anomaly types to remediation suggestions.
	TypeRecommendations map[string][]Recommendation `yaml:"type_recommendations"`

	// SensorRecommendations maps sensor types to remediation suggestions,
	// appended after type-specific ones.
	SensorRecommendations map[string][]Recommendation `yaml:"sensor_recommendations"`

	// MaxRecommendations caps the suggestions per cluster.
	MaxRecommendations int `yaml:"max_recommendations"`

	// pairSet is the lazily-built lookup index over CorrelatedPairs.
	pairSet map[string]bool
}

// DefaultTables returns the built-in tables for a standard greenhouse
// deployment. Callers may override individual tables before constructing
// an engine, or load replacements from YAML via the config package.
func DefaultTables() Tables {
	return Tables{
		SeverityScores: map[Severity]float64{
			SeverityCritical: 100,
			SeverityHigh:     75,
			SeverityMedium:   50,
			SeverityLow:      25,
		},
		CriticalSensors: []string{"temperature", "humidity", "soil_moisture"},
		ClusterWindow:   15 * time.Minute,
		CorrelatedPairs: []MetricPair{
			{A: "temperature", B: "humidity"},
			{A: "temperature", B: "vpd"},
			{A: "humidity", B: "vpd"},
			{A: "light_level", B: "temperature"},
		},
		Relationships: correlation.DefaultRelationships(),
		RootCauseSignatures: map[string][]string{
			"temperature_spike": {
				"HVAC or heater malfunction",
				"Direct sunlight on the sensor",
				"Ventilation failure",
			},
			"temperature_drop": {
				"Heating failure",
				"Vent or door left open",
				"HVAC overcooling",
			},
			"humidity_spike": {
				"Irrigation overshoot",
				"Ventilation failure",
				"Recent watering cycle",
			},
			"humidity_drop": {
				"Dehumidifier running continuously",
				"Heater drying the air",
				"Intake drawing dry outside air",
			},
			"co2_spike": {
				"CO2 enrichment valve stuck open",
				"Ventilation failure",
			},
			"co2_drop": {
				"CO2 supply depleted",
				"Excess ventilation",
			},
			"soil_moisture_drop": {
				"Irrigation failure or clogged emitter",
				"Pump failure",
				"Zone valve stuck closed",
			},
			"soil_moisture_spike": {
				"Overwatering",
				"Zone valve stuck open",
				"Drainage blockage",
			},
			"light_level_drop": {
				"Lamp or ballast failure",
				"Shade screen stuck closed",
				"Light schedule misconfiguration",
			},
			"vpd_spike": {
				"Hot dry air from heating without humidification",
			},
			"vpd_drop": {
				"High humidity suppressing transpiration",
			},
		},
		SensorLabels: map[string]string{
			"temperature":   "Temperature",
			"humidity":      "Humidity",
			"soil_moisture": "Soil moisture",
			"co2":           "CO2",
			"light_level":   "Light level",
			"vpd":           "VPD",
			"ph":            "pH",
			"ec":            "EC",
		},
		TypeRecommendations: map[string][]Recommendation{
			"threshold_breach": {
				{Action: "adjust_threshold", Label: "Adjust threshold", Icon: "tune"},
				{Action: "view_history", Label: "View history", Icon: "chart"},
			},
			"offline": {
				{Action: "check_connection", Label: "Check connection", Icon: "wifi"},
				{Action: "restart_sensor", Label: "Restart sensor", Icon: "restart"},
			},
			"spike": {
				{Action: "investigate", Label: "Investigate", Icon: "search"},
			},
			"drop": {
				{Action: "investigate", Label: "Investigate", Icon: "search"},
			},
		},
		SensorRecommendations: map[string][]Recommendation{
			"temperature":   {{Action: "check_hvac", Label: "Check HVAC", Icon: "hvac"}},
			"soil_moisture": {{Action: "check_irrigation", Label: "Check irrigation", Icon: "water"}},
		},
		MaxRecommendations: 3,
	}
}

// severityScore returns the base score for a severity, defaulting unknown
// or missing severities to the medium score.
func (t *Tables) severityScore(sev Severity) float64 {
	if score, ok := t.SeverityScores[sev]; ok {
		return score
	}
	return t.SeverityScores[SeverityMedium]
}

// isCriticalSensor reports whether the sensor type earns the criticality bonus.
func (t *Tables) isCriticalSensor(sensorType string) bool {
	for _, s := range t.CriticalSensors {
		if s == sensorType {
			return true
		}
	}
	return false
}

// buildPairIndex precomputes the correlated-pair lookup. Called once at
// engine construction so concurrent Analyze calls never mutate the tables.
func (t *Tables) buildPairIndex() {
	t.pairSet = make(map[string]bool, len(t.CorrelatedPairs))
	for _, p := range t.CorrelatedPairs {
		t.pairSet[p.Key()] = true
	}
}

// isCorrelatedPair reports whether two sensor types form a known related pair.
func (t *Tables) isCorrelatedPair(a, b string) bool {
	if t.pairSet != nil {
		return t.pairSet[MetricPair{A: a, B: b}.Key()]
	}
	key := MetricPair{A: a, B: b}.Key()
	for _, p := range t.CorrelatedPairs {
		if p.Key() == key {
			return true
		}
	}
	return false
}

// SensorLabel returns the display label for a sensor type, falling back to
// a prettified version of the raw key for unknown types.
func (t *Tables) SensorLabel(sensorType string) string {
	if label, ok := t.SensorLabels[sensorType]; ok {
		return label
	}
	if sensorType == "" {
		return "Sensor"
	}
	label := strings.ReplaceAll(sensorType, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// Validate checks the tables for structural problems.
func (t *Tables) Validate() error {
	if len(t.SeverityScores) == 0 {
		return NewTableError("severity_scores must not be empty")
	}
	if _, ok := t.SeverityScores[SeverityMedium]; !ok {
		return NewTableError("severity_scores must define the medium default")
	}
	if t.ClusterWindow <= 0 {
		return NewTableError("cluster_window must be positive")
	}
	if t.MaxRecommendations < 0 {
		return NewTableError("max_recommendations must not be negative")
	}
	for _, p := range t.CorrelatedPairs {
		if p.A == "" || p.B == "" {
			return NewTableError("correlated_pairs entries must name both metrics")
		}
	}
	for _, rel := range t.Relationships {
		if rel.MetricA == "" || rel.MetricB == "" {
			return NewTableError("relationships entries must name both metrics")
		}
		switch rel.ExpectedSign {
		case correlation.DirectionPositive, correlation.DirectionNegative, correlation.DirectionNone:
		default:
			return NewTableError("relationships expected sign must be positive, negative, or none")
		}
	}
	return nil
}

// TableError reports an invalid table configuration.
type TableError struct {
	message string
}

// NewTableError creates a new table configuration error.
func NewTableError(message string) *TableError {
	return &TableError{message: message}
}

// Error returns the error message.
func (e *TableError) Error() string {
	return e.message
}
