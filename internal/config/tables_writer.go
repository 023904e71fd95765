package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verdant/canopy/internal/analysis"
)

// DefaultTablesFile returns a complete TablesFile snapshot of the built-in
// greenhouse tables. Used to scaffold a deployment-specific override file
// that operators can then edit down to the sections they want to change.
func DefaultTablesFile() *TablesFile {
	defaults := analysis.DefaultTables()

	scores := make(map[string]float64, len(defaults.SeverityScores))
	for sev, score := range defaults.SeverityScores {
		scores[string(sev)] = score
	}

	maxRecs := defaults.MaxRecommendations
	return &TablesFile{
		SchemaVersion:         "v1",
		SeverityScores:        scores,
		CriticalSensors:       defaults.CriticalSensors,
		ClusterWindowMinutes:  int(defaults.ClusterWindow / time.Minute),
		CorrelatedPairs:       defaults.CorrelatedPairs,
		Relationships:         defaults.Relationships,
		RootCauseSignatures:   defaults.RootCauseSignatures,
		SensorLabels:          defaults.SensorLabels,
		TypeRecommendations:   specRecs(defaults.TypeRecommendations),
		SensorRecommendations: specRecs(defaults.SensorRecommendations),
		MaxRecommendations:    &maxRecs,
	}
}

func specRecs(recs map[string][]analysis.Recommendation) map[string][]RecommendationSpec {
	out := make(map[string][]RecommendationSpec, len(recs))
	for key, list := range recs {
		specs := make([]RecommendationSpec, 0, len(list))
		for _, rec := range list {
			specs = append(specs, RecommendationSpec{
				Action: rec.Action,
				Label:  rec.Label,
				Icon:   rec.Icon,
			})
		}
		out[key] = specs
	}
	return out
}

// WriteTablesFile atomically writes a TablesFile to disk using a
// temp-file-then-rename pattern to prevent corruption on crashes.
//
// If any step fails, the temp file is cleaned up and the original file
// remains untouched, so readers never see partial writes.
func WriteTablesFile(path string, tf *TablesFile) error {
	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to marshal tables config: %w", err)
	}

	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tables.*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if _, err := os.Stat(tmpPath); err == nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename from temp to target (POSIX guarantees atomicity)
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %q: %w", path, err)
	}

	return nil
}
