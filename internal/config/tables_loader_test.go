package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/analysis/correlation"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTablesFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeTempYAML(t, `
schema_version: v1
cluster_window_minutes: 20
critical_sensors:
  - temperature
  - co2
root_cause_signatures:
  co2_spike:
    - "Burner misfire"
    - "Enrichment valve stuck open"
type_recommendations:
  offline:
    - action: check_connection
      label: Check connection
      icon: wifi
relationships:
  - metric_a: co2
    metric_b: light_level
    expected: positive
    text: Enrichment injects CO2 during the light period.
max_recommendations: 2
`)

		tf, err := LoadTablesFile(path)
		require.NoError(t, err)

		assert.Equal(t, "v1", tf.SchemaVersion)
		assert.Equal(t, 20, tf.ClusterWindowMinutes)
		assert.Equal(t, []string{"temperature", "co2"}, tf.CriticalSensors)
		assert.Equal(t, []string{"Burner misfire", "Enrichment valve stuck open"},
			tf.RootCauseSignatures["co2_spike"])
		require.NotNil(t, tf.MaxRecommendations)
		assert.Equal(t, 2, *tf.MaxRecommendations)

		recs := tf.TypeRecommendations["offline"]
		require.Len(t, recs, 1)
		assert.Equal(t, RecommendationSpec{Action: "check_connection", Label: "Check connection", Icon: "wifi"}, recs[0])

		require.Len(t, tf.Relationships, 1)
		assert.Equal(t, correlation.Relationship{
			MetricA:      "co2",
			MetricB:      "light_level",
			ExpectedSign: correlation.DirectionPositive,
			Text:         "Enrichment injects CO2 during the light period.",
		}, tf.Relationships[0])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTablesFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load tables config")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempYAML(t, "schema_version: [unclosed")
		_, err := LoadTablesFile(path)
		require.Error(t, err)
	})

	t.Run("schema validation failure", func(t *testing.T) {
		path := writeTempYAML(t, "schema_version: v9")
		_, err := LoadTablesFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema_version")
	})
}

func TestResolveTables(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		tables, err := ResolveTables("")
		require.NoError(t, err)
		assert.Equal(t, analysis.DefaultTables().ClusterWindow, tables.ClusterWindow)
	})

	t.Run("overrides merged over defaults", func(t *testing.T) {
		path := writeTempYAML(t, `
schema_version: v1
cluster_window_minutes: 45
`)
		tables, err := ResolveTables(path)
		require.NoError(t, err)

		assert.Equal(t, 45*time.Minute, tables.ClusterWindow)
		// Untouched sections keep their defaults.
		assert.Equal(t, analysis.DefaultTables().CriticalSensors, tables.CriticalSensors)
	})

	t.Run("load failure propagates", func(t *testing.T) {
		_, err := ResolveTables(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}
