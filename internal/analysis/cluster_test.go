package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkScored builds a scored anomaly directly so clustering can be tested in
// isolation from the scorer.
func mkScored(sensorType, sensorID string, score float64, observedAt time.Time) ScoredAnomaly {
	return ScoredAnomaly{
		AnomalyRecord: AnomalyRecord{
			SensorID:   sensorID,
			SensorType: sensorType,
			Type:       "spike",
		},
		PriorityScore: score,
		Priority:      tierForScore(score),
		observedAt:    observedAt,
	}
}

func TestBuildClusters_SameSensorMerges(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	// Same sensor, 2 minutes apart: related regardless of the window rule.
	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 90, now),
		mkScored("temperature", "t-1", 70, now.Add(-2*time.Minute)),
	}

	clusters := tables.buildClusters(scored)
	require.Len(t, clusters, 1)
	assert.Equal(t, 90.0, clusters[0].Primary.PriorityScore)
	require.Len(t, clusters[0].Related, 1)
	assert.Equal(t, 70.0, clusters[0].Related[0].PriorityScore)
	assert.NotEmpty(t, clusters[0].ID)
}

func TestBuildClusters_CorrelatedPairWithinWindow(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 90, now),
		mkScored("humidity", "h-1", 70, now.Add(-10*time.Minute)),
	}

	clusters := tables.buildClusters(scored)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Related, 1)
}

func TestBuildClusters_CorrelatedPairOutsideWindowStaysSeparate(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	// temperature/humidity are a correlated pair, but 20 minutes exceeds
	// the 15 minute window.
	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 90, now),
		mkScored("humidity", "h-1", 70, now.Add(-20*time.Minute)),
	}

	clusters := tables.buildClusters(scored)
	assert.Len(t, clusters, 2)
}

func TestBuildClusters_UncorrelatedTypesStaySeparate(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("co2", "c-1", 90, now),
		mkScored("soil_moisture", "m-1", 70, now.Add(-1*time.Minute)),
	}

	clusters := tables.buildClusters(scored)
	assert.Len(t, clusters, 2)
}

func TestBuildClusters_UnparseableTimestampNeverWindowRelated(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 90, now),
		mkScored("humidity", "h-1", 70, time.Time{}), // timestamp failed to parse
	}

	clusters := tables.buildClusters(scored)
	assert.Len(t, clusters, 2)
}

func TestBuildClusters_GreedyForwardOnly(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	// The vpd anomaly is within-window related to both temperature
	// primaries; the greedy pass attaches it to the higher-scored one.
	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 95, now),
		mkScored("temperature", "t-2", 85, now.Add(-1*time.Minute)),
		mkScored("vpd", "v-1", 60, now.Add(-5*time.Minute)),
	}

	clusters := tables.buildClusters(scored)
	require.Len(t, clusters, 2)
	assert.Equal(t, "t-1", clusters[0].Primary.SensorID)
	require.Len(t, clusters[0].Related, 1)
	assert.Equal(t, "v-1", clusters[0].Related[0].SensorID)
	assert.Empty(t, clusters[1].Related)
}

func TestBuildClusters_PartitionProperty(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 95, now),
		mkScored("humidity", "h-1", 88, now.Add(-3*time.Minute)),
		mkScored("temperature", "t-1", 80, now.Add(-40*time.Minute)),
		mkScored("co2", "c-1", 75, now.Add(-2*time.Minute)),
		mkScored("vpd", "v-1", 60, now.Add(-7*time.Minute)),
		mkScored("soil_moisture", "m-1", 55, now.Add(-90*time.Minute)),
		mkScored("light_level", "l-1", 40, now.Add(-4*time.Minute)),
	}

	clusters := tables.buildClusters(scored)

	total := 0
	for _, c := range clusters {
		total += c.Size()
	}
	assert.Equal(t, len(scored), total, "every anomaly appears exactly once")
}

func TestBuildClusters_EdgeCases(t *testing.T) {
	tables := DefaultTables()

	t.Run("empty input", func(t *testing.T) {
		clusters := tables.buildClusters(nil)
		assert.Empty(t, clusters)
	})

	t.Run("single anomaly", func(t *testing.T) {
		scored := []ScoredAnomaly{
			mkScored("temperature", "t-1", 90, time.Now()),
		}
		clusters := tables.buildClusters(scored)
		require.Len(t, clusters, 1)
		assert.Empty(t, clusters[0].Related)
	})
}

func TestBuildClusters_IDsAreDeterministic(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 95, now),
		mkScored("co2", "c-1", 75, now.Add(-2*time.Minute)),
	}

	first := tables.buildClusters(scored)
	second := tables.buildClusters(scored)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestBuildClusters_InputNotMutated(t *testing.T) {
	tables := DefaultTables()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	scored := []ScoredAnomaly{
		mkScored("temperature", "t-1", 95, now),
		mkScored("humidity", "h-1", 88, now.Add(-3*time.Minute)),
	}
	before := make([]ScoredAnomaly, len(scored))
	copy(before, scored)

	_ = tables.buildClusters(scored)
	assert.Equal(t, before, scored)
}
