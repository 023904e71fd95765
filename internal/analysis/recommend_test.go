package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actions(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Action
	}
	return out
}

func TestRecommend(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		name        string
		sensorType  string
		anomalyType string
		expected    []string
	}{
		{
			name:        "type rules before sensor rules, capped at three",
			sensorType:  "temperature",
			anomalyType: "threshold_breach",
			expected:    []string{"adjust_threshold", "view_history", "check_hvac"},
		},
		{
			name:        "offline soil moisture",
			sensorType:  "soil_moisture",
			anomalyType: "offline",
			expected:    []string{"check_connection", "restart_sensor", "check_irrigation"},
		},
		{
			name:        "spike with no sensor rule",
			sensorType:  "co2",
			anomalyType: "spike",
			expected:    []string{"investigate"},
		},
		{
			name:        "drop on temperature appends hvac check",
			sensorType:  "temperature",
			anomalyType: "drop",
			expected:    []string{"investigate", "check_hvac"},
		},
		{
			name:        "unknown type with sensor rule only",
			sensorType:  "soil_moisture",
			anomalyType: "flatline",
			expected:    []string{"check_irrigation"},
		},
		{
			name:        "nothing matches",
			sensorType:  "ph",
			anomalyType: "flatline",
			expected:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := tables.recommend(mkCluster(tt.sensorType, tt.anomalyType))
			assert.Equal(t, tt.expected, actions(recs))
			assert.LessOrEqual(t, len(recs), tables.MaxRecommendations)
		})
	}
}

func TestRecommend_EntriesCarryDisplayData(t *testing.T) {
	tables := DefaultTables()

	recs := tables.recommend(mkCluster("temperature", "threshold_breach"))
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.NotEmpty(t, rec.Action)
		assert.NotEmpty(t, rec.Label)
		assert.NotEmpty(t, rec.Icon)
	}
}
