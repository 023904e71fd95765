package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplain(t *testing.T) {
	rels := DefaultRelationships()

	t.Run("expected sign matches", func(t *testing.T) {
		text := rels.Explain("temperature", "humidity", -0.85)
		assert.Contains(t, text, "strong negative")
		assert.Contains(t, text, "matches expectations")
	})

	t.Run("pair order does not matter", func(t *testing.T) {
		assert.Equal(t,
			rels.Explain("temperature", "humidity", -0.85),
			rels.Explain("humidity", "temperature", -0.85))
	})

	t.Run("unexpected sign is flagged", func(t *testing.T) {
		text := rels.Explain("temperature", "humidity", 0.8)
		assert.Contains(t, text, "unusual for these metrics")
	})

	t.Run("weak relationship gets no verdict", func(t *testing.T) {
		text := rels.Explain("temperature", "humidity", -0.1)
		assert.Contains(t, text, "too weak to judge")
		assert.NotContains(t, text, "matches expectations")
	})

	t.Run("unknown pair falls back to generic text", func(t *testing.T) {
		text := rels.Explain("ph", "light_level", 0.9)
		assert.Contains(t, text, "strong positive")
		assert.Contains(t, text, "No established physical relationship")
	})

	t.Run("nil table uses the defaults", func(t *testing.T) {
		var none Relationships
		assert.Equal(t,
			rels.Explain("temperature", "humidity", -0.85),
			none.Explain("temperature", "humidity", -0.85))
	})
}

func TestExplain_DeploymentOverride(t *testing.T) {
	// A CO2-enriched room injects while lights are on, flipping the
	// expected co2/light_level sign.
	rels := Relationships{
		{
			MetricA:      "co2",
			MetricB:      "light_level",
			ExpectedSign: DirectionPositive,
			Text:         "Enrichment injects CO2 during the light period.",
		},
	}

	text := rels.Explain("co2", "light_level", 0.9)
	assert.Contains(t, text, "Enrichment injects CO2")
	assert.Contains(t, text, "matches expectations")

	// Pairs absent from the override get the generic fallback, not the
	// built-in defaults.
	text = rels.Explain("temperature", "humidity", -0.9)
	assert.Contains(t, text, "No established physical relationship")
}
