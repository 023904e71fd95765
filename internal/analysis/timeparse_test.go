package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		ts, ok := parseTimestamp("2026-08-24T10:30:00Z")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC), ts.UTC())
	})

	t.Run("rfc3339 with offset and nanos", func(t *testing.T) {
		ts, ok := parseTimestamp("2026-08-24T10:30:00.123456789+02:00")
		require.True(t, ok)
		assert.Equal(t, 123456789, ts.Nanosecond())
	})

	t.Run("lenient fallback handles bare dates", func(t *testing.T) {
		ts, ok := parseTimestamp("2026-08-24 10:30:00")
		require.True(t, ok)
		assert.Equal(t, 2026, ts.Year())
	})

	t.Run("empty is unusable", func(t *testing.T) {
		_, ok := parseTimestamp("")
		assert.False(t, ok)
	})

	t.Run("garbage is unusable, not fatal", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_, ok := parseTimestamp("!!definitely-not-a-date!!")
			assert.False(t, ok)
		})
	})
}
