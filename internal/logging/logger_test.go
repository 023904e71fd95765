package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"Warn", WARN, false},
		{"error", ERROR, false},
		{"fatal", FATAL, false},
		{"verbose", -1, true},
		{"", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestPackageLogLevels(t *testing.T) {
	require.NoError(t, SetPackageLogLevels(map[string]string{
		"analysis.engine": "debug",
		"analysis.*":      "warn",
		"api":             "error",
	}))
	t.Cleanup(func() {
		_ = SetPackageLogLevels(map[string]string{})
	})

	// Exact match wins over the wildcard.
	assert.Equal(t, DEBUG, GetPackageLogLevel("analysis.engine"))
	// Wildcard applies to other children.
	assert.Equal(t, WARN, GetPackageLogLevel("analysis.correlation"))
	// Pattern does not match the bare prefix.
	assert.Equal(t, LogLevel(-1), GetPackageLogLevel("analysis"))
	assert.Equal(t, ERROR, GetPackageLogLevel("api"))
	assert.Equal(t, LogLevel(-1), GetPackageLogLevel("config"))
}

func TestSetPackageLogLevels_InvalidLevel(t *testing.T) {
	err := SetPackageLogLevels(map[string]string{"api": "chatty"})
	assert.Error(t, err)
}

func TestWithFieldImmutability(t *testing.T) {
	base := GetLogger("test")
	derived := base.WithField("run_id", "abc")

	assert.Empty(t, base.fields)
	assert.Equal(t, "abc", derived.fields["run_id"])

	second := derived.WithField("tenant", "greenhouse-7")
	assert.Len(t, derived.fields, 1)
	assert.Len(t, second.fields, 2)
}

func TestExtractContextFields(t *testing.T) {
	assert.Nil(t, extractContextFields(nil))
	assert.Nil(t, extractContextFields(context.Background()))

	ctx := context.WithValue(context.Background(), TraceIDKey(), "trace-123")
	ctx = context.WithValue(ctx, SpanIDKey(), "span-456")

	fields := extractContextFields(ctx)
	require.NotNil(t, fields)
	assert.Equal(t, "trace-123", fields["trace_id"])
	assert.Equal(t, "span-456", fields["span_id"])
}

func TestFatalUsesExitFunc(t *testing.T) {
	orig := exitFunc
	var code int
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() { exitFunc = orig })

	logger := GetLogger("test")
	logger.Fatal("boom")
	assert.Equal(t, 1, code)
}
