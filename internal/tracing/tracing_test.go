package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name: "disabled mode",
			cfg:  Config{Enabled: false},
		},
		{
			name: "enabled without endpoint",
			cfg:  Config{Enabled: true},

			expectError: true,
		},
		{
			name: "plaintext connection",
			cfg:  Config{Enabled: true, Endpoint: "localhost:4317"},
		},
		{
			name: "TLS with insecure skip verify",
			cfg:  Config{Enabled: true, Endpoint: "localhost:4317", TLSInsecure: true},
		},
		{
			name: "TLS with missing CA certificate",
			cfg:  Config{Enabled: true, Endpoint: "localhost:4317", TLSCAPath: "/nonexistent/ca.crt"},

			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Enabled, provider.IsEnabled())
		})
	}
}

func TestProviderDisabledLifecycle(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, provider.Start(ctx))
	assert.NoError(t, provider.Stop(ctx))
	assert.Equal(t, "Tracing Provider", provider.Name())
	assert.NotNil(t, provider.Tracer("test"))
}
