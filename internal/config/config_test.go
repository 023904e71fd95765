package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return LoadConfig(8080, "info", "", false, 128, 32, false, "", "")
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.APIPort = 0 },
			wantErr: "APIPort",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.APIPort = 70000 },
			wantErr: "APIPort",
		},
		{
			name:    "cache size zero",
			mutate:  func(c *Config) { c.ReportCacheSize = 0 },
			wantErr: "ReportCacheSize",
		},
		{
			name:    "concurrency zero",
			mutate:  func(c *Config) { c.MaxConcurrentRequests = 0 },
			wantErr: "MaxConcurrentRequests",
		},
		{
			name:    "watching without a path",
			mutate:  func(c *Config) { c.WatchTables = true },
			wantErr: "TablesPath",
		},
		{
			name:    "tracing without endpoint",
			mutate:  func(c *Config) { c.TracingEnabled = true },
			wantErr: "TracingEndpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
