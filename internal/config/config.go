package config

// Config holds all configuration for the application
type Config struct {
	// APIPort is the port the API server listens on
	APIPort int

	// LogLevel is the logging level (debug, info, warn, error)
	LogLevel string

	// TablesPath is the path to the YAML file with analysis table overrides.
	// Empty means the built-in greenhouse defaults are used.
	TablesPath string

	// WatchTables enables hot-reloading of the tables file
	WatchTables bool

	// ReportCacheSize is the number of full reports kept in the LRU cache
	ReportCacheSize int

	// MaxConcurrentRequests is the maximum number of concurrent API requests
	MaxConcurrentRequests int

	// TracingEnabled indicates whether OpenTelemetry tracing is enabled
	TracingEnabled bool

	// TracingEndpoint is the OTLP gRPC endpoint for trace export
	TracingEndpoint string

	// TracingTLSCAPath is the path to the CA certificate for TLS verification
	TracingTLSCAPath string
}

// LoadConfig creates a Config with the provided values
func LoadConfig(apiPort int, logLevel, tablesPath string, watchTables bool, reportCacheSize, maxConcurrentRequests int, tracingEnabled bool, tracingEndpoint, tracingTLSCAPath string) *Config {
	return &Config{
		APIPort:               apiPort,
		LogLevel:              logLevel,
		TablesPath:            tablesPath,
		WatchTables:           watchTables,
		ReportCacheSize:       reportCacheSize,
		MaxConcurrentRequests: maxConcurrentRequests,
		TracingEnabled:        tracingEnabled,
		TracingEndpoint:       tracingEndpoint,
		TracingTLSCAPath:      tracingTLSCAPath,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("APIPort must be between 1 and 65535")
	}

	if c.ReportCacheSize < 1 {
		return NewConfigError("ReportCacheSize must be at least 1")
	}

	if c.MaxConcurrentRequests < 1 {
		return NewConfigError("MaxConcurrentRequests must be at least 1")
	}

	if c.WatchTables && c.TablesPath == "" {
		return NewConfigError("TablesPath must be set when table watching is enabled")
	}

	if c.TracingEnabled && c.TracingEndpoint == "" {
		return NewConfigError("TracingEndpoint must be set when tracing is enabled")
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}
