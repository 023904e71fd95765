package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/apiserver"
	"github.com/verdant/canopy/internal/config"
	"github.com/verdant/canopy/internal/lifecycle"
	"github.com/verdant/canopy/internal/logging"
	"github.com/verdant/canopy/internal/tracing"
)

var (
	apiPort               int
	tablesConfigPath      string
	watchTables           bool
	reportCacheSize       int
	maxConcurrentRequests int
	tracingEnabled        bool
	tracingEndpoint       string
	tracingTLSCAPath      string
	tracingTLSInsecure    bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Canopy analysis server",
	Long: `Start the Canopy server which accepts anomaly batches and sensor
histories over HTTP and serves prioritized incident reports, root cause
inference, and correlation analysis.`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&apiPort, "api-port", 8080, "Port the API server listens on")
	serverCmd.Flags().StringVar(&tablesConfigPath, "tables-config", "",
		"Path to the YAML file with analysis table overrides (empty: built-in greenhouse defaults)")
	serverCmd.Flags().BoolVar(&watchTables, "watch-tables", false,
		"Watch the tables file and hot-reload the analysis engine on changes")
	serverCmd.Flags().IntVar(&reportCacheSize, "report-cache-size", 128,
		"Number of full reports kept in the response cache")
	serverCmd.Flags().IntVar(&maxConcurrentRequests, "max-concurrent-requests", 100,
		"Maximum number of concurrent API requests")
	serverCmd.Flags().BoolVar(&tracingEnabled, "tracing-enabled", false, "Enable OpenTelemetry tracing (default: false)")
	serverCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "OTLP gRPC endpoint for traces (e.g., otel-collector:4317)")
	serverCmd.Flags().StringVar(&tracingTLSCAPath, "tracing-tls-ca", "", "Path to CA certificate for TLS verification (optional)")
	serverCmd.Flags().BoolVar(&tracingTLSInsecure, "tracing-tls-insecure", false, "Skip TLS certificate verification (insecure, use only for testing)")
}

// watcherComponent adapts the tables watcher to the lifecycle interface.
type watcherComponent struct {
	watcher *config.TablesWatcher
}

func (w *watcherComponent) Start(ctx context.Context) error { return w.watcher.Start(ctx) }
func (w *watcherComponent) Stop(ctx context.Context) error  { return w.watcher.Stop() }
func (w *watcherComponent) Name() string                    { return "Tables Watcher" }

func runServer(cmd *cobra.Command, args []string) {
	// Setup logging
	if err := setupLog(logLevelFlags); err != nil {
		HandleError(err, "Failed to setup logging")
	}
	logger := logging.GetLogger("server")

	defaultLevel, _, _ := parseLogLevelFlags(logLevelFlags)
	cfg := config.LoadConfig(
		apiPort,
		defaultLevel,
		tablesConfigPath,
		watchTables,
		reportCacheSize,
		maxConcurrentRequests,
		tracingEnabled,
		tracingEndpoint,
		tracingTLSCAPath,
	)
	if err := cfg.Validate(); err != nil {
		HandleError(err, "Configuration error")
	}

	logger.Info("Starting Canopy v%s", Version)
	logger.Debug("Configuration loaded: APIPort=%d TablesPath=%q WatchTables=%v",
		cfg.APIPort, cfg.TablesPath, cfg.WatchTables)

	manager := lifecycle.NewManager()

	// Scaffold a tables file on first run so operators have something to edit
	if cfg.TablesPath != "" {
		if _, err := os.Stat(cfg.TablesPath); os.IsNotExist(err) {
			logger.Info("Creating default tables config file: %s", cfg.TablesPath)
			if err := config.WriteTablesFile(cfg.TablesPath, config.DefaultTablesFile()); err != nil {
				HandleError(err, "Tables config creation error")
			}
		}
	}

	// Initialize tracing provider
	tracingProvider, err := tracing.NewProvider(tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		TLSCAPath:   cfg.TracingTLSCAPath,
		TLSInsecure: tracingTLSInsecure,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing (continuing without tracing): %v", err)
		tracingProvider = nil
	}

	var tracerSource apiserver.TracerSource
	if tracingProvider != nil {
		if err := manager.Register(tracingProvider); err != nil {
			HandleError(err, "Tracing registration error")
		}
		tracerSource = tracingProvider
	}

	// Engine metrics register once; rebuilt engines share them across reloads
	registry := prometheus.NewRegistry()
	engineMetrics := analysis.NewMetrics(registry, "server")

	holder := api.NewEngineHolder(nil)
	rebuildEngine := func(tables analysis.Tables) error {
		engine, err := analysis.NewEngine(tables, analysis.WithSharedMetrics(engineMetrics))
		if err != nil {
			return err
		}
		holder.Swap(engine)
		logger.Info("Analysis engine installed (%d correlated pairs, %d root cause signatures)",
			len(tables.CorrelatedPairs), len(tables.RootCauseSignatures))
		return nil
	}

	if cfg.WatchTables {
		watcher, err := config.NewTablesWatcher(config.TablesWatcherConfig{FilePath: cfg.TablesPath}, rebuildEngine)
		if err != nil {
			HandleError(err, "Tables watcher error")
		}
		if err := manager.Register(&watcherComponent{watcher: watcher}); err != nil {
			HandleError(err, "Tables watcher registration error")
		}
	} else {
		tables, err := config.ResolveTables(cfg.TablesPath)
		if err != nil {
			HandleError(err, "Tables config error")
		}
		if err := rebuildEngine(tables); err != nil {
			HandleError(err, "Engine initialization error")
		}
	}

	server, err := apiserver.New(
		cfg.APIPort,
		holder,
		holder,
		registry,
		cfg.ReportCacheSize,
		cfg.MaxConcurrentRequests,
		tracerSource,
	)
	if err != nil {
		HandleError(err, "API server error")
	}
	if err := manager.Register(server); err != nil {
		HandleError(err, "API server registration error")
	}

	if err := manager.Start(context.Background()); err != nil {
		HandleError(err, "Startup error")
	}
	logger.Info("Canopy server ready on port %d", cfg.APIPort)

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received signal %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = manager.Stop(shutdownCtx)
}
