package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdant/canopy/internal/analysis"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/config"
)

var (
	analyzeInputPath  string
	analyzeTablesPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot incident analysis over an anomaly batch",
	Long: `Read a JSON anomaly batch ({"anomalies": [...]}) from a file or stdin,
run the analysis pipeline, and print the incident report as JSON.`,
	Run: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputPath, "input", "-",
		"Path to the anomaly batch JSON file ('-' for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeTablesPath, "tables-config", "",
		"Path to the YAML file with analysis table overrides (empty: built-in greenhouse defaults)")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	if err := setupLog(logLevelFlags); err != nil {
		HandleError(err, "Failed to setup logging")
	}

	data, err := readInput(analyzeInputPath)
	HandleError(err, "Failed to read input")

	var input struct {
		Anomalies []analysis.AnomalyRecord `json:"anomalies"`
	}
	HandleError(json.Unmarshal(data, &input), "Failed to parse input")

	tables, err := config.ResolveTables(analyzeTablesPath)
	HandleError(err, "Tables config error")

	engine, err := analysis.NewEngine(tables)
	HandleError(err, "Engine initialization error")

	report := engine.Analyze(context.Background(), input.Anomalies)
	HandleError(api.WriteJSON(os.Stdout, report), "Failed to write report")
}

// readInput reads the whole input file, with "-" meaning stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}
