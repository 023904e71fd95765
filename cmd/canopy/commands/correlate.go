package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdant/canopy/internal/analysis/correlation"
	"github.com/verdant/canopy/internal/api"
	"github.com/verdant/canopy/internal/config"
)

var (
	correlateInputPath  string
	correlateTablesPath string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Compute a correlation matrix over sensor metric histories",
	Long: `Read metric histories ({"histories": {"temperature": [...], ...}}) from a
file or stdin, compute the Pearson correlation matrix, and print the result
with interpretation as JSON.`,
	Run: runCorrelate,
}

func init() {
	correlateCmd.Flags().StringVar(&correlateInputPath, "input", "-",
		"Path to the histories JSON file ('-' for stdin)")
	correlateCmd.Flags().StringVar(&correlateTablesPath, "tables-config", "",
		"Path to the YAML file with analysis table overrides (empty: built-in greenhouse defaults)")
}

func runCorrelate(cmd *cobra.Command, args []string) {
	if err := setupLog(logLevelFlags); err != nil {
		HandleError(err, "Failed to setup logging")
	}

	data, err := readInput(correlateInputPath)
	HandleError(err, "Failed to read input")

	var input struct {
		Histories map[string][]correlation.Reading `json:"histories"`
	}
	HandleError(json.Unmarshal(data, &input), "Failed to parse input")

	tables, err := config.ResolveTables(correlateTablesPath)
	HandleError(err, "Tables config error")

	result := correlation.Analyze(input.Histories, tables.Relationships)
	HandleError(api.WriteJSON(os.Stdout, result), "Failed to write result")
}
