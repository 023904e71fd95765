package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verdant/canopy/internal/config"
)

var tablesOutPath string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage analysis table configuration",
}

var tablesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in greenhouse tables as an editable YAML file",
	Run:   runTablesInit,
}

var tablesValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a tables override file without starting the server",
	Args:  cobra.ExactArgs(1),
	Run:   runTablesValidate,
}

func init() {
	tablesInitCmd.Flags().StringVar(&tablesOutPath, "out", "tables.yaml",
		"Path to write the tables file to")
	tablesCmd.AddCommand(tablesInitCmd)
	tablesCmd.AddCommand(tablesValidateCmd)
}

func runTablesInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(tablesOutPath); err == nil {
		HandleError(fmt.Errorf("%s already exists", tablesOutPath), "Refusing to overwrite")
	}
	HandleError(config.WriteTablesFile(tablesOutPath, config.DefaultTablesFile()), "Failed to write tables file")
	fmt.Printf("Wrote default tables to %s\n", tablesOutPath)
}

func runTablesValidate(cmd *cobra.Command, args []string) {
	if _, err := config.ResolveTables(args[0]); err != nil {
		HandleError(err, "Invalid tables file")
	}
	fmt.Printf("%s is valid\n", args[0])
}
