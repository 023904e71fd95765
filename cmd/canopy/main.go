package main

import (
	"os"

	"github.com/verdant/canopy/cmd/canopy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
