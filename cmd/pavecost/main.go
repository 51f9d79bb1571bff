package main

import (
	"os"

	"github.com/katalvlaran/pavecost/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.EstimateCmd())
	rootCmd.AddCommand(commands.GraphCmd())
	rootCmd.AddCommand(commands.ExportCmd())
	rootCmd.AddCommand(commands.ChargesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
