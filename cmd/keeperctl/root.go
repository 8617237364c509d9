package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keeperctl",
	Short: "Keeper secrets vault",
	Long:  `keeperctl manages the keeper server, its database and its administrators.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
