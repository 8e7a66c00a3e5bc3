package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/decora/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "decora",
	Short: "decora — catalog ingestion service",
	Long: "decora rebuilds the normalized product catalog from the object-storage\n" +
		"bucket whose keys encode the style/room/product taxonomy.",
}

func init() {
	// Ingestion
	rootCmd.AddCommand(ingestCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
}
