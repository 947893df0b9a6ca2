// Command oraload loads tabular data files into an existing
// relational schema: it detects header rows, resolves table names
// from file names, reconciles against DDL documents and writes rows
// in batches.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "oraload",
	Short:        "Bulk-load CSV and spreadsheet files into database tables",
	SilenceUsage: true,
}

func main() {
	log.SetFlags(log.LstdFlags)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.AddCommand(importCmd, scanCmd, previewCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
