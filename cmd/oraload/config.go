package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oraload/oraload/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the oraload configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config.yaml",
	RunE: func(_ *cobra.Command, _ []string) error {
		path := filepath.Join(configPath, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, err := config.Load(configPath)
		if err != nil {
			return err
		}
		color.Green("configuration is valid")
		fmt.Printf("database:   %s@%s:%d/%s\n", settings.Database.User, settings.Database.Host, settings.Database.Port, settings.Database.DBName)
		fmt.Printf("batch size: %d, max retries: %d, auto commit: %v\n",
			settings.Import.BatchSize, settings.Import.MaxRetries, settings.Import.AutoCommit)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configValidateCmd)
}
