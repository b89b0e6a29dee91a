package main

import (
	"fmt"
	"os"

	"github.com/esmc/chaos/adapters/sqlite"
	"github.com/esmc/chaos/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chaos",
	Short: "Component host serving a generated fleet of uniform components",
	Long: `Chaos generates a deterministic fleet of components from configuration
and serves their operations over a JSON API. Every operation validates
its input and echoes it back inside a stamped envelope.

Quick start:
  chaos init        # Write a starter configuration file
  chaos serve       # Start the component host

Management:
  chaos components  # Inspect the generated fleet
  chaos invoke      # Dispatch one operation locally
  chaos keys        # Manage API keys`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "chaos.yaml", "config file path")
}

// loadConfig loads configuration from the file if present, else from
// CHAOS_* environment variables.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openDatabase opens and migrates the configured SQLite database.
func openDatabase() (*sqlite.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
