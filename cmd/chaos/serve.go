package main

import (
	"fmt"
	"os"

	"github.com/esmc/chaos/bootstrap"
	"github.com/spf13/cobra"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the component host server",
	Long: `Start the chaos component host.

The server will:
  - Load configuration from chaos.yaml (or --config)
  - Or load configuration from CHAOS_* environment variables
  - Generate the component fleet and persist the descriptors
  - Serve component operations over the JSON API

Environment variables (for container deployments):
  CHAOS_DATABASE_DSN              - Database path (default: chaos.db)
  CHAOS_SERVER_PORT               - Server port (default: 8080)
  CHAOS_REGISTRY_PER_KIND         - Components per kind (default: 4)
  CHAOS_REGISTRY_OPS_PER_COMPONENT - Operations per component (default: 20)
  CHAOS_AUTH_ENABLED              - Require API keys on mutating routes
  CHAOS_LOG_LEVEL                 - Log level: debug, info, warn, error

Examples:
  chaos serve
  chaos serve --config /etc/chaos/config.yaml
  chaos serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}
	if !hasConfigFile {
		fmt.Println("No config file found, running with defaults and CHAOS_* environment variables")
	}

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		HotReload:  hasConfigFile && hotReload,
	})
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
