package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a commented starter configuration file.

The generated file describes the component fleet, the database location,
and the server settings. Edit it and run 'chaos serve'.

Examples:
  chaos init
  chaos init --config /etc/chaos/config.yaml --force`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

const starterConfig = `# chaos component host configuration

server:
  host: 0.0.0.0
  port: 8080

database:
  dsn: chaos.db
  # ephemeral: true keeps all stores in memory, nothing on disk
  ephemeral: false

registry:
  # kinds: [hash, path, processor, colonel, intelligence]
  per_kind: 4
  ops_per_component: 20
  version: 1.0.0
  wave_size: 5

auth:
  enabled: false

rate_limit:
  enabled: false
  limit: 600
  window_secs: 60
  burst_tokens: 0

mesh:
  stale_after: 5m

logging:
  level: info
  format: json

metrics:
  enabled: true
  path: /metrics
`

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgFile)
	}

	if err := os.WriteFile(cfgFile, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", cfgFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the registry section to shape the fleet")
	fmt.Println("  2. Run 'chaos serve'")
	return nil
}
