package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/esmc/chaos/adapters/clock"
	"github.com/esmc/chaos/adapters/idgen"
	"github.com/esmc/chaos/adapters/memory"
	"github.com/esmc/chaos/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <component> <op> [json-param]",
	Short: "Dispatch one operation locally",
	Long: `Dispatch one operation against the generated fleet without a server.

The fleet is generated from the current configuration, the operation is
dispatched in process, and the result envelope is printed as JSON.

Examples:
  chaos invoke hash_0 op_0_0
  chaos invoke processor_9 op_9_3 '{"sample": true}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runInvoke,
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(cmd *cobra.Command, args []string) error {
	name, op := args[0], args[1]

	var param any
	if len(args) == 3 {
		if err := json.Unmarshal([]byte(args[2]), &param); err != nil {
			return fmt.Errorf("param must be a JSON value: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	registry := app.NewRegistryService(memory.NewComponentStore(), nil, logger)
	if err := registry.Rebuild(context.Background(), cfg.RegistrySpec()); err != nil {
		return fmt.Errorf("build fleet: %w", err)
	}

	invoker := app.NewInvokeService(
		registry, memory.NewInvocationStore(), clock.Real{}, idgen.UUID{}, nil, logger)

	result, err := invoker.Invoke(context.Background(), name, op, param)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
