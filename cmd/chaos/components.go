package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/domain/pathnorm"
	"github.com/spf13/cobra"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Inspect the generated component fleet",
	Long: `Inspect the component fleet the current configuration generates.

Generation is deterministic, so this shows exactly what 'chaos serve'
will register without touching the database.

Examples:
  chaos components list
  chaos components list --kind=colonel
  chaos components show hash_0`,
}

var componentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated components",
	RunE:  runComponentsList,
}

var componentsShowCmd = &cobra.Command{
	Use:   "show <name-or-path>",
	Short: "Show one component as JSON",
	Long: `Show one generated component as JSON.

Accepts a component name or its full path:
  chaos components show hash_0
  chaos components show esmc/chaos/hash/hash_0`,
	Args: cobra.ExactArgs(1),
	RunE: runComponentsShow,
}

var componentsKind string

func init() {
	rootCmd.AddCommand(componentsCmd)

	componentsCmd.AddCommand(componentsListCmd)
	componentsCmd.AddCommand(componentsShowCmd)

	componentsListCmd.Flags().StringVar(&componentsKind, "kind", "", "filter by kind")
}

func generateFleet() ([]component.Component, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fleet, err := component.Generate(cfg.RegistrySpec())
	if err != nil {
		return nil, fmt.Errorf("generate fleet: %w", err)
	}
	return fleet, nil
}

func runComponentsList(cmd *cobra.Command, args []string) error {
	kind := component.Kind(componentsKind)
	if kind != "" && !kind.Valid() {
		return fmt.Errorf("unknown kind %q", componentsKind)
	}

	fleet, err := generateFleet()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tVERSION\tOPS\tPATH")
	fmt.Fprintln(w, "----\t----\t-------\t---\t----")

	count := 0
	for _, c := range fleet {
		if kind != "" && c.Kind != kind {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.Name, c.Kind, c.Version, len(c.Ops), pathnorm.Join(string(c.Kind), c.Name))
		count++
	}
	w.Flush()

	fmt.Printf("\n%d components\n", count)
	return nil
}

func runComponentsShow(cmd *cobra.Command, args []string) error {
	name := args[0]
	if strings.Contains(name, "/") {
		_, n, err := pathnorm.Split(name)
		if err != nil {
			return err
		}
		name = n
	}
	if _, _, err := component.ParseName(name); err != nil {
		return err
	}

	fleet, err := generateFleet()
	if err != nil {
		return err
	}

	for _, c := range fleet {
		if c.Name != name {
			continue
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}
	return fmt.Errorf("component %q not in the generated fleet", name)
}
