package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/esmc/chaos/adapters/sqlite"
	"github.com/spf13/cobra"
)

var invocationsCmd = &cobra.Command{
	Use:   "invocations",
	Short: "Inspect and prune the invocation log",
	Long: `Inspect the recorded operation dispatches and prune old entries.

Examples:
  chaos invocations list
  chaos invocations list --limit=100
  chaos invocations prune --older-than=168h`,
}

var invocationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent invocations",
	RunE:  runInvocationsList,
}

var invocationsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete invocations older than a cutoff",
	RunE:  runInvocationsPrune,
}

var (
	invocationsLimit     int
	invocationsOlderThan time.Duration
)

func init() {
	rootCmd.AddCommand(invocationsCmd)

	invocationsCmd.AddCommand(invocationsListCmd)
	invocationsCmd.AddCommand(invocationsPruneCmd)

	invocationsListCmd.Flags().IntVar(&invocationsLimit, "limit", 50, "maximum entries to show")
	invocationsPruneCmd.Flags().DurationVar(&invocationsOlderThan, "older-than", 7*24*time.Hour, "age cutoff")
}

func runInvocationsList(cmd *cobra.Command, args []string) error {
	if invocationsLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	invs, err := sqlite.NewInvocationStore(db).Recent(context.Background(), invocationsLimit)
	if err != nil {
		return fmt.Errorf("failed to list invocations: %w", err)
	}

	if len(invs) == 0 {
		fmt.Println("No invocations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tOP\tSTATUS\tDIGEST\tDURATION\tWHEN")
	fmt.Fprintln(w, "---------\t--\t------\t------\t--------\t----")

	for _, inv := range invs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.Component, inv.Op, inv.Status, inv.Digest,
			inv.Duration, inv.CreatedAt.Format(time.RFC3339))
	}

	w.Flush()
	return nil
}

func runInvocationsPrune(cmd *cobra.Command, args []string) error {
	if invocationsOlderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	cutoff := time.Now().Add(-invocationsOlderThan)
	removed, err := sqlite.NewInvocationStore(db).DeleteBefore(context.Background(), cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune invocations: %w", err)
	}

	fmt.Printf("Removed %d invocations older than %s.\n", removed, cutoff.Format(time.RFC3339))
	return nil
}
