package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/esmc/chaos/adapters/clock"
	"github.com/esmc/chaos/adapters/hasher"
	"github.com/esmc/chaos/adapters/sqlite"
	"github.com/esmc/chaos/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys",
	Long: `Manage API keys for the component host.

Keys gate the mutating routes (invoke and deploy) when auth is enabled.
The raw key is shown once at creation and never stored.

Examples:
  chaos keys list
  chaos keys create --name=ci
  chaos keys revoke key_abc123`,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API keys",
	RunE:  runKeysList,
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new API key",
	RunE:  runKeysCreate,
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <key-id>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysRevoke,
}

var keyName string

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysRevokeCmd)

	keysCreateCmd.Flags().StringVar(&keyName, "name", "", "key name (optional)")
}

func keyService(db *sqlite.DB) *app.KeyService {
	return app.NewKeyService(sqlite.NewKeyStore(db), hasher.NewBcrypt(0), clock.Real{}, zerolog.Nop())
}

func runKeysList(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	keys, err := keyService(db).List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No API keys found.")
		fmt.Println()
		fmt.Println("Create a key with: chaos keys create --name=<name>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPREFIX\tNAME\tSTATUS\tCREATED")
	fmt.Fprintln(w, "--\t------\t----\t------\t-------")

	for _, k := range keys {
		status := "active"
		if k.RevokedAt != nil {
			status = "revoked"
		}
		fmt.Fprintf(w, "%s\t%s...\t%s\t%s\t%s\n",
			k.ID, k.Prefix, k.Name, status, k.CreatedAt.Format("2006-01-02"))
	}

	w.Flush()
	return nil
}

func runKeysCreate(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	raw, k, err := keyService(db).Create(context.Background(), keyName)
	if err != nil {
		return fmt.Errorf("failed to create key: %w", err)
	}

	fmt.Println("API key created.")
	fmt.Println()
	fmt.Printf("  ID:  %s\n", k.ID)
	fmt.Printf("  Key: %s\n", raw)
	fmt.Println()
	fmt.Println("Store the key now; it cannot be recovered later.")
	return nil
}

func runKeysRevoke(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := keyService(db).Revoke(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}

	fmt.Printf("Key %s revoked.\n", args[0])
	return nil
}
