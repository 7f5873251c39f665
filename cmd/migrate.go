package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stationhq/media-api/internal/database"
	"github.com/stationhq/media-api/internal/models"
	"github.com/stationhq/media-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the Station Media API.

Tables are provisioned from the registered record schemas. Migrations are
idempotent: tables that already exist are left alone.

Available subcommands:
  up      - Provision all managed tables
  status  - Show which managed tables exist`,
}

// migrateUpCmd provisions the managed tables
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision all managed tables",
	Long: `Apply all pending database migrations.

Creates every managed table plus the sequence table backing primary-key
assignment. Tables that already exist are untouched.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of the managed tables.

Shows, for every registered record schema, whether its table exists in
the configured database.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run mode - no changes will be made")
		for _, schema := range models.All {
			fmt.Fprintln(cmd.OutOrStdout(), database.CreateTableSQL(schema))
		}
		return nil
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(models.All...); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Provisioned %d table(s) in %s\n", len(models.All), cfg.Database.Path)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	for _, schema := range models.All {
		var n int
		err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", schema.Table)
		if err != nil {
			return fmt.Errorf("checking table %s: %w", schema.Table, err)
		}
		state := "missing"
		if n > 0 {
			state = "present"
		}
		fmt.Fprintf(out, "  %-24s %s\n", schema.Table, state)
	}
	return nil
}
