package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	_ "github.com/tursodatabase/go-libsql"

	"focustrack/internal/infrastructure/config"
	"focustrack/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Manage the database schema",
	Long: `Apply, roll back or inspect schema migrations.

  up      apply all pending migrations (also done automatically on start)
  down    roll back the most recent migration
  status  show the current schema version`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	switch action {
	case "up":
		if err := migrate.RunAll(ctx, db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migrations applied.")
		return nil

	case "down":
		return migrateDown(ctx, db)

	case "status":
		return migrateStatus(ctx, db)

	default:
		return fmt.Errorf("unknown action %q: expected up, down or status", action)
	}
}

func migrateDown(ctx context.Context, db *sql.DB) error {
	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return err
	}
	current, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d: fix it manually before migrating", current)
	}
	if current == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	migrations, err := migrate.LoadMigrations()
	if err != nil {
		return err
	}
	if err := migrate.MigrateDownTo(ctx, db, migrations, current, current-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	fmt.Printf("Rolled back to version %d.\n", current-1)
	return nil
}

func migrateStatus(ctx context.Context, db *sql.DB) error {
	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return err
	}
	current, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	migrations, err := migrate.LoadMigrations()
	if err != nil {
		return err
	}

	latest := 0
	if len(migrations) > 0 {
		latest = migrations[len(migrations)-1].Version
	}

	fmt.Printf("Schema version: %d (latest: %d)\n", current, latest)
	if dirty {
		fmt.Println("WARNING: schema is dirty; the last migration did not finish.")
	}
	if current < latest {
		fmt.Println("Run 'focustrack migrate up' to apply pending migrations.")
	}
	return nil
}
