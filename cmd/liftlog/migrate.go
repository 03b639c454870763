// ABOUTME: CLI command for schema upgrades and backend moves.
// ABOUTME: Runs the migration pass explicitly or copies data to another backend.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	migrateDryRun bool
	migrateTo     string
	migrateForce  bool
)

var migrateCmd = manualStartup(&cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored records or move them to another backend",
	Long: `Upgrade stored records to the current schema, or copy all data to
another backend.

Every liftlog command upgrades old records on start; this command does the
same pass explicitly and reports what changed. Records written by a newer
version of liftlog are left untouched.

USAGE:

  liftlog migrate --dry-run          # Show what would be upgraded
  liftlog migrate                    # Upgrade and save
  liftlog migrate --to charm         # Copy all data to the charm backend
  liftlog migrate --to badger --force

BACKENDS:

  sqlite   ~/.local/share/liftlog/liftlog.db (default)
  badger   ~/.local/share/liftlog/badger
  charm    Charm Cloud KV, synced and encrypted with your SSH key
  memory   in-process only, for testing

After copying, set "backend" in ~/.config/liftlog/config.json (or
LIFTLOG_BACKEND) to switch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo != "" {
			return copyBackend(migrateTo)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			for _, r := range store.MigrationStatus() {
				printCollectionReport(r, "to upgrade")
			}
			return nil
		}

		report, err := store.OnAppStart()
		for _, r := range report.Collections {
			printCollectionReport(r, "upgraded")
		}
		if err != nil {
			return fmt.Errorf("failed to save upgraded records: %w", err)
		}
		if len(report.Orphans) > 0 {
			color.Yellow("⚠ %d orphaned exercise reference(s); run 'liftlog check'", len(report.Orphans))
		}
		return nil
	},
})

func printCollectionReport(r storage.CollectionReport, verb string) {
	fmt.Printf("%s %4d record(s) %4d %s", padRight(r.Key, 17), r.Records, r.Migrated, verb)
	if r.Ahead > 0 {
		fmt.Print(color.YellowString("  %d from a newer version", r.Ahead))
	}
	fmt.Println()
}

func copyBackend(target string) error {
	target = strings.ToLower(target)
	if target == strings.ToLower(cfg.GetBackend()) {
		return fmt.Errorf("already using the %s backend", target)
	}

	if path := cfg.BackendPath(target); path != "" && !migrateForce {
		occupied, err := targetOccupied(target, path)
		if err != nil {
			return err
		}
		if occupied {
			return fmt.Errorf("%s already has data at %s; use --force to overwrite matching keys", target, path)
		}
	}

	if migrateDryRun {
		keys, err := kvStore.Keys()
		if err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
		color.Yellow("Dry run mode - no changes will be made")
		fmt.Printf("Would copy %d key(s) from %s to %s\n", len(keys), cfg.GetBackend(), target)
		return nil
	}

	dst, err := cfg.OpenBackend(target)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", target, err)
	}
	defer dst.Close()

	summary, err := storage.MigrateBackend(kvStore, dst)
	if err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}

	color.Green("✓ Copied %d key(s) from %s to %s", summary.Keys, cfg.GetBackend(), target)
	fmt.Printf("  %d workout(s), %d session(s), %d custom exercise(s)\n",
		summary.Workouts, summary.Sessions, summary.CustomExercises)
	return nil
}

func targetOccupied(backend, path string) (bool, error) {
	if backend == config.BackendBadger {
		return storage.IsDirNonEmpty(path)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "copy all data to this backend (sqlite, badger, charm)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even if the target already has data")
	rootCmd.AddCommand(migrateCmd)
}
