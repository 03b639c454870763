// ABOUTME: CLI commands for the exercise catalog download.
// ABOUTME: Supports refresh and status subcommands.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	catalogIfDue bool
	catalogReset bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the exercise catalog",
	Long: `Manage the exercise catalog.

liftlog ships with a built-in catalog. 'catalog refresh' downloads the full
free-exercise-db catalog and caches it in your backend; the cached copy is
used from then on. The configured refresh interval (default 7 days) decides
when a refresh is due.`,
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Download the latest exercise catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogReset {
			if err := refresher.ClearFetchCache(); err != nil {
				return fmt.Errorf("failed to reset fetch time: %w", err)
			}
		}
		if catalogIfDue && !refresher.RefreshDue() {
			fmt.Println("Catalog is up to date.")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		n, err := refresher.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}

		if cat, ok := refresher.Cached(); ok {
			store.SetCatalog(cat)
		}

		color.Green("✓ Downloaded %s exercises", humanize.Comma(int64(n)))
		fmt.Printf("  from %s\n", color.New(color.Faint).Sprint(refresher.CatalogURL()))
		return nil
	},
}

var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which catalog is in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := "built-in"
		if _, ok := refresher.Cached(); ok {
			source = "downloaded"
		}

		fmt.Printf("Source:     %s\n", source)
		fmt.Printf("Exercises:  %s\n", humanize.Comma(int64(store.Catalog().Len())))
		fmt.Printf("Custom:     %d\n", len(store.CustomExercises()))
		fmt.Printf("URL:        %s\n", refresher.CatalogURL())

		if last, ok := refresher.LastFetch(); ok {
			fmt.Printf("Last fetch: %s\n", humanize.RelTime(last, now(), "ago", "from now"))
		} else {
			fmt.Println("Last fetch: never")
		}

		if refresher.RefreshDue() {
			color.Yellow("⚠ Refresh due; run 'liftlog catalog refresh'")
		}
		return nil
	},
}

func init() {
	catalogRefreshCmd.Flags().BoolVar(&catalogIfDue, "if-due", false, "only download when the refresh interval has passed")
	catalogRefreshCmd.Flags().BoolVar(&catalogReset, "reset", false, "forget the last fetch time first")

	catalogCmd.AddCommand(catalogRefreshCmd, catalogStatusCmd)
	rootCmd.AddCommand(catalogCmd)
}
