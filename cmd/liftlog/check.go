// ABOUTME: CLI command for checking exercise references.
// ABOUTME: Lists logged exercises whose IDs no longer resolve.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report orphaned exercise references",
	Long: `Check that every exercise used in a workout or session still exists in
the catalog or among your custom exercises.

Orphaned entries are never changed: they keep the exercise name saved when
they were logged. Restore the exercise (for example with 'liftlog exercise
add') or leave them as history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orphans := store.Orphans()
		if len(orphans) == 0 {
			color.Green("✓ All exercise references resolve")
			return nil
		}

		color.Yellow("⚠ %d orphaned exercise reference(s)", len(orphans))
		faint := color.New(color.Faint)
		for _, o := range orphans {
			fmt.Printf("  %s %s %s %s\n",
				padRight(o.Key, 9),
				faint.Sprint(shortID(o.RecordID)),
				padRight(truncate(o.ExerciseName, 32), 32),
				faint.Sprint(o.ExerciseID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
