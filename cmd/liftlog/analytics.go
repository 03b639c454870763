// ABOUTME: CLI commands for training progress.
// ABOUTME: Prints per-exercise series and personal bests from session logs.
package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/analytics"
	"github.com/harperreed/liftlog/internal/models"
)

var seriesMetric string

var analyticsCmd = &cobra.Command{
	Use:     "analytics",
	Aliases: []string{"stats"},
	Short:   "Show training progress",
	Long: `Show progress computed from your sessions.

METRICS:

  weight     heaviest weight per log (kg)
  reps       repetitions per log
  distance   distance per log (km)
  duration   time per log (minutes)`,
}

var analyticsSeriesCmd = &cobra.Command{
	Use:   "series [exercise-id]",
	Short: "Show one metric of an exercise over time",
	Long: `Show one metric of an exercise over time, oldest first.

Without an exercise ID, lists the exercises that have logged data.

Examples:
  liftlog analytics series
  liftlog analytics series Barbell_Full_Squat
  liftlog analytics series Running_Treadmill --metric distance`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := store.Sessions()

		if len(args) == 0 {
			refs := analytics.AvailableExercises(sessions)
			if len(refs) == 0 {
				fmt.Println("No logged exercises yet.")
				return nil
			}
			for _, ref := range refs {
				fmt.Printf("%s %s\n", padRight(ref.Name, 36), color.New(color.Faint).Sprint(ref.ID))
			}
			return nil
		}

		metric, err := analytics.ParseMetric(seriesMetric)
		if err != nil {
			return err
		}

		points := analytics.Series(sessions, args[0], metric)
		if len(points) == 0 {
			fmt.Printf("No %s data for %s.\n", metric, args[0])
			return nil
		}

		color.New(color.Bold).Printf("%s: %s\n", args[0], metric.Label())
		t := now()
		for _, p := range points {
			fmt.Printf("  %s %s %s\n",
				p.Time.Local().Format(models.DateLayout),
				padRight(humanize.FtoaWithDigits(p.Value, 2), 10),
				color.New(color.Faint).Sprint(models.FormatSessionDate(p.Time, t)))
		}
		return nil
	},
}

var analyticsBestsCmd = &cobra.Command{
	Use:   "bests",
	Short: "Show personal bests per exercise",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bests := analytics.SortedBests(store.Sessions())
		if len(bests) == 0 {
			fmt.Println("No logged exercises yet.")
			return nil
		}

		for _, b := range bests {
			var parts []string
			if b.MaxWeightKg != nil {
				parts = append(parts, fmt.Sprintf("%s kg", humanize.FtoaWithDigits(*b.MaxWeightKg, 2)))
			}
			if b.MaxReps != nil {
				parts = append(parts, fmt.Sprintf("%d reps", *b.MaxReps))
			}
			if b.MaxDistKm != nil {
				parts = append(parts, fmt.Sprintf("%s km", humanize.FtoaWithDigits(*b.MaxDistKm, 2)))
			}
			if b.LongestSecs != nil && *b.LongestSecs > 0 {
				parts = append(parts, models.FormatDuration(*b.LongestSecs))
			}
			if len(parts) == 0 {
				parts = append(parts, "-")
			}
			fmt.Printf("%s %s %s\n",
				padRight(truncate(b.ExerciseName, 36), 36),
				padRight(strings.Join(parts, ", "), 32),
				color.New(color.Faint).Sprintf("%d log(s)", b.Logs))
		}
		return nil
	},
}

func init() {
	analyticsSeriesCmd.Flags().StringVarP(&seriesMetric, "metric", "m", string(analytics.MetricWeight), "weight, reps, distance or duration")
	analyticsCmd.AddCommand(analyticsSeriesCmd, analyticsBestsCmd)
	rootCmd.AddCommand(analyticsCmd)
}
