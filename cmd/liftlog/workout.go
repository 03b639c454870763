// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Supports add, set, list, show, and delete subcommands.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/models"
)

var (
	workoutDate  string
	workoutNotes string
	workoutLimit int
	setReps      uint32
	setWeight    float64
	setDistance  float64
	setDuration  time.Duration
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Record training days after the fact, set by set.

WORKFLOW:

  1. Create a workout:   liftlog workout add --date 2024-03-01
  2. Add sets to it:     liftlog workout set abc123 Barbell_Full_Squat --reps 5 --weight 100
  3. View it:            liftlog workout show abc123

Each exercise keeps its name, so a workout still reads correctly after the
exercise is removed from the catalog.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new workout",
	Long: `Add a new workout.

Examples:
  liftlog workout add
  liftlog workout add --date 2024-03-01 --notes "Leg day"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := now()
		if workoutDate != "" {
			t, err := parseTime(workoutDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", workoutDate)
			}
			day = t
		}

		w := models.NewWorkout(day)
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}

		if err := store.OnRecordChange(w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Created workout for %s", w.Date)
		fmt.Printf("  ID: %s\n", color.New(color.Faint).Sprint(shortID(w.ID)))
		return nil
	},
}

var workoutSetCmd = &cobra.Command{
	Use:   "set <workout-id> <exercise-id>",
	Short: "Add a set to a workout",
	Long: `Add a set of an exercise to an existing workout.

Weight is in kilograms and distance in kilometres.

Examples:
  liftlog workout set abc123 Barbell_Bench_Press_-_Medium_Grip --reps 8 --weight 60
  liftlog workout set abc123 Rowing_Stationary --distance 2 --duration 8m`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, ok := store.ResolveExercise(args[1])
		if !ok {
			return fmt.Errorf("unknown exercise: %s (try 'liftlog exercise search')", args[1])
		}

		set := models.WorkoutSet{Reps: setReps}
		if setWeight > 0 {
			weight := setWeight
			set.Weight = &weight
		}
		if setDistance > 0 {
			distance := setDistance
			set.Distance = &distance
		}
		if setDuration > 0 {
			secs := uint32(setDuration.Seconds())
			set.Duration = &secs
		}

		w, err := store.AddSet(args[0], ex, set)
		if err != nil {
			if w == nil {
				return lookupError("workout", args[0], err)
			}
			return fmt.Errorf("failed to save set: %w", err)
		}

		entry := w.FindExercise(ex.ID)
		color.Green("✓ Added set %d of %s", len(entry.Sets), ex.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(w.ID)),
			describeSet(set))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent workouts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts := store.Workouts()
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for i, w := range workouts {
			if workoutLimit > 0 && i >= workoutLimit {
				break
			}
			notes := ""
			if w.Notes != nil && *w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*w.Notes, 30))
			}
			fmt.Printf("%s %s %2d exercise(s) %3d set(s)%s\n",
				faint.Sprint(shortID(w.ID)),
				w.Date,
				len(w.Exercises),
				w.SetCount(),
				notes)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := store.GetWorkout(args[0])
		if err != nil {
			return lookupError("workout", args[0], err)
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Printf("Workout %s\n", w.Date)
		fmt.Printf("  ID: %s\n", faint.Sprint(w.ID))
		if w.Notes != nil && *w.Notes != "" {
			fmt.Printf("  Notes: %s\n", *w.Notes)
		}

		if len(w.Exercises) == 0 {
			fmt.Println(faint.Sprint("\n  No sets logged."))
			return nil
		}

		for _, ex := range w.Exercises {
			name := ex.DisplayName(store.ResolveExercise)
			if _, ok := store.ResolveExercise(ex.ExerciseID); !ok {
				name += faint.Sprint(" (removed)")
			}
			fmt.Printf("\n  %s\n", name)
			for i, set := range ex.Sets {
				fmt.Printf("    %d. %s\n", i+1, describeSet(set))
			}
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := store.GetWorkout(args[0])
		if err != nil {
			return lookupError("workout", args[0], err)
		}
		if err := store.DeleteWorkout(w.ID); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Yellow("✗ Deleted workout %s", w.Date)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(w.ID)))
		return nil
	},
}

func init() {
	workoutAddCmd.Flags().StringVar(&workoutDate, "date", "", "day of the workout (YYYY-MM-DD)")
	workoutAddCmd.Flags().StringVar(&workoutNotes, "notes", "", "workout notes")
	workoutSetCmd.Flags().Uint32VarP(&setReps, "reps", "r", 0, "repetitions")
	workoutSetCmd.Flags().Float64VarP(&setWeight, "weight", "w", 0, "weight in kg")
	workoutSetCmd.Flags().Float64VarP(&setDistance, "distance", "d", 0, "distance in km")
	workoutSetCmd.Flags().DurationVar(&setDuration, "duration", 0, "duration (e.g. 90s, 8m)")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutCmd.AddCommand(workoutAddCmd, workoutSetCmd, workoutListCmd, workoutShowCmd, workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
