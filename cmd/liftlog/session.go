// ABOUTME: CLI commands for live training sessions.
// ABOUTME: Supports start, log, finish, list, show, and delete subcommands.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/analytics"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	sessionLogSession  string
	sessionLogWeight   string
	sessionLogReps     uint32
	sessionLogDistance string
	sessionLogDuration time.Duration
	sessionListLimit   int
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Record live training sessions",
	Long: `Track a training session while it happens.

WORKFLOW:

  1. Start a session:     liftlog session start
  2. Log each exercise:   liftlog session log Barbell_Full_Squat --weight 100 --reps 5
  3. Finish it:           liftlog session finish

Only one session can be active at a time. Finishing a session without any
logged exercises discards it.

When 'session log' is given no weight, reps or distance, the values from the
last time you did that exercise are reused.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := store.StartSession(now())
		if errors.Is(err, storage.ErrSessionActive) {
			return fmt.Errorf("session %s is already active; finish it first", shortID(sess.ID))
		}
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		color.Green("✓ Started session")
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(sess.ID)),
			sess.Started().Format("2006-01-02 15:04"))
		return nil
	},
}

var sessionLogCmd = &cobra.Command{
	Use:   "log <exercise-id>",
	Short: "Log a completed exercise in the active session",
	Long: `Log a completed exercise in the active session (or --session).

Weight is in kilograms and distance in kilometres; both accept a comma as the
decimal separator. --duration is how long the exercise took (e.g. 90s, 25m);
the log ends now.

EXAMPLES:

  liftlog session log Barbell_Deadlift --weight 140 --reps 5
  liftlog session log Running_Treadmill --distance 5,2 --duration 28m
  liftlog session log Plank --duration 90s
  liftlog session log Barbell_Deadlift            # repeat last values`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, ok := store.ResolveExercise(args[0])
		if !ok {
			return fmt.Errorf("unknown exercise: %s (try 'liftlog exercise search')", args[0])
		}

		target := sessionLogSession
		if target == "" {
			active, ok := store.ActiveSession()
			if !ok {
				return fmt.Errorf("no active session; run 'liftlog session start'")
			}
			target = active.ID
		}

		end := now()
		entry := models.ExerciseLog{
			ExerciseID:   ex.ID,
			ExerciseName: ex.Name,
			Category:     ex.Category,
			Force:        ex.Force,
			StartTime:    uint64(end.Add(-sessionLogDuration).Unix()),
		}
		endSecs := uint64(end.Unix())
		entry.EndTime = &endSecs

		if sessionLogWeight != "" {
			if entry.WeightDg = models.ParseWeightKg(sessionLogWeight); entry.WeightDg == nil {
				return fmt.Errorf("invalid weight: %s", sessionLogWeight)
			}
		}
		if sessionLogDistance != "" {
			if entry.DistanceDam = models.ParseDistanceKm(sessionLogDistance); entry.DistanceDam == nil {
				return fmt.Errorf("invalid distance: %s", sessionLogDistance)
			}
		}
		if sessionLogReps > 0 {
			reps := sessionLogReps
			entry.Reps = &reps
		}

		if entry.WeightDg == nil && entry.Reps == nil && entry.DistanceDam == nil {
			if last, ok := store.LastExerciseLog(ex.ID); ok {
				entry.WeightDg, entry.Reps, entry.DistanceDam = last.WeightDg, last.Reps, last.DistanceDam
				fmt.Printf("  using last values: %s\n", describeLog(*last))
			}
		}

		sess, err := store.LogExercise(target, entry)
		if err != nil {
			if errors.Is(err, storage.ErrSessionFinished) {
				return fmt.Errorf("session %s is already finished", shortID(target))
			}
			if sess == nil {
				return lookupError("session", target, err)
			}
			warnf("Logged in memory but failed to save: %v", err)
			return nil
		}

		color.Green("✓ Logged %s", ex.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(sess.ID)),
			describeLog(entry))
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish [id]",
	Short: "Finish the active session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var target string
		if len(args) == 1 {
			target = args[0]
		} else {
			active, ok := store.ActiveSession()
			if !ok {
				return fmt.Errorf("no active session")
			}
			target = active.ID
		}

		sess, discarded, err := store.FinishSession(target, now())
		if err != nil {
			if errors.Is(err, storage.ErrSessionFinished) {
				return fmt.Errorf("session %s is already finished", shortID(target))
			}
			return lookupError("session", target, err)
		}

		if discarded {
			color.Yellow("✗ Discarded empty session %s", shortID(sess.ID))
			return nil
		}

		color.Green("✓ Finished session")
		fmt.Printf("  %s %s, %d exercise(s), %s kg volume\n",
			color.New(color.Faint).Sprint(shortID(sess.ID)),
			models.FormatDuration(uint64(sess.Duration(now()).Seconds())),
			len(sess.ExerciseLogs),
			humanize.CommafWithDigits(analytics.Volume(*sess), 1))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := store.Sessions()
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		t := now()
		for i, sess := range sessions {
			if sessionListLimit > 0 && i >= sessionListLimit {
				break
			}
			state := ""
			if sess.IsActive() {
				state = color.GreenString(" (active)")
			}
			fmt.Printf("%s %s %s %2d exercise(s)%s\n",
				faint.Sprint(shortID(sess.ID)),
				padRight(models.FormatSessionDate(sess.Started(), t), 12),
				padRight(models.FormatDuration(uint64(sess.Duration(t).Seconds())), 8),
				len(sess.ExerciseLogs),
				state)
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session with its exercise logs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := store.GetSession(args[0])
		if err != nil {
			return lookupError("session", args[0], err)
		}

		t := now()
		faint := color.New(color.Faint)
		color.New(color.Bold).Printf("Session %s\n", shortID(sess.ID))
		fmt.Printf("  Started:  %s (%s)\n",
			sess.Started().Format("2006-01-02 15:04"), humanize.RelTime(sess.Started(), t, "ago", "from now"))
		fmt.Printf("  Duration: %s\n", models.FormatDuration(uint64(sess.Duration(t).Seconds())))
		if sess.IsActive() {
			fmt.Println("  Status:   active")
		}
		fmt.Printf("  Volume:   %s kg\n", humanize.CommafWithDigits(analytics.Volume(*sess), 1))

		if len(sess.ExerciseLogs) == 0 {
			fmt.Println(faint.Sprint("\n  No exercises logged."))
			return nil
		}

		fmt.Println()
		for _, l := range sess.ExerciseLogs {
			name := l.ExerciseName
			if ex, ok := store.ResolveExercise(l.ExerciseID); ok {
				name = ex.Name
			} else {
				name += faint.Sprint(" (removed)")
			}
			fmt.Printf("  %s %s %s\n",
				faint.Sprint(time.Unix(int64(l.StartTime), 0).Format("15:04")),
				padRight(truncate(name, 32), 32),
				describeLog(l))
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := store.GetSession(args[0])
		if err != nil {
			return lookupError("session", args[0], err)
		}
		if err := store.DeleteSession(sess.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Yellow("✗ Deleted session %s", shortID(sess.ID))
		return nil
	},
}

func init() {
	sessionLogCmd.Flags().StringVar(&sessionLogSession, "session", "", "session ID or prefix (default: active session)")
	sessionLogCmd.Flags().StringVarP(&sessionLogWeight, "weight", "w", "", "weight in kg")
	sessionLogCmd.Flags().Uint32VarP(&sessionLogReps, "reps", "r", 0, "repetitions")
	sessionLogCmd.Flags().StringVarP(&sessionLogDistance, "distance", "d", "", "distance in km")
	sessionLogCmd.Flags().DurationVar(&sessionLogDuration, "duration", 0, "time spent on the exercise (e.g. 90s, 25m)")
	sessionListCmd.Flags().IntVarP(&sessionListLimit, "limit", "n", 20, "max number of results")

	sessionCmd.AddCommand(sessionStartCmd, sessionLogCmd, sessionFinishCmd, sessionListCmd, sessionShowCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
