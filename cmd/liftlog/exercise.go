// ABOUTME: CLI commands for browsing the catalog and managing custom exercises.
// ABOUTME: Supports list, search, show, add, delete, and image subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/models"
)

var (
	exerciseCategory  string
	exerciseEquipment string
	exerciseForce     string
	newCategory       string
	newEquipment      string
	exerciseMuscles   []string
	exerciseLimit     int
	imageIndex        int
	imageOutput       string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Browse and manage exercises",
	Long: `Browse the exercise catalog and manage your own exercises.

The catalog ships with liftlog and can be updated with 'liftlog catalog
refresh'. Custom exercises you add take precedence over catalog entries with
the same ID.

CATEGORIES:

  strength, cardio, stretching, plyometrics, powerlifting,
  olympic weightlifting, strongman`,
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filtered []models.Exercise
		for _, ex := range store.AllExercises() {
			if exerciseCategory != "" && !strings.EqualFold(string(ex.Category), exerciseCategory) {
				continue
			}
			if exerciseEquipment != "" && (ex.Equipment == nil || !strings.EqualFold(*ex.Equipment, exerciseEquipment)) {
				continue
			}
			filtered = append(filtered, ex)
		}
		printExercises(filtered)
		return nil
	},
}

var exerciseSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search exercises by name, muscle, category or equipment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printExercises(catalog.Search(store.AllExercises(), strings.Join(args, " ")))
		return nil
	},
}

func printExercises(exercises []models.Exercise) {
	if len(exercises) == 0 {
		fmt.Println("No exercises found.")
		return
	}

	faint := color.New(color.Faint)
	for i, ex := range exercises {
		if exerciseLimit > 0 && i >= exerciseLimit {
			fmt.Println(faint.Sprintf("... %d more", len(exercises)-i))
			break
		}
		fmt.Printf("%s %s %s\n",
			padRight(truncate(ex.Name, 36), 36),
			padRight(string(ex.Category), 14),
			faint.Sprint(ex.ID))
	}
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show exercise details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, ok := store.ResolveExercise(args[0])
		if !ok {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Println(ex.Name)
		fmt.Printf("  ID:        %s\n", faint.Sprint(ex.ID))
		fmt.Printf("  Category:  %s\n", ex.Category)
		fmt.Printf("  Level:     %s\n", ex.Level)
		if ex.Force != nil {
			fmt.Printf("  Force:     %s\n", *ex.Force)
		}
		if ex.Equipment != nil {
			fmt.Printf("  Equipment: %s\n", *ex.Equipment)
		}
		if len(ex.PrimaryMuscles) > 0 {
			fmt.Printf("  Primary:   %s\n", strings.Join(ex.PrimaryMuscles, ", "))
		}
		if len(ex.SecondaryMuscles) > 0 {
			fmt.Printf("  Secondary: %s\n", strings.Join(ex.SecondaryMuscles, ", "))
		}

		if len(ex.Instructions) > 0 {
			fmt.Println("\n  Instructions:")
			for i, step := range ex.Instructions {
				fmt.Printf("    %d. %s\n", i+1, step)
			}
		}
		if len(ex.Images) > 0 {
			fmt.Println("\n  Images:")
			for _, img := range ex.Images {
				fmt.Printf("    %s\n", catalog.ImageURL(cfg.GetCatalogURL(), img))
			}
		}

		if last, ok := store.LastExerciseLog(ex.ID); ok {
			when := time.Unix(int64(last.StartTime), 0)
			fmt.Printf("\n  Last logged %s: %s\n", humanize.RelTime(when, now(), "ago", "from now"), describeLog(*last))
		}
		return nil
	},
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom exercise",
	Long: `Add a custom exercise.

Examples:
  liftlog exercise add "Sled Push" --category strongman --equipment other
  liftlog exercise add "Ring Dips" --force push --muscles triceps,chest`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := models.Category(strings.ToLower(newCategory))
		if !models.IsValidCategory(string(category)) {
			return fmt.Errorf("unknown category: %s", newCategory)
		}

		ex := models.NewCustomExercise(args[0], category)
		if newEquipment != "" {
			ex.WithEquipment(newEquipment)
		}
		if exerciseForce != "" {
			ex.WithForce(models.Force(strings.ToLower(exerciseForce)))
		}
		if len(exerciseMuscles) > 0 {
			ex.WithMuscles(exerciseMuscles, nil)
		}

		if err := store.OnRecordChange(ex); err != nil {
			return fmt.Errorf("failed to save exercise: %w", err)
		}

		color.Green("✓ Added %s", ex.Name)
		fmt.Printf("  ID: %s\n", color.New(color.Faint).Sprint(ex.ID))
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom exercise",
	Long: `Delete a custom exercise. Catalog exercises cannot be deleted.

Workouts and sessions that used the exercise keep its name and show up in
'liftlog check' as orphaned references.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := store.GetCustomExercise(args[0])
		if err != nil {
			return lookupError("custom exercise", args[0], err)
		}
		if err := store.DeleteCustomExercise(ex.ID); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Yellow("✗ Deleted %s", ex.Name)
		return nil
	},
}

var exerciseImageCmd = &cobra.Command{
	Use:   "image <id>",
	Short: "Download an exercise image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, ok := store.ResolveExercise(args[0])
		if !ok {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		if imageIndex < 0 || imageIndex >= len(ex.Images) {
			return fmt.Errorf("%s has %d image(s)", ex.Name, len(ex.Images))
		}

		path := ex.Images[imageIndex]
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		data, err := refresher.FetchImage(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to download image: %w", err)
		}

		out := imageOutput
		if out == "" {
			out = filepath.Base(path)
		}
		if err := os.WriteFile(out, data, 0600); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}

		color.Green("✓ Saved %s (%s)", out, humanize.Bytes(uint64(len(data))))
		return nil
	},
}

func init() {
	exerciseListCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "filter by category")
	exerciseListCmd.Flags().StringVarP(&exerciseEquipment, "equipment", "e", "", "filter by equipment")
	exerciseListCmd.Flags().IntVarP(&exerciseLimit, "limit", "n", 0, "max number of results")
	exerciseSearchCmd.Flags().IntVarP(&exerciseLimit, "limit", "n", 0, "max number of results")

	exerciseAddCmd.Flags().StringVarP(&newCategory, "category", "c", string(models.CategoryStrength), "exercise category")
	exerciseAddCmd.Flags().StringVarP(&newEquipment, "equipment", "e", "", "equipment used")
	exerciseAddCmd.Flags().StringVar(&exerciseForce, "force", "", "push, pull or static")
	exerciseAddCmd.Flags().StringSliceVar(&exerciseMuscles, "muscles", nil, "primary muscles (comma separated)")

	exerciseImageCmd.Flags().IntVar(&imageIndex, "index", 0, "which image to download")
	exerciseImageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "output file (default: image file name)")

	exerciseCmd.AddCommand(exerciseListCmd, exerciseSearchCmd, exerciseShowCmd, exerciseAddCmd, exerciseDeleteCmd, exerciseImageCmd)
	rootCmd.AddCommand(exerciseCmd)
}
