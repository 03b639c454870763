// ABOUTME: Upgrade steps for each persisted collection.
// ABOUTME: Every step copies before modifying so the input record is untouched.
package storage

import (
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// WorkoutChain is the migration chain for the workouts key.
func WorkoutChain() *Chain[models.Workout] {
	return NewChain[models.Workout](workoutV1)
}

// SessionChain is the migration chain for the sessions key.
func SessionChain() *Chain[models.WorkoutSession] {
	return NewChain[models.WorkoutSession](sessionV1)
}

// ExerciseChain is the migration chain for the custom_exercises key.
func ExerciseChain() *Chain[models.Exercise] {
	return NewChain[models.Exercise](exerciseV1)
}

// Layouts accepted for legacy workout dates.
var legacyDateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// canonicalDate reduces a legacy timestamp to YYYY-MM-DD. Unparsable values
// are kept verbatim.
func canonicalDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(models.DateLayout)
		}
	}
	return s
}

// workoutV1 normalises dates, restores missing cached names and replaces
// null slices with empty ones.
func workoutV1(w models.Workout) models.Workout {
	w.Date = canonicalDate(w.Date)

	exercises := make([]models.WorkoutExercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		if ex.ExerciseName == "" {
			ex.ExerciseName = ex.ExerciseID
		}
		sets := make([]models.WorkoutSet, len(ex.Sets))
		copy(sets, ex.Sets)
		ex.Sets = sets
		exercises[i] = ex
	}
	w.Exercises = exercises
	return w
}

// sessionV1 moves float kilograms and kilometres into the integer fields.
func sessionV1(s models.WorkoutSession) models.WorkoutSession {
	logs := make([]models.ExerciseLog, len(s.ExerciseLogs))
	for i, l := range s.ExerciseLogs {
		if l.LegacyWeightKg != nil {
			if l.WeightDg == nil && *l.LegacyWeightKg >= 0 {
				dg := models.KgToDg(*l.LegacyWeightKg)
				l.WeightDg = &dg
			}
			l.LegacyWeightKg = nil
		}
		if l.LegacyDistanceKm != nil {
			if l.DistanceDam == nil && *l.LegacyDistanceKm >= 0 {
				dam := models.KmToDam(*l.LegacyDistanceKm)
				l.DistanceDam = &dam
			}
			l.LegacyDistanceKm = nil
		}
		logs[i] = l
	}
	s.ExerciseLogs = logs
	return s
}

// exerciseV1 fills the fields older custom exercises were saved without.
func exerciseV1(e models.Exercise) models.Exercise {
	if e.ID == "" {
		e.ID = models.Slugify(e.Name)
	}
	e.Category = models.Category(strings.ToLower(strings.TrimSpace(string(e.Category))))
	if e.Level == "" {
		e.Level = models.LevelBeginner
	}
	e.PrimaryMuscles = nonNil(e.PrimaryMuscles)
	e.SecondaryMuscles = nonNil(e.SecondaryMuscles)
	e.Instructions = nonNil(e.Instructions)
	e.Images = nonNil(e.Images)
	return e
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
