// ABOUTME: Workout, WorkoutExercise and WorkoutSet models for logged training days.
// ABOUTME: Exercise names are cached on each entry so orphaned references still display.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical layout of Workout.Date.
const DateLayout = "2006-01-02"

// WorkoutSet is a single set within a logged exercise.
type WorkoutSet struct {
	Reps     uint32   `json:"reps" yaml:"reps"`
	Weight   *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`     // kg
	Distance *float64 `json:"distance,omitempty" yaml:"distance,omitempty"` // km
	Duration *uint32  `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
}

// WorkoutExercise is one exercise performed during a workout.
type WorkoutExercise struct {
	ExerciseID   string       `json:"exercise_id" yaml:"exercise_id"`
	ExerciseName string       `json:"exercise_name" yaml:"exercise_name"`
	Sets         []WorkoutSet `json:"sets" yaml:"sets"`
	Notes        *string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DisplayName resolves the exercise name through lookup, falling back to the
// cached name and finally to the ID.
func (we WorkoutExercise) DisplayName(lookup func(id string) (*Exercise, bool)) string {
	if lookup != nil {
		if ex, ok := lookup(we.ExerciseID); ok && ex.Name != "" {
			return ex.Name
		}
	}
	if we.ExerciseName != "" {
		return we.ExerciseName
	}
	return we.ExerciseID
}

// Workout is a training day with its logged exercises.
type Workout struct {
	ID        string            `json:"id" yaml:"id"`
	Date      string            `json:"date" yaml:"date"`
	Exercises []WorkoutExercise `json:"exercises" yaml:"exercises"`
	Notes     *string           `json:"notes" yaml:"notes,omitempty"`
	Version   uint32            `json:"version" yaml:"version"`
}

// NewWorkout creates a new Workout for the given day with a generated ID.
func NewWorkout(date time.Time) *Workout {
	return &Workout{
		ID:        uuid.New().String(),
		Date:      date.Format(DateLayout),
		Exercises: []WorkoutExercise{},
	}
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = &notes
	return w
}

// AddExercise appends an exercise entry, caching the exercise name.
func (w *Workout) AddExercise(ex *Exercise) *WorkoutExercise {
	w.Exercises = append(w.Exercises, WorkoutExercise{
		ExerciseID:   ex.ID,
		ExerciseName: ex.Name,
		Sets:         []WorkoutSet{},
	})
	return &w.Exercises[len(w.Exercises)-1]
}

// FindExercise returns the entry for exerciseID, or nil.
func (w *Workout) FindExercise(exerciseID string) *WorkoutExercise {
	for i := range w.Exercises {
		if w.Exercises[i].ExerciseID == exerciseID {
			return &w.Exercises[i]
		}
	}
	return nil
}

// ParsedDate returns the workout date as a time in UTC.
func (w Workout) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, w.Date)
}

// SetCount returns the number of sets across all exercises.
func (w Workout) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// RecordID implements the storage record contract.
func (w Workout) RecordID() string { return w.ID }

// SchemaVersion returns the persisted schema version.
func (w Workout) SchemaVersion() uint32 { return w.Version }

// WithSchemaVersion returns a copy stamped with version v.
func (w Workout) WithSchemaVersion(v uint32) Workout {
	w.Version = v
	return w
}

// ExerciseRefs lists the (id, cached name) pairs referenced by the workout.
func (w Workout) ExerciseRefs() []ExerciseRef {
	refs := make([]ExerciseRef, 0, len(w.Exercises))
	for _, ex := range w.Exercises {
		refs = append(refs, ExerciseRef{ID: ex.ExerciseID, Name: ex.ExerciseName})
	}
	return refs
}

// ExerciseRef is a stored reference into the exercise catalog.
type ExerciseRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
