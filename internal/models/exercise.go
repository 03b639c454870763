// ABOUTME: Exercise model and its enum-like attribute types.
// ABOUTME: Field names follow the free-exercise-db JSON layout.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Category groups exercises by training style.
type Category string

const (
	CategoryStrength     Category = "strength"
	CategoryCardio       Category = "cardio"
	CategoryStretching   Category = "stretching"
	CategoryPlyometrics  Category = "plyometrics"
	CategoryPowerlifting Category = "powerlifting"
	CategoryOlympic      Category = "olympic weightlifting"
	CategoryStrongman    Category = "strongman"
)

// AllCategories lists every known category.
var AllCategories = []Category{
	CategoryStrength, CategoryCardio, CategoryStretching, CategoryPlyometrics,
	CategoryPowerlifting, CategoryOlympic, CategoryStrongman,
}

// IsValidCategory checks if a string names a known category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == strings.ToLower(s) {
			return true
		}
	}
	return false
}

// Force is the movement direction of an exercise.
type Force string

const (
	ForcePush   Force = "push"
	ForcePull   Force = "pull"
	ForceStatic Force = "static"
)

// HasReps reports whether sets of this force are counted in repetitions.
// Static holds are timed instead.
func (f Force) HasReps() bool {
	return f != ForceStatic
}

// Level is the difficulty of an exercise.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelExpert       Level = "expert"
)

// Exercise is a catalog entry, either bundled or user-defined.
type Exercise struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Force            *Force   `json:"force,omitempty" yaml:"force,omitempty"`
	Level            Level    `json:"level" yaml:"level"`
	Mechanic         *string  `json:"mechanic,omitempty" yaml:"mechanic,omitempty"`
	Equipment        *string  `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles" yaml:"primary_muscles"`
	SecondaryMuscles []string `json:"secondaryMuscles" yaml:"secondary_muscles"`
	Instructions     []string `json:"instructions" yaml:"instructions"`
	Category         Category `json:"category" yaml:"category"`
	Images           []string `json:"images" yaml:"images"`
	Version          uint32   `json:"version,omitempty" yaml:"version,omitempty"`
}

// NewCustomExercise creates a user-defined exercise with a generated ID.
func NewCustomExercise(name string, category Category) *Exercise {
	return &Exercise{
		ID:               uuid.New().String(),
		Name:             name,
		Level:            LevelBeginner,
		Category:         category,
		PrimaryMuscles:   []string{},
		SecondaryMuscles: []string{},
		Instructions:     []string{},
		Images:           []string{},
	}
}

// WithForce sets the force of the exercise.
func (e *Exercise) WithForce(f Force) *Exercise {
	e.Force = &f
	return e
}

// WithEquipment sets the equipment of the exercise.
func (e *Exercise) WithEquipment(equipment string) *Exercise {
	e.Equipment = &equipment
	return e
}

// WithMuscles sets the primary and secondary muscles.
func (e *Exercise) WithMuscles(primary, secondary []string) *Exercise {
	e.PrimaryMuscles = primary
	e.SecondaryMuscles = secondary
	return e
}

// WithInstructions sets the instruction steps.
func (e *Exercise) WithInstructions(steps ...string) *Exercise {
	e.Instructions = steps
	return e
}

// Muscles returns primary muscles followed by secondary muscles.
func (e *Exercise) Muscles() []string {
	out := make([]string, 0, len(e.PrimaryMuscles)+len(e.SecondaryMuscles))
	out = append(out, e.PrimaryMuscles...)
	return append(out, e.SecondaryMuscles...)
}

// RecordID implements the storage record contract.
func (e Exercise) RecordID() string { return e.ID }

// SchemaVersion returns the persisted schema version.
func (e Exercise) SchemaVersion() uint32 { return e.Version }

// Slugify turns an exercise name into a catalog-style ID ("Bench Press" -> "Bench_Press").
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(name), func(r rune) bool {
		return r == ' ' || r == '/' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// WithSchemaVersion returns a copy stamped with version v.
func (e Exercise) WithSchemaVersion(v uint32) Exercise {
	e.Version = v
	return e
}
