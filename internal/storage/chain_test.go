// ABOUTME: Tests for the migration chain and the per-collection upgrade steps.
// ABOUTME: Checks step ordering, purity and version handling.
package storage

import (
	"testing"

	"github.com/harperreed/liftlog/internal/models"
)

type traceRecord struct {
	ID    string
	Trace []string
	V     uint32
}

func (r traceRecord) RecordID() string      { return r.ID }
func (r traceRecord) SchemaVersion() uint32 { return r.V }
func (r traceRecord) WithSchemaVersion(v uint32) traceRecord {
	r.V = v
	return r
}

func traceStep(name string) Step[traceRecord] {
	return func(r traceRecord) traceRecord {
		r.Trace = append(append([]string{}, r.Trace...), name)
		return r
	}
}

func TestChainAppliesStepsFromRecordVersion(t *testing.T) {
	chain := NewChain(traceStep("v0"), traceStep("v1"), traceStep("v2"))
	if chain.Current() != 3 {
		t.Fatalf("Expected current 3, got %d", chain.Current())
	}

	tests := []struct {
		name    string
		version uint32
		trace   []string
		changed bool
		want    uint32
	}{
		{"from zero", 0, []string{"v0", "v1", "v2"}, true, 3},
		{"from one", 1, []string{"v1", "v2"}, true, 3},
		{"current", 3, nil, false, 3},
		{"newer schema", 5, nil, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := chain.Upgrade(traceRecord{ID: "r", V: tt.version})
			if changed != tt.changed {
				t.Errorf("changed = %v, want %v", changed, tt.changed)
			}
			if got.V != tt.want {
				t.Errorf("version = %d, want %d", got.V, tt.want)
			}
			if len(got.Trace) != len(tt.trace) {
				t.Fatalf("trace = %v, want %v", got.Trace, tt.trace)
			}
			for i := range tt.trace {
				if got.Trace[i] != tt.trace[i] {
					t.Errorf("trace = %v, want %v", got.Trace, tt.trace)
				}
			}
		})
	}
}

func TestChainPendingAndAhead(t *testing.T) {
	chain := NewChain(traceStep("v0"))
	records := []traceRecord{{ID: "a", V: 0}, {ID: "b", V: 1}, {ID: "c", V: 4}}

	if n := chain.Pending(records); n != 1 {
		t.Errorf("Expected 1 pending, got %d", n)
	}
	ahead := chain.Ahead(records)
	if len(ahead) != 1 || ahead[0] != "c" {
		t.Errorf("Expected [c] ahead, got %v", ahead)
	}

	if !chain.Migrate(records) {
		t.Error("Expected change")
	}
	if records[2].V != 4 {
		t.Errorf("Newer record must be left untouched, got version %d", records[2].V)
	}
	if chain.Pending(records) != 0 {
		t.Error("Nothing should be pending after migrate")
	}
}

func TestWorkoutV1(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-01"},
		{"2024-01-01T18:30:00Z", "2024-01-01"},
		{"2024-01-01 18:30", "2024-01-01"},
		{"2024-01-01T18:30", "2024-01-01"},
		{"sometime", "sometime"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := workoutV1(models.Workout{ID: "w", Date: tt.in})
			if got.Date != tt.want {
				t.Errorf("date = %q, want %q", got.Date, tt.want)
			}
			if got.Exercises == nil {
				t.Error("exercises should be initialised")
			}
		})
	}
}

func TestWorkoutV1FillsNamesWithoutMutatingInput(t *testing.T) {
	in := models.Workout{
		ID:   "w",
		Date: "2024-01-01",
		Exercises: []models.WorkoutExercise{
			{ExerciseID: "Gone_Exercise"},
			{ExerciseID: "Pullups", ExerciseName: "Pullups", Sets: []models.WorkoutSet{{Reps: 8}}},
		},
	}

	out := workoutV1(in)
	if out.Exercises[0].ExerciseName != "Gone_Exercise" {
		t.Errorf("Expected name from id, got %q", out.Exercises[0].ExerciseName)
	}
	if out.Exercises[0].Sets == nil {
		t.Error("Expected sets initialised")
	}
	if in.Exercises[0].ExerciseName != "" {
		t.Error("Input record was mutated")
	}

	out.Exercises[1].Sets[0].Reps = 99
	if in.Exercises[1].Sets[0].Reps != 8 {
		t.Error("Output shares set storage with input")
	}
}

func TestSessionV1ConvertsLegacyUnits(t *testing.T) {
	in := models.WorkoutSession{
		ID: "s",
		ExerciseLogs: []models.ExerciseLog{
			{ExerciseID: "a", LegacyWeightKg: ptr(82.5), LegacyDistanceKm: ptr(5.2)},
			{ExerciseID: "b", WeightDg: ptr(uint32(600000)), LegacyWeightKg: ptr(1.0)},
			{ExerciseID: "c"},
		},
	}

	out := sessionV1(in)

	a := out.ExerciseLogs[0]
	if a.WeightDg == nil || *a.WeightDg != 825000 {
		t.Errorf("Expected 825000 dg, got %v", a.WeightDg)
	}
	if a.DistanceDam == nil || *a.DistanceDam != 520 {
		t.Errorf("Expected 520 dam, got %v", a.DistanceDam)
	}
	if a.LegacyWeightKg != nil || a.LegacyDistanceKm != nil {
		t.Error("Legacy fields should be cleared")
	}

	b := out.ExerciseLogs[1]
	if *b.WeightDg != 600000 {
		t.Errorf("Existing weight must win over legacy, got %d", *b.WeightDg)
	}

	if out.ExerciseLogs[2].WeightDg != nil {
		t.Error("Log without weight should stay without weight")
	}
	if in.ExerciseLogs[0].LegacyWeightKg == nil {
		t.Error("Input record was mutated")
	}
}

func TestExerciseV1(t *testing.T) {
	out := exerciseV1(models.Exercise{Name: "Zercher Squat", Category: "Strength"})

	if out.ID != "Zercher_Squat" {
		t.Errorf("Expected derived id, got %q", out.ID)
	}
	if out.Category != models.CategoryStrength {
		t.Errorf("Expected lowercase category, got %q", out.Category)
	}
	if out.Level != models.LevelBeginner {
		t.Errorf("Expected default level, got %q", out.Level)
	}
	if out.PrimaryMuscles == nil || out.Images == nil {
		t.Error("Expected slices initialised")
	}

	kept := exerciseV1(models.Exercise{ID: "custom-1", Name: "X", Level: models.LevelExpert})
	if kept.ID != "custom-1" || kept.Level != models.LevelExpert {
		t.Errorf("Existing fields should be kept, got %+v", kept)
	}
}
