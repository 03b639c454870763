// ABOUTME: Tests for WorkoutSession and ExerciseLog models.
// ABOUTME: Validates lifecycle helpers and unit accessors.
package models

import (
	"testing"
	"time"
)

func u64(v uint64) *uint64 { return &v }
func u32(v uint32) *uint32 { return &v }

func TestNewWorkoutSession(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	s := NewWorkoutSessionAt(start)

	if s.ID == "" {
		t.Error("expected ID to be set")
	}
	if s.StartTime != 1_700_000_000 {
		t.Errorf("StartTime = %d", s.StartTime)
	}
	if !s.IsActive() {
		t.Error("expected new session to be active")
	}
	if !s.IsCancelled() {
		t.Error("expected session without logs to count as cancelled")
	}
}

func TestSessionAddLogStartsRest(t *testing.T) {
	s := NewWorkoutSessionAt(time.Unix(100, 0))
	s.AddLog(ExerciseLog{ExerciseID: "a", StartTime: 100, EndTime: u64(160)})

	if s.IsCancelled() {
		t.Error("expected session with a log not to be cancelled")
	}
	if s.RestStartTime == nil || *s.RestStartTime != 160 {
		t.Errorf("RestStartTime = %v, want 160", s.RestStartTime)
	}

	s.Finish(time.Unix(400, 0))
	if s.IsActive() {
		t.Error("expected finished session to be inactive")
	}
	if s.RestStartTime != nil {
		t.Error("expected rest timer to be cleared on finish")
	}
	if got := s.Duration(time.Unix(9999, 0)); got != 300*time.Second {
		t.Errorf("Duration = %v, want 5m", got)
	}
}

func TestExerciseLogDuration(t *testing.T) {
	open := ExerciseLog{StartTime: 10}
	if open.DurationSeconds() != nil {
		t.Error("expected nil duration for open log")
	}

	closed := ExerciseLog{StartTime: 10, EndTime: u64(70)}
	if d := closed.DurationSeconds(); d == nil || *d != 60 {
		t.Errorf("DurationSeconds = %v, want 60", d)
	}

	backwards := ExerciseLog{StartTime: 70, EndTime: u64(10)}
	if d := backwards.DurationSeconds(); d == nil || *d != 0 {
		t.Errorf("DurationSeconds = %v, want 0 for clock skew", d)
	}
}

func TestExerciseLogUnits(t *testing.T) {
	l := ExerciseLog{WeightDg: u32(825000), DistanceDam: u32(520)}

	if kg := l.WeightKg(); kg == nil || *kg != 82.5 {
		t.Errorf("WeightKg = %v, want 82.5", kg)
	}
	if km := l.DistanceKm(); km == nil || *km != 5.2 {
		t.Errorf("DistanceKm = %v, want 5.2", km)
	}
	if (ExerciseLog{}).WeightKg() != nil {
		t.Error("expected nil weight when unset")
	}
}

func TestForceHasReps(t *testing.T) {
	if !ForcePush.HasReps() || !ForcePull.HasReps() {
		t.Error("push and pull should count reps")
	}
	if ForceStatic.HasReps() {
		t.Error("static holds should not count reps")
	}
}
