// ABOUTME: WorkoutSession and ExerciseLog models for live training sessions.
// ABOUTME: Timestamps are unix seconds; weight and distance use integer units.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseLog is one completed exercise within a session.
type ExerciseLog struct {
	ExerciseID   string   `json:"exercise_id" yaml:"exercise_id"`
	ExerciseName string   `json:"exercise_name" yaml:"exercise_name"`
	Category     Category `json:"category" yaml:"category"`
	StartTime    uint64   `json:"start_time" yaml:"start_time"`
	EndTime      *uint64  `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	WeightDg     *uint32  `json:"weight_dg,omitempty" yaml:"weight_dg,omitempty"`
	Reps         *uint32  `json:"reps,omitempty" yaml:"reps,omitempty"`
	DistanceDam  *uint32  `json:"distance_dam,omitempty" yaml:"distance_dam,omitempty"`
	Force        *Force   `json:"force,omitempty" yaml:"force,omitempty"`

	// Pre-v1 records stored kilograms and kilometres as floats.
	LegacyWeightKg   *float64 `json:"weight,omitempty" yaml:"-"`
	LegacyDistanceKm *float64 `json:"distance,omitempty" yaml:"-"`
}

// DurationSeconds returns the elapsed time of the log, or nil while it is open.
func (l ExerciseLog) DurationSeconds() *uint64 {
	if l.EndTime == nil {
		return nil
	}
	var d uint64
	if *l.EndTime > l.StartTime {
		d = *l.EndTime - l.StartTime
	}
	return &d
}

// WeightKg returns the logged weight in kilograms.
func (l ExerciseLog) WeightKg() *float64 {
	if l.WeightDg == nil {
		return nil
	}
	kg := float64(*l.WeightDg) / DecigramsPerKg
	return &kg
}

// DistanceKm returns the logged distance in kilometres.
func (l ExerciseLog) DistanceKm() *float64 {
	if l.DistanceDam == nil {
		return nil
	}
	km := float64(*l.DistanceDam) / DecametresPerKm
	return &km
}

// WorkoutSession is a live or finished training session.
type WorkoutSession struct {
	ID            string        `json:"id" yaml:"id"`
	StartTime     uint64        `json:"start_time" yaml:"start_time"`
	EndTime       *uint64       `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	ExerciseLogs  []ExerciseLog `json:"exercise_logs" yaml:"exercise_logs"`
	RestStartTime *uint64       `json:"rest_start_time,omitempty" yaml:"rest_start_time,omitempty"`
	Version       uint32        `json:"version" yaml:"version"`
}

// NewWorkoutSession starts a session now.
func NewWorkoutSession() *WorkoutSession {
	return NewWorkoutSessionAt(time.Now())
}

// NewWorkoutSessionAt starts a session at the given time.
func NewWorkoutSessionAt(t time.Time) *WorkoutSession {
	return &WorkoutSession{
		ID:           uuid.New().String(),
		StartTime:    uint64(t.Unix()),
		ExerciseLogs: []ExerciseLog{},
	}
}

// IsActive reports whether the session has not been finished yet.
func (s WorkoutSession) IsActive() bool {
	return s.EndTime == nil
}

// IsCancelled reports whether the session has no logged exercises.
// Finishing a cancelled session discards it.
func (s WorkoutSession) IsCancelled() bool {
	return len(s.ExerciseLogs) == 0
}

// Finish stamps the end time.
func (s *WorkoutSession) Finish(t time.Time) {
	end := uint64(t.Unix())
	s.EndTime = &end
	s.RestStartTime = nil
}

// AddLog appends a completed exercise log and starts the rest timer at its end.
func (s *WorkoutSession) AddLog(l ExerciseLog) {
	s.ExerciseLogs = append(s.ExerciseLogs, l)
	if l.EndTime != nil {
		rest := *l.EndTime
		s.RestStartTime = &rest
	}
}

// Started returns the start time.
func (s WorkoutSession) Started() time.Time {
	return time.Unix(int64(s.StartTime), 0)
}

// Duration returns the session length; open sessions are measured up to now.
func (s WorkoutSession) Duration(now time.Time) time.Duration {
	end := uint64(now.Unix())
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end < s.StartTime {
		return 0
	}
	return time.Duration(end-s.StartTime) * time.Second
}

// RecordID implements the storage record contract.
func (s WorkoutSession) RecordID() string { return s.ID }

// SchemaVersion returns the persisted schema version.
func (s WorkoutSession) SchemaVersion() uint32 { return s.Version }

// WithSchemaVersion returns a copy stamped with version v.
func (s WorkoutSession) WithSchemaVersion(v uint32) WorkoutSession {
	s.Version = v
	return s
}

// ExerciseRefs lists the (id, cached name) pairs referenced by the session.
func (s WorkoutSession) ExerciseRefs() []ExerciseRef {
	refs := make([]ExerciseRef, 0, len(s.ExerciseLogs))
	for _, l := range s.ExerciseLogs {
		refs = append(refs, ExerciseRef{ID: l.ExerciseID, Name: l.ExerciseName})
	}
	return refs
}
