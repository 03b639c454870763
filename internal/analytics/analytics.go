// ABOUTME: Progress analytics computed from logged sessions.
// ABOUTME: Time series per exercise and metric, personal bests, and volume.
package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// Metric selects which value of an exercise log is plotted.
type Metric string

const (
	MetricWeight   Metric = "weight"
	MetricReps     Metric = "reps"
	MetricDistance Metric = "distance"
	MetricDuration Metric = "duration"
)

// AllMetrics lists the supported metrics.
var AllMetrics = []Metric{MetricWeight, MetricReps, MetricDistance, MetricDuration}

// ParseMetric validates a metric name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllMetrics {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q (want weight, reps, distance or duration)", s)
}

// Label is the axis label for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricWeight:
		return "Weight (kg)"
	case MetricReps:
		return "Repetitions"
	case MetricDistance:
		return "Distance (km)"
	case MetricDuration:
		return "Duration (minutes)"
	default:
		return string(m)
	}
}

// Value extracts the metric from a log. Logs without it return false.
func (m Metric) Value(l models.ExerciseLog) (float64, bool) {
	switch m {
	case MetricWeight:
		if kg := l.WeightKg(); kg != nil {
			return *kg, true
		}
	case MetricReps:
		if l.Reps != nil {
			return float64(*l.Reps), true
		}
	case MetricDistance:
		if km := l.DistanceKm(); km != nil {
			return *km, true
		}
	case MetricDuration:
		if d := l.DurationSeconds(); d != nil {
			return float64(*d) / 60, true
		}
	}
	return 0, false
}

// Point is one observation in a series.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series collects the metric for one exercise across sessions, oldest first.
func Series(sessions []models.WorkoutSession, exerciseID string, metric Metric) []Point {
	points := []Point{}
	for _, s := range sessions {
		for _, l := range s.ExerciseLogs {
			if l.ExerciseID != exerciseID {
				continue
			}
			if v, ok := metric.Value(l); ok {
				points = append(points, Point{Time: time.Unix(int64(l.StartTime), 0).UTC(), Value: v})
			}
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points
}

// AvailableExercises lists the exercises that appear in any session, sorted
// by cached name. When names differ the most recent log wins.
func AvailableExercises(sessions []models.WorkoutSession) []models.ExerciseRef {
	type seen struct {
		name string
		at   uint64
	}
	byID := make(map[string]seen)
	for _, s := range sessions {
		for _, l := range s.ExerciseLogs {
			if prev, ok := byID[l.ExerciseID]; !ok || l.StartTime >= prev.at {
				byID[l.ExerciseID] = seen{name: l.ExerciseName, at: l.StartTime}
			}
		}
	}

	refs := make([]models.ExerciseRef, 0, len(byID))
	for id, s := range byID {
		refs = append(refs, models.ExerciseRef{ID: id, Name: s.name})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

// Best holds the personal records for one exercise.
type Best struct {
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	MaxWeightKg  *float64 `json:"max_weight_kg,omitempty"`
	MaxReps      *uint32  `json:"max_reps,omitempty"`
	MaxDistKm    *float64 `json:"max_distance_km,omitempty"`
	LongestSecs  *uint64  `json:"longest_seconds,omitempty"`
	Logs         int      `json:"logs"`
}

// PersonalBests returns per-exercise maxima keyed by exercise ID.
func PersonalBests(sessions []models.WorkoutSession) map[string]Best {
	bests := make(map[string]Best)
	for _, s := range sessions {
		for _, l := range s.ExerciseLogs {
			b := bests[l.ExerciseID]
			b.ExerciseID = l.ExerciseID
			if b.ExerciseName == "" {
				b.ExerciseName = l.ExerciseName
			}
			b.Logs++
			if kg := l.WeightKg(); kg != nil && (b.MaxWeightKg == nil || *kg > *b.MaxWeightKg) {
				b.MaxWeightKg = kg
			}
			if l.Reps != nil && (b.MaxReps == nil || *l.Reps > *b.MaxReps) {
				r := *l.Reps
				b.MaxReps = &r
			}
			if km := l.DistanceKm(); km != nil && (b.MaxDistKm == nil || *km > *b.MaxDistKm) {
				b.MaxDistKm = km
			}
			if d := l.DurationSeconds(); d != nil && (b.LongestSecs == nil || *d > *b.LongestSecs) {
				b.LongestSecs = d
			}
			bests[l.ExerciseID] = b
		}
	}
	return bests
}

// SortedBests returns PersonalBests ordered by exercise name.
func SortedBests(sessions []models.WorkoutSession) []Best {
	m := PersonalBests(sessions)
	out := make([]Best, 0, len(m))
	for _, b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExerciseName != out[j].ExerciseName {
			return out[i].ExerciseName < out[j].ExerciseName
		}
		return out[i].ExerciseID < out[j].ExerciseID
	})
	return out
}

// Volume is the total kilograms lifted in a session (weight times reps).
func Volume(s models.WorkoutSession) float64 {
	total := 0.0
	for _, l := range s.ExerciseLogs {
		kg := l.WeightKg()
		if kg == nil || l.Reps == nil {
			continue
		}
		total += *kg * float64(*l.Reps)
	}
	return total
}
