// ABOUTME: Export and import of all liftlog data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/liftlog/internal/models"
)

// ExportFormatVersion is written into every export.
const ExportFormatVersion = "1.0"

// ExportData is the full export format.
type ExportData struct {
	Version         string                  `json:"version" yaml:"version"`
	ExportedAt      time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool            string                  `json:"tool" yaml:"tool"`
	Workouts        []models.Workout        `json:"workouts" yaml:"workouts"`
	Sessions        []models.WorkoutSession `json:"sessions" yaml:"sessions"`
	CustomExercises []models.Exercise       `json:"custom_exercises" yaml:"custom_exercises"`
}

// ImportSummary counts imported records.
type ImportSummary struct {
	Workouts        int `json:"workouts"`
	Sessions        int `json:"sessions"`
	CustomExercises int `json:"custom_exercises"`
}

// AllData snapshots every collection for export.
func (s *Store) AllData(now time.Time) *ExportData {
	return &ExportData{
		Version:         ExportFormatVersion,
		ExportedAt:      now,
		Tool:            "liftlog",
		Workouts:        s.Workouts(),
		Sessions:        s.Sessions(),
		CustomExercises: s.CustomExercises(),
	}
}

// ExportJSON exports all data as indented JSON.
func (s *Store) ExportJSON(now time.Time) ([]byte, error) {
	return json.MarshalIndent(s.AllData(now), "", "  ")
}

// ExportYAML exports a human-oriented YAML rendering: sessions show
// formatted weights, distances and durations instead of raw integers.
func (s *Store) ExportYAML(now time.Time) ([]byte, error) {
	data := s.AllData(now)

	out := struct {
		Version         string            `yaml:"version"`
		ExportedAt      string            `yaml:"exported_at"`
		Tool            string            `yaml:"tool"`
		Workouts        []yamlWorkout     `yaml:"workouts"`
		Sessions        []yamlSession     `yaml:"sessions"`
		CustomExercises []models.Exercise `yaml:"custom_exercises"`
	}{
		Version:         data.Version,
		ExportedAt:      data.ExportedAt.Format(time.RFC3339),
		Tool:            data.Tool,
		Workouts:        make([]yamlWorkout, 0, len(data.Workouts)),
		Sessions:        make([]yamlSession, 0, len(data.Sessions)),
		CustomExercises: data.CustomExercises,
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{ID: shortID(w.ID), Date: w.Date}
		if w.Notes != nil {
			yw.Notes = *w.Notes
		}
		for _, ex := range w.Exercises {
			ye := yamlWorkoutExercise{Name: ex.DisplayName(s.ResolveExercise)}
			for _, set := range ex.Sets {
				ye.Sets = append(ye.Sets, describeSet(set))
			}
			yw.Exercises = append(yw.Exercises, ye)
		}
		out.Workouts = append(out.Workouts, yw)
	}

	for _, sess := range data.Sessions {
		ys := yamlSession{
			ID:        shortID(sess.ID),
			StartedAt: sess.Started().UTC().Format(time.RFC3339),
			Duration:  models.FormatDuration(uint64(sess.Duration(now).Seconds())),
		}
		for _, l := range sess.ExerciseLogs {
			yl := yamlLog{Exercise: l.ExerciseName}
			if l.WeightDg != nil {
				yl.Weight = models.FormatWeight(*l.WeightDg)
			}
			if l.Reps != nil {
				yl.Reps = *l.Reps
			}
			if l.DistanceDam != nil {
				yl.Distance = models.FormatDistance(*l.DistanceDam)
			}
			if d := l.DurationSeconds(); d != nil {
				yl.Duration = models.FormatDuration(*d)
			}
			ys.Exercises = append(ys.Exercises, yl)
		}
		out.Sessions = append(out.Sessions, ys)
	}

	return yaml.Marshal(out)
}

type yamlWorkout struct {
	ID        string                `yaml:"id"`
	Date      string                `yaml:"date"`
	Notes     string                `yaml:"notes,omitempty"`
	Exercises []yamlWorkoutExercise `yaml:"exercises,omitempty"`
}

type yamlWorkoutExercise struct {
	Name string   `yaml:"name"`
	Sets []string `yaml:"sets,omitempty"`
}

type yamlSession struct {
	ID        string    `yaml:"id"`
	StartedAt string    `yaml:"started_at"`
	Duration  string    `yaml:"duration"`
	Exercises []yamlLog `yaml:"exercises,omitempty"`
}

type yamlLog struct {
	Exercise string `yaml:"exercise"`
	Weight   string `yaml:"weight,omitempty"`
	Reps     uint32 `yaml:"reps,omitempty"`
	Distance string `yaml:"distance,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// describeSet renders a set as "8 x 60.0 kg", "5.00 km in 25:00" and so on.
func describeSet(set models.WorkoutSet) string {
	var parts []string
	if set.Reps > 0 {
		parts = append(parts, fmt.Sprintf("%d reps", set.Reps))
	}
	if set.Weight != nil {
		parts = append(parts, fmt.Sprintf("@ %.1f kg", *set.Weight))
	}
	if set.Distance != nil {
		parts = append(parts, fmt.Sprintf("%.2f km", *set.Distance))
	}
	if set.Duration != nil {
		parts = append(parts, "in "+models.FormatDuration(uint64(*set.Duration)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// ExportMarkdown renders workouts and sessions as Markdown tables. A non-nil
// since drops anything older.
func (s *Store) ExportMarkdown(now time.Time, since *time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Liftlog Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var workouts []models.Workout
	for _, w := range s.Workouts() {
		if since != nil {
			if d, err := w.ParsedDate(); err == nil && d.Before(*since) {
				continue
			}
		}
		workouts = append(workouts, w)
	}

	if len(workouts) > 0 {
		sb.WriteString("## Workouts\n\n")
		sb.WriteString("| Date | Exercise | Sets | Notes |\n")
		sb.WriteString("|------|----------|------|-------|\n")
		for _, w := range workouts {
			notes := ""
			if w.Notes != nil {
				notes = *w.Notes
			}
			if len(w.Exercises) == 0 {
				sb.WriteString(fmt.Sprintf("| %s | - | - | %s |\n", w.Date, notes))
				continue
			}
			for _, ex := range w.Exercises {
				sets := make([]string, 0, len(ex.Sets))
				for _, set := range ex.Sets {
					sets = append(sets, describeSet(set))
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
					w.Date, ex.DisplayName(s.ResolveExercise), strings.Join(sets, ", "), notes))
			}
		}
		sb.WriteString("\n")
	}

	var sessions []models.WorkoutSession
	for _, sess := range s.Sessions() {
		if since != nil && sess.Started().Before(*since) {
			continue
		}
		sessions = append(sessions, sess)
	}

	if len(sessions) > 0 {
		sb.WriteString("## Sessions\n\n")
		sb.WriteString("| Started | Duration | Exercises |\n")
		sb.WriteString("|---------|----------|-----------|\n")
		for _, sess := range sessions {
			names := make([]string, 0, len(sess.ExerciseLogs))
			for _, l := range sess.ExerciseLogs {
				names = append(names, l.ExerciseName)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				sess.Started().UTC().Format("2006-01-02 15:04"),
				models.FormatDuration(uint64(sess.Duration(now).Seconds())),
				strings.Join(names, ", ")))
		}
	}

	return sb.String()
}

// ImportJSON imports an export file. Records pass through the migration
// chains, and existing records with the same ID are replaced.
func (s *Store) ImportJSON(data []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return s.ImportData(&exportData)
}

// ImportData saves every record in data.
func (s *Store) ImportData(data *ExportData) (*ImportSummary, error) {
	summary := &ImportSummary{}

	for _, ex := range data.CustomExercises {
		if _, err := s.SaveCustomExercise(ex); err != nil {
			return summary, fmt.Errorf("import custom exercise %s: %w", ex.ID, err)
		}
		summary.CustomExercises++
	}
	for _, w := range data.Workouts {
		if _, err := s.SaveWorkout(w); err != nil {
			return summary, fmt.Errorf("import workout %s: %w", w.ID, err)
		}
		summary.Workouts++
	}
	for _, sess := range data.Sessions {
		if _, err := s.SaveSession(sess); err != nil {
			return summary, fmt.Errorf("import session %s: %w", sess.ID, err)
		}
		summary.Sessions++
	}

	return summary, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
