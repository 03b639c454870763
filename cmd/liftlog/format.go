// ABOUTME: Shared parsing and formatting helpers for CLI output.
// ABOUTME: Covers time parsing, ID shortening, padding and log descriptions.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		models.DateLayout,
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// describeLog renders the measured values of a log ("82.5 kg × 5").
func describeLog(l models.ExerciseLog) string {
	var parts []string
	if l.WeightDg != nil && l.Reps != nil {
		parts = append(parts, fmt.Sprintf("%s × %d", models.FormatWeight(*l.WeightDg), *l.Reps))
	} else if l.WeightDg != nil {
		parts = append(parts, models.FormatWeight(*l.WeightDg))
	} else if l.Reps != nil {
		parts = append(parts, fmt.Sprintf("%d reps", *l.Reps))
	}
	if l.DistanceDam != nil {
		parts = append(parts, models.FormatDistance(*l.DistanceDam))
	}
	if d := l.DurationSeconds(); d != nil && *d > 0 {
		parts = append(parts, models.FormatDuration(*d))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// describeSet renders one workout set.
func describeSet(set models.WorkoutSet) string {
	var parts []string
	if set.Reps > 0 {
		parts = append(parts, fmt.Sprintf("%d reps", set.Reps))
	}
	if set.Weight != nil {
		parts = append(parts, fmt.Sprintf("%s kg", humanize.Ftoa(*set.Weight)))
	}
	if set.Distance != nil {
		parts = append(parts, fmt.Sprintf("%s km", humanize.Ftoa(*set.Distance)))
	}
	if set.Duration != nil {
		parts = append(parts, models.FormatDuration(uint64(*set.Duration)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// lookupError turns storage lookup failures into CLI messages.
func lookupError(kind, idOrPrefix string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s not found: %s", kind, idOrPrefix)
	case errors.Is(err, storage.ErrAmbiguous):
		return fmt.Errorf("%s prefix %q matches more than one record; use more characters", kind, idOrPrefix)
	default:
		return err
	}
}
