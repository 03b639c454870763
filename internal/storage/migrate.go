// ABOUTME: Copying liftlog data between key-value backends.
// ABOUTME: Used when switching backend, e.g. from sqlite to charm.
package storage

import (
	"fmt"
	"os"

	"github.com/harperreed/liftlog/internal/kv"
)

// BackendSummary counts what MigrateBackend copied.
type BackendSummary struct {
	Keys            int
	Workouts        int
	Sessions        int
	CustomExercises int
}

// MigrateBackend copies every key from src to dst. Values are copied
// verbatim, so schema migration still happens on the next start.
func MigrateBackend(src, dst kv.Store) (*BackendSummary, error) {
	keys, err := src.Keys()
	if err != nil {
		return nil, fmt.Errorf("list source keys: %w", err)
	}

	summary := &BackendSummary{}
	for _, key := range keys {
		value, ok, err := src.Get(key)
		if err != nil {
			return summary, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Set(key, value); err != nil {
			return summary, fmt.Errorf("write %s: %w", key, err)
		}
		summary.Keys++

		switch key {
		case WorkoutsKey:
			summary.Workouts = countRecords(value)
		case SessionsKey:
			summary.Sessions = countRecords(value)
		case CustomExercisesKey:
			summary.CustomExercises = countRecords(value)
		}
	}

	return summary, nil
}

func countRecords(raw string) int {
	records, _, err := Decode[map[string]any](raw)
	if err != nil {
		return 0
	}
	return len(records)
}

// IsDirNonEmpty checks whether a directory exists and contains any entries.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
