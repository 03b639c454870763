// ABOUTME: Tests for copying data between key-value backends.
// ABOUTME: Covers memory-to-sqlite copies and the directory emptiness check.
package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/liftlog/internal/kv"
)

func TestMigrateBackend(t *testing.T) {
	src := kv.NewMemory()
	_ = src.Set(WorkoutsKey, `[{"id":"w1","date":"2024-01-01","exercises":[]},{"id":"w2","date":"2024-01-02","exercises":[]}]`)
	_ = src.Set(SessionsKey, `[]`)
	_ = src.Set(CustomExercisesKey, `not json`)
	_ = src.Set("exercise_db_last_fetch", "1700000000")

	dst, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer dst.Close()

	summary, err := MigrateBackend(src, dst)
	if err != nil {
		t.Fatalf("MigrateBackend failed: %v", err)
	}
	if summary.Keys != 4 {
		t.Errorf("Expected 4 keys, got %d", summary.Keys)
	}
	if summary.Workouts != 2 || summary.Sessions != 0 || summary.CustomExercises != 0 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	raw, ok, err := dst.Get(CustomExercisesKey)
	if err != nil || !ok || raw != "not json" {
		t.Errorf("Values must be copied verbatim, got %q %v %v", raw, ok, err)
	}
}

func TestMigrateBackendClosedSource(t *testing.T) {
	src := kv.NewMemory()
	_ = src.Close()
	if _, err := MigrateBackend(src, kv.NewMemory()); err == nil {
		t.Error("Expected error from closed source")
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirNonEmpty(dir)
	if err != nil || empty {
		t.Errorf("Expected empty dir, got %v %v", empty, err)
	}

	missing, err := IsDirNonEmpty(filepath.Join(dir, "nope"))
	if err != nil || missing {
		t.Errorf("Expected missing dir to be empty, got %v %v", missing, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	full, err := IsDirNonEmpty(dir)
	if err != nil || !full {
		t.Errorf("Expected non-empty dir, got %v %v", full, err)
	}
}
