// ABOUTME: Tests for lenient collection loading and typed save errors.
// ABOUTME: Includes the documented w1 example and malformed input handling.
package storage

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/harperreed/liftlog/internal/kv"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
)

func TestLoadMissingVersionThenMigrate(t *testing.T) {
	store := kv.NewMemory()
	if err := store.Set(WorkoutsKey, `[{"id":"w1","date":"2024-01-01","exercises":[],"notes":null}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	workouts := Load[models.Workout](store, WorkoutsKey, logging.Discard())
	if len(workouts) != 1 {
		t.Fatalf("Expected 1 workout, got %d", len(workouts))
	}
	if workouts[0].Version != 0 {
		t.Errorf("Expected version 0 for absent field, got %d", workouts[0].Version)
	}

	chain := WorkoutChain()
	if !chain.Migrate(workouts) {
		t.Error("Expected first migrate to report a change")
	}
	if workouts[0].Version != 1 || chain.Current() != 1 {
		t.Errorf("Expected version 1, got %d (current %d)", workouts[0].Version, chain.Current())
	}

	once := make([]models.Workout, len(workouts))
	copy(once, workouts)
	if chain.Migrate(workouts) {
		t.Error("Second migrate should be a no-op")
	}
	if workouts[0].Date != once[0].Date || workouts[0].Version != once[0].Version {
		t.Errorf("Migrate not idempotent: %+v vs %+v", workouts[0], once[0])
	}
}

func TestLoadFailsSoft(t *testing.T) {
	tests := []struct {
		name  string
		value *string
	}{
		{"missing key", nil},
		{"malformed", ptr("{not json")},
		{"object instead of array", ptr(`{"id":"w1"}`)},
		{"empty string", ptr("")},
		{"null", ptr("null")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemory()
			if tt.value != nil {
				_ = store.Set(WorkoutsKey, *tt.value)
			}
			got := Load[models.Workout](store, WorkoutsKey, logging.Discard())
			if got == nil || len(got) != 0 {
				t.Errorf("Expected empty non-nil collection, got %#v", got)
			}
		})
	}
}

func TestLoadReadError(t *testing.T) {
	store := newFlakyKV()
	store.failGet = true

	got := Load[models.Workout](store, WorkoutsKey, logging.Discard())
	if len(got) != 0 {
		t.Errorf("Expected empty collection, got %d records", len(got))
	}

	_, _, err := Read[models.Workout](store, WorkoutsKey)
	if !errors.Is(err, ErrRead) || !errors.Is(err, errDiskFull) {
		t.Errorf("Expected ErrRead wrapping the cause, got %v", err)
	}
}

func TestLoadSkipsUnreadableRecords(t *testing.T) {
	store := kv.NewMemory()
	_ = store.Set(WorkoutsKey, `[{"id":"a","date":"2024-01-01","exercises":[]},{"id":5},null,{"id":"b","date":"2024-01-02","exercises":[]}]`)

	records, skipped, err := Read[models.Workout](store, WorkoutsKey)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Errorf("Expected records a and b, got %+v", records)
	}
	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skipped record, got %d", len(skipped))
	}
	if skipped[0].Index != 1 || string(skipped[0].Raw) != `{"id":5}` {
		t.Errorf("Unexpected skipped record: %+v", skipped[0])
	}
}

func TestReadMalformedIsDecodeError(t *testing.T) {
	store := kv.NewMemory()
	_ = store.Set(WorkoutsKey, "{not json")

	_, _, err := Read[models.Workout](store, WorkoutsKey)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
	if errors.Is(err, ErrRead) {
		t.Error("Malformed text must not match ErrRead")
	}
}

func TestSaveKeepingAppendsRawElements(t *testing.T) {
	store := kv.NewMemory()
	kept := []json.RawMessage{json.RawMessage(`{"id":5}`)}

	if err := SaveKeeping(store, WorkoutsKey, []models.Workout{{ID: "a", Date: "2024-01-01", Version: 1}}, kept); err != nil {
		t.Fatalf("SaveKeeping failed: %v", err)
	}
	raw, _, _ := store.Get(WorkoutsKey)
	if !strings.HasPrefix(raw, `[{"id":"a"`) || !strings.HasSuffix(raw, `,{"id":5}]`) {
		t.Errorf("Expected records then kept elements, got %s", raw)
	}
}

func TestSave(t *testing.T) {
	store := kv.NewMemory()

	if err := Save[models.Workout](store, WorkoutsKey, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _, _ := store.Get(WorkoutsKey)
	if raw != "[]" {
		t.Errorf("Expected empty array, got %q", raw)
	}

	w := models.NewWorkout(fixedNow)
	if err := Save(store, WorkoutsKey, []models.Workout{*w}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	back := Load[models.Workout](store, WorkoutsKey, logging.Discard())
	if len(back) != 1 || back[0].ID != w.ID {
		t.Errorf("Round trip lost the workout: %+v", back)
	}
}

func TestSaveErrors(t *testing.T) {
	store := newFlakyKV()
	store.failSet = true

	err := Save(store, WorkoutsKey, []models.Workout{})
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if serr.Key != WorkoutsKey || serr.Op != "save" {
		t.Errorf("Unexpected error fields: %+v", serr)
	}
	if !errors.Is(err, ErrWrite) || !errors.Is(err, errDiskFull) {
		t.Errorf("Expected ErrWrite wrapping the cause, got %v", err)
	}
	if errors.Is(err, ErrSerialize) {
		t.Error("Write failure must not match ErrSerialize")
	}

	err = Save(kv.NewMemory(), "numbers", []float64{math.NaN()})
	if !errors.Is(err, ErrSerialize) {
		t.Errorf("Expected ErrSerialize, got %v", err)
	}
}
