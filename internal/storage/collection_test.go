// ABOUTME: Tests for the lazily loaded in-memory collection.
// ABOUTME: Verifies single loading, failed loads and locked mutation.
package storage

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/harperreed/liftlog/internal/models"
)

func noPersist([]models.Workout, []json.RawMessage) error { return nil }

func loadedCollection(t *testing.T, items ...models.Workout) *Collection[models.Workout] {
	t.Helper()
	c := NewCollection[models.Workout](WorkoutsKey)
	if _, err := c.Ensure(func() ([]models.Workout, []json.RawMessage, error) {
		return items, nil, nil
	}); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	return c
}

func TestCollectionEnsureLoadsOnce(t *testing.T) {
	c := NewCollection[models.Workout](WorkoutsKey)
	calls := 0
	load := func() ([]models.Workout, []json.RawMessage, error) {
		calls++
		return []models.Workout{{ID: "a"}}, nil, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Ensure(load)
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("Expected one load, got %d", calls)
	}
	if !c.Loaded() {
		t.Error("Expected collection to be loaded")
	}
	if did, _ := c.Ensure(load); did {
		t.Error("Ensure should report false once loaded")
	}
}

func TestCollectionFailedLoadStaysUnloaded(t *testing.T) {
	c := NewCollection[models.Workout](WorkoutsKey)
	_, err := c.Ensure(func() ([]models.Workout, []json.RawMessage, error) {
		return nil, nil, errDiskFull
	})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("Expected load error, got %v", err)
	}
	if c.Loaded() {
		t.Error("Failed load must not mark the collection loaded")
	}

	err = c.Mutate(func(items []models.Workout) ([]models.Workout, error) {
		return append(items, models.Workout{ID: "x"}), nil
	}, noPersist)
	if !errors.Is(err, ErrRead) {
		t.Errorf("Expected mutation of an unloaded collection to fail with ErrRead, got %v", err)
	}

	did, err := c.Ensure(func() ([]models.Workout, []json.RawMessage, error) {
		return []models.Workout{{ID: "a"}}, nil, nil
	})
	if err != nil || !did || len(c.Snapshot()) != 1 {
		t.Errorf("Expected retry to load, got did=%v err=%v", did, err)
	}
}

func TestCollectionMutate(t *testing.T) {
	c := loadedCollection(t, models.Workout{ID: "a", Date: "2024-01-01"}, models.Workout{ID: "b", Date: "2024-01-02"})

	var written []models.Workout
	err := c.Mutate(func(items []models.Workout) ([]models.Workout, error) {
		return withRecord(items, models.Workout{ID: "a", Date: "2024-02-01"}), nil
	}, func(items []models.Workout, _ []json.RawMessage) error {
		written = items
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if len(written) != 2 || written[0].Date != "2024-02-01" {
		t.Errorf("Expected replacement in place, got %+v", written)
	}

	written[0].Date = "changed"
	if c.Snapshot()[0].Date != "2024-02-01" {
		t.Error("Persisted slice aliases the cache")
	}

	err = c.Mutate(func([]models.Workout) ([]models.Workout, error) {
		return nil, ErrNotFound
	}, noPersist)
	if !errors.Is(err, ErrNotFound) || len(c.Snapshot()) != 2 {
		t.Errorf("Failed mutation should leave the cache alone: %v", err)
	}

	err = c.Mutate(func(items []models.Workout) ([]models.Workout, error) {
		return withoutRecord(items, "a"), nil
	}, func([]models.Workout, []json.RawMessage) error { return errDiskFull })
	if !errors.Is(err, errDiskFull) {
		t.Errorf("Expected persist error, got %v", err)
	}
	if got := c.Snapshot(); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Cache should keep the new state after a failed write, got %+v", got)
	}
}

func TestCollectionMutatePassesKeptElements(t *testing.T) {
	c := NewCollection[models.Workout](WorkoutsKey)
	raw := json.RawMessage(`{"id":5}`)
	_, _ = c.Ensure(func() ([]models.Workout, []json.RawMessage, error) {
		return nil, []json.RawMessage{raw}, nil
	})

	var kept []json.RawMessage
	_ = c.Mutate(func(items []models.Workout) ([]models.Workout, error) {
		return withRecord(items, models.Workout{ID: "a"}), nil
	}, func(_ []models.Workout, k []json.RawMessage) error {
		kept = k
		return nil
	})
	if len(kept) != 1 || string(kept[0]) != string(raw) {
		t.Errorf("Expected the unreadable element to be handed to persist, got %s", kept)
	}
}
