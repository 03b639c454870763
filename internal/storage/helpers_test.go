// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Provides a KV store whose reads or writes can be made to fail.
package storage

import (
	"errors"
	"testing"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/kv"
	"github.com/harperreed/liftlog/internal/logging"
)

var errDiskFull = errors.New("disk full")

// flakyKV wraps an in-memory store and fails on demand.
type flakyKV struct {
	*kv.Memory
	failGet bool
	failSet bool
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Memory: kv.NewMemory()}
}

func (f *flakyKV) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errDiskFull
	}
	return f.Memory.Get(key)
}

func (f *flakyKV) Set(key, value string) error {
	if f.failSet {
		return errDiskFull
	}
	return f.Memory.Set(key, value)
}

func setupTestStore(t *testing.T, backend kv.Store) *Store {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return New(backend, cat, logging.Discard())
}

func ptr[T any](v T) *T { return &v }
