// ABOUTME: Lazily loaded, mutex-guarded in-memory copy of one collection.
// ABOUTME: The lock covers loading and every mutation up to its write.
package storage

import (
	"encoding/json"
	"errors"
	"sync"
)

var errNotLoaded = errors.New("collection not loaded")

// Collection caches the records stored under one key, plus the raw JSON of
// stored elements that did not decode.
type Collection[T Record[T]] struct {
	key    string
	mu     sync.Mutex
	loaded bool
	items  []T
	kept   []json.RawMessage
}

// NewCollection creates an unloaded collection for key.
func NewCollection[T Record[T]](key string) *Collection[T] {
	return &Collection[T]{key: key}
}

// Key returns the KV key backing the collection.
func (c *Collection[T]) Key() string { return c.key }

// Ensure runs load until a call succeeds and keeps its result. It reports
// whether this call did the loading. A failed load leaves the collection
// unloaded and returns the error.
func (c *Collection[T]) Ensure(load func() ([]T, []json.RawMessage, error)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return false, nil
	}
	items, kept, err := load()
	if err != nil {
		return false, err
	}
	c.items, c.kept, c.loaded = items, kept, true
	return true, nil
}

// Loaded reports whether the collection has been loaded.
func (c *Collection[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Snapshot returns a copy of the cached records.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

// Mutate applies fn to a copy of the records and hands the result to
// persist without releasing the lock, so writes reach storage in the order
// they were applied. An fn error leaves the cache unchanged; a persist error
// does not roll it back.
func (c *Collection[T]) Mutate(fn func([]T) ([]T, error), persist func([]T, []json.RawMessage) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return &Error{Op: "save", Key: c.key, Kind: ErrRead, Err: errNotLoaded}
	}
	next, err := fn(c.copyItems())
	if err != nil {
		return err
	}
	c.items = next
	return persist(c.copyItems(), c.kept)
}

func (c *Collection[T]) copyItems() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// withRecord replaces the record with the same ID or appends it.
func withRecord[T Record[T]](items []T, record T) []T {
	for i := range items {
		if items[i].RecordID() == record.RecordID() {
			items[i] = record
			return items
		}
	}
	return append(items, record)
}

// withoutRecord drops every record with id.
func withoutRecord[T Record[T]](items []T, id string) []T {
	kept := items[:0:0]
	for _, r := range items {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	return kept
}
