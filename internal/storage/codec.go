// ABOUTME: JSON encoding of record collections stored under a single KV key.
// ABOUTME: Loading is lenient per record; saving returns typed errors.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harperreed/liftlog/internal/kv"
)

// Collection keys.
const (
	WorkoutsKey        = "workouts"
	SessionsKey        = "sessions"
	CustomExercisesKey = "custom_exercises"
)

// Unreadable is a stored element that did not decode. Its raw JSON is
// written back by SaveKeeping so a later save does not erase it.
type Unreadable struct {
	Index int
	Raw   json.RawMessage
	Err   error
}

func (u Unreadable) Error() string {
	return fmt.Sprintf("record %d: %v", u.Index, u.Err)
}

// Decode parses a JSON array of records. Elements that fail to decode are
// returned in skipped; null elements are dropped. A malformed array is an
// error.
func Decode[T any](raw string) (records []T, skipped []Unreadable, err error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, nil, err
	}
	records = make([]T, 0, len(elems))
	for i, elem := range elems {
		if string(elem) == "null" {
			continue
		}
		var r T
		if err := json.Unmarshal(elem, &r); err != nil {
			skipped = append(skipped, Unreadable{Index: i, Raw: elem, Err: err})
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

// Read fetches and decodes key. A missing key yields an empty collection.
// Backend failures match ErrRead, unparsable text matches ErrDecode.
func Read[T any](store kv.Store, key string) ([]T, []Unreadable, error) {
	raw, ok, err := store.Get(key)
	if err != nil {
		return nil, nil, &Error{Op: "load", Key: key, Kind: ErrRead, Err: err}
	}
	if !ok {
		return []T{}, nil, nil
	}
	records, skipped, err := Decode[T](raw)
	if err != nil {
		return nil, nil, &Error{Op: "load", Key: key, Kind: ErrDecode, Err: err}
	}
	return records, skipped, nil
}

// Load is Read that never fails: read or parse errors are logged and an
// empty collection is returned.
func Load[T any](store kv.Store, key string, logger *log.Logger) []T {
	records, _, err := loadKeeping[T](store, key, logger)
	if err != nil {
		return []T{}
	}
	return records
}

// loadKeeping treats unparsable text as an empty collection but returns
// backend failures, so a caller never caches a collection it could not read.
// The raw JSON of undecodable elements is returned alongside the records.
func loadKeeping[T any](store kv.Store, key string, logger *log.Logger) ([]T, []json.RawMessage, error) {
	records, skipped, err := Read[T](store, key)
	switch {
	case errors.Is(err, ErrDecode):
		logger.Error("treating collection as empty", "key", key, "err", err)
		return []T{}, nil, nil
	case err != nil:
		logger.Error("load failed", "key", key, "err", err)
		return nil, nil, err
	}
	var kept []json.RawMessage
	for _, u := range skipped {
		logger.Warn("keeping unreadable record", "key", key, "err", u)
		kept = append(kept, u.Raw)
	}
	return records, kept, nil
}

// Save encodes records as a JSON array and writes it under key.
func Save[T any](store kv.Store, key string, records []T) error {
	return SaveKeeping(store, key, records, nil)
}

// SaveKeeping writes records followed by raw elements carried over from
// the last load.
func SaveKeeping[T any](store kv.Store, key string, records []T, kept []json.RawMessage) error {
	elems := make([]json.RawMessage, 0, len(records)+len(kept))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return &Error{Op: "save", Key: key, Kind: ErrSerialize, Err: err}
		}
		elems = append(elems, data)
	}
	elems = append(elems, kept...)
	data, err := json.Marshal(elems)
	if err != nil {
		return &Error{Op: "save", Key: key, Kind: ErrSerialize, Err: err}
	}
	if err := store.Set(key, string(data)); err != nil {
		return &Error{Op: "save", Key: key, Kind: ErrWrite, Err: err}
	}
	return nil
}
