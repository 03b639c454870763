// ABOUTME: Typed storage errors returned by Save and the Store write paths.
// ABOUTME: Kinds are sentinels so callers can branch with errors.Is.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no record matched an ID or prefix.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous means an ID prefix matched more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")

	// ErrSessionActive means a session is already in progress.
	ErrSessionActive = errors.New("a session is already in progress")

	// ErrSessionFinished means the session already has an end time.
	ErrSessionFinished = errors.New("session already finished")

	// ErrSerialize means a collection could not be encoded as JSON.
	ErrSerialize = errors.New("serialize failed")

	// ErrWrite means the key-value store rejected a write.
	ErrWrite = errors.New("write failed")

	// ErrRead means the key-value store could not be read.
	ErrRead = errors.New("read failed")

	// ErrDecode means the stored text under a key is not a JSON array.
	ErrDecode = errors.New("decode failed")

	// ErrInvalid means a record was rejected before it reached storage.
	ErrInvalid = errors.New("invalid record")
)

// Error describes a failed storage operation on one key.
type Error struct {
	Op   string // load, save, delete
	Key  string
	Kind error // one of the sentinels above
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error kind as well as the wrapped cause.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}
