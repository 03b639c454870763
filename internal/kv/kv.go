// ABOUTME: Key-value persistence surface shared by every storage backend.
// ABOUTME: Values are JSON text addressed by string keys.
package kv

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrReadOnly is returned by writes against a backend opened read-only.
	ErrReadOnly = errors.New("cannot write: database is locked by another process")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// Store is the get/set surface the storage layer is built on.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists all keys in lexical order.
	Keys() ([]string, error)
	Close() error
}

// KeysWithPrefix filters the keys of s by prefix.
func KeysWithPrefix(s Store, prefix string) ([]string, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}
