// ABOUTME: Charm KV backend with end-to-end encrypted cloud sync.
// ABOUTME: Writes sync to the Charm server automatically unless disabled.
package kv

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/charm/client"
	charmkv "github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// DefaultCharmHost is the Charm server used when none is configured.
const DefaultCharmHost = "charm.2389.dev"

// Charm is a Store backed by a Charm KV database.
type Charm struct {
	kv       *charmkv.KV
	autoSync bool
	mu       sync.RWMutex
}

// OpenCharm opens the named Charm KV database against host.
// Remote data is pulled once on open unless the database is read-only.
func OpenCharm(name, host string) (*Charm, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := charmkv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Charm{kv: db, autoSync: true}
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// IsReadOnly returns true when another process holds the database lock.
func (c *Charm) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Charm) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// Sync synchronizes local state with the Charm server.
func (c *Charm) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// Reset wipes local data and rebuilds it from the server.
func (c *Charm) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// ID returns the Charm user ID for the linked account.
func (c *Charm) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

func (c *Charm) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

func (c *Charm) Get(key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(value), true, nil
}

func (c *Charm) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Charm) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Delete([]byte(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

func (c *Charm) Keys() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}
