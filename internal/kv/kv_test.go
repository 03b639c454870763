// ABOUTME: Contract tests run against every local key-value backend.
// ABOUTME: Charm is excluded because it needs a linked account.
package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := OpenSQLite(filepath.Join(dir, "liftlog.db"))
	require.NoError(t, err)

	badgerStore, err := OpenBadger(filepath.Join(dir, "badger"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
		"badger": badgerStore,
	}
	for _, s := range stores {
		s := s
		t.Cleanup(func() { _ = s.Close() })
	}
	return stores
}

func TestStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get("workouts")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report not found")

			require.NoError(t, store.Set("workouts", `[{"id":"w1"}]`))
			require.NoError(t, store.Set("sessions", `[]`))

			value, ok, err := store.Get("workouts")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"w1"}]`, value)

			require.NoError(t, store.Set("workouts", `[]`))
			value, _, err = store.Get("workouts")
			require.NoError(t, err)
			assert.Equal(t, `[]`, value, "Set should overwrite")

			keys, err := store.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{"sessions", "workouts"}, keys)

			require.NoError(t, store.Delete("sessions"))
			_, ok, err = store.Get("sessions")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKeysWithPrefix(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("exercise_db_cache", "[]"))
	require.NoError(t, m.Set("exercise_db_last_fetch", "1"))
	require.NoError(t, m.Set("workouts", "[]"))

	keys, err := KeysWithPrefix(m, "exercise_db_")
	require.NoError(t, err)
	assert.Equal(t, []string{"exercise_db_cache", "exercise_db_last_fetch"}, keys)
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Close())

	_, _, err := m.Get("x")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set("x", "y"), ErrClosed)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "liftlog.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("custom_exercises", `[{"id":"x"}]`))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("custom_exercises")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"x"}]`, value)
	assert.Equal(t, path, reopened.Path())
}

func TestBadgerInMemory(t *testing.T) {
	b, err := OpenBadgerInMemory()
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Set("k", "v"))
	v, ok, err := b.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
