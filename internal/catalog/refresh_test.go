// ABOUTME: Tests for the remote catalog refresher using an httptest server.
// ABOUTME: Covers due checks, caching, failures and image downloads.
package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/liftlog/internal/kv"
)

const remoteJSON = `[{"id":"Remote_Curl","name":"Remote Curl","force":"pull","level":"beginner","primaryMuscles":["biceps"],"secondaryMuscles":[],"instructions":[],"category":"strength","images":["Remote_Curl/0.jpg"]}]`

func newTestServer(t *testing.T, catalogBody string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/dist/exercises.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(catalogBody))
	})
	mux.HandleFunc("/exercises/Remote_Curl/0.jpg", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpegbytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIsRefreshDue(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	assert.True(t, IsRefreshDue(now, time.Time{}, false, week), "never fetched")
	assert.False(t, IsRefreshDue(now, now.Add(-time.Hour), true, week), "fresh")
	assert.True(t, IsRefreshDue(now, now.Add(-week), true, week), "exactly one interval old")
	assert.True(t, IsRefreshDue(now, now.Add(-30*24*time.Hour), true, week), "stale")
}

func TestRefreshCachesCatalog(t *testing.T) {
	srv := newTestServer(t, remoteJSON, http.StatusOK)
	store := kv.NewMemory()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	r := NewRefresher(store, srv.URL, 0, nil).WithClock(func() time.Time { return now })

	require.True(t, r.RefreshDue())
	_, ok := r.Cached()
	require.False(t, ok)

	n, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stamp, ok, err := store.Get(LastFetchKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, strconv.FormatInt(now.Unix(), 10), stamp)
	assert.False(t, r.RefreshDue())

	cached, ok := r.Cached()
	require.True(t, ok)
	assert.True(t, cached.Contains("Remote_Curl"))

	resolved, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, resolved.Len())

	require.NoError(t, r.ClearFetchCache())
	assert.True(t, r.RefreshDue())
}

func TestRefreshRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"server error", remoteJSON, http.StatusInternalServerError},
		{"not found", "", http.StatusNotFound},
		{"empty body", "", http.StatusOK},
		{"empty array", "[]", http.StatusOK},
		{"malformed", "{", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.body, tt.status)
			store := kv.NewMemory()
			r := NewRefresher(store, srv.URL+"/", time.Hour, nil)

			_, err := r.Refresh(context.Background())
			require.Error(t, err)

			_, ok, _ := store.Get(LastFetchKey)
			assert.False(t, ok, "failed refresh must not record a fetch time")
			assert.True(t, r.RefreshDue())
		})
	}
}

func TestResolveFallsBackToEmbedded(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(CacheKey, "garbage"))
	r := NewRefresher(store, "", 0, nil)

	c, err := r.Resolve()
	require.NoError(t, err)
	assert.True(t, c.Contains("Barbell_Deadlift"))
}

func TestUnreadableFetchTime(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(LastFetchKey, "yesterday"))
	r := NewRefresher(store, "", 0, nil)

	_, ok := r.LastFetch()
	assert.False(t, ok)
	assert.True(t, r.RefreshDue())
}

func TestImageURLAndFetch(t *testing.T) {
	assert.Equal(t,
		"https://raw.githubusercontent.com/gfauredev/free-exercise-db/main/exercises/Pullups/0.jpg",
		ImageURL("", "Pullups/0.jpg"))
	assert.Equal(t, "http://x/exercises/a.jpg", ImageURL("http://x", "/a.jpg"))

	srv := newTestServer(t, remoteJSON, http.StatusOK)
	r := NewRefresher(kv.NewMemory(), srv.URL, 0, nil)

	data, err := r.FetchImage(context.Background(), "Remote_Curl/0.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	_, err = r.FetchImage(context.Background(), "missing.jpg")
	assert.Error(t, err)
}

func TestOversizedDownloadRejected(t *testing.T) {
	srv := newTestServer(t, remoteJSON, http.StatusOK)
	store := kv.NewMemory()
	r := NewRefresher(store, srv.URL, time.Hour, nil).WithMaxDownload(int64(len(remoteJSON) - 1))

	_, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	_, ok, _ := store.Get(CacheKey)
	assert.False(t, ok)

	data, err := r.WithMaxDownload(int64(len("jpegbytes"))).FetchImage(context.Background(), "Remote_Curl/0.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
}
