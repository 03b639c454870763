// ABOUTME: Periodic download of the remote exercise catalog into the KV cache.
// ABOUTME: Also fetches exercise images from the same upstream repository.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/liftlog/internal/kv"
)

const (
	// DefaultBaseURL is the raw content root of free-exercise-db.
	DefaultBaseURL = "https://raw.githubusercontent.com/gfauredev/free-exercise-db/main/"

	// DefaultRefreshInterval is how long a downloaded catalog stays fresh.
	DefaultRefreshInterval = 7 * 24 * time.Hour

	// LastFetchKey holds the unix seconds of the last successful download.
	LastFetchKey = "exercise_db_last_fetch"

	// CacheKey holds the last downloaded catalog JSON.
	CacheKey = "exercise_db_cache"

	// DefaultMaxDownload caps a single catalog or image download.
	DefaultMaxDownload int64 = 32 << 20
)

// ErrEmptyCatalog is returned when the remote catalog has no exercises.
var ErrEmptyCatalog = errors.New("remote catalog is empty")

// Refresher keeps a cached copy of the remote catalog in a KV store.
type Refresher struct {
	store    kv.Store
	client   *http.Client
	baseURL  string
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger
	maxBytes int64
}

// NewRefresher creates a refresher. Empty baseURL or zero interval use defaults.
func NewRefresher(store kv.Store, baseURL string, interval time.Duration, logger *log.Logger) *Refresher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Refresher{
		store:    store,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  baseURL,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		maxBytes: DefaultMaxDownload,
	}
}

// WithHTTPClient replaces the HTTP client.
func (r *Refresher) WithHTTPClient(c *http.Client) *Refresher {
	r.client = c
	return r
}

// WithClock replaces the time source.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// WithMaxDownload caps the size of a single download.
func (r *Refresher) WithMaxDownload(n int64) *Refresher {
	r.maxBytes = n
	return r
}

// CatalogURL is the location of the full catalog JSON.
func (r *Refresher) CatalogURL() string {
	return r.baseURL + "dist/exercises.json"
}

// ImageURL joins an exercise image path onto the base URL.
func ImageURL(baseURL, path string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + "exercises/" + strings.TrimPrefix(path, "/")
}

// LastFetch returns the time of the last successful download.
func (r *Refresher) LastFetch() (time.Time, bool) {
	raw, ok, err := r.store.Get(LastFetchKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		r.logger.Warn("ignoring unreadable catalog fetch time", "value", raw)
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

// RefreshDue reports whether no download happened within the interval.
func (r *Refresher) RefreshDue() bool {
	last, ok := r.LastFetch()
	return IsRefreshDue(r.now(), last, ok, r.interval)
}

// IsRefreshDue is the pure form of RefreshDue.
func IsRefreshDue(now, last time.Time, fetched bool, interval time.Duration) bool {
	if !fetched {
		return true
	}
	return now.Sub(last) >= interval
}

// Refresh downloads the catalog and caches it. It returns the exercise count.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	body, err := r.fetch(ctx, r.CatalogURL())
	if err != nil {
		return 0, err
	}
	c, err := FromJSON(body)
	if err != nil {
		return 0, err
	}
	if c.Len() == 0 {
		return 0, ErrEmptyCatalog
	}
	if err := r.store.Set(CacheKey, string(body)); err != nil {
		return 0, fmt.Errorf("cache catalog: %w", err)
	}
	stamp := strconv.FormatInt(r.now().Unix(), 10)
	if err := r.store.Set(LastFetchKey, stamp); err != nil {
		return 0, fmt.Errorf("record catalog fetch time: %w", err)
	}
	r.logger.Info("exercise catalog refreshed", "exercises", c.Len())
	return c.Len(), nil
}

// Cached returns the cached catalog if one parses.
func (r *Refresher) Cached() (*Catalog, bool) {
	raw, ok, err := r.store.Get(CacheKey)
	if err != nil || !ok {
		return nil, false
	}
	c, err := FromJSON([]byte(raw))
	if err != nil || c.Len() == 0 {
		r.logger.Warn("discarding unreadable catalog cache", "err", err)
		return nil, false
	}
	return c, true
}

// ClearFetchCache forgets the last fetch so the next start refreshes.
func (r *Refresher) ClearFetchCache() error {
	if err := r.store.Delete(LastFetchKey); err != nil {
		return fmt.Errorf("clear catalog fetch time: %w", err)
	}
	return nil
}

// Resolve returns the cached catalog, falling back to the embedded one.
func (r *Refresher) Resolve() (*Catalog, error) {
	if c, ok := r.Cached(); ok {
		return c, nil
	}
	return Load()
}

// FetchImage downloads an exercise image by its catalog-relative path.
func (r *Refresher) FetchImage(ctx context.Context, path string) ([]byte, error) {
	return r.fetch(ctx, ImageURL(r.baseURL, path))
}

func (r *Refresher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(body)) > r.maxBytes {
		return nil, fmt.Errorf("fetch %s: response exceeds %d bytes", url, r.maxBytes)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("fetch %s: empty response", url)
	}
	return body, nil
}
