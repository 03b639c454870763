// ABOUTME: Liftlog configuration management with backend selection.
// ABOUTME: Handles the JSON config file, LIFTLOG_* overrides, and the KV factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/kv"
)

// Backends accepted by OpenKV.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// DefaultListenAddr is where `liftlog serve` binds unless configured.
const DefaultListenAddr = "127.0.0.1:8740"

// Config stores liftlog configuration. Every field may be overridden by the
// environment variable in its env tag.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger",
	// "charm" or "memory".
	Backend string `json:"backend,omitempty" env:"LIFTLOG_BACKEND"`

	// DataDir is the root directory for data storage.
	// SQLite puts liftlog.db here, Badger a badger/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty" env:"LIFTLOG_DATA_DIR"`

	LogLevel  string `json:"log_level,omitempty" env:"LIFTLOG_LOG_LEVEL"`
	LogFormat string `json:"log_format,omitempty" env:"LIFTLOG_LOG_FORMAT"`

	// CatalogURL is the raw content root of the exercise database.
	CatalogURL string `json:"catalog_url,omitempty" env:"LIFTLOG_CATALOG_URL"`

	// RefreshIntervalHours is how often the catalog is re-downloaded.
	RefreshIntervalHours int `json:"refresh_interval_hours,omitempty" env:"LIFTLOG_REFRESH_INTERVAL_HOURS"`

	ListenAddr string `json:"listen_addr,omitempty" env:"LIFTLOG_LISTEN_ADDR"`

	// CharmHost is the charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty" env:"LIFTLOG_CHARM_HOST"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetLogFormat returns the log format, defaulting to "text".
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return "text"
	}
	return c.LogFormat
}

// GetCatalogURL returns the catalog base URL.
func (c *Config) GetCatalogURL() string {
	if c.CatalogURL == "" {
		return catalog.DefaultBaseURL
	}
	return c.CatalogURL
}

// GetRefreshInterval returns the catalog refresh interval, defaulting to a week.
func (c *Config) GetRefreshInterval() time.Duration {
	if c.RefreshIntervalHours <= 0 {
		return catalog.DefaultRefreshInterval
	}
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// DataDir returns the default data directory following the XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "liftlog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenKV opens the configured backend.
func (c *Config) OpenKV() (kv.Store, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend under the configured data directory.
func (c *Config) OpenBackend(backend string) (kv.Store, error) {
	dataDir := c.GetDataDir()

	switch strings.ToLower(backend) {
	case BackendSQLite:
		return kv.OpenSQLite(filepath.Join(dataDir, "liftlog.db"))
	case BackendBadger:
		return kv.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		return kv.OpenCharm("liftlog", c.CharmHost)
	case BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// BackendPath returns the on-disk location of a backend, or "" for
// backends that do not live in the data directory.
func (c *Config) BackendPath(backend string) string {
	switch strings.ToLower(backend) {
	case BackendSQLite:
		return filepath.Join(c.GetDataDir(), "liftlog.db")
	case BackendBadger:
		return filepath.Join(c.GetDataDir(), "badger")
	default:
		return ""
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	path := GetConfigPath()
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := cfg.ApplyEnv(environ()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the given environment. Unset variables
// leave the file value in place.
func (c *Config) ApplyEnv(environment map[string]string) error {
	if err := env.Parse(c, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, pair := range os.Environ() {
		if k, v, ok := strings.Cut(pair, "="); ok {
			out[k] = v
		}
	}
	return out
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
