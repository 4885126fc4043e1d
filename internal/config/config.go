package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvLogLevel        = "ICSEVENT_LOG_LEVEL"
	EnvProductID       = "ICSEVENT_PRODUCT_ID"
	EnvUIDDomain       = "ICSEVENT_UID_DOMAIN"
	EnvNominalDuration = "ICSEVENT_NOMINAL_DURATION"
	EnvSort            = "ICSEVENT_SORT"
	EnvStrict          = "ICSEVENT_STRICT"
	EnvCacheDir        = "ICSEVENT_CACHE_DIR"
	EnvFetchTimeout    = "ICSEVENT_FETCH_TIMEOUT"
)

const (
	defaultLogLevel        = "info"
	defaultProductID       = "-//icsevent//icsevent 1.0//EN"
	defaultNominalDuration = "1s"
	defaultFetchTimeout    = "15s"
)

// Config is the top-level tool configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// ProductID is written as PRODID on every calendar produced.
	ProductID string `yaml:"product_id" json:"product_id"`

	// UIDDomain, if set, is appended as "@domain" to generated UIDs.
	UIDDomain string `yaml:"uid_domain" json:"uid_domain"`

	// NominalDuration is the span reported for a timed event that has
	// neither an end nor a duration, in Go duration syntax.
	NominalDuration string `yaml:"nominal_duration" json:"nominal_duration"`

	// Sort orders events by begin, end and name before writing.
	Sort bool `yaml:"sort" json:"sort"`

	// Strict turns any skipped VEVENT into a failing exit status.
	Strict bool `yaml:"strict" json:"strict"`

	// CacheDir holds revalidation data for calendars fetched over HTTP.
	// Empty disables the cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// FetchTimeout bounds a single HTTP fetch, in Go duration syntax.
	FetchTimeout string `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        defaultLogLevel,
		ProductID:       defaultProductID,
		NominalDuration: defaultNominalDuration,
		Sort:            false,
		Strict:          false,
		CacheDir:        "",
		FetchTimeout:    defaultFetchTimeout,
	}
}

// Normalize fills in missing or unusable values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.ProductID) == "" {
		c.ProductID = defaultProductID
	}
	c.UIDDomain = strings.TrimPrefix(strings.TrimSpace(c.UIDDomain), "@")
	if d, err := time.ParseDuration(c.NominalDuration); err != nil || d < 0 {
		c.NominalDuration = defaultNominalDuration
	}
	if d, err := time.ParseDuration(c.FetchTimeout); err != nil || d <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
}

// Nominal returns NominalDuration parsed. Call Normalize first.
func (c *Config) Nominal() time.Duration {
	d, err := time.ParseDuration(c.NominalDuration)
	if err != nil {
		return time.Second
	}
	return d
}

// Timeout returns FetchTimeout parsed. Call Normalize first.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// ApplyEnv overrides fields from ICSEVENT_* environment variables. Unset or
// empty variables leave the field alone. It normalizes the result.
func (c *Config) ApplyEnv() error {
	strs := []struct {
		env string
		dst *string
	}{
		{EnvLogLevel, &c.LogLevel},
		{EnvProductID, &c.ProductID},
		{EnvUIDDomain, &c.UIDDomain},
		{EnvNominalDuration, &c.NominalDuration},
		{EnvCacheDir, &c.CacheDir},
		{EnvFetchTimeout, &c.FetchTimeout},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{EnvSort, &c.Sort},
		{EnvStrict, &c.Strict},
	}
	for _, b := range bools {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", b.env, err)
		}
		*b.dst = parsed
	}

	c.Normalize()
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file in the same directory,
// creating the directory (0700) if needed. The final file is 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".icsevent-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
