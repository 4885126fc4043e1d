package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned an error: %v", err)
	}
	if cfg.ProductID != defaultProductID {
		t.Errorf("Expected ProductID to be %q, got %q", defaultProductID, cfg.ProductID)
	}
	if cfg.Nominal() != time.Second {
		t.Errorf("Expected Nominal() to be 1s, got %v", cfg.Nominal())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Expected mode 0600, got %o", perm)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: DEBUG
product_id: "-//Acme//Cal//EN"
uid_domain: "@acme.test"
nominal_duration: 0s
sort: true
strict: true
fetch_timeout: nonsense
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned an error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel to be 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.ProductID != "-//Acme//Cal//EN" {
		t.Errorf("Expected ProductID to be '-//Acme//Cal//EN', got '%s'", cfg.ProductID)
	}
	if cfg.UIDDomain != "acme.test" {
		t.Errorf("Expected UIDDomain to be 'acme.test', got '%s'", cfg.UIDDomain)
	}
	if cfg.Nominal() != 0 {
		t.Errorf("Expected Nominal() to be 0, got %v", cfg.Nominal())
	}
	if !cfg.Sort || !cfg.Strict {
		t.Errorf("Expected Sort and Strict to be true, got %v and %v", cfg.Sort, cfg.Strict)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("Expected an invalid fetch_timeout to fall back to 15s, got %v", cfg.Timeout())
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sort: [unterminated"), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected an error for invalid YAML")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvUIDDomain, "env.test")
	t.Setenv(EnvNominalDuration, "5m")
	t.Setenv(EnvSort, "true")
	t.Setenv(EnvCacheDir, "/tmp/ics-cache")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() returned an error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel to be 'warn', got '%s'", cfg.LogLevel)
	}
	if cfg.UIDDomain != "env.test" {
		t.Errorf("Expected UIDDomain to be 'env.test', got '%s'", cfg.UIDDomain)
	}
	if cfg.Nominal() != 5*time.Minute {
		t.Errorf("Expected Nominal() to be 5m, got %v", cfg.Nominal())
	}
	if !cfg.Sort || cfg.Strict {
		t.Errorf("Expected Sort true and Strict false, got %v and %v", cfg.Sort, cfg.Strict)
	}
	if cfg.CacheDir != "/tmp/ics-cache" {
		t.Errorf("Expected CacheDir to be '/tmp/ics-cache', got '%s'", cfg.CacheDir)
	}
}

func TestApplyEnvInvalidBool(t *testing.T) {
	t.Setenv(EnvStrict, "sometimes")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Fatal("Expected an error for a non-boolean ICSEVENT_STRICT")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.UIDDomain = "saved.test"
	cfg.Strict = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() returned an error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned an error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", *cfg, *loaded)
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".icsevent-config-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}
